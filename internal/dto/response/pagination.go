package response

import "feline-finder/pkg/utils"

type PaginatedResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// PaginationMeta is shared by the plain booking list and the composed view.
type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

func NewPaginationMeta(total int64, page, perPage int) PaginationMeta {
	return PaginationMeta{
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: utils.CalculateTotalPages(total, perPage),
	}
}

func NewPaginatedResponse[T any](data []T, page, perPage int, total int64) *PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}
	return &PaginatedResponse[T]{
		Data:       data,
		Pagination: NewPaginationMeta(total, page, perPage),
	}
}
