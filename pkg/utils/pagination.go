package utils

func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

func CalculateOffset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}

// ClampPage keeps page inside [1, totalPages]; an empty result stays on page 1.
func ClampPage(page, totalPages int) int {
	if page < 1 || totalPages == 0 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
