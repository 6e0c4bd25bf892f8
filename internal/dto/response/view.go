package response

import "feline-finder/internal/view"

type GroupResponse struct {
	CalendarID int64             `json:"calendar_id"`
	Summary    string            `json:"summary,omitempty"`
	Shared     bool              `json:"shared"`
	Bookings   []BookingResponse `json:"bookings"`
}

type ViewResponse struct {
	Groups     []GroupResponse `json:"groups"`
	Empty      bool            `json:"empty"`
	Pagination PaginationMeta  `json:"pagination"`
	Preference view.Preference `json:"preference"`
}

type PresetResponse struct {
	Name       string          `json:"name"`
	Preference view.Preference `json:"preference"`
}

func PageToResponse(page view.Page, pref view.Preference) *ViewResponse {
	groups := make([]GroupResponse, 0, len(page.Groups))
	for _, g := range page.Groups {
		bookings := make([]BookingResponse, 0, len(g.Bookings))
		for i := range g.Bookings {
			bookings = append(bookings, BookingToResponse(&g.Bookings[i]))
		}
		gr := GroupResponse{
			CalendarID: g.CalendarID,
			Shared:     g.Shared(),
			Bookings:   bookings,
		}
		if gr.Shared {
			gr.Summary = g.Summary
		}
		groups = append(groups, gr)
	}

	return &ViewResponse{
		Groups: groups,
		Empty:  page.Empty,
		Pagination: NewPaginationMeta(int64(page.Total), page.CurrentPage, page.PageSize),
		Preference: pref,
	}
}
