package view

import (
	"cmp"
	"slices"
	"strings"

	"feline-finder/internal/data/entity"
	"feline-finder/pkg/utils"
)

// Group is a run of adjacent bookings that share a calendar event.
type Group struct {
	CalendarID int64
	Summary    string
	Bookings   []entity.Booking
}

// Shared reports whether the run gets a summary header (more than one booking).
func (g Group) Shared() bool {
	return len(g.Bookings) > 1
}

type Page struct {
	Groups      []Group
	Total       int
	PageSize    int
	CurrentPage int
	TotalPages  int
	Empty       bool
}

// Bookings flattens the page's groups back into display order.
func (p Page) Bookings() []entity.Booking {
	var out []entity.Booking
	for _, g := range p.Groups {
		out = append(out, g.Bookings...)
	}
	return out
}

// Compose filters, sorts, paginates and groups. Grouping runs over the page slice only,
// so a run may continue on the next page under its own header.
func Compose(bookings []entity.Booking, state State) Page {
	pref := state.Preference.Normalized()
	arranged := Arrange(bookings, pref)

	total := len(arranged)
	totalPages := utils.CalculateTotalPages(int64(total), pref.PageSize)
	current := utils.ClampPage(state.CurrentPage, totalPages)

	start := utils.CalculateOffset(current, pref.PageSize)
	end := min(start+pref.PageSize, total)
	if start > total {
		start = total
	}

	return Page{
		Groups:      GroupRuns(arranged[start:end]),
		Total:       total,
		PageSize:    pref.PageSize,
		CurrentPage: current,
		TotalPages:  totalPages,
		Empty:       total == 0,
	}
}

// Arrange returns the filtered bookings in display order without paginating. The input
// slice is not modified.
func Arrange(bookings []entity.Booking, pref Preference) []entity.Booking {
	pref = pref.Normalized()

	out := make([]entity.Booking, 0, len(bookings))
	for _, b := range bookings {
		if matches(b, pref.Filter) {
			out = append(out, b)
		}
	}

	slices.SortStableFunc(out, func(a, b entity.Booking) int {
		return compareBookings(a, b, pref)
	})
	return out
}

// GroupRuns opens a new group whenever the calendar id differs from the previous
// booking's. Equal ids separated by another id stay in separate groups.
func GroupRuns(sorted []entity.Booking) []Group {
	groups := []Group{}
	for _, b := range sorted {
		last := len(groups) - 1
		if last >= 0 && groups[last].CalendarID == b.CalendarID {
			groups[last].Bookings = append(groups[last].Bookings, b)
			continue
		}
		groups = append(groups, Group{
			CalendarID: b.CalendarID,
			Summary:    b.Summary,
			Bookings:   []entity.Booking{b},
		})
	}
	return groups
}

func matches(b entity.Booking, f Filter) bool {
	if !containsFold(b.Adopter.Name, f.Adopter) ||
		!containsFold(b.Cat.Name, f.Cat) ||
		!containsFold(b.Volunteer.Name, f.Volunteer) {
		return false
	}
	if f.From != nil && b.StartTime.Before(*f.From) {
		return false
	}
	if f.To != nil && b.StartTime.After(*f.To) {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.StatusGroup != "" && !f.StatusGroup.Contains(b.Status) {
		return false
	}
	return true
}

func containsFold(value, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(query))
}

// compareBookings: workflow rank (when enabled), then the user's field, then ascending
// calendar id. Ties beyond that keep input order through the stable sort.
func compareBookings(a, b entity.Booking, pref Preference) int {
	if pref.WorkflowSort {
		if c := cmp.Compare(WorkflowRank(a.Status), WorkflowRank(b.Status)); c != 0 {
			return c
		}
	}

	if pref.SortField != SortNone {
		c := compareField(a, b, pref.SortField)
		if pref.SortDirection == SortDesc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}

	return cmp.Compare(a.CalendarID, b.CalendarID)
}

func compareField(a, b entity.Booking, field SortField) int {
	switch field {
	case SortAdopter:
		return compareFold(a.Adopter.Name, b.Adopter.Name)
	case SortCat:
		return compareFold(a.Cat.Name, b.Cat.Name)
	case SortVolunteer:
		return compareFold(a.Volunteer.Name, b.Volunteer.Name)
	case SortSummary:
		return compareFold(a.Summary, b.Summary)
	case SortStatus:
		return compareFold(string(a.Status), string(b.Status))
	case SortStart:
		return a.StartTime.Compare(b.StartTime)
	case SortEnd:
		return a.EndTime.Compare(b.EndTime)
	case SortCalendarID:
		return cmp.Compare(a.CalendarID, b.CalendarID)
	}
	return 0
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
