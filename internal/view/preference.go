package view

import (
	"fmt"
	"time"

	"feline-finder/internal/data/entity"
	"feline-finder/internal/domain"
	"feline-finder/pkg/utils"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type SortField string

const (
	SortNone       SortField = ""
	SortAdopter    SortField = "adopter"
	SortCat        SortField = "cat"
	SortVolunteer  SortField = "volunteer"
	SortSummary    SortField = "summary"
	SortStatus     SortField = "status"
	SortStart      SortField = "start"
	SortEnd        SortField = "end"
	SortCalendarID SortField = "calendarId"
)

func (f SortField) Valid() bool {
	switch f {
	case SortNone, SortAdopter, SortCat, SortVolunteer, SortSummary, SortStatus, SortStart, SortEnd, SortCalendarID:
		return true
	}
	return false
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// FilterField names one filter input for SetFilter/ClearFilter.
type FilterField string

const (
	FilterAdopter     FilterField = "adopter"
	FilterCat         FilterField = "cat"
	FilterVolunteer   FilterField = "volunteer"
	FilterFrom        FilterField = "from"
	FilterTo          FilterField = "to"
	FilterStatus      FilterField = "status"
	FilterStatusGroup FilterField = "statusGroup"
)

// Filter holds the per-field predicates; zero values match everything.
type Filter struct {
	Adopter     string               `json:"adopter,omitempty"`
	Cat         string               `json:"cat,omitempty"`
	Volunteer   string               `json:"volunteer,omitempty"`
	From        *time.Time           `json:"from,omitempty"`
	To          *time.Time           `json:"to,omitempty"`
	Status      entity.BookingStatus `json:"status,omitempty"`
	StatusGroup StatusGroup          `json:"statusGroup,omitempty"`
}

// Preference is the named bundle a staff user saves and reloads.
type Preference struct {
	Filter        Filter        `json:"filter"`
	SortField     SortField     `json:"sortField,omitempty"`
	SortDirection SortDirection `json:"sortDirection,omitempty"`
	PageSize      int           `json:"pageSize,omitempty"`
	WorkflowSort  bool          `json:"workflowSort"`
}

// Validate rejects values the composer cannot interpret.
func (p Preference) Validate() error {
	fields := map[string]string{}
	if p.Filter.Status != "" && !p.Filter.Status.Valid() {
		fields["filter.status"] = fmt.Sprintf("unknown status %q", p.Filter.Status)
	}
	if p.Filter.StatusGroup != "" && !p.Filter.StatusGroup.Valid() {
		fields["filter.statusGroup"] = fmt.Sprintf("unknown status group %q", p.Filter.StatusGroup)
	}
	if !p.SortField.Valid() {
		fields["sortField"] = fmt.Sprintf("unknown sort field %q", p.SortField)
	}
	if p.SortDirection != "" && p.SortDirection != SortAsc && p.SortDirection != SortDesc {
		fields["sortDirection"] = "must be one of: asc, desc"
	}
	if p.PageSize < 0 || p.PageSize > MaxPageSize {
		fields["pageSize"] = fmt.Sprintf("must be between 1 and %d", MaxPageSize)
	}
	if p.Filter.From != nil && p.Filter.To != nil && p.Filter.To.Before(*p.Filter.From) {
		fields["filter.to"] = "must not be before from"
	}
	if len(fields) > 0 {
		return domain.ValidationError{Fields: fields}
	}
	return nil
}

// Normalized fills defaults. A bundle carrying both a status and a status group keeps
// the status, the narrower of the two.
func (p Preference) Normalized() Preference {
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if p.SortDirection != SortDesc {
		p.SortDirection = SortAsc
	}
	if p.Filter.Status != "" && p.Filter.StatusGroup != "" {
		p.Filter.StatusGroup = ""
	}
	return p
}

// State is a preference plus the page being looked at.
type State struct {
	Preference
	CurrentPage int `json:"currentPage"`
}

func NewState(pref Preference) State {
	return State{Preference: pref.Normalized(), CurrentPage: 1}
}

// SetStatus filters on one status and drops any status-group filter.
func (s *State) SetStatus(status entity.BookingStatus) {
	s.Filter.Status = status
	if status != "" {
		s.Filter.StatusGroup = ""
	}
}

// SetStatusGroup filters on a status group and drops any single-status filter.
func (s *State) SetStatusGroup(group StatusGroup) {
	s.Filter.StatusGroup = group
	if group != "" {
		s.Filter.Status = ""
	}
}

// SetPageSize always sends the user back to the first page.
func (s *State) SetPageSize(size int) {
	s.PageSize = size
	s.Preference = s.Preference.Normalized()
	s.CurrentPage = 1
}

func (s *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.CurrentPage = page
}

func (s *State) SetSort(field SortField, dir SortDirection) {
	s.SortField = field
	s.SortDirection = dir
	s.Preference = s.Preference.Normalized()
}

// SetFilter sets one filter field from its text form. Dates accept RFC3339 or
// YYYY-MM-DD; a bare "to" date covers the whole day.
func (s *State) SetFilter(field FilterField, value string) error {
	switch field {
	case FilterAdopter:
		s.Filter.Adopter = value
	case FilterCat:
		s.Filter.Cat = value
	case FilterVolunteer:
		s.Filter.Volunteer = value
	case FilterFrom, FilterTo:
		t, err := utils.ParseDateParam(value, field == FilterTo)
		if err != nil {
			return domain.NewValidationError(string(field), "must be YYYY-MM-DD or RFC3339")
		}
		if field == FilterFrom {
			s.Filter.From = t
		} else {
			s.Filter.To = t
		}
	case FilterStatus:
		status := entity.BookingStatus(value)
		if value != "" && !status.Valid() {
			return domain.NewValidationError(string(field), fmt.Sprintf("unknown status %q", value))
		}
		s.SetStatus(status)
	case FilterStatusGroup:
		group := StatusGroup(value)
		if value != "" && !group.Valid() {
			return domain.NewValidationError(string(field), fmt.Sprintf("unknown status group %q", value))
		}
		s.SetStatusGroup(group)
	default:
		return domain.NewValidationError("field", fmt.Sprintf("unknown filter field %q", field))
	}
	return nil
}

// ClearFilter resets exactly one filter field.
func (s *State) ClearFilter(field FilterField) {
	switch field {
	case FilterAdopter:
		s.Filter.Adopter = ""
	case FilterCat:
		s.Filter.Cat = ""
	case FilterVolunteer:
		s.Filter.Volunteer = ""
	case FilterFrom:
		s.Filter.From = nil
	case FilterTo:
		s.Filter.To = nil
	case FilterStatus:
		s.Filter.Status = ""
	case FilterStatusGroup:
		s.Filter.StatusGroup = ""
	}
}
