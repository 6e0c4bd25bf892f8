package request

import "feline-finder/internal/view"

// ViewQuery is the text form of a view request. Empty fields leave the base
// preference (a named preset or the defaults) untouched.
type ViewQuery struct {
	Preset        string
	Adopter       string
	Cat           string
	Volunteer     string
	From          string
	To            string
	Status        string
	StatusGroup   string
	SortField     string
	SortDirection string
	WorkflowSort  *bool
	PageSize      int
	Page          int
}

type SavePresetRequest struct {
	view.Preference
}
