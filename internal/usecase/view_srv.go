package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"feline-finder/internal/data/repository"
	"feline-finder/internal/domain"
	"feline-finder/internal/dto/request"
	"feline-finder/internal/dto/response"
	"feline-finder/internal/view"
	"feline-finder/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

type ViewService interface {
	Compose(ctx context.Context, orgID, userID uuid.UUID, q *request.ViewQuery) (*response.ViewResponse, error)
	Export(ctx context.Context, orgID, userID uuid.UUID, q *request.ViewQuery, format ExportFormat, w io.Writer) error

	// Presets
	ListPresets(ctx context.Context, orgID, userID uuid.UUID) ([]response.PresetResponse, error)
	GetPreset(ctx context.Context, orgID, userID uuid.UUID, name string) (*response.PresetResponse, error)
	SavePreset(ctx context.Context, orgID, userID uuid.UUID, name string, req *request.SavePresetRequest) (*response.PresetResponse, error)
	DeletePreset(ctx context.Context, orgID, userID uuid.UUID, name string) error
}

type viewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewViewService(repo *repository.Repository, log *zap.Logger) ViewService {
	return &viewService{
		repo: repo,
		log:  log.With(zap.String("service", "view")),
	}
}

// DefaultPreference applies when no preset is named.
func DefaultPreference() view.Preference {
	return view.Preference{WorkflowSort: true}.Normalized()
}

func (s *viewService) Compose(ctx context.Context, orgID, userID uuid.UUID, q *request.ViewQuery) (*response.ViewResponse, error) {
	state, err := s.resolveState(ctx, orgID, userID, q)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.Booking.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	page := view.Compose(bookings, state)
	return response.PageToResponse(page, state.Preference), nil
}

// Export writes the whole filtered and sorted sequence, ignoring pagination.
func (s *viewService) Export(ctx context.Context, orgID, userID uuid.UUID, q *request.ViewQuery, format ExportFormat, w io.Writer) error {
	state, err := s.resolveState(ctx, orgID, userID, q)
	if err != nil {
		return err
	}

	bookings, err := s.repo.Booking.ListByOrg(ctx, orgID)
	if err != nil {
		return err
	}
	arranged := view.Arrange(bookings, state.Preference)

	switch format {
	case ExportCSV:
		err = view.WriteCSV(w, arranged)
	case ExportPDF:
		err = view.WritePDF(w, "Adoption bookings", arranged)
	default:
		return domain.NewValidationError("format", "must be one of: csv, pdf")
	}
	if err != nil {
		s.log.Error("Failed to write export", zap.String("format", string(format)), zap.Error(err))
		return fmt.Errorf("write %s export: %w", format, err)
	}

	s.log.Info("Bookings exported",
		zap.String("org_id", orgID.String()),
		zap.String("format", string(format)),
		zap.Int("rows", len(arranged)),
	)
	return nil
}

// resolveState starts from the named preset (or the defaults) and overlays the query.
// Order matters: SetPageSize resets the page, so the page is applied last.
func (s *viewService) resolveState(ctx context.Context, orgID, userID uuid.UUID, q *request.ViewQuery) (view.State, error) {
	pref := DefaultPreference()
	if q.Preset != "" {
		loaded, err := s.loadPreset(ctx, orgID, userID, q.Preset)
		if err != nil {
			return view.State{}, err
		}
		pref = loaded
	}

	state := view.NewState(pref)
	filters := []struct {
		field view.FilterField
		value string
	}{
		{view.FilterAdopter, q.Adopter},
		{view.FilterCat, q.Cat},
		{view.FilterVolunteer, q.Volunteer},
		{view.FilterFrom, q.From},
		{view.FilterTo, q.To},
		{view.FilterStatus, q.Status},
		{view.FilterStatusGroup, q.StatusGroup},
	}
	for _, f := range filters {
		if f.value == "" {
			continue
		}
		if err := state.SetFilter(f.field, f.value); err != nil {
			return view.State{}, err
		}
	}

	if q.SortField != "" || q.SortDirection != "" {
		field := state.SortField
		if q.SortField != "" {
			field = view.SortField(q.SortField)
		}
		dir := state.SortDirection
		if q.SortDirection != "" {
			dir = view.SortDirection(q.SortDirection)
		}
		state.SortField = field
		state.SortDirection = dir
	}
	if q.WorkflowSort != nil {
		state.WorkflowSort = *q.WorkflowSort
	}

	// validate before SetSort/SetPageSize normalize bad values away
	check := state.Preference
	if q.PageSize != 0 {
		check.PageSize = q.PageSize
	}
	if err := check.Validate(); err != nil {
		return view.State{}, err
	}

	state.SetSort(state.SortField, state.SortDirection)
	if q.PageSize != 0 {
		state.SetPageSize(q.PageSize)
	}
	if q.Page != 0 {
		state.SetPage(q.Page)
	}
	return state, nil
}

func (s *viewService) loadPreset(ctx context.Context, orgID, userID uuid.UUID, name string) (view.Preference, error) {
	data, err := s.repo.Preset.Load(ctx, orgID, userID, name)
	if err != nil {
		return view.Preference{}, err
	}
	var pref view.Preference
	if err := json.Unmarshal(data, &pref); err != nil {
		s.log.Warn("Stored preset is unreadable", zap.String("preset", name), zap.Error(err))
		return view.Preference{}, fmt.Errorf("decode preset %q: %w", name, err)
	}
	return pref.Normalized(), nil
}

func (s *viewService) ListPresets(ctx context.Context, orgID, userID uuid.UUID) ([]response.PresetResponse, error) {
	all, err := s.repo.Preset.List(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]response.PresetResponse, 0, len(names))
	for _, name := range names {
		var pref view.Preference
		if err := json.Unmarshal(all[name], &pref); err != nil {
			s.log.Warn("Skipping unreadable preset", zap.String("preset", name), zap.Error(err))
			continue
		}
		out = append(out, response.PresetResponse{Name: name, Preference: pref.Normalized()})
	}
	return out, nil
}

func (s *viewService) GetPreset(ctx context.Context, orgID, userID uuid.UUID, name string) (*response.PresetResponse, error) {
	if err := validatePresetName(name); err != nil {
		return nil, err
	}
	pref, err := s.loadPreset(ctx, orgID, userID, name)
	if err != nil {
		return nil, err
	}
	return &response.PresetResponse{Name: name, Preference: pref}, nil
}

func (s *viewService) SavePreset(ctx context.Context, orgID, userID uuid.UUID, name string, req *request.SavePresetRequest) (*response.PresetResponse, error) {
	if err := validatePresetName(name); err != nil {
		return nil, err
	}
	if err := req.Preference.Validate(); err != nil {
		return nil, err
	}

	pref := req.Preference.Normalized()
	data, err := json.Marshal(pref)
	if err != nil {
		return nil, fmt.Errorf("encode preset %q: %w", name, err)
	}
	if err := s.repo.Preset.Save(ctx, orgID, userID, name, data); err != nil {
		return nil, err
	}

	s.log.Info("Preset saved", zap.String("user_id", userID.String()), zap.String("preset", name))
	return &response.PresetResponse{Name: name, Preference: pref}, nil
}

func (s *viewService) DeletePreset(ctx context.Context, orgID, userID uuid.UUID, name string) error {
	if err := validatePresetName(name); err != nil {
		return err
	}
	return s.repo.Preset.Delete(ctx, orgID, userID, name)
}

func validatePresetName(name string) error {
	if err := utils.Validator().Var(name, "required,max=64,printascii"); err != nil {
		return domain.NewValidationError("name", "must be 1-64 printable ASCII characters")
	}
	return nil
}
