package usecase

import (
	"context"
	"time"

	"feline-finder/internal/data/entity"
	"feline-finder/internal/data/repository"
	"feline-finder/internal/domain"
	"feline-finder/internal/dto/request"
	"feline-finder/internal/dto/response"
	"feline-finder/internal/lifecycle"
	"feline-finder/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, orgID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, orgID, bookingID uuid.UUID) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, orgID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	UpdateBooking(ctx context.Context, orgID, bookingID uuid.UUID, req *request.UpdateBookingRequest) (*response.ActionResponse, error)

	// Lifecycle
	ApplyAction(ctx context.Context, orgID, bookingID uuid.UUID, req *request.ApplyActionRequest) (*response.ActionResponse, error)
	RetrySideEffect(ctx context.Context, orgID, bookingID uuid.UUID, req *request.RetrySideEffectRequest) (*response.ActionResponse, error)
	History(ctx context.Context, orgID, bookingID uuid.UUID) ([]response.StatusEventResponse, error)
}

type bookingService struct {
	repo   *repository.Repository
	engine *lifecycle.Engine
	log    *zap.Logger
	now    func() time.Time
}

func NewBookingService(repo *repository.Repository, engine *lifecycle.Engine, log *zap.Logger) BookingService {
	return &bookingService{
		repo:   repo,
		engine: engine,
		log:    log.With(zap.String("service", "booking")),
		now:    time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, orgID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, domain.ValidationError{Fields: errs}
	}
	if !req.StartTime.Before(req.EndTime) {
		return nil, domain.NewValidationError("end_time", "must be after start_time")
	}

	now := s.now().UTC()
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		OrgID:        orgID,
		Adopter:      entity.Ref(req.Adopter),
		Cat:          entity.Ref(req.Cat),
		Volunteer:    entity.Ref(req.Volunteer),
		StartTime:    req.StartTime,
		StartTZ:      req.StartTZ,
		EndTime:      req.EndTime,
		EndTZ:        req.EndTZ,
		CalendarID:   req.CalendarID,
		Summary:      req.Summary,
		Status:       entity.BookingStatusPendingShelterSetup,
		Notes:        req.Notes,
	}
	if errs := utils.ValidateStruct(booking); len(errs) > 0 {
		return nil, domain.ValidationError{Fields: errs}
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("org_id", orgID.String()),
		zap.Int64("calendar_id", booking.CalendarID),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetBooking(ctx context.Context, orgID, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.find(ctx, orgID, bookingID)
	if err != nil {
		return nil, err
	}
	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// ListBookings pages through the organization's bookings in creation order. Sorted and
// grouped listings go through ViewService instead.
func (s *bookingService) ListBookings(ctx context.Context, orgID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	total := len(bookings)
	offset := min(req.Offset(), total)
	end := min(offset+req.Limit(), total)

	data := make([]response.BookingResponse, 0, end-offset)
	for i := offset; i < end; i++ {
		data = append(data, response.BookingToResponse(&bookings[i]))
	}

	return response.NewPaginatedResponse(data, req.CurrentPage(), req.Limit(), int64(total)), nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, orgID, bookingID uuid.UUID, req *request.UpdateBookingRequest) (*response.ActionResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, domain.ValidationError{Fields: errs}
	}

	patch := entity.BookingPatch{
		Notes:     req.Notes,
		Summary:   req.Summary,
		StartTime: req.StartTime,
		StartTZ:   req.StartTZ,
		EndTime:   req.EndTime,
		EndTZ:     req.EndTZ,
	}
	res, err := s.engine.UpdateDetails(ctx, orgID, bookingID, patch)
	if err != nil {
		return nil, err
	}
	return response.ResultToResponse(res), nil
}

func (s *bookingService) ApplyAction(ctx context.Context, orgID, bookingID uuid.UUID, req *request.ApplyActionRequest) (*response.ActionResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, domain.ValidationError{Fields: errs}
	}

	action, ok := lifecycle.ParseAction(req.Action)
	if !ok {
		return nil, domain.InvalidTransitionError{Action: req.Action}
	}

	var params lifecycle.Params
	if req.Volunteer != nil {
		ref := entity.Ref(*req.Volunteer)
		params.Volunteer = &ref
	}

	res, err := s.engine.ApplyAction(ctx, orgID, bookingID, action, params)
	if err != nil {
		return nil, err
	}
	return response.ResultToResponse(res), nil
}

// RetrySideEffect re-runs one calendar or email call on staff request ("resend").
func (s *bookingService) RetrySideEffect(ctx context.Context, orgID, bookingID uuid.UUID, req *request.RetrySideEffectRequest) (*response.ActionResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, domain.ValidationError{Fields: errs}
	}

	effect := lifecycle.Effect{
		Kind:     domain.SideEffect(req.Kind),
		Calendar: lifecycle.CalendarAction(req.CalendarAction),
		Message:  lifecycle.MessageType(req.MessageType),
	}
	res, err := s.engine.RetrySideEffect(ctx, orgID, bookingID, effect, "")
	if err != nil {
		return nil, err
	}

	s.log.Info("Side effect re-run by staff",
		zap.String("booking_id", bookingID.String()),
		zap.String("effect", effect.String()),
		zap.Int("errors", len(res.Outcome.Errors)),
	)
	return response.ResultToResponse(res), nil
}

func (s *bookingService) History(ctx context.Context, orgID, bookingID uuid.UUID) ([]response.StatusEventResponse, error) {
	if _, err := s.find(ctx, orgID, bookingID); err != nil {
		return nil, err
	}

	events, err := s.repo.StatusEvent.ListByBooking(ctx, orgID, bookingID)
	if err != nil {
		return nil, err
	}

	out := make([]response.StatusEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, response.StatusEventToResponse(ev))
	}
	return out, nil
}

func (s *bookingService) find(ctx context.Context, orgID, bookingID uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, orgID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.NotFoundError{Resource: "booking", ID: bookingID.String()}
	}
	return booking, nil
}
