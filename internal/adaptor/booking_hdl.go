package adaptor

import (
	"encoding/json"
	"net/http"

	"feline-finder/internal/dto/request"
	"feline-finder/internal/dto/response"
	"feline-finder/internal/usecase"
	"feline-finder/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	orgID, _, ok := caller(w, r)
	if !ok {
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), orgID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// GetBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	orgID, _, ok := caller(w, r)
	if !ok {
		return
	}
	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(r.Context(), orgID, bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ListBookings handles GET /api/bookings
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	orgID, _, ok := caller(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.ListBookings(r.Context(), orgID, request.PaginatedRequestFromQuery(r.URL.Query()))
	if err != nil {
		handleServiceError(h.log, w, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// UpdateBooking handles PATCH /api/bookings/{id}
func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	orgID, _, ok := caller(w, r)
	if !ok {
		return
	}
	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}

	var req request.UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	res, err := h.service.UpdateBooking(r.Context(), orgID, bookingID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update booking")
		return
	}

	writeActionResponse(w, res)
}

// ApplyAction handles POST /api/bookings/{id}/actions
func (h *BookingHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	orgID, _, ok := caller(w, r)
	if !ok {
		return
	}
	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}

	var req request.ApplyActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	res, err := h.service.ApplyAction(r.Context(), orgID, bookingID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "apply action")
		return
	}

	writeActionResponse(w, res)
}

// RetrySideEffect handles POST /api/bookings/{id}/side-effects/retry
func (h *BookingHandler) RetrySideEffect(w http.ResponseWriter, r *http.Request) {
	orgID, _, ok := caller(w, r)
	if !ok {
		return
	}
	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}

	var req request.RetrySideEffectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	res, err := h.service.RetrySideEffect(r.Context(), orgID, bookingID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "retry side effect")
		return
	}

	writeActionResponse(w, res)
}

// History handles GET /api/bookings/{id}/history
func (h *BookingHandler) History(w http.ResponseWriter, r *http.Request) {
	orgID, _, ok := caller(w, r)
	if !ok {
		return
	}
	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}

	events, err := h.service.History(r.Context(), orgID, bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "get booking history")
		return
	}

	utils.ResponseSuccess(w, "success", events)
}

func bookingIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

// writeActionResponse reports a committed status change. Side-effect failures do not
// undo the write, so they come back as a 200 with the outcome's error list filled in.
func writeActionResponse(w http.ResponseWriter, res *response.ActionResponse) {
	message := "success"
	if len(res.Outcome.Errors) > 0 {
		message = "saved with side-effect errors"
	}
	utils.ResponseSuccess(w, message, res)
}
