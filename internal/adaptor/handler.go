package adaptor

import (
	"errors"
	"net/http"

	"feline-finder/internal/domain"
	"feline-finder/internal/usecase"
	"feline-finder/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Booking *BookingHandler
	View    *ViewHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking: NewBookingHandler(service.Booking, log),
		View:    NewViewHandler(service.View, log),
	}
}

// caller reads the organization and staff user put in the context by AuthSession.
func caller(w http.ResponseWriter, r *http.Request) (orgID, userID uuid.UUID, ok bool) {
	orgID, okOrg := utils.GetOrgIDFromContext(r.Context())
	userID, okUser := utils.GetUserIDFromContext(r.Context())
	if !okOrg || !okUser {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	return orgID, userID, true
}

// handleServiceError maps the domain error taxonomy onto HTTP status codes.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var (
		notFound   domain.NotFoundError
		validation domain.ValidationError
		transition domain.InvalidTransitionError
	)

	switch {
	case errors.As(err, &notFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, notFound.Error())

	case errors.As(err, &validation):
		log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		var fields any
		if len(validation.Fields) > 0 {
			fields = validation.Fields
		}
		utils.ResponseBadRequest(w, validation.Error(), fields)

	case errors.As(err, &transition):
		log.Warn(operation+" failed - invalid transition",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, transition.Error(), nil)

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
