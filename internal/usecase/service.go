package usecase

import (
	"feline-finder/internal/data/repository"
	"feline-finder/internal/lifecycle"

	"go.uber.org/zap"
)

type Service struct {
	Booking BookingService
	View    ViewService
}

func NewService(repo *repository.Repository, engine *lifecycle.Engine, log *zap.Logger) *Service {
	return &Service{
		Booking: NewBookingService(repo, engine, log),
		View:    NewViewService(repo, log),
	}
}
