package repository

import (
	"time"

	"feline-finder/pkg/database"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type Repository struct {
	Session     SessionRepository
	Booking     BookingRepository
	StatusEvent StatusEventRepository
	Preset      PresetRepository
}

func NewRepository(db database.PgxIface, rdb *redis.Client, presetTTL time.Duration, log *zap.Logger) *Repository {
	return &Repository{
		Session:     NewSessionRepository(db, log),
		Booking:     NewBookingRepository(db, log),
		StatusEvent: NewStatusEventRepository(db, log),
		Preset:      NewPresetRepository(rdb, presetTTL, log),
	}
}
