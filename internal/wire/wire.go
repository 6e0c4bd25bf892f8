// internal/wire/wire.go
package wire

import (
	"net/http"

	"feline-finder/internal/adaptor"
	"feline-finder/internal/data/repository"
	"feline-finder/internal/lifecycle"
	"feline-finder/internal/usecase"
	"feline-finder/pkg/middleware"
	"feline-finder/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the wired HTTP surface
type App struct {
	Router *chi.Mux
}

// Wiring builds services and handlers on top of the repositories and the lifecycle engine
func Wiring(repo *repository.Repository, engine *lifecycle.Engine, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, engine, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))
	r.Use(middleware.RateLimit(config.RateLimit.PerMinute, config.RateLimit.Burst, logger))

	wireBooking(r, handler.Booking, handler.View, repo, logger)
	wirePreset(r, handler.View, repo, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
