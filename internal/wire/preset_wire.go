package wire

import (
	"feline-finder/internal/adaptor"
	"feline-finder/internal/data/repository"
	"feline-finder/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePreset(
	r chi.Router,
	viewHandler *adaptor.ViewHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// Saved view presets belong to the calling staff user
	r.Route("/api/presets", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Staff(log))

		r.Get("/", viewHandler.ListPresets)
		r.Get("/{name}", viewHandler.GetPreset)
		r.Put("/{name}", viewHandler.SavePreset)
		r.Delete("/{name}", viewHandler.DeletePreset)
	})
}
