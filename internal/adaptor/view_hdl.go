package adaptor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"feline-finder/internal/dto/request"
	"feline-finder/internal/usecase"
	"feline-finder/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ViewHandler struct {
	service usecase.ViewService
	log     *zap.Logger
	now     func() time.Time
}

func NewViewHandler(service usecase.ViewService, log *zap.Logger) *ViewHandler {
	return &ViewHandler{
		service: service,
		log:     log.With(zap.String("handler", "view")),
		now:     time.Now,
	}
}

// View handles GET /api/bookings/view
func (h *ViewHandler) View(w http.ResponseWriter, r *http.Request) {
	orgID, userID, ok := caller(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Compose(r.Context(), orgID, userID, parseViewQuery(r.URL.Query()))
	if err != nil {
		handleServiceError(h.log, w, err, "compose view")
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// ExportCSV handles GET /api/bookings/export.csv
func (h *ViewHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, usecase.ExportCSV, "text/csv; charset=utf-8")
}

// ExportPDF handles GET /api/bookings/export.pdf
func (h *ViewHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, usecase.ExportPDF, "application/pdf")
}

func (h *ViewHandler) export(w http.ResponseWriter, r *http.Request, format usecase.ExportFormat, contentType string) {
	orgID, userID, ok := caller(w, r)
	if !ok {
		return
	}

	// buffered so a failed export can still answer with a JSON error
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), orgID, userID, parseViewQuery(r.URL.Query()), format, &buf); err != nil {
		handleServiceError(h.log, w, err, "export bookings")
		return
	}

	filename := fmt.Sprintf("bookings-%s.%s", h.now().UTC().Format("20060102"), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Warn("Failed to stream export", zap.Error(err))
	}
}

// ListPresets handles GET /api/presets
func (h *ViewHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	orgID, userID, ok := caller(w, r)
	if !ok {
		return
	}

	presets, err := h.service.ListPresets(r.Context(), orgID, userID)
	if err != nil {
		handleServiceError(h.log, w, err, "list presets")
		return
	}

	utils.ResponseSuccess(w, "success", presets)
}

// GetPreset handles GET /api/presets/{name}
func (h *ViewHandler) GetPreset(w http.ResponseWriter, r *http.Request) {
	orgID, userID, ok := caller(w, r)
	if !ok {
		return
	}

	preset, err := h.service.GetPreset(r.Context(), orgID, userID, chi.URLParam(r, "name"))
	if err != nil {
		handleServiceError(h.log, w, err, "get preset")
		return
	}

	utils.ResponseSuccess(w, "success", preset)
}

// SavePreset handles PUT /api/presets/{name}
func (h *ViewHandler) SavePreset(w http.ResponseWriter, r *http.Request) {
	orgID, userID, ok := caller(w, r)
	if !ok {
		return
	}

	var req request.SavePresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	preset, err := h.service.SavePreset(r.Context(), orgID, userID, chi.URLParam(r, "name"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "save preset")
		return
	}

	utils.ResponseSuccess(w, "success", preset)
}

// DeletePreset handles DELETE /api/presets/{name}
func (h *ViewHandler) DeletePreset(w http.ResponseWriter, r *http.Request) {
	orgID, userID, ok := caller(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePreset(r.Context(), orgID, userID, chi.URLParam(r, "name")); err != nil {
		handleServiceError(h.log, w, err, "delete preset")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

func parseViewQuery(query url.Values) *request.ViewQuery {
	q := &request.ViewQuery{
		Preset:        query.Get("preset"),
		Adopter:       query.Get("adopter"),
		Cat:           query.Get("cat"),
		Volunteer:     query.Get("volunteer"),
		From:          query.Get("from"),
		To:            query.Get("to"),
		Status:        query.Get("status"),
		StatusGroup:   query.Get("status_group"),
		SortField:     query.Get("sort"),
		SortDirection: query.Get("direction"),
		PageSize:      utils.ParseInt(query.Get("page_size"), 0),
		Page:          utils.ParseInt(query.Get("page"), 0),
	}
	if query.Has("workflow_sort") {
		workflow := utils.ParseBool(query.Get("workflow_sort"), true)
		q.WorkflowSort = &workflow
	}
	return q
}
