// Package reporthttp exposes registered report modules over HTTP.
package reporthttp

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/IBSLPUNE/Bioprime/internal/platform/httpx"
	"github.com/IBSLPUNE/Bioprime/internal/reports"
)

// exportRateLimit caps CSV exports per client; exports bypass the cache
// less often than grid reads but cost the same to build.
const (
	exportRateLimit  = 10
	exportRateWindow = time.Minute
)

// Handler serves any report registered with the engine.
type Handler struct {
	registry *reports.Registry
	logger   *slog.Logger
	runner   *exportRunner
}

// NewHandler builds the report HTTP handler.
func NewHandler(registry *reports.Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{registry: registry, logger: logger, runner: newExportRunner()}
}

// Routes mounts the report endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.With(httprate.Limit(exportRateLimit, exportRateWindow, httprate.WithKeyFuncs(httprate.KeyByIP))).
		Get("/{slug}/export.csv", h.exportCSV)
	r.Get("/{slug}", h.run)
	return r
}

type reportListItem struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	slugs := h.registry.Slugs()
	items := make([]reportListItem, 0, len(slugs))
	for _, slug := range slugs {
		report, ok := h.registry.Get(slug)
		if !ok {
			continue
		}
		items = append(items, reportListItem{Slug: slug, Title: report.Title()})
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	report, ok := h.resolve(w, r)
	if !ok {
		return
	}
	result, err := report.Run(r.Context(), r.URL.Query())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "report run failed",
			slog.String("report", report.Slug()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	report, ok := h.resolve(w, r)
	if !ok {
		return
	}
	result, err := h.runner.run(r.Context(), report, r.URL.Query())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "report export failed",
			slog.String("report", report.Slug()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", report.Slug()+".csv"))
	if err := reports.WriteCSV(w, result); err != nil {
		h.logger.ErrorContext(r.Context(), "report export write failed",
			slog.String("report", report.Slug()), slog.Any("error", err))
	}
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (reports.Report, bool) {
	slug := chi.URLParam(r, "slug")
	report, ok := h.registry.Get(slug)
	if !ok {
		httpx.RespondError(w, fmt.Errorf("%w: report %s", httpx.ErrNotFound, slug))
		return nil, false
	}
	return report, true
}
