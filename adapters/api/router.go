package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"gapdash/app"
	"gapdash/domain/describe"
	"gapdash/domain/gapminder"
	"gapdash/internal/errors"
	"gapdash/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// UsageReader exposes recorded summary calls
type UsageReader interface {
	Recent(ctx context.Context, limit int) ([]*models.LLMUsage, error)
	Summary(ctx context.Context, window time.Duration) (*models.UsageSummary, error)
}

// Handler serves the JSON API
type Handler struct {
	dashboard *app.DashboardService
	summaries *app.SummaryService
	usage     UsageReader
}

// NewHandler creates the API handler; usage may be nil
func NewHandler(dashboard *app.DashboardService, summaries *app.SummaryService, usage UsageReader) *Handler {
	return &Handler{
		dashboard: dashboard,
		summaries: summaries,
		usage:     usage,
	}
}

// Routes returns a router meant to be mounted under /api
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Cache-Control", "no-store"))

	r.Get("/continents", h.handleContinents)
	r.Get("/records", h.handleRecords)
	r.Get("/describe", h.handleDescribe)
	r.Get("/charts", h.handleCharts)
	r.Post("/summary", h.handleSummary)

	r.Route("/usage", func(r chi.Router) {
		r.Get("/", h.handleUsageSummary)
		r.Get("/recent", h.handleUsageRecent)
	})
	return r
}

type continentsResponse struct {
	Continents []string `json:"continents"`
	Default    string   `json:"default"`
}

type recordsResponse struct {
	Continent string             `json:"continent"`
	Count     int                `json:"count"`
	Records   []gapminder.Record `json:"records"`
}

type describeResponse struct {
	Continent string          `json:"continent"`
	Table     *describe.Table `json:"table"`
	Text      string          `json:"text"`
}

type summaryRequest struct {
	Continent string `json:"continent"`
}

func (h *Handler) handleContinents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, continentsResponse{
		Continents: h.dashboard.Continents(),
		Default:    h.dashboard.Dataset().DefaultContinent(),
	})
}

func (h *Handler) handleRecords(w http.ResponseWriter, r *http.Request) {
	view, ok := h.selectView(w, r.URL.Query().Get("continent"))
	if !ok {
		return
	}
	records := view.Records
	if records == nil {
		records = []gapminder.Record{}
	}
	writeJSON(w, http.StatusOK, recordsResponse{
		Continent: view.Continent,
		Count:     view.Len(),
		Records:   records,
	})
}

func (h *Handler) handleDescribe(w http.ResponseWriter, r *http.Request) {
	view, ok := h.selectView(w, r.URL.Query().Get("continent"))
	if !ok {
		return
	}
	table := h.dashboard.Describe(view)
	writeJSON(w, http.StatusOK, describeResponse{
		Continent: view.Continent,
		Table:     table,
		Text:      table.String(),
	})
}

func (h *Handler) handleCharts(w http.ResponseWriter, r *http.Request) {
	view, ok := h.selectView(w, r.URL.Query().Get("continent"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.dashboard.Charts(view))
}

// handleSummary always answers 200 once the selection is valid; generation
// problems travel in the result's failure field
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errors.InvalidInput("invalid request body", err))
			return
		}
	}

	view, ok := h.selectView(w, req.Continent)
	if !ok {
		return
	}

	result := h.summaries.Summarize(r.Context(), view)
	if !result.OK() {
		log.Printf("[API] summary for %s failed: %s (%s)", view.Continent, result.Failure.Message, result.Failure.Kind)
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleUsageSummary(w http.ResponseWriter, r *http.Request) {
	if h.usage == nil {
		writeError(w, errors.NotFound("usage log"))
		return
	}

	window := 24 * time.Hour
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			writeError(w, errors.InvalidInput("invalid window", err))
			return
		}
		window = parsed
	}

	summary, err := h.usage.Summary(r.Context(), window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleUsageRecent(w http.ResponseWriter, r *http.Request) {
	if h.usage == nil {
		writeError(w, errors.NotFound("usage log"))
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, errors.InvalidInput("invalid limit", err))
			return
		}
		limit = parsed
	}

	recent, err := h.usage.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if recent == nil {
		recent = []*models.LLMUsage{}
	}
	writeJSON(w, http.StatusOK, recent)
}

func (h *Handler) selectView(w http.ResponseWriter, continent string) (gapminder.View, bool) {
	view, err := h.dashboard.Select(continent)
	if err != nil {
		writeError(w, err)
		return gapminder.View{}, false
	}
	return view, true
}
