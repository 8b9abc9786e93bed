// Package api exposes the forecasting engine over HTTP.
package api

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"categoryforecast/internal/domain"
	"categoryforecast/internal/forecast"
	"categoryforecast/internal/gapfill"
	"categoryforecast/internal/lookup"
	"categoryforecast/internal/observability"
	"categoryforecast/internal/storage"
)

// DefaultTimeSeriesDays is the trailing window served by the
// time-series endpoint when the caller does not pick one.
const DefaultTimeSeriesDays = 180

// Server wires the HTTP surface to the forecasting components.
type Server struct {
	orch       *forecast.Orchestrator
	reconciler *gapfill.Reconciler
	sales      storage.SalesStore
	categories storage.CategoryStore
	manifest   *domain.FeatureManifest

	// degradedReason is non-empty when the service started without a
	// usable predictor and answers from history only.
	degradedReason string

	forecastDays int
	topN         int
	now          func() time.Time
	logger       *log.Logger
}

// Options for creating Server.
type Options struct {
	Orchestrator *forecast.Orchestrator
	Reconciler   *gapfill.Reconciler
	Sales        storage.SalesStore
	Categories   storage.CategoryStore

	// Manifest may be nil in degraded mode; /model/info reports that.
	Manifest *domain.FeatureManifest

	DegradedReason string

	// DefaultForecastDays and DefaultTopN fill absent request fields.
	DefaultForecastDays int
	DefaultTopN         int

	// Now supplies "today" for preset windows. Defaults to time.Now.
	Now func() time.Time

	Logger *log.Logger
}

// NewServer creates a Server.
func NewServer(opts Options) *Server {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[api] ", log.LstdFlags)
	}
	if opts.DefaultForecastDays <= 0 {
		opts.DefaultForecastDays = 30
	}
	if opts.DefaultTopN <= 0 {
		opts.DefaultTopN = forecast.DefaultTopN
	}
	return &Server{
		orch:           opts.Orchestrator,
		reconciler:     opts.Reconciler,
		sales:          opts.Sales,
		categories:     opts.Categories,
		manifest:       opts.Manifest,
		degradedReason: opts.DegradedReason,
		forecastDays:   opts.DefaultForecastDays,
		topN:           opts.DefaultTopN,
		now:            now,
		logger:         logger,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/forecast/top-categories", s.handleForecast)
		r.Get("/historical/top-categories", s.handleHistorical)
		r.Get("/categories/top", s.handleTopByRange)
		r.Get("/categories/time-series", s.handleTimeSeries)
		r.Get("/categories", s.handleCategories)
		r.Get("/model/info", s.handleModelInfo)
	})

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", observability.Handler())

	return r
}

// instrument records request metrics per route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		pattern := chi.RouteContext(r.Context()).RoutePattern()
		observability.RecordHTTPRequest(r.Method, pattern, ww.Status(), time.Since(started).Seconds())
	})
}

// forecastRequest is the body of POST /forecast/top-categories.
type forecastRequest struct {
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	TopN              int    `json:"top_n"`
	IncludeHistorical bool   `json:"include_historical"`
}

// errorResponse is the structured error body.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	var req forecastRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	period := parsePeriod(req.StartDate, req.EndDate, forwardWindow(s.now(), s.forecastDays))
	if req.TopN <= 0 {
		req.TopN = s.topN
	}

	result, err := s.orch.Forecast(r.Context(), forecast.Request{
		Period:            period,
		TopN:              req.TopN,
		IncludeHistorical: req.IncludeHistorical,
	})
	if err != nil {
		s.renderForecastError(w, r, period, err)
		return
	}

	render.JSON(w, r, result)
}

func (s *Server) handleHistorical(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period := parsePeriod(q.Get("start_date"), q.Get("end_date"), trailingWindow(s.now(), s.forecastDays))
	topN := intParam(q.Get("top_n"), s.topN)

	rec, err := s.reconciler.HistoricalOnly(r.Context(), period, topN)
	if err != nil {
		s.renderForecastError(w, r, period, err)
		return
	}

	render.JSON(w, r, rec.Result)
}

func (s *Server) handleTopByRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	period, err := resolvePreset(q.Get("range"), q.Get("start_date"), q.Get("end_date"), s.now())
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: err.Error()})
		return
	}
	topN := intParam(q.Get("top_n"), s.topN)

	result, err := s.orch.Forecast(r.Context(), forecast.Request{Period: period, TopN: topN})
	if err != nil {
		s.renderForecastError(w, r, period, err)
		return
	}

	render.JSON(w, r, result)
}

func (s *Server) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	days := intParam(r.URL.Query().Get("days"), DefaultTimeSeriesDays)
	if days <= 0 {
		days = DefaultTimeSeriesDays
	}
	period := trailingWindow(s.now(), days)

	points, err := s.sales.GetByDateRange(r.Context(), period.Start, period.End)
	if err != nil {
		s.renderInternalError(w, r, err)
		return
	}

	var tracked []string
	if s.categories != nil {
		if names, err := s.categories.Names(r.Context()); err == nil {
			tracked = names
		}
	}
	if len(tracked) == 0 {
		// No catalog: fall back to the names present in the data.
		if names, err := lookup.CategoriesOf(points); err == nil {
			tracked = names
		}
	}

	render.JSON(w, r, lookup.BuildDailySeries(period, points, tracked))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	all, err := s.categories.GetAll(r.Context())
	if err != nil {
		s.renderInternalError(w, r, err)
		return
	}

	type categoryEntry struct {
		Name         string `json:"name"`
		DisplayOrder int    `json:"display_order"`
	}
	entries := make([]categoryEntry, 0, len(all))
	for _, c := range all {
		entries = append(entries, categoryEntry{Name: c.Name, DisplayOrder: c.DisplayOrder})
	}

	render.JSON(w, r, map[string]any{"categories": entries})
}

func (s *Server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"available": s.degradedReason == "",
	}
	if s.degradedReason != "" {
		resp["degraded_reason"] = s.degradedReason
	}
	if s.manifest != nil {
		resp["model_version"] = s.manifest.ModelVersion
		resp["trained_at"] = s.manifest.TrainedAt
		resp["feature_count"] = len(s.manifest.Columns)
		resp["categories"] = s.manifest.Categories
		resp["metrics"] = s.manifest.Metrics
	}

	render.JSON(w, r, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":   "ok",
		"degraded": s.degradedReason != "",
	})
}

// renderForecastError maps engine errors onto HTTP statuses. A missing
// context window is the caller's problem (nothing recorded before the
// requested period); everything else is a server fault.
func (s *Server) renderForecastError(w http.ResponseWriter, r *http.Request, period domain.Period, err error) {
	if errors.Is(err, gapfill.ErrNoContext) {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, errorResponse{Error: "no historical data available to seed period " + period.String()})
		return
	}
	s.renderInternalError(w, r, err)
}

func (s *Server) renderInternalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Printf("request %s %s failed: %v", r.Method, r.URL.Path, err)
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, errorResponse{Error: "internal error"})
}

// intParam parses a positive integer query value, falling back on the
// default for absent or malformed input.
func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
