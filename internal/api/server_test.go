package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"categoryforecast/internal/domain"
	"categoryforecast/internal/features"
	"categoryforecast/internal/forecast"
	"categoryforecast/internal/gapfill"
	"categoryforecast/internal/predictor"
	"categoryforecast/internal/storage/memory"
)

// newTestServer wires a full in-memory service: seeded sales store,
// stub predictor, engine, reconciler and orchestrator, with "today"
// pinned to 2025-01-10.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	ctx := context.Background()
	sales := memory.NewSalesStore()
	categories := memory.NewCategoryStore()

	require.NoError(t, categories.Upsert(ctx, &domain.CategoryInfo{Name: "Electronics", DisplayOrder: 1}))
	require.NoError(t, categories.Upsert(ctx, &domain.CategoryInfo{Name: "Books", DisplayOrder: 2}))

	amounts := map[string][]float64{
		"Electronics": {100, 200, 150, 0, 180},
		"Books":       {50, 60, 55, 40, 70},
	}
	for category, daily := range amounts {
		for i, amount := range daily {
			d := mustDay(t, "2025-01-01")
			require.NoError(t, sales.Insert(ctx, &domain.SalesPoint{
				Date:     domain.AddDays(d, i),
				Category: category,
				Amount:   amount,
			}))
		}
	}

	manifest := features.DefaultManifest([]string{"Electronics", "Books"})
	stub := predictor.NewStub(manifest.Categories)
	engine := forecast.NewEngine(sales, stub, manifest, 60)
	reconciler := gapfill.NewReconciler(sales, engine)
	orch := forecast.New(forecast.Options{
		Reconciler: reconciler,
		Predictor:  stub,
		Snapshots:  memory.NewForecastSnapshotStore(),
		Now:        func() time.Time { return mustDay(t, "2025-01-10") },
	})

	return NewServer(Options{
		Orchestrator:        orch,
		Reconciler:          reconciler,
		Sales:               sales,
		Categories:          categories,
		Manifest:            manifest,
		DefaultForecastDays: 30,
		DefaultTopN:         5,
		Now:                 func() time.Time { return mustDay(t, "2025-01-10") },
	})
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), "body: %s", rec.Body.String())
	return rec, decoded
}

func TestServer_ForecastTopCategories(t *testing.T) {
	router := newTestServer(t).Router()

	rec, body := doRequest(t, router, http.MethodPost, "/api/v1/forecast/top-categories",
		`{"start_date": "2025-01-03", "end_date": "2025-01-06", "top_n": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	period := body["period"].(map[string]any)
	assert.Equal(t, "2025-01-03", period["start"])
	assert.Equal(t, "2025-01-06", period["end"])
	assert.EqualValues(t, 4, period["days"])

	// Jan 3-5 recorded, Jan 6 predicted.
	quality := body["data_quality"].(map[string]any)
	assert.EqualValues(t, 3, quality["historical_points"])
	assert.EqualValues(t, 1, quality["predicted_points"])
	assert.InDelta(t, 75.0, quality["completeness_pct"].(float64), 0.001)

	assert.NotEmpty(t, body["run_id"])
	assert.Equal(t, false, body["degraded"])
	assert.Len(t, body["top_categories"].([]any), 2)
}

func TestServer_ForecastReversedDatesSwapped(t *testing.T) {
	router := newTestServer(t).Router()

	rec, body := doRequest(t, router, http.MethodPost, "/api/v1/forecast/top-categories",
		`{"start_date": "2025-01-05", "end_date": "2025-01-03"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	period := body["period"].(map[string]any)
	assert.Equal(t, "2025-01-03", period["start"])
	assert.Equal(t, "2025-01-05", period["end"])
}

func TestServer_ForecastNoContext(t *testing.T) {
	router := newTestServer(t).Router()

	// Nothing recorded anywhere near 2020.
	rec, body := doRequest(t, router, http.MethodPost, "/api/v1/forecast/top-categories",
		`{"start_date": "2020-01-01", "end_date": "2020-01-05"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body["error"], "no historical data")
}

func TestServer_ForecastBadBody(t *testing.T) {
	router := newTestServer(t).Router()

	rec, _ := doRequest(t, router, http.MethodPost, "/api/v1/forecast/top-categories", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_HistoricalTopCategories(t *testing.T) {
	router := newTestServer(t).Router()

	rec, body := doRequest(t, router, http.MethodGet,
		"/api/v1/historical/top-categories?start_date=2025-01-01&end_date=2025-01-05&top_n=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	top := body["top_categories"].([]any)
	require.Len(t, top, 1)
	first := top[0].(map[string]any)
	assert.Equal(t, "Electronics", first["category"])
	assert.InDelta(t, 630.0, first["amount"].(float64), 0.001)

	quality := body["data_quality"].(map[string]any)
	assert.EqualValues(t, 0, quality["predicted_points"])
	assert.InDelta(t, 100.0, quality["completeness_pct"].(float64), 0.001)
}

func TestServer_TopByRangePreset(t *testing.T) {
	router := newTestServer(t).Router()

	rec, body := doRequest(t, router, http.MethodGet, "/api/v1/categories/top?range=week&top_n=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	period := body["period"].(map[string]any)
	assert.Equal(t, "2025-01-04", period["start"])
	assert.Equal(t, "2025-01-10", period["end"])
}

func TestServer_TopByRangeUnknownPreset(t *testing.T) {
	router := newTestServer(t).Router()

	rec, body := doRequest(t, router, http.MethodGet, "/api/v1/categories/top?range=decade", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "unknown range preset")
}

func TestServer_TimeSeries(t *testing.T) {
	router := newTestServer(t).Router()

	rec, body := doRequest(t, router, http.MethodGet, "/api/v1/categories/time-series?days=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	dates := body["dates"].([]any)
	require.Len(t, dates, 10)
	assert.Equal(t, "2025-01-01", dates[0])
	assert.Equal(t, "2025-01-10", dates[9])

	series := body["series"].(map[string]any)
	electronics := series["Electronics"].([]any)
	require.Len(t, electronics, 10)
	assert.InDelta(t, 100.0, electronics[0].(float64), 0.001)
	assert.InDelta(t, 0.0, electronics[9].(float64), 0.001)
}

func TestServer_TimeSeriesWithoutCatalog(t *testing.T) {
	ctx := context.Background()
	sales := memory.NewSalesStore()
	require.NoError(t, sales.Insert(ctx, &domain.SalesPoint{
		Date: mustDay(t, "2025-01-08"), Category: "Toys", Amount: 30,
	}))

	// No category catalog wired: the series keys fall back to the
	// names present in the data.
	srv := NewServer(Options{
		Sales: sales,
		Now:   func() time.Time { return mustDay(t, "2025-01-10") },
	})

	rec, body := doRequest(t, srv.Router(), http.MethodGet, "/api/v1/categories/time-series?days=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	series := body["series"].(map[string]any)
	toys, ok := series["Toys"].([]any)
	require.True(t, ok, "expected a Toys series derived from the data")
	require.Len(t, toys, 5)
	assert.InDelta(t, 30.0, toys[2].(float64), 0.001)
}

func TestServer_Categories(t *testing.T) {
	router := newTestServer(t).Router()

	rec, body := doRequest(t, router, http.MethodGet, "/api/v1/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	entries := body["categories"].([]any)
	require.Len(t, entries, 2)
	first := entries[0].(map[string]any)
	assert.Equal(t, "Electronics", first["name"])
}

func TestServer_ModelInfo(t *testing.T) {
	router := newTestServer(t).Router()

	rec, body := doRequest(t, router, http.MethodGet, "/api/v1/model/info", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, true, body["available"])
	assert.EqualValues(t, 2, len(body["categories"].([]any)))
	assert.Greater(t, body["feature_count"].(float64), 0.0)
}

func TestServer_Health(t *testing.T) {
	router := newTestServer(t).Router()

	rec, body := doRequest(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["degraded"])
}

func TestServer_HealthDegraded(t *testing.T) {
	srv := newTestServer(t)
	srv.degradedReason = "no model artifact"
	router := srv.Router()

	rec, body := doRequest(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["degraded"])

	rec, body = doRequest(t, router, http.MethodGet, "/api/v1/model/info", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["available"])
	assert.Equal(t, "no model artifact", body["degraded_reason"])
}
