package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/envelope"
	"manufacturing_kds/pkg/core/executive"
	"manufacturing_kds/pkg/core/store"
	"manufacturing_kds/pkg/models"
)

func seeded(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), store.Config{Driver: store.DriverSQLite, Migrate: true})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func serve(t *testing.T, src Source, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	h := NewHandler(src, assumption.Defaults().Executive)
	h.RegisterHealth(api)
	h.Register(api.PathPrefix("/dashboard").Subrouter())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var body struct {
		Success bool          `json:"success"`
		Data    T             `json:"data"`
		Meta    envelope.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success, rec.Body.String())
	assert.Equal(t, envelope.SourceDatabase, body.Meta.Source)
	return body.Data
}

func TestOverview(t *testing.T) {
	rec := serve(t, seeded(t), "/api/dashboard/overview")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[executive.Overview](t, rec)
	assert.Equal(t, 2, got.ActiveLines)
	assert.Equal(t, 45900.0, got.Production)
	// (45900 - 59200) / 59200
	assert.Equal(t, -22.0, got.ProductionDelta)
	assert.Equal(t, 2.5, got.ScrapRate)
	assert.Equal(t, 8.0, got.Incidents)
	assert.Equal(t, 75.0, got.Freshness)
	assert.Equal(t, 2025, got.ReferenceYear)
	assert.Equal(t, 3, got.ReferenceQtr)

	assert.Equal(t, "C 200", got.BestSeller.Model)
	assert.Equal(t, 28500.0, got.BestSeller.Units)
	assert.Equal(t, 2, got.Suppliers.Count)
	assert.GreaterOrEqual(t, got.Robots.Count, 1, "K-20 peaks above the scrap alert")
	assert.Equal(t, "Evaluate the AGV transition", got.AGVRecommendation)
}

type brokenTopModel struct {
	*store.Store
}

func (brokenTopModel) TopModel(context.Context, int) (*models.TopModel, error) {
	return nil, errors.New("no such column: model_adi")
}

func TestOverviewKeepsPanelsWhenOneReadFails(t *testing.T) {
	rec := serve(t, brokenTopModel{seeded(t)}, "/api/dashboard/overview")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[executive.Overview](t, rec)
	assert.Empty(t, got.BestSeller.Model)
	assert.Equal(t, "No 2025 data", got.BestSeller.Text)
	assert.Equal(t, 45900.0, got.Production)
}

type unavailable struct {
	*store.Store
}

func (unavailable) LatestPeriod(context.Context) (models.Period, error) {
	return models.Period{}, fmt.Errorf("latest period: %w", store.ErrUnavailable)
}

func TestUnavailableStore(t *testing.T) {
	for _, target := range []string{
		"/api/dashboard/overview",
		"/api/dashboard/saglik-haritasi",
		"/api/dashboard/veri-guveni",
		"/api/dashboard/hedef-gerceklesen",
	} {
		rec := serve(t, unavailable{seeded(t)}, target)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}

	var nilStore *store.Store
	rec := serve(t, nilStore, "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := serve(t, seeded(t), "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, rec))
}

func TestHealthMap(t *testing.T) {
	for _, target := range []string{"/api/dashboard/saglik-haritasi", "/api/dashboard/trend"} {
		rec := serve(t, seeded(t), target)
		require.Equal(t, http.StatusOK, rec.Code, target)

		got := decode[executive.HealthMapResult](t, rec)
		require.NotEmpty(t, got.Labels)
		assert.Equal(t, "2025-Q3", got.Labels[len(got.Labels)-1])
		assert.Len(t, got.Production, len(got.Labels))
	}
}

func TestLossPanels(t *testing.T) {
	s := seeded(t)

	econ := decode[executive.LossEconomicsResult](t, serve(t, s, "/api/dashboard/kayip-ekonomisi"))
	assert.Equal(t, 2025, econ.Year)
	assert.Equal(t, []string{"Q1", "Q2", "Q3", "Q4"}, econ.Quarters)
	assert.Zero(t, econ.Scrap[3], "no Q4 records")
	assert.Greater(t, econ.Total, 0.0)

	sources := decode[executive.LossSourcesResult](t, serve(t, s, "/api/dashboard/kayip-dagilim?yil=2025"))
	assert.Equal(t, models.LossSourceTotals{Human: 12, Robot: 10, System: 12, Supplier: 960}, sources.Totals)
	require.Len(t, sources.Details["sistem"], 2)
	assert.Equal(t, "FORKLIFT", sources.Details["sistem"][0].Name)
}

func TestCriticalPoints(t *testing.T) {
	got := decode[executive.CriticalPointsResult](t, serve(t, seeded(t), "/api/dashboard/kritik-noktalar"))
	assert.Len(t, got.Robots, 4)
	assert.Len(t, got.Stations, 2)
	require.Len(t, got.Suppliers, 2)
}

func TestDataTrust(t *testing.T) {
	got := decode[executive.DataTrustResult](t, serve(t, seeded(t), "/api/dashboard/veri-guncellik"))
	assert.Equal(t, "September 2025", got.LastEntry)
	assert.Len(t, got.Modules, 4)
	assert.ElementsMatch(t, []string{"Production", "Welding", "Ergonomics", "Logistics"}, got.Incomplete)
}

func TestTargets(t *testing.T) {
	got := decode[executive.TargetReport](t, serve(t, seeded(t), "/api/dashboard/hedef-gerceklesen"))
	assert.Equal(t, 2025, got.Year)
	assert.Equal(t, 45900.0, got.Actuals.Production)
	// (45900 - 150000) / 150000
	assert.Equal(t, -69.0, got.Deviation.Production)
	assert.Equal(t, 3.8, got.Actuals.DeliveryDays)
	require.NotNil(t, got.Projection.Scrap)

	var metrics []string
	for _, w := range got.Warnings {
		metrics = append(metrics, w.Metric)
	}
	assert.Contains(t, metrics, "uretim")
}
