package welding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/envelope"
	"manufacturing_kds/pkg/core/store"
	"manufacturing_kds/pkg/models"
)

type fakeSource struct {
	err         error
	yearly      []models.PeriodAggregate
	latest      []models.RobotMetricRow
	window      []models.RobotMetricRow
	maintenance map[string]float64
	analysis    []models.RobotMaintenanceRow
	events      []models.MaintenanceEvent

	gotStart, gotEnd int
}

func (f *fakeSource) YearlyScrapRate(context.Context) ([]models.PeriodAggregate, error) {
	return f.yearly, f.err
}

func (f *fakeSource) WeldQualityTrend(context.Context) ([]models.WeldQualityRow, error) {
	return []models.WeldQualityRow{}, f.err
}

func (f *fakeSource) RobotScrapTrend(_ context.Context, start, end int) ([]models.RobotMetricRow, error) {
	f.gotStart, f.gotEnd = start, end
	return f.window, f.err
}

func (f *fakeSource) RobotYearlyScrap(_ context.Context, start, end int) ([]models.RobotMetricRow, error) {
	f.gotStart, f.gotEnd = start, end
	return f.window, f.err
}

func (f *fakeSource) MaintenanceByRobot(context.Context, int, int) (map[string]float64, error) {
	return f.maintenance, f.err
}

func (f *fakeSource) LatestRobotScrap(context.Context) ([]models.RobotMetricRow, error) {
	return f.latest, f.err
}

func (f *fakeSource) RobotMaintenanceAnalysis(context.Context) ([]models.RobotMaintenanceRow, error) {
	return f.analysis, f.err
}

func (f *fakeSource) MaintenanceEvents(context.Context) ([]models.MaintenanceEvent, error) {
	return f.events, f.err
}

func serve(t *testing.T, src Source, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := mux.NewRouter()
	NewHandler(src, assumption.Defaults().Welding).Register(router.PathPrefix("/api/kaynak").Subrouter())

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type forecastBody struct {
	Success bool `json:"success"`
	Data    struct {
		BaseYear   int     `json:"bazYil"`
		BaseValue  float64 `json:"bazDeger"`
		Projection []struct {
			Month int     `json:"month"`
			Value float64 `json:"value"`
		} `json:"tahmin"`
	} `json:"data"`
	Meta envelope.ForecastMeta `json:"meta"`
}

func TestHandleForecast(t *testing.T) {
	src := &fakeSource{yearly: []models.PeriodAggregate{{Year: 2024, Value: 2.0}, {Year: 2025, Value: 2.5}}}
	rec := serve(t, src, http.MethodPost, "/api/kaynak/forecast", `{"months": 3, "scrapChangePercent": 0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got forecastBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Success)
	assert.Equal(t, 2025, got.Data.BaseYear)
	require.Len(t, got.Data.Projection, 3)
	for _, p := range got.Data.Projection {
		assert.Equal(t, 2.5, p.Value)
	}
	assert.Equal(t, envelope.SourceDatabase, got.Meta.Source)
	assert.Equal(t, 2, got.Meta.HistoricalRows)
	assert.Equal(t, 3, got.Meta.ForecastMonths)
	assert.Equal(t, 0.0, got.Meta.ParametersUsed["scrapChangePercent"])
}

func TestHandleForecastDefaults(t *testing.T) {
	rec := serve(t, &fakeSource{}, http.MethodPost, "/api/kaynak/forecast", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got forecastBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Data.Projection, 12)
	assert.Equal(t, 5.0, got.Meta.ParametersUsed["scrapChangePercent"])
	assert.Zero(t, got.Meta.HistoricalRows)
}

func TestHandleForecastRejectsUnknownField(t *testing.T) {
	rec := serve(t, &fakeSource{}, http.MethodPost, "/api/kaynak/forecast", `{"monts": 3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmptyReadsAreAuthoritativeEmpty(t *testing.T) {
	for _, target := range []string{
		"/api/kaynak/historical",
		"/api/kaynak/kalite",
		"/api/kaynak/robot-scrap-trendi",
		"/api/kaynak/kazanim-senaryo",
		"/api/kaynak/zarar-tahmini",
		"/api/kaynak/bakim-yatirim-analiz",
		"/api/kaynak/robot-bakim-gecmisi",
	} {
		rec := serve(t, &fakeSource{}, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, target)

		var resp envelope.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, envelope.IsAuthoritative(resp), target)
		assert.Zero(t, resp.Meta.RowCount, target)
		assert.Equal(t, []any{}, resp.Data, target)
	}
}

func TestStoreUnavailable(t *testing.T) {
	src := &fakeSource{err: fmt.Errorf("latest robot scrap: %w", store.ErrUnavailable)}
	rec := serve(t, src, http.MethodGet, "/api/kaynak/kazanim-senaryo", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp envelope.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, envelope.SourceError, resp.Meta.Source)
}

func TestInvestmentMatrixDefaultWindow(t *testing.T) {
	src := &fakeSource{}
	rec := serve(t, src, http.MethodGet, "/api/kaynak/yatirim-matrisi", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2020, src.gotStart)
	assert.Equal(t, 2025, src.gotEnd)

	serve(t, src, http.MethodGet, "/api/kaynak/robot-scrap-trendi?startYear=2018&endYear=2022", "")
	assert.Equal(t, 2018, src.gotStart)
	assert.Equal(t, 2022, src.gotEnd)
}

func TestHandleLossProjection(t *testing.T) {
	src := &fakeSource{latest: []models.RobotMetricRow{
		{RobotCode: "K-07", ScrapCount: 100, ScrapCost: 20000},
	}}
	rec := serve(t, src, http.MethodGet, "/api/kaynak/zarar-tahmini?degisimOrani=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Robots []struct {
				Projected float64 `json:"tahmini_scrap_adet"`
			} `json:"robotlar"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Robots, 1)
	assert.Equal(t, 110.0, resp.Data.Robots[0].Projected)
}

func TestHandleRateScenario(t *testing.T) {
	src := &fakeSource{latest: []models.RobotMetricRow{
		{RobotCode: "K-07", AvgScrapRate: 2},
		{RobotCode: "K-14", AvgScrapRate: 1},
	}}
	rec := serve(t, src, http.MethodPost, "/api/kaynak/scrap-senaryo", `{robotOranlar: {"K-07": -50}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Robots []struct {
				Code      string  `json:"robot_kodu"`
				Projected float64 `json:"tahmini_scrap"`
			} `json:"robotlar"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Robots, 2)
	assert.Equal(t, 1.0, resp.Data.Robots[0].Projected)
	assert.Equal(t, 1.0, resp.Data.Robots[1].Projected)
}
