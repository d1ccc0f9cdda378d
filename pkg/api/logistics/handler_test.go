package logistics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/envelope"
	"manufacturing_kds/pkg/models"
)

type fakeSource struct {
	latest  []models.LogisticsMetricRow
	history []models.LogisticsMetricRow
	err     error
}

func (f fakeSource) LatestLogistics(context.Context) ([]models.LogisticsMetricRow, error) {
	return f.latest, f.err
}

func (f fakeSource) LogisticsHistory(context.Context) ([]models.LogisticsMetricRow, error) {
	return f.history, f.err
}

func ptr[T any](v T) *T { return &v }

func serve(t *testing.T, src Source, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := mux.NewRouter()
	NewHandler(src, assumption.Defaults().Logistics).Register(router.PathPrefix("/api/lojistik").Subrouter())
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleCostModelFallsBackToDefaults(t *testing.T) {
	rec := serve(t, fakeSource{}, http.MethodGet, "/api/lojistik/agv-kazanc", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		envelope.Response
		Data struct {
			Comparison struct {
				Savings float64 `json:"yillikKazanc"`
			} `json:"karsilastirma"`
			Detail struct {
				Forklift struct {
					Incidents struct {
						Value  float64 `json:"deger"`
						Source string  `json:"kaynak"`
					} `json:"kaza"`
				} `json:"forkliftGirdi"`
				AGV struct {
					Incidents struct {
						Source string `json:"kaynak"`
					} `json:"kaza"`
				} `json:"agvGirdi"`
			} `json:"detay"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 12.0, resp.Data.Detail.Forklift.Incidents.Value)
	assert.Equal(t, "default", resp.Data.Detail.Forklift.Incidents.Source)
	assert.Equal(t, "derived", resp.Data.Detail.AGV.Incidents.Source)
	assert.Greater(t, resp.Data.Comparison.Savings, 0.0)
}

func TestHandleScenario(t *testing.T) {
	src := fakeSource{
		latest: []models.LogisticsMetricRow{
			{TransportType: models.TransportForklift, IncidentCount: ptr(int64(9)), AvgWaitMinutes: ptr(8.0), TransactionCount: 3},
		},
		history: []models.LogisticsMetricRow{
			{TransportType: models.TransportForklift, Year: 2025, IncidentCount: ptr(int64(9))},
		},
	}
	rec := serve(t, src, http.MethodPost, "/api/lojistik/senaryo", `{"agvSayisi": 8}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Summary struct {
				Capital float64 `json:"yatirimMaliyeti"`
			} `json:"ozet"`
			Params struct {
				Forklifts float64 `json:"forkliftSayisi"`
				AGVs      float64 `json:"agvSayisi"`
			} `json:"parametreler"`
			History []models.LogisticsMetricRow `json:"gecmis"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 8.0, resp.Data.Params.AGVs)
	assert.Equal(t, 10.0, resp.Data.Params.Forklifts)
	// Three AGVs beyond the baseline fleet of five.
	assert.Equal(t, 1050000.0, resp.Data.Summary.Capital)
	assert.Len(t, resp.Data.History, 1)
}

func TestHandleScenarioBadBody(t *testing.T) {
	rec := serve(t, fakeSource{}, http.MethodPost, "/api/lojistik/senaryo", `{"agvSayisi": "many"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleForecast(t *testing.T) {
	src := fakeSource{history: []models.LogisticsMetricRow{
		{TransportType: models.TransportForklift, Year: 2024, IncidentCount: ptr(int64(40))},
		{TransportType: models.TransportForklift, Year: 2025, IncidentCount: ptr(int64(12))},
		{TransportType: models.TransportAGV, Year: 2025, IncidentCount: ptr(int64(4))},
	}}
	rec := serve(t, src, http.MethodPost, "/api/lojistik/forecast", `{"months": 12, "forkliftChangePercent": 100}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			BaseYear int `json:"bazYil"`
			Forklift []struct {
				Value float64 `json:"value"`
			} `json:"forklift"`
		} `json:"data"`
		Meta envelope.ForecastMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2025, resp.Data.BaseYear)
	require.Len(t, resp.Data.Forklift, 12)
	assert.Equal(t, 24.0, resp.Data.Forklift[11].Value)
	assert.Equal(t, -20.0, resp.Meta.ParametersUsed["agvChangePercent"])
}

func TestHandleHistoryError(t *testing.T) {
	rec := serve(t, fakeSource{err: errors.New("boom")}, http.MethodGet, "/api/lojistik/historical", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
