package production

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
	rows  []models.ProductionRow
	lines []models.LineCapacityRow
	years []int
	err   error

	gotYear int
}

func (f *fakeSource) ProductionByPowertrain(context.Context) ([]models.ProductionRow, error) {
	return f.rows, f.err
}

func (f *fakeSource) LineCapacity(_ context.Context, year int) ([]models.LineCapacityRow, error) {
	f.gotYear = year
	return f.lines, f.err
}

func (f *fakeSource) ProductionYears(context.Context) ([]int, error) {
	return f.years, f.err
}

func serve(t *testing.T, src Source, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := mux.NewRouter()
	NewHandler(src, assumption.Defaults().Production).Register(router.PathPrefix("/api/uretim").Subrouter())
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type forecastBody struct {
	Data struct {
		BaseYear       int  `json:"baseYear"`
		CrossoverMonth *int `json:"crossoverMonth"`
		ICE            []struct {
			Value float64 `json:"value"`
		} `json:"ice"`
		Total []struct {
			Value float64 `json:"value"`
		} `json:"total"`
	} `json:"data"`
	Meta envelope.ForecastMeta `json:"meta"`
}

func TestHandleForecastCrossover(t *testing.T) {
	src := &fakeSource{rows: []models.ProductionRow{
		{Year: 2024, Powertrain: models.PowertrainICE, Produced: 5000},
		{Year: 2025, Powertrain: models.PowertrainICE, Produced: 1000},
		{Year: 2025, Powertrain: models.PowertrainEV, Produced: 100},
	}}
	body := `{"months": 36, "iceChangePercent": -10, "evChangePercent": 200, "scenario": "OPTIMISTIC"}`
	rec := serve(t, src, http.MethodPost, "/api/uretim/forecast", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var got forecastBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2025, got.Data.BaseYear)
	require.NotNil(t, got.Data.CrossoverMonth)
	assert.Equal(t, 23, *got.Data.CrossoverMonth)
	require.Len(t, got.Data.ICE, 36)
	assert.Equal(t, 900.0, got.Data.ICE[11].Value)
	assert.Equal(t, 1265.0, got.Data.Total[11].Value)

	assert.Equal(t, 2, got.Meta.HistoricalRows)
	assert.Equal(t, "optimistic", got.Meta.ParametersUsed["scenario"])
}

func TestHandleForecastDefaults(t *testing.T) {
	rec := serve(t, &fakeSource{}, http.MethodPost, "/api/uretim/forecast", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got forecastBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Nil(t, got.Data.CrossoverMonth)
	assert.Empty(t, got.Data.ICE)
	assert.Equal(t, 12, got.Meta.ForecastMonths)
	assert.Equal(t, -5.0, got.Meta.ParametersUsed["iceChangePercent"])
	assert.Equal(t, 15.0, got.Meta.ParametersUsed["evChangePercent"])
	assert.Equal(t, "realistic", got.Meta.ParametersUsed["scenario"])
}

func TestHandleForecastClampsMonths(t *testing.T) {
	rec := serve(t, &fakeSource{}, http.MethodPost, "/api/uretim/forecast", `{"months": 9999}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got forecastBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 120, got.Meta.ForecastMonths)
}

func TestHandleCapacity(t *testing.T) {
	src := &fakeSource{lines: []models.LineCapacityRow{
		{LineCode: "H1", Capacity: 50000, Demand: 44000, Produced: 42000},
		{LineCode: "H2", Capacity: 20000, Demand: 25000, Produced: 19000},
	}}
	rec := serve(t, src, http.MethodGet, "/api/uretim/kapasite-yeterlilik?yil=2024", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2024, src.gotYear)

	var resp struct {
		Data struct {
			Lines []struct {
				Code   string `json:"hat_kodu"`
				Status string `json:"durum"`
			} `json:"hatlar"`
			OverCapacity int `json:"kapasiteAsimi"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Lines, 2)
	assert.Equal(t, "NORMAL", resp.Data.Lines[0].Status)
	assert.Equal(t, "OVER_CAPACITY", resp.Data.Lines[1].Status)
	assert.Equal(t, 1, resp.Data.OverCapacity)

	serve(t, src, http.MethodGet, "/api/uretim/kapasite", "")
	assert.Equal(t, 2025, src.gotYear)
}

func TestHandleYears(t *testing.T) {
	rec := serve(t, &fakeSource{years: []int{2023, 2024}}, http.MethodGet, "/api/uretim/yil-listesi", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int{2023, 2024}, resp.Data)
}

func TestStoreFailure(t *testing.T) {
	rec := serve(t, &fakeSource{err: errors.New("relation does not exist")}, http.MethodGet, "/api/uretim/trend-ozet", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp envelope.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}
