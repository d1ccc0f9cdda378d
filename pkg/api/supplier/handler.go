// Package supplier serves the supplier quality endpoints under /api/tedarikci.
package supplier

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"manufacturing_kds/pkg/api/httpx"
	"manufacturing_kds/pkg/core/envelope"
	coreSupplier "manufacturing_kds/pkg/core/supplier"
	"manufacturing_kds/pkg/models"
)

// Source is the part of the store the supplier endpoints read.
type Source interface {
	Suppliers(ctx context.Context) ([]models.SupplierInfo, error)
	SupplierTrend(ctx context.Context) ([]models.SupplierMetricRow, error)
	SupplierYearly(ctx context.Context, supplierID int64, startYear, endYear int) ([]models.SupplierMetricRow, error)
	SupplierLatest(ctx context.Context, year int) ([]models.SupplierMetricRow, error)
	ServiceRecords(ctx context.Context, supplierID int64, startYear, endYear int) ([]models.ServiceRecordRow, error)
	LatestYear(ctx context.Context) (int, error)
}

const (
	tag = "TEDARIKCI"

	tblSupplier = "tedarikci"
	tblQuality  = "tedarikci_kalite"
	tblService  = "servis_kayitlari"
	tblDate     = "tarih"

	defaultQualityChange = 2
	defaultPPMChange     = -5
)

// Handler holds dependencies for the supplier endpoints.
type Handler struct {
	src Source
}

// NewHandler creates a supplier handler.
func NewHandler(src Source) *Handler {
	return &Handler{src: src}
}

// Register mounts the routes on the /api/tedarikci subrouter.
func (h *Handler) Register(r *mux.Router) {
	httpx.Handle(r, http.MethodGet, "/historical", h.HandleHistorical)
	httpx.Handle(r, http.MethodPost, "/forecast", h.HandleForecast)
	httpx.Handle(r, http.MethodGet, "/liste", h.HandleList)
	httpx.Handle(r, http.MethodGet, "/son-durum", h.HandleScorecard)
	httpx.Handle(r, http.MethodGet, "/karsilastir", h.HandleScorecard)
	httpx.Handle(r, http.MethodGet, "/kalite-trendi/{id}", h.HandleQualityTrend)
	httpx.Handle(r, http.MethodGet, "/ppm-trendi/{id}", h.HandlePPMTrend)
	httpx.Handle(r, http.MethodGet, "/servis-analizi/{id}", h.HandleServiceAnalysis)
	httpx.Handle(r, http.MethodGet, "/teslimat-gecikme/{id}", h.HandleDeliveryDelay)
	httpx.Handle(r, http.MethodGet, "/ozet/{id}", h.HandleSummary)
}

// HandleHistorical returns every supplier's yearly quality.
func (h *Handler) HandleHistorical(w http.ResponseWriter, r *http.Request) {
	rows, err := h.src.SupplierTrend(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(rows) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblQuality, tblSupplier, tblDate))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(rows, tblQuality, tblSupplier, tblDate))
}

// QualityForecastRequest is the body of POST /forecast.
type QualityForecastRequest struct {
	Months               *int     `json:"months,omitempty"`
	QualityChangePercent *float64 `json:"qualityChangePercent,omitempty"`
	PPMChangePercent     *float64 `json:"ppmChangePercent,omitempty"`
}

// HandleForecast compounds the latest-year supplier averages.
func (h *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	var req QualityForecastRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	months := httpx.DefaultMonths
	if req.Months != nil {
		months = min(max(*req.Months, 0), httpx.MaxMonths)
	}
	qPct, pPct := float64(defaultQualityChange), float64(defaultPPMChange)
	if req.QualityChangePercent != nil {
		qPct = *req.QualityChangePercent
	}
	if req.PPMChangePercent != nil {
		pPct = *req.PPMChangePercent
	}

	year, err := h.src.LatestYear(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	rows, err := h.src.SupplierLatest(r.Context(), year)
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	result := coreSupplier.Forecast(rows, qPct, pPct, months)
	log.Debug().Int("base_year", result.BaseYear).Int("suppliers", result.BaseRows).Msg("[TEDARIKCI] quality forecast")

	meta := envelope.NewForecastMeta(result.BaseRows, months, map[string]any{
		"months":               months,
		"qualityChangePercent": qPct,
		"ppmChangePercent":     pPct,
	})
	httpx.WriteJSON(w, http.StatusOK, envelope.WrapForecast(result, meta))
}

// HandleList returns the supplier dimension.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.src.Suppliers(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(rows) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblSupplier))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(rows, tblSupplier))
}

// HandleScorecard ranks suppliers for yil, the latest year by default.
func (h *Handler) HandleScorecard(w http.ResponseWriter, r *http.Request) {
	year, err := h.src.LatestYear(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	year = httpx.Year(r, year)
	rows, err := h.src.SupplierLatest(r.Context(), year)
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(rows) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblQuality, tblSupplier))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(coreSupplier.Scorecard(rows), tblQuality, tblSupplier, tblDate))
}

// yearly reads one supplier's quality rows, writing the response itself on
// failure.
func (h *Handler) yearly(w http.ResponseWriter, r *http.Request) ([]models.SupplierMetricRow, bool) {
	id, ok := httpx.PathID(w, r)
	if !ok {
		return nil, false
	}
	start, end := httpx.YearRange(r, httpx.DefaultStartYear, httpx.DefaultEndYear)
	rows, err := h.src.SupplierYearly(r.Context(), id, start, end)
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return nil, false
	}
	return rows, true
}

func (h *Handler) writeTrend(w http.ResponseWriter, rows []models.SupplierMetricRow, value func(models.SupplierMetricRow) float64) {
	if len(rows) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblQuality, tblDate))
		return
	}
	points := make([]models.PeriodAggregate, 0, len(rows))
	for _, row := range rows {
		points = append(points, models.PeriodAggregate{Year: row.Year, Value: value(row)})
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(coreSupplier.TrendWithAverageChange(points), tblQuality, tblDate))
}

func qualityOf(r models.SupplierMetricRow) float64 { return r.AvgQualityScore }
func ppmOf(r models.SupplierMetricRow) float64     { return r.AvgPPMRate }

// HandleQualityTrend returns one supplier's quality score series.
func (h *Handler) HandleQualityTrend(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.yearly(w, r)
	if !ok {
		return
	}
	h.writeTrend(w, rows, qualityOf)
}

// HandlePPMTrend returns one supplier's PPM series.
func (h *Handler) HandlePPMTrend(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.yearly(w, r)
	if !ok {
		return
	}
	h.writeTrend(w, rows, ppmOf)
}

// HandleDeliveryDelay returns actual against planned delivery days.
func (h *Handler) HandleDeliveryDelay(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.yearly(w, r)
	if !ok {
		return
	}
	if len(rows) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblQuality, tblDate))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(coreSupplier.DeliveryDelay(rows), tblQuality, tblDate))
}

// HandleServiceAnalysis splits service records by warranty status.
func (h *Handler) HandleServiceAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(w, r)
	if !ok {
		return
	}
	start, end := httpx.YearRange(r, httpx.DefaultStartYear, httpx.DefaultEndYear)
	rows, err := h.src.ServiceRecords(r.Context(), id, start, end)
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(rows) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblService, tblDate))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(coreSupplier.ServiceAnalysis(rows), tblService, tblDate))
}

// Summary gathers one supplier's panels.
type Summary struct {
	SupplierID int64                       `json:"tedarikci_id"`
	Quality    coreSupplier.TrendResult    `json:"kalite"`
	PPM        coreSupplier.TrendResult    `json:"ppm"`
	Delivery   coreSupplier.DelayResult    `json:"teslimat"`
	Service    coreSupplier.ServiceSummary `json:"servis"`
}

// HandleSummary combines the quality, PPM, delivery and service panels.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(w, r)
	if !ok {
		return
	}
	start, end := httpx.YearRange(r, httpx.DefaultStartYear, httpx.DefaultEndYear)
	rows, err := h.src.SupplierYearly(r.Context(), id, start, end)
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	service, err := h.src.ServiceRecords(r.Context(), id, start, end)
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(rows) == 0 && len(service) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblQuality, tblService))
		return
	}

	quality := make([]models.PeriodAggregate, 0, len(rows))
	ppm := make([]models.PeriodAggregate, 0, len(rows))
	for _, row := range rows {
		quality = append(quality, models.PeriodAggregate{Year: row.Year, Value: row.AvgQualityScore})
		ppm = append(ppm, models.PeriodAggregate{Year: row.Year, Value: row.AvgPPMRate})
	}
	summary := Summary{
		SupplierID: id,
		Quality:    coreSupplier.TrendWithAverageChange(quality),
		PPM:        coreSupplier.TrendWithAverageChange(ppm),
		Delivery:   coreSupplier.DeliveryDelay(rows),
		Service:    coreSupplier.ServiceAnalysis(service).Summary,
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(summary, tblQuality, tblService, tblSupplier, tblDate))
}
