// Package welding serves the welding quality and robot economics endpoints
// under /api/kaynak.
package welding

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"manufacturing_kds/pkg/api/httpx"
	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/envelope"
	coreWelding "manufacturing_kds/pkg/core/welding"
	"manufacturing_kds/pkg/models"
)

// Source is the part of the store the welding endpoints read.
type Source interface {
	YearlyScrapRate(ctx context.Context) ([]models.PeriodAggregate, error)
	WeldQualityTrend(ctx context.Context) ([]models.WeldQualityRow, error)
	RobotScrapTrend(ctx context.Context, startYear, endYear int) ([]models.RobotMetricRow, error)
	RobotYearlyScrap(ctx context.Context, startYear, endYear int) ([]models.RobotMetricRow, error)
	MaintenanceByRobot(ctx context.Context, startYear, endYear int) (map[string]float64, error)
	LatestRobotScrap(ctx context.Context) ([]models.RobotMetricRow, error)
	RobotMaintenanceAnalysis(ctx context.Context) ([]models.RobotMaintenanceRow, error)
	MaintenanceEvents(ctx context.Context) ([]models.MaintenanceEvent, error)
}

const (
	tag = "KAYNAK"

	tblQuality     = "kaynak_kalitesi"
	tblRobot       = "robot"
	tblMaintenance = "robot_bakim"
	tblDate        = "tarih"

	defaultScrapChange = 5
	maintenanceYears   = 3
)

// Handler holds dependencies for the welding endpoints.
type Handler struct {
	src Source
	cfg assumption.WeldingPolicy
}

// NewHandler creates a welding handler.
func NewHandler(src Source, cfg assumption.WeldingPolicy) *Handler {
	return &Handler{src: src, cfg: cfg}
}

// Register mounts the routes on r, which is expected to be the /api/kaynak
// subrouter.
func (h *Handler) Register(r *mux.Router) {
	httpx.Handle(r, http.MethodGet, "/historical", h.HandleHistorical)
	httpx.Handle(r, http.MethodPost, "/forecast", h.HandleForecast)
	httpx.Handle(r, http.MethodGet, "/kalite", h.HandleQuality)
	httpx.Handle(r, http.MethodGet, "/robot-scrap-trendi", h.HandleRobotScrapTrend)
	httpx.Handle(r, http.MethodPost, "/scrap-senaryo", h.HandleRateScenario)
	httpx.Handle(r, http.MethodGet, "/kazanim-senaryo", h.HandleSavings)
	httpx.Handle(r, http.MethodGet, "/yatirim-matrisi", h.HandleInvestmentMatrix)
	httpx.Handle(r, http.MethodGet, "/zarar-tahmini", h.HandleLossProjection)
	httpx.Handle(r, http.MethodGet, "/bakim-yatirim-analiz", h.HandleMaintenanceInvestment)
	httpx.Handle(r, http.MethodGet, "/robot-bakim-gecmisi", h.HandleMaintenanceHistory)
}

// HandleHistorical returns the plant-wide yearly average scrap rate.
func (h *Handler) HandleHistorical(w http.ResponseWriter, r *http.Request) {
	rows, err := h.src.YearlyScrapRate(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(rows) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblQuality, tblDate))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(rows, tblQuality, tblDate))
}

// ScrapForecastRequest is the body of POST /forecast.
type ScrapForecastRequest struct {
	Months             *int     `json:"months,omitempty"`
	ScrapChangePercent *float64 `json:"scrapChangePercent,omitempty"`
}

// HandleForecast compounds the latest yearly scrap rate.
func (h *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	var req ScrapForecastRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	months := httpx.DefaultMonths
	if req.Months != nil {
		months = min(max(*req.Months, 0), httpx.MaxMonths)
	}
	pct := float64(defaultScrapChange)
	if req.ScrapChangePercent != nil {
		pct = *req.ScrapChangePercent
	}

	rows, err := h.src.YearlyScrapRate(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	result := coreWelding.ScrapForecast(rows, pct, months)
	log.Debug().Int("base_year", result.BaseYear).Float64("pct", pct).Int("months", months).Msg("[KAYNAK] scrap forecast")

	meta := envelope.NewForecastMeta(len(rows), months, map[string]any{
		"months":             months,
		"scrapChangePercent": pct,
	})
	httpx.WriteJSON(w, http.StatusOK, envelope.WrapForecast(result, meta))
}

// HandleQuality returns the yearly weld quality per robot.
func (h *Handler) HandleQuality(w http.ResponseWriter, r *http.Request) {
	rows, err := h.src.WeldQualityTrend(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(rows) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblQuality, tblRobot, tblDate))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(rows, tblQuality, tblRobot, tblDate))
}

// HandleRobotScrapTrend returns the per-robot scrap rate series.
func (h *Handler) HandleRobotScrapTrend(w http.ResponseWriter, r *http.Request) {
	start, end := httpx.YearRange(r, httpx.DefaultStartYear, httpx.DefaultEndYear)
	rows, err := h.src.RobotScrapTrend(r.Context(), start, end)
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(rows) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblQuality, tblRobot, tblDate))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(coreWelding.ScrapTrend(rows), tblQuality, tblRobot, tblDate))
}

// RateScenarioRequest is the body of POST /scrap-senaryo: percentage
// changes keyed by robot code.
type RateScenarioRequest struct {
	RobotRates map[string]float64 `json:"robotOranlar,omitempty"`
}

// HandleRateScenario applies per-robot changes to the latest scrap rates.
func (h *Handler) HandleRateScenario(w http.ResponseWriter, r *http.Request) {
	var req RateScenarioRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := h.src.LatestRobotScrap(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(rows) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblQuality))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(coreWelding.RateScenario(rows, req.RobotRates), tblQuality, tblRobot))
}

// HandleSavings prices the configured scrap reduction rates.
func (h *Handler) HandleSavings(w http.ResponseWriter, r *http.Request) {
	rows, err := h.src.LatestRobotScrap(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(rows) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblQuality))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(coreWelding.SavingsScenarios(rows, h.cfg.SavingsRates), tblQuality, tblRobot))
}

// HandleInvestmentMatrix classifies robots by scrap growth and cost.
func (h *Handler) HandleInvestmentMatrix(w http.ResponseWriter, r *http.Request) {
	start, end := httpx.YearRange(r, httpx.DefaultMatrixStartYear, httpx.DefaultEndYear)
	rows, err := h.src.RobotYearlyScrap(r.Context(), start, end)
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	maintenance, err := h.src.MaintenanceByRobot(r.Context(), start, end)
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	result := coreWelding.InvestmentMatrix(rows, maintenance, h.cfg)
	log.Debug().Int("robots", len(result.Robots)).Int("start", start).Int("end", end).Msg("[KAYNAK] investment matrix")
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(result, tblQuality, tblMaintenance, tblRobot, tblDate))
}

// HandleLossProjection projects scrap cost under degisimOrani percent.
func (h *Handler) HandleLossProjection(w http.ResponseWriter, r *http.Request) {
	pct := httpx.Float(r, "degisimOrani", 0)
	rows, err := h.src.LatestRobotScrap(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(rows) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblQuality))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(coreWelding.LossProjection(rows, pct), tblQuality, tblRobot))
}

// HandleMaintenanceInvestment compares maintenance and replacement per robot.
func (h *Handler) HandleMaintenanceInvestment(w http.ResponseWriter, r *http.Request) {
	rows, err := h.src.RobotMaintenanceAnalysis(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(rows) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblQuality, tblMaintenance))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(coreWelding.MaintenanceInvestment(rows, h.cfg), tblQuality, tblMaintenance, tblRobot))
}

// HandleMaintenanceHistory lists the latest maintenance years per robot.
func (h *Handler) HandleMaintenanceHistory(w http.ResponseWriter, r *http.Request) {
	events, err := h.src.MaintenanceEvents(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(events) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblMaintenance))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(coreWelding.MaintenanceYears(events, maintenanceYears), tblMaintenance, tblRobot, tblDate))
}
