// Package production serves the ICE/EV production endpoints under /api/uretim.
package production

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"manufacturing_kds/pkg/api/httpx"
	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/envelope"
	coreProduction "manufacturing_kds/pkg/core/production"
	"manufacturing_kds/pkg/models"
)

// Source is the part of the store the production endpoints read.
type Source interface {
	ProductionByPowertrain(ctx context.Context) ([]models.ProductionRow, error)
	LineCapacity(ctx context.Context, year int) ([]models.LineCapacityRow, error)
	ProductionYears(ctx context.Context) ([]int, error)
}

const (
	tag = "URETIM"

	tblDemand = "uretim_talep"
	tblModel  = "model"
	tblLine   = "hat"
	tblDate   = "tarih"
)

// Handler holds dependencies for the production endpoints.
type Handler struct {
	src Source
	cfg assumption.ProductionPolicy
}

// NewHandler creates a production handler.
func NewHandler(src Source, cfg assumption.ProductionPolicy) *Handler {
	return &Handler{src: src, cfg: cfg}
}

// Register mounts the routes on the /api/uretim subrouter.
func (h *Handler) Register(r *mux.Router) {
	httpx.Handle(r, http.MethodGet, "/historical", h.HandleHistorical)
	httpx.Handle(r, http.MethodGet, "/trend", h.HandleHistorical)
	httpx.Handle(r, http.MethodPost, "/forecast", h.HandleForecast)
	httpx.Handle(r, http.MethodGet, "/trend-ozet", h.HandleTrendSummary)
	httpx.Handle(r, http.MethodGet, "/kapasite", h.HandleCapacity)
	httpx.Handle(r, http.MethodGet, "/kapasite-yeterlilik", h.HandleCapacity)
	httpx.Handle(r, http.MethodGet, "/yil-listesi", h.HandleYears)
}

// HandleHistorical returns demand and output per year and powertrain.
func (h *Handler) HandleHistorical(w http.ResponseWriter, r *http.Request) {
	rows, err := h.src.ProductionByPowertrain(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(rows) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblDemand, tblModel, tblDate))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(rows, tblDemand, tblModel, tblDate))
}

// HandleForecast projects ICE and EV output and reports their crossover.
func (h *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	var req coreProduction.ForecastParams
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	params := req.Resolve()
	params.Months = min(max(params.Months, 0), httpx.MaxMonths)

	rows, err := h.src.ProductionByPowertrain(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	result := coreProduction.Forecast(rows, params)
	ev := log.Debug().Int("base_year", result.BaseYear).Str("scenario", params.Scenario)
	if result.CrossoverMonth != nil {
		ev = ev.Int("crossover_month", *result.CrossoverMonth)
	}
	ev.Msg("[URETIM] powertrain forecast")

	meta := envelope.NewForecastMeta(result.BaseRows, params.Months, params.AsMap())
	httpx.WriteJSON(w, http.StatusOK, envelope.WrapForecast(result, meta))
}

// HandleTrendSummary averages the yearly production change per powertrain.
func (h *Handler) HandleTrendSummary(w http.ResponseWriter, r *http.Request) {
	start, end := httpx.YearRange(r, httpx.DefaultStartYear, httpx.DefaultEndYear)
	rows, err := h.src.ProductionByPowertrain(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(coreProduction.TrendSummary(rows, start, end), tblDemand, tblModel, tblDate))
}

// HandleCapacity scores each line's utilization for yil.
func (h *Handler) HandleCapacity(w http.ResponseWriter, r *http.Request) {
	year := httpx.Year(r, httpx.DefaultYear)
	lines, err := h.src.LineCapacity(r.Context(), year)
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(lines) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblLine, tblDemand))
		return
	}
	result := coreProduction.CapacityUtilization(lines, h.cfg)
	if result.OverCapacity > 0 {
		log.Info().Int("year", year).Int("lines", result.OverCapacity).Msg("[URETIM] demand above line capacity")
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(result, tblLine, tblDemand, tblDate))
}

// HandleYears lists the years with production records.
func (h *Handler) HandleYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.src.ProductionYears(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(years) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblDemand, tblDate))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(years, tblDemand, tblDate))
}
