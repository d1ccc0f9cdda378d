// Package logistics serves the intralogistics endpoints under /api/lojistik.
package logistics

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"manufacturing_kds/pkg/api/httpx"
	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/envelope"
	coreLogistics "manufacturing_kds/pkg/core/logistics"
	"manufacturing_kds/pkg/models"
)

// Source is the part of the store the logistics endpoints read.
type Source interface {
	LatestLogistics(ctx context.Context) ([]models.LogisticsMetricRow, error)
	LogisticsHistory(ctx context.Context) ([]models.LogisticsMetricRow, error)
}

const (
	tag = "LOJISTIK"

	tblLogistics = "intralojistik"
	tblDate      = "tarih"

	defaultForkliftChange = 5
	defaultAGVChange      = -20
)

// Handler holds dependencies for the logistics endpoints.
type Handler struct {
	src Source
	cfg assumption.LogisticsCosts
}

// NewHandler creates a logistics handler.
func NewHandler(src Source, cfg assumption.LogisticsCosts) *Handler {
	return &Handler{src: src, cfg: cfg}
}

// Register mounts the routes on the /api/lojistik subrouter.
func (h *Handler) Register(r *mux.Router) {
	httpx.Handle(r, http.MethodGet, "/historical", h.HandleHistory)
	httpx.Handle(r, http.MethodGet, "/yillik", h.HandleHistory)
	httpx.Handle(r, http.MethodGet, "/yillik-trend", h.HandleHistory)
	httpx.Handle(r, http.MethodPost, "/forecast", h.HandleForecast)
	httpx.Handle(r, http.MethodGet, "/maliyet", h.HandleCostModel)
	httpx.Handle(r, http.MethodGet, "/agv-karsilastirma", h.HandleCostModel)
	httpx.Handle(r, http.MethodGet, "/agv-kazanc", h.HandleCostModel)
	httpx.Handle(r, http.MethodPost, "/senaryo", h.HandleScenario)
}

// HandleHistory returns intralogistics aggregates per year and vehicle type.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.src.LogisticsHistory(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(rows) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(tblLogistics, tblDate))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(rows, tblLogistics, tblDate))
}

// IncidentForecastRequest is the body of POST /forecast.
type IncidentForecastRequest struct {
	Months                *int     `json:"months,omitempty"`
	ForkliftChangePercent *float64 `json:"forkliftChangePercent,omitempty"`
	AGVChangePercent      *float64 `json:"agvChangePercent,omitempty"`
}

// HandleForecast compounds the latest yearly incident totals per vehicle.
func (h *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	var req IncidentForecastRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	months := httpx.DefaultMonths
	if req.Months != nil {
		months = min(max(*req.Months, 0), httpx.MaxMonths)
	}
	fkPct, agvPct := float64(defaultForkliftChange), float64(defaultAGVChange)
	if req.ForkliftChangePercent != nil {
		fkPct = *req.ForkliftChangePercent
	}
	if req.AGVChangePercent != nil {
		agvPct = *req.AGVChangePercent
	}

	rows, err := h.src.LogisticsHistory(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	result := coreLogistics.IncidentForecast(rows, fkPct, agvPct, months)
	meta := envelope.NewForecastMeta(len(rows), months, map[string]any{
		"months":                months,
		"forkliftChangePercent": fkPct,
		"agvChangePercent":      agvPct,
	})
	httpx.WriteJSON(w, http.StatusOK, envelope.WrapForecast(result, meta))
}

// HandleCostModel compares the fully loaded annual cost of both fleets.
func (h *Handler) HandleCostModel(w http.ResponseWriter, r *http.Request) {
	rows, err := h.src.LatestLogistics(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	result := coreLogistics.CostModel(rows, h.cfg)
	log.Debug().Int("rows", len(rows)).Msg("[LOJISTIK] cost model")
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(result, tblLogistics, tblDate))
}

// HandleScenario scales the latest year to the requested fleet.
func (h *Handler) HandleScenario(w http.ResponseWriter, r *http.Request) {
	var params coreLogistics.ScenarioParams
	if err := httpx.DecodeBody(r, &params); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	latest, err := h.src.LatestLogistics(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	history, err := h.src.LogisticsHistory(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}

	result := coreLogistics.Scenario(latest, params, h.cfg)
	result.History = history
	log.Info().
		Float64("forklifts", result.Params.ForkliftCount).
		Float64("agvs", result.Params.AGVCount).
		Msg("[LOJISTIK] fleet scenario")
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(result, tblLogistics, tblDate))
}
