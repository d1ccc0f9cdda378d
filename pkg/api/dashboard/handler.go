// Package dashboard serves the executive dashboard under /api/dashboard and
// the service health probe.
package dashboard

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"manufacturing_kds/pkg/api/httpx"
	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/envelope"
	"manufacturing_kds/pkg/core/executive"
	"manufacturing_kds/pkg/models"
)

// Source is the part of the store the dashboard reads.
type Source interface {
	Ping(ctx context.Context) error
	LatestPeriod(ctx context.Context) (models.Period, error)
	CountLines(ctx context.Context) (int, error)
	SupplierCount(ctx context.Context) (int, error)

	Production(ctx context.Context, year, quarter int) (float64, error)
	ScrapRate(ctx context.Context, year, quarter int) (float64, error)
	Incidents(ctx context.Context, year, quarter int) (float64, error)
	DeliveryDays(ctx context.Context, year, quarter int) (float64, error)
	LossInputs(ctx context.Context, year, quarter int) (models.LossInputs, error)
	QuarterLossInputs(ctx context.Context, year int) ([4]models.LossInputs, error)
	YearlyScrapRate(ctx context.Context) ([]models.PeriodAggregate, error)

	RobotSignals(ctx context.Context, year int) ([]models.RiskRow, error)
	ForkliftIncidents(ctx context.Context, year int) (float64, error)
	TopModel(ctx context.Context, year int) (*models.TopModel, error)

	QuarterSnapshots(ctx context.Context, fromYear int) ([]models.QuarterSnapshot, error)
	CriticalRobots(ctx context.Context) ([]models.RiskRow, error)
	CriticalStations(ctx context.Context) ([]models.RiskRow, error)
	CriticalSuppliers(ctx context.Context) ([]models.RiskRow, error)
	LossSourceTotals(ctx context.Context, year int) (models.LossSourceTotals, error)
	LossSourceDetails(ctx context.Context) (map[string][]models.NamedValue, error)
	ModuleRowCounts(ctx context.Context, year int) ([]models.ModuleCount, error)
}

const (
	tag = "DASHBOARD"

	// healthYears is how many years before the latest one the health map
	// covers.
	healthYears = 3
)

var (
	overviewTables = []string{"uretim_talep", "kaynak_kalitesi", "ergonomi", "intralojistik", "tedarikci_kalite", "hat", "tarih"}
	lossTables     = []string{"kaynak_kalitesi", "ergonomi", "intralojistik", "tedarikci_kalite", "tarih"}
	criticalTables = []string{"robot", "robot_bakim", "kaynak_kalitesi", "ergonomi", "istasyon", "tedarikci", "tedarikci_kalite"}
)

// Handler holds dependencies for the dashboard endpoints.
type Handler struct {
	src Source
	cfg assumption.ExecutivePolicy
}

// NewHandler creates a dashboard handler.
func NewHandler(src Source, cfg assumption.ExecutivePolicy) *Handler {
	return &Handler{src: src, cfg: cfg}
}

// Register mounts the panels on the /api/dashboard subrouter.
func (h *Handler) Register(r *mux.Router) {
	httpx.Handle(r, http.MethodGet, "/overview", h.HandleOverview)
	httpx.Handle(r, http.MethodGet, "/saglik-haritasi", h.HandleHealthMap)
	httpx.Handle(r, http.MethodGet, "/trend", h.HandleHealthMap)
	httpx.Handle(r, http.MethodGet, "/kayip-ekonomisi", h.HandleLossEconomics)
	httpx.Handle(r, http.MethodGet, "/kayip-kaynak", h.HandleLossSources)
	httpx.Handle(r, http.MethodGet, "/kayip-dagilim", h.HandleLossSources)
	httpx.Handle(r, http.MethodGet, "/kritik-noktalar", h.HandleCriticalPoints)
	httpx.Handle(r, http.MethodGet, "/veri-guveni", h.HandleDataTrust)
	httpx.Handle(r, http.MethodGet, "/veri-guncellik", h.HandleDataTrust)
	httpx.Handle(r, http.MethodGet, "/hedef-gerceklesen", h.HandleTargets)
	httpx.Handle(r, http.MethodGet, "/hedef-tahmin", h.HandleTargets)
}

// RegisterHealth mounts GET /health on r, which is expected to be the /api
// subrouter.
func (h *Handler) RegisterHealth(r *mux.Router) {
	httpx.Handle(r, http.MethodGet, "/health", h.HandleHealth)
}

// HandleHealth reports whether the store answers.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.src.Ping(r.Context()); err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(map[string]string{"status": "ok"}))
}

// panelReads runs independent store reads concurrently. A failed read is
// logged and leaves its target at the zero value, so one broken query never
// cancels the others.
type panelReads struct {
	g errgroup.Group
	r *http.Request
}

func (p *panelReads) read(name string, fn func(ctx context.Context) error) {
	p.g.Go(func() error {
		if err := fn(p.r.Context()); err != nil {
			log.Warn().Err(err).
				Str("panel", name).
				Str("request_id", httpx.RequestID(p.r.Context())).
				Msg("[DASHBOARD] read failed, using zero value")
		}
		return nil
	})
}

func (p *panelReads) wait() { _ = p.g.Wait() }

// latest resolves the reference period. It writes the error response itself
// and reports false when the store cannot be read at all.
func (h *Handler) latest(w http.ResponseWriter, r *http.Request) (models.Period, bool) {
	p, err := h.src.LatestPeriod(r.Context())
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return models.Period{}, false
	}
	return p, true
}

// HandleOverview builds the KPI strip and the action cards for the latest
// period.
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	latest, ok := h.latest(w, r)
	if !ok {
		return
	}
	year := latest.Year
	py, pq := executive.PreviousQuarter(year, latest.Quarter)

	in := executive.OverviewInput{Latest: latest}
	sig := executive.SignalInput{Year: year}

	reads := &panelReads{r: r}
	reads.read("lines", func(ctx context.Context) (err error) {
		in.ActiveLines, err = h.src.CountLines(ctx)
		return
	})
	reads.read("production", func(ctx context.Context) (err error) {
		in.Production, err = h.src.Production(ctx, year, 0)
		return
	})
	reads.read("prior production", func(ctx context.Context) (err error) {
		in.PriorProduction, err = h.src.Production(ctx, year-1, 0)
		return
	})
	reads.read("scrap", func(ctx context.Context) (err error) {
		in.ScrapRate, err = h.src.ScrapRate(ctx, year, latest.Quarter)
		return
	})
	reads.read("prior scrap", func(ctx context.Context) (err error) {
		in.PriorScrapRate, err = h.src.ScrapRate(ctx, py, pq)
		return
	})
	reads.read("incidents", func(ctx context.Context) (err error) {
		in.Incidents, err = h.src.Incidents(ctx, year, latest.Quarter)
		return
	})
	reads.read("prior incidents", func(ctx context.Context) (err error) {
		in.PriorIncidents, err = h.src.Incidents(ctx, py, pq)
		return
	})
	reads.read("loss", func(ctx context.Context) (err error) {
		in.Loss, err = h.src.LossInputs(ctx, year, 0)
		return
	})
	reads.read("prior loss", func(ctx context.Context) (err error) {
		in.PriorLoss, err = h.src.LossInputs(ctx, year-1, 0)
		return
	})
	reads.read("robot signals", func(ctx context.Context) (err error) {
		sig.Robots, err = h.src.RobotSignals(ctx, year)
		return
	})
	reads.read("forklift incidents", func(ctx context.Context) (err error) {
		sig.ForkliftIncidents, err = h.src.ForkliftIncidents(ctx, year)
		return
	})
	reads.read("suppliers", func(ctx context.Context) (err error) {
		sig.SupplierCount, err = h.src.SupplierCount(ctx)
		return
	})
	reads.read("top model", func(ctx context.Context) (err error) {
		sig.TopModel, err = h.src.TopModel(ctx, year)
		return
	})
	reads.wait()

	overview := executive.BuildOverview(in, h.cfg)
	overview.ActionSignals = executive.Signals(sig, h.cfg.Alerts)
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(overview, overviewTables...))
}

// HandleHealthMap lays out the quarterly figures of the recent years.
func (h *Handler) HandleHealthMap(w http.ResponseWriter, r *http.Request) {
	latest, ok := h.latest(w, r)
	if !ok {
		return
	}
	if latest.Year == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(overviewTables...))
		return
	}
	points, err := h.src.QuarterSnapshots(r.Context(), latest.Year-healthYears)
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	if len(points) == 0 {
		httpx.WriteJSON(w, http.StatusOK, envelope.WrapEmpty(overviewTables...))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(executive.HealthMap(points), overviewTables...))
}

// HandleLossEconomics prices the quarterly losses of yil, the latest year by
// default.
func (h *Handler) HandleLossEconomics(w http.ResponseWriter, r *http.Request) {
	latest, ok := h.latest(w, r)
	if !ok {
		return
	}
	year := httpx.Year(r, latest.Year)

	var (
		quarters [4]models.LossInputs
		produced float64
	)
	reads := &panelReads{r: r}
	reads.read("quarter losses", func(ctx context.Context) (err error) {
		quarters, err = h.src.QuarterLossInputs(ctx, year)
		return
	})
	reads.read("production", func(ctx context.Context) (err error) {
		produced, err = h.src.Production(ctx, year, 0)
		return
	})
	reads.wait()

	result := executive.LossEconomics(year, quarters, produced, h.cfg.Costs)
	log.Debug().Int("year", year).Float64("total", result.Total).Msg("[DASHBOARD] loss economics")
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(result, append(lossTables, "uretim_talep")...))
}

// HandleLossSources breaks the year's losses down by origin.
func (h *Handler) HandleLossSources(w http.ResponseWriter, r *http.Request) {
	latest, ok := h.latest(w, r)
	if !ok {
		return
	}
	year := httpx.Year(r, latest.Year)

	var (
		totals  models.LossSourceTotals
		details map[string][]models.NamedValue
	)
	reads := &panelReads{r: r}
	reads.read("loss totals", func(ctx context.Context) (err error) {
		totals, err = h.src.LossSourceTotals(ctx, year)
		return
	})
	reads.read("loss details", func(ctx context.Context) (err error) {
		details, err = h.src.LossSourceDetails(ctx)
		return
	})
	reads.wait()

	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(executive.LossSources(totals, details), lossTables...))
}

// HandleCriticalPoints ranks the riskiest robots, stations and suppliers.
// The three rankings are one panel, so any failed read fails the request.
func (h *Handler) HandleCriticalPoints(w http.ResponseWriter, r *http.Request) {
	var in executive.CriticalInput
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		in.Robots, err = h.src.CriticalRobots(ctx)
		return
	})
	g.Go(func() (err error) {
		in.Stations, err = h.src.CriticalStations(ctx)
		return
	})
	g.Go(func() (err error) {
		in.Suppliers, err = h.src.CriticalSuppliers(ctx)
		return
	})
	if err := g.Wait(); err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(executive.CriticalPoints(in, h.cfg.Alerts), criticalTables...))
}

// HandleDataTrust reports how complete each module is for the latest year.
func (h *Handler) HandleDataTrust(w http.ResponseWriter, r *http.Request) {
	latest, ok := h.latest(w, r)
	if !ok {
		return
	}
	counts, err := h.src.ModuleRowCounts(r.Context(), latest.Year)
	if err != nil {
		httpx.StoreError(w, r, tag, err)
		return
	}
	result := executive.DataTrust(latest, counts, h.cfg.Alerts)
	if len(result.Incomplete) > 0 {
		log.Info().Strs("modules", result.Incomplete).Int("year", latest.Year).Msg("[DASHBOARD] incomplete modules")
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(result, "uretim_talep", "kaynak_kalitesi", "ergonomi", "intralojistik", "tarih"))
}

// HandleTargets scores yil, the latest year by default, against the targets.
func (h *Handler) HandleTargets(w http.ResponseWriter, r *http.Request) {
	latest, ok := h.latest(w, r)
	if !ok {
		return
	}
	in := executive.Actuals{Year: httpx.Year(r, latest.Year)}

	var history []models.PeriodAggregate
	reads := &panelReads{r: r}
	reads.read("scrap", func(ctx context.Context) (err error) {
		in.ScrapRate, err = h.src.ScrapRate(ctx, in.Year, 0)
		return
	})
	reads.read("incidents", func(ctx context.Context) (err error) {
		in.Incidents, err = h.src.Incidents(ctx, in.Year, 0)
		return
	})
	reads.read("production", func(ctx context.Context) (err error) {
		in.Production, err = h.src.Production(ctx, in.Year, 0)
		return
	})
	reads.read("delivery", func(ctx context.Context) (err error) {
		in.DeliveryDays, err = h.src.DeliveryDays(ctx, in.Year, 0)
		return
	})
	reads.read("scrap history", func(ctx context.Context) (err error) {
		history, err = h.src.YearlyScrapRate(ctx)
		return
	})
	reads.wait()

	for _, p := range history {
		if p.Year <= in.Year {
			in.ScrapHistory = append(in.ScrapHistory, p)
		}
	}
	report := executive.TargetVsActual(in, h.cfg)
	for _, warn := range report.Warnings {
		log.Info().Str("metric", warn.Metric).Float64("deviation", warn.Deviation).Msg("[DASHBOARD] target band breached")
	}
	httpx.WriteJSON(w, http.StatusOK, envelope.Wrap(report, "kaynak_kalitesi", "ergonomi", "intralojistik", "uretim_talep", "tedarikci_kalite", "tarih"))
}
