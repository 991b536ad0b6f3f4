// Package pipeline composes the valuation components into the synchronous
// per-request flow: fetch metrics, estimate the discount rate, project cash
// flows, valuate, and optionally derive the sensitivity grid. No component
// starts before its dependency completes, and each invocation owns its
// entire object graph; nothing is shared or persisted across requests.
package pipeline

import (
	"context"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/config"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/core/ingest"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/core/projection"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/core/sensitivity"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/core/valuation"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/core/wacc"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/models"
)

// Request is one valuation invocation. RiskFreeRate and MarketRiskPremium
// may be left zero to take the configured defaults; ProjectionYears is
// bounded to keep the explicit forecast meaningful.
type Request struct {
	Ticker             string  `json:"ticker" validate:"required,alphanum,max=10"`
	ProjectionYears    int     `json:"projection_years" validate:"gte=3,lte=10"`
	TerminalGrowthRate float64 `json:"terminal_growth_rate"`
	RiskFreeRate       float64 `json:"risk_free_rate"`
	MarketRiskPremium  float64 `json:"market_risk_premium"`
}

// Runner executes valuation requests against one data provider.
type Runner struct {
	provider ingest.Provider
	cfg      *config.Config
	logger   *zap.Logger
	validate *validator.Validate
}

// NewRunner wires a runner from its collaborators.
func NewRunner(provider ingest.Provider, cfg *config.Config, logger *zap.Logger) *Runner {
	return &Runner{
		provider: provider,
		cfg:      cfg,
		logger:   logger,
		validate: validator.New(),
	}
}

// resultNotes are the documented approximations attached to every result.
var resultNotes = []string{
	"cost of debt is a fixed estimate; source borrowing rates are not available from the data provider",
	"depreciation and change in working capital are projected as fixed ratios of revenue",
	"sensitivity grid is a linear re-estimate around the base case, not a re-run of the projection",
}

// Run executes the full pipeline for a single request and returns the
// deterministic ValuationResult. Rerunning with identical provider data
// yields a bit-identical result.
func (r *Runner) Run(ctx context.Context, req Request) (*models.ValuationResult, error) {
	if err := r.checkRequest(req); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	start := time.Now()
	log := r.logger.With(zap.String("run_id", runID), zap.String("ticker", req.Ticker))
	log.Info("starting valuation run",
		zap.Int("projection_years", req.ProjectionYears),
		zap.Float64("terminal_growth", req.TerminalGrowthRate))

	// The network fetch is the only blocking stage; bound it so a stalled
	// provider cannot hang the caller. Cancellation discards the partial
	// fetch, there is no persisted state to roll back.
	fetchCtx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Provider.TimeoutSeconds)*time.Second)
	defer cancel()

	set, err := r.provider.Statements(fetchCtx, req.Ticker)
	if err != nil {
		log.Warn("statement fetch failed", zap.Error(err))
		return nil, r.asDataUnavailable(err, req.Ticker)
	}
	snapshot, err := r.provider.Snapshot(fetchCtx, req.Ticker)
	if err != nil {
		log.Warn("market snapshot fetch failed", zap.Error(err))
		return nil, r.asDataUnavailable(err, req.Ticker)
	}

	metrics, err := ingest.Normalize(req.Ticker, set)
	if err != nil {
		return nil, err
	}
	log.Debug("metrics normalized", zap.Int("periods", len(metrics.Periods)))

	projector := projection.NewProjector(r.cfg.Fallbacks, r.cfg.Proxies)
	assumptions := projector.DeriveAssumptions(metrics)

	riskFree := req.RiskFreeRate
	if riskFree == 0 {
		riskFree = r.cfg.Rates.RiskFreeRate
	}
	premium := req.MarketRiskPremium
	if premium == 0 {
		premium = r.cfg.Rates.MarketRiskPremium
	}

	estimator := wacc.NewEstimator(riskFree, premium, r.cfg.Rates.CostOfDebt)
	breakdown := estimator.Estimate(metrics, snapshot, assumptions.TaxRate)

	proj := projector.Project(metrics, assumptions, req.ProjectionYears)

	result, err := valuation.Valuate(breakdown, proj, req.TerminalGrowthRate, metrics, snapshot)
	if err != nil {
		log.Warn("valuation failed", zap.Error(err))
		return nil, err
	}
	result.Assumptions = assumptions
	result.Notes = append([]string(nil), resultNotes...)

	log.Info("valuation run complete",
		zap.Float64("value_per_share", result.ValuePerShare),
		zap.Float64("wacc", result.WACC),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// RunWithGrid runs the pipeline and derives the sensitivity grid from the
// configured ranges.
func (r *Runner) RunWithGrid(ctx context.Context, req Request) (*models.ValuationResult, *sensitivity.Grid, error) {
	result, err := r.Run(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	s := r.cfg.Sensitivity
	grid, err := sensitivity.Analyze(result,
		sensitivity.Range{Min: s.WACCMin, Max: s.WACCMax, Step: s.WACCStep},
		sensitivity.Range{Min: s.GrowthMin, Max: s.GrowthMax, Step: s.GrowthStep},
		sensitivity.Coefficients{
			WACCWeight:      s.WACCWeight,
			GrowthWeight:    s.GrowthWeight,
			ReferenceGrowth: s.ReferenceGrowth,
		})
	if err != nil {
		return nil, nil, err
	}
	return result, grid, nil
}

// checkRequest rejects structurally invalid requests before any computation
// or network I/O begins.
func (r *Runner) checkRequest(req Request) error {
	if err := r.validate.Struct(req); err != nil {
		return models.WrapFailure(models.KindInvalidParameters, err, "invalid valuation request")
	}
	for name, v := range map[string]float64{
		"terminal_growth_rate": req.TerminalGrowthRate,
		"risk_free_rate":       req.RiskFreeRate,
		"market_risk_premium":  req.MarketRiskPremium,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.NewFailure(models.KindInvalidParameters, "%s is not a finite number", name)
		}
	}
	return nil
}

// asDataUnavailable keeps provider failures typed. Timeouts and transport
// errors that are not already classified surface as DATA_UNAVAILABLE.
func (r *Runner) asDataUnavailable(err error, ticker string) error {
	if models.KindOf(err) != "" {
		return err
	}
	return models.WrapFailure(models.KindDataUnavailable, err, "data provider failed for %s", ticker)
}
