// Package projection derives forward-looking free cash flow from historical
// trailing averages and a compounding growth model.
package projection

import (
	"math"

	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/config"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/models"
)

// Projector turns HistoricalMetrics into GrowthAssumptions and an explicit
// free-cash-flow forecast. Depreciation and the change in working capital
// are not modeled from the statements; they are fixed revenue-ratio proxies,
// a documented simplification carried into ValuationResult.Notes.
type Projector struct {
	Fallbacks           config.FallbacksConfig
	DepreciationRatio   float64
	WorkingCapitalRatio float64
}

// NewProjector builds a projector from configuration.
func NewProjector(fallbacks config.FallbacksConfig, proxies config.ProxiesConfig) *Projector {
	return &Projector{
		Fallbacks:           fallbacks,
		DepreciationRatio:   proxies.DepreciationRatio,
		WorkingCapitalRatio: proxies.WorkingCapitalRatio,
	}
}

// mean returns the arithmetic mean of xs, or fallback when xs is empty.
// Sampling rules upstream guarantee no NaN enters xs, so no NaN can leave.
func mean(xs []float64, fallback float64) float64 {
	if len(xs) == 0 {
		return fallback
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// DeriveAssumptions computes trailing averages over the available periods.
//
// Revenue growth is measured from each older period to its newer neighbor,
// (newer - older) / |older|, so a positive number reads as "the more recent
// period grew". Pairs whose denominator period reported zero revenue are
// skipped. Margin, tax and capex averages sample only periods with a usable
// denominator. Whenever no qualifying periods exist, the documented fallback
// constant applies.
func (p *Projector) DeriveAssumptions(m *models.HistoricalMetrics) models.GrowthAssumptions {
	var growthRates, ebitMargins, taxRates, capexRatios []float64

	// Periods are newest first; walk adjacent pairs with the older period
	// as the denominator.
	for i := len(m.Periods) - 1; i >= 1; i-- {
		older := m.Revenue[m.Periods[i]]
		newer := m.Revenue[m.Periods[i-1]]
		if older != 0 {
			growthRates = append(growthRates, (newer-older)/math.Abs(older))
		}
	}

	for _, period := range m.Periods {
		revenue := m.Revenue[period]
		if revenue != 0 {
			ebitMargins = append(ebitMargins, m.EBIT[period]/revenue)
			capexRatios = append(capexRatios, math.Abs(m.Capex[period])/revenue)
		}
		if ebit := m.EBIT[period]; ebit > 0 {
			taxRates = append(taxRates, math.Abs(m.TaxExpense[period])/ebit)
		}
	}

	return models.GrowthAssumptions{
		RevenueGrowth: mean(growthRates, p.Fallbacks.RevenueGrowth),
		EBITMargin:    mean(ebitMargins, p.Fallbacks.EBITMargin),
		TaxRate:       mean(taxRates, p.Fallbacks.TaxRate),
		CapexRatio:    mean(capexRatios, p.Fallbacks.CapexRatio),
	}
}

// Project builds the explicit forecast for years 1..n, compounding from the
// most recent historical revenue R0:
//
//	revenue_k = R0 * (1+g)^k
//	FCF_k     = NOPAT_k + depreciation_k - capex_k - deltaWC_k
//
// Every year is computed independently from R0 and k; the compounding is
// reapplied from the base each time rather than chained through the prior
// year, which keeps the arithmetic bit-reproducible regardless of horizon.
func (p *Projector) Project(m *models.HistoricalMetrics, a models.GrowthAssumptions, n int) models.CashFlowProjection {
	baseRevenue := m.Latest(m.Revenue)

	out := make(models.CashFlowProjection, 0, n)
	for k := 1; k <= n; k++ {
		revenue := baseRevenue * math.Pow(1+a.RevenueGrowth, float64(k))
		ebit := revenue * a.EBITMargin
		nopat := ebit * (1 - a.TaxRate)
		capex := revenue * a.CapexRatio
		depreciation := revenue * p.DepreciationRatio
		changeInWC := revenue * p.WorkingCapitalRatio

		out = append(out, models.ProjectedYear{
			Year:         k,
			Revenue:      revenue,
			EBIT:         ebit,
			NOPAT:        nopat,
			Capex:        capex,
			Depreciation: depreciation,
			ChangeInWC:   changeInWC,
			FCF:          nopat + depreciation - capex - changeInWC,
		})
	}
	return out
}
