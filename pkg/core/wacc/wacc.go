// Package wacc estimates a blended cost of capital from capital-structure
// weights and a CAPM cost of equity.
package wacc

import (
	"math"

	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/models"
)

// Estimator holds the market-rate inputs of the discount rate calculation.
// RiskFreeRate and MarketRiskPremium are caller-overridable per request.
// CostOfDebt is a fixed estimate: real source borrowing rates are not
// available from the data collaborator, a known approximation surfaced to
// callers through ValuationResult.Notes.
type Estimator struct {
	RiskFreeRate      float64
	MarketRiskPremium float64
	CostOfDebt        float64
}

// NewEstimator builds an estimator from the per-request rates.
func NewEstimator(riskFreeRate, marketRiskPremium, costOfDebt float64) *Estimator {
	return &Estimator{
		RiskFreeRate:      riskFreeRate,
		MarketRiskPremium: marketRiskPremium,
		CostOfDebt:        costOfDebt,
	}
}

// Estimate computes the DiscountRateBreakdown for one company.
//
//	Ke   = Rf + beta * ERP            (CAPM)
//	We   = E / (E + |D|)              (market cap vs latest total debt)
//	WACC = We*Ke + Wd*Kd*(1 - t)
//
// When debt plus equity is zero there is no capital structure to weight and
// WACC collapses to the cost of equity.
func (e *Estimator) Estimate(metrics *models.HistoricalMetrics, snapshot *models.MarketSnapshot, taxRate float64) models.DiscountRateBreakdown {
	beta := snapshot.Beta
	costOfEquity := e.RiskFreeRate + beta*e.MarketRiskPremium

	totalDebt := math.Abs(metrics.Latest(metrics.TotalDebt))
	equity := snapshot.MarketCap
	totalValue := totalDebt + equity

	if totalValue == 0 {
		return models.DiscountRateBreakdown{
			WACC:         costOfEquity,
			CostOfEquity: costOfEquity,
			CostOfDebt:   e.CostOfDebt,
			WeightEquity: 1,
			WeightDebt:   0,
			Beta:         beta,
		}
	}

	weightEquity := equity / totalValue
	weightDebt := totalDebt / totalValue
	waccValue := weightEquity*costOfEquity + weightDebt*e.CostOfDebt*(1-taxRate)

	return models.DiscountRateBreakdown{
		WACC:         waccValue,
		CostOfEquity: costOfEquity,
		CostOfDebt:   e.CostOfDebt,
		WeightEquity: weightEquity,
		WeightDebt:   weightDebt,
		Beta:         beta,
	}
}
