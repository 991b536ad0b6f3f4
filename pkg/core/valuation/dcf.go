// Package valuation discounts a projected cash-flow stream and a Gordon
// terminal value to present value and converts enterprise value into a
// per-share equity value.
package valuation

import (
	"math"

	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/models"
)

// Valuate performs the two-stage DCF:
//
//	PV(FCF_k) = FCF_k / (1+WACC)^k
//	TV        = FCF_N * (1+g) / (WACC - g), at end of year N
//	EV        = sum PV(FCF) + PV(TV)
//	Equity    = EV - (latest total debt - latest cash)
//
// The terminal perpetuity diverges when WACC <= g, so that case is rejected
// as INVALID_DISCOUNT_SPREAD before any arithmetic. Per-share value and the
// upside fraction degrade to zero rather than dividing by unknown share
// counts or prices.
func Valuate(
	discount models.DiscountRateBreakdown,
	proj models.CashFlowProjection,
	terminalGrowth float64,
	metrics *models.HistoricalMetrics,
	snapshot *models.MarketSnapshot,
) (*models.ValuationResult, error) {
	if len(proj) == 0 {
		return nil, models.NewFailure(models.KindInsufficientHistory, "empty cash flow projection for %s", metrics.Ticker)
	}
	if discount.WACC <= terminalGrowth {
		return nil, models.NewFailure(models.KindInvalidDiscountSpread,
			"WACC %.4f must exceed terminal growth %.4f", discount.WACC, terminalGrowth)
	}

	var pvCashFlows float64
	for _, year := range proj {
		pvCashFlows += year.FCF / math.Pow(1+discount.WACC, float64(year.Year))
	}

	finalYear := proj[len(proj)-1]
	terminalValue := finalYear.FCF * (1 + terminalGrowth) / (discount.WACC - terminalGrowth)
	pvTerminal := terminalValue / math.Pow(1+discount.WACC, float64(finalYear.Year))

	enterpriseValue := pvCashFlows + pvTerminal
	netDebt := metrics.Latest(metrics.TotalDebt) - metrics.Latest(metrics.Cash)
	equityValue := enterpriseValue - netDebt

	valuePerShare := 0.0
	if snapshot.SharesOutstanding > 0 {
		valuePerShare = equityValue / snapshot.SharesOutstanding
	}

	upside := 0.0
	if snapshot.CurrentPrice > 0 {
		upside = (valuePerShare - snapshot.CurrentPrice) / snapshot.CurrentPrice
	}

	return &models.ValuationResult{
		Ticker:          metrics.Ticker,
		EnterpriseValue: enterpriseValue,
		EquityValue:     equityValue,
		ValuePerShare:   valuePerShare,
		CurrentPrice:    snapshot.CurrentPrice,
		UpsideDownside:  upside,
		WACC:            discount.WACC,
		TerminalValue:   terminalValue,
		PVTerminalValue: pvTerminal,
		PVCashFlows:     pvCashFlows,
		Projections:     proj,
		Discount:        discount,
	}, nil
}
