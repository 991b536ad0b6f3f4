package valuation

import (
	"math"
	"testing"

	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/models"
)

func flatProjection(fcf float64, years int) models.CashFlowProjection {
	proj := make(models.CashFlowProjection, 0, years)
	for k := 1; k <= years; k++ {
		proj = append(proj, models.ProjectedYear{Year: k, FCF: fcf})
	}
	return proj
}

func baseMetrics() *models.HistoricalMetrics {
	return &models.HistoricalMetrics{
		Ticker:    "TEST",
		Periods:   []models.Period{"2024"},
		TotalDebt: models.Series{"2024": 400},
		Cash:      models.Series{"2024": 100},
	}
}

func TestValuateTerminalValue(t *testing.T) {
	// TV = 100 * 1.025 / (0.10 - 0.025) = 1366.6667
	discount := models.DiscountRateBreakdown{WACC: 0.10}
	snapshot := &models.MarketSnapshot{SharesOutstanding: 10, CurrentPrice: 50}

	result, err := Valuate(discount, flatProjection(100, 5), 0.025, baseMetrics(), snapshot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.TerminalValue-1366.6667) > 0.01 {
		t.Errorf("expected terminal value 1366.67, got %f", result.TerminalValue)
	}

	// PV(FCF) for a flat 100 over 5 years at 10% is the annuity value
	// 100 * (1 - 1.1^-5) / 0.1 = 379.0787.
	if math.Abs(result.PVCashFlows-379.0787) > 0.01 {
		t.Errorf("expected PV of cash flows 379.08, got %f", result.PVCashFlows)
	}

	// PV(TV) = 1366.6667 / 1.1^5 = 848.5964; EV is their sum.
	if math.Abs(result.PVTerminalValue-848.5964) > 0.01 {
		t.Errorf("expected PV of terminal value 848.60, got %f", result.PVTerminalValue)
	}
	if math.Abs(result.EnterpriseValue-(result.PVCashFlows+result.PVTerminalValue)) > 1e-9 {
		t.Error("enterprise value must equal PV(cash flows) + PV(terminal)")
	}

	// Net debt = 400 - 100 = 300; equity = EV - 300; 10 shares.
	wantEquity := result.EnterpriseValue - 300
	if math.Abs(result.EquityValue-wantEquity) > 1e-9 {
		t.Errorf("expected equity value %f, got %f", wantEquity, result.EquityValue)
	}
	if math.Abs(result.ValuePerShare-wantEquity/10) > 1e-9 {
		t.Errorf("expected per-share %f, got %f", wantEquity/10, result.ValuePerShare)
	}

	wantUpside := (result.ValuePerShare - 50) / 50
	if math.Abs(result.UpsideDownside-wantUpside) > 1e-9 {
		t.Errorf("expected upside %f, got %f", wantUpside, result.UpsideDownside)
	}
}

func TestValuateRejectsNarrowSpread(t *testing.T) {
	snapshot := &models.MarketSnapshot{SharesOutstanding: 10, CurrentPrice: 50}

	for _, wacc := range []float64{0.025, 0.02} {
		discount := models.DiscountRateBreakdown{WACC: wacc}
		_, err := Valuate(discount, flatProjection(100, 5), 0.025, baseMetrics(), snapshot)
		if models.KindOf(err) != models.KindInvalidDiscountSpread {
			t.Errorf("WACC %.3f vs growth 0.025: expected INVALID_DISCOUNT_SPREAD, got %v", wacc, err)
		}
	}
}

func TestValuateRejectsEmptyProjection(t *testing.T) {
	discount := models.DiscountRateBreakdown{WACC: 0.10}
	snapshot := &models.MarketSnapshot{SharesOutstanding: 10}

	_, err := Valuate(discount, nil, 0.025, baseMetrics(), snapshot)
	if models.KindOf(err) != models.KindInsufficientHistory {
		t.Errorf("expected INSUFFICIENT_HISTORY, got %v", err)
	}
}

func TestValuateZeroSharesAndPrice(t *testing.T) {
	// Missing share count or quote degrades per-share and upside to zero
	// instead of dividing by zero.
	discount := models.DiscountRateBreakdown{WACC: 0.10}
	snapshot := &models.MarketSnapshot{SharesOutstanding: 0, CurrentPrice: 0}

	result, err := Valuate(discount, flatProjection(100, 5), 0.025, baseMetrics(), snapshot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ValuePerShare != 0 {
		t.Errorf("expected zero per-share value, got %f", result.ValuePerShare)
	}
	if result.UpsideDownside != 0 {
		t.Errorf("expected zero upside, got %f", result.UpsideDownside)
	}
	if result.EnterpriseValue <= 0 {
		t.Errorf("enterprise value should still be computed, got %f", result.EnterpriseValue)
	}
}

func TestValuateNegativeNetDebtAddsCash(t *testing.T) {
	// More cash than debt raises equity above enterprise value.
	discount := models.DiscountRateBreakdown{WACC: 0.10}
	snapshot := &models.MarketSnapshot{SharesOutstanding: 10, CurrentPrice: 50}
	m := baseMetrics()
	m.TotalDebt = models.Series{"2024": 100}
	m.Cash = models.Series{"2024": 400}

	result, err := Valuate(discount, flatProjection(100, 5), 0.025, m, snapshot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.EquityValue-(result.EnterpriseValue+300)) > 1e-9 {
		t.Errorf("expected equity = EV + 300, got EV %f equity %f", result.EnterpriseValue, result.EquityValue)
	}
}
