// Package models defines the shared data model for a single valuation run:
// normalized historical statements, market data, derived assumptions and the
// final valuation result. Every entity is created fresh per request and is
// read-only once returned.
package models

// Period identifies a fiscal period as reported by the data provider,
// e.g. "2024-09-28". Periods are opaque to the valuation math; only their
// ordering matters.
type Period string

// Series maps a fiscal period to a reported value in the provider's
// currency units.
type Series map[Period]float64

// HistoricalMetrics holds the normalized line items for the trailing fiscal
// periods of one company. Periods is ordered most recent first. Every period
// listed in Periods has an entry in every series; metrics the provider could
// not supply are zero-filled so downstream arithmetic never hits a missing
// key.
type HistoricalMetrics struct {
	Ticker  string   `json:"ticker"`
	Periods []Period `json:"periods"`

	Revenue           Series `json:"revenue"`
	EBIT              Series `json:"ebit"`
	EBITDA            Series `json:"ebitda"`
	NetIncome         Series `json:"net_income"`
	TaxExpense        Series `json:"tax_expense"`
	OperatingCashFlow Series `json:"operating_cash_flow"`
	Capex             Series `json:"capex"`
	Depreciation      Series `json:"depreciation"`
	TotalDebt         Series `json:"total_debt"`
	Cash              Series `json:"cash"`
	WorkingCapital    Series `json:"working_capital"`
}

// Latest returns the value of s for the most recent period, or 0 when no
// period is available.
func (m *HistoricalMetrics) Latest(s Series) float64 {
	if len(m.Periods) == 0 {
		return 0
	}
	return s[m.Periods[0]]
}

// MarketSnapshot is a point-in-time read of market data for one ticker.
// It is owned exclusively by the valuation run that fetched it.
type MarketSnapshot struct {
	MarketCap         float64 `json:"market_cap"`
	SharesOutstanding float64 `json:"shares_outstanding"`
	Beta              float64 `json:"beta"`
	CurrentPrice      float64 `json:"current_price"`
}

// GrowthAssumptions are the trailing-average drivers feeding the projection.
// Each is derived from HistoricalMetrics where enough usable periods exist
// and falls back to a documented constant otherwise.
type GrowthAssumptions struct {
	RevenueGrowth float64 `json:"revenue_growth"`
	EBITMargin    float64 `json:"ebit_margin"`
	TaxRate       float64 `json:"tax_rate"`
	CapexRatio    float64 `json:"capex_ratio"`
}

// DiscountRateBreakdown holds the WACC and its components. Derived once per
// valuation run and immutable afterwards.
type DiscountRateBreakdown struct {
	WACC         float64 `json:"wacc"`
	CostOfEquity float64 `json:"cost_of_equity"`
	CostOfDebt   float64 `json:"cost_of_debt"`
	WeightEquity float64 `json:"weight_equity"`
	WeightDebt   float64 `json:"weight_debt"`
	Beta         float64 `json:"beta"`
}

// ProjectedYear is one year of the explicit forecast. Each year is computed
// independently from the base-year revenue and the year index; there is no
// cross-year feedback.
type ProjectedYear struct {
	Year         int     `json:"year"`
	Revenue      float64 `json:"revenue"`
	EBIT         float64 `json:"ebit"`
	NOPAT        float64 `json:"nopat"`
	Capex        float64 `json:"capex"`
	Depreciation float64 `json:"depreciation"`
	ChangeInWC   float64 `json:"change_in_wc"`
	FCF          float64 `json:"fcf"`
}

// CashFlowProjection is the ordered explicit forecast, year 1..N.
type CashFlowProjection []ProjectedYear

// ValuationResult is the complete output of one valuation request. It is
// deterministic for identical inputs: rerunning the pipeline with the same
// cached statements yields a bit-identical result. Request correlation ids
// belong to the transport envelope, not here.
type ValuationResult struct {
	Ticker string `json:"ticker"`

	EnterpriseValue float64 `json:"enterprise_value"`
	EquityValue     float64 `json:"equity_value"`
	ValuePerShare   float64 `json:"value_per_share"`
	CurrentPrice    float64 `json:"current_price"`
	UpsideDownside  float64 `json:"upside_downside"`
	WACC            float64 `json:"wacc"`
	TerminalValue   float64 `json:"terminal_value"`
	PVTerminalValue float64 `json:"pv_terminal_value"`
	PVCashFlows     float64 `json:"pv_cash_flows"`

	Projections CashFlowProjection    `json:"projections"`
	Discount    DiscountRateBreakdown `json:"wacc_breakdown"`
	Assumptions GrowthAssumptions     `json:"assumptions"`

	// Notes lists the documented approximations baked into this result
	// (fixed cost of debt, depreciation and working-capital proxies,
	// linear sensitivity re-estimate). The core never formats these for
	// display; the caller decides how to surface them.
	Notes []string `json:"notes,omitempty"`
}
