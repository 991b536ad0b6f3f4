package ingest

import (
	"strings"

	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/models"
)

// maxPeriods bounds a valuation run to the three most recent fiscal periods,
// matching the trailing-average window of the projector.
const maxPeriods = 3

// statementKind selects which table of a StatementSet a metric is read from.
type statementKind int

const (
	incomeStatement statementKind = iota
	balanceSheet
	cashFlowStatement
)

// metricSource binds a canonical metric to its source statement and the
// preferred label spelling. Candidate spellings are derived from the label
// once per fetch; providers disagree on casing and spacing more than on
// wording.
type metricSource struct {
	statement statementKind
	label     string
}

// metricSources is the explicit canonical-name -> source-label mapping.
// Working capital is deliberately absent: it is derived from current assets
// and current liabilities, not sourced.
var metricSources = map[string]metricSource{
	"revenue":             {incomeStatement, "Total Revenue"},
	"ebit":                {incomeStatement, "EBIT"},
	"ebitda":              {incomeStatement, "EBITDA"},
	"net_income":          {incomeStatement, "Net Income"},
	"tax_expense":         {incomeStatement, "Tax Provision"},
	"operating_cash_flow": {cashFlowStatement, "Operating Cash Flow"},
	"capex":               {cashFlowStatement, "Capital Expenditure"},
	"depreciation":        {cashFlowStatement, "Depreciation"},
	"total_debt":          {balanceSheet, "Total Debt"},
	"cash":                {balanceSheet, "Cash And Cash Equivalents"},
}

// labelCandidates expands a canonical label into the ordered spellings we
// accept from a provider: exact, no-space, Title Case, lowercase.
func labelCandidates(label string) []string {
	return []string{
		label,
		strings.ReplaceAll(label, " ", ""),
		titleCase(label),
		strings.ToLower(label),
	}
}

// titleCase capitalizes the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// safeExtract pulls one metric for every period, trying each candidate
// spelling against the table's row index and taking the first row that
// exists. When no spelling matches, every period defaults to zero; a single
// unmapped line item must not fail the whole fetch.
func safeExtract(table *StatementTable, label string, periods []models.Period) models.Series {
	out := make(models.Series, len(periods))
	for _, cand := range labelCandidates(label) {
		if !table.HasRow(cand) {
			continue
		}
		for _, p := range periods {
			v, _ := table.Lookup(cand, p)
			out[p] = v
		}
		return out
	}
	for _, p := range periods {
		out[p] = 0
	}
	return out
}

// deriveWorkingCapital computes per-period working capital as current assets
// minus current liabilities, defaulting either side to zero when the balance
// sheet does not report it.
func deriveWorkingCapital(balance *StatementTable, periods []models.Period) models.Series {
	assets := safeExtract(balance, "Current Assets", periods)
	liabilities := safeExtract(balance, "Current Liabilities", periods)

	out := make(models.Series, len(periods))
	for _, p := range periods {
		out[p] = assets[p] - liabilities[p]
	}
	return out
}

// Normalize turns a provider StatementSet into HistoricalMetrics for the
// three most recent fiscal periods. The income statement's period index
// defines the run's period set; a set with no periods at all is structurally
// incompatible and surfaces DATA_UNAVAILABLE.
func Normalize(ticker string, set *StatementSet) (*models.HistoricalMetrics, error) {
	if set == nil || len(set.Income.Periods) == 0 {
		return nil, models.NewFailure(models.KindDataUnavailable, "no fiscal periods in statements for %s", ticker)
	}

	periods := set.Income.Periods
	if len(periods) > maxPeriods {
		periods = periods[:maxPeriods]
	}

	tableFor := func(kind statementKind) *StatementTable {
		switch kind {
		case balanceSheet:
			return &set.Balance
		case cashFlowStatement:
			return &set.CashFlow
		default:
			return &set.Income
		}
	}

	extract := func(metric string) models.Series {
		src := metricSources[metric]
		return safeExtract(tableFor(src.statement), src.label, periods)
	}

	m := &models.HistoricalMetrics{
		Ticker:            ticker,
		Periods:           append([]models.Period(nil), periods...),
		Revenue:           extract("revenue"),
		EBIT:              extract("ebit"),
		EBITDA:            extract("ebitda"),
		NetIncome:         extract("net_income"),
		TaxExpense:        extract("tax_expense"),
		OperatingCashFlow: extract("operating_cash_flow"),
		Capex:             extract("capex"),
		Depreciation:      extract("depreciation"),
		TotalDebt:         extract("total_debt"),
		Cash:              extract("cash"),
		WorkingCapital:    deriveWorkingCapital(&set.Balance, periods),
	}
	return m, nil
}
