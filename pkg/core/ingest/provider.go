// Package ingest implements Financial Data Access: it talks to an external
// market-data collaborator and normalizes whatever it returns into the
// uniform HistoricalMetrics structure the valuation core consumes.
//
// The collaborator is an opaque capability behind the Provider interface.
// Any source that can expose period-indexed statement tables and a market
// snapshot is substitutable; this package ships an HTTP client and an
// offline HTML-table provider.
package ingest

import (
	"context"

	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/models"
)

// StatementTable is one financial statement as a period-indexed metric
// table: row label -> fiscal period -> reported value. Labels are kept
// exactly as the provider spelled them; matching against canonical metric
// names happens during normalization.
type StatementTable struct {
	Periods []models.Period                      `json:"periods"`
	Rows    map[string]map[models.Period]float64 `json:"rows"`
}

// Lookup returns the value for a row label and period, reporting whether
// the row exists at all. A missing period inside an existing row reads as
// zero, matching the zero-fill contract.
func (t *StatementTable) Lookup(label string, p models.Period) (float64, bool) {
	row, ok := t.Rows[label]
	if !ok {
		return 0, false
	}
	return row[p], true
}

// HasRow reports whether the table carries a row under the given label.
func (t *StatementTable) HasRow(label string) bool {
	_, ok := t.Rows[label]
	return ok
}

// StatementSet bundles the three statements of one company.
type StatementSet struct {
	Income   StatementTable `json:"income_statement"`
	Balance  StatementTable `json:"balance_sheet"`
	CashFlow StatementTable `json:"cash_flow"`
}

// Provider is the data-collaborator contract. Implementations perform the
// only blocking I/O of a valuation run, so both calls honor ctx deadlines
// and cancellation. Failures come back as DATA_UNAVAILABLE, never as a
// partially filled result.
type Provider interface {
	// Statements returns the historical income statement, balance sheet
	// and cash flow statement for a ticker.
	Statements(ctx context.Context, ticker string) (*StatementSet, error)

	// Snapshot returns current market capitalization, shares outstanding,
	// beta and the latest close price.
	Snapshot(ctx context.Context, ticker string) (*models.MarketSnapshot, error)
}
