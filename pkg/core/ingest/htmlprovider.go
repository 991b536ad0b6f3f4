package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/models"
)

// ParseStatementHTML reads a statement page whose first <table> lays out
// line items as rows and fiscal periods as columns:
//
//	| Breakdown | 2024-09-28 | 2023-09-30 | 2022-09-24 |
//	| Total Revenue | 391,035 | 383,285 | 394,328 |
//
// The header row supplies the period index; the first cell of each body row
// is the label, kept verbatim for candidate matching during normalization.
// Cells that do not parse as numbers (en dashes, blanks) read as zero.
func ParseStatementHTML(r io.Reader) (*StatementTable, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse statement HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table found in statement HTML")
	}

	out := &StatementTable{Rows: make(map[string]map[models.Period]float64)}

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("th, td").Map(func(_ int, cell *goquery.Selection) string {
			return strings.TrimSpace(cell.Text())
		})
		if len(cells) < 2 {
			return
		}

		if i == 0 {
			for _, p := range cells[1:] {
				out.Periods = append(out.Periods, models.Period(p))
			}
			return
		}

		label := cells[0]
		if label == "" {
			return
		}
		values := make(map[models.Period]float64, len(out.Periods))
		for j, p := range out.Periods {
			if j+1 < len(cells) {
				values[p] = parseNumber(cells[j+1])
			}
		}
		out.Rows[label] = values
	})

	if len(out.Periods) == 0 {
		return nil, fmt.Errorf("statement table has no period columns")
	}
	return out, nil
}

// parseNumber tolerates thousands separators and accounting-style negatives
// like "(1,234.5)".
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if neg {
		return -v
	}
	return v
}

// HTMLProvider serves statements from saved statement pages on disk,
// satisfying the same Provider contract as the live client. Expected layout
// under dir:
//
//	{TICKER}_income.html
//	{TICKER}_balance.html
//	{TICKER}_cashflow.html
//	{TICKER}_quote.json
//
// Useful for offline analysis and deterministic fixtures.
type HTMLProvider struct {
	dir string
}

func NewHTMLProvider(dir string) *HTMLProvider {
	return &HTMLProvider{dir: dir}
}

func (p *HTMLProvider) Statements(ctx context.Context, ticker string) (*StatementSet, error) {
	set := &StatementSet{}
	for _, stmt := range []struct {
		suffix string
		table  *StatementTable
	}{
		{"income", &set.Income},
		{"balance", &set.Balance},
		{"cashflow", &set.CashFlow},
	} {
		path := filepath.Join(p.dir, fmt.Sprintf("%s_%s.html", strings.ToUpper(ticker), stmt.suffix))
		f, err := os.Open(path)
		if err != nil {
			return nil, models.WrapFailure(models.KindDataUnavailable, err, "missing %s statement page for %s", stmt.suffix, ticker)
		}
		parsed, err := ParseStatementHTML(f)
		f.Close()
		if err != nil {
			return nil, models.WrapFailure(models.KindDataUnavailable, err, "unreadable %s statement page for %s", stmt.suffix, ticker)
		}
		*stmt.table = *parsed
	}
	return set, nil
}

func (p *HTMLProvider) Snapshot(ctx context.Context, ticker string) (*models.MarketSnapshot, error) {
	path := filepath.Join(p.dir, fmt.Sprintf("%s_quote.json", strings.ToUpper(ticker)))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, models.WrapFailure(models.KindDataUnavailable, err, "missing quote file for %s", ticker)
	}

	var payload quotePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, models.WrapFailure(models.KindDataUnavailable, err, "malformed quote file for %s", ticker)
	}

	snap := &models.MarketSnapshot{
		MarketCap:         payload.MarketCap,
		SharesOutstanding: payload.SharesOutstanding,
		Beta:              payload.Beta,
		CurrentPrice:      payload.CurrentPrice,
	}
	if snap.Beta == 0 {
		snap.Beta = 1.0
	}
	return snap, nil
}
