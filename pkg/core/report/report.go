// Package report renders a valuation result as a markdown summary and,
// for the dashboard, as HTML. This is presentation glue on top of the core;
// the valuation path itself never formats display strings.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/core/sensitivity"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/models"
)

// Build produces a markdown valuation summary. The grid section is omitted
// when grid is nil.
func Build(result *models.ValuationResult, grid *sensitivity.Grid) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# DCF Valuation: %s\n\n", result.Ticker)

	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Value per share | %.2f |\n", result.ValuePerShare)
	fmt.Fprintf(&b, "| Current price | %.2f |\n", result.CurrentPrice)
	fmt.Fprintf(&b, "| Upside / downside | %.1f%% |\n", result.UpsideDownside*100)
	fmt.Fprintf(&b, "| Enterprise value | %.0f |\n", result.EnterpriseValue)
	fmt.Fprintf(&b, "| Equity value | %.0f |\n", result.EquityValue)
	fmt.Fprintf(&b, "| PV of cash flows | %.0f |\n", result.PVCashFlows)
	fmt.Fprintf(&b, "| PV of terminal value | %.0f |\n", result.PVTerminalValue)
	fmt.Fprintf(&b, "| WACC | %.2f%% |\n\n", result.WACC*100)

	fmt.Fprintf(&b, "## Discount rate\n\n")
	d := result.Discount
	fmt.Fprintf(&b, "Cost of equity %.2f%% (beta %.2f), cost of debt %.2f%%, weights %.0f%% equity / %.0f%% debt.\n\n",
		d.CostOfEquity*100, d.Beta, d.CostOfDebt*100, d.WeightEquity*100, d.WeightDebt*100)

	fmt.Fprintf(&b, "## Assumptions\n\n")
	a := result.Assumptions
	fmt.Fprintf(&b, "| Driver | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Revenue growth | %.2f%% |\n", a.RevenueGrowth*100)
	fmt.Fprintf(&b, "| EBIT margin | %.2f%% |\n", a.EBITMargin*100)
	fmt.Fprintf(&b, "| Tax rate | %.2f%% |\n", a.TaxRate*100)
	fmt.Fprintf(&b, "| Capex / revenue | %.2f%% |\n\n", a.CapexRatio*100)

	fmt.Fprintf(&b, "## Projected free cash flow\n\n")
	fmt.Fprintf(&b, "| Year | Revenue | EBIT | NOPAT | FCF |\n|---|---|---|---|---|\n")
	for _, y := range result.Projections {
		fmt.Fprintf(&b, "| %d | %.0f | %.0f | %.0f | %.0f |\n", y.Year, y.Revenue, y.EBIT, y.NOPAT, y.FCF)
	}
	b.WriteString("\n")

	if grid != nil {
		fmt.Fprintf(&b, "## Sensitivity: value per share\n\n")
		b.WriteString("| WACC \\ g |")
		for _, g := range grid.Growths {
			fmt.Fprintf(&b, " %.1f%% |", g*100)
		}
		b.WriteString("\n|---|")
		for range grid.Growths {
			b.WriteString("---|")
		}
		b.WriteString("\n")
		for i, w := range grid.WACCs {
			fmt.Fprintf(&b, "| %.1f%% |", w*100)
			for _, v := range grid.Values[i] {
				fmt.Fprintf(&b, " %.2f |", v)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(result.Notes) > 0 {
		fmt.Fprintf(&b, "## Notes\n\n")
		for _, note := range result.Notes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
	}

	return b.String()
}

// renderer is the shared goldmark instance; tables carry most of the report.
var renderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// RenderHTML converts the markdown summary to HTML for the dashboard.
func RenderHTML(result *models.ValuationResult, grid *sensitivity.Grid) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(Build(result, grid)), &buf); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}
