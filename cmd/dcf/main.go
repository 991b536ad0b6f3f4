// Command dcf runs a single valuation from the terminal and prints the
// result as JSON or as a markdown report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/config"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/core/ingest"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/core/pipeline"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/core/report"
)

func main() {
	var (
		ticker         = flag.String("ticker", "", "stock ticker symbol (required)")
		years          = flag.Int("years", 5, "projection horizon in years (3-10)")
		terminalGrowth = flag.Float64("terminal-growth", 0.025, "terminal growth rate")
		riskFree       = flag.Float64("risk-free", 0, "risk-free rate override (0 = config default)")
		premium        = flag.Float64("premium", 0, "market risk premium override (0 = config default)")
		configPath     = flag.String("config", "", "path to config file (.yaml or .hjson)")
		statementsDir  = flag.String("statements-dir", "", "read saved statement pages from this directory instead of the live provider")
		asMarkdown     = flag.Bool("report", false, "print a markdown report instead of JSON")
	)
	flag.Parse()

	if *ticker == "" {
		fmt.Fprintln(os.Stderr, "usage: dcf -ticker AAPL [-years 5] [-terminal-growth 0.025]")
		os.Exit(2)
	}

	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var provider ingest.Provider
	if *statementsDir != "" {
		provider = ingest.NewHTMLProvider(*statementsDir)
	} else {
		provider = ingest.NewClient(cfg.Provider, logger)
	}

	runner := pipeline.NewRunner(provider, cfg, logger)
	req := pipeline.Request{
		Ticker:             *ticker,
		ProjectionYears:    *years,
		TerminalGrowthRate: *terminalGrowth,
		RiskFreeRate:       *riskFree,
		MarketRiskPremium:  *premium,
	}

	result, grid, err := runner.RunWithGrid(context.Background(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "valuation failed: %v\n", err)
		os.Exit(1)
	}

	if *asMarkdown {
		fmt.Println(report.Build(result, grid))
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(result)
}
