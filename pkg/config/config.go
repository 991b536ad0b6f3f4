// Package config holds every tunable constant of the valuation core as
// explicit configuration: default market rates, assumption fallbacks,
// projection proxies and sensitivity ranges. Nothing in the core reads
// module-level state; components receive these values through their
// constructors so tests can override them deterministically.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
	yaml "gopkg.in/yaml.v2"
)

type ServerConfig struct {
	Port string `yaml:"port" json:"port"`
}

// ProviderConfig configures the external market-data collaborator client.
type ProviderConfig struct {
	BaseURL        string  `yaml:"base_url" json:"base_url"`
	UserAgent      string  `yaml:"user_agent" json:"user_agent"`
	TimeoutSeconds int     `yaml:"timeout_seconds" json:"timeout_seconds"`
	RetryMax       int     `yaml:"retry_max" json:"retry_max"`
	RatePerSecond  float64 `yaml:"rate_per_second" json:"rate_per_second"`
}

// RatesConfig carries the market-rate inputs to the discount rate estimator.
// RiskFreeRate and MarketRiskPremium are only defaults; callers override them
// per request. CostOfDebt is a fixed estimate because real source rates are
// not available from the data collaborator.
type RatesConfig struct {
	RiskFreeRate      float64 `yaml:"risk_free_rate" json:"risk_free_rate"`
	MarketRiskPremium float64 `yaml:"market_risk_premium" json:"market_risk_premium"`
	CostOfDebt        float64 `yaml:"cost_of_debt" json:"cost_of_debt"`
}

// FallbacksConfig holds the documented assumption constants used when fewer
// than two usable historical periods exist.
type FallbacksConfig struct {
	RevenueGrowth float64 `yaml:"revenue_growth" json:"revenue_growth"`
	EBITMargin    float64 `yaml:"ebit_margin" json:"ebit_margin"`
	TaxRate       float64 `yaml:"tax_rate" json:"tax_rate"`
	CapexRatio    float64 `yaml:"capex_ratio" json:"capex_ratio"`
}

// ProxiesConfig holds the fixed revenue-ratio proxies for line items the
// projection does not model directly.
type ProxiesConfig struct {
	DepreciationRatio   float64 `yaml:"depreciation_ratio" json:"depreciation_ratio"`
	WorkingCapitalRatio float64 `yaml:"working_capital_ratio" json:"working_capital_ratio"`
}

// SensitivityConfig defines the default grid and the fixed elasticity
// coefficients of the linear sensitivity re-estimate.
type SensitivityConfig struct {
	WACCMin    float64 `yaml:"wacc_min" json:"wacc_min"`
	WACCMax    float64 `yaml:"wacc_max" json:"wacc_max"`
	WACCStep   float64 `yaml:"wacc_step" json:"wacc_step"`
	GrowthMin  float64 `yaml:"growth_min" json:"growth_min"`
	GrowthMax  float64 `yaml:"growth_max" json:"growth_max"`
	GrowthStep float64 `yaml:"growth_step" json:"growth_step"`

	ReferenceGrowth float64 `yaml:"reference_growth" json:"reference_growth"`
	WACCWeight      float64 `yaml:"wacc_weight" json:"wacc_weight"`
	GrowthWeight    float64 `yaml:"growth_weight" json:"growth_weight"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type Config struct {
	Server      ServerConfig      `yaml:"server" json:"server"`
	Provider    ProviderConfig    `yaml:"provider" json:"provider"`
	Rates       RatesConfig       `yaml:"rates" json:"rates"`
	Fallbacks   FallbacksConfig   `yaml:"fallbacks" json:"fallbacks"`
	Proxies     ProxiesConfig     `yaml:"proxies" json:"proxies"`
	Sensitivity SensitivityConfig `yaml:"sensitivity" json:"sensitivity"`
	Logging     LoggingConfig     `yaml:"logging" json:"logging"`
}

// Default returns the documented defaults: 10-year-treasury risk-free rate,
// historical market premium, 5% cost of debt, the assumption fallbacks and
// the original dashboard sensitivity ranges.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Provider: ProviderConfig{
			UserAgent:      "dcf-valuation/1.0 (contact@example.com)",
			TimeoutSeconds: 30,
			RetryMax:       3,
			RatePerSecond:  2,
		},
		Rates: RatesConfig{
			RiskFreeRate:      0.045,
			MarketRiskPremium: 0.065,
			CostOfDebt:        0.05,
		},
		Fallbacks: FallbacksConfig{
			RevenueGrowth: 0.05,
			EBITMargin:    0.15,
			TaxRate:       0.25,
			CapexRatio:    0.05,
		},
		Proxies: ProxiesConfig{
			DepreciationRatio:   0.03,
			WorkingCapitalRatio: 0.02,
		},
		Sensitivity: SensitivityConfig{
			WACCMin:         0.06,
			WACCMax:         0.16,
			WACCStep:        0.01,
			GrowthMin:       0.01,
			GrowthMax:       0.05,
			GrowthStep:      0.005,
			ReferenceGrowth: 0.025,
			WACCWeight:      0.5,
			GrowthWeight:    0.3,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads a config file on top of the defaults. Both YAML and HJSON are
// accepted, chosen by extension. A missing path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		cfg.applyEnv()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hjson":
		if err := hjson.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse hjson config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv layers environment overrides for the deploy-specific settings.
func (c *Config) applyEnv() {
	if port := os.Getenv("DCF_PORT"); port != "" {
		c.Server.Port = port
	}
	if base := os.Getenv("DCF_PROVIDER_URL"); base != "" {
		c.Provider.BaseURL = base
	}
}
