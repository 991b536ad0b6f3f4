package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	apivaluation "github.com/gehlotmanthan/DCF-Valuation-System/pkg/api/valuation"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/config"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/core/ingest"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/core/pipeline"
)

// newLogger builds the zap logger from the logging config.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn", "warning":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func main() {
	// Environment first so DCF_* overrides reach config loading.
	godotenv.Load()

	configPath := os.Getenv("DCF_CONFIG")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	provider := ingest.NewClient(cfg.Provider, logger)
	runner := pipeline.NewRunner(provider, cfg, logger)
	handler := apivaluation.NewHandler(runner, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/valuation", handler.HandleValuation)
	mux.HandleFunc("/api/valuation/report", handler.HandleReport)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := ":" + cfg.Server.Port
	logger.Info("API server starting",
		zap.String("addr", addr),
		zap.String("provider", cfg.Provider.BaseURL))

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
