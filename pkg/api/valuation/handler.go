// Package valuation exposes the valuation pipeline over HTTP. This is the
// thin presentation surface: request decoding, failure-kind to status-code
// mapping, CORS for the dashboard, and request metrics.
package valuation

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/core/pipeline"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/core/report"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/core/sensitivity"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/models"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dcf_requests_total",
			Help: "Valuation requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dcf_request_duration_seconds",
			Help:    "Valuation request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(requestCounter, requestDuration)
}

// Handler serves the valuation endpoints.
type Handler struct {
	runner *pipeline.Runner
	logger *zap.Logger
}

func NewHandler(runner *pipeline.Runner, logger *zap.Logger) *Handler {
	return &Handler{runner: runner, logger: logger}
}

// Response is the transport envelope. RunID correlates logs with the
// response; the result payload itself stays deterministic.
type Response struct {
	RunID  string                  `json:"run_id"`
	Result *models.ValuationResult `json:"result"`
	Grid   *sensitivity.Grid       `json:"sensitivity,omitempty"`
}

// failureBody is the structured failure of the valuation contract.
type failureBody struct {
	Kind    models.FailureKind `json:"kind"`
	Message string             `json:"message"`
}

// HandleValuation serves POST /api/valuation.
func (h *Handler) HandleValuation(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "valuation", func(req pipeline.Request) (interface{}, error) {
		result, grid, err := h.runner.RunWithGrid(r.Context(), req)
		if err != nil {
			return nil, err
		}
		return Response{RunID: uuid.New().String(), Result: result, Grid: grid}, nil
	})
}

// HandleReport serves POST /api/valuation/report with an HTML summary.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "report", func(req pipeline.Request) (interface{}, error) {
		result, grid, err := h.runner.RunWithGrid(r.Context(), req)
		if err != nil {
			return nil, err
		}
		html, err := report.RenderHTML(result, grid)
		if err != nil {
			return nil, err
		}
		return html, nil
	})
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, endpoint string, run func(pipeline.Request) (interface{}, error)) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestCounter.WithLabelValues(endpoint, "bad_request").Inc()
		h.writeFailure(w, models.WrapFailure(models.KindInvalidParameters, err, "malformed request body"))
		return
	}

	out, err := run(req)
	if err != nil {
		requestCounter.WithLabelValues(endpoint, "error").Inc()
		h.writeFailure(w, err)
		return
	}
	requestCounter.WithLabelValues(endpoint, "ok").Inc()

	switch v := out.(type) {
	case string:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(v))
	default:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
}

// writeFailure maps the failure taxonomy onto HTTP statuses. Messages are
// diagnostic; user-facing wording belongs to the dashboard.
func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	kind := models.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case models.KindInvalidParameters:
		status = http.StatusBadRequest
	case models.KindDataUnavailable:
		status = http.StatusBadGateway
	case models.KindInsufficientHistory:
		status = http.StatusUnprocessableEntity
	case models.KindInvalidDiscountSpread:
		status = http.StatusUnprocessableEntity
	default:
		kind = "INTERNAL"
	}

	h.logger.Warn("request failed", zap.String("kind", string(kind)), zap.Error(err))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	msg := err.Error()
	var f *models.Failure
	if errors.As(err, &f) {
		msg = f.Message
	}
	json.NewEncoder(w).Encode(failureBody{Kind: kind, Message: msg})
}
