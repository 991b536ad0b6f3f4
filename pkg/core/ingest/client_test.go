package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/config"
	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/models"
)

func testClient(baseURL string) *Client {
	return NewClient(config.ProviderConfig{
		BaseURL:        baseURL,
		UserAgent:      "dcf-test/1.0",
		TimeoutSeconds: 5,
		RetryMax:       0,
		RatePerSecond:  1000,
	}, zap.NewNop())
}

func TestClientStatements(t *testing.T) {
	statementJSON := `{
		"periods": ["2024-09-28", "2023-09-30"],
		"rows": {
			"Total Revenue": {"2024-09-28": 391035, "2023-09-30": 383285},
			"EBIT": {"2024-09-28": 123216, "2023-09-30": 114301}
		}
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v1/fundamentals/AAPL/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(statementJSON))
	}))
	defer srv.Close()

	set, err := testClient(srv.URL).Statements(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Statements failed: %v", err)
	}

	if len(set.Income.Periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(set.Income.Periods))
	}
	v, ok := set.Income.Lookup("Total Revenue", "2024-09-28")
	if !ok || v != 391035 {
		t.Errorf("expected revenue 391035, got %f (found=%v)", v, ok)
	}
}

func TestClientRepairsMalformedJSON(t *testing.T) {
	// Trailing comma and unquoted key, both seen from sloppy providers.
	malformed := `{periods: ["2024"], "rows": {"Total Revenue": {"2024": 100},},}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(malformed))
	}))
	defer srv.Close()

	set, err := testClient(srv.URL).Statements(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("expected repaired parse, got %v", err)
	}
	v, _ := set.Income.Lookup("Total Revenue", "2024")
	if v != 100 {
		t.Errorf("expected revenue 100 from repaired JSON, got %f", v)
	}
}

func TestClientServerErrorIsDataUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Statements(context.Background(), "TEST")
	if err == nil {
		t.Fatal("expected failure on 500")
	}
	if models.KindOf(err) != models.KindDataUnavailable {
		t.Errorf("expected DATA_UNAVAILABLE, got %s", models.KindOf(err))
	}
}

func TestClientSnapshotDefaultsBeta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"market_cap": 3.4e12, "shares_outstanding": 1.5e10, "current_price": 226.5}`))
	}))
	defer srv.Close()

	snap, err := testClient(srv.URL).Snapshot(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.Beta != 1.0 {
		t.Errorf("expected beta default 1.0, got %f", snap.Beta)
	}
	if snap.CurrentPrice != 226.5 {
		t.Errorf("expected price 226.5, got %f", snap.CurrentPrice)
	}
}

func TestClientHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).Statements(ctx, "TEST")
	if err == nil {
		t.Fatal("expected failure on cancelled context")
	}
	if models.KindOf(err) != models.KindDataUnavailable {
		t.Errorf("expected DATA_UNAVAILABLE, got %s", models.KindOf(err))
	}
}
