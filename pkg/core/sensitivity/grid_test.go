package sensitivity

import (
	"math"
	"testing"

	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/models"
)

var testCoefficients = Coefficients{
	WACCWeight:      0.5,
	GrowthWeight:    0.3,
	ReferenceGrowth: 0.025,
}

func TestRangeValuesHalfOpen(t *testing.T) {
	// [0.06, 0.16) in 0.01 steps is ten points; 0.16 itself is excluded.
	values := Range{Min: 0.06, Max: 0.16, Step: 0.01}.Values()
	if len(values) != 10 {
		t.Fatalf("expected 10 grid points, got %d", len(values))
	}
	if math.Abs(values[0]-0.06) > 1e-12 {
		t.Errorf("expected first point 0.06, got %f", values[0])
	}
	if math.Abs(values[9]-0.15) > 1e-9 {
		t.Errorf("expected last point 0.15, got %f", values[9])
	}
}

func TestRangeValuesDegenerate(t *testing.T) {
	if got := (Range{Min: 0.1, Max: 0.1, Step: 0.01}).Values(); got != nil {
		t.Errorf("expected nil for empty range, got %v", got)
	}
	if got := (Range{Min: 0.1, Max: 0.2, Step: 0}).Values(); got != nil {
		t.Errorf("expected nil for zero step, got %v", got)
	}
}

func TestAnalyzeIdentityAtBasePoint(t *testing.T) {
	// Ranges start exactly at the base WACC and the reference growth, so
	// the (0,0) cell has both offsets vanish and equals the base value.
	base := &models.ValuationResult{ValuePerShare: 120, WACC: 0.10}
	grid, err := Analyze(base,
		Range{Min: 0.10, Max: 0.14, Step: 0.01},
		Range{Min: 0.025, Max: 0.045, Step: 0.005},
		testCoefficients)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if grid.Values[0][0] != 120 {
		t.Errorf("expected base value 120 at base grid point, got %f", grid.Values[0][0])
	}
	if grid.BaseValue != 120 {
		t.Errorf("expected BaseValue 120, got %f", grid.BaseValue)
	}
}

func TestAnalyzeLinearOffsets(t *testing.T) {
	// Cell at wacc 0.12, growth 0.035 with base 100 at WACC 0.10:
	//   waccImpact   = (0.10 - 0.12) / 0.10 * 100 * 0.5 = -10
	//   growthImpact = (0.035 - 0.025) / 0.025 * 100 * 0.3 = 12
	//   adjusted     = 100 - 10 + 12 = 102
	base := &models.ValuationResult{ValuePerShare: 100, WACC: 0.10}
	grid, err := Analyze(base,
		Range{Min: 0.10, Max: 0.14, Step: 0.01},
		Range{Min: 0.025, Max: 0.045, Step: 0.005},
		testCoefficients)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(grid.Values[2][2]-102) > 1e-6 {
		t.Errorf("expected adjusted value 102, got %f", grid.Values[2][2])
	}

	// Higher discount rates shrink the value along a fixed growth column.
	for i := 1; i < len(grid.WACCs); i++ {
		if grid.Values[i][0] >= grid.Values[i-1][0] {
			t.Errorf("value not decreasing in WACC at row %d", i)
		}
	}
	// Higher terminal growth raises it along a fixed WACC row.
	for j := 1; j < len(grid.Growths); j++ {
		if grid.Values[0][j] <= grid.Values[0][j-1] {
			t.Errorf("value not increasing in growth at column %d", j)
		}
	}
}

func TestAnalyzeZeroBaseWACC(t *testing.T) {
	// A zero base WACC would divide by zero in the offset; the term is
	// dropped instead and only the growth offset applies.
	base := &models.ValuationResult{ValuePerShare: 100, WACC: 0}
	grid, err := Analyze(base,
		Range{Min: 0.06, Max: 0.08, Step: 0.01},
		Range{Min: 0.025, Max: 0.035, Step: 0.005},
		testCoefficients)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if grid.Values[0][0] != 100 {
		t.Errorf("expected base value with zero WACC offset, got %f", grid.Values[0][0])
	}
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	ok := Range{Min: 0.06, Max: 0.16, Step: 0.01}

	_, err := Analyze(nil, ok, ok, testCoefficients)
	if models.KindOf(err) != models.KindInvalidParameters {
		t.Errorf("expected INVALID_PARAMETERS for nil base, got %v", err)
	}

	base := &models.ValuationResult{ValuePerShare: 100, WACC: 0.10}
	_, err = Analyze(base, Range{}, ok, testCoefficients)
	if models.KindOf(err) != models.KindInvalidParameters {
		t.Errorf("expected INVALID_PARAMETERS for empty range, got %v", err)
	}
}
