// Package sensitivity recomputes per-share value estimates over a grid of
// discount-rate / terminal-growth pairs for heatmap presentation.
//
// The grid is a linear re-estimate, not a re-run of the projection: each
// cell shifts the base value by fixed elasticity coefficients. That keeps
// interactive recompute cheap, at the cost of accuracy far from the base
// case; callers are told so via ValuationResult.Notes.
package sensitivity

import (
	"math"

	"github.com/gehlotmanthan/DCF-Valuation-System/pkg/models"
)

// Range describes a half-open sweep [Min, Max) in Step increments,
// mirroring the arange semantics of the original dashboard grids.
type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Values expands the range into its grid points.
func (r Range) Values() []float64 {
	if r.Step <= 0 || r.Max <= r.Min {
		return nil
	}
	n := int(math.Round((r.Max - r.Min) / r.Step))
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.Min+float64(i)*r.Step)
	}
	return out
}

// Coefficients are the fixed sensitivity weights approximating the relative
// elasticity of value to each driver, plus the terminal-growth reference
// point the growth offset is measured from.
type Coefficients struct {
	WACCWeight      float64
	GrowthWeight    float64
	ReferenceGrowth float64
}

// Grid is the 2-D sensitivity surface: Values[i][j] is the adjusted value
// per share at WACCs[i] and Growths[j].
type Grid struct {
	WACCs     []float64   `json:"waccs"`
	Growths   []float64   `json:"growths"`
	Values    [][]float64 `json:"values"`
	BaseValue float64     `json:"base_value"`
}

// Analyze builds the sensitivity grid around a base valuation:
//
//	adjusted = base
//	         + (baseWACC - wacc) / baseWACC * base * WACCWeight
//	         + (growth - refGrowth) / refGrowth * base * GrowthWeight
//
// At the grid point (baseWACC, refGrowth) both offset terms vanish and the
// cell equals the base value exactly. A zero base WACC or zero reference
// growth contributes a zero offset rather than a division error.
func Analyze(base *models.ValuationResult, waccRange, growthRange Range, c Coefficients) (*Grid, error) {
	if base == nil {
		return nil, models.NewFailure(models.KindInvalidParameters, "sensitivity requires a base valuation")
	}

	waccs := waccRange.Values()
	growths := growthRange.Values()
	if len(waccs) == 0 || len(growths) == 0 {
		return nil, models.NewFailure(models.KindInvalidParameters, "empty sensitivity range")
	}

	baseValue := base.ValuePerShare
	values := make([][]float64, len(waccs))
	for i, w := range waccs {
		row := make([]float64, len(growths))
		for j, g := range growths {
			var waccImpact, growthImpact float64
			if base.WACC != 0 {
				waccImpact = (base.WACC - w) / base.WACC * baseValue * c.WACCWeight
			}
			if c.ReferenceGrowth != 0 {
				growthImpact = (g - c.ReferenceGrowth) / c.ReferenceGrowth * baseValue * c.GrowthWeight
			}
			row[j] = baseValue + waccImpact + growthImpact
		}
		values[i] = row
	}

	return &Grid{
		WACCs:     waccs,
		Growths:   growths,
		Values:    values,
		BaseValue: baseValue,
	}, nil
}
