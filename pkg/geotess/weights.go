package geotess

import "github.com/geotess/geotess-go/internal/weights"

// OutsideID is the sentinel point identifier that collects the weight of
// every sub-point excluded by the model's active region (§4.4).
const OutsideID = weights.OutsideID

// PathOptions controls path-weight accumulation (§4.4).
type PathOptions = weights.PathOptions

// DefaultPathOptions returns layer 0, a one-degree integration step, and
// Linear/Linear interpolation.
func DefaultPathOptions() PathOptions { return weights.DefaultPathOptions() }

// PathWeights accumulates point weights along the piecewise-great-circle
// polyline through points/radii (parallel slices of equal length >= 2)
// within one layer of m, such that for any attribute,
// Σ weights[p] * value(p, attr) equals the line integral of the field
// along the path (§4.4).
func PathWeights(m *Model, points []Vector3, radii []float64, opts PathOptions) (map[int32]float64, error) {
	return weights.Accumulate(m.internal, points, radii, opts)
}

// PathLengthKm returns the total path length in kilometers implied by
// points/radii, the quantity Σ weights reproduces (§8 "Path-weight
// conservation").
func PathLengthKm(points []Vector3, radii []float64) float64 {
	return weights.TotalLengthKm(points, radii)
}
