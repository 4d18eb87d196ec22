// Package weights implements path-weight accumulation (§4.4): given a
// polyline of (unit vector, radius) pairs, it returns a mapping from point
// identifier to accumulated weight such that, for any attribute,
// Σ weights[p] * value(p, attr) equals the line integral of the field
// along the piecewise-great-circle path.
package weights

import (
	"math"

	"github.com/geotess/geotess-go/internal/errs"
	"github.com/geotess/geotess-go/internal/geo"
	"github.com/geotess/geotess-go/internal/model"
	"github.com/geotess/geotess-go/internal/position"
)

// OutsideID is the sentinel point identifier that collects the weight of
// every sub-point whose coefficients are empty under the model's current
// active-region restriction (§4.4 "Polygonal active-region: sub-points
// whose vertex neighbors all fall outside the polygon contribute to a
// single sentinel 'outside' identifier").
const OutsideID int32 = -1

// PathOptions controls path-weight accumulation, following the teacher's
// plain-option-struct shape (ground: pkg/s57/options.go).
type PathOptions struct {
	Layer          int
	StepRadians    float64
	Query          position.QueryOptions
}

// DefaultPathOptions returns layer 0, a one-degree integration step, and
// Linear/Linear interpolation.
func DefaultPathOptions() PathOptions {
	return PathOptions{StepRadians: 1 * math.Pi / 180, Query: position.DefaultQueryOptions()}
}

// Accumulate computes path weights along the piecewise-great-circle
// polyline through points/radii (parallel slices of equal length >= 2)
// within one layer of m. It propagates the first error it encounters and
// discards the partial map (§7 "Path-weight accumulation propagates the
// first error it encounters and discards the partial map").
func Accumulate(m *model.Model, points []geo.Vector3, radii []float64, opts PathOptions) (map[int32]float64, error) {
	if len(points) != len(radii) {
		return nil, &errs.InvalidInput{Field: "radii", Reason: "must be the same length as points"}
	}
	if len(points) < 2 {
		return nil, &errs.InvalidInput{Field: "points", Reason: "need at least two points to form a path"}
	}
	if opts.StepRadians <= 0 {
		return nil, &errs.InvalidInput{Field: "StepRadians", Reason: "must be positive"}
	}

	type sample struct {
		u geo.Vector3
		r float64
	}
	var samples []sample
	var segLenKm []float64 // segLenKm[k] is the length between samples[k] and samples[k+1]

	pos := position.New(m, opts.Query)

	appendSample := func(s sample) { samples = append(samples, s) }
	appendSample(sample{u: points[0], r: radii[0]})

	for seg := 0; seg < len(points)-1; seg++ {
		gc := geo.NewGreatCircle(points[seg], points[seg+1])
		angle := gc.Angle()
		n := int(math.Ceil(angle / opts.StepRadians))
		if n < 1 {
			n = 1
		}
		r0, r1 := radii[seg], radii[seg+1]
		for step := 1; step <= n; step++ {
			t0 := float64(step-1) / float64(n)
			t1 := float64(step) / float64(n)
			tMid := (t0 + t1) / 2
			rMid := r0 + (r1-r0)*tMid
			subAngle := angle * (t1 - t0)
			segLenKm = append(segLenKm, subAngle*rMid)

			u1 := gc.PointAt(t1)
			r1Sample := r0 + (r1-r0)*t1
			appendSample(sample{u: u1, r: r1Sample})
		}
	}

	weightAt := make([]float64, len(samples))
	for k, l := range segLenKm {
		weightAt[k] += l / 2
		weightAt[k+1] += l / 2
	}

	out := make(map[int32]float64)
	for i, s := range samples {
		if weightAt[i] == 0 {
			continue
		}
		if err := pos.Set(opts.Layer, s.u, s.r); err != nil {
			return nil, err
		}
		coeffs := pos.GetCoefficients()
		if len(coeffs) == 0 {
			out[OutsideID] += weightAt[i]
			continue
		}
		for id, c := range coeffs {
			out[id] += c * weightAt[i]
		}
	}
	return out, nil
}

// TotalLengthKm returns the total path length in kilometers implied by
// points/radii, the quantity Σ weights must reproduce (§8 "Path-weight
// conservation").
func TotalLengthKm(points []geo.Vector3, radii []float64) float64 {
	total := 0.0
	for seg := 0; seg < len(points)-1; seg++ {
		gc := geo.NewGreatCircle(points[seg], points[seg+1])
		angle := gc.Angle()
		// Integrate radius linearly in arc length via the trapezoidal
		// rule on the endpoints, matching the linear radius
		// interpolation Accumulate itself uses along the segment.
		total += angle * (radii[seg] + radii[seg+1]) / 2
	}
	return total
}
