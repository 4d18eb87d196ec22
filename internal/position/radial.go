package position

import (
	"sync"

	"github.com/geotess/geotess-go/internal/profile"
)

// radialResult is the coefficient vector over one vertex's profile nodes:
// nodes[i] paired with weights[i] (parallel, summing to 1), plus whether
// the requested radius had to be pinned to a layer boundary (§4.3
// Pinning).
type radialResult struct {
	nodes   []int
	weights []float64
	pinned  bool
}

// splineCache holds the precomputed, attribute-independent linear map from
// node values to the natural cubic spline's second derivatives, keyed by
// the profile's (store, vertex, layer) location so repeated queries against
// the same profile reuse it instead of re-solving the tridiagonal system (§4.3
// "built once per profile and cached").
type splineCache struct {
	mu    sync.Mutex
	byKey map[splineKey]*spline
}

type splineKey struct {
	store     *profile.Store
	vertex    int32
	layer     int
}

var globalSplineCache = &splineCache{byKey: make(map[splineKey]*spline)}

// spline is the natural cubic spline over one profile's radii: Lfull[i][j]
// is the coefficient of node j's value in node i's second derivative, so
// evaluating at any x is a linear combination of the node values alone
// (§4.3 "evaluation is O(log N) in the bracket search + O(1) in spline
// evaluation").
type spline struct {
	radii []float64
	h     []float64
	lfull [][]float64 // n x n, rows 0 and n-1 are all zero (natural boundary)
}

func buildSpline(radii []float64) *spline {
	n := len(radii)
	s := &spline{radii: append([]float64(nil), radii...)}
	lfull := make([][]float64, n)
	for i := range lfull {
		lfull[i] = make([]float64, n)
	}
	s.lfull = lfull
	if n < 2 {
		return s
	}
	h := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = radii[i+1] - radii[i]
	}
	s.h = h
	if n < 3 {
		return s
	}

	m := n - 2
	sub := make([]float64, m)
	diag := make([]float64, m)
	sup := make([]float64, m)
	for i := 0; i < m; i++ {
		diag[i] = 2 * (h[i] + h[i+1])
		if i > 0 {
			sub[i] = h[i]
		}
		if i < m-1 {
			sup[i] = h[i+1]
		}
	}

	for k := 0; k < n; k++ {
		rhs := make([]float64, m)
		for i := 0; i < m; i++ {
			var c float64
			if h[i] != 0 && i == k {
				c -= 6 / h[i]
			}
			if h[i] != 0 && i+1 == k {
				c += 6 / h[i]
			}
			if h[i+1] != 0 && i+1 == k {
				c += 6 / h[i+1]
			}
			if h[i+1] != 0 && i+2 == k {
				c -= 6 / h[i+1]
			}
			rhs[i] = c
		}
		sol := thomasSolve(sub, diag, sup, rhs)
		for i := 0; i < m; i++ {
			lfull[i+1][k] = sol[i]
		}
	}
	return s
}

// thomasSolve solves the tridiagonal system with sub/diag/sup diagonals
// against rhs, returning the solution vector. Zero-length input returns a
// zero-length result.
func thomasSolve(sub, diag, sup, rhs []float64) []float64 {
	n := len(diag)
	if n == 0 {
		return nil
	}
	cp := make([]float64, n)
	dp := make([]float64, n)
	cp[0] = sup[0] / diag[0]
	dp[0] = rhs[0] / diag[0]
	for i := 1; i < n; i++ {
		denom := diag[i] - sub[i]*cp[i-1]
		if denom == 0 {
			denom = 1e-300
		}
		if i < n-1 {
			cp[i] = sup[i] / denom
		}
		dp[i] = (rhs[i] - sub[i]*dp[i-1]) / denom
	}
	x := make([]float64, n)
	x[n-1] = dp[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = dp[i] - cp[i]*x[i+1]
	}
	return x
}

// bracket returns the index i such that s.radii[i] <= x <= s.radii[i+1],
// clamping to the end intervals for out-of-range x (callers pin before
// calling, but bracket is defensive regardless).
func (s *spline) bracket(x float64) int {
	n := len(s.radii)
	if n < 2 {
		return 0
	}
	if x <= s.radii[0] {
		return 0
	}
	if x >= s.radii[n-1] {
		return n - 2
	}
	lo, hi := 0, n-2
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.radii[mid] <= x {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// weightsAt returns the node-weight vector for evaluating the spline at x:
// S(x) is linear in the node values once the second derivatives are
// expressed as Lfull * y (§4.3 Radial interpolation, Cubic-spline).
func (s *spline) weightsAt(x float64) (nodes []int, weights []float64) {
	n := len(s.radii)
	if n == 1 {
		return []int{0}, []float64{1}
	}
	i := s.bracket(x)
	h := s.h[i]
	if h == 0 {
		return []int{i}, []float64{1}
	}
	t := x - s.radii[i]

	w := make([]float64, n)
	w[i] += 1 - t/h
	w[i+1] += t / h

	if n >= 3 {
		c := -(t*h)/3 + t*t/2 - (t*t*t)/(6*h)
		d := -(t*h)/6 + (t*t*t)/(6*h)
		for j := 0; j < n; j++ {
			w[j] += c*s.lfull[i][j] + d*s.lfull[i+1][j]
		}
	}

	nodes = make([]int, 0, n)
	weights = make([]float64, 0, n)
	for j, wj := range w {
		if wj != 0 {
			nodes = append(nodes, j)
			weights = append(weights, wj)
		}
	}
	return nodes, weights
}

// getSpline returns the cached spline for the profile at (store, vertex,
// layer), building it on first use.
func getSpline(store *profile.Store, vertex int32, layer int, p profile.Profile) *spline {
	key := splineKey{store: store, vertex: vertex, layer: layer}
	globalSplineCache.mu.Lock()
	defer globalSplineCache.mu.Unlock()
	if s, ok := globalSplineCache.byKey[key]; ok {
		return s
	}
	radii := make([]float64, p.NRadii())
	for i := range radii {
		radii[i] = p.Radius(i)
	}
	// Only NPoint profiles with at least three nodes reach here
	// (computeRadial returns earlier for every other kind), so radii and
	// nodes coincide.
	s := buildSpline(radii)
	globalSplineCache.byKey[key] = s
	return s
}

// computeRadial returns the radial coefficients of profile p at radius r,
// under kind, pinning to the nearer boundary when r falls outside
// [p.Bottom(), p.Top()] (§4.3 Pinning). Empty profiles return no nodes
// (NaN downstream); Surface profiles have a single node with coefficient
// 1 regardless of r ("radially independent").
func computeRadial(store *profile.Store, vertex int32, layer int, p profile.Profile, r float64, kind RadialKind) radialResult {
	switch p.Kind() {
	case profile.Empty:
		return radialResult{}
	case profile.Surface:
		return radialResult{nodes: []int{0}, weights: []float64{1}}
	case profile.Thin, profile.Constant:
		pinned := r < p.Bottom() || r > p.Top()
		return radialResult{nodes: []int{0}, weights: []float64{1}, pinned: pinned}
	}

	n := p.NNodes()
	bottom, top := p.Bottom(), p.Top()
	pinned := false
	x := r
	if x < bottom {
		x = bottom
		pinned = true
	} else if x > top {
		x = top
		pinned = true
	}

	if kind == CubicSpline && n >= 3 {
		s := getSpline(store, vertex, layer, p)
		nodes, weights := s.weightsAt(x)
		return radialResult{nodes: nodes, weights: weights, pinned: pinned}
	}

	// Linear: find the bracketing interval and weight endpoints by
	// normalized distance (§4.3 Radial interpolation, Linear).
	lo := 0
	for lo < n-2 && p.Radius(lo+1) < x {
		lo++
	}
	r0, r1 := p.Radius(lo), p.Radius(lo+1)
	if r1 == r0 {
		return radialResult{nodes: []int{lo}, weights: []float64{1}, pinned: pinned}
	}
	frac := (x - r0) / (r1 - r0)
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	return radialResult{nodes: []int{lo, lo + 1}, weights: []float64{1 - frac, frac}, pinned: pinned}
}
