package position

import (
	"math"

	"github.com/geotess/geotess-go/internal/datacell"
	"github.com/geotess/geotess-go/internal/errs"
	"github.com/geotess/geotess-go/internal/geo"
	"github.com/geotess/geotess-go/internal/model"
	"github.com/geotess/geotess-go/internal/profile"
)

// Position borrows a Model immutably and resolves horizontal + radial
// interpolation coefficients for one (layer, direction, radius) query
// (§4.3). Once Set (or SetTop/SetBottom), it assumes the profile radii of
// the bound model don't change (§3 Lifecycle).
type Position struct {
	m    *model.Model
	opts QueryOptions

	haveQuery bool
	layer     int
	u         geo.Vector3
	radius    float64
	pinned    bool

	horiz horizontalResult
	radl  []radialResult // parallel to horiz.vertices
}

// New builds a Position bound to m with the given query options. No query
// has been set yet; GetValue and friends return an error until Set (or
// SetTop/SetBottom) is called.
func New(m *model.Model, opts QueryOptions) *Position {
	return &Position{m: m, opts: opts}
}

// Model returns the Position's currently bound model.
func (p *Position) Model() *model.Model { return p.m }

// Set fixes the horizontal target to u and the radial target to radius
// within layer, pinning to the nearer layer boundary if radius falls
// outside it (§4.3 "If the radius lies outside the layer, pin to the
// nearer boundary"). On failure (bad layer, non-unit u) the Position
// retains its last successful state (§7 "Position objects retain their
// last successful state on failure of a new set").
func (p *Position) Set(layer int, u geo.Vector3, radius float64) error {
	if layer < 0 || layer >= p.m.MetaData().NLayers() {
		return &errs.InvalidInput{Field: "layer", Value: layer, Reason: "out of range"}
	}
	if !u.IsUnit(1e-6) {
		return &errs.InvalidInput{Field: "u", Value: u, Reason: "not a unit vector"}
	}

	tess := p.m.MetaData().TessellationID(layer)
	horiz := computeHorizontal(p.m.Grid(), u, tess, p.opts.Horizontal)

	radl := make([]radialResult, len(horiz.vertices))
	pinnedAny := false
	for i, v := range horiz.vertices {
		prof, err := p.m.Store().Profile(int(v), layer)
		if err != nil {
			return err
		}
		radl[i] = computeRadial(p.m.Store(), v, layer, prof, radius, p.opts.Radial)
		pinnedAny = pinnedAny || radl[i].pinned
	}

	p.haveQuery = true
	p.layer = layer
	p.u = u
	p.radius = radius
	p.pinned = pinnedAny
	p.horiz = horiz
	p.radl = radl
	return nil
}

// SetTop fixes the radial target to the top of layer at u (§4.3).
func (p *Position) SetTop(layer int, u geo.Vector3) error {
	top, err := p.layerTopBottom(layer, u, true)
	if err != nil {
		return err
	}
	return p.Set(layer, u, top)
}

// SetBottom fixes the radial target to the bottom of layer at u (§4.3).
func (p *Position) SetBottom(layer int, u geo.Vector3) error {
	bottom, err := p.layerTopBottom(layer, u, false)
	if err != nil {
		return err
	}
	return p.Set(layer, u, bottom)
}

// layerTopBottom finds the layer's boundary radius at u by locating the
// containing triangle's first vertex's profile; used only to seed
// SetTop/SetBottom before the real Set call resolves full coefficients.
func (p *Position) layerTopBottom(layer int, u geo.Vector3, top bool) (float64, error) {
	if layer < 0 || layer >= p.m.MetaData().NLayers() {
		return 0, &errs.InvalidInput{Field: "layer", Value: layer, Reason: "out of range"}
	}
	tess := p.m.MetaData().TessellationID(layer)
	g := p.m.Grid()
	t := g.Locate(u, tess, g.FinestLevel(tess))
	tri := g.Triangle(int(t))
	prof, err := p.m.Store().Profile(int(tri[0]), layer)
	if err != nil {
		return 0, err
	}
	if prof.Kind() == profile.Surface {
		return 0, nil
	}
	if top {
		return prof.Top(), nil
	}
	return prof.Bottom(), nil
}

// SetModel retargets the Position to m2, a sibling model sharing the same
// grid, in O(1) by reusing the already-computed horizontal coefficients
// and only recomputing the (cheap) radial ones against m2's profile store
// (§4.3 "verify grid identity by grid-id comparison").
func (p *Position) SetModel(m2 *model.Model) error {
	if !p.haveQuery {
		p.m = m2
		return nil
	}
	if p.m.Grid().ID() != m2.Grid().ID() {
		return &errs.InvalidInput{Field: "model", Reason: "grid id does not match current model's grid"}
	}

	radl := make([]radialResult, len(p.horiz.vertices))
	for i, v := range p.horiz.vertices {
		prof, err := m2.Store().Profile(int(v), p.layer)
		if err != nil {
			return err
		}
		radl[i] = computeRadial(m2.Store(), v, p.layer, prof, p.radius, p.opts.Radial)
	}

	p.m = m2
	p.radl = radl
	return nil
}

// RadiusOutOfRange reports whether the last Set pinned the radial target
// to a layer boundary (§8 "radius_out_of_range flag set").
func (p *Position) RadiusOutOfRange() bool { return p.pinned }

// NaturalNeighborFellBack reports whether a NaturalNeighbor query
// degenerated and fell through to Linear (§7 Unavailable).
func (p *Position) NaturalNeighborFellBack() bool { return p.horiz.fellBack }

// GetTriangle returns the triangle the horizontal target was located in.
func (p *Position) GetTriangle() int32 { return p.horiz.triangle }

// GetVertices returns the vertex indices participating in the horizontal
// interpolation.
func (p *Position) GetVertices() []int32 {
	return append([]int32(nil), p.horiz.vertices...)
}

// GetHorizontalCoefficients returns the horizontal weight parallel to
// GetVertices, summing to 1 (§8).
func (p *Position) GetHorizontalCoefficients() []float64 {
	return append([]float64(nil), p.horiz.weights...)
}

// GetRadialCoefficients returns, for the i'th vertex of GetVertices, the
// radial node indices and weights within that vertex's profile at layer.
func (p *Position) GetRadialCoefficients(i int) (nodes []int, weights []float64) {
	r := p.radl[i]
	return append([]int(nil), r.nodes...), append([]float64(nil), r.weights...)
}

// GetValue interpolates attribute attr at the current position, combining
// horizontal and per-vertex radial coefficients (§4.3 Combination). Returns
// NaN if any contributing node has NaN at attr, or if the horizontal
// target fell in a layer with no data at any vertex.
func (p *Position) GetValue(attr int) (float64, error) {
	if !p.haveQuery {
		return datacell.NaN, &errs.InvalidInput{Reason: "Position has no query set"}
	}
	sum := 0.0
	for i, v := range p.horiz.vertices {
		hc := p.horiz.weights[i]
		if hc == 0 {
			continue
		}
		prof, err := p.m.Store().Profile(int(v), p.layer)
		if err != nil {
			return datacell.NaN, err
		}
		if prof.Kind() == profile.Empty {
			return datacell.NaN, nil
		}
		rr := p.radl[i]
		for j, node := range rr.nodes {
			val := prof.Cell(node).Value(attr)
			if math.IsNaN(val) {
				return datacell.NaN, nil
			}
			sum += hc * rr.weights[j] * val
		}
	}
	return sum, nil
}

// GetGradient returns the numerical horizontal gradient of attribute attr
// at the current position, along the local east and north directions at u
// (SPEC_FULL.md "Gradient queries": a central-difference derivative of
// GetValue). Each of the four probe points is located and interpolated
// afresh by a new Position with the same options. At the poles, where east
// is undefined, an arbitrary orthonormal tangent pair is used instead.
func (p *Position) GetGradient(attr int, stepRadians float64) (dEast, dNorth float64, err error) {
	if !p.haveQuery {
		return 0, 0, &errs.InvalidInput{Reason: "Position has no query set"}
	}
	e1, e2 := geo.TangentBasis(p.u)
	if east := (geo.Vector3{Z: 1}).Cross(p.u); east.Length() > 1e-12 {
		e1 = east.Normalized()
		e2 = p.u.Cross(e1).Normalized()
	}
	perturbed := func(dir geo.Vector3, step float64) (float64, error) {
		u2 := p.u.Add(dir.Scale(step)).Normalized()
		probe := New(p.m, p.opts)
		if err := probe.Set(p.layer, u2, p.radius); err != nil {
			return 0, err
		}
		return probe.GetValue(attr)
	}

	vPlus, err := perturbed(e1, stepRadians)
	if err != nil {
		return 0, 0, err
	}
	vMinus, err := perturbed(e1, -stepRadians)
	if err != nil {
		return 0, 0, err
	}
	dEast = (vPlus - vMinus) / (2 * stepRadians)

	vPlus, err = perturbed(e2, stepRadians)
	if err != nil {
		return 0, 0, err
	}
	vMinus, err = perturbed(e2, -stepRadians)
	if err != nil {
		return 0, 0, err
	}
	dNorth = (vPlus - vMinus) / (2 * stepRadians)
	return dEast, dNorth, nil
}

// GetCoefficients returns the full point-level coefficient map: the outer
// product of horizontal and per-vertex radial coefficients, keyed by the
// model's point-map ids (§4.3 Combination; §4.2 Point). Points not
// currently enumerated by the model's active-region PointMap (if any) are
// silently omitted — the caller's coefficient sum over the full mesh is
// then implicitly restricted to the active region, consistent with §4.2's
// active-region policy.
func (p *Position) GetCoefficients() map[int32]float64 {
	out := make(map[int32]float64)
	pm := p.m.PointMap()
	for i, v := range p.horiz.vertices {
		hc := p.horiz.weights[i]
		if hc == 0 {
			continue
		}
		rr := p.radl[i]
		for j, node := range rr.nodes {
			id, ok := pm.TripleToPoint(profile.Triple{Vertex: v, Layer: p.layer, Node: node})
			if !ok {
				continue
			}
			out[id] += hc * rr.weights[j]
		}
	}
	return out
}
