package geotess

import "github.com/geotess/geotess-go/internal/position"

// HorizontalKind selects the horizontal interpolation algorithm (§4.3).
type HorizontalKind = position.HorizontalKind

const (
	Linear          = position.Linear
	NaturalNeighbor = position.NaturalNeighbor
)

// RadialKind selects the radial interpolation algorithm (§4.3).
type RadialKind = position.RadialKind

const (
	RadialLinear = position.RadialLinear
	CubicSpline  = position.CubicSpline
)

// QueryOptions controls how a Position resolves a query.
type QueryOptions = position.QueryOptions

// DefaultQueryOptions returns Linear horizontal and Linear radial
// interpolation.
func DefaultQueryOptions() QueryOptions { return position.DefaultQueryOptions() }

// Position borrows a Model immutably and resolves horizontal and radial
// interpolation coefficients for one query (§4.3). Set the query with Set,
// SetTop, or SetBottom; retarget to a sibling model sharing the same grid
// with SetModel.
type Position struct {
	internal *position.Position
}

// NewPosition builds a Position bound to m under opts. No query has been
// set yet.
func NewPosition(m *Model, opts QueryOptions) *Position {
	return &Position{internal: position.New(m.internal, opts)}
}

// Set fixes the horizontal target to u and the radial target to radius
// (km) within layer, pinning to the nearer layer boundary if radius falls
// outside it.
func (p *Position) Set(layer int, u Vector3, radius float64) error {
	return p.internal.Set(layer, u, radius)
}

// SetTop fixes the radial target to the top of layer at u.
func (p *Position) SetTop(layer int, u Vector3) error { return p.internal.SetTop(layer, u) }

// SetBottom fixes the radial target to the bottom of layer at u.
func (p *Position) SetBottom(layer int, u Vector3) error { return p.internal.SetBottom(layer, u) }

// SetModel retargets the Position to m2, a sibling model sharing the same
// grid, in O(1) by reusing the cached horizontal coefficients (§4.3
// "setModel").
func (p *Position) SetModel(m2 *Model) error { return p.internal.SetModel(m2.internal) }

// RadiusOutOfRange reports whether the last Set pinned the radial target
// to a layer boundary.
func (p *Position) RadiusOutOfRange() bool { return p.internal.RadiusOutOfRange() }

// NaturalNeighborFellBack reports whether a NaturalNeighbor query
// degenerated and fell through to Linear (§7 Unavailable).
func (p *Position) NaturalNeighborFellBack() bool { return p.internal.NaturalNeighborFellBack() }

// GetValue interpolates attribute attr at the current position. Returns
// NaN if any contributing node has NaN at attr.
func (p *Position) GetValue(attr int) (float64, error) { return p.internal.GetValue(attr) }

// GetGradient returns the numerical horizontal gradient of attribute attr
// at the current position along the east and north tangent directions.
func (p *Position) GetGradient(attr int, stepRadians float64) (dEast, dNorth float64, err error) {
	return p.internal.GetGradient(attr, stepRadians)
}

// GetCoefficients returns the full point-level coefficient map: the outer
// product of horizontal and per-vertex radial coefficients, keyed by the
// model's point-map ids. Points outside the model's active region are
// omitted, so the weights sum to 1 only when every contributing point is
// active.
func (p *Position) GetCoefficients() map[int32]float64 { return p.internal.GetCoefficients() }

// GetTriangle returns the triangle the horizontal target was located in.
func (p *Position) GetTriangle() int32 { return p.internal.GetTriangle() }

// GetVertices returns the vertex indices participating in the horizontal
// interpolation.
func (p *Position) GetVertices() []int32 { return p.internal.GetVertices() }

// GetHorizontalCoefficients returns the horizontal weights parallel to
// GetVertices, summing to 1.
func (p *Position) GetHorizontalCoefficients() []float64 {
	return p.internal.GetHorizontalCoefficients()
}

// GetRadialCoefficients returns, for the i'th vertex of GetVertices, the
// radial node indices and weights within that vertex's profile.
func (p *Position) GetRadialCoefficients(i int) (nodes []int, weights []float64) {
	return p.internal.GetRadialCoefficients(i)
}
