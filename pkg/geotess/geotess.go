// Package geotess provides a clean public API for loading, querying, and
// interpolating multi-resolution spherical Earth models built on the
// icosahedral tessellation implemented by the internal grid, model, and
// position packages.
//
// Create a Grid or Model with LoadGrid/LoadModel, bind a Position to a
// Model with NewPosition, and query it with Set/GetValue. Accumulate
// path weights along a borehole or ray path with PathWeights.
package geotess

import (
	"github.com/geotess/geotess-go/internal/errs"
	"github.com/geotess/geotess-go/internal/geo"
	"github.com/geotess/geotess-go/internal/grid"
)

// Vector3 is a unit-vector direction on the sphere (§3 "Unit vector").
type Vector3 = geo.Vector3

// FromLatLon converts geographic latitude/longitude in degrees to a unit
// vector. Latitude/longitude are ingress/egress only; all internal math
// works in unit vectors (§3).
func FromLatLon(latDeg, lonDeg float64) Vector3 {
	return geo.FromLatLonDeg(latDeg, lonDeg)
}

// ToLatLon converts a unit vector to geocentric latitude/longitude in
// degrees. Use an EarthShape's Latitude method instead when geographic
// (not geocentric) latitude is wanted.
func ToLatLon(u Vector3) (latDeg, lonDeg float64) {
	return geo.ToLatLonDeg(u)
}

// Grid is the immutable hierarchical icosahedral triangulation of the unit
// sphere shared by one or more Models (§4.1).
type Grid struct {
	internal *grid.Grid
}

// LoadGrid reads a grid file from path. ASCII files are recognized by a
// ".ascii" or ".txt" suffix.
//
//	g, err := geotess.LoadGrid("geotess_grid_04000.geotess")
func LoadGrid(path string) (*Grid, error) {
	g, err := grid.LoadFile(path, grid.DefaultLoadOptions())
	if err != nil {
		return nil, err
	}
	return &Grid{internal: g}, nil
}

// Save writes the grid to path, binary unless path ends in ".ascii" or
// ".txt".
func (g *Grid) Save(path string) error { return g.internal.SaveFile(path) }

// ID returns the grid's 32-character hex digest, used to verify that two
// models share an identical triangulation before retargeting a Position
// between them (§6 "Grid identity").
func (g *Grid) ID() string { return g.internal.ID() }

// NVertices returns the number of vertices in the grid.
func (g *Grid) NVertices() int { return g.internal.NVertices() }

// NTriangles returns the total number of triangles across all
// tessellations and levels.
func (g *Grid) NTriangles() int { return g.internal.NTriangles() }

// Vertex returns the unit vector at vertex index i.
func (g *Grid) Vertex(i int) Vector3 { return g.internal.Vertex(i) }

// Validate runs the structural consistency checks of §3/§4.1 (test_grid)
// and returns an error describing every violation found, or nil if the
// grid is well-formed.
func (g *Grid) Validate() error { return g.internal.TestGrid() }

// Error kinds re-exported from the internal error taxonomy (§7), so
// callers can use errors.As against a stable public type without reaching
// into internal packages.
type (
	// ErrInvalidInput covers out-of-range lat/lon/radius, unknown layer or
	// attribute names, and malformed interpolator tags.
	ErrInvalidInput = errs.InvalidInput
	// ErrMalformedFile covers magic mismatches, unsupported file
	// versions, truncated payloads, and grid-id mismatches.
	ErrMalformedFile = errs.MalformedFile
	// ErrInconsistent covers undefined tessellation references and
	// non-monotonic profile radii.
	ErrInconsistent = errs.Inconsistent
	// ErrUnavailable covers a natural-neighbor query that fell through to
	// linear interpolation.
	ErrUnavailable = errs.Unavailable
	// ErrGeometryDegenerate covers colinear triangle vertices during
	// circumcenter computation.
	ErrGeometryDegenerate = errs.GeometryDegenerate
)
