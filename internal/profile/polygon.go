package profile

import (
	"math"

	"github.com/geotess/geotess-go/internal/geo"
)

// Polygon is a simple spherical polygon given as an ordered, cyclic list of
// unit-vector vertices, wound the same way triangle vertices are (§3
// "Vertex order ... defines an outward normal by the right-hand rule"). It
// implements PointMap's active-region filter (§4.2).
type Polygon struct {
	vertices []geo.Vector3
}

// NewPolygon builds a Polygon from at least three vertices.
func NewPolygon(vertices []geo.Vector3) Polygon {
	return Polygon{vertices: append([]geo.Vector3(nil), vertices...)}
}

// Contains reports whether u lies within the polygon, using the spherical
// winding-number test: project every polygon vertex onto the tangent plane
// at u and sum the signed angles between consecutive projections. The sum
// is (near) ±2π when u is enclosed and (near) 0 when it is outside — the
// spherical analogue of the planar winding-number point-in-polygon test,
// built on the same det()-based edge-side predicate used for triangle
// containment (internal/grid/walk.go).
func (p Polygon) Contains(u geo.Vector3) bool {
	n := len(p.vertices)
	if n < 3 {
		return false
	}

	tangent := func(x geo.Vector3) (geo.Vector3, bool) {
		t := x.Sub(u.Scale(u.Dot(x)))
		l := t.Length()
		if l < 1e-12 {
			return geo.Vector3{}, false
		}
		return t.Scale(1 / l), true
	}

	total := 0.0
	for i := 0; i < n; i++ {
		a, aok := tangent(p.vertices[i])
		b, bok := tangent(p.vertices[(i+1)%n])
		if !aok || !bok {
			// u coincides with a vertex direction; treat as enclosed (a
			// boundary point is part of its own region).
			return true
		}
		cross := a.Cross(b)
		sin := u.Dot(cross)
		cos := a.Dot(b)
		total += math.Atan2(sin, cos)
	}
	return math.Abs(total) > math.Pi
}
