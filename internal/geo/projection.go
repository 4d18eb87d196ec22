package geo

import "math"

// TangentBasis returns an arbitrary orthonormal basis (e1, e2) of the plane
// tangent to the sphere at c, used by the gnomonic projection below. The
// choice of e1 is arbitrary but deterministic for a given c, which is all
// natural-neighbor coefficient computation needs: the same basis must be
// reused for every point projected during one coefficient call.
func TangentBasis(c Vector3) (e1, e2 Vector3) {
	ref := Vector3{X: 0, Y: 0, Z: 1}
	if math.Abs(c.Z) > 0.9 {
		ref = Vector3{X: 1, Y: 0, Z: 0}
	}
	e1 = c.Cross(ref).Normalized()
	e2 = c.Cross(e1).Normalized()
	return e1, e2
}

// GnomonicProject maps unit vector p onto the plane tangent to the sphere
// at c (central/gnomonic projection: the point where the line from the
// sphere's center through p meets that plane), expressed in the (e1, e2)
// basis. Great circles through the sphere project to straight lines under
// this projection, which is what makes it suitable for approximating
// planar Voronoi/Delaunay combinatorics locally around c (§4.3 natural-
// neighbor coefficients).
//
// ok is false when p is on or beyond the horizon from c (c.Dot(p) <= 0),
// where the projection is undefined; callers drop such candidates.
func GnomonicProject(c, p, e1, e2 Vector3) (x, y float64, ok bool) {
	cosc := c.Dot(p)
	if cosc <= 1e-9 {
		return 0, 0, false
	}
	tangent := p.Sub(c.Scale(cosc)).Scale(1 / cosc)
	return e1.Dot(tangent), e2.Dot(tangent), true
}
