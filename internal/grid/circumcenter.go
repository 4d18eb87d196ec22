package grid

import (
	"github.com/geotess/geotess-go/internal/errs"
	"github.com/geotess/geotess-go/internal/geo"
)

// circumcenter is the unit vector of a triangle's Voronoi site together
// with cos(r), where r is its angular circumradius (§4.1).
type circumcenter struct {
	center geo.Vector3
	cosR   float64
}

// ensureCircumcenters fills g.circumcenters for every triangle, normalizing
// (v0-v1) x (v2-v1) so it points to the same hemisphere as the triangle's
// vertices (§4.1 "Circumcenter computation").
func (g *Grid) ensureCircumcenters() error {
	g.lazyMu.Lock()
	defer g.lazyMu.Unlock()
	if g.circumcenters != nil {
		return nil
	}
	out := make([]circumcenter, len(g.triangles))
	for t, tri := range g.triangles {
		v0, v1, v2 := g.vertices[tri[0]], g.vertices[tri[1]], g.vertices[tri[2]]
		normal := v0.Sub(v1).Cross(v2.Sub(v1))
		length := normal.Length()
		if length == 0 {
			return &errs.GeometryDegenerate{Triangle: t, Reason: "colinear triangle vertices"}
		}
		center := normal.Scale(1 / length)
		// Orient to the same hemisphere as the triangle's own vertices.
		if center.Dot(v0) < 0 {
			center = center.Scale(-1)
		}
		out[t] = circumcenter{center: center, cosR: center.Dot(v0)}
	}
	g.circumcenters = out
	return nil
}

// Circumcenter returns the unit vector of triangle t's Voronoi site. Only
// used to accelerate Voronoi queries (§4.1); interpolation itself doesn't
// require it.
func (g *Grid) Circumcenter(t int) (geo.Vector3, error) {
	if err := g.ensureCircumcenters(); err != nil {
		return geo.Vector3{}, err
	}
	return g.circumcenters[t].center, nil
}

// CircumcenterCosRadius returns cos(r) for triangle t's circumcenter,
// where dot(circumcenter, vi) == cos(r) for all three of t's vertices in
// a well-formed grid.
func (g *Grid) CircumcenterCosRadius(t int) (float64, error) {
	if err := g.ensureCircumcenters(); err != nil {
		return 0, err
	}
	return g.circumcenters[t].cosR, nil
}
