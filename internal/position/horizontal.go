package position

import (
	"sort"

	"github.com/geotess/geotess-go/internal/geo"
	"github.com/geotess/geotess-go/internal/grid"
)

// horizontalResult is the outcome of a horizontal coefficient computation:
// the participating vertices and their weights (parallel slices, same
// length, weights summing to 1), plus the triangle the query point was
// located in (for NaturalNeighbor results too, even when the vertices go
// beyond that triangle's three).
type horizontalResult struct {
	triangle int32
	vertices []int32
	weights  []float64
	fellBack bool // NaturalNeighbor requested but Linear was used instead (§7 Unavailable)
}

// computeHorizontal dispatches to the requested algorithm, locating the
// containing triangle at the finest level of tess via the grid's walking
// descent (§4.1 Locate) before computing coefficients over it.
func computeHorizontal(g *grid.Grid, u geo.Vector3, tess int, kind HorizontalKind) horizontalResult {
	finest := g.FinestLevel(tess)
	t := g.Locate(u, tess, finest)

	switch kind {
	case NaturalNeighbor:
		if res, ok := naturalNeighbor(g, u, tess, finest, t); ok {
			return res
		}
		res := barycentric(g, u, t)
		res.fellBack = true
		return res
	default:
		return barycentric(g, u, t)
	}
}

// barycentric computes the three signed-area-ratio coefficients of u on
// triangle t (§4.3 Linear): coefficient of the vertex opposite edge (vj,vk)
// is det(vj,vk,u) / det(vj,vk,vi).
func barycentric(g *grid.Grid, u geo.Vector3, t int32) horizontalResult {
	tri := g.Triangle(int(t))
	v := [3]geo.Vector3{g.Vertex(int(tri[0])), g.Vertex(int(tri[1])), g.Vertex(int(tri[2]))}

	var coeff [3]float64
	for i := 0; i < 3; i++ {
		j, k := (i+1)%3, (i+2)%3
		denom := geo.Det(v[j], v[k], v[i])
		if denom == 0 {
			coeff[i] = 0
			continue
		}
		coeff[i] = geo.Det(v[j], v[k], u) / denom
	}

	// A query point exactly at a vertex or on an edge can leave tiny
	// numerical residue on the coefficient that should be exactly zero;
	// clamp to keep Sum == 1 within the §8 tolerance and to give vertex/
	// edge queries the exact single/double nonzero coefficients §8
	// requires.
	for i := range coeff {
		if coeff[i] < 1e-12 && coeff[i] > -1e-12 {
			coeff[i] = 0
		}
	}

	return horizontalResult{
		triangle: t,
		vertices: []int32{tri[0], tri[1], tri[2]},
		weights:  coeff[:],
	}
}

// naturalNeighbor computes Sibson stolen-area coefficients. It returns
// ok=false when the query degenerates to a vertex or edge (handled by
// falling through to barycentric, which already returns the exact
// single/double-coefficient result §8 requires for those cases) or when
// too few candidate neighbors are available to form a cell (§7
// Unavailable: "falls through to linear and signals a warning").
//
// Natural neighbors are approximated as the union of vertices reachable
// within two neighbor-rings of the containing triangle t0: in a
// reasonably well-shaped triangulation this always contains every true
// natural neighbor, and candidates that don't actually touch u's Voronoi
// cell are naturally assigned zero weight by the clipping step below, so
// over-collecting costs extra (cheap) clipping, not correctness.
//
// The stolen-area computation is the circumcenter/half-plane construction
// named in §4.3 ("Implementation uses spherical Voronoi cells and either a
// Lasserre area formula or the circum-triangle construction"): project the
// candidates and u onto the plane tangent to the sphere at u via a
// gnomonic projection (which maps great circles to straight lines, so the
// local Voronoi/Delaunay combinatorics carry over to the plane), then for
// each candidate vertex clip its existing Voronoi cell (bounded by the
// grid's own triangle circumcenters, already the duals of the vertex
// triangulation) against the half-planes introduced by inserting u.
func naturalNeighbor(g *grid.Grid, u geo.Vector3, tess, level int, t0 int32) (horizontalResult, bool) {
	tri := g.Triangle(int(t0))
	for _, vi := range tri {
		if geo.AngleBetween(g.Vertex(int(vi)), u) < 1e-9 {
			return horizontalResult{}, false // exactly at a vertex; let barycentric handle it
		}
	}
	for _, w := range barycentric(g, u, t0).weights {
		if w == 0 {
			return horizontalResult{}, false // on an edge of t0; let barycentric handle it
		}
	}

	candidates := candidateNeighbors(g, tess, level, t0)
	if len(candidates) < 3 {
		return horizontalResult{}, false
	}

	e1, e2 := geo.TangentBasis(u)
	proj := make(map[int32][2]float64, len(candidates))
	for _, c := range candidates {
		x, y, ok := geo.GnomonicProject(u, g.Vertex(int(c)), e1, e2)
		if !ok {
			return horizontalResult{}, false
		}
		proj[c] = [2]float64{x, y}
	}

	halfplanes := make([]halfplane, 0, len(candidates))
	for _, c := range candidates {
		p := proj[c]
		halfplanes = append(halfplanes, halfplane{a: p[0], b: p[1], c: (p[0]*p[0] + p[1]*p[1]) / 2})
	}

	var vertices []int32
	var weights []float64
	total := 0.0
	for _, vi := range candidates {
		cell := voronoiCell(g, u, e1, e2, vi, tess, level)
		if len(cell) < 3 {
			continue
		}
		for _, hp := range halfplanes {
			cell = clipPolygon(cell, hp)
			if len(cell) == 0 {
				break
			}
		}
		area := polygonArea(cell)
		if area <= 1e-15 {
			continue
		}
		vertices = append(vertices, vi)
		weights = append(weights, area)
		total += area
	}

	if len(vertices) < 3 || total <= 0 {
		return horizontalResult{}, false
	}
	for i := range weights {
		weights[i] /= total
	}

	return horizontalResult{triangle: t0, vertices: vertices, weights: weights}, true
}

// candidateNeighbors returns, in no particular order, every vertex
// reachable from t0 within two neighbor-hops at the given level.
func candidateNeighbors(g *grid.Grid, tess, level int, t0 int32) []int32 {
	seen := map[int32]bool{t0: true}
	frontier := []int32{t0}
	for hop := 0; hop < 2; hop++ {
		var next []int32
		for _, t := range frontier {
			for k := 0; k < 3; k++ {
				nb := g.Neighbor(int(t), k)
				if nb >= 0 && !seen[nb] {
					seen[nb] = true
					next = append(next, nb)
				}
			}
		}
		frontier = next
	}
	vset := map[int32]bool{}
	for t := range seen {
		tri := g.Triangle(int(t))
		vset[tri[0]], vset[tri[1]], vset[tri[2]] = true, true, true
	}
	out := make([]int32, 0, len(vset))
	for v := range vset {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// voronoiCell returns vertex vi's existing Voronoi cell, projected into the
// (e1,e2) plane tangent at u, as the cyclically-ordered circumcenters of
// the triangles in its triangle fan — the dual of the vertex triangulation
// (§4.1 circumcenter; GLOSSARY "Voronoi cell").
func voronoiCell(g *grid.Grid, u geo.Vector3, e1, e2 geo.Vector3, vi int32, tess, level int) [][2]float64 {
	fan := g.VertexTriangles(vi, tess, level)
	cell := make([][2]float64, 0, len(fan))
	for _, t := range fan {
		cc, err := g.Circumcenter(int(t))
		if err != nil {
			continue
		}
		x, y, ok := geo.GnomonicProject(u, cc, e1, e2)
		if !ok {
			continue
		}
		cell = append(cell, [2]float64{x, y})
	}
	return cell
}

// halfplane represents {(x,y) : a*x + b*y <= c}.
type halfplane struct{ a, b, c float64 }

func (h halfplane) inside(p [2]float64) bool {
	return h.a*p[0]+h.b*p[1] <= h.c+1e-12
}

// intersect returns the point where segment p0->p1 crosses the boundary
// line of h.
func (h halfplane) intersect(p0, p1 [2]float64) [2]float64 {
	d0 := h.a*p0[0] + h.b*p0[1] - h.c
	d1 := h.a*p1[0] + h.b*p1[1] - h.c
	denom := d0 - d1
	if denom == 0 {
		return p0
	}
	t := d0 / denom
	return [2]float64{p0[0] + t*(p1[0]-p0[0]), p0[1] + t*(p1[1]-p0[1])}
}

// clipPolygon runs one Sutherland-Hodgman pass, clipping poly against h.
func clipPolygon(poly [][2]float64, h halfplane) [][2]float64 {
	if len(poly) == 0 {
		return poly
	}
	var out [][2]float64
	for i := range poly {
		cur := poly[i]
		prev := poly[(i+len(poly)-1)%len(poly)]
		curIn := h.inside(cur)
		prevIn := h.inside(prev)
		if curIn {
			if !prevIn {
				out = append(out, h.intersect(prev, cur))
			}
			out = append(out, cur)
		} else if prevIn {
			out = append(out, h.intersect(prev, cur))
		}
	}
	return out
}

// polygonArea returns the unsigned area of a (possibly non-convex) simple
// polygon via the shoelace formula.
func polygonArea(poly [][2]float64) float64 {
	n := len(poly)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += poly[i][0]*poly[j][1] - poly[j][0]*poly[i][1]
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}
