package profile

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/geotess/geotess-go/internal/geo"
)

// Triple identifies a single point: a vertex, the layer it belongs to, and
// the node-within-profile index (§3 "Point"; GLOSSARY).
type Triple struct {
	Vertex int32
	Layer  int
	Node   int
}

// PointMap is the flat enumeration of every real point in a Store, with
// O(1) lookup in both directions (§4.2).
type PointMap struct {
	store    *Store
	vertices []geo.Vector3

	triples  []Triple
	byTriple map[Triple]int32
}

// indexedVertex wraps a grid vertex for rtreego storage, the same wrapper
// shape the teacher uses for feature bounds (pkg/s57/s57.go indexedFeature).
type indexedVertex struct {
	vertex int32
	u      geo.Vector3
}

func (v *indexedVertex) Bounds() rtreego.Rect {
	const epsilon = 1e-6
	point := rtreego.Point{v.u.X - epsilon/2, v.u.Y - epsilon/2, v.u.Z - epsilon/2}
	rect, _ := rtreego.NewRect(point, []float64{epsilon, epsilon, epsilon})
	return rect
}

// Build enumerates every real node of store over the given vertex unit
// vectors (§4.2: "the point-map is dense over all real nodes of all
// non-Empty profiles, and Surface profiles contribute exactly one node").
// If polygon is non-nil, enumeration is restricted to vertices inside it
// (the active-region policy flag); an R-tree over vertex bounding boxes
// pre-filters candidates before the exact polygon test, the acceleration
// pattern the teacher applies to feature bounds in pkg/s57/s57.go
// (buildSpatialIndex / FeaturesInBounds).
func Build(store *Store, vertices []geo.Vector3, polygon *Polygon) *PointMap {
	var candidates []int32
	if polygon == nil {
		candidates = make([]int32, len(vertices))
		for i := range vertices {
			candidates[i] = int32(i)
		}
	} else {
		candidates = polygonCandidates(vertices, *polygon)
	}

	pm := &PointMap{store: store, vertices: vertices, byTriple: make(map[Triple]int32)}
	for _, v := range candidates {
		for l := 0; l < store.nLayers; l++ {
			p := store.profiles[v][l]
			for node := 0; node < p.NNodes(); node++ {
				t := Triple{Vertex: v, Layer: l, Node: node}
				pm.byTriple[t] = int32(len(pm.triples))
				pm.triples = append(pm.triples, t)
			}
		}
	}
	return pm
}

// polygonCandidates returns the vertex indices enclosed by polygon, using an
// R-tree bounding-box pre-filter over the polygon's own extent before the
// exact spherical point-in-polygon test.
func polygonCandidates(vertices []geo.Vector3, polygon Polygon) []int32 {
	if len(polygon.vertices) == 0 || len(vertices) == 0 {
		return nil
	}
	rtree := rtreego.NewTree(3, 5, 20)
	for i, u := range vertices {
		rtree.Insert(&indexedVertex{vertex: int32(i), u: u})
	}

	spatials := rtree.SearchIntersect(boundingRect(polygon.vertices))

	var out []int32
	for _, s := range spatials {
		iv := s.(*indexedVertex)
		if polygon.Contains(iv.u) {
			out = append(out, iv.vertex)
		}
	}
	return out
}

// boundingRect returns a Cartesian box guaranteed to contain every point
// within the polygon, built from its centroid and angular radius rather
// than the raw min/max of its corner coordinates: a spherical cap bulges
// outward from the plane of its corners, so a tight box over the corners
// alone can clip true interior points (the vertex nearest the cap's pole,
// for instance, sits farther out along that axis than any corner). Any
// point within angle theta of the centroid is within chord distance
// 2*sin(theta/2) of it, so a cube of that half-width is a safe superset.
// This is only a pre-filter — polygon.Contains still verifies every
// candidate exactly — so over-covering costs a few extra exact tests, not
// correctness.
func boundingRect(vs []geo.Vector3) rtreego.Rect {
	var sum geo.Vector3
	for _, v := range vs {
		sum = sum.Add(v)
	}
	centroid := sum.Normalized()

	maxAngle := 0.0
	for _, v := range vs {
		a := geo.AngleBetween(centroid, v.Normalized())
		if a > maxAngle {
			maxAngle = a
		}
	}
	pad := 2*math.Sin(maxAngle/2) + 1e-9

	point := rtreego.Point{centroid.X - pad, centroid.Y - pad, centroid.Z - pad}
	lengths := []float64{2 * pad, 2 * pad, 2 * pad}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// NPoints returns the number of enumerated points.
func (pm *PointMap) NPoints() int { return len(pm.triples) }

// PointToTriple returns the (vertex, layer, node) triple for point p.
func (pm *PointMap) PointToTriple(p int32) Triple { return pm.triples[p] }

// TripleToPoint returns the point id for a (vertex, layer, node) triple, or
// false if it isn't enumerated (filtered out by an active region, or not a
// real node).
func (pm *PointMap) TripleToPoint(t Triple) (int32, bool) {
	id, ok := pm.byTriple[t]
	return id, ok
}

// PointRadius returns the radius of point p.
func (pm *PointMap) PointRadius(p int32) float64 {
	t := pm.triples[p]
	prof := pm.store.profiles[t.Vertex][t.Layer]
	if prof.Kind() == Surface {
		return 0
	}
	if prof.Kind() == Thin || prof.Kind() == Constant {
		// Both variants carry exactly one node; its nominal radius is the
		// profile's bottom boundary (Thin's only radius, or Constant's
		// rBottom).
		return prof.radii[0]
	}
	return prof.Radius(t.Node)
}

// PointUnitVector returns the horizontal direction of point p.
func (pm *PointMap) PointUnitVector(p int32) geo.Vector3 {
	return pm.vertices[pm.triples[p].Vertex]
}

// PointValue returns the attr'th attribute value at point p.
func (pm *PointMap) PointValue(p int32, attr int) float64 {
	t := pm.triples[p]
	prof := pm.store.profiles[t.Vertex][t.Layer]
	return prof.Cell(t.Node).Value(attr)
}
