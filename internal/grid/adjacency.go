package grid

import "sort"

// edgeKey identifies an undirected edge by its two (sorted) vertex
// indices, used to pair up the two triangles sharing it within one level.
type edgeKey struct {
	a, b int32
}

func makeEdgeKey(a, b int32) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// ensureNeighbors fills g.neighbors for every triangle in the grid, under
// the per-grid lazy-fill lock (§5: "filled lazily under a per-grid
// single-writer lock; readers observe either the unfilled ... or filled
// state").
func (g *Grid) ensureNeighbors() {
	g.lazyMu.Lock()
	defer g.lazyMu.Unlock()
	if g.neighbors != nil {
		return
	}
	neighbors := make([][3]int32, len(g.triangles))
	for i := range neighbors {
		neighbors[i] = [3]int32{-1, -1, -1}
	}

	for _, tess := range g.tessellations {
		for _, lvl := range tess.Levels {
			type edgeEntry struct {
				tri   int32
				local int
			}
			edges := make(map[edgeKey][]edgeEntry)
			for t := lvl.First; t <= lvl.Last; t++ {
				tri := g.triangles[t]
				// Edge k is the edge opposite vertex k, i.e. the edge
				// between the other two vertices.
				for k := 0; k < 3; k++ {
					v1 := tri[(k+1)%3]
					v2 := tri[(k+2)%3]
					key := makeEdgeKey(v1, v2)
					edges[key] = append(edges[key], edgeEntry{tri: t, local: k})
				}
			}
			for _, entries := range edges {
				if len(entries) != 2 {
					// Boundary or non-manifold edge; leave as -1. A
					// closed-sphere grid should never hit this, and
					// test_grid surfaces it as Inconsistent.
					continue
				}
				e0, e1 := entries[0], entries[1]
				neighbors[e0.tri][e0.local] = e1.tri
				neighbors[e1.tri][e1.local] = e0.tri
			}
		}
	}
	g.neighbors = neighbors
}

// Neighbor returns the triangle adjacent to t across the edge opposite
// its k'th vertex, or -1 at a mesh boundary (never for a closed sphere).
func (g *Grid) Neighbor(t, k int) int32 {
	g.ensureNeighbors()
	return g.neighbors[t][k]
}

// ensureDescendants fills g.descendants for every triangle that has a
// next-finer level in its tessellation. A triangle's four descendants are
// the level+1 triangles whose centroid falls inside it (§4.1 descent
// algorithm: "scan its four descendants at level+1 (point-in-spherical-
// triangle test)") — this is computed geometrically rather than carried
// as explicit subdivision bookkeeping, so it works for any valid nested
// refinement, not just one built by this package's own subdivider.
func (g *Grid) ensureDescendants() {
	g.lazyMu.Lock()
	defer g.lazyMu.Unlock()
	if g.descendants != nil {
		return
	}
	descendants := make([][4]int32, len(g.triangles))
	for i := range descendants {
		descendants[i] = [4]int32{-1, -1, -1, -1}
	}

	for _, tess := range g.tessellations {
		for li := 0; li < len(tess.Levels)-1; li++ {
			parentLvl := tess.Levels[li]
			childLvl := tess.Levels[li+1]

			// Precompute child centroids once per level pair.
			type childInfo struct {
				idx      int32
				centroid [3]float64
			}
			children := make([]childInfo, 0, childLvl.Count())
			for c := childLvl.First; c <= childLvl.Last; c++ {
				tri := g.triangles[c]
				v0, v1, v2 := g.vertices[tri[0]], g.vertices[tri[1]], g.vertices[tri[2]]
				cx := (v0.X + v1.X + v2.X) / 3
				cy := (v0.Y + v1.Y + v2.Y) / 3
				cz := (v0.Z + v1.Z + v2.Z) / 3
				children = append(children, childInfo{idx: c, centroid: [3]float64{cx, cy, cz}})
			}

			for p := parentLvl.First; p <= parentLvl.Last; p++ {
				tri := g.triangles[p]
				v0, v1, v2 := g.vertices[tri[0]], g.vertices[tri[1]], g.vertices[tri[2]]
				found := descendants[p][:0]
				for _, ch := range children {
					cv := vec3FromArray(ch.centroid)
					if containsDirection(v0, v1, v2, cv) {
						found = append(found, ch.idx)
						if len(found) == 4 {
							break
						}
					}
				}
				for i := 0; i < 4; i++ {
					if i < len(found) {
						descendants[p][i] = found[i]
					} else {
						descendants[p][i] = -1
					}
				}
			}
		}
	}
	g.descendants = descendants
}

// Descendant returns the i'th (0..3) child triangle of t at the next
// finer level, or -1 if t is at the finest level of its tessellation.
func (g *Grid) Descendant(t, i int) int32 {
	g.ensureDescendants()
	return g.descendants[t][i]
}

// vtKey identifies a (vertex, level) pair for the vertex-triangle-fan
// cache.
type vtKey struct {
	vertex int32
	tess   int
	level  int
}

// VertexTriangles returns the triangles at the given tessellation/level
// that share vertex, ordered cyclically around it (§4.1
// vertex_triangles), computed and cached lazily.
func (g *Grid) VertexTriangles(vertex int32, tess, level int) []int32 {
	g.ensureNeighbors()

	g.lazyMu.Lock()
	if g.vertexTri == nil {
		g.vertexTri = make(map[vtKey][]int32)
	}
	key := vtKey{vertex: vertex, tess: tess, level: level}
	if cached, ok := g.vertexTri[key]; ok {
		g.lazyMu.Unlock()
		return cached
	}
	g.lazyMu.Unlock()

	lvl := g.tessellations[tess].Levels[level]
	var candidates []int32
	for t := lvl.First; t <= lvl.Last; t++ {
		tri := g.triangles[t]
		if tri[0] == vertex || tri[1] == vertex || tri[2] == vertex {
			candidates = append(candidates, t)
		}
	}

	ring := g.orderAroundVertex(vertex, candidates)

	g.lazyMu.Lock()
	g.vertexTri[key] = ring
	g.lazyMu.Unlock()
	return ring
}

// orderAroundVertex walks the neighbor relation starting from an arbitrary
// candidate triangle to produce a cyclic ordering of the triangles
// touching vertex.
func (g *Grid) orderAroundVertex(vertex int32, candidates []int32) []int32 {
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	contains := func(t int32) bool {
		tri := g.triangles[t]
		return tri[0] == vertex || tri[1] == vertex || tri[2] == vertex
	}

	start := candidates[0]
	ring := []int32{start}
	prev := int32(-1)
	cur := start
	for {
		next := int32(-1)
		for k := 0; k < 3; k++ {
			nb := g.neighbors[cur][k]
			if nb < 0 || nb == prev {
				continue
			}
			if contains(nb) {
				next = nb
				break
			}
		}
		if next == -1 || next == start {
			break
		}
		ring = append(ring, next)
		prev = cur
		cur = next
		if len(ring) > len(candidates) {
			// Defensive: malformed adjacency could otherwise loop
			// forever; test_grid is responsible for flagging this.
			break
		}
	}
	return ring
}
