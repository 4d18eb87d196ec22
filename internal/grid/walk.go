package grid

import "github.com/geotess/geotess-go/internal/geo"

func vec3FromArray(a [3]float64) geo.Vector3 {
	return geo.Vector3{X: a[0], Y: a[1], Z: a[2]}.Normalized()
}

// containsDirection reports whether unit vector u lies inside (or on the
// boundary of) the spherical triangle (v0,v1,v2), using the edge-side test
// from §4.1: u is on the inside of edge (vi,vj) iff det(vi,vj,u) >= 0,
// consistent with the outward-normal winding of the triangle.
func containsDirection(v0, v1, v2, u geo.Vector3) bool {
	return geo.Det(v0, v1, u) >= 0 &&
		geo.Det(v1, v2, u) >= 0 &&
		geo.Det(v2, v0, u) >= 0
}

// edgeSide returns the signed volume det(vi,vj,u) for the edge-side test,
// exposed separately from containsDirection so the walking descent can
// apply the tie-break rule (prefer lower-index neighbor on an exact zero)
// per edge rather than only an aggregate yes/no.
func edgeSide(vi, vj, u geo.Vector3) float64 {
	return geo.Det(vi, vj, u)
}

// TopLevelTriangleContaining returns the triangle index whose spherical
// sector contains unit vector u at the top (coarsest) level of
// tessellation tess, starting the search from a warm-cached triangle for
// locality (§4.1 "start the walk from a warm-cached triangle (initially
// triangle 0)").
func (g *Grid) TopLevelTriangleContaining(u geo.Vector3, tess int) int32 {
	lvl := g.tessellations[tess].Levels[0]

	g.warmMu.Lock()
	start, ok := g.warmStart[tess]
	g.warmMu.Unlock()
	if !ok || start < lvl.First || start > lvl.Last {
		start = lvl.First
	}

	found := g.walkWithinLevel(start, u, lvl)
	if found < 0 {
		// Warm start failed to converge (can happen after a large jump);
		// fall back to a full scan of the top level, which always
		// succeeds on a closed sphere.
		found = g.scanLevel(u, lvl)
	}

	g.warmMu.Lock()
	g.warmStart[tess] = found
	g.warmMu.Unlock()

	return found
}

// scanLevel linearly scans every triangle in lvl for containment. Used
// only as a fallback when the walk doesn't converge; a closed-sphere grid
// always has a containing triangle for any unit vector.
func (g *Grid) scanLevel(u geo.Vector3, lvl Level) int32 {
	for t := lvl.First; t <= lvl.Last; t++ {
		tri := g.triangles[t]
		if containsDirection(g.vertices[tri[0]], g.vertices[tri[1]], g.vertices[tri[2]], u) {
			return t
		}
	}
	return lvl.First
}

// walkWithinLevel walks the neighbor graph at a single level starting
// from tStart, stepping across whichever edge u fails, until all three
// edge tests pass. Returns -1 if it doesn't converge within a bound on
// the number of steps (a cycle would indicate a malformed grid).
func (g *Grid) walkWithinLevel(tStart int32, u geo.Vector3, lvl Level) int32 {
	g.ensureNeighbors()

	cur := tStart
	maxSteps := int(lvl.Count()) + 4
	for step := 0; step < maxSteps; step++ {
		tri := g.triangles[cur]
		v0, v1, v2 := g.vertices[tri[0]], g.vertices[tri[1]], g.vertices[tri[2]]

		sides := [3]float64{
			edgeSide(v1, v2, u), // opposite vertex 0
			edgeSide(v2, v0, u), // opposite vertex 1
			edgeSide(v0, v1, u), // opposite vertex 2
		}

		worst := -1
		worstVal := 0.0
		for k, s := range sides {
			if s < worstVal {
				worst = k
				worstVal = s
			}
		}
		if worst == -1 {
			// All three sides non-negative: u is inside (or on an edge
			// of) this triangle. Per §4.1 tie rule, when u lies exactly
			// on an edge the neighbor across it contains u too, and the
			// lower-index triangle of the two is returned.
			best := cur
			for k, s := range sides {
				if s != 0 {
					continue
				}
				nb := g.neighbors[cur][k]
				if nb >= 0 && nb >= lvl.First && nb <= lvl.Last && nb < best {
					best = nb
				}
			}
			return best
		}

		next := g.neighbors[cur][worst]
		if next < 0 || next < lvl.First || next > lvl.Last {
			// Boundary or level mismatch (shouldn't happen on a closed
			// sphere within one level); stop and let the caller fall
			// back to a full scan.
			return -1
		}
		cur = next
	}
	return -1
}

// WalkToContaining walks across neighbors starting at tStart until it
// finds the triangle at the given (tessellation, level) containing u
// (§4.1). tStart must already be at that level.
func (g *Grid) WalkToContaining(tStart int32, u geo.Vector3, tess, level int) int32 {
	lvl := g.tessellations[tess].Levels[level]
	found := g.walkWithinLevel(tStart, u, lvl)
	if found < 0 {
		found = g.scanLevel(u, lvl)
	}
	return found
}

// Locate descends from the top level of tessellation tess down to
// targetLevel, at each step restricting the search to the four
// descendants of the triangle found at the coarser level (§4.1 "at each
// level, find the containing top-level triangle, then scan its four
// descendants at level+1 ... and recurse").
func (g *Grid) Locate(u geo.Vector3, tess, targetLevel int) int32 {
	g.ensureDescendants()

	cur := g.TopLevelTriangleContaining(u, tess)
	for level := 0; level < targetLevel; level++ {
		best := int32(-1)
		for i := 0; i < 4; i++ {
			d := g.Descendant(int(cur), i)
			if d < 0 {
				continue
			}
			tri := g.triangles[d]
			if containsDirection(g.vertices[tri[0]], g.vertices[tri[1]], g.vertices[tri[2]], u) {
				best = d
				break
			}
		}
		if best < 0 {
			// Descendant test found no match (degenerate corner case at
			// shared edges/vertices of children); fall back to a full
			// scan of the next level, which always succeeds.
			lvl := g.tessellations[tess].Levels[level+1]
			best = g.scanLevel(u, lvl)
		}
		cur = best
	}
	return cur
}
