package grid

import (
	"fmt"
	"math"

	"github.com/geotess/geotess-go/internal/errs"
)

// TestGrid validates the structural invariants of §3/§4.1 and returns an
// Inconsistent error listing every violation found, rather than stopping
// at the first one (SPEC_FULL.md "test_grid()": mirrors the teacher's
// buildChart posture of collecting failures and reporting them together).
// A nil return means the grid is well-formed.
func (g *Grid) TestGrid() error {
	var problems []string

	problems = append(problems, g.checkNeighborCounts()...)
	problems = append(problems, g.checkDescendantTiling()...)
	problems = append(problems, g.checkCircumcenters()...)
	problems = append(problems, g.checkNestedVertexSets()...)

	if len(problems) == 0 {
		return nil
	}
	msg := fmt.Sprintf("%d problem(s) found:", len(problems))
	for _, p := range problems {
		msg += "\n  - " + p
	}
	return &errs.Inconsistent{Reason: msg}
}

// checkNeighborCounts verifies every triangle has exactly three same-level
// neighbors (§3 "every triangle has exactly three neighbors at the same
// level").
func (g *Grid) checkNeighborCounts() []string {
	g.ensureNeighbors()
	var problems []string
	for _, tess := range g.tessellations {
		for _, lvl := range tess.Levels {
			for t := lvl.First; t <= lvl.Last; t++ {
				for k := 0; k < 3; k++ {
					nb := g.neighbors[t][k]
					if nb < 0 {
						problems = append(problems, fmt.Sprintf("triangle %d has no neighbor opposite vertex %d", t, k))
						continue
					}
					if nb < lvl.First || nb > lvl.Last {
						problems = append(problems, fmt.Sprintf("triangle %d neighbor %d is outside its level", t, nb))
					}
				}
			}
		}
	}
	return problems
}

// checkDescendantTiling verifies that descendants at level+1 fully tile
// their parent (§3 "descendants at level ℓ+1 fully tile their parent at
// level ℓ"): every non-finest-level triangle must have exactly four
// descendants, and every finer-level triangle must be claimed as a
// descendant of exactly one parent.
func (g *Grid) checkDescendantTiling() []string {
	g.ensureDescendants()
	var problems []string
	for _, tess := range g.tessellations {
		for li := 0; li < len(tess.Levels)-1; li++ {
			parentLvl := tess.Levels[li]
			childLvl := tess.Levels[li+1]
			claimCount := make(map[int32]int)
			for p := parentLvl.First; p <= parentLvl.Last; p++ {
				n := 0
				for i := 0; i < 4; i++ {
					d := g.descendants[p][i]
					if d >= 0 {
						n++
						claimCount[d]++
					}
				}
				if n != 4 {
					problems = append(problems, fmt.Sprintf("triangle %d has %d descendants, want 4", p, n))
				}
			}
			for c := childLvl.First; c <= childLvl.Last; c++ {
				if claimCount[c] != 1 {
					problems = append(problems, fmt.Sprintf("child triangle %d claimed by %d parents, want 1", c, claimCount[c]))
				}
			}
		}
	}
	return problems
}

// checkCircumcenters verifies dot(circumcenter, vi) == cos(r) for all
// three triangle vertices (§3).
func (g *Grid) checkCircumcenters() []string {
	var problems []string
	if err := g.ensureCircumcenters(); err != nil {
		return []string{err.Error()}
	}
	const tol = 1e-9
	for t, tri := range g.triangles {
		cc := g.circumcenters[t]
		for _, vi := range tri {
			d := cc.center.Dot(g.vertices[vi])
			if math.Abs(d-cc.cosR) > tol {
				problems = append(problems, fmt.Sprintf("triangle %d circumcenter dot mismatch at vertex %d: %.12f vs %.12f", t, vi, d, cc.cosR))
			}
		}
	}
	return problems
}

// checkNestedVertexSets verifies that the vertex set of a coarser
// tessellation level is a strict subset of the finer levels (§3).
func (g *Grid) checkNestedVertexSets() []string {
	var problems []string
	for ti, tess := range g.tessellations {
		var prevVerts map[int32]bool
		for li, lvl := range tess.Levels {
			verts := make(map[int32]bool)
			for t := lvl.First; t <= lvl.Last; t++ {
				tri := g.triangles[t]
				verts[tri[0]] = true
				verts[tri[1]] = true
				verts[tri[2]] = true
			}
			if prevVerts != nil {
				for v := range prevVerts {
					if !verts[v] {
						problems = append(problems, fmt.Sprintf("tessellation %d: vertex %d present at level %d missing at level %d", ti, v, li-1, li))
					}
				}
				added := 0
				for v := range verts {
					if !prevVerts[v] {
						added++
					}
				}
				if added == 0 {
					problems = append(problems, fmt.Sprintf("tessellation %d: level %d adds no vertices to level %d", ti, li, li-1))
				}
			}
			prevVerts = verts
		}
	}
	return problems
}
