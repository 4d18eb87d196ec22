// Package grid implements the hierarchical icosahedral triangulation of
// the unit sphere (§4.1): vertices, triangles, nested tessellation levels,
// and the lazily-computed adjacency (neighbors, descendants, circumcenters,
// per-vertex triangle fans) that point location and interpolation walk.
//
// A Grid is immutable after construction; its derived structures are
// filled lazily under a per-grid lock the first time they're asked for
// (§5 "Shared-resource policy"), so many Models can share one Grid by
// reference without duplicating the triangulation.
package grid

import (
	"sync"

	"github.com/geotess/geotess-go/internal/geo"
)

// Triangle is a triple of vertex indices. Vertex order defines the
// triangle's outward normal by the right-hand rule (§3).
type Triangle [3]int32

// Level is an inclusive triangle index range [First, Last] at one
// refinement level of one tessellation.
type Level struct {
	First, Last int32
}

// Count returns the number of triangles in the level.
func (l Level) Count() int32 { return l.Last - l.First + 1 }

// Tessellation is an ordered sequence of nested Levels, coarsest first,
// each a complete 4-to-1 refinement of the one before it (§3).
type Tessellation struct {
	Levels []Level
}

// NLevels returns the number of refinement levels in the tessellation.
func (t Tessellation) NLevels() int { return len(t.Levels) }

// Grid is the immutable triangulation shared by possibly many Models.
// Construct via New or Load; all fields below the constructor-supplied
// ones are derived and cached lazily.
type Grid struct {
	softwareVersion string
	creationDate    string
	description     string

	vertices      []geo.Vector3
	triangles     []Triangle
	tessellations []Tessellation

	id     string
	idOnce sync.Once

	lazyMu        sync.Mutex
	neighbors     [][3]int32   // per triangle; filled lazily
	descendants   [][4]int32   // per triangle; -1 where the triangle is at the finest level of its tessellation
	circumcenters []circumcenter
	vertexTri     map[vtKey][]int32

	warmMu    sync.Mutex
	warmStart map[int]int32 // per tessellation index: last successful top-level triangle, for walk locality
}

// New constructs a Grid from fully-specified vertices, triangles, and
// tessellation level ranges. Callers that load from disk use Load instead
// (gridio.go); this constructor is also used directly by synthetic-grid
// test helpers and by higher layers building a grid procedurally.
func New(vertices []geo.Vector3, triangles []Triangle, tessellations []Tessellation, softwareVersion, creationDate, description string) *Grid {
	return &Grid{
		vertices:        append([]geo.Vector3(nil), vertices...),
		triangles:       append([]Triangle(nil), triangles...),
		tessellations:   append([]Tessellation(nil), tessellations...),
		softwareVersion: softwareVersion,
		creationDate:    creationDate,
		description:     description,
		warmStart:       make(map[int]int32),
	}
}

// NVertices returns the number of vertices in the grid.
func (g *Grid) NVertices() int { return len(g.vertices) }

// NTriangles returns the total number of triangles in the grid, across
// all tessellations and levels.
func (g *Grid) NTriangles() int { return len(g.triangles) }

// NTessellations returns the number of tessellations in the grid.
func (g *Grid) NTessellations() int { return len(g.tessellations) }

// Vertex returns the unit vector at vertex index i.
func (g *Grid) Vertex(i int) geo.Vector3 { return g.vertices[i] }

// Triangle returns the vertex-index triple for triangle t.
func (g *Grid) Triangle(t int) Triangle { return g.triangles[t] }

// NLevels returns the number of refinement levels in tessellation tess.
func (g *Grid) NLevels(tess int) int { return g.tessellations[tess].NLevels() }

// LevelFirstTriangle returns the index of the first triangle at the given
// level of the given tessellation.
func (g *Grid) LevelFirstTriangle(tess, level int) int32 {
	return g.tessellations[tess].Levels[level].First
}

// LevelLastTriangle returns the index of the last triangle (inclusive) at
// the given level of the given tessellation.
func (g *Grid) LevelLastTriangle(tess, level int) int32 {
	return g.tessellations[tess].Levels[level].Last
}

// TopLevel returns the index of the coarsest (top) level of tessellation
// tess — always 0 by construction, exposed for readability at call sites.
func (g *Grid) TopLevel(tess int) int { return 0 }

// FinestLevel returns the index of the finest (bottom) level of
// tessellation tess.
func (g *Grid) FinestLevel(tess int) int { return g.tessellations[tess].NLevels() - 1 }

// SoftwareVersion returns the software version string recorded in the
// grid file header.
func (g *Grid) SoftwareVersion() string { return g.softwareVersion }

// CreationDate returns the creation date string recorded in the grid file
// header.
func (g *Grid) CreationDate() string { return g.creationDate }

// Description returns the free-text description recorded in the grid
// file header.
func (g *Grid) Description() string { return g.description }

// levelOfTriangle returns the tessellation index and level index that
// triangle t belongs to, via linear scan of the (small) tessellation/level
// table. Most grids have a handful of tessellations and a dozen levels
// total, so this is cheap relative to the adjacency computation it feeds.
func (g *Grid) levelOfTriangle(t int32) (tess, level int, ok bool) {
	for ti, tn := range g.tessellations {
		for li, lv := range tn.Levels {
			if t >= lv.First && t <= lv.Last {
				return ti, li, true
			}
		}
	}
	return 0, 0, false
}
