// Package model ties a Grid, its MetaData, and a profile Store together
// into the unit a Position queries (§3 "Model"). A Model owns its metadata
// and profile table exclusively but shares its Grid by reference, so
// sibling models at the same resolution don't duplicate the triangulation.
package model

import (
	"github.com/geotess/geotess-go/internal/errs"
	"github.com/geotess/geotess-go/internal/geo"
	"github.com/geotess/geotess-go/internal/grid"
	"github.com/geotess/geotess-go/internal/ioformat"
	"github.com/geotess/geotess-go/internal/metadata"
	"github.com/geotess/geotess-go/internal/profile"
)

// Model is a Grid plus the MetaData and profile Store bound to it.
type Model struct {
	grid  *grid.Grid
	meta  *metadata.MetaData
	store *profile.Store

	activeRegion *profile.Polygon
	pointMap     *profile.PointMap

	extension ioformat.Extension
}

// New builds a Model, validating that meta's layer tessellation references
// exist in g and that store is sized for g's vertex count and meta's layer
// count (§4.5, §3 Lifecycle).
func New(g *grid.Grid, meta *metadata.MetaData, store *profile.Store) (*Model, error) {
	if err := meta.ValidateAgainstGrid(g); err != nil {
		return nil, err
	}
	if store.NVertices() != g.NVertices() {
		return nil, &errs.Inconsistent{Reason: "profile store vertex count does not match grid"}
	}
	if store.NLayers() != meta.NLayers() {
		return nil, &errs.Inconsistent{Reason: "profile store layer count does not match metadata"}
	}
	return &Model{grid: g, meta: meta, store: store}, nil
}

// Grid returns the model's grid.
func (m *Model) Grid() *grid.Grid { return m.grid }

// MetaData returns the model's metadata.
func (m *Model) MetaData() *metadata.MetaData { return m.meta }

// Store returns the model's profile store.
func (m *Model) Store() *profile.Store { return m.store }

// SetActiveRegion restricts the model's PointMap to the given polygon (§4.2
// "Policy flag active_region restricts enumeration to a polygonal
// region"), invalidating any previously built PointMap. Passing nil clears
// the restriction.
func (m *Model) SetActiveRegion(polygon *profile.Polygon) {
	m.activeRegion = polygon
	m.pointMap = nil
}

// PointMap returns the model's flat point enumeration, building and caching
// it on first use under the current active-region setting.
func (m *Model) PointMap() *profile.PointMap {
	if m.pointMap == nil {
		m.pointMap = profile.Build(m.store, m.vertexVectors(), m.activeRegion)
	}
	return m.pointMap
}

func (m *Model) vertexVectors() []geo.Vector3 {
	n := m.grid.NVertices()
	out := make([]geo.Vector3, n)
	for i := 0; i < n; i++ {
		out[i] = m.grid.Vertex(i)
	}
	return out
}

// Extension returns the model's derived-class payload, if any (§4.6).
func (m *Model) Extension() (ioformat.Extension, bool) {
	return m.extension, m.extension != nil
}

// SetExtension attaches a derived-class payload to the model.
func (m *Model) SetExtension(ext ioformat.Extension) {
	m.extension = ext
}
