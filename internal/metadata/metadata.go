// Package metadata holds the descriptive information bound to a Model: layer
// names, the tessellation each layer is defined on, attribute names/units,
// the model's single element kind, its EarthShape, and provenance strings
// (§4.5). A MetaData is built once and frozen when bound to a Model (§3
// Lifecycle: "MetaData is constructed then frozen when bound to a Model").
package metadata

import (
	"fmt"

	"github.com/geotess/geotess-go/internal/datacell"
	"github.com/geotess/geotess-go/internal/errs"
	"github.com/geotess/geotess-go/internal/geo"
)

// MetaData is immutable after construction.
type MetaData struct {
	layerNames     []string
	tessellationID []int

	attrNames []string
	attrUnits []string
	kind      datacell.Kind

	shape       geo.EarthShape
	description string

	softwareVersion string
	generationDate  string
}

// New builds a MetaData, validating the structural rules of §4.5:
// at least one layer, a tessellation id per layer, and attribute names/units
// of equal length.
func New(layerNames []string, tessellationID []int, attrNames, attrUnits []string, kind datacell.Kind, shape geo.EarthShape, description, softwareVersion, generationDate string) (*MetaData, error) {
	if len(layerNames) == 0 {
		return nil, &errs.InvalidInput{Field: "layerNames", Reason: "a model must have at least one layer"}
	}
	if len(tessellationID) != len(layerNames) {
		return nil, &errs.InvalidInput{Field: "tessellationID", Reason: fmt.Sprintf("length %d does not match layerNames length %d", len(tessellationID), len(layerNames))}
	}
	if len(attrNames) != len(attrUnits) {
		return nil, &errs.InvalidInput{Field: "attrUnits", Reason: fmt.Sprintf("length %d does not match attrNames length %d", len(attrUnits), len(attrNames))}
	}
	return &MetaData{
		layerNames:      append([]string(nil), layerNames...),
		tessellationID:  append([]int(nil), tessellationID...),
		attrNames:       append([]string(nil), attrNames...),
		attrUnits:       append([]string(nil), attrUnits...),
		kind:            kind,
		shape:           shape,
		description:     description,
		softwareVersion: softwareVersion,
		generationDate:  generationDate,
	}, nil
}

// NLayers returns the number of layers.
func (m *MetaData) NLayers() int { return len(m.layerNames) }

// LayerName returns the name of layer i.
func (m *MetaData) LayerName(i int) string { return m.layerNames[i] }

// TessellationID returns the tessellation index that layer i is defined on.
func (m *MetaData) TessellationID(i int) int { return m.tessellationID[i] }

// NAttributes returns the number of attributes.
func (m *MetaData) NAttributes() int { return len(m.attrNames) }

// AttributeName returns the name of attribute i.
func (m *MetaData) AttributeName(i int) string { return m.attrNames[i] }

// AttributeUnit returns the unit string of attribute i.
func (m *MetaData) AttributeUnit(i int) string { return m.attrUnits[i] }

// AttributeIndex returns the index of the named attribute, or false if it
// doesn't exist (§7 InvalidInput: "unknown attribute name").
func (m *MetaData) AttributeIndex(name string) (int, bool) {
	for i, n := range m.attrNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// ElementKind returns the model-wide element kind.
func (m *MetaData) ElementKind() datacell.Kind { return m.kind }

// EarthShape returns the model's EarthShape.
func (m *MetaData) EarthShape() geo.EarthShape { return m.shape }

// Description returns the free-text model description.
func (m *MetaData) Description() string { return m.description }

// SoftwareVersion returns the software version string recorded at
// generation time.
func (m *MetaData) SoftwareVersion() string { return m.softwareVersion }

// GenerationDate returns the model generation date string.
func (m *MetaData) GenerationDate() string { return m.generationDate }

// GridSizer is the minimal grid surface MetaData needs to validate layer
// tessellation references, satisfied by *grid.Grid without importing it
// directly (keeps metadata a leaf package, per §2's dependency order).
type GridSizer interface {
	NTessellations() int
}

// ValidateAgainstGrid checks that every layer's tessellation id references a
// tessellation that actually exists in g (§4.5 "each layer's tessellation-id
// references a defined tessellation in the grid").
func (m *MetaData) ValidateAgainstGrid(g GridSizer) error {
	n := g.NTessellations()
	for i, tid := range m.tessellationID {
		if tid < 0 || tid >= n {
			return &errs.Inconsistent{Reason: fmt.Sprintf("layer %q references tessellation %d, grid has %d", m.layerNames[i], tid, n)}
		}
	}
	return nil
}
