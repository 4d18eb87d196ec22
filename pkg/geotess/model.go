package geotess

import (
	"github.com/geotess/geotess-go/internal/datacell"
	"github.com/geotess/geotess-go/internal/geo"
	"github.com/geotess/geotess-go/internal/metadata"
	"github.com/geotess/geotess-go/internal/model"
	"github.com/geotess/geotess-go/internal/profile"
)

// Model is a Grid plus the MetaData and profile Store bound to it (§3
// "Model"). A Model owns its metadata and profile table exclusively but
// shares its Grid by reference with any sibling model built on the same
// triangulation.
type Model struct {
	internal *model.Model
}

// NewModel builds a Model from a Grid, layer/attribute metadata, and a
// freshly-sized profile Store (populate it via SetProfile before querying).
func NewModel(g *Grid, layerNames []string, tessellationID []int, attrNames, attrUnits []string, kind datacell.Kind, shape geo.EarthShape, description, softwareVersion, generationDate string) (*Model, error) {
	meta, err := metadata.New(layerNames, tessellationID, attrNames, attrUnits, kind, shape, description, softwareVersion, generationDate)
	if err != nil {
		return nil, err
	}
	store := profile.NewStore(g.internal.NVertices(), len(layerNames))
	m, err := model.New(g.internal, meta, store)
	if err != nil {
		return nil, err
	}
	return &Model{internal: m}, nil
}

// LoadModel reads a model file from path, resolving an external grid
// reference relative to the model file's own directory. ASCII files are
// recognized by a ".ascii" or ".txt" suffix.
func LoadModel(path string) (*Model, error) {
	m, err := model.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &Model{internal: m}, nil
}

// Save writes the model to path, embedding its grid unless gridPath is
// non-empty, in which case the grid is written as an external reference.
func (m *Model) Save(path, gridPath string) error {
	return m.internal.SaveFile(path, gridPath)
}

// Grid returns the model's grid.
func (m *Model) Grid() *Grid { return &Grid{internal: m.internal.Grid()} }

// NLayers returns the number of layers in the model.
func (m *Model) NLayers() int { return m.internal.MetaData().NLayers() }

// LayerName returns the name of layer i.
func (m *Model) LayerName(i int) string { return m.internal.MetaData().LayerName(i) }

// AttributeIndex returns the index of the named attribute, or false if it
// doesn't exist.
func (m *Model) AttributeIndex(name string) (int, bool) {
	return m.internal.MetaData().AttributeIndex(name)
}

// SetProfile sets the profile at (vertex, layer). See profile.Profile
// constructors (NewEmpty, NewThin, NewConstant, NewSurface, NewNPoint) in
// the internal/profile package for building profile values; re-exported
// here as the five Profile constructors below for public ingest code.
func (m *Model) SetProfile(vertex, layer int, p Profile) error {
	return m.internal.Store().SetProfile(vertex, layer, p.internal)
}

// SetActiveRegion restricts the model's point enumeration to the given
// polygon (§4.2 "active_region"). Passing nil clears the restriction.
func (m *Model) SetActiveRegion(polygonVertices []Vector3) {
	if polygonVertices == nil {
		m.internal.SetActiveRegion(nil)
		return
	}
	poly := profile.NewPolygon(polygonVertices)
	m.internal.SetActiveRegion(&poly)
}

// NPoints returns the number of points currently enumerated by the
// model's point map.
func (m *Model) NPoints() int { return m.internal.PointMap().NPoints() }

// Extension returns the model's derived-class payload, if any (§4.6).
func (m *Model) Extension() (Extension, bool) { return m.internal.Extension() }

// SetExtension attaches a derived-class payload to the model.
func (m *Model) SetExtension(ext Extension) { m.internal.SetExtension(ext) }

// Profile is a radial slice at one (vertex, layer): one of the five
// variants of §3 (Empty, Thin, Constant, Surface, NPoint).
type Profile struct {
	internal profile.Profile
}

// NewEmptyProfile builds an Empty profile: the layer's boundary radii
// with no data.
func NewEmptyProfile(rBottom, rTop float64) Profile {
	return Profile{internal: profile.NewEmpty(rBottom, rTop)}
}

// NewThinProfile builds a Thin profile: a single radius and value, for a
// zero-thickness layer. For a model with more than one attribute, use
// NewThinProfileArray instead — this scalar form only populates attribute 0.
func NewThinProfile(r, value float64) Profile {
	return Profile{internal: profile.NewThin(r, datacell.NewScalar(value))}
}

// NewThinProfileArray builds a Thin profile whose node carries one value per
// model attribute, in attribute order (§3 "fixed-length array"; §6 "for
// array shape, nAttributes values of the element kind, in attribute order").
func NewThinProfileArray(r float64, values []float64) Profile {
	return Profile{internal: profile.NewThin(r, datacell.NewArray(values))}
}

// NewConstantProfile builds a Constant profile: one value applying
// uniformly across [rBottom, rTop]. For a model with more than one
// attribute, use NewConstantProfileArray instead.
func NewConstantProfile(rBottom, rTop, value float64) Profile {
	return Profile{internal: profile.NewConstant(rBottom, rTop, datacell.NewScalar(value))}
}

// NewConstantProfileArray builds a Constant profile whose node carries one
// value per model attribute, in attribute order.
func NewConstantProfileArray(rBottom, rTop float64, values []float64) Profile {
	return Profile{internal: profile.NewConstant(rBottom, rTop, datacell.NewArray(values))}
}

// NewSurfaceProfile builds a Surface profile: a single value with no
// associated radius, legal only when the grid is used as a 2D surface. For
// a model with more than one attribute, use NewSurfaceProfileArray instead.
func NewSurfaceProfile(value float64) Profile {
	return Profile{internal: profile.NewSurface(datacell.NewScalar(value))}
}

// NewSurfaceProfileArray builds a Surface profile whose node carries one
// value per model attribute, in attribute order.
func NewSurfaceProfileArray(values []float64) Profile {
	return Profile{internal: profile.NewSurface(datacell.NewArray(values))}
}

// NewNPointProfile builds an N-point profile: N>=2 monotonically
// non-decreasing radii, each paired with a value. For a model with more
// than one attribute, use NewNPointProfileArray instead.
func NewNPointProfile(radii, values []float64) (Profile, error) {
	cells := make([]datacell.Cell, len(values))
	for i, v := range values {
		cells[i] = datacell.NewScalar(v)
	}
	p, err := profile.NewNPoint(radii, cells)
	if err != nil {
		return Profile{}, err
	}
	return Profile{internal: p}, nil
}

// NewNPointProfileArray builds an N-point profile: N>=2 monotonically
// non-decreasing radii, each paired with a node carrying one value per
// model attribute (values[i] holds the attribute vector for radii[i]).
func NewNPointProfileArray(radii []float64, values [][]float64) (Profile, error) {
	cells := make([]datacell.Cell, len(values))
	for i, v := range values {
		cells[i] = datacell.NewArray(v)
	}
	p, err := profile.NewNPoint(radii, cells)
	if err != nil {
		return Profile{}, err
	}
	return Profile{internal: p}, nil
}
