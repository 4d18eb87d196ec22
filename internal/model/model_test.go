package model

import (
	"bytes"
	"testing"

	"github.com/geotess/geotess-go/internal/datacell"
	"github.com/geotess/geotess-go/internal/geo"
	"github.com/geotess/geotess-go/internal/grid"
	"github.com/geotess/geotess-go/internal/metadata"
	"github.com/geotess/geotess-go/internal/profile"
	"github.com/stretchr/testify/require"
)

// buildOctahedronGrid mirrors internal/grid's own test helper at the base
// (unsubdivided) octahedron: six vertices, eight triangles, one
// tessellation, one level. Small enough to keep model fixtures compact
// while still exercising every profile variant over real grid vertices.
func buildOctahedronGrid() *grid.Grid {
	vertices := []geo.Vector3{
		{X: 1, Y: 0, Z: 0},
		{X: -1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: -1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: -1},
	}
	triangles := []grid.Triangle{
		{4, 0, 2},
		{4, 2, 1},
		{4, 1, 3},
		{4, 3, 0},
		{5, 2, 0},
		{5, 1, 2},
		{5, 3, 1},
		{5, 0, 3},
	}
	tessellations := []grid.Tessellation{{Levels: []grid.Level{{First: 0, Last: int32(len(triangles) - 1)}}}}
	return grid.New(vertices, triangles, tessellations, "test-1.0", "2026-01-01", "octahedron test grid")
}

func buildTestModel(t *testing.T) *Model {
	t.Helper()
	g := buildOctahedronGrid()

	meta, err := metadata.New(
		[]string{"surface", "upper_mantle"},
		[]int{0, 0},
		[]string{"VP", "VS"},
		[]string{"km/sec", "km/sec"},
		datacell.Double,
		geo.WGS84Geocentric(),
		"test model", "test-1.0", "2026-01-01",
	)
	require.NoError(t, err)

	store := profile.NewStore(g.NVertices(), meta.NLayers())
	for v := 0; v < g.NVertices(); v++ {
		require.NoError(t, store.SetProfile(v, 0, profile.NewSurface(datacell.NewArray([]float64{5.0, 3.0}))))
		np, err := profile.NewNPoint(
			[]float64{3480, 5701},
			[]datacell.Cell{
				datacell.NewArray([]float64{8.0, 4.4}),
				datacell.NewArray([]float64{13.7, 7.2}),
			},
		)
		require.NoError(t, err)
		require.NoError(t, store.SetProfile(v, 1, np))
	}

	m, err := New(g, meta, store)
	require.NoError(t, err)
	return m
}

func TestNewRejectsVertexCountMismatch(t *testing.T) {
	g := buildOctahedronGrid()
	meta, err := metadata.New([]string{"layer"}, []int{0}, []string{"VP"}, []string{"km/sec"}, datacell.Double, geo.WGS84Geocentric(), "", "", "")
	require.NoError(t, err)

	store := profile.NewStore(g.NVertices()-1, meta.NLayers())
	_, err = New(g, meta, store)
	require.Error(t, err)
}

func TestNewRejectsLayerCountMismatch(t *testing.T) {
	g := buildOctahedronGrid()
	meta, err := metadata.New([]string{"a", "b"}, []int{0, 0}, []string{"VP"}, []string{"km/sec"}, datacell.Double, geo.WGS84Geocentric(), "", "", "")
	require.NoError(t, err)

	store := profile.NewStore(g.NVertices(), 1)
	_, err = New(g, meta, store)
	require.Error(t, err)
}

func TestPointMapCachingAndActiveRegionInvalidation(t *testing.T) {
	m := buildTestModel(t)

	pm1 := m.PointMap()
	pm2 := m.PointMap()
	require.Same(t, pm1, pm2, "PointMap should be cached across calls")
	require.Equal(t, 6*3, pm1.NPoints()) // 6 vertices * (1 surface node + 2 npoint nodes)

	polygon := profile.NewPolygon([]geo.Vector3{
		{X: 0.9, Y: 0.1, Z: 0.1},
		{X: 0.9, Y: -0.1, Z: 0.1},
		{X: 0.9, Y: -0.1, Z: -0.1},
		{X: 0.9, Y: 0.1, Z: -0.1},
	})
	m.SetActiveRegion(&polygon)

	pm3 := m.PointMap()
	require.NotSame(t, pm1, pm3, "SetActiveRegion should invalidate the cached PointMap")
	require.Less(t, pm3.NPoints(), pm1.NPoints())
}

func TestBinaryModelRoundTripEmbeddedGrid(t *testing.T) {
	m := buildTestModel(t)

	var buf bytes.Buffer
	require.NoError(t, m.WriteBinary(&buf, ""))

	m2, err := ReadBinary(&buf, nil)
	require.NoError(t, err)

	require.Equal(t, m.Grid().ID(), m2.Grid().ID())
	require.Equal(t, m.MetaData().NLayers(), m2.MetaData().NLayers())
	require.Equal(t, m.MetaData().NAttributes(), m2.MetaData().NAttributes())

	for v := 0; v < m.Grid().NVertices(); v++ {
		p1, err := m.Store().Profile(v, 1)
		require.NoError(t, err)
		p2, err := m2.Store().Profile(v, 1)
		require.NoError(t, err)
		require.Equal(t, p1.Kind(), p2.Kind())
		require.Equal(t, p1.Radius(0), p2.Radius(0))
		require.Equal(t, p1.Cell(0).Values(), p2.Cell(0).Values())
	}
}

func TestASCIIModelRoundTripEmbeddedGrid(t *testing.T) {
	m := buildTestModel(t)

	var buf bytes.Buffer
	require.NoError(t, m.WriteASCII(&buf, ""))

	m2, err := ReadASCII(&buf, nil)
	require.NoError(t, err)

	require.Equal(t, m.Grid().ID(), m2.Grid().ID())
	require.Equal(t, m.MetaData().NLayers(), m2.MetaData().NLayers())

	for v := 0; v < m.Grid().NVertices(); v++ {
		p1, err := m.Store().Profile(v, 0)
		require.NoError(t, err)
		p2, err := m2.Store().Profile(v, 0)
		require.NoError(t, err)
		require.Equal(t, p1.Kind(), p2.Kind())
		require.InDeltaSlice(t, p1.Cell(0).Values(), p2.Cell(0).Values(), 1e-9)
	}
}
