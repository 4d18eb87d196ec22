package profile

import (
	"testing"

	"github.com/geotess/geotess-go/internal/datacell"
	"github.com/geotess/geotess-go/internal/geo"
	"github.com/stretchr/testify/require"
)

func octahedronVertices() []geo.Vector3 {
	return []geo.Vector3{
		{X: 1, Y: 0, Z: 0},
		{X: -1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: -1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: -1},
	}
}

func TestBuildEnumeratesAllRealNodesWithoutActiveRegion(t *testing.T) {
	vertices := octahedronVertices()
	store := NewStore(len(vertices), 1)
	for v := range vertices {
		require.NoError(t, store.SetProfile(v, 0, NewThin(float64(v), datacell.NewScalar(float64(v)*10))))
	}

	pm := Build(store, vertices, nil)
	require.Equal(t, len(vertices), pm.NPoints())

	for p := int32(0); p < int32(pm.NPoints()); p++ {
		triple := pm.PointToTriple(p)
		id, ok := pm.TripleToPoint(triple)
		require.True(t, ok)
		require.Equal(t, p, id)
		require.Equal(t, float64(triple.Vertex), pm.PointRadius(p))
		require.Equal(t, float64(triple.Vertex)*10, pm.PointValue(p, 0))
	}
}

func TestBuildSkipsEmptyProfiles(t *testing.T) {
	vertices := octahedronVertices()
	store := NewStore(len(vertices), 1)
	require.NoError(t, store.SetProfile(0, 0, NewThin(10, datacell.NewScalar(1))))
	// Every other vertex keeps the default Empty profile.

	pm := Build(store, vertices, nil)
	require.Equal(t, 1, pm.NPoints())
	require.Equal(t, int32(0), pm.PointToTriple(0).Vertex)
}

func TestBuildWithActiveRegionRestrictsToPolygon(t *testing.T) {
	vertices := octahedronVertices()
	store := NewStore(len(vertices), 1)
	for v := range vertices {
		require.NoError(t, store.SetProfile(v, 0, NewSurface(datacell.NewScalar(float64(v)))))
	}

	// A small polygon tightly surrounding vertex 0 (+X) only.
	poly := NewPolygon([]geo.Vector3{
		{X: 0.9, Y: 0.1, Z: 0.1},
		{X: 0.9, Y: -0.1, Z: 0.1},
		{X: 0.9, Y: -0.1, Z: -0.1},
		{X: 0.9, Y: 0.1, Z: -0.1},
	})

	pm := Build(store, vertices, &poly)
	require.Equal(t, 1, pm.NPoints())
	require.Equal(t, int32(0), pm.PointToTriple(0).Vertex)
}

func TestPolygonContainsOwnCentroidNotAntipode(t *testing.T) {
	poly := NewPolygon([]geo.Vector3{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	})
	inside := geo.Vector3{X: 1, Y: 1, Z: 1}
	inside = inside.Normalized()
	require.True(t, poly.Contains(inside))

	outside := geo.Vector3{X: -1, Y: -1, Z: -1}
	outside = outside.Normalized()
	require.False(t, poly.Contains(outside))
}
