package weights

import (
	"math"
	"testing"

	"github.com/geotess/geotess-go/internal/datacell"
	"github.com/geotess/geotess-go/internal/geo"
	"github.com/geotess/geotess-go/internal/grid"
	"github.com/geotess/geotess-go/internal/metadata"
	"github.com/geotess/geotess-go/internal/model"
	"github.com/geotess/geotess-go/internal/profile"
	"github.com/stretchr/testify/require"
)

func buildOctahedron(t *testing.T) *grid.Grid {
	t.Helper()
	vertices := []geo.Vector3{
		{X: 1, Y: 0, Z: 0},
		{X: -1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: -1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: -1},
	}
	triangles := []grid.Triangle{
		{4, 0, 2}, {4, 2, 1}, {4, 1, 3}, {4, 3, 0},
		{5, 2, 0}, {5, 1, 2}, {5, 3, 1}, {5, 0, 3},
	}
	tess := []grid.Tessellation{{Levels: []grid.Level{{First: 0, Last: int32(len(triangles) - 1)}}}}
	return grid.New(vertices, triangles, tess, "test", "2026-01-01", "octahedron fixture")
}

// buildConstantModel gives every vertex a Constant profile across
// [0, 6371] with the same value, so the path integral of that attribute
// reduces to value * path length regardless of which points the path
// crosses.
func buildConstantModel(t *testing.T, g *grid.Grid, value float64) *model.Model {
	t.Helper()
	meta, err := metadata.New([]string{"whole-earth"}, []int{0}, []string{"X"}, []string{"m"}, datacell.Double, geo.WGS84Geocentric(), "", "", "")
	require.NoError(t, err)
	store := profile.NewStore(g.NVertices(), 1)
	for v := 0; v < g.NVertices(); v++ {
		require.NoError(t, store.SetProfile(v, 0, profile.NewConstant(0, 6371, datacell.NewScalar(value))))
	}
	m, err := model.New(g, meta, store)
	require.NoError(t, err)
	return m
}

func TestAccumulateWeightsSumToPathLength(t *testing.T) {
	g := buildOctahedron(t)
	m := buildConstantModel(t, g, 1.0)

	points := []geo.Vector3{g.Vertex(0), g.Vertex(2), g.Vertex(1)}
	radii := []float64{6371, 6371, 6371}

	w, err := Accumulate(m, points, radii, DefaultPathOptions())
	require.NoError(t, err)

	sum := 0.0
	for _, v := range w {
		sum += v
	}
	require.InDelta(t, TotalLengthKm(points, radii), sum, 1e-6)
}

func TestAccumulateIntegratesConstantField(t *testing.T) {
	g := buildOctahedron(t)
	const value = 7.5
	m := buildConstantModel(t, g, value)

	points := []geo.Vector3{g.Vertex(3), g.Vertex(0)}
	radii := []float64{6371, 6371}

	w, err := Accumulate(m, points, radii, DefaultPathOptions())
	require.NoError(t, err)

	integral := 0.0
	for _, c := range w {
		integral += c * value
	}
	require.InDelta(t, value*TotalLengthKm(points, radii), integral, 1e-6)
}

func TestAccumulateRejectsMismatchedLengths(t *testing.T) {
	g := buildOctahedron(t)
	m := buildConstantModel(t, g, 1.0)

	_, err := Accumulate(m, []geo.Vector3{g.Vertex(0), g.Vertex(1)}, []float64{6371}, DefaultPathOptions())
	require.Error(t, err)
}

func TestAccumulateRejectsSinglePoint(t *testing.T) {
	g := buildOctahedron(t)
	m := buildConstantModel(t, g, 1.0)

	_, err := Accumulate(m, []geo.Vector3{g.Vertex(0)}, []float64{6371}, DefaultPathOptions())
	require.Error(t, err)
}

func TestTotalLengthKmMatchesKnownQuarterCircumference(t *testing.T) {
	g := buildOctahedron(t)
	// Adjacent octahedron vertices are pi/2 radians apart on the unit
	// sphere, so at radius 6371 the arc length is 6371 * pi/2.
	points := []geo.Vector3{g.Vertex(0), g.Vertex(2)}
	radii := []float64{6371, 6371}
	want := 6371 * math.Pi / 2
	require.InDelta(t, want, TotalLengthKm(points, radii), 1e-6)
}
