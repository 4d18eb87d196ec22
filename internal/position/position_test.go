package position

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

// buildOctahedron builds a single-level, single-tessellation octahedron
// grid, the smallest closed triangulation with well-defined neighbors on
// every edge (no boundary, as required of a closed sphere).
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
		{4, 0, 2},
		{4, 2, 1},
		{4, 1, 3},
		{4, 3, 0},
		{5, 2, 0},
		{5, 1, 2},
		{5, 3, 1},
		{5, 0, 3},
	}
	tess := []grid.Tessellation{{Levels: []grid.Level{{First: 0, Last: int32(len(triangles) - 1)}}}}
	return grid.New(vertices, triangles, tess, "test", "2026-01-01", "octahedron fixture")
}

// buildModel attaches an NPoint profile with radii [0,3000,6371] and
// values [0, v/2, v] (v = vertex index * 10) at every vertex, under a
// single layer on tessellation 0.
func buildModel(t *testing.T, g *grid.Grid) *model.Model {
	t.Helper()
	meta, err := metadata.New(
		[]string{"core-to-surface"},
		[]int{0},
		[]string{"TEMPERATURE"},
		[]string{"K"},
		datacell.Double,
		geo.WGS84Geocentric(),
		"fixture", "test", "2026-01-01",
	)
	require.NoError(t, err)

	store := profile.NewStore(g.NVertices(), 1)
	for v := 0; v < g.NVertices(); v++ {
		val := float64(v) * 10
		p, err := profile.NewNPoint(
			[]float64{0, 3000, 6371},
			[]datacell.Cell{datacell.NewScalar(0), datacell.NewScalar(val / 2), datacell.NewScalar(val)},
		)
		require.NoError(t, err)
		require.NoError(t, store.SetProfile(v, 0, p))
	}

	m, err := model.New(g, meta, store)
	require.NoError(t, err)
	return m
}

func TestSetAtVertexGivesUnitCoefficient(t *testing.T) {
	g := buildOctahedron(t)
	m := buildModel(t, g)
	pos := New(m, DefaultQueryOptions())

	u := g.Vertex(2)
	require.NoError(t, pos.Set(0, u, 6371))

	hc := pos.GetHorizontalCoefficients()
	verts := pos.GetVertices()
	found := false
	for i, v := range verts {
		if v == 2 {
			require.InDelta(t, 1.0, hc[i], 1e-9)
			found = true
		} else {
			require.InDelta(t, 0.0, hc[i], 1e-9)
		}
	}
	require.True(t, found)

	val, err := pos.GetValue(0)
	require.NoError(t, err)
	require.InDelta(t, 20.0, val, 1e-9) // vertex 2 * 10, at full radius
}

func TestHorizontalCoefficientsSumToOne(t *testing.T) {
	g := buildOctahedron(t)
	m := buildModel(t, g)
	pos := New(m, DefaultQueryOptions())

	u := geo.Vector3{X: 1, Y: 1, Z: 1}.Normalized()
	require.NoError(t, pos.Set(0, u, 4000))

	sum := 0.0
	for _, w := range pos.GetHorizontalCoefficients() {
		sum += w
	}
	require.InDelta(t, 1.0, sum, 1e-9)
}

func TestRadialCoefficientsSumToOne(t *testing.T) {
	g := buildOctahedron(t)
	m := buildModel(t, g)
	pos := New(m, DefaultQueryOptions())

	u := geo.Vector3{X: 1, Y: 1, Z: 1}.Normalized()
	require.NoError(t, pos.Set(0, u, 1500))

	for i := range pos.GetVertices() {
		_, weights := pos.GetRadialCoefficients(i)
		sum := 0.0
		for _, w := range weights {
			sum += w
		}
		require.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestRadiusAboveTopPins(t *testing.T) {
	g := buildOctahedron(t)
	m := buildModel(t, g)
	pos := New(m, DefaultQueryOptions())

	u := g.Vertex(0)
	require.NoError(t, pos.Set(0, u, 10000)) // above the 6371 top

	require.True(t, pos.RadiusOutOfRange())
	val, err := pos.GetValue(0)
	require.NoError(t, err)
	require.InDelta(t, 0.0, val, 1e-9) // vertex 0's value at the top node
}

func TestCubicSplineAgreesWithLinearAtKnots(t *testing.T) {
	g := buildOctahedron(t)
	m := buildModel(t, g)

	linear := New(m, QueryOptions{Horizontal: Linear, Radial: RadialLinear})
	spline := New(m, QueryOptions{Horizontal: Linear, Radial: CubicSpline})

	u := g.Vertex(1)
	for _, r := range []float64{0, 3000, 6371} {
		require.NoError(t, linear.Set(0, u, r))
		require.NoError(t, spline.Set(0, u, r))
		lv, err := linear.GetValue(0)
		require.NoError(t, err)
		sv, err := spline.GetValue(0)
		require.NoError(t, err)
		require.InDelta(t, lv, sv, 1e-9)
	}
}

func TestSetModelRetargetingMatchesFreshPosition(t *testing.T) {
	g := buildOctahedron(t)
	m1 := buildModel(t, g)
	m2 := buildModel(t, g) // sibling model, same grid by reference

	u := geo.Vector3{X: 0.5, Y: 0.5, Z: math.Sqrt(0.5)}.Normalized()

	p1 := New(m1, DefaultQueryOptions())
	require.NoError(t, p1.Set(0, u, 2000))
	require.NoError(t, p1.SetModel(m2))

	fresh := New(m2, DefaultQueryOptions())
	require.NoError(t, fresh.Set(0, u, 2000))

	require.Equal(t, fresh.GetVertices(), p1.GetVertices())
	hc1, hc2 := p1.GetHorizontalCoefficients(), fresh.GetHorizontalCoefficients()
	require.Len(t, hc1, len(hc2))
	for i := range hc1 {
		require.InDelta(t, hc2[i], hc1[i], 1e-12)
	}
}

func TestNaNPropagatesFromEmptyProfile(t *testing.T) {
	g := buildOctahedron(t)
	meta, err := metadata.New([]string{"layer"}, []int{0}, []string{"X"}, []string{"m"}, datacell.Double, geo.WGS84Geocentric(), "", "", "")
	require.NoError(t, err)
	store := profile.NewStore(g.NVertices(), 1) // every vertex defaults to Empty
	m, err := model.New(g, meta, store)
	require.NoError(t, err)

	pos := New(m, DefaultQueryOptions())
	require.NoError(t, pos.Set(0, g.Vertex(0), 1000))
	val, err := pos.GetValue(0)
	require.NoError(t, err)
	require.True(t, math.IsNaN(val))
}
