package grid

import (
	"bytes"
	"testing"

	"github.com/geotess/geotess-go/internal/geo"
	"github.com/stretchr/testify/require"
)

// buildOctahedronGrid constructs a synthetic multi-level grid by midpoint
// subdivision of a regular octahedron. No fixture file of the sort produced
// by a real grid builder is available in this test environment, so tests
// exercise the package against this hand-verified closed triangulation
// instead (§8 quantified properties apply to any well-formed grid, not only
// to a specific published one).
func buildOctahedronGrid(t *testing.T, levels int) *Grid {
	t.Helper()

	vertices := []geo.Vector3{
		{X: 1, Y: 0, Z: 0},
		{X: -1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: -1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: -1},
	}
	triangles := []Triangle{
		{4, 0, 2},
		{4, 2, 1},
		{4, 1, 3},
		{4, 3, 0},
		{5, 2, 0},
		{5, 1, 2},
		{5, 3, 1},
		{5, 0, 3},
	}

	tessLevels := []Level{{First: 0, Last: int32(len(triangles) - 1)}}

	type edgeKey struct{ a, b int32 }
	normKey := func(a, b int32) edgeKey {
		if a > b {
			a, b = b, a
		}
		return edgeKey{a, b}
	}

	curFirst, curLast := int32(0), int32(len(triangles)-1)

	for lvl := 1; lvl < levels; lvl++ {
		midpoint := make(map[edgeKey]int32)
		getMidpoint := func(a, b int32) int32 {
			k := normKey(a, b)
			if m, ok := midpoint[k]; ok {
				return m
			}
			mv := vertices[a].Add(vertices[b]).Normalized()
			vertices = append(vertices, mv)
			m := int32(len(vertices) - 1)
			midpoint[k] = m
			return m
		}

		newFirst := int32(len(triangles))
		for ti := curFirst; ti <= curLast; ti++ {
			tri := triangles[ti]
			a, b, c := tri[0], tri[1], tri[2]
			ab := getMidpoint(a, b)
			bc := getMidpoint(b, c)
			ca := getMidpoint(c, a)
			triangles = append(triangles,
				Triangle{a, ab, ca},
				Triangle{ab, b, bc},
				Triangle{ca, bc, c},
				Triangle{ab, bc, ca},
			)
		}
		newLast := int32(len(triangles) - 1)
		tessLevels = append(tessLevels, Level{First: newFirst, Last: newLast})
		curFirst, curLast = newFirst, newLast
	}

	tessellations := []Tessellation{{Levels: tessLevels}}
	return New(vertices, triangles, tessellations, "test-1.0", "2026-01-01", "synthetic octahedron test grid")
}

func TestOctahedronGridIsWellFormed(t *testing.T) {
	g := buildOctahedronGrid(t, 3)
	require.NoError(t, g.TestGrid())
}

func TestLocateFindsOwnVertexTriangle(t *testing.T) {
	g := buildOctahedronGrid(t, 3)
	finest := g.FinestLevel(0)

	for v := 0; v < 6; v++ {
		u := g.Vertex(v)
		tri := g.Locate(u, 0, finest)
		require.GreaterOrEqual(t, tri, int32(0))
		corners := g.Triangle(int(tri))
		found := false
		for _, c := range corners {
			if int(c) == v {
				found = true
			}
		}
		require.Truef(t, found, "triangle %d containing vertex %d's own direction should have it as a corner, got %v", tri, v, corners)
	}
}

func TestVertexTrianglesValenceOfOriginalVertices(t *testing.T) {
	g := buildOctahedronGrid(t, 2)
	// Every original octahedron vertex has exactly four incident triangles
	// at every level, since midpoint subdivision never changes a corner
	// vertex's valence.
	for v := 0; v < 6; v++ {
		tris := g.VertexTriangles(int32(v), 0, 0)
		require.Lenf(t, tris, 4, "vertex %d level 0 valence", v)
		tris1 := g.VertexTriangles(int32(v), 0, 1)
		require.Lenf(t, tris1, 4, "vertex %d level 1 valence", v)
	}
}

func TestGridIDStableAndSensitiveToVertices(t *testing.T) {
	g1 := buildOctahedronGrid(t, 2)
	g2 := buildOctahedronGrid(t, 2)
	require.Equal(t, g1.ID(), g2.ID())
	require.Equal(t, g1.ID(), g1.ID()) // idempotent under repeated calls

	g3 := buildOctahedronGrid(t, 3)
	require.NotEqual(t, g1.ID(), g3.ID())
}

func TestCircumcentersMatchAllThreeVertices(t *testing.T) {
	g := buildOctahedronGrid(t, 2)
	require.NoError(t, g.ensureCircumcenters())
	for ti := range g.triangles {
		cc, err := g.Circumcenter(ti)
		require.NoError(t, err)
		cosR, err := g.CircumcenterCosRadius(ti)
		require.NoError(t, err)
		for _, vi := range g.Triangle(ti) {
			require.InDelta(t, cosR, cc.Dot(g.Vertex(int(vi))), 1e-9)
		}
	}
}

func TestBinaryGridRoundTrip(t *testing.T) {
	g := buildOctahedronGrid(t, 2)

	var buf bytes.Buffer
	require.NoError(t, g.WriteBinary(&buf))

	g2, err := ReadBinary(&buf)
	require.NoError(t, err)
	require.Equal(t, g.ID(), g2.ID())
	require.Equal(t, g.NVertices(), g2.NVertices())
	require.Equal(t, g.NTriangles(), g2.NTriangles())
	require.Equal(t, g.SoftwareVersion(), g2.SoftwareVersion())
	require.NoError(t, g2.TestGrid())
}

func TestASCIIGridRoundTrip(t *testing.T) {
	g := buildOctahedronGrid(t, 2)

	var buf bytes.Buffer
	require.NoError(t, g.WriteASCII(&buf))

	g2, err := ReadASCII(&buf)
	require.NoError(t, err)
	require.Equal(t, g.ID(), g2.ID())
	require.Equal(t, g.NVertices(), g2.NVertices())
	require.Equal(t, g.NTriangles(), g2.NTriangles())
	require.NoError(t, g2.TestGrid())
}

func TestReadBinaryRejectsBadMagic(t *testing.T) {
	_, err := ReadBinary(bytes.NewReader([]byte("NOTAGRIDFILE0000")))
	require.Error(t, err)
}
