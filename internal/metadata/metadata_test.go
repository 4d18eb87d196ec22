package metadata

import (
	"testing"

	"github.com/geotess/geotess-go/internal/datacell"
	"github.com/geotess/geotess-go/internal/geo"
	"github.com/stretchr/testify/require"
)

type fakeGrid struct{ nTess int }

func (f fakeGrid) NTessellations() int { return f.nTess }

func TestNewRejectsMismatchedLengths(t *testing.T) {
	_, err := New(nil, nil, nil, nil, datacell.Float, geo.WGS84Geocentric(), "", "", "")
	require.Error(t, err)

	_, err = New([]string{"crust"}, []int{0, 1}, nil, nil, datacell.Float, geo.WGS84Geocentric(), "", "", "")
	require.Error(t, err)

	_, err = New([]string{"crust"}, []int{0}, []string{"Vp"}, nil, datacell.Float, geo.WGS84Geocentric(), "", "", "")
	require.Error(t, err)
}

func TestAttributeIndexLookup(t *testing.T) {
	md, err := New(
		[]string{"crust", "mantle"},
		[]int{0, 0},
		[]string{"Vp", "Vs"},
		[]string{"km/sec", "km/sec"},
		datacell.Float,
		geo.WGS84Geocentric(),
		"test model", "v1", "2026-01-01",
	)
	require.NoError(t, err)
	require.Equal(t, 2, md.NLayers())
	require.Equal(t, 2, md.NAttributes())

	idx, ok := md.AttributeIndex("Vs")
	require.True(t, ok)
	require.Equal(t, 1, idx)

	_, ok = md.AttributeIndex("density")
	require.False(t, ok)
}

func TestValidateAgainstGrid(t *testing.T) {
	md, err := New([]string{"crust"}, []int{1}, nil, nil, datacell.Float, geo.WGS84Geocentric(), "", "", "")
	require.NoError(t, err)

	require.NoError(t, md.ValidateAgainstGrid(fakeGrid{nTess: 2}))
	require.Error(t, md.ValidateAgainstGrid(fakeGrid{nTess: 1}))
}
