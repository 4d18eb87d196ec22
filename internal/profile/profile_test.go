package profile

import (
	"testing"

	"github.com/geotess/geotess-go/internal/datacell"
	"github.com/stretchr/testify/require"
)

func TestNewNPointRejectsNonMonotonic(t *testing.T) {
	_, err := NewNPoint([]float64{0, 100, 50}, []datacell.Cell{
		datacell.NewScalar(1), datacell.NewScalar(2), datacell.NewScalar(3),
	})
	require.Error(t, err)
}

func TestNewNPointRejectsLengthMismatch(t *testing.T) {
	_, err := NewNPoint([]float64{0, 100}, []datacell.Cell{datacell.NewScalar(1)})
	require.Error(t, err)
}

func TestProfileBottomTop(t *testing.T) {
	p := NewConstant(10, 20, datacell.NewScalar(5))
	require.Equal(t, 10.0, p.Bottom())
	require.Equal(t, 20.0, p.Top())

	n, err := NewNPoint([]float64{0, 50, 100}, []datacell.Cell{
		datacell.NewScalar(1), datacell.NewScalar(2), datacell.NewScalar(3),
	})
	require.NoError(t, err)
	require.Equal(t, 0.0, n.Bottom())
	require.Equal(t, 100.0, n.Top())
}

func TestStoreBoundsChecking(t *testing.T) {
	s := NewStore(3, 2)
	require.NoError(t, s.SetProfile(0, 0, NewThin(50, datacell.NewScalar(1))))

	_, err := s.Profile(5, 0)
	require.Error(t, err)

	_, err = s.Profile(0, 5)
	require.Error(t, err)

	p, err := s.Profile(0, 0)
	require.NoError(t, err)
	require.Equal(t, Thin, p.Kind())
}

func TestStoreDefaultsToEmpty(t *testing.T) {
	s := NewStore(2, 2)
	p, err := s.Profile(1, 1)
	require.NoError(t, err)
	require.Equal(t, Empty, p.Kind())
	require.Equal(t, 0, p.NNodes())
}
