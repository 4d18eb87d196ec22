package datacell

import (
	"bytes"
	"testing"

	"github.com/geotess/geotess-go/internal/ioformat"
	"github.com/stretchr/testify/require"
)

func TestWriteReadCellRoundTripPerKind(t *testing.T) {
	kinds := []Kind{Byte, Short, Int, Long, Float, Double}
	for _, kind := range kinds {
		var buf bytes.Buffer
		w := ioformat.NewWriter(&buf)
		cell := NewArray([]float64{1, -2, 3})
		WriteCell(w, kind, cell)
		require.NoError(t, w.Err())

		r := ioformat.NewReader(&buf)
		got := ReadCell(r, kind, 3)
		require.NoError(t, r.Err())
		require.InDeltaSlice(t, []float64{1, -2, 3}, got.Values(), 1e-6)
	}
}

func TestWriteReadCustomCell(t *testing.T) {
	var buf bytes.Buffer
	w := ioformat.NewWriter(&buf)
	cell := NewCustom([]byte{1, 2, 3, 4})
	WriteCell(w, Custom, cell)
	require.NoError(t, w.Err())

	r := ioformat.NewReader(&buf)
	got := ReadCell(r, Custom, 0)
	require.NoError(t, r.Err())
	require.True(t, got.IsCustom())
	require.Equal(t, []byte{1, 2, 3, 4}, got.CustomPayload())
}
