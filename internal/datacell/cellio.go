package datacell

import "github.com/geotess/geotess-go/internal/ioformat"

// WriteCell writes one data cell's payload in kind's native width (§6:
// "for scalar element kind, one value of the element kind; for array
// shape, nAttributes values of the element kind, in attribute order").
// Custom cells bypass the numeric codec and write their opaque payload as
// a length-prefixed byte blob instead — the derived-class extension hook
// supplies the actual interpretation.
func WriteCell(w *ioformat.Writer, kind Kind, cell Cell) {
	if kind == Custom {
		payload := cell.CustomPayload()
		w.WriteU32(uint32(len(payload)))
		for _, b := range payload {
			w.WriteU8(b)
		}
		return
	}
	cast := cell.Cast(kind)
	for i := 0; i < cast.Len(); i++ {
		writeElement(w, kind, cast.Value(i))
	}
}

func writeElement(w *ioformat.Writer, kind Kind, v float64) {
	switch kind {
	case Byte:
		w.WriteU8(uint8(int8(v)))
	case Short:
		w.WriteU16(uint16(int16(v)))
	case Int:
		w.WriteU32(uint32(int32(v)))
	case Long:
		w.WriteI64(int64(v))
	case Float:
		w.WriteF32(float32(v))
	default: // Double
		w.WriteF64(v)
	}
}

// ReadCell reads one data cell with n elements (1 for scalar shape,
// nAttributes for array shape) of the given kind. For Custom cells, n is
// ignored and the length-prefixed payload written by WriteCell is read
// back verbatim.
func ReadCell(r *ioformat.Reader, kind Kind, n int) Cell {
	if kind == Custom {
		length := r.ReadU32()
		payload := make([]byte, length)
		for i := range payload {
			payload[i] = r.ReadU8()
		}
		return NewCustom(payload)
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = readElement(r, kind)
	}
	return NewArray(values)
}

func readElement(r *ioformat.Reader, kind Kind) float64 {
	switch kind {
	case Byte:
		return float64(int8(r.ReadU8()))
	case Short:
		return float64(int16(r.ReadU16()))
	case Int:
		return float64(int32(r.ReadU32()))
	case Long:
		return float64(r.ReadI64())
	case Float:
		return float64(r.ReadF32())
	default: // Double
		return r.ReadF64()
	}
}
