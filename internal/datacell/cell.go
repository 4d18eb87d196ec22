// Package datacell implements the typed attribute storage used at every
// profile node: six numeric element kinds, each either a scalar or a
// fixed-length array, plus a custom variant for derived-class payloads.
//
// The source this is ported from used an abstract base class with one
// concrete subclass per (element kind x shape) pair. That hierarchy is
// replaced here with a single closed enum (Kind) dispatched through a
// type switch, with one Cell value per profile node holding its values as
// float64 (Design Notes §9: "Abstract base class with many concrete subclasses").
package datacell

import "math"

// Kind identifies the element kind of a data cell. It is a model-global
// tag (§5 Memory: "the element-kind tag is global to the model to avoid
// per-cell dispatch"), not stored per cell.
type Kind uint8

const (
	Byte Kind = iota
	Short
	Int
	Long
	Float
	Double
	Custom
)

// String returns the file-format tag used by the binary/ASCII codecs
// (§6 "dataType (string in {BYTE,SHORT,INT,LONG,FLOAT,DOUBLE,CUSTOM})").
func (k Kind) String() string {
	switch k {
	case Byte:
		return "BYTE"
	case Short:
		return "SHORT"
	case Int:
		return "INT"
	case Long:
		return "LONG"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case Custom:
		return "CUSTOM"
	default:
		return "UNKNOWN"
	}
}

// KindFromString parses a file-format data type tag.
func KindFromString(s string) (Kind, bool) {
	switch s {
	case "BYTE":
		return Byte, true
	case "SHORT":
		return Short, true
	case "INT":
		return Int, true
	case "LONG":
		return Long, true
	case "FLOAT":
		return Float, true
	case "DOUBLE":
		return Double, true
	case "CUSTOM":
		return Custom, true
	default:
		return 0, false
	}
}

// ByteWidth returns the on-disk width in bytes of a single element of this
// kind. Custom has no fixed width; callers must not call ByteWidth on it.
func (k Kind) ByteWidth() int {
	switch k {
	case Byte:
		return 1
	case Short:
		return 2
	case Int, Float:
		return 4
	case Long, Double:
		return 8
	default:
		return 0
	}
}

// NaN is the sentinel used for missing floating-point values, matching the
// single global math.NaN() bit pattern so NaN-propagation in interpolation
// (Position.GetValue) is a plain float64 NaN check.
var NaN = math.NaN()

// Cell holds one node's attribute tuple: a slice of float64 regardless of
// the model's element Kind. Integral kinds are stored as their exact
// float64 representation (lossless for Byte/Short/Int, and for Long values
// up to 2^53 in magnitude; larger Long values are rounded) and cast back
// to the narrower kind only at encode time.
// Custom cells carry their own opaque payload instead (see CustomPayload).
type Cell struct {
	values []float64 // len == 1 for scalar shape, len == nAttributes for array shape
	custom []byte     // non-nil only for Custom kind
}

// NewScalar builds a single-value cell.
func NewScalar(v float64) Cell {
	return Cell{values: []float64{v}}
}

// NewArray builds a fixed-length array cell.
func NewArray(values []float64) Cell {
	cp := make([]float64, len(values))
	copy(cp, values)
	return Cell{values: cp}
}

// NewCustom builds a cell carrying an opaque byte payload, written and read
// through the derived-class extension hook's serialization rather than the
// base numeric codec (§3 "A custom variant permits user-defined byte
// payloads with externally supplied serialization").
func NewCustom(payload []byte) Cell {
	cp := make([]byte, len(payload))
	copy(cp, payload)
	return Cell{custom: cp}
}

// IsCustom reports whether this cell carries a custom payload.
func (c Cell) IsCustom() bool { return c.custom != nil }

// CustomPayload returns the raw bytes of a custom cell. Panics if the cell
// is not custom; callers check IsCustom first.
func (c Cell) CustomPayload() []byte {
	if c.custom == nil {
		panic("datacell: CustomPayload called on non-custom cell")
	}
	return c.custom
}

// Len returns the number of attribute values in the cell (1 for scalar).
func (c Cell) Len() int { return len(c.values) }

// Value returns the i'th attribute as a float64, or NaN if missing/custom
// or out of range, following §3 "the NaN sentinel is used for missing
// floating values".
func (c Cell) Value(i int) float64 {
	if c.custom != nil || i < 0 || i >= len(c.values) {
		return NaN
	}
	return c.values[i]
}

// Values returns a copy of the cell's attribute values.
func (c Cell) Values() []float64 {
	out := make([]float64, len(c.values))
	copy(out, c.values)
	return out
}

// WithValue returns a copy of the cell with the i'th attribute replaced.
func (c Cell) WithValue(i int, v float64) Cell {
	out := NewArray(c.values)
	if i >= 0 && i < len(out.values) {
		out.values[i] = v
	}
	return out
}

// castTo converts a cell value to the given Kind's representable range,
// used only at encode time so stored float64 precision isn't lost by
// premature truncation during interpolation math.
func castTo(k Kind, v float64) float64 {
	switch k {
	case Byte:
		return float64(int8(v))
	case Short:
		return float64(int16(v))
	case Int:
		return float64(int32(v))
	case Long:
		return float64(int64(v))
	case Float:
		return float64(float32(v))
	default: // Double
		return v
	}
}

// Cast returns a copy of the cell with every value cast through the given
// element kind's native width, as the binary encoder does just before
// writing (§6 Data cell payload).
func (c Cell) Cast(k Kind) Cell {
	if c.custom != nil {
		return c
	}
	out := NewArray(c.values)
	for i, v := range out.values {
		out.values[i] = castTo(k, v)
	}
	return out
}
