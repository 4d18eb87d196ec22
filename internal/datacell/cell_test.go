package datacell

import (
	"math"
	"testing"
)

func TestScalarValueAndNaN(t *testing.T) {
	c := NewScalar(42.5)
	if c.Value(0) != 42.5 {
		t.Errorf("Value(0) = %v, want 42.5", c.Value(0))
	}
	if !math.IsNaN(c.Value(1)) {
		t.Errorf("Value(1) out of range should be NaN, got %v", c.Value(1))
	}
}

func TestArrayCellIndependentCopy(t *testing.T) {
	src := []float64{1, 2, 3}
	c := NewArray(src)
	src[0] = 999

	if c.Value(0) != 1 {
		t.Errorf("NewArray should copy input, got %v", c.Value(0))
	}
}

func TestCustomCellNaNValues(t *testing.T) {
	c := NewCustom([]byte{0xDE, 0xAD})
	if !c.IsCustom() {
		t.Fatalf("expected IsCustom true")
	}
	if !math.IsNaN(c.Value(0)) {
		t.Errorf("custom cell Value() should be NaN, got %v", c.Value(0))
	}
}

func TestKindRoundTripString(t *testing.T) {
	for _, k := range []Kind{Byte, Short, Int, Long, Float, Double, Custom} {
		s := k.String()
		parsed, ok := KindFromString(s)
		if !ok || parsed != k {
			t.Errorf("KindFromString(%q) = (%v, %v), want (%v, true)", s, parsed, ok, k)
		}
	}
}

func TestCastTruncatesToKindWidth(t *testing.T) {
	c := NewScalar(130) // overflows int8
	cast := c.Cast(Byte)
	if cast.Value(0) == 130 {
		t.Errorf("expected Byte cast to truncate 130, still got 130")
	}
}
