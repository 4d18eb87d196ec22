package geo

import (
	"math"
	"testing"
)

func TestFromLatLonRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"origin", 0, 0},
		{"north pole adjacent", 89.9, 45},
		{"south", -34.9462, -106.4567},
		{"dateline", 0, 179.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := FromLatLonDeg(tt.lat, tt.lon)
			if !v.IsUnit(1e-9) {
				t.Fatalf("FromLatLonDeg(%v,%v) not unit length: %v", tt.lat, tt.lon, v)
			}
			lat, lon := ToLatLonDeg(v)
			if math.Abs(lat-tt.lat) > 1e-9 {
				t.Errorf("lat round-trip: got %v want %v", lat, tt.lat)
			}
			if math.Abs(lon-tt.lon) > 1e-9 {
				t.Errorf("lon round-trip: got %v want %v", lon, tt.lon)
			}
		})
	}
}

func TestAngleBetweenKnownPoints(t *testing.T) {
	// The great-circle angle between (34.9462N,-106.4567E) and
	// (3.316N, 95.854E) is 136.3795 deg +/- 0.01 deg.
	a := FromLatLonDeg(34.9462, -106.4567)
	b := FromLatLonDeg(3.316, 95.854)

	got := AngleBetween(a, b) * 180 / math.Pi
	want := 136.3795
	if math.Abs(got-want) > 0.01 {
		t.Errorf("AngleBetween = %v, want %v +/- 0.01", got, want)
	}
}

func TestDetSignFlipsAcrossEdge(t *testing.T) {
	v0 := FromLatLonDeg(0, 0)
	v1 := FromLatLonDeg(0, 10)
	inside := FromLatLonDeg(5, 5)
	outside := FromLatLonDeg(-5, 5)

	d1 := Det(v0, v1, inside)
	d2 := Det(v0, v1, outside)

	if (d1 > 0) == (d2 > 0) {
		t.Errorf("expected det() to change sign across the edge plane, got %v and %v", d1, d2)
	}
}
