package units

import (
	"math"
	"testing"
)

func TestAngleConversionRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 14.04, 45, 90, 180, -30} {
		got := Degrees(Radians(deg))
		if math.Abs(got-deg) > 1e-12 {
			t.Errorf("Degrees(Radians(%v)) = %v", deg, got)
		}
	}
}

func TestAngleWindowContainsRad(t *testing.T) {
	win := AngleWindow{MinDeg: 0, MaxDeg: 30}

	tests := []struct {
		name string
		rad  float64
		want bool
	}{
		{"zero", 0, true},
		{"inside", Radians(14.04), true},
		{"boundary", Radians(30), true},
		{"outside", Radians(35), false},
		{"nan rejected", math.NaN(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := win.ContainsRad(tt.rad); got != tt.want {
				t.Errorf("ContainsRad(%v) = %v, want %v", tt.rad, got, tt.want)
			}
		})
	}
}

func TestAngleWindowValid(t *testing.T) {
	tests := []struct {
		name string
		win  AngleWindow
		want bool
	}{
		{"default", DefaultReflectionWindow(), true},
		{"full range", AngleWindow{MinDeg: 0, MaxDeg: 90}, true},
		{"inverted", AngleWindow{MinDeg: 40, MaxDeg: 10}, false},
		{"negative min", AngleWindow{MinDeg: -5, MaxDeg: 45}, false},
		{"beyond vertical", AngleWindow{MinDeg: 0, MaxDeg: 91}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.win.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
