// Package units provides shared angle conversions and the angle-of-incidence
// admissibility window used by the reflection solvers.
package units

import "math"

// Radians converts an angle in degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts an angle in radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// AngleWindow is an inclusive [Min, Max] window in degrees, applied to the
// angle between the reflected ray and the reflector normal.
type AngleWindow struct {
	MinDeg float64 `json:"min_deg"`
	MaxDeg float64 `json:"max_deg"`
}

// DefaultReflectionWindow is the conventional angle-of-incidence window.
func DefaultReflectionWindow() AngleWindow {
	return AngleWindow{MinDeg: 0, MaxDeg: 45}
}

// ContainsRad reports whether the angle (in radians) falls inside the
// window. NaN angles are always rejected.
func (w AngleWindow) ContainsRad(rad float64) bool {
	return rad >= Radians(w.MinDeg) && rad <= Radians(w.MaxDeg)
}

// Valid reports whether the window is well formed.
func (w AngleWindow) Valid() bool {
	return w.MinDeg >= 0 && w.MaxDeg >= w.MinDeg && w.MaxDeg <= 90
}
