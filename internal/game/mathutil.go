package game

import "math"

// NormalizeDegrees wraps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	if r >= 360 {
		r -= 360
	}
	return r
}

// IsUpsideDown reports whether a car rotated by deg faces down the road.
func IsUpsideDown(deg float64) bool {
	r := NormalizeDegrees(deg)
	return r > 90 && r < 270
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
