package game

import "math"

// NoiseField is 1D value noise over an integer lattice: a deterministic
// hash per lattice point, cosine-interpolated in between. It keeps no
// state, so the same x always yields the same value.
type NoiseField struct {
	Seed int32
}

// Hash maps a lattice point to a value in (-1, 1]. The arithmetic wraps
// at 32 bits and the mask keeps 31, so the result is always in range.
func (n NoiseField) Hash(i int32) float64 {
	return latticeHash(i + n.Seed)
}

// Value samples the field at x.
func (n NoiseField) Value(x float64) float64 {
	fl := math.Floor(x)
	i := int32(fl)
	frac := x - fl
	return cosineInterpolate(n.Hash(i), n.Hash(i+1), frac)
}

func latticeHash(x int32) float64 {
	x = (x << 13) ^ x
	v := (x*(x*x*15731+789221) + 1376312589) & 0x7fffffff
	return 1.0 - float64(v)/1073741824.0
}

func cosineInterpolate(a, b, t float64) float64 {
	f := (1 - math.Cos(t*math.Pi)) * 0.5
	return a*(1-f) + b*f
}
