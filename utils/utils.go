package utils

import (
	"math"
)

func Deg(rads float64) float64 {
	return rads / (math.Pi / 180)
}

func Rad(degrees float64) float64 {
	return (math.Pi / 180) * degrees
}

// Clamp returns v constrained to [lo, hi]. NaN is passed through untouched, so
// callers which might produce one must check before clamping.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(math.Min(v, hi), lo)
}
