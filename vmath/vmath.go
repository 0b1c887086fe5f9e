package vmath

import "math"

// Sign returns -1 for negative values and 1 otherwise, zero counts as positive
func Sign(n float64) int {
	if n < 0 {
		return -1
	}
	return 1
}

// RoundToInt rounds half away from zero
func RoundToInt(n float64) int {
	return int(math.Round(n))
}

// Clamp returns value limited to the inclusive range [lo, hi]
func Clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(value, hi))
}

// Remap maps value from [oldMin, oldMax] onto [newMin, newMax] without clamping
// An empty source range yields newMin
func Remap(value, oldMin, oldMax, newMin, newMax float64) float64 {
	if oldMin == oldMax {
		return newMin
	}
	return (value-oldMin)*(newMax-newMin)/(oldMax-oldMin) + newMin
}

// SnapToInterval snaps value to the nearest multiple of interval
func SnapToInterval(value float64, interval int) int {
	return RoundToInt(value/float64(interval)) * interval
}

