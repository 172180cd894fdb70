package mathutil

import "math"

// IntMin returns the smaller of two ints.
func IntMin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// IntMax returns the larger of two ints.
func IntMax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// IntAbs returns the absolute value of an int.
func IntAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ClampInt limits x to the inclusive range [lo, hi].
func ClampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Frac returns the fractional part of x in [0, 1), also for negative x.
func Frac(x float64) float64 {
	return x - math.Floor(x)
}

// Rotate rotates the vector (x, y) by angle radians.
func Rotate(x, y, angle float64) (float64, float64) {
	sin, cos := math.Sincos(angle)
	return x*cos - y*sin, x*sin + y*cos
}
