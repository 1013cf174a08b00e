package utils

import (
	"math"

	"github.com/chewxy/math32"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// Float32AlmostEqual is the strict float32 variant used on grid values; the difference must be below epsilon.
func Float32AlmostEqual(a, b, epsilon float32) bool {
	return math32.Abs(a-b) < epsilon
}

// Clamp returns x limited to the closed interval [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Square returns n*n.
func Square(n float64) float64 {
	return n * n
}
