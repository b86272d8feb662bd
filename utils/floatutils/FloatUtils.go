// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// Sign returns -1 for negative values and 1 otherwise
func Sign(value float64) float64 {
	if value < 0 {
		return -1.0
	}
	return 1.0
}

// Bucket returns the index of the bucket that value falls into when
// interval is split into n equal-width buckets. Values outside the
// interval are placed in the first or last bucket.
func Bucket(value float64, interval r1.Interval, n int) int {
	if n <= 1 || interval.Max <= interval.Min {
		return 0
	}
	frac := (ClipInterval(value, interval) - interval.Min) /
		(interval.Max - interval.Min)

	b := int(frac * float64(n))
	if b >= n {
		b = n - 1
	}
	return b
}
