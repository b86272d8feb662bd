// Package intutils provides utilities for working with ints
package intutils

// Clip clips an int to within a minimum and maximum value
func Clip(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Pow returns base raised to the non-negative power exp
func Pow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
