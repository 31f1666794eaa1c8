// Package util provides some basic utility functions.
package util

// Integer is any built-in integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Min returns the smallest of a and b.
func Min[T Integer](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the largest of a and b.
func Max[T Integer](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Clamp returns val if val is within min and max, min if val < min, or max if val > max.
func Clamp[T Integer](min, max, val T) T {
	return Min(max, Max(min, val))
}
