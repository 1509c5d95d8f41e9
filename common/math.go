package common

import (
	"math"
	"unsafe"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Lerp linearly interpolates between a and b by p, evaluated as a*(1-p) + b*p.
// The two-term form returns a exactly at p == 0 and b exactly at p == 1.
//
// Parameters:
//   - a: the value at p == 0
//   - b: the value at p == 1
//   - p: the interpolation factor, normally in [0, 1]
//
// Returns:
//   - float32: the interpolated value
func Lerp(a, b, p float32) float32 {
	return a*(1-p) + b*p
}

// Clamp limits v to the closed range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound (must be >= lo)
//
// Returns:
//   - float32: v limited to [lo, hi]
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WrapPositive returns v modulo period, always in [0, period).
// Unlike math.Mod the result is never negative, so negative inputs wrap backwards
// from the end of the period. A non-positive period returns 0.
//
// Parameters:
//   - v: the value to wrap
//   - period: the wrap length (must be > 0)
//
// Returns:
//   - float32: the wrapped value
func WrapPositive(v, period float32) float32 {
	if period <= 0 {
		return 0
	}
	r := float32(math.Mod(float64(v), float64(period)))
	if r < 0 {
		r += period
	}
	// r + period can round up to exactly period for tiny negative r.
	if r >= period {
		r = 0
	}
	return r
}
