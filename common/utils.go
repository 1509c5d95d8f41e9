package common

// Coalesce returns the first non-zero value, or the zero value when every value is zero.
// Builders use it to fall back to package defaults for unset options.
//
// Parameters:
//   - values: candidate values in priority order
//
// Returns:
//   - T: the first non-zero candidate
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
