package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// ValueOr dereferences p, falling back to def when p is nil. Optional fields decoded from
// JSON or TOML use pointers to tell an absent value from a zero one.
//
// Parameters:
//   - p: the optional value
//   - def: the value used when p is nil
//
// Returns:
//   - T: *p, or def
func ValueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
