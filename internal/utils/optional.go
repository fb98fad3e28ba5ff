// Package utils holds helpers for reading the optional fields of backend responses.
package utils

// Value dereferences an optional JSON field, giving the zero value when absent.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

// FirstNonEmpty returns the first value that is not the empty string. Used where
// the backend spells one field more than one way.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
