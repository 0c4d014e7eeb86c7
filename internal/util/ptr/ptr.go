// Package ptr provides helper functions for creating pointers to values.
package ptr

// Bool returns a pointer to the given bool value.
func Bool(b bool) *bool { return &b }

// To returns a pointer to v.
func To[T any](v T) *T { return &v }

// Deref returns the value p points to, or fallback when p is nil.
func Deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
