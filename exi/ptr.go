package exi

// ptrTo returns a pointer to a copy of v, for adapting a value result into
// the optional-pointer fields the datatype value types use.
func ptrTo[T any](v T) *T {
	return &v
}

// mapHasKey reports whether key is present in m, for call sites that only
// need the boolean and would otherwise discard the value half of the
// comma-ok form.
func mapHasKey[K comparable, V any](m map[K]V, key K) bool {
	_, ok := m[key]
	return ok
}
