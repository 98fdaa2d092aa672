package patch

// Coalesce returns the value pointed to by ptr if it's not nil, otherwise fallback.
// Patch DTOs use pointer fields so that "absent" and "zero" stay distinguishable;
// Coalesce is how the absent fields keep their previous values.
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}
