package youtube

// Uniqueify drops duplicate values, keeping the first occurrence of each
// and the relative order of everything kept.
func Uniqueify[T comparable](values []T) []T {
	seen := make(map[T]struct{}, len(values))
	out := make([]T, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
