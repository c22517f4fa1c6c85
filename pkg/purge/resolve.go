package purge

// ResolveInactive returns the catalog names that are absent from usage and
// are neither layouts nor external references, in catalog order. A name
// that appears more than once in the catalog is considered once, at its
// first occurrence.
func ResolveInactive(catalog []BlockDescriptor, usage UsageTally) []string {
	inactive := []string{}
	seen := make(map[string]struct{}, len(catalog))

	for _, b := range catalog {
		if _, dup := seen[b.Name]; dup {
			continue
		}
		seen[b.Name] = struct{}{}

		if !b.Deletable() || usage.Used(b.Name) {
			continue
		}
		inactive = append(inactive, b.Name)
	}
	return inactive
}
