package provenance

// Descendants returns every username transitively created by seed, in
// breadth-first discovery order. Each username appears once; cycles in the
// creator relation terminate because visited users are never re-queued.
// The seed itself is only included when some visited user created it.
func (d *Directory) Descendants(seed string) []string {
	var found []string
	seen := make(map[string]bool)
	queue := []string{seed}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range d.children[current] {
			if seen[child] {
				continue
			}
			seen[child] = true
			found = append(found, child)
			queue = append(queue, child)
		}
	}
	return found
}

// Closure unions the descendants of seed with the platform service
// accounts. The result has set semantics; callers sort before display.
func (d *Directory) Closure(seed string, serviceAccounts []string) []string {
	found := d.Descendants(seed)
	seen := make(map[string]bool, len(found))
	for _, name := range found {
		seen[name] = true
	}
	for _, sa := range serviceAccounts {
		if sa == "" || seen[sa] {
			continue
		}
		seen[sa] = true
		found = append(found, sa)
	}
	return found
}
