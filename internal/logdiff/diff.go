// internal/logdiff/diff.go
package logdiff

// Diff returns the lines of current that do not occur in previous.
//
// Membership, not position: a line seen anywhere in previous is never
// reported, however often it recurs in current. Output follows the order of
// current with duplicates suppressed.
func Diff(previous, current []string) []string {
	seen := make(map[string]struct{}, len(previous)+len(current))
	for _, l := range previous {
		seen[l] = struct{}{}
	}

	out := []string{}
	for _, l := range current {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
