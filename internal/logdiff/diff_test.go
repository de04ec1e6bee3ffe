// internal/logdiff/diff_test.go
package logdiff

import "testing"

func sameLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDiff_Example(t *testing.T) {
	got := Diff([]string{"x", "y"}, []string{"x", "y", "z", "z"})
	if !sameLines(got, []string{"z"}) {
		t.Fatalf("got=%q want=[z]", got)
	}
}

func TestDiff_AgainstSelfIsEmpty(t *testing.T) {
	a := []string{"a", "b", "a", ""}
	if got := Diff(a, a); len(got) != 0 {
		t.Fatalf("Diff(a, a) got=%q want empty", got)
	}
}

func TestDiff_NoPreviousIsDedupe(t *testing.T) {
	got := Diff(nil, []string{"b", "a", "b", "c", "a"})
	if !sameLines(got, []string{"b", "a", "c"}) {
		t.Fatalf("got=%q want=[b a c]", got)
	}
}

func TestDiff_MembershipNotPosition(t *testing.T) {
	prev := []string{"boot", "link up", "tm ok"}
	cur := []string{"tm ok", "boot", "link down", "tm ok", "link up", "link down"}

	got := Diff(prev, cur)
	if !sameLines(got, []string{"link down"}) {
		t.Fatalf("got=%q want=[link down]", got)
	}
}

func TestDiff_EmptyCurrent(t *testing.T) {
	got := Diff([]string{"a"}, nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}
