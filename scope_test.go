package rawview

import (
	"slices"
	"testing"
)

func TestScopeUnwindOrder(t *testing.T) {
	var s scope
	var got []string
	for _, name := range []string{"a", "b", "c"} {
		s.push(name, func() { got = append(got, name) })
	}
	if s.len() != 3 {
		t.Fatalf("len() = %d, want 3", s.len())
	}

	s.unwind()
	if want := []string{"c", "b", "a"}; !slices.Equal(got, want) {
		t.Errorf("release order = %v, want %v", got, want)
	}
	if s.len() != 0 {
		t.Errorf("len() after unwind = %d, want 0", s.len())
	}

	s.unwind()
	if len(got) != 3 {
		t.Errorf("second unwind released again: %v", got)
	}
}
