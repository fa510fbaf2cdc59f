package termmatch

import (
	"testing"
)

func TestMultisetCounts(t *testing.T) {
	m := NewMultiset("a", "b", "a")
	if got := m.Count("a"); got != 2 {
		t.Errorf("Count(a) = %d, want 2", got)
	}
	if got := m.Count("missing"); got != 0 {
		t.Errorf("Count(missing) = %d, want 0", got)
	}
	if got := m.Total(); got != 3 {
		t.Errorf("Total() = %d, want 3", got)
	}

	m.Add("c", 2)
	if got := m.Count("c"); got != 2 {
		t.Errorf("Count(c) after Add = %d, want 2", got)
	}
	m.Add("c", -1)
	if got := m.Count("c"); got != 2 {
		t.Errorf("non-positive Add should be ignored, Count(c) = %d", got)
	}
}

func TestMultisetContains(t *testing.T) {
	m := NewMultiset("a", "a", "b")
	tests := []struct {
		name  string
		other Multiset
		want  bool
	}{
		{"empty", NewMultiset(), true},
		{"subset", NewMultiset("a", "b"), true},
		{"itself", NewMultiset("a", "a", "b"), true},
		{"too many of one name", NewMultiset("a", "a", "a"), false},
		{"missing name", NewMultiset("c"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Contains(tt.other); got != tt.want {
				t.Errorf("%v.Contains(%v) = %v, want %v", m, tt.other, got, tt.want)
			}
		})
	}
}

func TestMultisetUnion(t *testing.T) {
	a := NewMultiset("a", "b")
	b := NewMultiset("b", "c")
	got := a.Union(b)
	want := Multiset{"a": 1, "b": 2, "c": 1}
	if !got.Equal(want) {
		t.Errorf("Union = %v, want %v", got, want)
	}
	// Union allocates a fresh multiset.
	if !a.Equal(NewMultiset("a", "b")) || !b.Equal(NewMultiset("b", "c")) {
		t.Error("Union mutated an input")
	}
}

func TestMultisetCopy(t *testing.T) {
	orig := NewMultiset("a")
	cp := orig.Copy()
	cp.Add("a", 1)
	if orig.Count("a") != 1 {
		t.Error("modifying a copy leaked into the original")
	}
}

func TestMultisetString(t *testing.T) {
	if got, want := NewMultiset("b", "a", "a").String(), "{a: 2, b: 1}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := NewMultiset().String(), "{}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
