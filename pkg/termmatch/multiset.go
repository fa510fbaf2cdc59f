package termmatch

import (
	"fmt"
	"sort"
	"strings"
)

// Multiset is a count map over names. It is used for the symbol and variable
// inventories of expressions and for the matcher's early pruning test: a
// pattern can never match an expression that is missing a symbol the pattern
// requires.
type Multiset map[string]int

// NewMultiset creates a multiset from a list of names, counting duplicates.
func NewMultiset(names ...string) Multiset {
	m := make(Multiset, len(names))
	for _, n := range names {
		m[n]++
	}
	return m
}

// Add increments the count of name by n. Non-positive n is ignored.
func (m Multiset) Add(name string, n int) {
	if n > 0 {
		m[name] += n
	}
}

// Count returns the count of name, zero if absent.
func (m Multiset) Count(name string) int {
	return m[name]
}

// Total returns the sum of all counts.
func (m Multiset) Total() int {
	total := 0
	for _, c := range m {
		total += c
	}
	return total
}

// Contains reports whether other is count-wise included in m, i.e. every
// name occurs in m at least as often as in other.
func (m Multiset) Contains(other Multiset) bool {
	for name, c := range other {
		if m[name] < c {
			return false
		}
	}
	return true
}

// Union returns a new multiset holding the count-wise sum of m and other.
func (m Multiset) Union(other Multiset) Multiset {
	result := make(Multiset, len(m)+len(other))
	for name, c := range m {
		result[name] = c
	}
	for name, c := range other {
		result[name] += c
	}
	return result
}

// Copy returns an independent copy of m.
func (m Multiset) Copy() Multiset {
	result := make(Multiset, len(m))
	for name, c := range m {
		result[name] = c
	}
	return result
}

// Equal reports whether m and other hold the same counts.
func (m Multiset) Equal(other Multiset) bool {
	if len(m) != len(other) {
		return false
	}
	for name, c := range m {
		if other[name] != c {
			return false
		}
	}
	return true
}

// String returns a deterministic representation, e.g. {a: 2, f: 1}.
func (m Multiset) String() string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %d", name, m[name])
	}
	b.WriteByte('}')
	return b.String()
}
