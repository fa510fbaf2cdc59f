package termmatch

import (
	"os"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// Shared fixtures mirroring the conventional naming for wildcard suffixes:
// x_ is a dot variable, x__ a plus variable, x___ a star variable.
var (
	opF    = NewOperationType("f", ArityVariadic)
	opF2   = NewOperationType("f2", ArityVariadic)
	opFc   = NewOperationType("fc", ArityVariadic, Commutative)
	opFa   = NewOperationType("fa", ArityVariadic, Associative)
	opFac  = NewOperationType("fac", ArityVariadic, Associative, Commutative)
	symA   = NewSymbol("a")
	symB   = NewSymbol("b")
	symC   = NewSymbol("c")
	wDot   = DotWildcard()
	varX   = Dot("x")
	varY   = Dot("y")
	plusX  = Plus("x")
	plusY  = Plus("y")
	starX  = Star("x")
	starY  = Star("y")
)

// shouldRunHeavy returns true when heavy/long-running tests should run even
// if the Go test suite is invoked in short mode. Set
// GOTERMMATCH_FORCE_HEAVY=1 (or "true") to override short-mode skips.
func shouldRunHeavy() bool {
	v := os.Getenv("GOTERMMATCH_FORCE_HEAVY")
	return v == "1" || v == "true" || v == "TRUE" || v == "True"
}

// ms builds a substitution from alternating name, Binding pairs. It panics
// on malformed input so it can be used inside table literals.
func ms(pairs ...any) *Substitution {
	if len(pairs)%2 != 0 {
		panic("ms: odd number of arguments")
	}
	s := NewSubstitution()
	for i := 0; i < len(pairs); i += 2 {
		name := pairs[i].(string)
		binding := pairs[i+1].(Binding)
		next, ok := s.Bind(name, binding)
		if !ok {
			panic("ms: conflicting binding for " + name)
		}
		s = next
	}
	return s
}

// assertSameSubstitutions checks that got and want hold the same
// substitutions, ignoring order.
func assertSameSubstitutions(t *testing.T, got []*Substitution, want []*Substitution) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("got %d substitutions, want %d\ngot: %s", len(got), len(want), spew.Sdump(substStrings(got)))
	}
	for _, w := range want {
		found := false
		for _, g := range got {
			if g.Equal(w) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected substitution %s missing from results\ngot: %s", w, spew.Sdump(substStrings(got)))
		}
	}
	for _, g := range got {
		found := false
		for _, w := range want {
			if w.Equal(g) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("unexpected substitution %s in results\nwant: %s", g, spew.Sdump(substStrings(want)))
		}
	}
}

func substStrings(subs []*Substitution) []string {
	out := make([]string, len(subs))
	for i, s := range subs {
		out[i] = s.String()
	}
	return out
}
