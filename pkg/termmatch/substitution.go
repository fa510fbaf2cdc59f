package termmatch

import (
	"strings"
)

// Binding is the value a substitution assigns to a variable name: either a
// single expression (for dot variables) or an ordered expression sequence
// (for plus/star sequence variables). Bindings are immutable once created.
type Binding interface {
	// String returns a human-readable representation of the binding.
	String() string

	// Equal checks structural equality with another binding. A single
	// binding and a sequence binding are never equal, even when the
	// sequence holds exactly one equal expression.
	Equal(other Binding) bool

	// Expressions returns the bound expressions as an ordered slice; a
	// single binding yields a one-element slice. The result must not be
	// modified.
	Expressions() []Expression
}

// ExprBinding binds a variable to a single expression.
type ExprBinding struct {
	Expr Expression
}

// One wraps a single expression as a binding.
func One(e Expression) Binding {
	return ExprBinding{Expr: e}
}

// String returns the bound expression's representation.
func (b ExprBinding) String() string { return b.Expr.String() }

// Equal checks that other is a single binding of an equal expression.
func (b ExprBinding) Equal(other Binding) bool {
	o, ok := other.(ExprBinding)
	return ok && b.Expr.Equal(o.Expr)
}

// Expressions returns a one-element slice holding the bound expression.
func (b ExprBinding) Expressions() []Expression { return []Expression{b.Expr} }

// SeqBinding binds a variable to an ordered sequence of expressions, which
// may be empty (a star variable matching nothing).
type SeqBinding []Expression

// Seq wraps an ordered expression sequence as a binding. The slice is
// copied.
func Seq(exprs ...Expression) Binding {
	seq := make(SeqBinding, len(exprs))
	copy(seq, exprs)
	return seq
}

// String renders the sequence as (e1, e2, ...).
func (b SeqBinding) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, e := range b {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Equal checks that other is a sequence binding of pairwise-equal
// expressions in the same order.
func (b SeqBinding) Equal(other Binding) bool {
	o, ok := other.(SeqBinding)
	if !ok || len(b) != len(o) {
		return false
	}
	for i, e := range b {
		if !e.Equal(o[i]) {
			return false
		}
	}
	return true
}

// Expressions returns the bound sequence. The result must not be modified.
func (b SeqBinding) Expressions() []Expression { return b }

// Substitution is an ordered mapping from variable name to binding. It is
// the output of a successful match. Within one matching attempt a name is
// bound at most once; later attempts for the same name must be equal to the
// existing binding or the attempt fails.
//
// Substitutions are confined to a single matching call and never shared
// mutably across goroutines; Bind is copy-on-write, so earlier snapshots
// remain valid while a backtracking branch explores extensions.
type Substitution struct {
	names    []string
	bindings map[string]Binding
}

// NewSubstitution creates an empty substitution.
func NewSubstitution() *Substitution {
	return &Substitution{bindings: make(map[string]Binding)}
}

// Get returns the binding for name, if any.
func (s *Substitution) Get(name string) (Binding, bool) {
	b, ok := s.bindings[name]
	return b, ok
}

// Names returns the bound names in insertion order. The result must not be
// modified.
func (s *Substitution) Names() []string { return s.names }

// Len returns the number of bound names.
func (s *Substitution) Len() int { return len(s.names) }

// Copy returns an independent copy of the substitution.
func (s *Substitution) Copy() *Substitution {
	names := make([]string, len(s.names))
	copy(names, s.names)
	bindings := make(map[string]Binding, len(s.bindings))
	for name, b := range s.bindings {
		bindings[name] = b
	}
	return &Substitution{names: names, bindings: bindings}
}

// Bind returns a substitution extended with name bound to b. The receiver
// is unchanged. Binding an already-bound name succeeds without copying when
// the new binding equals the existing one, and fails otherwise.
func (s *Substitution) Bind(name string, b Binding) (*Substitution, bool) {
	if existing, ok := s.bindings[name]; ok {
		return s, existing.Equal(b)
	}
	next := s.Copy()
	next.names = append(next.names, name)
	next.bindings[name] = b
	return next, true
}

// Union merges two substitutions into a new one. It fails when the inputs
// disagree on any shared name. Names from s keep their positions; new names
// from other are appended in their order.
func (s *Substitution) Union(other *Substitution) (*Substitution, bool) {
	result := s
	for _, name := range other.names {
		next, ok := result.Bind(name, other.bindings[name])
		if !ok {
			return nil, false
		}
		result = next
	}
	return result, true
}

// Equal reports whether both substitutions bind the same names to equal
// values. Insertion order is irrelevant.
func (s *Substitution) Equal(other *Substitution) bool {
	if other == nil || len(s.bindings) != len(other.bindings) {
		return false
	}
	for name, b := range s.bindings {
		ob, ok := other.bindings[name]
		if !ok || !b.Equal(ob) {
			return false
		}
	}
	return true
}

// String renders the substitution as {x -> a, y -> (b, c)} in insertion
// order.
func (s *Substitution) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(" -> ")
		sb.WriteString(s.bindings[name].String())
	}
	sb.WriteByte('}')
	return sb.String()
}
