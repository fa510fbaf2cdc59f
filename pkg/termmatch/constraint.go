package termmatch

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Constraint is a pure side-condition predicate over a substitution, used to
// accept or reject an otherwise-structural match. The matcher evaluates a
// constraint as soon as every variable it declares is bound and prunes the
// branch on failure; a constraint whose declared variables never come into
// scope is vacuously satisfied.
type Constraint interface {
	// String returns a human-readable representation of the constraint.
	String() string

	// Satisfied reports whether the substitution meets the constraint.
	Satisfied(s *Substitution) bool

	// DeclaredVariables returns the substitution entries the constraint
	// reads. The matcher defers evaluation until all of them are bound.
	// A catch-all constraint returns nil and true from ReadsWhole.
	DeclaredVariables() []string

	// ReadsWhole reports whether the constraint receives the whole
	// substitution instead of a declared entry set. Such constraints are
	// evaluated once per complete match.
	ReadsWhole() bool

	// Equal checks structural constraint equality.
	Equal(other Constraint) bool
}

func constraintsEqual(a, b Constraint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// MultiConstraint is the conjunction of a set of constraints. Equality is
// set-based; member order is irrelevant. Use CombineConstraints to build
// one: nested multi-constraints are absorbed, a singleton degrades to its
// sole member, and an empty set is represented as nil.
type MultiConstraint struct {
	members []Constraint
}

// CombineConstraints conjoins constraints, flattening nested
// multi-constraints, dropping nils and duplicates. It returns nil for an
// empty result and the sole member for a singleton result.
func CombineConstraints(constraints ...Constraint) Constraint {
	var flat []Constraint
	var absorb func(c Constraint)
	absorb = func(c Constraint) {
		if c == nil {
			return
		}
		if mc, ok := c.(*MultiConstraint); ok {
			for _, member := range mc.members {
				absorb(member)
			}
			return
		}
		for _, existing := range flat {
			if existing.Equal(c) {
				return
			}
		}
		flat = append(flat, c)
	}
	for _, c := range constraints {
		absorb(c)
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return &MultiConstraint{members: flat}
	}
}

// Members returns the conjoined constraints. The result must not be
// modified.
func (c *MultiConstraint) Members() []Constraint { return c.members }

// String renders the conjunction as (c1 and c2 and ...).
func (c *MultiConstraint) String() string {
	parts := make([]string, len(c.members))
	for i, member := range c.members {
		parts[i] = member.String()
	}
	return "(" + strings.Join(parts, " and ") + ")"
}

// Satisfied reports whether every member is satisfied.
func (c *MultiConstraint) Satisfied(s *Substitution) bool {
	for _, member := range c.members {
		if !member.Satisfied(s) {
			return false
		}
	}
	return true
}

// DeclaredVariables returns the union of the members' declared variables.
func (c *MultiConstraint) DeclaredVariables() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, member := range c.members {
		for _, name := range member.DeclaredVariables() {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	return names
}

// ReadsWhole reports whether any member reads the whole substitution.
func (c *MultiConstraint) ReadsWhole() bool {
	for _, member := range c.members {
		if member.ReadsWhole() {
			return true
		}
	}
	return false
}

// Equal checks set-based equality of the member constraints.
func (c *MultiConstraint) Equal(other Constraint) bool {
	o, ok := other.(*MultiConstraint)
	if !ok || len(c.members) != len(o.members) {
		return false
	}
	for _, member := range c.members {
		found := false
		for _, omember := range o.members {
			if member.Equal(omember) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// EqualVariablesConstraint holds when all named variables resolve to
// pairwise-equal values. A single expression and a one-element sequence
// compare equal here, matching the sequence/single duality of bindings.
type EqualVariablesConstraint struct {
	names []string
}

// NewEqualVariablesConstraint creates a pairwise-equality constraint over
// the named variables. Duplicates are dropped; fewer than two distinct
// names is a construction error.
func NewEqualVariablesConstraint(names ...string) (*EqualVariablesConstraint, error) {
	seen := make(map[string]struct{}, len(names))
	distinct := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			return nil, fmt.Errorf("NewEqualVariablesConstraint: name cannot be empty")
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			distinct = append(distinct, name)
		}
	}
	if len(distinct) < 2 {
		return nil, fmt.Errorf("NewEqualVariablesConstraint: need at least 2 distinct names, got %d", len(distinct))
	}
	sort.Strings(distinct)
	return &EqualVariablesConstraint{names: distinct}, nil
}

// MustEqualVariables is like NewEqualVariablesConstraint but panics on a
// construction error.
func MustEqualVariables(names ...string) *EqualVariablesConstraint {
	c, err := NewEqualVariablesConstraint(names...)
	if err != nil {
		panic(err)
	}
	return c
}

// asSequence views a binding as an expression sequence for pairwise
// comparison.
func asSequence(b Binding) SeqBinding {
	if seq, ok := b.(SeqBinding); ok {
		return seq
	}
	return SeqBinding(b.Expressions())
}

// String renders the constraint as (x == y == ...).
func (c *EqualVariablesConstraint) String() string {
	return "(" + strings.Join(c.names, " == ") + ")"
}

// Satisfied reports whether every named variable resolves to the same
// value. Unbound names fail the constraint; the matcher only evaluates it
// once all declared names are in scope.
func (c *EqualVariablesConstraint) Satisfied(s *Substitution) bool {
	var first SeqBinding
	for i, name := range c.names {
		b, ok := s.Get(name)
		if !ok {
			return false
		}
		seq := asSequence(b)
		if i == 0 {
			first = seq
			continue
		}
		if !seq.Equal(first) {
			return false
		}
	}
	return true
}

// DeclaredVariables returns the constrained names.
func (c *EqualVariablesConstraint) DeclaredVariables() []string { return c.names }

// ReadsWhole always returns false.
func (c *EqualVariablesConstraint) ReadsWhole() bool { return false }

// Equal checks that other constrains the same name set.
func (c *EqualVariablesConstraint) Equal(other Constraint) bool {
	o, ok := other.(*EqualVariablesConstraint)
	if !ok || len(c.names) != len(o.names) {
		return false
	}
	for i, name := range c.names {
		if o.names[i] != name {
			return false
		}
	}
	return true
}

// PredicateConstraint wraps an arbitrary predicate over a declared set of
// bound variables, or over the whole substitution in its catch-all form.
// The declared parameter set replaces runtime introspection of the
// predicate's signature: each name must correspond to a substitution entry
// at evaluation time.
type PredicateConstraint struct {
	params    []string
	predicate func(args map[string]Binding) bool
	whole     func(s *Substitution) bool
}

// NewPredicateConstraint creates a constraint calling predicate with the
// bindings of the declared parameter names. A nil predicate, an empty
// parameter list, an empty parameter name, or a duplicate parameter name is
// a construction error.
func NewPredicateConstraint(predicate func(args map[string]Binding) bool, params ...string) (*PredicateConstraint, error) {
	if predicate == nil {
		return nil, fmt.Errorf("NewPredicateConstraint: predicate cannot be nil")
	}
	if len(params) == 0 {
		return nil, fmt.Errorf("NewPredicateConstraint: at least one parameter name is required")
	}
	seen := make(map[string]struct{}, len(params))
	names := make([]string, 0, len(params))
	for _, name := range params {
		if name == "" {
			return nil, fmt.Errorf("NewPredicateConstraint: parameter name cannot be empty")
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("NewPredicateConstraint: duplicate parameter name %q", name)
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return &PredicateConstraint{params: names, predicate: predicate}, nil
}

// NewCatchAllConstraint creates a constraint whose predicate receives the
// whole substitution. It is evaluated once per complete match. A nil
// predicate is a construction error.
func NewCatchAllConstraint(predicate func(s *Substitution) bool) (*PredicateConstraint, error) {
	if predicate == nil {
		return nil, fmt.Errorf("NewCatchAllConstraint: predicate cannot be nil")
	}
	return &PredicateConstraint{whole: predicate}, nil
}

// String names the declared parameters, or <whole substitution> for the
// catch-all form.
func (c *PredicateConstraint) String() string {
	if c.whole != nil {
		return "predicate(<whole substitution>)"
	}
	return "predicate(" + strings.Join(c.params, ", ") + ")"
}

// Satisfied calls the wrapped predicate. For the declared-parameter form
// every parameter must be bound; the matcher guarantees this by deferring
// evaluation.
func (c *PredicateConstraint) Satisfied(s *Substitution) bool {
	if c.whole != nil {
		return c.whole(s)
	}
	args := make(map[string]Binding, len(c.params))
	for _, name := range c.params {
		b, ok := s.Get(name)
		if !ok {
			return false
		}
		args[name] = b
	}
	return c.predicate(args)
}

// DeclaredVariables returns the declared parameter names, nil for the
// catch-all form.
func (c *PredicateConstraint) DeclaredVariables() []string { return c.params }

// ReadsWhole reports whether this is the catch-all form.
func (c *PredicateConstraint) ReadsWhole() bool { return c.whole != nil }

// Equal checks predicate function identity and parameter set equality.
func (c *PredicateConstraint) Equal(other Constraint) bool {
	o, ok := other.(*PredicateConstraint)
	if !ok || len(c.params) != len(o.params) {
		return false
	}
	for i, name := range c.params {
		if o.params[i] != name {
			return false
		}
	}
	if (c.whole == nil) != (o.whole == nil) {
		return false
	}
	if c.whole != nil {
		return reflect.ValueOf(c.whole).Pointer() == reflect.ValueOf(o.whole).Pointer()
	}
	return reflect.ValueOf(c.predicate).Pointer() == reflect.ValueOf(o.predicate).Pointer()
}

// flattenConstraint expands a multi-constraint into its members so the
// matcher can gate each member independently.
func flattenConstraint(c Constraint) []Constraint {
	if c == nil {
		return nil
	}
	if mc, ok := c.(*MultiConstraint); ok {
		return mc.members
	}
	return []Constraint{c}
}
