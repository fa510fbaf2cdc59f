package termmatch

import (
	"fmt"
	"strings"
)

// Wildcard is a pattern element matching a span of expressions. A dot
// wildcard matches exactly one expression; plus and star wildcards match a
// variable-length span with a minimum length of one and zero respectively
// and no upper bound. An unnamed wildcard participates in structural
// matching but binds nothing.
type Wildcard struct {
	minCount  int
	fixedSize bool
}

// DotWildcard creates a wildcard matching exactly one expression.
func DotWildcard() *Wildcard {
	return &Wildcard{minCount: 1, fixedSize: true}
}

// PlusWildcard creates a sequence wildcard matching one or more expressions.
func PlusWildcard() *Wildcard {
	return &Wildcard{minCount: 1}
}

// StarWildcard creates a sequence wildcard matching zero or more expressions.
func StarWildcard() *Wildcard {
	return &Wildcard{minCount: 0}
}

// MinCount returns the minimum span length the wildcard accepts.
func (w *Wildcard) MinCount() int { return w.minCount }

// FixedSize reports whether the wildcard matches exactly MinCount
// expressions (true only for dot wildcards).
func (w *Wildcard) FixedSize() bool { return w.fixedSize }

// String renders the wildcard in suffix notation: _, __, or ___.
func (w *Wildcard) String() string {
	switch {
	case w.fixedSize:
		return "_"
	case w.minCount > 0:
		return "__"
	default:
		return "___"
	}
}

// Equal checks span-bound equality.
func (w *Wildcard) Equal(other Expression) bool {
	o, ok := other.(*Wildcard)
	return ok && w.minCount == o.minCount && w.fixedSize == o.fixedSize
}

// IsConstant always returns false for wildcards.
func (w *Wildcard) IsConstant() bool { return false }

// Symbols returns an empty multiset.
func (w *Wildcard) Symbols() Multiset { return Multiset{} }

// Variables returns an empty multiset.
func (w *Wildcard) Variables() Multiset { return Multiset{} }

// Variable is a named pattern node wrapping a sub-pattern the matched span
// must additionally satisfy. Its binding is recorded in the resulting
// substitution; repeated occurrences of the same name must bind equal
// values. The wrapped sub-pattern is usually a wildcard but may be any
// pattern expression, including another variable or an operation.
type Variable struct {
	name       string
	pattern    Expression
	constraint Constraint
}

// NewVariable creates a named variable wrapping the given sub-pattern.
// An empty name or nil sub-pattern is a construction error.
func NewVariable(name string, pattern Expression) (*Variable, error) {
	if name == "" {
		return nil, fmt.Errorf("NewVariable: name cannot be empty")
	}
	if pattern == nil {
		return nil, fmt.Errorf("NewVariable: pattern cannot be nil")
	}
	return &Variable{name: name, pattern: pattern}, nil
}

// MustVariable is like NewVariable but panics on a construction error.
func MustVariable(name string, pattern Expression) *Variable {
	v, err := NewVariable(name, pattern)
	if err != nil {
		panic(err)
	}
	return v
}

// Dot creates a named variable matching exactly one expression.
func Dot(name string) *Variable {
	return &Variable{name: name, pattern: DotWildcard()}
}

// Plus creates a named sequence variable matching one or more expressions.
func Plus(name string) *Variable {
	return &Variable{name: name, pattern: PlusWildcard()}
}

// Star creates a named sequence variable matching zero or more expressions.
func Star(name string) *Variable {
	return &Variable{name: name, pattern: StarWildcard()}
}

// Name returns the variable's name.
func (v *Variable) Name() string { return v.name }

// Pattern returns the wrapped sub-pattern.
func (v *Variable) Pattern() Expression { return v.pattern }

// Constraint returns the attached constraint, or nil.
func (v *Variable) Constraint() Constraint { return v.constraint }

// WithConstraint returns a copy of the variable carrying the given
// constraint. The receiver is unchanged.
func (v *Variable) WithConstraint(c Constraint) *Variable {
	clone := *v
	clone.constraint = c
	return &clone
}

// String renders the variable as name followed by its sub-pattern's suffix
// notation, e.g. x_ or x___ or x: f(y_).
func (v *Variable) String() string {
	if w, ok := v.pattern.(*Wildcard); ok {
		return v.name + w.String()
	}
	var b strings.Builder
	b.WriteString(v.name)
	b.WriteString(": ")
	b.WriteString(v.pattern.String())
	return b.String()
}

// Equal checks name, sub-pattern, and constraint equality.
func (v *Variable) Equal(other Expression) bool {
	o, ok := other.(*Variable)
	return ok && v.name == o.name &&
		v.pattern.Equal(o.pattern) &&
		constraintsEqual(v.constraint, o.constraint)
}

// IsConstant always returns false for variables.
func (v *Variable) IsConstant() bool { return false }

// Symbols returns the symbols of the wrapped sub-pattern.
func (v *Variable) Symbols() Multiset { return v.pattern.Symbols() }

// Variables returns the variable's own name joined with the sub-pattern's
// variables.
func (v *Variable) Variables() Multiset {
	return v.pattern.Variables().Union(Multiset{v.name: 1})
}
