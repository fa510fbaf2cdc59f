package termmatch

import (
	"fmt"
	"sort"
	"strings"
)

// Expression represents a node in an immutable symbolic expression tree.
// Expressions are built once by callers and shared read-only across any
// number of concurrent matching calls; no method mutates the receiver.
type Expression interface {
	// String returns a human-readable representation of the expression.
	String() string

	// Equal checks structural equality with another expression. Commutative
	// operations compare their children as multisets; this is implemented by
	// keeping commutative operand lists in canonical order, so positional
	// comparison is sufficient after construction.
	Equal(other Expression) bool

	// IsConstant reports whether the subtree contains no wildcards or
	// variables. Only constant expressions are valid match subjects.
	IsConstant() bool

	// Symbols returns the multiset of symbol and operation-head names
	// reachable from this subtree. Used for early match pruning.
	Symbols() Multiset

	// Variables returns the multiset of variable names reachable from this
	// subtree.
	Variables() Multiset
}

// Symbol is a named, argument-less leaf expression. Equality is by name and
// by the optional attached value, which must be comparable with ==.
type Symbol struct {
	name  string
	value any
}

// NewSymbol creates a symbol with the given name and no attached value.
func NewSymbol(name string) *Symbol {
	return &Symbol{name: name}
}

// NewValueSymbol creates a symbol carrying an opaque payload value. The
// value participates in equality and must be comparable with ==.
func NewValueSymbol(name string, value any) *Symbol {
	return &Symbol{name: name, value: value}
}

// Name returns the symbol's name.
func (s *Symbol) Name() string { return s.name }

// Value returns the attached payload value, or nil.
func (s *Symbol) Value() any { return s.value }

// String returns the symbol's name.
func (s *Symbol) String() string {
	if s.value != nil {
		return fmt.Sprintf("%s(%v)", s.name, s.value)
	}
	return s.name
}

// Equal checks name and attached value equality.
func (s *Symbol) Equal(other Expression) bool {
	o, ok := other.(*Symbol)
	return ok && s.name == o.name && s.value == o.value
}

// IsConstant always returns true for symbols.
func (s *Symbol) IsConstant() bool { return true }

// Symbols returns a one-element multiset holding the symbol's name.
func (s *Symbol) Symbols() Multiset { return Multiset{s.name: 1} }

// Variables returns an empty multiset.
func (s *Symbol) Variables() Multiset { return Multiset{} }

// Arity describes the operand count contract of an operation type.
// MinCount is the exact operand count when FixedSize is true, and the lower
// bound otherwise.
type Arity struct {
	MinCount  int
	FixedSize bool
}

// Common arities.
var (
	ArityNullary  = Arity{MinCount: 0, FixedSize: true}
	ArityUnary    = Arity{MinCount: 1, FixedSize: true}
	ArityBinary   = Arity{MinCount: 2, FixedSize: true}
	ArityTernary  = Arity{MinCount: 3, FixedSize: true}
	ArityVariadic = Arity{MinCount: 0, FixedSize: false}
	ArityPolyadic = Arity{MinCount: 1, FixedSize: false}
)

// String returns e.g. "2" for a fixed binary arity or "1+" for polyadic.
func (a Arity) String() string {
	if a.FixedSize {
		return fmt.Sprintf("%d", a.MinCount)
	}
	return fmt.Sprintf("%d+", a.MinCount)
}

// OperationFlag declares an algebraic property of an operation type.
type OperationFlag uint8

const (
	// Commutative declares that operand order is irrelevant: children form
	// an unordered multiset for both equality and matching.
	Commutative OperationFlag = 1 << iota

	// Associative declares that nested applications of the same operation
	// flatten into one variadic operand sequence.
	Associative

	// OneIdentity declares that a single-operand application is semantically
	// identical to its sole operand.
	OneIdentity
)

// OperationType describes a named operation head together with its arity
// contract and algebraic flags. Operation types are immutable; two types
// with the same name, arity and flags are interchangeable.
type OperationType struct {
	name        string
	arity       Arity
	commutative bool
	associative bool
	oneIdentity bool
}

// NewOperationType creates an operation type.
//
// Example:
//
//	f := termmatch.NewOperationType("f", termmatch.ArityVariadic)
//	fc := termmatch.NewOperationType("fc", termmatch.ArityVariadic, termmatch.Commutative)
func NewOperationType(name string, arity Arity, flags ...OperationFlag) *OperationType {
	t := &OperationType{name: name, arity: arity}
	for _, f := range flags {
		if f&Commutative != 0 {
			t.commutative = true
		}
		if f&Associative != 0 {
			t.associative = true
		}
		if f&OneIdentity != 0 {
			t.oneIdentity = true
		}
	}
	return t
}

// Name returns the operation head name.
func (t *OperationType) Name() string { return t.name }

// Arity returns the operand count contract.
func (t *OperationType) Arity() Arity { return t.arity }

// Commutative reports whether operand order is irrelevant.
func (t *OperationType) Commutative() bool { return t.commutative }

// Associative reports whether nested same-head applications flatten.
func (t *OperationType) Associative() bool { return t.associative }

// OneIdentity reports whether a single-operand application collapses to its
// operand.
func (t *OperationType) OneIdentity() bool { return t.oneIdentity }

// Equal reports whether two operation types are interchangeable.
func (t *OperationType) Equal(other *OperationType) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	return t.name == other.name &&
		t.arity == other.arity &&
		t.commutative == other.commutative &&
		t.associative == other.associative &&
		t.oneIdentity == other.oneIdentity
}

// Apply builds an operation expression from the given operands, applying the
// type's structural rules:
//
//   - associative types flatten unconstrained same-type operand subtrees
//   - commutative types sort operands into canonical order
//   - one-identity types collapse a single non-sequence operand to itself
//
// A fixed-size arity with a mismatching operand count is a construction
// error, unless a sequence wildcard among the operands makes the expanded
// count unknowable.
func (t *OperationType) Apply(operands ...Expression) (Expression, error) {
	flat := make([]Expression, 0, len(operands))
	for i, operand := range operands {
		if operand == nil {
			return nil, fmt.Errorf("Apply %s: operand %d is nil", t.name, i)
		}
		if t.associative {
			if sub, ok := operand.(*Operation); ok && sub.typ.Equal(t) && sub.constraint == nil {
				flat = append(flat, sub.operands...)
				continue
			}
		}
		flat = append(flat, operand)
	}

	if !containsSequenceWildcard(flat) {
		if t.arity.FixedSize && len(flat) != t.arity.MinCount {
			return nil, fmt.Errorf("Apply %s: arity %s requires exactly %d operands, got %d",
				t.name, t.arity, t.arity.MinCount, len(flat))
		}
		if !t.arity.FixedSize && len(flat) < t.arity.MinCount {
			return nil, fmt.Errorf("Apply %s: arity %s requires at least %d operands, got %d",
				t.name, t.arity, t.arity.MinCount, len(flat))
		}
	}

	return t.build(flat, nil), nil
}

// Must is like Apply but panics on a construction error. Intended for
// statically known expression shapes in tests and examples.
func (t *OperationType) Must(operands ...Expression) Expression {
	expr, err := t.Apply(operands...)
	if err != nil {
		panic(err)
	}
	return expr
}

// build finishes construction after flattening and validation. It is also
// the rebuild path used by Substitute and ReplaceAt, which re-apply the
// structural rules without re-validating arity.
func (t *OperationType) build(operands []Expression, constraint Constraint) Expression {
	if t.oneIdentity && len(operands) == 1 && !isSequencePattern(operands[0]) {
		return operands[0]
	}
	if t.commutative {
		sort.SliceStable(operands, func(i, j int) bool {
			return compareExpressions(operands[i], operands[j]) < 0
		})
	}

	op := &Operation{typ: t, operands: operands, constraint: constraint}
	op.symbols = Multiset{t.name: 1}
	op.variables = Multiset{}
	op.constant = true
	for _, operand := range operands {
		op.symbols = op.symbols.Union(operand.Symbols())
		op.variables = op.variables.Union(operand.Variables())
		if !operand.IsConstant() {
			op.constant = false
		}
	}
	return op
}

// rebuild re-applies the structural rules to a changed operand list. Arity
// is not re-validated: sequence splicing may legitimately change the count,
// and partial substitution must stay total.
func (t *OperationType) rebuild(operands []Expression, constraint Constraint) Expression {
	flat := make([]Expression, 0, len(operands))
	for _, operand := range operands {
		if t.associative {
			if sub, ok := operand.(*Operation); ok && sub.typ.Equal(t) && sub.constraint == nil {
				flat = append(flat, sub.operands...)
				continue
			}
		}
		flat = append(flat, operand)
	}
	return t.build(flat, constraint)
}

// Operation is a named head applied to an ordered operand sequence. For
// commutative types the stored order is canonical, making positional
// equality equivalent to multiset equality.
type Operation struct {
	typ        *OperationType
	operands   []Expression
	constraint Constraint

	symbols   Multiset
	variables Multiset
	constant  bool
}

// Type returns the operation's type descriptor.
func (o *Operation) Type() *OperationType { return o.typ }

// Operands returns the operand list. The returned slice is shared with the
// expression and must not be modified.
func (o *Operation) Operands() []Expression { return o.operands }

// Constraint returns the attached pattern constraint, or nil.
func (o *Operation) Constraint() Constraint { return o.constraint }

// WithConstraint returns a copy of the operation carrying the given
// constraint. The receiver is unchanged.
func (o *Operation) WithConstraint(c Constraint) *Operation {
	clone := *o
	clone.constraint = c
	return &clone
}

// String renders the operation as head(operand, ...).
func (o *Operation) String() string {
	var b strings.Builder
	b.WriteString(o.typ.name)
	b.WriteByte('(')
	for i, operand := range o.operands {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(operand.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Equal checks head and positional operand equality. Commutative operand
// lists are canonically ordered at construction, so this realizes multiset
// equality for commutative types.
func (o *Operation) Equal(other Expression) bool {
	oo, ok := other.(*Operation)
	if !ok || !o.typ.Equal(oo.typ) || len(o.operands) != len(oo.operands) {
		return false
	}
	if !constraintsEqual(o.constraint, oo.constraint) {
		return false
	}
	for i, operand := range o.operands {
		if !operand.Equal(oo.operands[i]) {
			return false
		}
	}
	return true
}

// IsConstant reports whether no operand subtree contains a wildcard.
func (o *Operation) IsConstant() bool { return o.constant }

// Symbols returns the multiset of symbol and head names in the subtree.
func (o *Operation) Symbols() Multiset { return o.symbols }

// Variables returns the multiset of variable names in the subtree.
func (o *Operation) Variables() Multiset { return o.variables }

// exprRank orders expression kinds for the canonical total order.
func exprRank(e Expression) int {
	switch e.(type) {
	case *Symbol:
		return 0
	case *Variable:
		return 1
	case *Wildcard:
		return 2
	case *Operation:
		return 3
	default:
		return 4
	}
}

// compareExpressions defines a deterministic total order over expressions.
// It exists so commutative operand lists have a canonical form; the order
// itself carries no semantic meaning.
func compareExpressions(a, b Expression) int {
	if ra, rb := exprRank(a), exprRank(b); ra != rb {
		return ra - rb
	}
	switch x := a.(type) {
	case *Symbol:
		y := b.(*Symbol)
		if c := strings.Compare(x.name, y.name); c != 0 {
			return c
		}
		return strings.Compare(fmt.Sprint(x.value), fmt.Sprint(y.value))
	case *Variable:
		y := b.(*Variable)
		if c := strings.Compare(x.name, y.name); c != 0 {
			return c
		}
		return compareExpressions(x.pattern, y.pattern)
	case *Wildcard:
		y := b.(*Wildcard)
		if x.minCount != y.minCount {
			return x.minCount - y.minCount
		}
		return boolCompare(x.fixedSize, y.fixedSize)
	case *Operation:
		y := b.(*Operation)
		if c := strings.Compare(x.typ.name, y.typ.name); c != 0 {
			return c
		}
		if len(x.operands) != len(y.operands) {
			return len(x.operands) - len(y.operands)
		}
		for i := range x.operands {
			if c := compareExpressions(x.operands[i], y.operands[i]); c != 0 {
				return c
			}
		}
		return 0
	default:
		return 0
	}
}

func boolCompare(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

// isSequencePattern reports whether the expression is a sequence wildcard or
// a variable (transitively) wrapping one. Sequence patterns can expand to
// zero or many operands, so they exempt fixed-size arity validation and
// block one-identity collapse.
func isSequencePattern(e Expression) bool {
	switch x := e.(type) {
	case *Wildcard:
		return !x.fixedSize
	case *Variable:
		return isSequencePattern(x.pattern)
	default:
		return false
	}
}

func containsSequenceWildcard(operands []Expression) bool {
	for _, operand := range operands {
		if isSequencePattern(operand) {
			return true
		}
	}
	return false
}
