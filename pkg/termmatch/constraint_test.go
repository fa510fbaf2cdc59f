package termmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualVariablesConstraintConstruction(t *testing.T) {
	c, err := NewEqualVariablesConstraint("y", "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, c.DeclaredVariables(), "names should be sorted")
	assert.False(t, c.ReadsWhole())

	_, err = NewEqualVariablesConstraint("x")
	assert.Error(t, err, "a single name cannot be pairwise constrained")

	_, err = NewEqualVariablesConstraint("x", "x")
	assert.Error(t, err, "duplicates collapse, leaving fewer than two names")

	_, err = NewEqualVariablesConstraint("x", "")
	assert.Error(t, err, "an empty name is rejected")

	assert.Panics(t, func() { MustEqualVariables("x") })
}

func TestEqualVariablesConstraintSatisfied(t *testing.T) {
	c := MustEqualVariables("x", "y")

	tests := []struct {
		name  string
		subst *Substitution
		want  bool
	}{
		{"equal expressions", ms("x", One(symA), "y", One(symA)), true},
		{"unequal expressions", ms("x", One(symA), "y", One(symB)), false},
		{"equal sequences", ms("x", Seq(symA, symB), "y", Seq(symA, symB)), true},
		{"unequal sequences", ms("x", Seq(symA, symB), "y", Seq(symB, symA)), false},
		{"single equals one-element sequence", ms("x", One(symA), "y", Seq(symA)), true},
		{"single differs from longer sequence", ms("x", One(symA), "y", Seq(symA, symA)), false},
		{"unbound name fails", ms("x", One(symA)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Satisfied(tt.subst))
		})
	}
}

func TestPredicateConstraintConstruction(t *testing.T) {
	pred := func(args map[string]Binding) bool { return true }

	c, err := NewPredicateConstraint(pred, "y", "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, c.DeclaredVariables())
	assert.False(t, c.ReadsWhole())

	_, err = NewPredicateConstraint(nil, "x")
	assert.Error(t, err)
	_, err = NewPredicateConstraint(pred)
	assert.Error(t, err)
	_, err = NewPredicateConstraint(pred, "")
	assert.Error(t, err)
	_, err = NewPredicateConstraint(pred, "x", "x")
	assert.Error(t, err)

	whole, err := NewCatchAllConstraint(func(s *Substitution) bool { return true })
	require.NoError(t, err)
	assert.True(t, whole.ReadsWhole())
	assert.Nil(t, whole.DeclaredVariables())

	_, err = NewCatchAllConstraint(nil)
	assert.Error(t, err)
}

func TestPredicateConstraintSatisfied(t *testing.T) {
	isSymbolA, err := NewPredicateConstraint(func(args map[string]Binding) bool {
		return args["x"].Equal(One(symA))
	}, "x")
	require.NoError(t, err)

	assert.True(t, isSymbolA.Satisfied(ms("x", One(symA))))
	assert.False(t, isSymbolA.Satisfied(ms("x", One(symB))))
	assert.False(t, isSymbolA.Satisfied(ms()), "an unbound parameter fails")
}

func TestCombineConstraints(t *testing.T) {
	xy := MustEqualVariables("x", "y")
	xz := MustEqualVariables("x", "z")

	assert.Nil(t, CombineConstraints(), "no constraints combine to nil")
	assert.Nil(t, CombineConstraints(nil, nil))
	assert.Equal(t, Constraint(xy), CombineConstraints(xy), "a singleton degrades to its member")
	assert.Equal(t, Constraint(xy), CombineConstraints(xy, nil, xy), "duplicates are dropped")

	combined := CombineConstraints(xy, xz)
	mc, ok := combined.(*MultiConstraint)
	require.True(t, ok)
	assert.Len(t, mc.Members(), 2)
	assert.ElementsMatch(t, []string{"x", "y", "z"}, mc.DeclaredVariables())

	// Nested multi-constraints are absorbed into one flat set.
	nested := CombineConstraints(combined, MustEqualVariables("y", "z"))
	mc, ok = nested.(*MultiConstraint)
	require.True(t, ok)
	assert.Len(t, mc.Members(), 3)

	// Equality is order-insensitive.
	assert.True(t, CombineConstraints(xy, xz).Equal(CombineConstraints(xz, xy)))
	assert.False(t, CombineConstraints(xy, xz).Equal(xy))
}

func TestConstraintGatedMatch(t *testing.T) {
	// f(x_, y_) against f(a, a) with x == y: kept. Against f(a, b): pruned.
	pattern := opF.Must(varX, varY).(*Operation).WithConstraint(MustEqualVariables("x", "y"))

	assert.Equal(t,
		[]string{"{x -> a, y -> a}"},
		substStrings(MatchAll(opF.Must(symA, symA), pattern)))
	assert.Empty(t, MatchAll(opF.Must(symA, symB), pattern))
}

func TestConstraintPrunesEnumeration(t *testing.T) {
	// f(x___, y___) over f(a, b, a, b) yields 5 splits; requiring x == y
	// keeps exactly the even split.
	pattern := opF.Must(starX, starY).(*Operation).WithConstraint(MustEqualVariables("x", "y"))
	results := MatchAll(opF.Must(symA, symB, symA, symB), pattern)
	require.Len(t, results, 1)
	b, ok := results[0].Get("x")
	require.True(t, ok)
	assert.True(t, b.Equal(Seq(symA, symB)))
}

func TestPredicateConstraintGatedMatch(t *testing.T) {
	bindsSymbol, err := NewPredicateConstraint(func(args map[string]Binding) bool {
		eb, ok := args["x"].(ExprBinding)
		if !ok {
			return false
		}
		_, isSym := eb.Expr.(*Symbol)
		return isSym
	}, "x")
	require.NoError(t, err)

	pattern := opF.Must(varX).(*Operation).WithConstraint(bindsSymbol)
	assert.True(t, IsMatch(opF.Must(symA), pattern))
	assert.False(t, IsMatch(opF.Must(opF2.Must(symA)), pattern))
}

func TestCatchAllConstraintEvaluatedPerMatch(t *testing.T) {
	evaluations := 0
	noEmpty, err := NewCatchAllConstraint(func(s *Substitution) bool {
		evaluations++
		for _, name := range s.Names() {
			b, _ := s.Get(name)
			if seq, ok := b.(SeqBinding); ok && len(seq) == 0 {
				return false
			}
		}
		return true
	})
	require.NoError(t, err)

	pattern := opF.Must(starX, starY).(*Operation).WithConstraint(noEmpty)
	results := MatchAll(opF.Must(symA, symB), pattern)
	require.Len(t, results, 1, "only the split with both halves non-empty survives")
	assert.Equal(t, 3, evaluations, "the catch-all runs once per structural match")
}

func TestVacuousConstraint(t *testing.T) {
	// The constrained variables never come into scope on this branch; the
	// constraint is vacuously satisfied.
	pattern := opF.Must(symA).(*Operation).WithConstraint(MustEqualVariables("p", "q"))
	assert.True(t, IsMatch(opF.Must(symA), pattern))
}

func TestVariableConstraint(t *testing.T) {
	// A constraint can also ride on a variable itself.
	isA, err := NewPredicateConstraint(func(args map[string]Binding) bool {
		return args["x"].Equal(One(symA))
	}, "x")
	require.NoError(t, err)

	constrained := varX.WithConstraint(isA)
	assert.True(t, IsMatch(opF.Must(symA, symB), opF.Must(constrained, varY)))
	assert.False(t, IsMatch(opF.Must(symB, symA), opF.Must(constrained, varY)))
}
