package termmatch

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRuleSetValidation(t *testing.T) {
	identity := func(s *Substitution) Expression { return symA }

	_, err := NewRuleSet([]ReplacementRule{
		{Pattern: varX, Replacement: identity},
	})
	assert.NoError(t, err)

	_, err = NewRuleSet([]ReplacementRule{
		{Pattern: nil, Replacement: identity},
		{Pattern: varX, Replacement: nil},
	})
	require.Error(t, err)
	// Both problems are reported in one aggregated error.
	assert.Contains(t, err.Error(), "rule 0: pattern cannot be nil")
	assert.Contains(t, err.Error(), "rule 1: replacement cannot be nil")
}

func TestRuleSetApplyFixedPoint(t *testing.T) {
	// Rewrite f2(x_) to its operand until no wrapper remains.
	unwrap := []ReplacementRule{{
		Pattern: opF2.Must(varX),
		Replacement: func(s *Substitution) Expression {
			b, _ := s.Get("x")
			return b.(ExprBinding).Expr
		},
	}}
	rs, err := NewRuleSet(unwrap)
	require.NoError(t, err)

	got, err := rs.Apply(context.Background(), opF2.Must(opF2.Must(opF2.Must(symA))))
	require.NoError(t, err)
	assert.True(t, got.Equal(symA), "nested wrappers should unwrap to the leaf, got %s", got)

	// A tree the rules never touch is returned unchanged.
	untouched := opF.Must(symA, symB)
	got, err = rs.Apply(context.Background(), untouched)
	require.NoError(t, err)
	assert.Equal(t, Expression(untouched), got)
}

func TestRuleSetApplyInnerSubterm(t *testing.T) {
	// The scan finds matches below the root and rebuilds the spine.
	toB := []ReplacementRule{{
		Pattern:     symA,
		Replacement: func(s *Substitution) Expression { return symB },
	}}
	rs, err := NewRuleSet(toB)
	require.NoError(t, err)

	got, err := rs.Apply(context.Background(), opF.Must(symA, opF2.Must(symA, symC)))
	require.NoError(t, err)
	want := opF.Must(symB, opF2.Must(symB, symC))
	assert.True(t, got.Equal(want), "got %s, want %s", got, want)
}

func TestRuleSetRuleOrder(t *testing.T) {
	// At the same position the earlier rule wins.
	rules := []ReplacementRule{
		{Pattern: symA, Replacement: func(s *Substitution) Expression { return symB }},
		{Pattern: symA, Replacement: func(s *Substitution) Expression { return symC }},
	}
	rs, err := NewRuleSet(rules)
	require.NoError(t, err)

	got, err := rs.Apply(context.Background(), symA)
	require.NoError(t, err)
	assert.True(t, got.Equal(symB))
}

func TestRuleSetMaxSteps(t *testing.T) {
	// a -> b -> a never reaches a fixed point; the step limit cuts it off.
	flip := []ReplacementRule{
		{Pattern: symA, Replacement: func(s *Substitution) Expression { return symB }},
		{Pattern: symB, Replacement: func(s *Substitution) Expression { return symA }},
	}
	rs, err := NewRuleSet(flip, WithMaxSteps(5))
	require.NoError(t, err)

	got, err := rs.Apply(context.Background(), symA)
	assert.ErrorIs(t, err, ErrMaxSteps)
	assert.NotNil(t, got, "the intermediate tree is returned alongside the error")
}

func TestRuleSetContextCancellation(t *testing.T) {
	flip := []ReplacementRule{
		{Pattern: symA, Replacement: func(s *Substitution) Expression { return symB }},
		{Pattern: symB, Replacement: func(s *Substitution) Expression { return symA }},
	}
	rs, err := NewRuleSet(flip)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = rs.Apply(ctx, symA)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRuleSetNilReplacementSkipsRule(t *testing.T) {
	// A replacement function returning nil declines the match; the scan
	// moves on instead of rewriting.
	rules := []ReplacementRule{
		{Pattern: varX, Replacement: func(s *Substitution) Expression { return nil }},
		{Pattern: symA, Replacement: func(s *Substitution) Expression { return symB }},
	}
	rs, err := NewRuleSet(rules)
	require.NoError(t, err)

	got, err := rs.Apply(context.Background(), symA)
	require.NoError(t, err)
	assert.True(t, got.Equal(symB))
}

func TestRuleSetLogging(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	rs, err := NewRuleSet([]ReplacementRule{
		{Pattern: symA, Replacement: func(s *Substitution) Expression { return symB }},
	}, WithLogger(logger))
	require.NoError(t, err)

	_, err = rs.Apply(context.Background(), opF.Must(symA, symC))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"message":"rewrite step"`)
	assert.Contains(t, out, `"position":"0"`)
	assert.Contains(t, out, `"before":"f(a, c)"`)
	assert.Contains(t, out, `"after":"f(b, c)"`)
}

func TestReplaceAll(t *testing.T) {
	unwrap := []ReplacementRule{{
		Pattern: opF2.Must(varX),
		Replacement: func(s *Substitution) Expression {
			b, _ := s.Get("x")
			return b.(ExprBinding).Expr
		},
	}}
	got := ReplaceAll(opF.Must(opF2.Must(symA), opF2.Must(opF2.Must(symB))), unwrap)
	assert.True(t, got.Equal(opF.Must(symA, symB)), "got %s", got)

	// Invalid rules are skipped rather than failing the whole call.
	withInvalid := append([]ReplacementRule{{Pattern: nil, Replacement: nil}}, unwrap...)
	got = ReplaceAll(opF2.Must(symA), withInvalid)
	assert.True(t, got.Equal(symA))
}

func TestReplaceAllSimplification(t *testing.T) {
	// x + 0 -> x and x * 1 -> x over a small arithmetic tree.
	plus := NewOperationType("plus", ArityVariadic, Commutative, Associative, OneIdentity)
	times := NewOperationType("times", ArityVariadic, Commutative, Associative, OneIdentity)
	zero := NewValueSymbol("0", 0)
	one := NewValueSymbol("1", 1)

	rules := []ReplacementRule{
		{
			Pattern: plus.Must(zero, Plus("rest")),
			Replacement: func(s *Substitution) Expression {
				b, _ := s.Get("rest")
				return mustRebuild(plus, b.Expressions())
			},
		},
		{
			Pattern: times.Must(one, Plus("rest")),
			Replacement: func(s *Substitution) Expression {
				b, _ := s.Get("rest")
				return mustRebuild(times, b.Expressions())
			},
		},
	}

	// (a * 1) + 0 + b simplifies to a + b.
	expr := plus.Must(times.Must(symA, one), zero, symB)
	got := ReplaceAll(expr, rules)
	assert.True(t, got.Equal(plus.Must(symA, symB)), "got %s", got)
}

// mustRebuild reassembles an operand sequence under the given head, letting
// one-identity collapse single operands.
func mustRebuild(typ *OperationType, operands []Expression) Expression {
	expr, err := typ.Apply(operands...)
	if err != nil {
		panic(err)
	}
	return expr
}
