package termmatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// ErrMaxSteps is returned by RuleSet.Apply when the configured rewrite step
// limit is exceeded before reaching a fixed point.
var ErrMaxSteps = errors.New("termmatch: rewrite step limit exceeded")

// ReplacementRule pairs a pattern with a replacement function that computes
// the new subterm from a matched substitution.
type ReplacementRule struct {
	Pattern     Expression
	Replacement func(*Substitution) Expression
}

// RuleSet is an ordered, validated collection of replacement rules driving
// fixed-point rewriting. The zero value is not usable; construct with
// NewRuleSet.
type RuleSet struct {
	rules    []ReplacementRule
	logger   zerolog.Logger
	maxSteps int
}

// RuleSetOption configures a RuleSet.
type RuleSetOption func(*RuleSet)

// WithLogger installs a structured logger that traces every rewrite step at
// debug level. The default is a no-op logger.
func WithLogger(logger zerolog.Logger) RuleSetOption {
	return func(rs *RuleSet) { rs.logger = logger }
}

// WithMaxSteps bounds the number of rewrite steps Apply performs before
// returning ErrMaxSteps. Zero or negative means unbounded, which leaves
// termination entirely to the caller's rule design.
func WithMaxSteps(n int) RuleSetOption {
	return func(rs *RuleSet) { rs.maxSteps = n }
}

// NewRuleSet validates the rules and builds a rule set. All rule problems
// are reported together in one aggregated error.
func NewRuleSet(rules []ReplacementRule, opts ...RuleSetOption) (*RuleSet, error) {
	var problems *multierror.Error
	for i, rule := range rules {
		if rule.Pattern == nil {
			problems = multierror.Append(problems, fmt.Errorf("rule %d: pattern cannot be nil", i))
		}
		if rule.Replacement == nil {
			problems = multierror.Append(problems, fmt.Errorf("rule %d: replacement cannot be nil", i))
		}
	}
	if err := problems.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("NewRuleSet: %w", err)
	}

	rs := &RuleSet{
		rules:  append([]ReplacementRule(nil), rules...),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs, nil
}

// Apply rewrites expr to a fixed point: it repeatedly scans the whole tree
// in preorder for the first position where some rule's pattern matches,
// replaces the subterm with the rule's computed replacement, and restarts
// the scan on the new tree. It returns when no rule matches anywhere.
//
// Termination is the caller's responsibility for rule sets without a
// decreasing measure; use WithMaxSteps or ctx as a safety net. On
// cancellation or step exhaustion the most recent intermediate tree is
// returned alongside the error.
func (rs *RuleSet) Apply(ctx context.Context, expr Expression) (Expression, error) {
	if expr == nil {
		return nil, fmt.Errorf("Apply: expression cannot be nil")
	}
	steps := 0
	for {
		select {
		case <-ctx.Done():
			return expr, ctx.Err()
		default:
		}

		pos, replacement, ruleIdx, found := rs.firstMatch(ctx, expr)
		if !found {
			return expr, nil
		}
		if rs.maxSteps > 0 && steps >= rs.maxSteps {
			return expr, ErrMaxSteps
		}
		steps++

		next, err := ReplaceAt(expr, pos, replacement)
		if err != nil {
			return expr, fmt.Errorf("Apply: step %d: %w", steps, err)
		}
		rs.logger.Debug().
			Int("step", steps).
			Int("rule", ruleIdx).
			Str("position", pos.String()).
			Str("before", expr.String()).
			Str("after", next.String()).
			Msg("rewrite step")
		expr = next
	}
}

// firstMatch finds the first (position, rule) pair in preorder where a rule
// matches, and computes the replacement subterm.
func (rs *RuleSet) firstMatch(ctx context.Context, expr Expression) (Position, Expression, int, bool) {
	var (
		pos         Position
		replacement Expression
		ruleIdx     int
		found       bool
	)
	Preorder(expr, func(sub Expression, p Position) bool {
		for i, rule := range rs.rules {
			stream := MatchContext(ctx, sub, rule.Pattern)
			subst, ok := stream.Next()
			stream.Close()
			if !ok {
				continue
			}
			repl := rule.Replacement(subst)
			if repl == nil {
				continue
			}
			pos = p.Copy()
			replacement = repl
			ruleIdx = i
			found = true
			return false
		}
		return true
	})
	return pos, replacement, ruleIdx, found
}

// ReplaceAll rewrites expr to a fixed point under the given rules with a
// background context. Invalid rules (nil pattern or replacement) are
// skipped. For cancellation, step limits, or rewrite tracing, build a
// RuleSet and call Apply.
func ReplaceAll(expr Expression, rules []ReplacementRule) Expression {
	valid := make([]ReplacementRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Pattern != nil && rule.Replacement != nil {
			valid = append(valid, rule)
		}
	}
	rs := &RuleSet{rules: valid, logger: zerolog.Nop()}
	result, err := rs.Apply(context.Background(), expr)
	if err != nil {
		return expr
	}
	return result
}
