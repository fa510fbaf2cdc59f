package termmatch

import (
	"context"
)

// MatchContext matches a constant expression against a pattern and returns
// a lazy stream of every substitution that makes the pattern structurally
// equal to the expression. The stream is finite, not restartable, and safe
// to consume partially; Close abandons the remaining search. Cancelling ctx
// also terminates the search.
//
// The expression must be constant (contain no wildcards); a non-constant
// subject produces an empty stream. Non-matches are not errors: they simply
// produce no substitutions.
func MatchContext(ctx context.Context, expr, pattern Expression) *Stream {
	s := newStream()
	go func() {
		defer s.finish()
		if expr == nil || pattern == nil || !expr.IsConstant() {
			return
		}
		// A pattern can never match an expression missing a symbol the
		// pattern literally requires.
		if !expr.Symbols().Contains(pattern.Symbols()) {
			return
		}
		m := &matcher{ctx: ctx, emit: s.emit}
		m.matchSpan([]Expression{expr}, pattern, matchState{subst: NewSubstitution()}, nil, m.yield)
	}()
	return s
}

// Match is MatchContext with a background context.
func Match(expr, pattern Expression) *Stream {
	return MatchContext(context.Background(), expr, pattern)
}

// MatchAll eagerly collects every substitution for the match.
func MatchAll(expr, pattern Expression) []*Substitution {
	return Match(expr, pattern).All()
}

// IsMatch reports whether the pattern matches the expression at least once,
// abandoning the search after the first substitution.
func IsMatch(expr, pattern Expression) bool {
	s := Match(expr, pattern)
	_, ok := s.Next()
	s.Close()
	return ok
}

// matchState carries one backtracking branch's accumulated bindings and the
// deferred constraints whose declared variables are not all bound yet.
// States are value-copied between branches; the substitution inside is
// copy-on-write, so sibling branches never observe each other's bindings.
type matchState struct {
	subst   *Substitution
	pending []Constraint
}

// constraintReady reports whether every declared variable of c is bound.
func constraintReady(c Constraint, s *Substitution) bool {
	if c.ReadsWhole() {
		return false
	}
	for _, name := range c.DeclaredVariables() {
		if _, ok := s.Get(name); !ok {
			return false
		}
	}
	return true
}

// bind extends the branch with a variable binding, failing on an unequal
// rebinding, and re-evaluates deferred constraints that became ready.
func (st matchState) bind(name string, b Binding) (matchState, bool) {
	next, ok := st.subst.Bind(name, b)
	if !ok {
		return st, false
	}
	if next == st.subst {
		// Already bound to an equal value; nothing new came into scope.
		return st, true
	}
	st.subst = next
	return st.recheckPending()
}

func (st matchState) recheckPending() (matchState, bool) {
	if len(st.pending) == 0 {
		return st, true
	}
	remaining := make([]Constraint, 0, len(st.pending))
	for _, c := range st.pending {
		if constraintReady(c, st.subst) {
			if !c.Satisfied(st.subst) {
				return st, false
			}
			continue
		}
		remaining = append(remaining, c)
	}
	st.pending = remaining
	return st, true
}

// withConstraint attaches a pattern node's constraint to the branch:
// members ready for evaluation are checked immediately, the rest are
// deferred until their declared variables are bound.
func (st matchState) withConstraint(c Constraint) (matchState, bool) {
	for _, member := range flattenConstraint(c) {
		if constraintReady(member, st.subst) {
			if !member.Satisfied(st.subst) {
				return st, false
			}
			continue
		}
		pending := make([]Constraint, len(st.pending), len(st.pending)+1)
		copy(pending, st.pending)
		st.pending = append(pending, member)
	}
	return st, true
}

// matcher drives one matching call. emit hands a completed substitution to
// the consumer and returns false when the consumer stopped the stream; that
// false propagates up through every enumeration loop to unwind the search.
type matcher struct {
	ctx  context.Context
	emit func(*Substitution) bool
}

func (m *matcher) cancelled() bool {
	select {
	case <-m.ctx.Done():
		return true
	default:
		return false
	}
}

// yield finalizes a branch: catch-all constraints see the complete
// substitution now, and deferred constraints whose variables never came
// into scope are vacuously satisfied.
func (m *matcher) yield(st matchState) bool {
	for _, c := range st.pending {
		if c.ReadsWhole() && !c.Satisfied(st.subst) {
			return true
		}
	}
	return m.emit(st.subst)
}

// matchSpan matches a contiguous span of expressions against one pattern
// node, invoking sink for every consistent state extension. assoc is the
// surrounding associative operation type, if any; inside such an operation
// a dot variable may absorb a run of children, which is wrapped back into
// the operation head when bound.
//
// The return value is false only when the consumer aborted the search.
func (m *matcher) matchSpan(span []Expression, pattern Expression, st matchState, assoc *OperationType, sink func(matchState) bool) bool {
	if m.cancelled() {
		return false
	}
	switch p := pattern.(type) {
	case *Symbol:
		if len(span) == 1 && p.Equal(span[0]) {
			return sink(st)
		}
		return true

	case *Wildcard:
		if spanAccepted(p, len(span), assoc) {
			return sink(st)
		}
		return true

	case *Variable:
		return m.matchSpan(span, p.pattern, st, assoc, func(inner matchState) bool {
			next, ok := inner.bind(p.name, spanBinding(p.pattern, span, assoc))
			if !ok {
				return true
			}
			next, ok = next.withConstraint(p.constraint)
			if !ok {
				return true
			}
			return sink(next)
		})

	case *Operation:
		if len(span) != 1 {
			return true
		}
		op, ok := span[0].(*Operation)
		if !ok || !op.typ.Equal(p.typ) {
			return true
		}
		if !op.symbols.Contains(p.Symbols()) {
			return true
		}
		gate := func(done matchState) bool {
			next, ok := done.withConstraint(p.constraint)
			if !ok {
				return true
			}
			return sink(next)
		}
		if p.typ.commutative {
			return m.matchCommutative(op.operands, p.operands, p.typ, st, gate)
		}
		var inner *OperationType
		if p.typ.associative {
			inner = p.typ
		}
		return m.matchSequence(op.operands, p.operands, inner, st, gate)
	}
	return true
}

// matchSequence carves an ordered child sequence into contiguous spans, one
// per pattern child, left to right. The leftmost flexible pattern tries the
// shortest span first, backtracking on failure of a later position.
func (m *matcher) matchSequence(exprs, patterns []Expression, assoc *OperationType, st matchState, sink func(matchState) bool) bool {
	if m.cancelled() {
		return false
	}
	if len(patterns) == 0 {
		if len(exprs) == 0 {
			return sink(st)
		}
		return true
	}

	p, rest := patterns[0], patterns[1:]
	minRest := 0
	for _, q := range rest {
		minRest += minSpanLen(q, assoc)
	}
	min, unbounded := spanRange(p, assoc)
	max := min
	if unbounded {
		max = len(exprs) - minRest
	} else if max > len(exprs)-minRest {
		return true
	}

	for n := min; n <= max; n++ {
		span := exprs[:n:n]
		if !spanMaySatisfy(span, p) {
			continue
		}
		cont := m.matchSpan(span, p, st, assoc, func(next matchState) bool {
			return m.matchSequence(exprs[n:], rest, assoc, next, sink)
		})
		if !cont {
			return false
		}
	}
	return true
}

// spanAccepted reports whether a wildcard accepts a span of length n.
// Inside an associative operation a fixed-size wildcard reached through a
// variable may absorb a longer run; span lengths are controlled by the
// enumeration in matchSequence, so the check is permissive there.
func spanAccepted(w *Wildcard, n int, assoc *OperationType) bool {
	if n < w.minCount {
		return false
	}
	return !w.fixedSize || n == w.minCount || assoc != nil
}

// spanRange returns the minimum span length for a pattern child and whether
// the span length is unbounded above.
func spanRange(p Expression, assoc *OperationType) (int, bool) {
	switch x := p.(type) {
	case *Wildcard:
		return x.minCount, !x.fixedSize
	case *Variable:
		min, unbounded := spanRange(x.pattern, assoc)
		if !unbounded && assoc != nil {
			if w := innermostWildcard(x.pattern); w != nil && w.fixedSize {
				// Associative context: a named dot variable absorbs a run.
				return min, true
			}
		}
		return min, unbounded
	default:
		return 1, false
	}
}

func minSpanLen(p Expression, assoc *OperationType) int {
	min, _ := spanRange(p, assoc)
	return min
}

// innermostWildcard walks through variable wrappers to the wildcard leaf,
// or nil when the pattern bottoms out in a symbol or operation.
func innermostWildcard(e Expression) *Wildcard {
	switch x := e.(type) {
	case *Wildcard:
		return x
	case *Variable:
		return innermostWildcard(x.pattern)
	default:
		return nil
	}
}

// spanBinding shapes the value a variable binds for a matched span: a
// sequence for plus/star variables, the single expression for a length-one
// span, and the span wrapped in the associative operation head for a dot
// variable that absorbed a run.
func spanBinding(inner Expression, span []Expression, assoc *OperationType) Binding {
	if w := innermostWildcard(inner); w != nil && !w.fixedSize {
		return Seq(span...)
	}
	if len(span) == 1 {
		return One(span[0])
	}
	if assoc != nil {
		operands := make([]Expression, len(span))
		copy(operands, span)
		return One(assoc.rebuild(operands, nil))
	}
	return Seq(span...)
}

// spanMaySatisfy is the symbol-multiset prune: a span whose aggregate
// symbol multiset cannot cover the pattern's required symbols can never
// match it.
func spanMaySatisfy(span []Expression, p Expression) bool {
	req := p.Symbols()
	if len(req) == 0 {
		return true
	}
	have := Multiset{}
	for _, e := range span {
		have = have.Union(e.Symbols())
	}
	return have.Contains(req)
}
