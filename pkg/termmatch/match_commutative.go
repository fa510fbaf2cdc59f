package termmatch

// Matching inside a commutative operation treats both child lists as
// unordered multisets. Pattern children are classified into constant
// sub-patterns (each consumes exactly one equal expression child), fixed
// single-slot patterns (dot variables, unnamed dot wildcards, operations
// containing variables), and sequence patterns (plus/star wildcards and
// variables, plus dot variables when the operation is also associative,
// whose spans are multisets rather than contiguous runs).

// exprGroup is a run of equal expression children. Commutative operand
// lists are canonically ordered at construction, so equal children are
// adjacent: grouping them collapses structurally interchangeable children
// into one entry, and no child is revisited in an equivalent role once a
// group has been tried.
type exprGroup struct {
	expr  Expression
	count int
}

func groupExpressions(exprs []Expression) []exprGroup {
	var groups []exprGroup
	for _, e := range exprs {
		if n := len(groups); n > 0 && groups[n-1].expr.Equal(e) {
			groups[n-1].count++
			continue
		}
		groups = append(groups, exprGroup{expr: e, count: 1})
	}
	return groups
}

func copyGroups(groups []exprGroup) []exprGroup {
	next := make([]exprGroup, len(groups))
	copy(next, groups)
	return next
}

func totalCount(groups []exprGroup) int {
	total := 0
	for _, g := range groups {
		total += g.count
	}
	return total
}

// patternHasConstraint reports whether any node of a pattern subtree
// carries an attached constraint. Constant patterns with constraints must
// go through the full matching path so the constraint is gated.
func patternHasConstraint(p Expression) bool {
	switch x := p.(type) {
	case *Variable:
		return x.constraint != nil || patternHasConstraint(x.pattern)
	case *Operation:
		if x.constraint != nil {
			return true
		}
		for _, operand := range x.operands {
			if patternHasConstraint(operand) {
				return true
			}
		}
	}
	return false
}

// matchCommutative searches for an assignment of the expression child
// multiset to the pattern children. Constant patterns are consumed first
// (deterministically, since equal children are interchangeable), fixed
// single-slot patterns are assigned by backtracking over distinct children,
// and sequence patterns partition the remaining multiset with all
// size-respecting splits enumerated.
func (m *matcher) matchCommutative(exprs, patterns []Expression, typ *OperationType, st matchState, sink func(matchState) bool) bool {
	if m.cancelled() {
		return false
	}

	var assoc *OperationType
	if typ.associative {
		assoc = typ
	}

	var constants, singles, sequences []Expression
	for _, p := range patterns {
		switch {
		case p.IsConstant() && !patternHasConstraint(p):
			constants = append(constants, p)
		case isUnboundedSpan(p, assoc):
			sequences = append(sequences, p)
		default:
			singles = append(singles, p)
		}
	}

	groups := groupExpressions(exprs)

	// Constant patterns: each must consume one equal child. All candidates
	// within a group are interchangeable, so the first hit is the only one
	// worth taking.
	for _, c := range constants {
		found := false
		for i := range groups {
			if groups[i].count > 0 && groups[i].expr.Equal(c) {
				groups[i].count--
				found = true
				break
			}
		}
		if !found {
			return true
		}
	}

	// Named sequence patterns enumerate submultisets; unnamed sequence
	// wildcards bind nothing, so they only need the leftover multiset to be
	// large enough for their minimum lengths.
	var namedSeqs []Expression
	unnamedMin := 0
	unnamedCount := 0
	for _, p := range sequences {
		if w, ok := p.(*Wildcard); ok {
			unnamedCount++
			unnamedMin += w.minCount
			continue
		}
		namedSeqs = append(namedSeqs, p)
	}

	var assignSequences func(idx int, groups []exprGroup, st matchState) bool
	assignSequences = func(idx int, groups []exprGroup, st matchState) bool {
		if m.cancelled() {
			return false
		}
		if idx == len(namedSeqs) {
			left := totalCount(groups)
			if left < unnamedMin {
				return true
			}
			if left > 0 && unnamedCount == 0 {
				return true
			}
			return sink(st)
		}

		p := namedSeqs[idx]
		min := minSpanLen(p, assoc)
		minRest := unnamedMin
		for _, q := range namedSeqs[idx+1:] {
			minRest += minSpanLen(q, assoc)
		}
		available := totalCount(groups)
		if available < min+minRest {
			return true
		}

		// Enumerate how many children this pattern takes from each group.
		takes := make([]int, len(groups))
		var choose func(gi, taken int) bool
		choose = func(gi, taken int) bool {
			if taken > available-minRest {
				return true
			}
			if gi == len(groups) {
				if taken < min {
					return true
				}
				span := make([]Expression, 0, taken)
				next := copyGroups(groups)
				for i := range groups {
					for k := 0; k < takes[i]; k++ {
						span = append(span, groups[i].expr)
					}
					next[i].count -= takes[i]
				}
				return m.matchSpan(span, p, st, assoc, func(bound matchState) bool {
					return assignSequences(idx+1, next, bound)
				})
			}
			for c := 0; c <= groups[gi].count; c++ {
				takes[gi] = c
				if !choose(gi+1, taken+c) {
					return false
				}
			}
			takes[gi] = 0
			return true
		}
		return choose(0, 0)
	}

	// Fixed single-slot patterns: backtrack over distinct children. Groups
	// dedupe equivalent candidates, so a failed candidate is never retried
	// in an equivalent role.
	var assignSingles func(idx int, groups []exprGroup, st matchState) bool
	assignSingles = func(idx int, groups []exprGroup, st matchState) bool {
		if m.cancelled() {
			return false
		}
		if idx == len(singles) {
			return assignSequences(0, groups, st)
		}
		p := singles[idx]
		for gi := range groups {
			if groups[gi].count == 0 {
				continue
			}
			candidate := groups[gi].expr
			if !spanMaySatisfy([]Expression{candidate}, p) {
				continue
			}
			next := copyGroups(groups)
			next[gi].count--
			cont := m.matchSpan([]Expression{candidate}, p, st, nil, func(bound matchState) bool {
				return assignSingles(idx+1, next, bound)
			})
			if !cont {
				return false
			}
		}
		return true
	}

	return assignSingles(0, groups, st)
}

// isUnboundedSpan reports whether the pattern child can consume a span of
// more than one expression in the given associative context.
func isUnboundedSpan(p Expression, assoc *OperationType) bool {
	_, unbounded := spanRange(p, assoc)
	return unbounded
}
