package termmatch

// Substitute renders a pattern (or any sub-expression) under a
// substitution. Named variables present in the substitution are replaced by
// their bound values; a sequence binding is spliced in place as multiple
// children of the surrounding operation, which is what reverses
// sequence-wildcard matching. An operation with at least one replaced child
// is rebuilt through its type's structural rules (associative flattening,
// canonical ordering, one-identity collapse).
//
// The result is dual-shaped, mirroring the sequence/single duality of
// bindings: substituting a pattern whose root is a sequence-bound variable
// yields a SeqBinding, every other case yields an ExprBinding. When nothing
// changed, the returned binding wraps the exact original node (same
// pointer) and replaced is false, so callers can cheaply detect no-ops.
//
// A variable with no substitution entry is left structurally unchanged:
// partial substitution is well-defined and is not an error.
func Substitute(pattern Expression, s *Substitution) (result Binding, replaced bool) {
	switch p := pattern.(type) {
	case *Variable:
		if b, ok := s.Get(p.name); ok {
			return b, true
		}
		inner, changed := Substitute(p.pattern, s)
		if !changed {
			return One(p), false
		}
		switch ib := inner.(type) {
		case ExprBinding:
			clone := *p
			clone.pattern = ib.Expr
			return One(&clone), true
		default:
			// The wrapped sub-pattern expanded to a sequence; the variable
			// wrapper cannot hold it, so the sequence propagates.
			return inner, true
		}

	case *Operation:
		changed := false
		operands := make([]Expression, 0, len(p.operands))
		for _, operand := range p.operands {
			b, rep := Substitute(operand, s)
			if rep {
				changed = true
			}
			operands = append(operands, b.Expressions()...)
		}
		if !changed {
			return One(p), false
		}
		return One(p.typ.rebuild(operands, p.constraint)), true

	default:
		// Symbols and unnamed wildcards substitute to themselves.
		return One(pattern), false
	}
}

// SubstituteExpr is Substitute restricted to the common case of a
// single-expression result. A sequence-shaped result of length one is
// unwrapped; any other sequence result is reported as not representable.
func SubstituteExpr(pattern Expression, s *Substitution) (Expression, bool, bool) {
	b, replaced := Substitute(pattern, s)
	switch bb := b.(type) {
	case ExprBinding:
		return bb.Expr, replaced, true
	case SeqBinding:
		if len(bb) == 1 {
			return bb[0], replaced, true
		}
		return nil, replaced, false
	default:
		return nil, replaced, false
	}
}
