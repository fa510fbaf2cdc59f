package termmatch

import (
	"fmt"
	"strconv"
	"strings"
)

// Position addresses a subterm as the operand-index path from the root. The
// empty position addresses the root itself.
type Position []int

// String renders the path as dot-separated indices, "ε" for the root.
func (p Position) String() string {
	if len(p) == 0 {
		return "ε"
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

// Copy returns an independent copy of the position.
func (p Position) Copy() Position {
	c := make(Position, len(p))
	copy(c, p)
	return c
}

// Preorder visits every subterm of expr in preorder (root first, operands
// left to right), passing each subterm and its position. Returning false
// from visit stops the traversal.
func Preorder(expr Expression, visit func(Expression, Position) bool) {
	preorderWalk(expr, Position{}, visit)
}

func preorderWalk(expr Expression, pos Position, visit func(Expression, Position) bool) bool {
	if !visit(expr, pos) {
		return false
	}
	if op, ok := expr.(*Operation); ok {
		for i, operand := range op.operands {
			if !preorderWalk(operand, append(pos.Copy(), i), visit) {
				return false
			}
		}
	}
	return true
}

// SubexpressionAt returns the subterm addressed by pos.
func SubexpressionAt(expr Expression, pos Position) (Expression, error) {
	current := expr
	for depth, idx := range pos {
		op, ok := current.(*Operation)
		if !ok {
			return nil, fmt.Errorf("SubexpressionAt: position %s leaves the tree at depth %d", pos, depth)
		}
		if idx < 0 || idx >= len(op.operands) {
			return nil, fmt.Errorf("SubexpressionAt: index %d out of range at depth %d (operation %s has %d operands)",
				idx, depth, op.typ.name, len(op.operands))
		}
		current = op.operands[idx]
	}
	return current, nil
}

// ReplaceAt returns a new expression with the subterm at pos replaced. The
// input tree is unchanged; the spine above the replacement is rebuilt
// through each operation type's structural rules, so positions computed on
// the input are not meaningful in the result.
func ReplaceAt(expr Expression, pos Position, replacement Expression) (Expression, error) {
	if replacement == nil {
		return nil, fmt.Errorf("ReplaceAt: replacement cannot be nil")
	}
	if len(pos) == 0 {
		return replacement, nil
	}
	op, ok := expr.(*Operation)
	if !ok {
		return nil, fmt.Errorf("ReplaceAt: position %s leaves the tree", pos)
	}
	idx := pos[0]
	if idx < 0 || idx >= len(op.operands) {
		return nil, fmt.Errorf("ReplaceAt: index %d out of range (operation %s has %d operands)",
			idx, op.typ.name, len(op.operands))
	}
	child, err := ReplaceAt(op.operands[idx], pos[1:], replacement)
	if err != nil {
		return nil, err
	}
	operands := make([]Expression, len(op.operands))
	copy(operands, op.operands)
	operands[idx] = child
	return op.typ.rebuild(operands, op.constraint), nil
}

// SubtermMatch is one result of MatchAnywhere: a substitution together with
// the position of the matched subterm.
type SubtermMatch struct {
	Substitution *Substitution
	Position     Position
}

// MatchAnywhere matches the pattern against every subterm of expr in
// preorder and returns all (substitution, position) pairs.
func MatchAnywhere(expr, pattern Expression) []SubtermMatch {
	var results []SubtermMatch
	Preorder(expr, func(sub Expression, pos Position) bool {
		for _, subst := range MatchAll(sub, pattern) {
			results = append(results, SubtermMatch{Substitution: subst, Position: pos.Copy()})
		}
		return true
	})
	return results
}
