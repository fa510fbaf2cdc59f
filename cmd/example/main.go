// Package main demonstrates basic termmatch usage patterns.
//
// This example shows how to build expressions and patterns, enumerate
// matches, apply substitutions, and rewrite to a fixed point.
package main

import (
	"context"
	"fmt"

	"github.com/gitrdm/gotermmatch/pkg/termmatch"
)

func main() {
	fmt.Println("=== GoTermMatch Examples ===")
	fmt.Println()

	basicMatching()
	sequenceWildcards()
	commutativeMatching()
	associativeAbsorption()
	constraints()
	rewriting()
	batchMatching()
}

// basicMatching demonstrates matching with dot variables.
func basicMatching() {
	fmt.Println("1. Basic Matching:")

	f := termmatch.NewOperationType("f", termmatch.ArityVariadic)
	a := termmatch.NewSymbol("a")
	b := termmatch.NewSymbol("b")

	// Match f(a, b) against f(x_, y_).
	pattern := f.Must(termmatch.Dot("x"), termmatch.Dot("y"))
	for _, s := range termmatch.MatchAll(f.Must(a, b), pattern) {
		fmt.Printf("   f(a, b) vs f(x_, y_) => %v\n", s)
	}

	// A repeated variable must bind the same value everywhere.
	same := f.Must(termmatch.Dot("x"), termmatch.Dot("x"))
	fmt.Printf("   f(a, a) vs f(x_, x_) => %v\n", termmatch.IsMatch(f.Must(a, a), same))
	fmt.Printf("   f(a, b) vs f(x_, x_) => %v\n", termmatch.IsMatch(f.Must(a, b), same))
	fmt.Println()
}

// sequenceWildcards demonstrates star and plus variables.
func sequenceWildcards() {
	fmt.Println("2. Sequence Wildcards:")

	f := termmatch.NewOperationType("f", termmatch.ArityVariadic)
	a := termmatch.NewSymbol("a")
	b := termmatch.NewSymbol("b")
	c := termmatch.NewSymbol("c")

	// Every split of (a, b, c) between two star variables.
	pattern := f.Must(termmatch.Star("x"), termmatch.Star("y"))
	for _, s := range termmatch.MatchAll(f.Must(a, b, c), pattern) {
		fmt.Printf("   f(a, b, c) vs f(x___, y___) => %v\n", s)
	}
	fmt.Println()
}

// commutativeMatching demonstrates multiset matching.
func commutativeMatching() {
	fmt.Println("3. Commutative Matching:")

	fc := termmatch.NewOperationType("fc", termmatch.ArityVariadic, termmatch.Commutative)
	a := termmatch.NewSymbol("a")
	b := termmatch.NewSymbol("b")
	c := termmatch.NewSymbol("c")

	// The constant b is found anywhere in the multiset; the star variable
	// absorbs the rest.
	pattern := fc.Must(b, termmatch.Star("rest"))
	for _, s := range termmatch.MatchAll(fc.Must(c, b, a), pattern) {
		fmt.Printf("   fc(c, b, a) vs fc(b, rest___) => %v\n", s)
	}
	fmt.Println()
}

// associativeAbsorption demonstrates a dot variable absorbing a run inside
// an associative operation.
func associativeAbsorption() {
	fmt.Println("4. Associative Absorption:")

	fa := termmatch.NewOperationType("fa", termmatch.ArityVariadic, termmatch.Associative)
	a := termmatch.NewSymbol("a")
	b := termmatch.NewSymbol("b")
	c := termmatch.NewSymbol("c")

	// Inside fa a dot variable may stand for a run, wrapped back in fa.
	pattern := fa.Must(a, termmatch.Dot("x"))
	for _, s := range termmatch.MatchAll(fa.Must(a, b, c), pattern) {
		fmt.Printf("   fa(a, b, c) vs fa(a, x_) => %v\n", s)
	}
	fmt.Println()
}

// constraints demonstrates side-conditions on matches.
func constraints() {
	fmt.Println("5. Constraints:")

	f := termmatch.NewOperationType("f", termmatch.ArityVariadic)
	a := termmatch.NewSymbol("a")
	b := termmatch.NewSymbol("b")

	// Keep only splits where both halves are equal.
	base := f.Must(termmatch.Star("x"), termmatch.Star("y")).(*termmatch.Operation)
	pattern := base.WithConstraint(termmatch.MustEqualVariables("x", "y"))

	subject := f.Must(a, b, a, b)
	for _, s := range termmatch.MatchAll(subject, pattern) {
		fmt.Printf("   f(a, b, a, b) vs f(x___, y___) where x == y => %v\n", s)
	}
	fmt.Println()
}

// rewriting demonstrates fixed-point rewriting with a rule set.
func rewriting() {
	fmt.Println("6. Rewriting:")

	plus := termmatch.NewOperationType("plus", termmatch.ArityVariadic,
		termmatch.Commutative, termmatch.Associative, termmatch.OneIdentity)
	zero := termmatch.NewValueSymbol("0", 0)
	x := termmatch.NewSymbol("x")
	y := termmatch.NewSymbol("y")

	// plus(0, rest...) -> plus(rest...)
	rules := []termmatch.ReplacementRule{{
		Pattern: plus.Must(zero, termmatch.Plus("rest")),
		Replacement: func(s *termmatch.Substitution) termmatch.Expression {
			rest, _ := s.Get("rest")
			expr, err := plus.Apply(rest.Expressions()...)
			if err != nil {
				return nil
			}
			return expr
		},
	}}

	subject := plus.Must(x, zero, plus.Must(y, zero))
	fmt.Printf("   before: %v\n", subject)
	fmt.Printf("   after:  %v\n", termmatch.ReplaceAll(subject, rules))
	fmt.Println()
}

// batchMatching demonstrates matching one pattern against many subjects on
// a worker pool.
func batchMatching() {
	fmt.Println("7. Batch Matching:")

	f := termmatch.NewOperationType("f", termmatch.ArityVariadic)
	a := termmatch.NewSymbol("a")
	b := termmatch.NewSymbol("b")
	c := termmatch.NewSymbol("c")

	pattern := f.Must(termmatch.Dot("x"), b)
	subjects := []termmatch.Expression{
		f.Must(a, b),
		f.Must(c, b),
		f.Must(a, c),
	}

	results := termmatch.MatchBatch(context.Background(), pattern, subjects,
		termmatch.WithWorkers(2))
	for i, subs := range results {
		fmt.Printf("   %v => %d match(es)\n", subjects[i], len(subs))
		for _, s := range subs {
			fmt.Printf("      %v\n", s)
		}
	}
	fmt.Println()
}
