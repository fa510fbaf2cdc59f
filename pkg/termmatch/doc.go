// Package termmatch provides structural pattern matching and term rewriting
// for symbolic expression trees in Go.
//
// A constant expression is matched against a pattern that may contain
// wildcards, including variable-length "sequence" wildcards, over operations
// that may be declared associative and/or commutative. Matching enumerates
// every substitution of pattern variables that makes the pattern structurally
// equal to the expression, subject to side-constraints. Substitutions can be
// applied back to a pattern to reconstruct an expression, and a rewrite
// driver applies replacement rules anywhere inside a tree until a fixed
// point is reached.
//
// The package offers:
//   - Expressions: Symbol, Operation (with arity and algebraic flags),
//     Wildcard and Variable pattern nodes
//   - Match: lazy, context-aware enumeration of substitutions
//   - Substitute: plugging bound values back into a pattern
//   - RuleSet / ReplaceAll: fixed-point rewriting over a rule list
//   - Constraints: side-conditions evaluated incrementally during matching
//
// This implementation is designed for production use with:
//   - Immutable expression trees that are safe to share across goroutines
//   - Lazy solution streams that can be abandoned early without leaks
//   - Context cancellation on every search entry point
//   - Comprehensive constructor validation and error handling
package termmatch

// Version represents the current version of the GoTermMatch implementation.
const Version = "0.1.0"

// VersionInfo provides detailed version information.
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetVersionInfo returns detailed version information.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GoVersion: "1.25+",
	}
}
