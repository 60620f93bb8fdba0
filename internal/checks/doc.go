// Package checks defines the error taxonomy shared by the overseer analyzers.
//
// Every analyzer check produces either a passing CheckResult or a Failure tagged
// with a Kind, so callers aggregate typed outcomes instead of inspecting text.
package checks
