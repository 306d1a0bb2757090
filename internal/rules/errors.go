package rules

import "fmt"

// RuleExecutionError records a rule check that failed on one document.
// The failure is recovered locally: the rule contributes no violations
// for that document and the run continues.
type RuleExecutionError struct {
	RuleID   string
	Filename string
	Cause    error
}

func (e *RuleExecutionError) Error() string {
	return fmt.Sprintf("rule %s failed on %s: %v", e.RuleID, e.Filename, e.Cause)
}

func (e *RuleExecutionError) Unwrap() error { return e.Cause }
