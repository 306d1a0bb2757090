package rules

import "github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"

// Rule is a single named compliance check executed over a document.
type Rule struct {
	ID          string
	Name        string
	Description string
	Category    compliance.Category
	Severity    compliance.Severity
	Regulation  string
	// Check inspects the raw document text and returns violations.
	// Checks are deterministic and side-effect-free; the filename is
	// passed through only for message context.
	Check func(content, filename string) []compliance.Violation
}
