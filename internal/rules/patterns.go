package rules

import (
	"fmt"
	"regexp"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
)

// field is one entry in a required-field or checklist rule: a detection
// pattern plus the human-readable name used in the violation message.
type field struct {
	name    string
	pattern *regexp.Regexp
	label   string
}

// meta carries the identity shared by every violation a rule emits.
type meta struct {
	ID          string
	Name        string
	Description string
	Category    compliance.Category
	Severity    compliance.Severity
	Regulation  string
}

func (m meta) violation(message, suggestion string) compliance.Violation {
	return compliance.Violation{
		RuleID:     m.ID,
		Message:    message,
		Severity:   m.Severity,
		Regulation: m.Regulation,
		Suggestion: suggestion,
	}
}

func (m meta) rule(check func(content, filename string) []compliance.Violation) Rule {
	return Rule{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		Severity:    m.Severity,
		Regulation:  m.Regulation,
		Check:       check,
	}
}

// requiredFieldsRule tests each field pattern independently against the
// full document text and emits one violation per missing field, all
// tagged with the same rule id and severity.
func requiredFieldsRule(m meta, fields []field) Rule {
	return m.rule(func(content, filename string) []compliance.Violation {
		var out []compliance.Violation
		for _, f := range fields {
			if f.pattern.MatchString(content) {
				continue
			}
			out = append(out, m.violation(
				fmt.Sprintf("Missing required field: %s", f.label),
				fmt.Sprintf("Add a %q entry to %s", f.label, filename),
			))
		}
		return out
	})
}

// statementRule emits exactly one violation when the pattern is absent
// from the document.
func statementRule(m meta, pattern *regexp.Regexp, message, suggestion string) Rule {
	return m.rule(func(content, filename string) []compliance.Violation {
		if pattern.MatchString(content) {
			return nil
		}
		return []compliance.Violation{m.violation(message, suggestion)}
	})
}

// conditionalRule gates a requirement behind a trigger: the violation is
// emitted only when the trigger matches and the requirement does not.
func conditionalRule(m meta, trigger, requires *regexp.Regexp, message, suggestion string) Rule {
	return m.rule(func(content, filename string) []compliance.Violation {
		if !trigger.MatchString(content) {
			return nil
		}
		if requires.MatchString(content) {
			return nil
		}
		return []compliance.Violation{m.violation(message, suggestion)}
	})
}

// checklistRule evaluates per-item patterns only when the outer gate
// matches; each missing item yields its own violation.
func checklistRule(m meta, gate *regexp.Regexp, items []field) Rule {
	return m.rule(func(content, filename string) []compliance.Violation {
		if !gate.MatchString(content) {
			return nil
		}
		var out []compliance.Violation
		for _, it := range items {
			if it.pattern.MatchString(content) {
				continue
			}
			out = append(out, m.violation(
				fmt.Sprintf("Missing required item: %s", it.label),
				fmt.Sprintf("Record %s with its value", it.label),
			))
		}
		return out
	})
}
