package compliance

import "time"

const Version = "1.0"

// Severity is the compliance impact of a single violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rank orders severities: error > warning > info. Unknown values rank
// lowest so they can never escalate a file's status.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	}
	return 0
}

// Status is the per-file roll-up of its violations' severities.
type Status string

const (
	StatusPass    Status = "PASS"
	StatusWarning Status = "WARNING"
	StatusFail    Status = "FAIL"
)

// Category groups rules by regulatory domain.
type Category string

const (
	CategoryMaintenance   Category = "maintenance"
	CategoryPilotLog      Category = "pilot-log"
	CategoryAirworthiness Category = "airworthiness"
	CategoryWeightBalance Category = "weight-balance"
)

// Categories lists every known category in catalog order.
func Categories() []Category {
	return []Category{
		CategoryMaintenance,
		CategoryPilotLog,
		CategoryAirworthiness,
		CategoryWeightBalance,
	}
}

// Document is one scanned input: a filename and its raw text.
type Document struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Violation is a single detected non-compliance instance. Violations
// are value objects: created by a rule check, collected, never mutated.
type Violation struct {
	RuleID     string   `json:"rule_id"`
	Line       int      `json:"line,omitempty"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	Regulation string   `json:"regulation"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// FileResult holds everything found for one document. Violations keep
// rule-evaluation order so identical inputs always render identically.
type FileResult struct {
	Filename   string      `json:"filename"`
	Violations []Violation `json:"violations,omitempty"`
	Status     Status      `json:"status"`
}

// StatusFor derives a file status from its violations. Error dominates
// warning dominates info; info alone never lifts a file out of PASS.
func StatusFor(violations []Violation) Status {
	status := StatusPass
	for _, v := range violations {
		switch v.Severity {
		case SeverityError:
			return StatusFail
		case SeverityWarning:
			status = StatusWarning
		}
	}
	return status
}

// Report aggregates all file results for one run.
type Report struct {
	ID              string           `json:"id"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Source          string           `json:"source,omitempty"`
	Version         string           `json:"version,omitempty"`
	TotalFiles      int              `json:"total_files"`
	FilesChecked    int              `json:"files_checked"`
	TotalViolations int              `json:"total_violations"`
	BySeverity      map[Severity]int `json:"by_severity"`
	Passed          int              `json:"passed"`
	Warned          int              `json:"warned"`
	Failed          int              `json:"failed"`
	Waived          int              `json:"waived,omitempty"`
	Files           []FileResult     `json:"files"`
	Summary         string           `json:"summary"`
}
