package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
)

// Build reduces per-file results into a report. Counts are computed by
// iterating every violation of every file; renderings downstream are
// pure projections and never recompute them.
func Build(files []compliance.FileResult, waived int, generatedAt time.Time) compliance.Report {
	r := compliance.Report{
		GeneratedAt:  generatedAt,
		Waived:       waived,
		Version:      compliance.Version,
		TotalFiles:   len(files),
		FilesChecked: len(files),
		BySeverity: map[compliance.Severity]int{
			compliance.SeverityError:   0,
			compliance.SeverityWarning: 0,
			compliance.SeverityInfo:    0,
		},
		Files: files,
	}
	for _, f := range files {
		r.TotalViolations += len(f.Violations)
		for _, v := range f.Violations {
			r.BySeverity[v.Severity]++
		}
		switch f.Status {
		case compliance.StatusFail:
			r.Failed++
		case compliance.StatusWarning:
			r.Warned++
		default:
			r.Passed++
		}
	}
	r.Summary = summarize(r)
	return r
}

func summarize(r compliance.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Aviation compliance check: %d file(s)\n", r.FilesChecked)
	fmt.Fprintf(&b, "Violations: %d (errors: %d, warnings: %d, info: %d)\n",
		r.TotalViolations,
		r.BySeverity[compliance.SeverityError],
		r.BySeverity[compliance.SeverityWarning],
		r.BySeverity[compliance.SeverityInfo],
	)
	fmt.Fprintf(&b, "Files: %d passed, %d with warnings, %d failed", r.Passed, r.Warned, r.Failed)
	if r.Waived > 0 {
		fmt.Fprintf(&b, " (%d violation(s) waived)", r.Waived)
	}
	return b.String()
}
