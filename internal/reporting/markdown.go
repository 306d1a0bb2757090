package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
)

func severityIcon(s compliance.Severity) string {
	switch s {
	case compliance.SeverityError:
		return "❌"
	case compliance.SeverityWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

// Markdown renders the structured report grouping files by status:
// failed first, then warned, then passed. The projection reads counts
// from the report as-is.
func Markdown(r compliance.Report) string {
	var b strings.Builder

	b.WriteString("# Aviation Compliance Report\n\n")
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Files Checked: %d\n", r.FilesChecked)
	fmt.Fprintf(&b, "- Total Violations: %d\n", r.TotalViolations)
	fmt.Fprintf(&b, "- Errors: %d / Warnings: %d / Info: %d\n",
		r.BySeverity[compliance.SeverityError],
		r.BySeverity[compliance.SeverityWarning],
		r.BySeverity[compliance.SeverityInfo],
	)

	failed := filesWithStatus(r, compliance.StatusFail)
	warned := filesWithStatus(r, compliance.StatusWarning)
	passed := filesWithStatus(r, compliance.StatusPass)

	if len(failed) > 0 {
		b.WriteString("\n## Failed Files\n")
		writeFileSections(&b, failed)
	}
	if len(warned) > 0 {
		b.WriteString("\n## Files with Warnings\n")
		writeFileSections(&b, warned)
	}
	if len(passed) > 0 {
		b.WriteString("\n## Passed Files\n\n")
		for _, f := range passed {
			fmt.Fprintf(&b, "- %s\n", f.Filename)
		}
	}
	return b.String()
}

func writeFileSections(b *strings.Builder, files []compliance.FileResult) {
	for _, f := range files {
		fmt.Fprintf(b, "\n### %s\n\n", f.Filename)
		for _, v := range f.Violations {
			fmt.Fprintf(b, "- %s **%s** %s\n", severityIcon(v.Severity), v.RuleID, v.Message)
			fmt.Fprintf(b, "  - Regulation: %s\n", v.Regulation)
			if v.Suggestion != "" {
				fmt.Fprintf(b, "  - Suggestion: %s\n", v.Suggestion)
			}
		}
	}
}

func filesWithStatus(r compliance.Report, s compliance.Status) []compliance.FileResult {
	var out []compliance.FileResult
	for _, f := range r.Files {
		if f.Status == s {
			out = append(out, f)
		}
	}
	return out
}

// WriteMarkdown writes the markdown rendering next to the other report
// artifacts.
func WriteMarkdown(runID, outDir string, r *compliance.Report) (string, error) {
	path := filepath.Join(outDir, runID+".md")
	if err := os.WriteFile(path, []byte(Markdown(*r)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
