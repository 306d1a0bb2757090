package reporting

import (
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
)

func WriteHTML(runID, outDir string, r *compliance.Report) (string, error) {
	path := filepath.Join(outDir, runID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fmt.Fprintf(f, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(runID))
	fmt.Fprint(f, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace} .fail{color:#b00} .warn{color:#b60} .pass{color:#070}</style>")
	fmt.Fprint(f, "</head><body>")

	fmt.Fprintf(f, "<h1>Aviation compliance report – <span class='mono'>%s</span></h1>", html.EscapeString(runID))
	fmt.Fprintf(f, "<p>Files checked: %d &nbsp; Violations: %d</p>", r.FilesChecked, r.TotalViolations)
	fmt.Fprintf(f, "<p><b>By severity</b>: errors=%d &nbsp; warnings=%d &nbsp; info=%d</p>",
		r.BySeverity[compliance.SeverityError],
		r.BySeverity[compliance.SeverityWarning],
		r.BySeverity[compliance.SeverityInfo],
	)
	fmt.Fprintf(f, "<p><span class='pass'>%d passed</span> &nbsp; <span class='warn'>%d with warnings</span> &nbsp; <span class='fail'>%d failed</span></p>",
		r.Passed, r.Warned, r.Failed)
	if r.Waived > 0 {
		fmt.Fprintf(f, "<p class='dim'>Waived violations: %d</p>", r.Waived)
	}

	if r.TotalViolations > 0 {
		fmt.Fprint(f, "<h2>All Violations</h2><table><tr><th>Severity</th><th>Rule</th><th>File</th><th>Message</th><th>Regulation</th></tr>")
		for _, fr := range r.Files {
			for _, v := range fr.Violations {
				fmt.Fprintf(f, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
					html.EscapeString(string(v.Severity)),
					html.EscapeString(v.RuleID),
					html.EscapeString(fr.Filename),
					html.EscapeString(v.Message),
					html.EscapeString(v.Regulation),
				)
			}
		}
		fmt.Fprint(f, "</table>")
	} else {
		fmt.Fprint(f, "<h2>All Violations</h2><p class='dim'>No violations found.</p>")
	}

	fmt.Fprint(f, "<h2>Files</h2><table><tr><th>Status</th><th>File</th><th>Violations</th></tr>")
	for _, fr := range r.Files {
		cls := "pass"
		switch fr.Status {
		case compliance.StatusFail:
			cls = "fail"
		case compliance.StatusWarning:
			cls = "warn"
		}
		fmt.Fprintf(f, "<tr><td class='%s'>%s</td><td>%s</td><td>%d</td></tr>",
			cls, html.EscapeString(string(fr.Status)), html.EscapeString(fr.Filename), len(fr.Violations))
	}
	fmt.Fprint(f, "</table>")

	fmt.Fprint(f, "</body></html>")
	return path, nil
}
