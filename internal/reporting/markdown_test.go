package reporting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
)

func TestMarkdownSectionOrder(t *testing.T) {
	r := Build(sampleFiles(), 0, time.Now())
	md := Markdown(r)

	title := strings.Index(md, "# Aviation Compliance Report")
	summary := strings.Index(md, "## Summary")
	failed := strings.Index(md, "## Failed Files")
	warned := strings.Index(md, "## Files with Warnings")
	passed := strings.Index(md, "## Passed Files")

	require.GreaterOrEqual(t, title, 0)
	assert.Less(t, title, summary)
	assert.Less(t, summary, failed)
	assert.Less(t, failed, warned)
	assert.Less(t, warned, passed)
}

func TestMarkdownContent(t *testing.T) {
	r := Build(sampleFiles(), 0, time.Now())
	md := Markdown(r)

	assert.Contains(t, md, "- Files Checked: 3")
	assert.Contains(t, md, "- Total Violations: 4")
	assert.Contains(t, md, "- Errors: 2 / Warnings: 1 / Info: 0")

	assert.Contains(t, md, "### bad.md")
	assert.Contains(t, md, "- ❌ **MAINT-001** Missing required field: Date of completion")
	assert.Contains(t, md, "  - Regulation: 14 CFR 43.9")

	assert.Contains(t, md, "### warn.md")
	assert.Contains(t, md, "**PILOT-002**")
	assert.Contains(t, md, "- good.md")
}

func TestMarkdownOmitsEmptySections(t *testing.T) {
	r := Build([]compliance.FileResult{{Filename: "clean.md", Status: compliance.StatusPass}}, 0, time.Now())
	md := Markdown(r)
	assert.NotContains(t, md, "## Failed Files")
	assert.NotContains(t, md, "## Files with Warnings")
	assert.Contains(t, md, "## Passed Files")
}

func TestMarkdownSuggestionLineOnlyWhenPresent(t *testing.T) {
	files := []compliance.FileResult{{
		Filename: "f.md",
		Violations: []compliance.Violation{
			{RuleID: "X-001", Message: "one", Severity: compliance.SeverityError, Regulation: "ref", Suggestion: "fix it"},
			{RuleID: "X-002", Message: "two", Severity: compliance.SeverityError, Regulation: "ref"},
		},
		Status: compliance.StatusFail,
	}}
	md := Markdown(Build(files, 0, time.Now()))
	assert.Equal(t, 1, strings.Count(md, "- Suggestion:"))
	assert.Contains(t, md, "  - Suggestion: fix it")
}

func TestWriteReportArtifacts(t *testing.T) {
	dir := t.TempDir()
	r := Build(sampleFiles(), 0, time.Now().UTC())
	r.ID = "run-test"

	mdPath, err := WriteMarkdown(r.ID, dir, &r)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "run-test.md"), mdPath)

	jsonPath, err := WriteJSON(r.ID, dir, &r)
	require.NoError(t, err)
	b, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"total_violations": 4`)

	htmlPath, err := WriteHTML(r.ID, dir, &r)
	require.NoError(t, err)
	hb, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(hb), "<html")
}
