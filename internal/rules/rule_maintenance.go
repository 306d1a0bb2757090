package rules

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
)

var (
	reMaintDate        = regexp.MustCompile(`(?i)\bdate\s*:\s*\S+|\b\d{1,2}/\d{1,2}/\d{2,4}\b|\b\d{4}-\d{2}-\d{2}\b`)
	reMaintAircraft    = regexp.MustCompile(`(?i)\b(aircraft|registration|tail\s*(no\.?|number))\s*:?\s*\S+|\bN\d{1,5}[A-Z]{0,2}\b`)
	reMaintDescription = regexp.MustCompile(`(?i)\b(description|work\s+performed|maintenance\s+performed)\b`)
	reMaintSignature   = regexp.MustCompile(`(?i)\b(signature|signed\s+by|certificate\s*(no\.?|number))\b`)

	reReturnToService = regexp.MustCompile(`(?i)(approved\s+for\s+)?return(ed)?\s+to\s+service`)

	reAnnualInspection = regexp.MustCompile(`(?i)annual\s+inspection`)
	reAppendixD        = regexp.MustCompile(`(?i)appendix\s+d\b`)

	reADNumber     = regexp.MustCompile(`(?i)\bAD\s*#?\s*\d{2,4}-\d{2}-\d{2}\b`)
	reADCompliance = regexp.MustCompile(`(?i)(complied\s+with|in\s+compliance|compliance\s+with|\bc/w\b)`)

	reInspectionPhrase = regexp.MustCompile(`(?i)(annual|100[\s-]?hour|progressive)\s+inspection`)

	// First date-shaped substring anywhere in the text. US slash dates
	// and ISO dashes are both accepted.
	reDateShape = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{2,4}|\d{4}-\d{2}-\d{2})\b`)
)

var maintenanceRules = []Rule{
	requiredFieldsRule(meta{
		ID:          "MAINT-001",
		Name:        "Maintenance record content",
		Description: "Maintenance entries must record the date, aircraft identification, a description of the work performed, and the signature and certificate number of the person approving.",
		Category:    compliance.CategoryMaintenance,
		Severity:    compliance.SeverityError,
		Regulation:  "14 CFR 43.9",
	}, []field{
		{name: "date", pattern: reMaintDate, label: "Date of completion"},
		{name: "aircraft", pattern: reMaintAircraft, label: "Aircraft identification"},
		{name: "description", pattern: reMaintDescription, label: "Description of work performed"},
		{name: "signature", pattern: reMaintSignature, label: "Signature and certificate number"},
	}),

	statementRule(meta{
		ID:          "MAINT-002",
		Name:        "Return to service statement",
		Description: "Maintenance entries must contain an approval for return to service.",
		Category:    compliance.CategoryMaintenance,
		Severity:    compliance.SeverityError,
		Regulation:  "14 CFR 43.5",
	}, reReturnToService,
		"No return to service statement found",
		`Add "approved for return to service" with the approving signature`),

	conditionalRule(meta{
		ID:          "MAINT-003",
		Name:        "Annual inspection scope",
		Description: "Entries describing an annual inspection must reference the part 43 appendix D checklist scope.",
		Category:    compliance.CategoryMaintenance,
		Severity:    compliance.SeverityError,
		Regulation:  "14 CFR part 43 appendix D",
	}, reAnnualInspection, reAppendixD,
		"Annual inspection recorded without reference to the appendix D checklist",
		"Cite the appendix D scope and detail used for the inspection"),

	conditionalRule(meta{
		ID:          "MAINT-004",
		Name:        "AD compliance statement",
		Description: "When an airworthiness directive is referenced, the entry must state the method of compliance.",
		Category:    compliance.CategoryMaintenance,
		Severity:    compliance.SeverityError,
		Regulation:  "14 CFR 91.417(a)(2)(v)",
	}, reADNumber, reADCompliance,
		"Airworthiness directive referenced without a compliance statement",
		`State how the AD was complied with, e.g. "complied with by inspection"`),

	recencyRule(time.Now),
}

// recencyRule flags inspection entries whose recorded date is more than
// a year old. Only the first date-shaped substring in the document is
// consulted; when a document carries several dates (AD compliance dates
// before the inspection date, say) the selected one depends on document
// order. That matches the historical behavior and is covered by a test.
func recencyRule(now func() time.Time) Rule {
	m := meta{
		ID:          "MAINT-005",
		Name:        "Inspection recency",
		Description: "Aircraft must have had an annual inspection within the preceding 12 calendar months.",
		Category:    compliance.CategoryMaintenance,
		Severity:    compliance.SeverityWarning,
		Regulation:  "14 CFR 91.409",
	}
	return m.rule(func(content, filename string) []compliance.Violation {
		if !reInspectionPhrase.MatchString(content) {
			return nil
		}
		raw := reDateShape.FindString(content)
		if raw == "" {
			return nil
		}
		t, err := parseLogDate(raw)
		if err != nil {
			// Unparsable date is treated as no date found.
			return nil
		}
		days := int(now().Sub(t).Hours() / 24)
		if days <= 365 {
			return nil
		}
		return []compliance.Violation{m.violation(
			fmt.Sprintf("Last recorded inspection date %s is %d days old", raw, days),
			"Schedule an annual inspection; entries older than 12 calendar months are out of currency",
		)}
	})
}

var logDateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"2006-01-02",
}

func parseLogDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range logDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
