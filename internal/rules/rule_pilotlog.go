package rules

import (
	"regexp"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
)

var (
	rePilotDate     = regexp.MustCompile(`(?i)\bdate\s*:\s*\S+|\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	rePilotAircraft = regexp.MustCompile(`(?i)\b(aircraft|make|model|registration)\s*:?\s*\S+|\bN\d{1,5}[A-Z]{0,2}\b`)
	rePilotTime     = regexp.MustCompile(`(?i)\b(total|flight)\s*time\s*:?\s*\d+(\.\d+)?`)

	reNightMention = regexp.MustCompile(`(?i)\bnight\b`)
	reNightTime    = regexp.MustCompile(`(?i)night\s*time\s*:?\s*\d+(\.\d+)?`)

	reInstrumentMention = regexp.MustCompile(`(?i)\b(instrument|IMC|actual\s+conditions)\b`)
	reInstrumentTime    = regexp.MustCompile(`(?i)\b(instrument|actual)\s*(time)?\s*:?\s*\d+(\.\d+)?`)
)

var pilotLogRules = []Rule{
	requiredFieldsRule(meta{
		ID:          "PILOT-001",
		Name:        "Logbook entry content",
		Description: "Logbook entries must record the date, aircraft make/model and identification, and total flight time.",
		Category:    compliance.CategoryPilotLog,
		Severity:    compliance.SeverityError,
		Regulation:  "14 CFR 61.51(b)",
	}, []field{
		{name: "date", pattern: rePilotDate, label: "Date of flight"},
		{name: "aircraft", pattern: rePilotAircraft, label: "Aircraft make, model, and identification"},
		{name: "flight_time", pattern: rePilotTime, label: "Total flight time"},
	}),

	conditionalRule(meta{
		ID:          "PILOT-002",
		Name:        "Night time logged",
		Description: "Entries that mention night operations must log night time as a number.",
		Category:    compliance.CategoryPilotLog,
		Severity:    compliance.SeverityWarning,
		Regulation:  "14 CFR 61.57(b)",
	}, reNightMention, reNightTime,
		"Night operations mentioned without a logged night time value",
		`Log night time explicitly, e.g. "Night time: 1.2"`),

	conditionalRule(meta{
		ID:          "PILOT-003",
		Name:        "Instrument time logged",
		Description: "Entries that mention instrument conditions must log instrument time.",
		Category:    compliance.CategoryPilotLog,
		Severity:    compliance.SeverityWarning,
		Regulation:  "14 CFR 61.51(g)",
	}, reInstrumentMention, reInstrumentTime,
		"Instrument conditions mentioned without logged instrument time",
		`Log actual or simulated instrument time, e.g. "Instrument: 0.5"`),
}
