package rules

import (
	"regexp"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
)

var (
	reAirwCertificate   = regexp.MustCompile(`(?i)airworthiness\s+certificate`)
	reAirwRegistration  = regexp.MustCompile(`(?i)(certificate\s+of\s+)?registration\b`)
	reAirwLimitations   = regexp.MustCompile(`(?i)(operating\s+limitations|flight\s+manual|POH|AFM)`)
	reAirwWeightBalance = regexp.MustCompile(`(?i)weight\s*(and|&)\s*balance`)

	reInspectionCertification = regexp.MustCompile(`(?i)i\s+certify\s+that\s+this\s+aircraft\s+has\s+been\s+inspected`)
)

var airworthinessRules = []Rule{
	requiredFieldsRule(meta{
		ID:          "AIRW-001",
		Name:        "Required onboard documents",
		Description: "Airworthiness records must account for the certificate, registration, operating limitations, and weight and balance data carried aboard.",
		Category:    compliance.CategoryAirworthiness,
		Severity:    compliance.SeverityError,
		Regulation:  "14 CFR 91.203",
	}, []field{
		{name: "certificate", pattern: reAirwCertificate, label: "Airworthiness certificate"},
		{name: "registration", pattern: reAirwRegistration, label: "Certificate of registration"},
		{name: "limitations", pattern: reAirwLimitations, label: "Operating limitations"},
		{name: "weight_balance", pattern: reAirwWeightBalance, label: "Weight and balance data"},
	}),

	statementRule(meta{
		ID:          "AIRW-002",
		Name:        "Inspection certification statement",
		Description: "Airworthiness records must carry the inspector's certification statement.",
		Category:    compliance.CategoryAirworthiness,
		Severity:    compliance.SeverityError,
		Regulation:  "14 CFR 43.11",
	}, reInspectionCertification,
		"Missing inspection certification statement",
		`Add "I certify that this aircraft has been inspected ... and was determined to be in an airworthy condition"`),
}
