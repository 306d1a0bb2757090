package rules

import (
	"regexp"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
)

var (
	reWBGate       = regexp.MustCompile(`(?i)weight\s*(and|&)\s*balance`)
	reEmptyWeight  = regexp.MustCompile(`(?i)empty\s+weight\s*:?\s*\d`)
	reCenterGrav   = regexp.MustCompile(`(?i)(center\s+of\s+gravity|\bCG\b)\s*:?\s*-?\d`)
	reUsefulLoad   = regexp.MustCompile(`(?i)useful\s+load\s*:?\s*\d`)
	reWithinLimits = regexp.MustCompile(`(?i)within\s+(approved\s+|the\s+)?limits`)
)

var weightBalanceRules = []Rule{
	checklistRule(meta{
		ID:          "WB-001",
		Name:        "Weight and balance data complete",
		Description: "Documents that present weight and balance data must include empty weight, center of gravity, and useful load.",
		Category:    compliance.CategoryWeightBalance,
		Severity:    compliance.SeverityError,
		Regulation:  "14 CFR 91.103",
	}, reWBGate, []field{
		{name: "empty_weight", pattern: reEmptyWeight, label: "Empty Weight"},
		{name: "cg", pattern: reCenterGrav, label: "Center of Gravity"},
		{name: "useful_load", pattern: reUsefulLoad, label: "Useful Load"},
	}),

	conditionalRule(meta{
		ID:          "WB-002",
		Name:        "CG within limits",
		Description: "When a center of gravity figure is stated, the record should state that it falls within approved limits.",
		Category:    compliance.CategoryWeightBalance,
		Severity:    compliance.SeverityInfo,
		Regulation:  "14 CFR 91.103",
	}, reCenterGrav, reWithinLimits,
		"Center of gravity stated without a within-limits determination",
		`Note whether the computed CG falls within the approved envelope`),
}
