package rules

import (
	"strings"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
)

// Catalog returns the fixed rule set for one category. Catalogs are
// built once at process start and are read-only thereafter.
func Catalog(c compliance.Category) []Rule {
	switch c {
	case compliance.CategoryMaintenance:
		return maintenanceRules
	case compliance.CategoryPilotLog:
		return pilotLogRules
	case compliance.CategoryAirworthiness:
		return airworthinessRules
	case compliance.CategoryWeightBalance:
		return weightBalanceRules
	}
	return nil
}

// All concatenates every catalog in catalog order.
func All() []Rule {
	return ForCategories(compliance.Categories())
}

// ForCategories returns the deduplicated concatenation of the catalogs
// for the given categories, preserving catalog-then-within-catalog
// order. Unknown categories contribute nothing.
func ForCategories(cats []compliance.Category) []Rule {
	var out []Rule
	seen := make(map[string]struct{})
	for _, c := range cats {
		for _, r := range Catalog(c) {
			key := strings.ToUpper(strings.TrimSpace(r.ID))
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

// ParseCategory maps a config/CLI string to a known category.
func ParseCategory(s string) (compliance.Category, bool) {
	c := compliance.Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range compliance.Categories() {
		if c == known {
			return c, true
		}
	}
	return "", false
}
