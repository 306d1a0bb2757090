package rules

import (
	"strings"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/storage"
)

// ApplyWaivers removes violations matched by any active waiver and
// re-derives each file's status from what remains. Returns the
// filtered results and the number of waived violations.
func ApplyWaivers(in []compliance.FileResult, waivers []storage.Waiver) ([]compliance.FileResult, int) {
	if len(waivers) == 0 || len(in) == 0 {
		return in, 0
	}
	out := make([]compliance.FileResult, 0, len(in))
	waived := 0
	for _, fr := range in {
		var kept []compliance.Violation
	nextViolation:
		for _, v := range fr.Violations {
			for _, w := range waivers {
				if !eqCI(v.RuleID, w.RuleID) {
					continue
				}
				if w.Filename != "" && !eqCI(fr.Filename, w.Filename) {
					continue
				}
				if w.PatternSub != "" {
					ps := strings.ToUpper(w.PatternSub)
					if !strings.Contains(strings.ToUpper(v.Message), ps) &&
						!strings.Contains(strings.ToUpper(v.Suggestion), ps) {
						continue
					}
				}
				waived++
				continue nextViolation
			}
			kept = append(kept, v)
		}
		out = append(out, compliance.FileResult{
			Filename:   fr.Filename,
			Violations: kept,
			Status:     compliance.StatusFor(kept),
		})
	}
	return out, waived
}

func eqCI(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }
