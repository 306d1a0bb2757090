package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
)

func TestCatalogPerCategory(t *testing.T) {
	for _, c := range compliance.Categories() {
		rs := Catalog(c)
		require.NotEmpty(t, rs, "category %s has no rules", c)
		for _, r := range rs {
			assert.Equal(t, c, r.Category, "rule %s filed under wrong category", r.ID)
			assert.NotEmpty(t, r.Regulation, "rule %s missing regulation", r.ID)
			assert.NotNil(t, r.Check, "rule %s has no check", r.ID)
		}
	}
	assert.Nil(t, Catalog(compliance.Category("unknown")))
}

func TestAllHasUniqueIDs(t *testing.T) {
	seen := make(map[string]struct{})
	for _, r := range All() {
		key := strings.ToUpper(r.ID)
		_, dup := seen[key]
		assert.False(t, dup, "duplicate rule id %s", r.ID)
		seen[key] = struct{}{}
	}
}

func TestForCategoriesPreservesOrderAndDedups(t *testing.T) {
	got := ForCategories([]compliance.Category{
		compliance.CategoryPilotLog,
		compliance.CategoryMaintenance,
		compliance.CategoryPilotLog, // repeat contributes nothing new
	})

	var ids []string
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	require.Equal(t, len(Catalog(compliance.CategoryPilotLog))+len(Catalog(compliance.CategoryMaintenance)), len(ids))
	assert.Equal(t, "PILOT-001", ids[0], "first requested category comes first")
	assert.Contains(t, ids, "MAINT-001")
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("  Pilot-Log ")
	require.True(t, ok)
	assert.Equal(t, compliance.CategoryPilotLog, c)

	_, ok = ParseCategory("avionics")
	assert.False(t, ok)
}
