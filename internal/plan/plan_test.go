// internal/plan/plan_test.go
package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByIDUnknownResolvesToFree(t *testing.T) {
	assert.Equal(t, PlanFree, ByID("platinum"))
	assert.Equal(t, PlanFree, ByID(""))
}

func TestByIDFindsEveryCatalogPlan(t *testing.T) {
	for _, p := range AllPlans {
		assert.Equal(t, p, ByID(p.ID))
		assert.True(t, Exists(p.ID))
	}
}

func TestIsPaid(t *testing.T) {
	assert.False(t, IsPaid("free"))
	assert.False(t, IsPaid("platinum"))
	assert.True(t, IsPaid("starter"))
	assert.True(t, IsPaid("enterprise"))
}

func TestPaidExcludesFree(t *testing.T) {
	paid := Paid()
	assert.Len(t, paid, len(AllPlans)-1)
	for _, p := range paid {
		assert.NotEqual(t, PlanFree.ID, p.ID)
	}
}

func TestAnnualPriceIsLowerThanMonthly(t *testing.T) {
	for _, p := range Paid() {
		assert.Less(t, p.PriceAnnual, p.PriceMonthly, "plan %s", p.ID)
	}
}

func TestFreePlanGrantsNoFeatures(t *testing.T) {
	names := []string{
		FeaturePremiumGames, FeaturePremiumMaterials, FeaturePremiumVideos,
		FeatureAIAssistant, FeatureExportReports, FeatureAACModule,
		FeaturePrioritySupport,
	}
	for _, name := range names {
		assert.False(t, PlanFree.Features.Has(name), name)
	}
}

func TestFeatureLookupUnknownNameIsFalse(t *testing.T) {
	assert.False(t, allPaidFeatures.Has("teleportation"))
}

func TestPrioritySupportOnlyOnUpperTiers(t *testing.T) {
	withSupport := map[string]bool{
		"professional": true,
		"team_medium":  true,
		"enterprise":   true,
	}
	for _, p := range Paid() {
		assert.Equal(t, withSupport[p.ID], p.Features.PrioritySupport, "plan %s", p.ID)
	}
}
