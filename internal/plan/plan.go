// internal/plan/plan.go
package plan

// Unlimited marks a limit that is not enforced.
const Unlimited = -1

// Feature flag names, as exposed to clients.
const (
	FeaturePremiumGames     = "premium-games"
	FeaturePremiumMaterials = "premium-materials"
	FeaturePremiumVideos    = "premium-videos"
	FeatureAIAssistant      = "ai-assistant"
	FeatureExportReports    = "export-reports"
	FeatureAACModule        = "aac-module"
	FeaturePrioritySupport  = "priority-support"
)

// Features holds the boolean feature flags of a plan.
type Features struct {
	PremiumGames     bool `json:"premium_games"`
	PremiumMaterials bool `json:"premium_materials"`
	PremiumVideos    bool `json:"premium_videos"`
	AIAssistant      bool `json:"ai_assistant"`
	ExportReports    bool `json:"export_reports"`
	AACModule        bool `json:"aac_module"`
	PrioritySupport  bool `json:"priority_support"`
}

// Has reports whether the named feature flag is enabled.
func (f Features) Has(name string) bool {
	switch name {
	case FeaturePremiumGames:
		return f.PremiumGames
	case FeaturePremiumMaterials:
		return f.PremiumMaterials
	case FeaturePremiumVideos:
		return f.PremiumVideos
	case FeatureAIAssistant:
		return f.AIAssistant
	case FeatureExportReports:
		return f.ExportReports
	case FeatureAACModule:
		return f.AACModule
	case FeaturePrioritySupport:
		return f.PrioritySupport
	}
	return false
}

// Plan is a static pricing tier with usage limits and feature flags.
// Prices are in BRL; the annual price is per month, billed yearly.
type Plan struct {
	ID                      string   `json:"id"`
	Name                    string   `json:"name"`
	Description             string   `json:"description"`
	PriceMonthly            float64  `json:"price_monthly"`
	PriceAnnual             float64  `json:"price_annual"`
	MaxStudents             int      `json:"max_students"`
	MaxProfessionals        int      `json:"max_professionals"`
	MaxReportsPerPeriod     int      `json:"max_reports_per_period"`
	MaxGenerationsPerPeriod int      `json:"max_generations_per_period"`
	Features                Features `json:"features"`
	Highlight               bool     `json:"highlight,omitempty"`
	Badge                   string   `json:"badge,omitempty"`
}

var allPaidFeatures = Features{
	PremiumGames:     true,
	PremiumMaterials: true,
	PremiumVideos:    true,
	AIAssistant:      true,
	ExportReports:    true,
	AACModule:        true,
	PrioritySupport:  true,
}

func withoutPrioritySupport() Features {
	f := allPaidFeatures
	f.PrioritySupport = false
	return f
}

// Predefined plans. This catalog is the single source of truth for both
// entitlement checks and billing amounts.
var (
	PlanFree = Plan{
		ID:                      "free",
		Name:                    "Gratuito",
		Description:             "Para conhecer a plataforma",
		PriceMonthly:            0,
		PriceAnnual:             0,
		MaxStudents:             1,
		MaxProfessionals:        1,
		MaxReportsPerPeriod:     2,
		MaxGenerationsPerPeriod: 0,
	}

	PlanStarter = Plan{
		ID:                      "starter",
		Name:                    "Iniciante",
		Description:             "Profissional individual — até 10 alunos",
		PriceMonthly:            49.90,
		PriceAnnual:             39.90,
		MaxStudents:             10,
		MaxProfessionals:        1,
		MaxReportsPerPeriod:     30,
		MaxGenerationsPerPeriod: 50,
		Features:                withoutPrioritySupport(),
	}

	PlanBasic = Plan{
		ID:                      "basic",
		Name:                    "Básico",
		Description:             "Profissional individual — até 30 alunos",
		PriceMonthly:            89.90,
		PriceAnnual:             71.90,
		MaxStudents:             30,
		MaxProfessionals:        1,
		MaxReportsPerPeriod:     100,
		MaxGenerationsPerPeriod: 150,
		Features:                withoutPrioritySupport(),
		Highlight:               true,
		Badge:                   "Mais popular",
	}

	PlanProfessional = Plan{
		ID:                      "professional",
		Name:                    "Profissional",
		Description:             "Profissional individual — alunos ilimitados",
		PriceMonthly:            149.90,
		PriceAnnual:             119.90,
		MaxStudents:             Unlimited,
		MaxProfessionals:        1,
		MaxReportsPerPeriod:     Unlimited,
		MaxGenerationsPerPeriod: Unlimited,
		Features:                allPaidFeatures,
	}

	PlanTeamSmall = Plan{
		ID:                      "team_small",
		Name:                    "Equipe Pequena",
		Description:             "Até 10 profissionais — até 10 alunos cada",
		PriceMonthly:            299.90,
		PriceAnnual:             239.90,
		MaxStudents:             10,
		MaxProfessionals:        10,
		MaxReportsPerPeriod:     200,
		MaxGenerationsPerPeriod: 300,
		Features:                withoutPrioritySupport(),
	}

	PlanTeamMedium = Plan{
		ID:                      "team_medium",
		Name:                    "Equipe Média",
		Description:             "Até 50 profissionais — até 30 alunos cada",
		PriceMonthly:            599.90,
		PriceAnnual:             479.90,
		MaxStudents:             30,
		MaxProfessionals:        50,
		MaxReportsPerPeriod:     Unlimited,
		MaxGenerationsPerPeriod: Unlimited,
		Features:                allPaidFeatures,
		Badge:                   "Clínicas e escolas",
	}

	PlanEnterprise = Plan{
		ID:                      "enterprise",
		Name:                    "Enterprise",
		Description:             "Profissionais e alunos ilimitados",
		PriceMonthly:            999.90,
		PriceAnnual:             799.90,
		MaxStudents:             Unlimited,
		MaxProfessionals:        Unlimited,
		MaxReportsPerPeriod:     Unlimited,
		MaxGenerationsPerPeriod: Unlimited,
		Features:                allPaidFeatures,
		Badge:                   "Institucional",
	}

	// AllPlans is the ordered list of available plans.
	AllPlans = []Plan{
		PlanFree, PlanStarter, PlanBasic, PlanProfessional,
		PlanTeamSmall, PlanTeamMedium, PlanEnterprise,
	}
)

// ByID looks up a plan by identifier. Unknown ids resolve to the free plan:
// this is a read path queried on every request, so it fails open to the most
// restrictive tier instead of erroring.
func ByID(id string) Plan {
	for i := range AllPlans {
		if AllPlans[i].ID == id {
			return AllPlans[i]
		}
	}
	return PlanFree
}

// Exists reports whether id names a known plan.
func Exists(id string) bool {
	for i := range AllPlans {
		if AllPlans[i].ID == id {
			return true
		}
	}
	return false
}

// IsPaid reports whether id names a known paid plan.
func IsPaid(id string) bool {
	return Exists(id) && id != PlanFree.ID
}

// Paid returns the ordered list of paid plans.
func Paid() []Plan {
	paid := make([]Plan, 0, len(AllPlans)-1)
	for _, p := range AllPlans {
		if p.ID != PlanFree.ID {
			paid = append(paid, p)
		}
	}
	return paid
}
