package workflow

import (
	"github.com/fairworkhq/compliance_backend/awards"
	"github.com/fairworkhq/compliance_backend/models"
)

// PayrollCheckToggles selects which payroll checks a validation request runs.
// Zero value runs everything; callers switch individual checks off explicitly.
type PayrollCheckToggles struct {
	SkipBaseRate       bool `json:"skipBaseRate"`
	SkipCasualLoading  bool `json:"skipCasualLoading"`
	SkipPenaltyRate    bool `json:"skipPenaltyRate"`
	SkipSuperannuation bool `json:"skipSuperannuation"`
}

// EnabledPayrollRules returns the payroll rules for an award in their fixed
// execution order, honoring the request's toggles.
func EnabledPayrollRules(award models.Award, toggles PayrollCheckToggles) []PayrollRule {
	var rules []PayrollRule
	if !toggles.SkipBaseRate {
		rules = append(rules, BaseRateRule{Award: award})
	}
	if !toggles.SkipCasualLoading {
		rules = append(rules, CasualLoadingRule{Award: award})
	}
	if !toggles.SkipPenaltyRate {
		rules = append(rules, PenaltyRateRule{Award: award})
	}
	if !toggles.SkipSuperannuation {
		rules = append(rules, SuperannuationRule{Award: award})
	}
	return rules
}

// AllRosterRules returns every roster rule for an award in their fixed
// execution order. Roster validation always runs the full set; data quality
// runs first so unresolved shifts are flagged before the rules that skip them.
func AllRosterRules(award models.Award) []RosterRule {
	params := awards.Roster(award)
	return []RosterRule{
		DataQualityRule{Params: params},
		MinimumShiftHoursRule{Params: params},
		MealBreakRule{Params: params},
		RestPeriodRule{Params: params},
		ConsecutiveDaysRule{Params: params},
		WeeklyHoursLimitRule{Params: params},
	}
}
