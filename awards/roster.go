package awards

import (
	"github.com/fairworkhq/compliance_backend/models"
	"github.com/shopspring/decimal"
)

// RosterParameters are the scheduling thresholds for one award.
type RosterParameters struct {
	// MinimumShiftHours is the minimum engagement per shift, keyed by employment
	// type.
	MinimumShiftHours map[models.EmploymentType]decimal.Decimal

	// MealBreakThresholdMinutes is the shift length beyond which a meal break of
	// at least MealBreakMinimumMinutes is required.
	MealBreakThresholdMinutes int
	MealBreakMinimumMinutes   int

	// RestPeriodStandardHours is the rest an employee should get between shifts;
	// RestPeriodReducedHours is the floor that may apply by agreement. Rest below
	// the reduced floor is an Error, between reduced and standard a Warning.
	RestPeriodStandardHours decimal.Decimal
	RestPeriodReducedHours  decimal.Decimal

	MaxConsecutiveDays int

	// FullTimeWeeklyHours is the ordinary weekly hours cap for full-time and
	// fixed-term employees. Casuals are exempt; part-time employees compare
	// against their individually guaranteed hours.
	FullTimeWeeklyHours decimal.Decimal
}

var generalRetailRoster = RosterParameters{
	MinimumShiftHours: map[models.EmploymentType]decimal.Decimal{
		models.EmploymentTypeFullTime:  d("4"),
		models.EmploymentTypeFixedTerm: d("4"),
		models.EmploymentTypePartTime:  d("3"),
		models.EmploymentTypeCasual:    d("3"),
	},
	MealBreakThresholdMinutes: 300, // 5 hours
	MealBreakMinimumMinutes:   30,
	RestPeriodStandardHours:   d("10"),
	RestPeriodReducedHours:    d("8"),
	MaxConsecutiveDays:        6,
	FullTimeWeeklyHours:       d("38"),
}

// Roster returns the scheduling parameter table for an award.
func Roster(award models.Award) RosterParameters {
	switch award {
	case models.AwardGeneralRetail:
		return generalRetailRoster
	}
	return generalRetailRoster
}

// MinimumShift returns the minimum engagement for an employment type, zero when
// the award does not define one.
func (p RosterParameters) MinimumShift(employmentType models.EmploymentType) decimal.Decimal {
	if hours, ok := p.MinimumShiftHours[employmentType]; ok {
		return hours
	}
	return decimal.Zero
}
