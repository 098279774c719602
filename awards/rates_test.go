package awards

import (
	"testing"

	"github.com/fairworkhq/compliance_backend/models"
	"github.com/shopspring/decimal"
)

func TestGeneralRetailRates(t *testing.T) {
	if got := MinimumRate(models.AwardGeneralRetail, 1); got.String() != "26.55" {
		t.Fatalf("Level 1 minimum = %s; want 26.55", got)
	}
	if got := CasualRate(models.AwardGeneralRetail, 1); got.String() != "33.19" {
		t.Fatalf("Level 1 casual = %s; want 33.19", got)
	}
	for level := 1; level <= 8; level++ {
		rate := RateForLevel(models.AwardGeneralRetail, level)
		if !rate.Minimum.IsPositive() || !rate.Loaded.IsPositive() {
			t.Fatalf("level %d has no rates", level)
		}
		if !rate.Loaded.GreaterThan(rate.Minimum) {
			t.Fatalf("level %d loaded rate %s not above minimum %s", level, rate.Loaded, rate.Minimum)
		}
	}
}

func TestUnknownLevelHasZeroRate(t *testing.T) {
	if got := MinimumRate(models.AwardGeneralRetail, 0); !got.IsZero() {
		t.Fatalf("level 0 minimum = %s; want 0", got)
	}
	if got := MinimumRate(models.AwardGeneralRetail, 99); !got.IsZero() {
		t.Fatalf("level 99 minimum = %s; want 0", got)
	}
}

func TestPenaltyMultipliers(t *testing.T) {
	p := Penalties(models.AwardGeneralRetail)
	cases := []struct {
		name     string
		got      decimal.Decimal
		expected string
	}{
		{"saturday permanent", p.SaturdayMultiplier(models.EmploymentTypeFullTime), "1.25"},
		{"saturday casual", p.SaturdayMultiplier(models.EmploymentTypeCasual), "1.50"},
		{"sunday permanent", p.SundayMultiplier(models.EmploymentTypePartTime), "1.50"},
		{"sunday casual", p.SundayMultiplier(models.EmploymentTypeCasual), "1.75"},
		{"public holiday permanent", p.PublicHolidayMultiplier(models.EmploymentTypeFixedTerm), "2.25"},
		{"public holiday casual", p.PublicHolidayMultiplier(models.EmploymentTypeCasual), "2.50"},
	}
	for _, tc := range cases {
		if !tc.got.Equal(decimal.RequireFromString(tc.expected)) {
			t.Fatalf("%s = %s; want %s", tc.name, tc.got, tc.expected)
		}
	}
}

func TestRosterParameters(t *testing.T) {
	p := Roster(models.AwardGeneralRetail)
	if p.MealBreakThresholdMinutes != 300 || p.MealBreakMinimumMinutes != 30 {
		t.Fatalf("meal break parameters = %d/%d", p.MealBreakThresholdMinutes, p.MealBreakMinimumMinutes)
	}
	if p.MaxConsecutiveDays != 6 {
		t.Fatalf("max consecutive days = %d", p.MaxConsecutiveDays)
	}
	if p.FullTimeWeeklyHours.String() != "38" {
		t.Fatalf("full-time weekly hours = %s", p.FullTimeWeeklyHours)
	}
	if p.MinimumShift(models.EmploymentTypeFullTime).String() != "4" {
		t.Fatalf("full-time minimum shift = %s", p.MinimumShift(models.EmploymentTypeFullTime))
	}
	if p.MinimumShift(models.EmploymentTypeCasual).String() != "3" {
		t.Fatalf("casual minimum shift = %s", p.MinimumShift(models.EmploymentTypeCasual))
	}
	if p.MinimumShift("Contractor").String() != "0" {
		t.Fatalf("unknown employment type should have zero minimum")
	}
}
