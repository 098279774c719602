// Package awards holds the static Modern Award parameter tables the validation
// rules evaluate against: minimum hourly rates per classification level, penalty
// multipliers, the superannuation guarantee, and roster scheduling thresholds.
// The tables are read-only and shared; rules look values up, they never write.
package awards

import (
	"github.com/fairworkhq/compliance_backend/models"
	"github.com/shopspring/decimal"
)

var (
	// RateTolerance absorbs rounding noise when comparing derived hourly rates.
	RateTolerance = decimal.NewFromFloat(0.01)
	// AmountTolerance absorbs rounding noise when comparing whole pay amounts.
	AmountTolerance = decimal.NewFromFloat(0.05)

	// SuperannuationRate is the superannuation guarantee percentage of gross pay.
	SuperannuationRate = decimal.NewFromFloat(0.12)
)

// ClassificationRate is the minimum hourly rate pair for one classification level.
// Loaded is the casual rate (permanent base plus casual loading).
type ClassificationRate struct {
	Minimum decimal.Decimal
	Loaded  decimal.Decimal
}

// PenaltyMultipliers are the weekend/public-holiday multipliers for one award.
// Both permanent and casual multipliers apply to the PERMANENT base rate; the
// casual loading is folded into the casual multiplier itself, it is never applied
// on top of the loaded rate.
type PenaltyMultipliers struct {
	SaturdayPermanent      decimal.Decimal
	SaturdayCasual         decimal.Decimal
	SundayPermanent        decimal.Decimal
	SundayCasual           decimal.Decimal
	PublicHolidayPermanent decimal.Decimal
	PublicHolidayCasual    decimal.Decimal
}

func d(value string) decimal.Decimal {
	dec, err := decimal.NewFromString(value)
	if err != nil {
		panic("awards: bad rate constant " + value)
	}
	return dec
}

// General Retail Industry Award classification rates, adult employees.
var generalRetailRates = map[int]ClassificationRate{
	1: {Minimum: d("26.55"), Loaded: d("33.19")},
	2: {Minimum: d("27.17"), Loaded: d("33.96")},
	3: {Minimum: d("27.59"), Loaded: d("34.49")},
	4: {Minimum: d("28.12"), Loaded: d("35.15")},
	5: {Minimum: d("29.28"), Loaded: d("36.60")},
	6: {Minimum: d("29.70"), Loaded: d("37.13")},
	7: {Minimum: d("31.20"), Loaded: d("39.00")},
	8: {Minimum: d("32.47"), Loaded: d("40.59")},
}

var generalRetailPenalties = PenaltyMultipliers{
	SaturdayPermanent:      d("1.25"),
	SaturdayCasual:         d("1.50"),
	SundayPermanent:        d("1.50"),
	SundayCasual:           d("1.75"),
	PublicHolidayPermanent: d("2.25"),
	PublicHolidayCasual:    d("2.50"),
}

// RateForLevel returns the rate pair for a classification level. Unknown levels
// return zero rates, which every rule treats as "cannot evaluate, skip".
func RateForLevel(award models.Award, level int) ClassificationRate {
	switch award {
	case models.AwardGeneralRetail:
		if rate, ok := generalRetailRates[level]; ok {
			return rate
		}
	}
	return ClassificationRate{Minimum: decimal.Zero, Loaded: decimal.Zero}
}

// MinimumRate is the permanent minimum hourly rate for a level (zero if unknown).
func MinimumRate(award models.Award, level int) decimal.Decimal {
	return RateForLevel(award, level).Minimum
}

// CasualRate is the loaded hourly rate for casual employees (zero if unknown).
func CasualRate(award models.Award, level int) decimal.Decimal {
	return RateForLevel(award, level).Loaded
}

// Penalties returns the penalty multiplier table for an award.
func Penalties(award models.Award) PenaltyMultipliers {
	switch award {
	case models.AwardGeneralRetail:
		return generalRetailPenalties
	}
	return generalRetailPenalties
}

// SaturdayMultiplier selects the Saturday multiplier by employment type.
func (p PenaltyMultipliers) SaturdayMultiplier(employmentType models.EmploymentType) decimal.Decimal {
	if employmentType == models.EmploymentTypeCasual {
		return p.SaturdayCasual
	}
	return p.SaturdayPermanent
}

// SundayMultiplier selects the Sunday multiplier by employment type.
func (p PenaltyMultipliers) SundayMultiplier(employmentType models.EmploymentType) decimal.Decimal {
	if employmentType == models.EmploymentTypeCasual {
		return p.SundayCasual
	}
	return p.SundayPermanent
}

// PublicHolidayMultiplier selects the public holiday multiplier by employment type.
func (p PenaltyMultipliers) PublicHolidayMultiplier(employmentType models.EmploymentType) decimal.Decimal {
	if employmentType == models.EmploymentTypeCasual {
		return p.PublicHolidayCasual
	}
	return p.PublicHolidayPermanent
}
