package workflow

import (
	"fmt"

	"github.com/fairworkhq/compliance_backend/awards"
	"github.com/fairworkhq/compliance_backend/models"
	"github.com/shopspring/decimal"
)

// PayrollRule is one payroll compliance check. Evaluate is pure given the record
// batch and the award tables: no I/O, no state, no ordering dependence between
// rules. Re-running against identical inputs must reproduce the identical issue
// list (audits depend on it). Bad input data never errors out of a rule; it
// degrades to a skip or a dedicated data-quality issue.
type PayrollRule interface {
	CheckType() models.CheckType
	Evaluate(records []*models.PayRecord, runId int) []*models.Issue
}

// BaseRateRule verifies the derived ordinary hourly rate against the
// classification's permanent minimum.
type BaseRateRule struct {
	Award models.Award
}

func (r BaseRateRule) CheckType() models.CheckType { return models.CheckTypeBaseRate }

func (r BaseRateRule) Evaluate(records []*models.PayRecord, runId int) []*models.Issue {
	var issues []*models.Issue
	for _, rec := range records {
		if !rec.OrdinaryHours.IsPositive() {
			continue
		}
		level := models.ParseClassificationLevel(rec.Classification)
		minimum := awards.MinimumRate(r.Award, level)
		if !minimum.IsPositive() {
			// Unknown classification: cannot evaluate.
			continue
		}

		actual := rec.ActualOrdinaryRate()
		if minimum.Sub(actual).GreaterThan(awards.RateTolerance) {
			impact := minimum.Sub(actual).Mul(rec.OrdinaryHours).Round(2)
			issue := models.NewMeasuredIssue(runId, r.CheckType(), models.SeverityCritical,
				minimum, actual.Round(2), rec.OrdinaryHours, models.UnitTypeHours, impact,
				fmt.Sprintf("ordinary hourly rate below Level %d minimum", level))
			issues = append(issues, issue.ForEmployee(rec.EmployeeId).ForPayRecord(rec.ID))
			// Actual pay already breaches the minimum; the configured-rate signal
			// below would be redundant for this record.
			continue
		}

		if rec.ConfiguredHourlyRate.IsPositive() && minimum.Sub(rec.ConfiguredHourlyRate).GreaterThan(awards.RateTolerance) {
			issue := models.NewMeasuredIssue(runId, r.CheckType(), models.SeverityWarning,
				minimum, rec.ConfiguredHourlyRate, rec.OrdinaryHours, models.UnitTypeHours, decimal.Zero,
				fmt.Sprintf("configured hourly rate below Level %d minimum (paid amounts are compliant)", level))
			issues = append(issues, issue.ForEmployee(rec.EmployeeId).ForPayRecord(rec.ID))
		}
	}
	return issues
}

// CasualLoadingRule verifies casual employees against the loaded (casual) minimum
// rate. Same shape as BaseRateRule, different reference rate and audience.
type CasualLoadingRule struct {
	Award models.Award
}

func (r CasualLoadingRule) CheckType() models.CheckType { return models.CheckTypeCasualLoading }

func (r CasualLoadingRule) Evaluate(records []*models.PayRecord, runId int) []*models.Issue {
	var issues []*models.Issue
	for _, rec := range records {
		if rec.EmploymentType != models.EmploymentTypeCasual {
			continue
		}
		if !rec.OrdinaryHours.IsPositive() {
			continue
		}
		level := models.ParseClassificationLevel(rec.Classification)
		loaded := awards.CasualRate(r.Award, level)
		if !loaded.IsPositive() {
			continue
		}

		actual := rec.ActualOrdinaryRate()
		if loaded.Sub(actual).GreaterThan(awards.RateTolerance) {
			impact := loaded.Sub(actual).Mul(rec.OrdinaryHours).Round(2)
			issue := models.NewMeasuredIssue(runId, r.CheckType(), models.SeverityCritical,
				loaded, actual.Round(2), rec.OrdinaryHours, models.UnitTypeHours, impact,
				fmt.Sprintf("casual rate below Level %d loaded minimum", level))
			issues = append(issues, issue.ForEmployee(rec.EmployeeId).ForPayRecord(rec.ID))
			continue
		}

		if rec.ConfiguredHourlyRate.IsPositive() && loaded.Sub(rec.ConfiguredHourlyRate).GreaterThan(awards.RateTolerance) {
			issue := models.NewMeasuredIssue(runId, r.CheckType(), models.SeverityWarning,
				loaded, rec.ConfiguredHourlyRate, rec.OrdinaryHours, models.UnitTypeHours, decimal.Zero,
				fmt.Sprintf("configured casual rate below Level %d loaded minimum (paid amounts are compliant)", level))
			issues = append(issues, issue.ForEmployee(rec.EmployeeId).ForPayRecord(rec.ID))
		}
	}
	return issues
}

// PenaltyRateRule verifies Saturday, Sunday and public-holiday pay against the
// award multipliers. All three penalty types use the PERMANENT base rate as the
// multiplier base, for casuals too: the casual loading is folded into the casual
// multiplier itself. This is how the award is written, not an oversight.
type PenaltyRateRule struct {
	Award models.Award
}

func (r PenaltyRateRule) CheckType() models.CheckType { return models.CheckTypePenaltyRate }

func (r PenaltyRateRule) Evaluate(records []*models.PayRecord, runId int) []*models.Issue {
	var issues []*models.Issue
	penalties := awards.Penalties(r.Award)
	for _, rec := range records {
		level := models.ParseClassificationLevel(rec.Classification)
		base := awards.MinimumRate(r.Award, level)
		if !base.IsPositive() {
			continue
		}

		checks := []struct {
			label      string
			hours      decimal.Decimal
			paid       decimal.Decimal
			multiplier decimal.Decimal
		}{
			{"Saturday", rec.SaturdayHours, rec.SaturdayPay, penalties.SaturdayMultiplier(rec.EmploymentType)},
			{"Sunday", rec.SundayHours, rec.SundayPay, penalties.SundayMultiplier(rec.EmploymentType)},
			{"public holiday", rec.PublicHolidayHours, rec.PublicHolidayPay, penalties.PublicHolidayMultiplier(rec.EmploymentType)},
		}
		for _, check := range checks {
			if !check.hours.IsPositive() {
				continue
			}
			expected := base.Mul(check.multiplier).Mul(check.hours).Round(2)
			if expected.Sub(check.paid).GreaterThan(awards.AmountTolerance) {
				impact := expected.Sub(check.paid)
				issue := models.NewMeasuredIssue(runId, r.CheckType(), models.SeverityError,
					expected, check.paid, check.hours, models.UnitTypeHours, impact,
					fmt.Sprintf("%s penalty pay below award minimum (multiplier %s on Level %d base)", check.label, check.multiplier.String(), level))
				issues = append(issues, issue.ForEmployee(rec.EmployeeId).ForPayRecord(rec.ID))
			}
		}
	}
	return issues
}

// SuperannuationRule verifies the superannuation guarantee contribution against
// the fixed percentage of gross pay.
type SuperannuationRule struct {
	Award models.Award
}

func (r SuperannuationRule) CheckType() models.CheckType { return models.CheckTypeSuperannuation }

func (r SuperannuationRule) Evaluate(records []*models.PayRecord, runId int) []*models.Issue {
	var issues []*models.Issue
	for _, rec := range records {
		totalHours := rec.OrdinaryHours.Add(rec.SaturdayHours).Add(rec.SundayHours).Add(rec.PublicHolidayHours)
		if !rec.GrossPay.IsPositive() {
			if totalHours.IsPositive() {
				issue := models.NewWarningIssue(runId, r.CheckType(), models.SeverityWarning,
					"gross pay is zero but hours were worked; superannuation cannot be verified")
				issues = append(issues, issue.ForEmployee(rec.EmployeeId).ForPayRecord(rec.ID))
			}
			continue
		}

		expected := rec.GrossPay.Mul(awards.SuperannuationRate).Round(2)
		if expected.Sub(rec.SuperannuationPaid).GreaterThan(awards.AmountTolerance) {
			impact := expected.Sub(rec.SuperannuationPaid)
			issue := models.NewMeasuredIssue(runId, r.CheckType(), models.SeverityError,
				expected, rec.SuperannuationPaid, decimal.NewFromInt(1), models.UnitTypeCurrency, impact,
				"superannuation guarantee shortfall against 12% of gross pay")
			issues = append(issues, issue.ForEmployee(rec.EmployeeId).ForPayRecord(rec.ID))
		}
	}
	return issues
}
