package workflow

import (
	"testing"

	"github.com/fairworkhq/compliance_backend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payRecord(id int, employmentType models.EmploymentType, classification string) *models.PayRecord {
	return &models.PayRecord{
		ID:             id,
		EmployeeId:     id,
		Classification: classification,
		EmploymentType: employmentType,
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBaseRateRule_FlagsUnderpaidOrdinaryRate(t *testing.T) {
	rec := payRecord(1, models.EmploymentTypeFullTime, "Retail Employee Level 1")
	rec.OrdinaryHours = dec("10")
	rec.OrdinaryPay = dec("155.00") // 15.50/h against a 26.55 minimum

	issues := BaseRateRule{Award: models.AwardGeneralRetail}.Evaluate([]*models.PayRecord{rec}, 7)

	require.Len(t, issues, 1)
	issue := issues[0]
	assert.Equal(t, models.SeverityCritical, issue.Severity)
	assert.True(t, issue.ExpectedValue.Equal(dec("26.55")), "expected %s", issue.ExpectedValue)
	assert.True(t, issue.ActualValue.Equal(dec("15.50")), "actual %s", issue.ActualValue)
	assert.True(t, issue.ImpactAmount.Equal(dec("110.50")), "impact %s", issue.ImpactAmount)
	require.NotNil(t, issue.PayRecordId)
	assert.Equal(t, 1, *issue.PayRecordId)
}

func TestBaseRateRule_ToleranceBoundaryIsInclusive(t *testing.T) {
	cases := []struct {
		name       string
		hourlyRate string
		wantIssue  bool
	}{
		{"exactly at minimum", "26.55", false},
		{"one cent under (within tolerance)", "26.54", false},
		{"two cents under", "26.53", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := payRecord(1, models.EmploymentTypeFullTime, "Level 1")
			rec.OrdinaryHours = dec("10")
			rec.OrdinaryPay = dec(tc.hourlyRate).Mul(dec("10"))

			issues := BaseRateRule{Award: models.AwardGeneralRetail}.Evaluate([]*models.PayRecord{rec}, 1)
			if tc.wantIssue {
				assert.Len(t, issues, 1)
			} else {
				assert.Empty(t, issues)
			}
		})
	}
}

func TestBaseRateRule_ConfiguredRateWarningWhenPaidCompliant(t *testing.T) {
	rec := payRecord(2, models.EmploymentTypePartTime, "Level 1")
	rec.OrdinaryHours = dec("8")
	rec.OrdinaryPay = dec("26.55").Mul(dec("8"))
	rec.ConfiguredHourlyRate = dec("25.00")

	issues := BaseRateRule{Award: models.AwardGeneralRetail}.Evaluate([]*models.PayRecord{rec}, 1)

	require.Len(t, issues, 1)
	assert.Equal(t, models.SeverityWarning, issues[0].Severity)
	assert.True(t, issues[0].ImpactAmount.IsZero(), "configured-rate warnings carry no impact")
}

func TestBaseRateRule_SkipsUnknownClassification(t *testing.T) {
	rec := payRecord(3, models.EmploymentTypeFullTime, "Store Manager")
	rec.OrdinaryHours = dec("38")
	rec.OrdinaryPay = dec("1.00")

	issues := BaseRateRule{Award: models.AwardGeneralRetail}.Evaluate([]*models.PayRecord{rec}, 1)
	assert.Empty(t, issues)
}

func TestCasualLoadingRule_ChecksLoadedRateForCasualsOnly(t *testing.T) {
	casual := payRecord(1, models.EmploymentTypeCasual, "Level 1")
	casual.OrdinaryHours = dec("10")
	casual.OrdinaryPay = dec("300.00") // 30.00/h against a 33.19 loaded minimum

	permanent := payRecord(2, models.EmploymentTypeFullTime, "Level 1")
	permanent.OrdinaryHours = dec("10")
	permanent.OrdinaryPay = dec("300.00")

	issues := CasualLoadingRule{Award: models.AwardGeneralRetail}.Evaluate([]*models.PayRecord{casual, permanent}, 1)

	require.Len(t, issues, 1)
	issue := issues[0]
	assert.Equal(t, models.SeverityCritical, issue.Severity)
	assert.True(t, issue.ExpectedValue.Equal(dec("33.19")))
	assert.True(t, issue.ImpactAmount.Equal(dec("31.90")), "impact %s", issue.ImpactAmount)
	require.NotNil(t, issue.PayRecordId)
	assert.Equal(t, 1, *issue.PayRecordId)
}

func TestPenaltyRateRule_SaturdayUsesPermanentBase(t *testing.T) {
	rec := payRecord(1, models.EmploymentTypeFullTime, "Level 1")
	rec.SaturdayHours = dec("5")
	rec.SaturdayPay = dec("132.75") // flat rate, no penalty applied

	issues := PenaltyRateRule{Award: models.AwardGeneralRetail}.Evaluate([]*models.PayRecord{rec}, 1)

	require.Len(t, issues, 1)
	issue := issues[0]
	assert.Equal(t, models.SeverityError, issue.Severity)
	// 26.55 * 1.25 * 5 = 165.9375, rounded to cents.
	assert.True(t, issue.ExpectedValue.Equal(dec("165.94")), "expected %s", issue.ExpectedValue)
	assert.True(t, issue.ImpactAmount.Equal(dec("33.19")), "impact %s", issue.ImpactAmount)
}

func TestPenaltyRateRule_CasualMultiplierOnPermanentBase(t *testing.T) {
	rec := payRecord(1, models.EmploymentTypeCasual, "Level 1")
	rec.SaturdayHours = dec("4")
	// Casual Saturday multiplier is 1.50 applied to the PERMANENT base rate,
	// not the loaded casual rate: 26.55 * 1.50 * 4 = 159.30.
	rec.SaturdayPay = dec("159.30")

	issues := PenaltyRateRule{Award: models.AwardGeneralRetail}.Evaluate([]*models.PayRecord{rec}, 1)
	assert.Empty(t, issues)
}

func TestPenaltyRateRule_WithinAmountTolerance(t *testing.T) {
	rec := payRecord(1, models.EmploymentTypeFullTime, "Level 1")
	rec.SundayHours = dec("2")
	// Expected 26.55 * 1.50 * 2 = 79.65; paid 5 cents short, exactly at tolerance.
	rec.SundayPay = dec("79.60")

	issues := PenaltyRateRule{Award: models.AwardGeneralRetail}.Evaluate([]*models.PayRecord{rec}, 1)
	assert.Empty(t, issues)
}

func TestSuperannuationRule_Shortfall(t *testing.T) {
	rec := payRecord(1, models.EmploymentTypeFullTime, "Level 1")
	rec.OrdinaryHours = dec("38")
	rec.GrossPay = dec("1000.00")
	rec.SuperannuationPaid = dec("100.00")

	issues := SuperannuationRule{Award: models.AwardGeneralRetail}.Evaluate([]*models.PayRecord{rec}, 1)

	require.Len(t, issues, 1)
	issue := issues[0]
	assert.Equal(t, models.SeverityError, issue.Severity)
	assert.True(t, issue.ExpectedValue.Equal(dec("120.00")))
	assert.True(t, issue.ImpactAmount.Equal(dec("20.00")))
}

func TestSuperannuationRule_ZeroGrossWithHoursIsDataQualityWarning(t *testing.T) {
	rec := payRecord(1, models.EmploymentTypeCasual, "Level 2")
	rec.OrdinaryHours = dec("12")

	issues := SuperannuationRule{Award: models.AwardGeneralRetail}.Evaluate([]*models.PayRecord{rec}, 1)

	require.Len(t, issues, 1)
	assert.Equal(t, models.SeverityWarning, issues[0].Severity)
	assert.True(t, issues[0].IsWarningOnly())
}

func TestSuperannuationRule_WithinTolerance(t *testing.T) {
	rec := payRecord(1, models.EmploymentTypeFullTime, "Level 1")
	rec.GrossPay = dec("1000.00")
	rec.SuperannuationPaid = dec("119.96") // 4 cents short of 120.00

	issues := SuperannuationRule{Award: models.AwardGeneralRetail}.Evaluate([]*models.PayRecord{rec}, 1)
	assert.Empty(t, issues)
}

func TestPayrollRules_DeterministicAcrossRuns(t *testing.T) {
	records := []*models.PayRecord{
		payRecord(1, models.EmploymentTypeFullTime, "Level 1"),
		payRecord(2, models.EmploymentTypeCasual, "Level 3"),
	}
	records[0].OrdinaryHours = dec("10")
	records[0].OrdinaryPay = dec("200.00")
	records[0].SaturdayHours = dec("5")
	records[0].SaturdayPay = dec("100.00")
	records[0].GrossPay = dec("300.00")
	records[1].OrdinaryHours = dec("20")
	records[1].OrdinaryPay = dec("500.00")
	records[1].GrossPay = dec("500.00")
	records[1].SuperannuationPaid = dec("10.00")

	rules := EnabledPayrollRules(models.AwardGeneralRetail, PayrollCheckToggles{})
	var first, second []*models.Issue
	for _, rule := range rules {
		first = append(first, rule.Evaluate(records, 1)...)
	}
	for _, rule := range rules {
		second = append(second, rule.Evaluate(records, 1)...)
	}

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].CheckType, second[i].CheckType)
		assert.Equal(t, first[i].Severity, second[i].Severity)
		assert.True(t, first[i].ImpactAmount.Equal(second[i].ImpactAmount))
	}
}

func TestEnabledPayrollRules_HonorsToggles(t *testing.T) {
	rules := EnabledPayrollRules(models.AwardGeneralRetail, PayrollCheckToggles{
		SkipCasualLoading:  true,
		SkipSuperannuation: true,
	})
	var types []models.CheckType
	for _, rule := range rules {
		types = append(types, rule.CheckType())
	}
	assert.Equal(t, []models.CheckType{models.CheckTypeBaseRate, models.CheckTypePenaltyRate}, types)
}
