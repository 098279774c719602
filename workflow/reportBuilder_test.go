package workflow

import (
	"testing"
	"time"

	"github.com/fairworkhq/compliance_backend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildValidationReport_AggregatesCategories(t *testing.T) {
	now := time.Now().UTC()
	run := &models.ValidationRun{
		ID:          10,
		SubjectType: models.SubjectTypePayrollBatch,
		SubjectId:   3,
		Status:      models.RunStatusFailed,
		FailureKind: models.FailureKindCompliance,
		StartedAt:   now,
		CompletedAt: &now,
	}
	run.SetCheckTypes([]models.CheckType{models.CheckTypeBaseRate, models.CheckTypeSuperannuation})

	issues := []*models.Issue{
		models.NewMeasuredIssue(10, models.CheckTypeBaseRate, models.SeverityCritical,
			dec("26.55"), dec("20.00"), dec("10"), models.UnitTypeHours, dec("65.50"), "under minimum"),
		models.NewMeasuredIssue(10, models.CheckTypeBaseRate, models.SeverityWarning,
			dec("26.55"), dec("25.00"), dec("10"), models.UnitTypeHours, decimal.Zero, "configured rate low"),
		models.NewMeasuredIssue(10, models.CheckTypeSuperannuation, models.SeverityError,
			dec("120.00"), dec("100.00"), decimal.NewFromInt(1), models.UnitTypeCurrency, dec("20.00"), "super shortfall"),
		models.NewWarningIssue(10, models.CheckTypeSuperannuation, models.SeverityWarning, "cannot verify"),
	}

	report := BuildValidationReport(run, issues)

	assert.Equal(t, 10, report.RunId)
	assert.Equal(t, models.RunStatusFailed, report.Status)
	assert.Len(t, report.Issues, 4)
	require.Len(t, report.Categories, 2)

	// Sorted by impact descending: BaseRate (65.50) before Superannuation (20.00).
	assert.Equal(t, models.CheckTypeBaseRate, report.Categories[0].CheckType)
	assert.Equal(t, 2, report.Categories[0].IssueCount)
	assert.Equal(t, models.SeverityCritical, report.Categories[0].WorstSeverity)
	assert.True(t, report.Categories[0].TotalImpact.Equal(dec("65.50")))

	assert.Equal(t, models.CheckTypeSuperannuation, report.Categories[1].CheckType)
	assert.Equal(t, models.SeverityError, report.Categories[1].WorstSeverity)
	// The advisory issue contributes to the count but not the impact.
	assert.Equal(t, 2, report.Categories[1].IssueCount)
	assert.True(t, report.Categories[1].TotalImpact.Equal(dec("20.00")))

	assert.True(t, report.TotalImpact.Equal(dec("85.50")))
	assert.Equal(t, []models.CheckType{models.CheckTypeBaseRate, models.CheckTypeSuperannuation}, report.ChecksExecuted)
}

func TestBuildValidationReport_EmptyRun(t *testing.T) {
	run := &models.ValidationRun{ID: 1, Status: models.RunStatusPassed}
	report := BuildValidationReport(run, nil)
	assert.Empty(t, report.Issues)
	assert.Empty(t, report.Categories)
	assert.True(t, report.TotalImpact.IsZero())
}

func TestTallyRun_CountsDistinctSubjectsAndEmployees(t *testing.T) {
	run := &models.ValidationRun{}
	issues := []*models.Issue{
		models.NewMeasuredIssue(1, models.CheckTypeBaseRate, models.SeverityCritical,
			dec("26.55"), dec("20.00"), dec("10"), models.UnitTypeHours, dec("65.50"), "").ForEmployee(1).ForPayRecord(11),
		models.NewMeasuredIssue(1, models.CheckTypePenaltyRate, models.SeverityError,
			dec("165.94"), dec("132.75"), dec("5"), models.UnitTypeHours, dec("33.19"), "").ForEmployee(1).ForPayRecord(11),
		models.NewMeasuredIssue(1, models.CheckTypeSuperannuation, models.SeverityError,
			dec("120.00"), dec("100.00"), decimal.NewFromInt(1), models.UnitTypeCurrency, dec("20.00"), "").ForEmployee(2).ForPayRecord(12),
	}

	tallyRun(run, issues, 5, func(i *models.Issue) *int { return i.PayRecordId })

	assert.Equal(t, 5, run.TotalSubjects)
	assert.Equal(t, 2, run.FailedSubjects)
	assert.Equal(t, 3, run.PassedSubjects)
	assert.Equal(t, 3, run.TotalIssues)
	assert.Equal(t, 1, run.CriticalIssues)
	assert.Equal(t, 2, run.AffectedEmployees)
}

func TestRunFails_SeverityThreshold(t *testing.T) {
	info := models.NewMeasuredIssue(1, models.CheckTypeWeeklyHours, models.SeverityInfo,
		dec("38"), dec("42"), dec("4"), models.UnitTypeHours, dec("4"), "")
	warning := models.NewWarningIssue(1, models.CheckTypeDataQuality, models.SeverityWarning, "missing config")
	errIssue := models.NewMeasuredIssue(1, models.CheckTypeRestPeriod, models.SeverityError,
		dec("10"), dec("7"), decimal.NewFromInt(2), models.UnitTypeHours, dec("3"), "")

	assert.False(t, runFails([]*models.Issue{info, warning}), "Info and Warning alone must not fail a run")
	assert.True(t, runFails([]*models.Issue{info, warning, errIssue}))
	assert.False(t, runFails(nil))
}

func TestReportCacheKey(t *testing.T) {
	assert.Equal(t, "validation-report:org-1:7", reportCacheKey("org-1", 7))
	assert.NotEqual(t, reportCacheKey("org-1", 7), reportCacheKey("org-2", 7))
}
