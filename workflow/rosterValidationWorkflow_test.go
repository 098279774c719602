package workflow

import (
	"testing"

	"github.com/fairworkhq/compliance_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panickingRule struct{}

func (panickingRule) CheckType() models.CheckType { return models.CheckTypeDataQuality }

func (panickingRule) Evaluate([]*models.ShiftRecord, map[int]*models.Employee, int) []*models.Issue {
	panic("boom")
}

func TestEvaluateRosterRules_ConvertsPanicToError(t *testing.T) {
	rules := []RosterRule{MinimumShiftHoursRule{Params: retailRoster()}, panickingRule{}}
	issues, err := evaluateRosterRules(rules, nil, nil, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule execution panic")
	assert.Nil(t, issues)
}

func TestEvaluateRosterRules_CollectsAcrossRules(t *testing.T) {
	s := shift(1, 1, monday, "09:00", "10:00") // under every minimum, over no threshold
	rules := AllRosterRules(models.AwardGeneralRetail)
	issues, err := evaluateRosterRules(rules, []*models.ShiftRecord{s}, employeeMap(models.EmploymentTypeFullTime), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, issues)
}

func TestRosterRunPassSemantics(t *testing.T) {
	t.Run("zero issues passes", func(t *testing.T) {
		run := models.NewValidationRun("org-1", models.SubjectTypeRoster, 5, "")
		tallyRun(run, nil, 4, func(i *models.Issue) *int { return i.ShiftRecordId })
		run.Complete(runFails(nil))
		assert.Equal(t, models.RunStatusPassed, run.Status)
		assert.Equal(t, models.FailureKindNone, run.FailureKind)
		assert.Equal(t, 4, run.PassedSubjects)
	})

	t.Run("advisory issues alone still pass", func(t *testing.T) {
		issues := []*models.Issue{
			models.NewWarningIssue(1, models.CheckTypeWeeklyHours, models.SeverityWarning, "no guaranteed hours configured").ForEmployee(1),
			models.NewWarningIssue(1, models.CheckTypeDataQuality, models.SeverityInfo, "unparsable times").ForShift(2),
		}
		run := models.NewValidationRun("org-1", models.SubjectTypeRoster, 5, "")
		tallyRun(run, issues, 4, func(i *models.Issue) *int { return i.ShiftRecordId })
		run.Complete(runFails(issues))
		assert.Equal(t, models.RunStatusPassed, run.Status)
		assert.Equal(t, 2, run.TotalIssues)
	})

	t.Run("a single Error fails the run", func(t *testing.T) {
		issues := []*models.Issue{
			models.NewWarningIssue(1, models.CheckTypeDataQuality, models.SeverityError, "shift has no resolvable employee").ForShift(3),
		}
		run := models.NewValidationRun("org-1", models.SubjectTypeRoster, 5, "")
		tallyRun(run, issues, 4, func(i *models.Issue) *int { return i.ShiftRecordId })
		run.Complete(runFails(issues))
		assert.Equal(t, models.RunStatusFailed, run.Status)
		assert.Equal(t, models.FailureKindCompliance, run.FailureKind)
		assert.Equal(t, 3, run.PassedSubjects)
	})

	t.Run("rule failure marks an execution failure", func(t *testing.T) {
		_, err := evaluateRosterRules([]RosterRule{panickingRule{}}, nil, nil, 1)
		require.Error(t, err)
		run := models.NewValidationRun("org-1", models.SubjectTypeRoster, 5, "")
		run.MarkExecutionFailure(err)
		assert.Equal(t, models.RunStatusFailed, run.Status)
		assert.Equal(t, models.FailureKindExecution, run.FailureKind)
		assert.Contains(t, run.Notes, "rule execution panic")
	})
}
