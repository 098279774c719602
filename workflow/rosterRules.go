package workflow

import (
	"fmt"
	"sort"
	"time"

	"github.com/fairworkhq/compliance_backend/awards"
	"github.com/fairworkhq/compliance_backend/models"
	"github.com/fairworkhq/compliance_backend/utils"
	"github.com/shopspring/decimal"
)

// RosterRule is one roster compliance check. Rules receive the full shift set and
// the resolved employee map; grouping by employee happens inside the rules that
// need it (rest periods, streaks, weekly hours). The same purity and determinism
// requirements as PayrollRule apply.
type RosterRule interface {
	CheckType() models.CheckType
	Evaluate(shifts []*models.ShiftRecord, employees map[int]*models.Employee, runId int) []*models.Issue
}

// resolvedEmployee returns the shift's employee when the reference resolves.
// Unresolved references are DataQualityRule's job; every other rule skips them.
func resolvedEmployee(shift *models.ShiftRecord, employees map[int]*models.Employee) (*models.Employee, bool) {
	if shift.EmployeeId == nil {
		return nil, false
	}
	emp, ok := employees[*shift.EmployeeId]
	return emp, ok
}

// shiftsByEmployee groups resolvable shifts per employee, with employee ids in
// ascending order for deterministic output.
func shiftsByEmployee(shifts []*models.ShiftRecord, employees map[int]*models.Employee) ([]int, map[int][]*models.ShiftRecord) {
	grouped := make(map[int][]*models.ShiftRecord)
	for _, shift := range shifts {
		emp, ok := resolvedEmployee(shift, employees)
		if !ok {
			continue
		}
		grouped[emp.ID] = append(grouped[emp.ID], shift)
	}
	ids := make([]int, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, grouped
}

// MinimumShiftHoursRule enforces the award's minimum engagement per shift.
type MinimumShiftHoursRule struct {
	Params awards.RosterParameters
}

func (r MinimumShiftHoursRule) CheckType() models.CheckType { return models.CheckTypeMinimumShiftHours }

func (r MinimumShiftHoursRule) Evaluate(shifts []*models.ShiftRecord, employees map[int]*models.Employee, runId int) []*models.Issue {
	var issues []*models.Issue
	for _, shift := range shifts {
		emp, ok := resolvedEmployee(shift, employees)
		if !ok {
			continue
		}
		minutes, ok := shift.DurationMinutes()
		if !ok {
			continue
		}
		minimum := r.Params.MinimumShift(emp.EmploymentType)
		if !minimum.IsPositive() {
			continue
		}
		actual := decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))
		if actual.LessThan(minimum) {
			issue := models.NewMeasuredIssue(runId, r.CheckType(), models.SeverityError,
				minimum, actual.Round(2), actual.Round(2), models.UnitTypeHours, minimum.Sub(actual).Round(2),
				fmt.Sprintf("shift on %s is shorter than the %s-hour minimum engagement", shift.ShiftDate.Format("2006-01-02"), minimum.String()))
			issues = append(issues, issue.ForEmployee(emp.ID).ForShift(shift.ID))
		}
	}
	return issues
}

// MealBreakRule requires an adequate meal break on shifts over the award
// threshold.
type MealBreakRule struct {
	Params awards.RosterParameters
}

func (r MealBreakRule) CheckType() models.CheckType { return models.CheckTypeMealBreak }

func (r MealBreakRule) Evaluate(shifts []*models.ShiftRecord, employees map[int]*models.Employee, runId int) []*models.Issue {
	var issues []*models.Issue
	for _, shift := range shifts {
		emp, ok := resolvedEmployee(shift, employees)
		if !ok {
			continue
		}
		minutes, ok := shift.DurationMinutes()
		if !ok {
			continue
		}
		if minutes <= r.Params.MealBreakThresholdMinutes {
			continue
		}
		actualBreak := 0
		if utils.DereferencePtr(shift.HasMealBreak) {
			actualBreak = shift.BreakMinutes
		}
		if actualBreak < r.Params.MealBreakMinimumMinutes {
			expected := decimal.NewFromInt(int64(r.Params.MealBreakMinimumMinutes))
			actual := decimal.NewFromInt(int64(actualBreak))
			issue := models.NewMeasuredIssue(runId, r.CheckType(), models.SeverityError,
				expected, actual, decimal.NewFromInt(1), models.UnitTypeMinutes, expected.Sub(actual),
				fmt.Sprintf("shift on %s exceeds %d minutes without an adequate meal break", shift.ShiftDate.Format("2006-01-02"), r.Params.MealBreakThresholdMinutes))
			issues = append(issues, issue.ForEmployee(emp.ID).ForShift(shift.ID))
		}
	}
	return issues
}

// RestPeriodRule checks the gap between an employee's adjacent shifts against the
// award's standard and reduced rest thresholds.
type RestPeriodRule struct {
	Params awards.RosterParameters
}

func (r RestPeriodRule) CheckType() models.CheckType { return models.CheckTypeRestPeriod }

func (r RestPeriodRule) Evaluate(shifts []*models.ShiftRecord, employees map[int]*models.Employee, runId int) []*models.Issue {
	var issues []*models.Issue
	ids, grouped := shiftsByEmployee(shifts, employees)
	for _, employeeId := range ids {
		spans := make([]struct {
			shift *models.ShiftRecord
			start time.Time
			end   time.Time
		}, 0, len(grouped[employeeId]))
		for _, shift := range grouped[employeeId] {
			start, end, ok := shift.Span()
			if !ok {
				continue
			}
			spans = append(spans, struct {
				shift *models.ShiftRecord
				start time.Time
				end   time.Time
			}{shift, start, end})
		}
		sort.Slice(spans, func(i, j int) bool { return spans[i].start.Before(spans[j].start) })

		for i := 0; i+1 < len(spans); i++ {
			current, next := spans[i], spans[i+1]
			rest := next.start.Sub(current.end)
			restHours := decimal.NewFromFloat(rest.Hours())
			if restHours.GreaterThanOrEqual(r.Params.RestPeriodStandardHours) {
				continue
			}
			severity := models.SeverityWarning
			if restHours.LessThan(r.Params.RestPeriodReducedHours) {
				severity = models.SeverityError
			}
			issue := models.NewMeasuredIssue(runId, r.CheckType(), severity,
				r.Params.RestPeriodStandardHours, restHours.Round(2), decimal.NewFromInt(2), models.UnitTypeHours,
				r.Params.RestPeriodStandardHours.Sub(restHours).Round(2),
				fmt.Sprintf("insufficient rest between shifts on %s and %s",
					current.shift.ShiftDate.Format("2006-01-02"), next.shift.ShiftDate.Format("2006-01-02")))
			issues = append(issues, issue.ForEmployee(employeeId).ForShift(next.shift.ID))
		}
	}
	return issues
}

// ConsecutiveDaysRule detects runs of consecutive rostered calendar days longer
// than the award maximum. One issue per maximal run; an isolated later day does
// not extend a flagged streak.
type ConsecutiveDaysRule struct {
	Params awards.RosterParameters
}

func (r ConsecutiveDaysRule) CheckType() models.CheckType { return models.CheckTypeConsecutiveDays }

func (r ConsecutiveDaysRule) Evaluate(shifts []*models.ShiftRecord, employees map[int]*models.Employee, runId int) []*models.Issue {
	var issues []*models.Issue
	ids, grouped := shiftsByEmployee(shifts, employees)
	for _, employeeId := range ids {
		seen := make(map[time.Time]bool)
		var dates []time.Time
		for _, shift := range grouped[employeeId] {
			d := utils.DateOnly(shift.ShiftDate)
			if !seen[d] {
				seen[d] = true
				dates = append(dates, d)
			}
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		runStart := 0
		for i := 1; i <= len(dates); i++ {
			runEnds := i == len(dates) || !dates[i].Equal(dates[i-1].AddDate(0, 0, 1))
			if runEnds {
				runLength := i - runStart
				if runLength > r.Params.MaxConsecutiveDays {
					issue := models.NewMeasuredIssue(runId, r.CheckType(), models.SeverityWarning,
						decimal.NewFromInt(int64(r.Params.MaxConsecutiveDays)),
						decimal.NewFromInt(int64(runLength)),
						decimal.NewFromInt(int64(runLength)), models.UnitTypeDays,
						decimal.NewFromInt(int64(runLength-r.Params.MaxConsecutiveDays)),
						fmt.Sprintf("%d consecutive rostered days from %s to %s (award maximum %d)",
							runLength, dates[runStart].Format("2006-01-02"), dates[i-1].Format("2006-01-02"), r.Params.MaxConsecutiveDays))
					issues = append(issues, issue.ForEmployee(employeeId))
				}
				runStart = i
			}
		}
	}
	return issues
}

// WeeklyHoursLimitRule sums net worked hours per employee per ISO week
// (Monday start). Casuals are exempt. Full-time and fixed-term employees compare
// against the fixed weekly cap (informational overtime, Info). Part-time
// employees compare against their individually guaranteed hours; a missing
// guaranteed-hours configuration is itself surfaced as a data-quality warning.
type WeeklyHoursLimitRule struct {
	Params awards.RosterParameters
}

func (r WeeklyHoursLimitRule) CheckType() models.CheckType { return models.CheckTypeWeeklyHours }

func (r WeeklyHoursLimitRule) Evaluate(shifts []*models.ShiftRecord, employees map[int]*models.Employee, runId int) []*models.Issue {
	var issues []*models.Issue
	ids, grouped := shiftsByEmployee(shifts, employees)
	for _, employeeId := range ids {
		emp := employees[employeeId]
		if emp.EmploymentType == models.EmploymentTypeCasual {
			continue
		}

		var limit decimal.Decimal
		severity := models.SeverityInfo
		switch emp.EmploymentType {
		case models.EmploymentTypePartTime:
			if emp.GuaranteedWeeklyHours == nil {
				label := emp.EmployeeNumber
				if name := emp.FullName(); name != "" {
					label = fmt.Sprintf("%s (%s)", name, emp.EmployeeNumber)
				}
				issue := models.NewWarningIssue(runId, r.CheckType(), models.SeverityWarning,
					fmt.Sprintf("part-time employee %s has no guaranteed weekly hours configured; weekly hours cannot be checked", label))
				issues = append(issues, issue.ForEmployee(employeeId))
				continue
			}
			limit = *emp.GuaranteedWeeklyHours
			severity = models.SeverityWarning
		default:
			limit = r.Params.FullTimeWeeklyHours
		}
		if !limit.IsPositive() {
			continue
		}

		weekTotals := make(map[time.Time]decimal.Decimal)
		for _, shift := range grouped[employeeId] {
			net, ok := shift.NetHours()
			if !ok {
				continue
			}
			week := utils.ISOWeekStart(shift.ShiftDate)
			weekTotals[week] = weekTotals[week].Add(net)
		}
		weeks := make([]time.Time, 0, len(weekTotals))
		for week := range weekTotals {
			weeks = append(weeks, week)
		}
		sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

		for _, week := range weeks {
			total := weekTotals[week]
			if total.GreaterThan(limit) {
				issue := models.NewMeasuredIssue(runId, r.CheckType(), severity,
					limit, total.Round(2), total.Sub(limit).Round(2), models.UnitTypeHours, total.Sub(limit).Round(2),
					fmt.Sprintf("rostered %s hours in week starting %s exceeds the %s-hour limit",
						total.Round(2).String(), week.Format("2006-01-02"), limit.String()))
				issues = append(issues, issue.ForEmployee(employeeId))
			}
		}
	}
	return issues
}

// DataQualityRule surfaces shifts other rules cannot evaluate: unresolved
// employee references (Error; every per-employee check skips the shift) and
// break minutes exceeding the shift span (Warning).
type DataQualityRule struct {
	Params awards.RosterParameters
}

func (r DataQualityRule) CheckType() models.CheckType { return models.CheckTypeDataQuality }

func (r DataQualityRule) Evaluate(shifts []*models.ShiftRecord, employees map[int]*models.Employee, runId int) []*models.Issue {
	var issues []*models.Issue
	for _, shift := range shifts {
		if _, ok := resolvedEmployee(shift, employees); !ok {
			issue := models.NewWarningIssue(runId, r.CheckType(), models.SeverityError,
				fmt.Sprintf("shift on %s has no resolvable employee; compliance checks for it are skipped", shift.ShiftDate.Format("2006-01-02")))
			issues = append(issues, issue.ForShift(shift.ID))
			continue
		}
		minutes, ok := shift.DurationMinutes()
		if !ok {
			issue := models.NewWarningIssue(runId, r.CheckType(), models.SeverityWarning,
				fmt.Sprintf("shift on %s has unparsable start/end times", shift.ShiftDate.Format("2006-01-02")))
			issues = append(issues, issue.ForShift(shift.ID))
			continue
		}
		if shift.BreakMinutes > minutes {
			issue := models.NewWarningIssue(runId, r.CheckType(), models.SeverityWarning,
				fmt.Sprintf("shift on %s records %d break minutes against a %d minute span", shift.ShiftDate.Format("2006-01-02"), shift.BreakMinutes, minutes))
			issues = append(issues, issue.ForShift(shift.ID))
		}
	}
	return issues
}
