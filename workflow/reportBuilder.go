package workflow

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fairworkhq/compliance_backend/config"
	"github.com/fairworkhq/compliance_backend/models"
	"github.com/fairworkhq/compliance_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategorySummary aggregates one check type's findings across a run.
type CategorySummary struct {
	CheckType     models.CheckType `json:"checkType"`
	IssueCount    int              `json:"issueCount"`
	WorstSeverity models.Severity  `json:"worstSeverity"`
	// TotalImpact sums measured issues only; advisory issues carry zero impact.
	TotalImpact decimal.Decimal `json:"totalImpact"`
}

// IssueDetail is the report view of a single issue.
type IssueDetail struct {
	CheckType      models.CheckType `json:"checkType"`
	Severity       models.Severity  `json:"severity"`
	EmployeeId     *int             `json:"employeeId,omitempty"`
	PayRecordId    *int             `json:"payRecordId,omitempty"`
	ShiftRecordId  *int             `json:"shiftRecordId,omitempty"`
	ExpectedValue  decimal.Decimal  `json:"expectedValue"`
	ActualValue    decimal.Decimal  `json:"actualValue"`
	AffectedUnits  decimal.Decimal  `json:"affectedUnits"`
	UnitType       models.UnitType  `json:"unitType,omitempty"`
	ImpactAmount   decimal.Decimal  `json:"impactAmount"`
	ContextLabel   string           `json:"contextLabel,omitempty"`
	WarningMessage *string          `json:"warningMessage,omitempty"`
}

// ValidationReport is the outcome DTO handed to HTTP clients and published on the
// validation.completed event.
type ValidationReport struct {
	RunId       int                `json:"runId"`
	SubjectType models.SubjectType `json:"subjectType"`
	SubjectId   int                `json:"subjectId"`
	Status      models.RunStatus   `json:"status"`
	FailureKind models.FailureKind `json:"failureKind"`
	StartedAt   time.Time          `json:"startedAt"`
	CompletedAt *time.Time         `json:"completedAt"`

	TotalSubjects     int `json:"totalSubjects"`
	PassedSubjects    int `json:"passedSubjects"`
	FailedSubjects    int `json:"failedSubjects"`
	TotalIssues       int `json:"totalIssues"`
	CriticalIssues    int `json:"criticalIssues"`
	AffectedEmployees int `json:"affectedEmployees"`

	ChecksExecuted []models.CheckType `json:"checksExecuted"`
	TotalImpact    decimal.Decimal    `json:"totalImpact"`
	Notes          string             `json:"notes,omitempty"`

	Categories []CategorySummary `json:"categories"`
	Issues     []IssueDetail     `json:"issues"`
}

// BuildValidationReport assembles the report DTO from a finished run and its
// issues. Categories are sorted by total impact descending, ties by check type,
// so the most expensive problem leads.
func BuildValidationReport(run *models.ValidationRun, issues []*models.Issue) *ValidationReport {
	report := &ValidationReport{
		RunId:             run.ID,
		SubjectType:       run.SubjectType,
		SubjectId:         run.SubjectId,
		Status:            run.Status,
		FailureKind:       run.FailureKind,
		StartedAt:         run.StartedAt,
		CompletedAt:       run.CompletedAt,
		TotalSubjects:     run.TotalSubjects,
		PassedSubjects:    run.PassedSubjects,
		FailedSubjects:    run.FailedSubjects,
		TotalIssues:       run.TotalIssues,
		CriticalIssues:    run.CriticalIssues,
		AffectedEmployees: run.AffectedEmployees,
		ChecksExecuted:    run.CheckTypes(),
		TotalImpact:       decimal.Zero,
		Notes:             run.Notes,
		Categories:        []CategorySummary{},
		Issues:            []IssueDetail{},
	}

	byCategory := make(map[models.CheckType]*CategorySummary)
	for _, issue := range issues {
		summary, ok := byCategory[issue.CheckType]
		if !ok {
			summary = &CategorySummary{
				CheckType:     issue.CheckType,
				WorstSeverity: issue.Severity,
				TotalImpact:   decimal.Zero,
			}
			byCategory[issue.CheckType] = summary
		}
		summary.IssueCount++
		if issue.Severity.Rank() > summary.WorstSeverity.Rank() {
			summary.WorstSeverity = issue.Severity
		}
		if !issue.IsWarningOnly() {
			summary.TotalImpact = summary.TotalImpact.Add(issue.ImpactAmount)
			report.TotalImpact = report.TotalImpact.Add(issue.ImpactAmount)
		}

		report.Issues = append(report.Issues, IssueDetail{
			CheckType:      issue.CheckType,
			Severity:       issue.Severity,
			EmployeeId:     issue.EmployeeId,
			PayRecordId:    issue.PayRecordId,
			ShiftRecordId:  issue.ShiftRecordId,
			ExpectedValue:  issue.ExpectedValue,
			ActualValue:    issue.ActualValue,
			AffectedUnits:  issue.AffectedUnits,
			UnitType:       issue.UnitType,
			ImpactAmount:   issue.ImpactAmount,
			ContextLabel:   issue.ContextLabel,
			WarningMessage: issue.WarningMessage,
		})
	}

	for _, summary := range byCategory {
		report.Categories = append(report.Categories, *summary)
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		left, right := report.Categories[i], report.Categories[j]
		if !left.TotalImpact.Equal(right.TotalImpact) {
			return left.TotalImpact.GreaterThan(right.TotalImpact)
		}
		return left.CheckType < right.CheckType
	})

	return report
}

// tallyRun folds issue statistics into the run. subjectRef extracts the subject
// reference the pass/fail count is keyed on (pay record for payroll runs, shift
// for roster runs).
func tallyRun(run *models.ValidationRun, issues []*models.Issue, totalSubjects int, subjectRef func(*models.Issue) *int) {
	failedSubjects := make(map[int]bool)
	affectedEmployees := make(map[int]bool)
	run.TotalIssues = len(issues)
	run.CriticalIssues = 0
	for _, issue := range issues {
		if issue.Severity == models.SeverityCritical {
			run.CriticalIssues++
		}
		if ref := subjectRef(issue); ref != nil {
			failedSubjects[*ref] = true
		}
		if issue.EmployeeId != nil {
			affectedEmployees[*issue.EmployeeId] = true
		}
	}
	run.TotalSubjects = totalSubjects
	run.FailedSubjects = len(failedSubjects)
	run.PassedSubjects = totalSubjects - len(failedSubjects)
	run.AffectedEmployees = len(affectedEmployees)
}

// runFails reports whether any issue crosses the failing severity threshold.
// Info and Warning findings alone never fail a run.
func runFails(issues []*models.Issue) bool {
	for _, issue := range issues {
		if issue.Severity.FailsRun() {
			return true
		}
	}
	return false
}

const reportCacheTTL = 15 * time.Minute

func reportCacheKey(organizationId string, runId int) string {
	return fmt.Sprintf("validation-report:%s:%d", organizationId, runId)
}

// GetValidationReport rebuilds the report for a finished (or in-flight) run; used
// by the report endpoint for polling clients. Finished runs are immutable, so
// their reports are served from the redis object cache once built.
func GetValidationReport(ctx context.Context, db *gorm.DB, runId int) (*ValidationReport, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok {
		return nil, utils.ErrorUnauthorized
	}
	if db == nil {
		db = config.GetDB()
	}

	cacheKey := reportCacheKey(organizationId, runId)
	var cached ValidationReport
	if found, err := config.GetRedisObject(cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	var run models.ValidationRun
	err := db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationId, runId).
		First(&run).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	var issues []*models.Issue
	err = db.WithContext(ctx).
		Where("organization_id = ? AND validation_run_id = ?", organizationId, runId).
		Order("id asc").
		Find(&issues).Error
	if err != nil {
		return nil, err
	}

	report := BuildValidationReport(&run, issues)
	if run.IsFinished() {
		if err := config.SetRedisObject(cacheKey, report, reportCacheTTL); err != nil {
			config.LogError(config.GetLogger(), "workflow", "GetValidationReport", "caching report", cacheKey, err)
		}
	}
	return report, nil
}
