package workflow

import (
	"context"
	"fmt"

	"github.com/fairworkhq/compliance_backend/config"
	"github.com/fairworkhq/compliance_backend/models"
	"github.com/fairworkhq/compliance_backend/utils"
	"gorm.io/gorm"
)

// ValidateRoster runs the roster compliance pipeline for a stored roster. The run
// row is persisted InProgress before rule execution so polling clients see
// progress. A rule panic or storage error during evaluation marks the run as an
// execution failure (retriable, distinct from a compliance failure) and the run
// is still persisted and returned rather than propagating the error.
func ValidateRoster(ctx context.Context, db *gorm.DB, rosterId int) (*ValidationReport, error) {
	logger := config.GetLogger()
	if db == nil {
		db = config.GetDB()
	}
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok {
		return nil, utils.ErrorUnauthorized
	}

	lock, err := acquireValidationLock(ctx, organizationId, models.SubjectTypeRoster, rosterId, "ValidateRoster")
	if err != nil {
		return nil, err
	}
	defer releaseValidationLock(lock)

	roster, err := models.GetRosterWithShifts(ctx, db, organizationId, rosterId)
	if err != nil {
		return nil, err
	}

	rules := AllRosterRules(roster.Award)
	checkTypes := make([]models.CheckType, 0, len(rules))
	for _, rule := range rules {
		checkTypes = append(checkTypes, rule.CheckType())
	}

	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	run := models.NewValidationRun(organizationId, models.SubjectTypeRoster, rosterId, correlationId)
	run.SetCheckTypes(checkTypes)
	run.Status = models.RunStatusInProgress

	// Nothing is written before this point; caller cancellation aborts cleanly.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Create(run).Error; err != nil {
		if isDuplicateActiveRun(err) {
			return nil, ErrorValidationInProgress
		}
		config.LogError(logger, "workflow", "ValidateRoster", "Error creating validation run", rosterId, err)
		return nil, err
	}

	employees, err := loadRosterEmployees(ctx, db, organizationId, roster)
	if err == nil {
		var issues []*models.Issue
		issues, err = evaluateRosterRules(rules, roster.Shifts, employees, run.ID)
		if err == nil {
			for _, issue := range issues {
				issue.OrganizationId = organizationId
			}
			tallyRun(run, issues, len(roster.Shifts), func(i *models.Issue) *int { return i.ShiftRecordId })
			run.Complete(runFails(issues))

			var report *ValidationReport
			err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				if len(issues) > 0 {
					if err := tx.Create(&issues).Error; err != nil {
						return err
					}
				}
				if err := run.SaveCompletion(tx); err != nil {
					return err
				}
				report = BuildValidationReport(run, issues)
				return models.EnqueueValidationEvent(ctx, tx, run, report)
			})
			if err == nil {
				userId, _ := utils.GetUserIdFromContext(ctx)
				logger.WithFields(map[string]interface{}{
					"organizationId": organizationId,
					"userId":         userId,
					"runId":          run.ID,
					"status":         run.Status,
					"totalIssues":    run.TotalIssues,
				}).Info("roster validation completed")
				return report, nil
			}
		}
	}

	// Execution failure: persist the Failed/Execution state so the run is never
	// left dangling InProgress, then return the report describing the failure.
	config.LogError(logger, "workflow", "ValidateRoster", "Execution failure during roster validation", run.ID, err)
	run.MarkExecutionFailure(err)
	persistErr := db.Transaction(func(tx *gorm.DB) error {
		if err := run.SaveCompletion(tx); err != nil {
			return err
		}
		report := BuildValidationReport(run, nil)
		return models.EnqueueValidationEvent(ctx, tx, run, report)
	})
	if persistErr != nil {
		config.LogError(logger, "workflow", "ValidateRoster", "Error persisting execution failure", run.ID, persistErr)
		return nil, persistErr
	}
	return BuildValidationReport(run, nil), nil
}

// evaluateRosterRules runs every rule, converting a rule panic into an error so a
// single defective rule cannot take the process down or leave the run InProgress.
func evaluateRosterRules(rules []RosterRule, shifts []*models.ShiftRecord, employees map[int]*models.Employee, runId int) (issues []*models.Issue, err error) {
	defer func() {
		if r := recover(); r != nil {
			issues = nil
			err = fmt.Errorf("rule execution panic: %v", r)
		}
	}()
	for _, rule := range rules {
		issues = append(issues, rule.Evaluate(shifts, employees, runId)...)
	}
	return issues, nil
}

// loadRosterEmployees resolves the employees referenced by the roster's shifts.
// Ids that do not resolve simply stay out of the map; DataQualityRule reports
// them.
func loadRosterEmployees(ctx context.Context, db *gorm.DB, organizationId string, roster *models.Roster) (map[int]*models.Employee, error) {
	var ids []int
	for _, shift := range roster.Shifts {
		if shift.EmployeeId != nil {
			ids = append(ids, *shift.EmployeeId)
		}
	}
	employees, err := models.MapEmployeesById(db.WithContext(ctx), organizationId, utils.UniqueSlice(ids))
	if err != nil {
		return nil, fmt.Errorf("loading roster employees: %w", err)
	}
	return employees, nil
}
