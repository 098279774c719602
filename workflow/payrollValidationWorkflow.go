package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/fairworkhq/compliance_backend/config"
	"github.com/fairworkhq/compliance_backend/models"
	"github.com/fairworkhq/compliance_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayrollEmployeeInput is one employee row from a parsed payroll file. Employees
// are upserted by employee number before the batch is validated, so the payroll
// file stays the system of record for employment type and classification.
type PayrollEmployeeInput struct {
	EmployeeNumber        string           `json:"employeeNumber" binding:"required"`
	FirstName             string           `json:"firstName"`
	LastName              string           `json:"lastName"`
	EmploymentType        string           `json:"employmentType" binding:"required"`
	Classification        string           `json:"classification"`
	GuaranteedWeeklyHours *decimal.Decimal `json:"guaranteedWeeklyHours"`
}

// PayrollRecordInput is one payslip row from a parsed payroll file.
type PayrollRecordInput struct {
	EmployeeNumber string    `json:"employeeNumber" binding:"required"`
	PeriodStart    time.Time `json:"periodStart" binding:"required"`
	PeriodEnd      time.Time `json:"periodEnd" binding:"required"`
	Classification string    `json:"classification"`
	EmploymentType string    `json:"employmentType" binding:"required"`

	OrdinaryHours      decimal.Decimal `json:"ordinaryHours"`
	SaturdayHours      decimal.Decimal `json:"saturdayHours"`
	SundayHours        decimal.Decimal `json:"sundayHours"`
	PublicHolidayHours decimal.Decimal `json:"publicHolidayHours"`

	OrdinaryPay      decimal.Decimal `json:"ordinaryPay"`
	SaturdayPay      decimal.Decimal `json:"saturdayPay"`
	SundayPay        decimal.Decimal `json:"sundayPay"`
	PublicHolidayPay decimal.Decimal `json:"publicHolidayPay"`

	SuperannuationPaid   decimal.Decimal `json:"superannuationPaid"`
	GrossPay             decimal.Decimal `json:"grossPay"`
	ConfiguredHourlyRate decimal.Decimal `json:"configuredHourlyRate"`
}

// PayrollValidationRequest is a validated payroll batch plus the caller's check
// selection. BatchId identifies the pay-period batch for the single-flight guard.
type PayrollValidationRequest struct {
	BatchId   int                    `json:"batchId" binding:"required"`
	Award     models.Award           `json:"award"`
	Checks    PayrollCheckToggles    `json:"checks"`
	Employees []PayrollEmployeeInput `json:"employees" binding:"required,dive"`
	Records   []PayrollRecordInput   `json:"records" binding:"required,dive"`
}

// ValidatePayrollBatch runs the payroll compliance pipeline end to end: upsert
// employees, create the run and its pay records, evaluate the enabled rules,
// tally and persist, all in one transaction. The report DTO is returned to the
// caller and enqueued on the outbox for downstream consumers.
func ValidatePayrollBatch(ctx context.Context, db *gorm.DB, req PayrollValidationRequest) (*ValidationReport, error) {
	logger := config.GetLogger()
	if db == nil {
		db = config.GetDB()
	}
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok {
		return nil, utils.ErrorUnauthorized
	}

	award := req.Award
	if award == "" {
		award = models.AwardGeneralRetail
	}

	employees, err := buildPayrollModels(req)
	if err != nil {
		return nil, err
	}

	lock, err := acquireValidationLock(ctx, organizationId, models.SubjectTypePayrollBatch, req.BatchId, "ValidatePayrollBatch")
	if err != nil {
		return nil, err
	}
	defer releaseValidationLock(lock)

	rules := EnabledPayrollRules(award, req.Checks)
	checkTypes := make([]models.CheckType, 0, len(rules))
	for _, rule := range rules {
		checkTypes = append(checkTypes, rule.CheckType())
	}

	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	run := models.NewValidationRun(organizationId, models.SubjectTypePayrollBatch, req.BatchId, correlationId)
	run.SetCheckTypes(checkTypes)

	var report *ValidationReport
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Cancellation must abort before anything is written; partial rule
		// results are never persisted.
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := models.UpsertEmployeesByNumber(tx, organizationId, employees); err != nil {
			config.LogError(logger, "workflow", "ValidatePayrollBatch", "Error upserting employees", organizationId, err)
			return err
		}
		employeeIdByNumber := make(map[string]int, len(employees))
		for _, emp := range employees {
			employeeIdByNumber[emp.EmployeeNumber] = emp.ID
		}

		run.Status = models.RunStatusInProgress
		if err := tx.Create(run).Error; err != nil {
			if isDuplicateActiveRun(err) {
				return ErrorValidationInProgress
			}
			config.LogError(logger, "workflow", "ValidatePayrollBatch", "Error creating validation run", req.BatchId, err)
			return err
		}

		records := make([]*models.PayRecord, 0, len(req.Records))
		for _, input := range req.Records {
			record, err := input.toPayRecord(organizationId, run.ID, employeeIdByNumber)
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		if err := tx.Create(&records).Error; err != nil {
			config.LogError(logger, "workflow", "ValidatePayrollBatch", "Error creating pay records", run.ID, err)
			return err
		}

		var issues []*models.Issue
		for _, rule := range rules {
			issues = append(issues, rule.Evaluate(records, run.ID)...)
		}
		for _, issue := range issues {
			issue.OrganizationId = organizationId
		}

		tallyRun(run, issues, len(records), func(i *models.Issue) *int { return i.PayRecordId })
		run.Complete(runFails(issues))

		if len(issues) > 0 {
			if err := tx.Create(&issues).Error; err != nil {
				config.LogError(logger, "workflow", "ValidatePayrollBatch", "Error persisting issues", run.ID, err)
				return err
			}
		}
		if err := run.SaveCompletion(tx); err != nil {
			config.LogError(logger, "workflow", "ValidatePayrollBatch", "Error saving run completion", run.ID, err)
			return err
		}

		report = BuildValidationReport(run, issues)
		return models.EnqueueValidationEvent(ctx, tx, run, report)
	})
	if err != nil {
		return nil, err
	}

	userId, _ := utils.GetUserIdFromContext(ctx)
	logger.WithFields(map[string]interface{}{
		"organizationId": organizationId,
		"userId":         userId,
		"runId":          run.ID,
		"status":         run.Status,
		"totalIssues":    run.TotalIssues,
	}).Info("payroll validation completed")
	return report, nil
}

func buildPayrollModels(req PayrollValidationRequest) ([]*models.Employee, error) {
	employees := make([]*models.Employee, 0, len(req.Employees))
	for _, input := range req.Employees {
		employmentType, err := models.ParseEmploymentType(input.EmploymentType)
		if err != nil {
			return nil, fmt.Errorf("%w: employee %s: %v", utils.ErrorInvalidInput, input.EmployeeNumber, err)
		}
		employees = append(employees, &models.Employee{
			EmployeeNumber:        input.EmployeeNumber,
			FirstName:             input.FirstName,
			LastName:              input.LastName,
			EmploymentType:        employmentType,
			Classification:        input.Classification,
			GuaranteedWeeklyHours: input.GuaranteedWeeklyHours,
			IsActive:              utils.NewTrue(),
		})
	}
	return employees, nil
}

func (input PayrollRecordInput) toPayRecord(organizationId string, runId int, employeeIdByNumber map[string]int) (*models.PayRecord, error) {
	employmentType, err := models.ParseEmploymentType(input.EmploymentType)
	if err != nil {
		return nil, fmt.Errorf("%w: record for %s: %v", utils.ErrorInvalidInput, input.EmployeeNumber, err)
	}
	employeeId, ok := employeeIdByNumber[input.EmployeeNumber]
	if !ok {
		return nil, fmt.Errorf("%w: record references unknown employee %s", utils.ErrorInvalidInput, input.EmployeeNumber)
	}
	return &models.PayRecord{
		OrganizationId:       organizationId,
		ValidationRunId:      runId,
		EmployeeId:           employeeId,
		PeriodStart:          utils.DateOnly(input.PeriodStart),
		PeriodEnd:            utils.DateOnly(input.PeriodEnd),
		Classification:       input.Classification,
		EmploymentType:       employmentType,
		OrdinaryHours:        input.OrdinaryHours,
		SaturdayHours:        input.SaturdayHours,
		SundayHours:          input.SundayHours,
		PublicHolidayHours:   input.PublicHolidayHours,
		OrdinaryPay:          input.OrdinaryPay,
		SaturdayPay:          input.SaturdayPay,
		SundayPay:            input.SundayPay,
		PublicHolidayPay:     input.PublicHolidayPay,
		SuperannuationPaid:   input.SuperannuationPaid,
		GrossPay:             input.GrossPay,
		ConfiguredHourlyRate: input.ConfiguredHourlyRate,
	}, nil
}
