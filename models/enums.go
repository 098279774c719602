package models

import "errors"

type EmploymentType string

const (
	EmploymentTypeFullTime  EmploymentType = "FullTime"
	EmploymentTypePartTime  EmploymentType = "PartTime"
	EmploymentTypeCasual    EmploymentType = "Casual"
	EmploymentTypeFixedTerm EmploymentType = "FixedTerm"
)

func ParseEmploymentType(s string) (EmploymentType, error) {
	switch s {
	case "FullTime":
		return EmploymentTypeFullTime, nil
	case "PartTime":
		return EmploymentTypePartTime, nil
	case "Casual":
		return EmploymentTypeCasual, nil
	case "FixedTerm":
		return EmploymentTypeFixedTerm, nil
	default:
		return "", errors.New("invalid employment type")
	}
}

type Award string

const (
	AwardGeneralRetail Award = "GeneralRetail"
)

type CheckType string

const (
	// Payroll checks
	CheckTypeBaseRate       CheckType = "BaseRate"
	CheckTypeCasualLoading  CheckType = "CasualLoading"
	CheckTypePenaltyRate    CheckType = "PenaltyRate"
	CheckTypeSuperannuation CheckType = "Superannuation"

	// Roster checks
	CheckTypeMinimumShiftHours CheckType = "MinimumShiftHours"
	CheckTypeMealBreak         CheckType = "MealBreak"
	CheckTypeRestPeriod        CheckType = "RestPeriod"
	CheckTypeConsecutiveDays   CheckType = "ConsecutiveDays"
	CheckTypeWeeklyHours       CheckType = "WeeklyHours"
	CheckTypeDataQuality       CheckType = "DataQuality"
)

type Severity string

const (
	SeverityInfo     Severity = "Info"
	SeverityWarning  Severity = "Warning"
	SeverityError    Severity = "Error"
	SeverityCritical Severity = "Critical"
)

// Rank orders severities for threshold comparison: Info < Warning < Error < Critical.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityWarning:
		return 1
	case SeverityError:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// FailsRun reports whether an issue of this severity fails a validation run.
// Info and Warning are advisory only.
func (s Severity) FailsRun() bool {
	return s.Rank() >= SeverityError.Rank()
}

type RunStatus string

const (
	RunStatusPending    RunStatus = "Pending"
	RunStatusInProgress RunStatus = "InProgress"
	RunStatusPassed     RunStatus = "Passed"
	RunStatusFailed     RunStatus = "Failed"
)

// FailureKind distinguishes "the engine ran and found violations" from "the engine
// itself broke". Compliance failures are deterministic and not retriable; execution
// failures are retriable.
type FailureKind string

const (
	FailureKindNone       FailureKind = "None"
	FailureKindCompliance FailureKind = "Compliance"
	FailureKindExecution  FailureKind = "Execution"
)

type SubjectType string

const (
	SubjectTypePayrollBatch SubjectType = "PayrollBatch"
	SubjectTypeRoster       SubjectType = "Roster"
)

type UnitType string

const (
	UnitTypeHours    UnitType = "Hours"
	UnitTypeCurrency UnitType = "Currency"
	UnitTypeMinutes  UnitType = "Minutes"
	UnitTypeDays     UnitType = "Days"
)

// Outbox publish lifecycle (publish happens after commit via the dispatcher).
const (
	OutboxPublishStatusPending    = "PENDING"
	OutboxPublishStatusProcessing = "PROCESSING"
	OutboxPublishStatusSent       = "SENT"
	OutboxPublishStatusFailed     = "FAILED"
	OutboxPublishStatusDead       = "DEAD"
)
