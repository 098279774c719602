package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Issue is one violation (or advisory finding) raised by a rule during a single
// evaluation pass. Rows are immutable after the run completes.
//
// Invariant: an issue carries EITHER a WarningMessage (no expected/actual/impact
// semantics, impact zero) OR the full measured tuple (expected, actual, affected
// units, unit type, impact). The constructors below are the only two ways rules
// build issues, so the invariant holds by construction.
type Issue struct {
	ID              int    `gorm:"primary_key" json:"id"`
	OrganizationId  string `gorm:"index;not null" json:"organization_id"`
	ValidationRunId int    `gorm:"index;not null" json:"validation_run_id"`
	PayRecordId     *int   `gorm:"index" json:"pay_record_id"`
	ShiftRecordId   *int   `gorm:"index" json:"shift_record_id"`
	EmployeeId      *int   `gorm:"index" json:"employee_id"`

	CheckType CheckType `gorm:"size:64;not null;index" json:"check_type"`
	Severity  Severity  `gorm:"type:enum('Info','Warning','Error','Critical');not null" json:"severity"`

	ExpectedValue decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"expected_value"`
	ActualValue   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"actual_value"`
	AffectedUnits decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"affected_units"`
	UnitType      UnitType        `gorm:"size:16" json:"unit_type"`
	ImpactAmount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"impact_amount"`

	ContextLabel   string  `gorm:"size:512" json:"context_label"`
	WarningMessage *string `gorm:"size:512" json:"warning_message"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (i Issue) GetId() int {
	return i.ID
}

// IsWarningOnly reports whether the issue is a plain advisory with no measured
// expected/actual semantics.
func (i Issue) IsWarningOnly() bool {
	return i.WarningMessage != nil
}

// NewMeasuredIssue builds an issue with full expected/actual/impact semantics.
func NewMeasuredIssue(runId int, checkType CheckType, severity Severity, expected, actual, affectedUnits decimal.Decimal, unitType UnitType, impact decimal.Decimal, contextLabel string) *Issue {
	return &Issue{
		ValidationRunId: runId,
		CheckType:       checkType,
		Severity:        severity,
		ExpectedValue:   expected,
		ActualValue:     actual,
		AffectedUnits:   affectedUnits,
		UnitType:        unitType,
		ImpactAmount:    impact,
		ContextLabel:    contextLabel,
	}
}

// NewWarningIssue builds a plain advisory issue. Impact is zero by definition.
func NewWarningIssue(runId int, checkType CheckType, severity Severity, message string) *Issue {
	return &Issue{
		ValidationRunId: runId,
		CheckType:       checkType,
		Severity:        severity,
		WarningMessage:  &message,
	}
}

func (i *Issue) ForEmployee(employeeId int) *Issue {
	i.EmployeeId = &employeeId
	return i
}

func (i *Issue) ForPayRecord(payRecordId int) *Issue {
	i.PayRecordId = &payRecordId
	return i
}

func (i *Issue) ForShift(shiftRecordId int) *Issue {
	i.ShiftRecordId = &shiftRecordId
	return i
}
