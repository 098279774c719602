package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// ValidationRun is the persisted aggregate for one execution of a compliance
// validation. Lifecycle: Pending -> InProgress -> Passed|Failed; a finished run is
// never re-opened, re-validation creates a new run.
type ValidationRun struct {
	ID             int         `gorm:"primary_key" json:"id"`
	OrganizationId string      `gorm:"index;not null;uniqueIndex:idx_active_run,priority:1" json:"organization_id"`
	SubjectType    SubjectType `gorm:"type:enum('PayrollBatch','Roster');not null;uniqueIndex:idx_active_run,priority:2" json:"subject_type"`
	SubjectId      int         `gorm:"not null;uniqueIndex:idx_active_run,priority:3" json:"subject_id"`

	// ActiveFlag is 1 while the run is Pending/InProgress and NULL once finished.
	// The idx_active_run unique key therefore admits at most ONE live run per
	// subject while ignoring completed ones (MySQL unique indexes skip NULLs).
	ActiveFlag *int8 `gorm:"uniqueIndex:idx_active_run,priority:4" json:"-"`

	Status      RunStatus   `gorm:"type:enum('Pending','InProgress','Passed','Failed');not null;default:'Pending'" json:"status"`
	FailureKind FailureKind `gorm:"type:enum('None','Compliance','Execution');not null;default:'None'" json:"failure_kind"`

	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	TotalSubjects     int `gorm:"default:0" json:"total_subjects"`
	PassedSubjects    int `gorm:"default:0" json:"passed_subjects"`
	FailedSubjects    int `gorm:"default:0" json:"failed_subjects"`
	TotalIssues       int `gorm:"default:0" json:"total_issues"`
	CriticalIssues    int `gorm:"default:0" json:"critical_issues"`
	AffectedEmployees int `gorm:"default:0" json:"affected_employees"`

	// CheckTypesExecuted is the comma-joined set of check types this run performed.
	CheckTypesExecuted string `gorm:"size:512" json:"check_types_executed"`
	Notes              string `gorm:"type:text" json:"notes"`
	CorrelationId      string `gorm:"size:64;index" json:"correlation_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r ValidationRun) GetId() int {
	return r.ID
}

func (r *ValidationRun) SetCheckTypes(checkTypes []CheckType) {
	parts := make([]string, 0, len(checkTypes))
	for _, ct := range checkTypes {
		parts = append(parts, string(ct))
	}
	r.CheckTypesExecuted = strings.Join(parts, ",")
}

func (r ValidationRun) CheckTypes() []CheckType {
	if r.CheckTypesExecuted == "" {
		return nil
	}
	parts := strings.Split(r.CheckTypesExecuted, ",")
	result := make([]CheckType, 0, len(parts))
	for _, p := range parts {
		result = append(result, CheckType(p))
	}
	return result
}

func (r ValidationRun) IsFinished() bool {
	return r.Status == RunStatusPassed || r.Status == RunStatusFailed
}

func activeFlag() *int8 {
	v := int8(1)
	return &v
}

// NewValidationRun builds a live run; the active-run unique key rejects a second
// concurrent run for the same subject at insert time.
func NewValidationRun(organizationId string, subjectType SubjectType, subjectId int, correlationId string) *ValidationRun {
	return &ValidationRun{
		OrganizationId: organizationId,
		SubjectType:    subjectType,
		SubjectId:      subjectId,
		ActiveFlag:     activeFlag(),
		Status:         RunStatusPending,
		FailureKind:    FailureKindNone,
		StartedAt:      time.Now().UTC(),
		CorrelationId:  correlationId,
	}
}

// Complete finalizes the run from its issue tallies. failed=true marks a
// compliance failure; execution failures go through MarkExecutionFailure instead.
func (r *ValidationRun) Complete(failed bool) {
	now := time.Now().UTC()
	r.CompletedAt = &now
	r.ActiveFlag = nil
	if failed {
		r.Status = RunStatusFailed
		r.FailureKind = FailureKindCompliance
	} else {
		r.Status = RunStatusPassed
		r.FailureKind = FailureKindNone
	}
}

// MarkExecutionFailure records that the engine itself failed (retriable), as
// opposed to a compliance failure (deterministic).
func (r *ValidationRun) MarkExecutionFailure(cause error) {
	now := time.Now().UTC()
	r.CompletedAt = &now
	r.ActiveFlag = nil
	r.Status = RunStatusFailed
	r.FailureKind = FailureKindExecution
	if cause != nil {
		r.Notes = cause.Error()
	}
}

// SaveCompletion persists the finished run state in the caller's transaction.
func (r *ValidationRun) SaveCompletion(tx *gorm.DB) error {
	return tx.Model(&ValidationRun{}).
		Where("id = ?", r.ID).
		Updates(map[string]interface{}{
			"status":               r.Status,
			"failure_kind":         r.FailureKind,
			"active_flag":          r.ActiveFlag,
			"completed_at":         r.CompletedAt,
			"total_subjects":       r.TotalSubjects,
			"passed_subjects":      r.PassedSubjects,
			"failed_subjects":      r.FailedSubjects,
			"total_issues":         r.TotalIssues,
			"critical_issues":      r.CriticalIssues,
			"affected_employees":   r.AffectedEmployees,
			"check_types_executed": r.CheckTypesExecuted,
			"notes":                r.Notes,
		}).Error
}
