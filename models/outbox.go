package models

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fairworkhq/compliance_backend/config"
	"github.com/fairworkhq/compliance_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ValidationEventRecord implements a transactional outbox for completed runs:
// the row is written inside the completing transaction but NOT published to
// Pub/Sub. Publishing is performed asynchronously by the outbox dispatcher after
// commit, so downstream consumers (reporting, the compliance assistant) only see
// runs that actually committed.
type ValidationEventRecord struct {
	ID              int         `gorm:"primary_key;index:idx_outbox_dispatch,priority:3" json:"id"`
	OrganizationId  string      `gorm:"size:64;not null;index" json:"organization_id"`
	ValidationRunId int         `gorm:"index;not null" json:"validation_run_id"`
	SubjectType     SubjectType `gorm:"type:enum('PayrollBatch','Roster');not null" json:"subject_type"`
	SubjectId       int         `json:"subject_id"`
	Status          RunStatus   `gorm:"size:16;not null" json:"status"`
	FailureKind     FailureKind `gorm:"size:16;not null" json:"failure_kind"`
	CompletedAt     time.Time   `gorm:"not null" json:"completed_at"`
	Report          []byte      `gorm:"type:blob" json:"report"`

	PublishStatus    string     `gorm:"size:20;index;not null;default:'PENDING';index:idx_outbox_dispatch,priority:1" json:"publish_status"`
	PublishedAt      *time.Time `gorm:"index" json:"published_at"`
	PubSubMessageId  *string    `gorm:"size:255" json:"pubsub_message_id"`
	PublishAttempts  int        `gorm:"not null;default:0" json:"publish_attempts"`
	NextAttemptAt    *time.Time `gorm:"index;index:idx_outbox_dispatch,priority:2" json:"next_attempt_at"`
	LockedAt         *time.Time `gorm:"index" json:"locked_at"`
	LockedBy         *string    `gorm:"size:100" json:"locked_by"`
	LastPublishError *string    `gorm:"type:text" json:"last_publish_error"`
	CorrelationId    string     `gorm:"size:64;index" json:"correlation_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func ConvertToValidationEventMessage(record ValidationEventRecord) config.ValidationEventMessage {
	return config.ValidationEventMessage{
		ID:              record.ID,
		OrganizationId:  record.OrganizationId,
		ValidationRunId: record.ValidationRunId,
		SubjectType:     string(record.SubjectType),
		SubjectId:       record.SubjectId,
		Status:          string(record.Status),
		FailureKind:     string(record.FailureKind),
		CompletedAt:     record.CompletedAt,
		Report:          record.Report,
		CorrelationId:   record.CorrelationId,
	}
}

// EnqueueValidationEvent writes the outbox row inside the caller's transaction.
func EnqueueValidationEvent(ctx context.Context, tx *gorm.DB, run *ValidationRun, report interface{}) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return err
	}
	completedAt := time.Now().UTC()
	if run.CompletedAt != nil {
		completedAt = *run.CompletedAt
	}
	record := ValidationEventRecord{
		OrganizationId:  run.OrganizationId,
		ValidationRunId: run.ID,
		SubjectType:     run.SubjectType,
		SubjectId:       run.SubjectId,
		Status:          run.Status,
		FailureKind:     run.FailureKind,
		CompletedAt:     completedAt,
		Report:          reportJSON,
		PublishStatus:   OutboxPublishStatusPending,
		CorrelationId:   correlationIdFromContextOrNew(ctx),
	}
	return tx.Create(&record).Error
}

func correlationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := utils.GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}
