package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/fairworkhq/compliance_backend/models"
	"github.com/fairworkhq/compliance_backend/utils"
	"github.com/go-sql-driver/mysql"
)

// ErrorValidationInProgress is returned when a live run already exists for the
// subject. Callers map it to 409.
var ErrorValidationInProgress = errors.New("a validation is already in progress for this subject")

const validationLockTTL = 5 * time.Minute

// acquireValidationLock serializes validation per (organization, subject). The
// Redis lock is the fast path; the idx_active_run unique key on validation_runs
// is the authoritative guard when Redis is unavailable or the lock expires
// mid-run.
func acquireValidationLock(ctx context.Context, organizationId string, subjectType models.SubjectType, subjectId int, funcName string) (*redislock.Lock, error) {
	subjectKey := fmt.Sprintf("%s:%d", subjectType, subjectId)
	lock, err := utils.ObtainSubjectLock(ctx, organizationId, subjectKey, validationLockTTL, "workflow", funcName)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, ErrorValidationInProgress
		}
		return nil, err
	}
	return lock, nil
}

func releaseValidationLock(lock *redislock.Lock) {
	if lock == nil {
		return
	}
	releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = lock.Release(releaseCtx)
}

// isDuplicateActiveRun detects the idx_active_run unique-key violation raised
// when a second live run is inserted for the same subject.
func isDuplicateActiveRun(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
