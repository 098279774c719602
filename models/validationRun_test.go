package models

import (
	"errors"
	"testing"
)

func TestSeverityOrdering(t *testing.T) {
	ordered := []Severity{SeverityInfo, SeverityWarning, SeverityError, SeverityCritical}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Rank() <= ordered[i-1].Rank() {
			t.Fatalf("%s should rank above %s", ordered[i], ordered[i-1])
		}
	}
	if SeverityInfo.FailsRun() || SeverityWarning.FailsRun() {
		t.Fatalf("Info/Warning must not fail a run")
	}
	if !SeverityError.FailsRun() || !SeverityCritical.FailsRun() {
		t.Fatalf("Error/Critical must fail a run")
	}
}

func TestNewValidationRun_IsLive(t *testing.T) {
	run := NewValidationRun("org-1", SubjectTypeRoster, 42, "cid")
	if run.Status != RunStatusPending {
		t.Fatalf("new run status = %s; want Pending", run.Status)
	}
	if run.ActiveFlag == nil || *run.ActiveFlag != 1 {
		t.Fatalf("new run must carry the active flag for the unique key")
	}
	if run.IsFinished() {
		t.Fatalf("new run must not be finished")
	}
}

func TestValidationRunComplete(t *testing.T) {
	run := NewValidationRun("org-1", SubjectTypePayrollBatch, 1, "")
	run.Complete(false)
	if run.Status != RunStatusPassed || run.FailureKind != FailureKindNone {
		t.Fatalf("passed run: status=%s kind=%s", run.Status, run.FailureKind)
	}
	if run.ActiveFlag != nil {
		t.Fatalf("finished run must clear the active flag")
	}
	if run.CompletedAt == nil {
		t.Fatalf("finished run must carry a completion timestamp")
	}

	failed := NewValidationRun("org-1", SubjectTypePayrollBatch, 2, "")
	failed.Complete(true)
	if failed.Status != RunStatusFailed || failed.FailureKind != FailureKindCompliance {
		t.Fatalf("failed run: status=%s kind=%s", failed.Status, failed.FailureKind)
	}
}

func TestMarkExecutionFailure(t *testing.T) {
	run := NewValidationRun("org-1", SubjectTypeRoster, 3, "")
	run.MarkExecutionFailure(errors.New("rule execution panic: boom"))
	if run.Status != RunStatusFailed {
		t.Fatalf("status = %s; want Failed", run.Status)
	}
	if run.FailureKind != FailureKindExecution {
		t.Fatalf("kind = %s; want Execution", run.FailureKind)
	}
	if run.ActiveFlag != nil {
		t.Fatalf("execution-failed run must clear the active flag")
	}
	if run.Notes == "" {
		t.Fatalf("execution failure should record its cause")
	}
}

func TestCheckTypesRoundTrip(t *testing.T) {
	run := &ValidationRun{}
	run.SetCheckTypes([]CheckType{CheckTypeBaseRate, CheckTypePenaltyRate})
	got := run.CheckTypes()
	if len(got) != 2 || got[0] != CheckTypeBaseRate || got[1] != CheckTypePenaltyRate {
		t.Fatalf("CheckTypes() = %v", got)
	}

	empty := &ValidationRun{}
	if empty.CheckTypes() != nil {
		t.Fatalf("empty run should have no check types")
	}
}
