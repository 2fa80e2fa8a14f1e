package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/lucasvieira/alugueja-backend/pkg/logger"
)

type fakeLock struct {
	locked   bool
	acquires int
	releases int
}

func (f *fakeLock) Acquire(ctx context.Context) (bool, error) {
	f.acquires++
	return !f.locked, nil
}

func (f *fakeLock) Release(ctx context.Context) error {
	f.releases++
	return nil
}

type recordingJob struct {
	name string
	runs int
	err  error
}

func (j *recordingJob) Name() string { return j.name }

func (j *recordingJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func newCronService(t *testing.T, lock Lock, jobs ...Job) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Jobs:   jobs,
		Lock:   lock,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestService_runCycleRunsJobsInOrder(t *testing.T) {
	lock := &fakeLock{}
	first := &recordingJob{name: "first"}
	second := &recordingJob{name: "second"}
	svc := newCronService(t, lock, first, second)

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if first.runs != 1 || second.runs != 1 {
		t.Fatalf("expected each job to run once, got %d and %d", first.runs, second.runs)
	}
	if lock.releases != 1 {
		t.Fatalf("lock should be released, got %d releases", lock.releases)
	}
}

func TestService_runCycleSkipsWhenLocked(t *testing.T) {
	lock := &fakeLock{locked: true}
	job := &recordingJob{name: "sweep"}
	svc := newCronService(t, lock, job)

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatal("job should not run without the lock")
	}
	if lock.releases != 0 {
		t.Fatal("lock should not be released when never acquired")
	}
}

func TestService_runCycleContinuesPastFailingJob(t *testing.T) {
	lock := &fakeLock{}
	failing := &recordingJob{name: "failing", err: errors.New("boom")}
	healthy := &recordingJob{name: "healthy"}
	svc := newCronService(t, lock, failing, healthy)

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if healthy.runs != 1 {
		t.Fatal("healthy job should still run after a failure")
	}
}

func TestService_RegisterIgnoresNil(t *testing.T) {
	svc := newCronService(t, &fakeLock{})
	svc.Register(nil)
	svc.Register(&recordingJob{name: "sweep"})
	if len(svc.Jobs()) != 1 {
		t.Fatalf("expected 1 job, got %d", len(svc.Jobs()))
	}
}
