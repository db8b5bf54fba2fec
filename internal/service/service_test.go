package service

import (
	"context"
	"path/filepath"
	"testing"

	"ralphloop/internal/adapter"
	"ralphloop/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	svc, err := New(filepath.Join(dir, "data"), filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc
}

func TestCreateAndGetProject(t *testing.T) {
	svc := newTestService(t)
	st, err := svc.CreateProject("/tmp/demo", "demo")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if st.Status != storage.StatusBrainstorming {
		t.Errorf("expected new project Brainstorming, got %v", st.Status)
	}

	got, err := svc.GetProject(st.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if got.ID != st.ID {
		t.Errorf("expected matching ID, got %q vs %q", got.ID, st.ID)
	}

	list, err := svc.ListProjects()
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 project in index, got %d", len(list))
	}
}

func TestCompleteAiBrainstormTransitionsToReady(t *testing.T) {
	svc := newTestService(t)
	st, err := svc.CreateProject("/tmp/demo", "demo")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	if err := svc.CompleteAiBrainstorm(st.ID, "build a thing", adapter.Claude, 10); err != nil {
		t.Fatalf("CompleteAiBrainstorm: %v", err)
	}

	got, err := svc.GetProject(st.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if got.Status != storage.StatusReady {
		t.Errorf("expected StatusReady, got %v", got.Status)
	}
	if got.Task.Prompt != "build a thing" || got.Task.CLI != adapter.Claude || got.Task.MaxIterations != 10 {
		t.Errorf("unexpected task after completion: %+v", got.Task)
	}
}

func TestDeleteProjectRemovesItFromIndex(t *testing.T) {
	svc := newTestService(t)
	st, err := svc.CreateProject("/tmp/demo", "demo")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if err := svc.DeleteProject(st.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	list, err := svc.ListProjects()
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected project removed, got %+v", list)
	}
}

func TestStartLoopRejectsProjectWithNoTask(t *testing.T) {
	svc := newTestService(t)
	st, err := svc.CreateProject("/tmp/demo", "demo")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if err := svc.StartLoop(context.Background(), st.ID); err == nil {
		t.Fatal("expected an error for a project with no configured task")
	}
}

func TestCheckInterruptedTasksFindsStaleRunningProject(t *testing.T) {
	svc := newTestService(t)
	st, err := svc.CreateProject("/tmp/demo", "demo")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if err := svc.UpdateProjectStatus(st.ID, storage.StatusRunning); err != nil {
		t.Fatalf("UpdateProjectStatus: %v", err)
	}

	interrupted, err := svc.CheckInterruptedTasks()
	if err != nil {
		t.Fatalf("CheckInterruptedTasks: %v", err)
	}
	if len(interrupted) != 1 || interrupted[0].ProjectID != st.ID {
		t.Errorf("expected the stale project reported, got %+v", interrupted)
	}

	if err := svc.CancelInterruptedTask(st.ID); err != nil {
		t.Fatalf("CancelInterruptedTask: %v", err)
	}
	got, err := svc.GetProject(st.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if got.Status != storage.StatusCancelled {
		t.Errorf("expected StatusCancelled, got %v", got.Status)
	}
}
