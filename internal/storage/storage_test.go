package storage

import (
	"testing"
	"time"

	"ralphloop/internal/adapter"
)

func TestSaveLoadProjectStateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	now := time.Now().UTC().Truncate(time.Second)
	want := ProjectState{
		ID:     "11111111-1111-1111-1111-111111111111",
		Path:   "/tmp/project",
		Name:   "demo",
		Status: StatusRunning,
		Task: TaskConfig{
			Prompt:           "do the thing",
			CLI:              adapter.Claude,
			MaxIterations:    10,
			CompletionSignal: DefaultCompletionSignal,
		},
		Execution: ExecutionState{
			StartedAt:        &now,
			CurrentIteration: 3,
		},
	}

	if err := s.SaveProjectState(want); err != nil {
		t.Fatalf("SaveProjectState: %v", err)
	}

	got, err := s.LoadProjectState(want.ID)
	if err != nil {
		t.Fatalf("LoadProjectState: %v", err)
	}

	if got.ID != want.ID || got.Status != want.Status || got.Task.Prompt != want.Task.Prompt ||
		got.Execution.CurrentIteration != want.Execution.CurrentIteration {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestLoadProjectStateMissingReturnsNotFound(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.LoadProjectState("does-not-exist")
	if err != ErrProjectNotFound {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestCreateProjectAddsIndexEntry(t *testing.T) {
	s := New(t.TempDir())
	st, err := s.CreateProject("/tmp/p", "demo")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if st.Status != StatusBrainstorming {
		t.Errorf("expected new project to start Brainstorming, got %v", st.Status)
	}

	idx, err := s.LoadProjectIndex()
	if err != nil {
		t.Fatalf("LoadProjectIndex: %v", err)
	}
	if len(idx.Projects) != 1 || idx.Projects[0].ID != st.ID {
		t.Errorf("expected index to contain the new project, got %+v", idx)
	}
}

func TestDeleteProjectDataRemovesIndexEntry(t *testing.T) {
	s := New(t.TempDir())
	st, err := s.CreateProject("/tmp/p", "demo")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if err := s.DeleteProjectData(st.ID); err != nil {
		t.Fatalf("DeleteProjectData: %v", err)
	}
	idx, err := s.LoadProjectIndex()
	if err != nil {
		t.Fatalf("LoadProjectIndex: %v", err)
	}
	if len(idx.Projects) != 0 {
		t.Errorf("expected project removed from index, got %+v", idx)
	}
	if _, err := s.LoadProjectState(st.ID); err != ErrProjectNotFound {
		t.Errorf("expected state.json removed, got err=%v", err)
	}
}
