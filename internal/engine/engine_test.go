package engine

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"ralphloop/internal/adapter"
)

// scriptAdapter is a test double that runs an arbitrary shell script in
// place of a real agent CLI, and treats every output line as assistant
// plain text (mirroring the Gemini adapter's parsing).
type scriptAdapter struct {
	script func(iteration int) string
	calls  int
}

func (s *scriptAdapter) Name() string         { return "script" }
func (s *scriptAdapter) Kind() adapter.CliKind { return adapter.Claude }
func (s *scriptAdapter) IsInstalled() bool     { return true }
func (s *scriptAdapter) Path() string          { return "sh" }
func (s *scriptAdapter) Version(ctx context.Context) (string, bool) { return "test", true }

func (s *scriptAdapter) BuildCommand(ctx context.Context, prompt, workingDir string, opts adapter.CommandOptions) (*exec.Cmd, error) {
	s.calls++
	return exec.CommandContext(ctx, "sh", "-c", s.script(s.calls)), nil
}

func (s *scriptAdapter) BuildReadonlyCommand(ctx context.Context, prompt, workingDir string, opts adapter.CommandOptions) (*exec.Cmd, error) {
	return s.BuildCommand(ctx, prompt, workingDir, opts)
}

func (s *scriptAdapter) ParseOutputLine(line string) adapter.ParsedLine {
	return adapter.ParsedLine{Content: line, LineType: adapter.LineText, IsAssistant: true}
}

func (s *scriptAdapter) ContainsCompletion(text, signal string) bool {
	return false
}

func drain(events chan LoopEvent) []LoopEvent {
	var got []LoopEvent
	for {
		select {
		case ev := <-events:
			got = append(got, ev)
		default:
			return got
		}
	}
}

func TestImmediateCompletion(t *testing.T) {
	events := make(chan LoopEvent, 64)
	a := &scriptAdapter{script: func(int) string { return `echo "work done <done>COMPLETE</done>"` }}
	e := New(Config{
		ProjectID:        "p1",
		Adapter:          a,
		Prompt:           "go",
		MaxIterations:    5,
		CompletionSignal: "<done>COMPLETE</done>",
		Events:           events,
	})

	state := e.Start(context.Background())
	if state.Kind != StateCompleted {
		t.Fatalf("expected StateCompleted, got %+v", state)
	}
	if state.Iteration != 1 {
		t.Errorf("expected completion on iteration 1, got %d", state.Iteration)
	}

	found := false
	for _, ev := range drain(events) {
		if ev.Kind == EventCompleted {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a Completed event")
	}
}

func TestExhaustionReachesMaxIterations(t *testing.T) {
	events := make(chan LoopEvent, 64)
	a := &scriptAdapter{script: func(int) string { return `echo "still working"` }}
	e := New(Config{
		ProjectID:        "p2",
		Adapter:          a,
		Prompt:           "go",
		MaxIterations:    3,
		CompletionSignal: "<done>COMPLETE</done>",
		Events:           events,
	})

	state := e.Start(context.Background())
	if state.Kind != StateFailed {
		t.Fatalf("expected StateFailed on exhaustion, got %+v", state)
	}
	if state.Iteration != 3 {
		t.Errorf("expected 3 iterations run, got %d", state.Iteration)
	}

	found := false
	for _, ev := range drain(events) {
		if ev.Kind == EventMaxIterationsReached {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a MaxIterationsReached event")
	}
}

func TestStopMidIterationHaltsPromptly(t *testing.T) {
	events := make(chan LoopEvent, 64)
	a := &scriptAdapter{script: func(int) string { return `sleep 5; echo done` }}
	e := New(Config{
		ProjectID:        "p3",
		Adapter:          a,
		Prompt:           "go",
		MaxIterations:    10,
		CompletionSignal: "<done>COMPLETE</done>",
		Events:           events,
	})

	done := make(chan LoopState, 1)
	go func() { done <- e.Start(context.Background()) }()

	time.Sleep(150 * time.Millisecond)
	e.Stop()

	select {
	case state := <-done:
		if state.Kind != StateIdle {
			t.Errorf("expected StateIdle after stop, got %+v", state)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("engine did not stop promptly")
	}
}

func TestPauseThenResume(t *testing.T) {
	events := make(chan LoopEvent, 64)
	iterations := 0
	a := &scriptAdapter{script: func(n int) string {
		iterations = n
		if n >= 2 {
			return `echo "<done>COMPLETE</done>"`
		}
		return `echo "working"`
	}}
	e := New(Config{
		ProjectID:        "p4",
		Adapter:          a,
		Prompt:           "go",
		MaxIterations:    5,
		CompletionSignal: "<done>COMPLETE</done>",
		Events:           events,
	})

	e.Pause()
	done := make(chan LoopState, 1)
	go func() { done <- e.Start(context.Background()) }()

	time.Sleep(150 * time.Millisecond)
	if iterations != 0 {
		t.Fatalf("expected no iterations while paused, ran %d", iterations)
	}
	e.Resume()

	select {
	case state := <-done:
		if state.Kind != StateCompleted {
			t.Errorf("expected StateCompleted after resume, got %+v", state)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("engine did not resume")
	}

	var sawPaused, sawResumed bool
	for _, ev := range drain(events) {
		if ev.Kind == EventPaused {
			sawPaused = true
		}
		if ev.Kind == EventResumed {
			sawResumed = true
		}
	}
	if !sawPaused || !sawResumed {
		t.Errorf("expected Paused and Resumed events, got paused=%v resumed=%v", sawPaused, sawResumed)
	}
}

func TestIdleTimeoutAdvancesToNextIteration(t *testing.T) {
	events := make(chan LoopEvent, 64)
	a := &scriptAdapter{script: func(n int) string {
		if n >= 2 {
			return `echo "<done>COMPLETE</done>"`
		}
		return `sleep 5`
	}}
	e := New(Config{
		ProjectID:        "p5",
		Adapter:          a,
		Prompt:           "go",
		MaxIterations:    5,
		CompletionSignal: "<done>COMPLETE</done>",
		IdleTimeout:      200 * time.Millisecond,
		Events:           events,
	})

	state := e.Start(context.Background())
	if state.Kind != StateCompleted {
		t.Fatalf("expected StateCompleted after idle-timeout recovery, got %+v", state)
	}

	found := false
	for _, ev := range drain(events) {
		if ev.Kind == EventError {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an Error event for the idle timeout")
	}
}
