package engineregistry

import (
	"context"
	"testing"
	"time"

	"ralphloop/internal/engine"
)

func newIdleEngine() *engine.Engine {
	return engine.New(engine.Config{
		ProjectID:     "proj",
		MaxIterations: 0, // exhausted immediately; Start returns right away
		Events:        make(chan engine.LoopEvent, 8),
	})
}

func TestStartRejectsDuplicateProject(t *testing.T) {
	r := New()
	h1, err := r.Start(context.Background(), "proj-1", newIdleEngine())
	if err != nil {
		t.Fatalf("first Start: %v", err)
	}
	defer h1.Stop()

	_, err = r.Start(context.Background(), "proj-1", newIdleEngine())
	if err == nil {
		t.Fatal("expected ErrAlreadyRunning on duplicate Start")
	}
	if _, ok := err.(*ErrAlreadyRunning); !ok {
		t.Errorf("expected *ErrAlreadyRunning, got %T", err)
	}
}

func TestHandleRemovedOnTerminalState(t *testing.T) {
	r := New()
	h, err := r.Start(context.Background(), "proj-2", newIdleEngine())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not reach terminal state")
	default:
	}
	h.Wait()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if !r.IsRunning("proj-2") {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected handle to be removed from the registry after completion")
}

func TestCountReflectsRunningEngines(t *testing.T) {
	r := New()
	if r.Count() != 0 {
		t.Fatalf("expected empty registry, got count %d", r.Count())
	}
	h, err := r.Start(context.Background(), "proj-3", newIdleEngine())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	h.Wait()
}
