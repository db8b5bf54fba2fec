// Package engineregistry tracks the engines currently running, one per
// project, so that command handlers can find a running engine to
// pause/resume/stop and so that starting a second engine for a project
// already running is rejected. Ported from
// original_source/src-tauri/src/commands/loop_commands.rs's
// running_loops: RwLock<HashMap<String, LoopHandle>> pattern.
package engineregistry

import (
	"context"
	"fmt"
	"sync"

	"ralphloop/internal/engine"
)

// Handle is the control surface a registry entry exposes to command
// handlers, independent of the engine's own Start goroutine.
type Handle struct {
	ProjectID string
	Engine    *engine.Engine
	cancel    context.CancelFunc

	resultReady chan struct{}
	result      engine.LoopState
}

// Pause requests the engine pause at its next safe point.
func (h *Handle) Pause() { h.Engine.Pause() }

// Resume wakes a paused engine.
func (h *Handle) Resume() { h.Engine.Resume() }

// Stop requests the engine abort and cancels its context, guaranteeing
// prompt exit even if the engine is blocked awaiting a resume signal.
func (h *Handle) Stop() {
	h.Engine.Stop()
	h.cancel()
}

// Wait blocks until the engine's Start goroutine returns its terminal
// LoopState. Safe to call from any number of goroutines; every caller
// observes the same terminal value.
func (h *Handle) Wait() engine.LoopState {
	<-h.resultReady
	return h.result
}

// Registry is the process-wide map of running engines, one per
// project-id, guarded by a reader-writer lock: status queries
// (readers) vastly outnumber start/stop calls (writers).
type Registry struct {
	mu      sync.RWMutex
	running map[string]*Handle
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{running: make(map[string]*Handle)}
}

// ErrAlreadyRunning is returned by Start when the project already has
// a running engine; spec.md's at-most-one-engine-per-project invariant.
type ErrAlreadyRunning struct{ ProjectID string }

func (e *ErrAlreadyRunning) Error() string {
	return fmt.Sprintf("project %s already has a running loop", e.ProjectID)
}

// Start registers and launches eng under projectID, running it on a
// new goroutine derived from ctx. It returns ErrAlreadyRunning if the
// project already has an entry. The entry is removed automatically
// once the engine reaches a terminal state.
func (r *Registry) Start(ctx context.Context, projectID string, eng *engine.Engine) (*Handle, error) {
	r.mu.Lock()
	if _, exists := r.running[projectID]; exists {
		r.mu.Unlock()
		return nil, &ErrAlreadyRunning{ProjectID: projectID}
	}
	runCtx, cancel := context.WithCancel(ctx)
	h := &Handle{
		ProjectID:   projectID,
		Engine:      eng,
		cancel:      cancel,
		resultReady: make(chan struct{}),
	}
	r.running[projectID] = h
	r.mu.Unlock()

	go func() {
		h.result = eng.Start(runCtx)
		close(h.resultReady)
		r.mu.Lock()
		delete(r.running, projectID)
		r.mu.Unlock()
	}()

	return h, nil
}

// Get returns the running handle for projectID, if any.
func (r *Registry) Get(projectID string) (*Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.running[projectID]
	return h, ok
}

// IsRunning reports whether projectID currently has a running engine.
func (r *Registry) IsRunning(projectID string) bool {
	_, ok := r.Get(projectID)
	return ok
}

// Count returns the number of currently running engines, used to
// enforce config.Loop.MaxConcurrentProjects.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.running)
}
