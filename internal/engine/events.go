// Package engine implements the Loop Engine: the iteration supervisor
// that spawns the agent CLI, streams its output concurrently, and
// drives pause/resume/stop semantics, per SPEC_FULL.md §4.2. Ported
// from original_source/src-tauri/src/engine/mod.rs's tokio-based state
// machine into goroutines, channels, and context.Context.
package engine

// EventKind discriminates LoopEvent variants.
type EventKind string

const (
	EventIterationStart      EventKind = "iterationStart"
	EventOutput              EventKind = "output"
	EventPaused              EventKind = "paused"
	EventResumed             EventKind = "resumed"
	EventCompleted           EventKind = "completed"
	EventMaxIterationsReached EventKind = "maxIterationsReached"
	EventError               EventKind = "error"
	EventStopped             EventKind = "stopped"
)

// LoopEvent is the sum type emitted to the UI host. Every variant
// carries ProjectID to let a host demultiplex events from multiple
// concurrently running engines.
type LoopEvent struct {
	Kind      EventKind
	ProjectID string
	Iteration int

	// Output-only fields.
	Content  string
	IsStderr bool

	// Error-only field.
	Err error
}

// StateKind is the terminal/reportable state of one engine run.
type StateKind string

const (
	StateIdle      StateKind = "idle"
	StateRunning   StateKind = "running"
	StatePausing   StateKind = "pausing"
	StatePaused    StateKind = "paused"
	StateCompleted StateKind = "completed"
	StateFailed    StateKind = "failed"
)

// LoopState is the terminal state an engine run settles into.
type LoopState struct {
	Kind      StateKind
	Iteration int
}
