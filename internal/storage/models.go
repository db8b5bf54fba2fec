// Package storage implements the persisted data model and crash-safe
// file-based persistence layer described in SPEC_FULL.md's supplemented
// features, ported from original_source/src-tauri/src/storage/{mod,models}.rs.
package storage

import (
	"time"

	"ralphloop/internal/adapter"
)

// ProjectStatus is the lifecycle status of a project.
type ProjectStatus string

const (
	StatusBrainstorming ProjectStatus = "brainstorming"
	StatusReady         ProjectStatus = "ready"
	StatusQueued        ProjectStatus = "queued"
	StatusRunning       ProjectStatus = "running"
	StatusPausing       ProjectStatus = "pausing"
	StatusPaused        ProjectStatus = "paused"
	StatusDone          ProjectStatus = "done"
	StatusFailed        ProjectStatus = "failed"
	StatusCancelled     ProjectStatus = "cancelled"
)

// DefaultCompletionSignal is the fixed default completion signal
// string, configurable per task. Implementations forward it literally
// and never attempt normalization (spec.md §9).
const DefaultCompletionSignal = "<done>COMPLETE</done>"

// TaskConfig carries the task the Loop Engine drives.
type TaskConfig struct {
	Prompt           string `json:"prompt"`
	CLI              adapter.CliKind `json:"cli"`
	MaxIterations    int    `json:"maxIterations"`
	CompletionSignal string `json:"completionSignal"`
}

// NewTaskConfig returns a TaskConfig with the default completion signal.
func NewTaskConfig(prompt string, cli adapter.CliKind, maxIterations int) TaskConfig {
	return TaskConfig{
		Prompt:           prompt,
		CLI:              cli,
		MaxIterations:    maxIterations,
		CompletionSignal: DefaultCompletionSignal,
	}
}

// ExecutionState carries iteration-boundary bookkeeping for a project.
type ExecutionState struct {
	StartedAt        *time.Time `json:"startedAt,omitempty"`
	PausedAt         *time.Time `json:"pausedAt,omitempty"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	CurrentIteration int        `json:"currentIteration"`
}

// ProjectMeta is the lightweight record kept in the project index.
type ProjectMeta struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Path   string        `json:"path"`
	Status ProjectStatus `json:"status"`
}

// ProjectIndex is the persisted list of all known projects.
type ProjectIndex struct {
	Projects []ProjectMeta `json:"projects"`
}

// BrainstormAnswer is one recorded turn of the brainstorm conversation.
type BrainstormAnswer struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BrainstormState holds the in-progress brainstorm conversation for a
// project still in the Brainstorming status.
type BrainstormState struct {
	Conversation []BrainstormAnswer `json:"conversation"`
}

// ProjectState is the full persisted record for one project.
type ProjectState struct {
	ID                 string          `json:"id"`
	Path               string          `json:"path"`
	Name               string          `json:"name"`
	Status             ProjectStatus   `json:"status"`
	Task               TaskConfig      `json:"task"`
	Execution          ExecutionState  `json:"execution"`
	SkipGitRepoCheck   bool            `json:"skipGitRepoCheck"`
	Brainstorm         BrainstormState `json:"brainstorm,omitempty"`
}

// CliInfo reports one adapter's detected installation.
type CliInfo struct {
	Kind      adapter.CliKind `json:"kind"`
	Name      string          `json:"name"`
	Version   string          `json:"version,omitempty"`
	Path      string          `json:"path,omitempty"`
	Available bool            `json:"available"`
}
