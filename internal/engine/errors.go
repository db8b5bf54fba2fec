package engine

import "errors"

// ErrGitRepoCheckRequired is the fatal-guard sentinel raised when an
// adapter's stderr matches its "run me inside a git repository" refusal
// (currently only Codex). The engine aborts the run immediately rather
// than retrying, preserving current_iteration (spec.md §9).
var ErrGitRepoCheckRequired = errors.New("codex_git_repo_check_required")

// ErrIterationTimeout and ErrIdleTimeout are non-fatal: the current
// iteration is killed but the loop advances to the next one.
var (
	ErrIterationTimeout = errors.New("iteration timeout exceeded")
	ErrIdleTimeout      = errors.New("idle timeout: no output received")
)
