package service

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"ralphloop/internal/adapter"
	"ralphloop/internal/brainstorm"
	"ralphloop/internal/engine"
	"ralphloop/internal/engineregistry"
	"ralphloop/internal/sessionlog"
	"ralphloop/internal/storage"
)

// StartLoop launches the Loop Engine for id. Refuses to start a second
// engine for the same project, applies the auto-decide policy prefix,
// pre-flight-checks adapter B's git-repository requirement, and honors
// config.Loop.MaxConcurrentProjects across all projects.
func (s *Service) StartLoop(ctx context.Context, id string) error {
	if s.registry.IsRunning(id) {
		return fmt.Errorf("project %s already has a running loop", id)
	}

	s.mu.Lock()
	maxConcurrent := s.cfg.Loop.MaxConcurrentProjects
	s.mu.Unlock()
	if maxConcurrent > 0 && s.registry.Count() >= maxConcurrent {
		return fmt.Errorf("maximum concurrent projects (%d) already running", maxConcurrent)
	}

	st, err := s.store.LoadProjectState(id)
	if err != nil {
		return describe(err)
	}
	if st.Task.Prompt == "" {
		return errors.New("project has no task configured")
	}

	if st.Task.CLI == adapter.Codex && !st.SkipGitRepoCheck {
		isRepo, err := isGitRepo(ctx, st.Path)
		if err != nil {
			return describe(err)
		}
		if !isRepo {
			return engine.ErrGitRepoCheckRequired
		}
	}

	prompt := brainstorm.EnsureAutoDecidePolicy(st.Task.Prompt)
	if prompt != st.Task.Prompt {
		st.Task.Prompt = prompt
		if err := s.store.SaveProjectState(st); err != nil {
			return describe(err)
		}
	}

	logs := sessionlog.NewManager(id, s.store.ProjectLogsDir(id))
	if err := logs.StartSession(); err != nil {
		return describe(err)
	}

	now := time.Now().UTC()
	st.Status = storage.StatusRunning
	st.Execution.StartedAt = &now
	st.Execution.PausedAt = nil
	st.Execution.CompletedAt = nil
	if err := s.store.SaveProjectState(st); err != nil {
		return describe(err)
	}
	_ = s.store.UpdateIndexEntry(st)

	eng := engine.New(engine.Config{
		ProjectID:        id,
		ProjectPath:      st.Path,
		Adapter:          adapter.New(st.Task.CLI),
		Prompt:           prompt,
		MaxIterations:    st.Task.MaxIterations,
		CompletionSignal: st.Task.CompletionSignal,
		IterationTimeout: s.iterationTimeout(),
		IdleTimeout:      s.idleTimeout(),
		SkipGitRepoCheck: st.SkipGitRepoCheck,
		Events:           s.events,
		SessionLog:       logs,
		StartIteration:   st.Execution.CurrentIteration,
	})

	handle, err := s.registry.Start(context.Background(), id, eng)
	if err != nil {
		var dup *engineregistry.ErrAlreadyRunning
		if errors.As(err, &dup) {
			return fmt.Errorf("project %s already has a running loop", id)
		}
		return describe(err)
	}

	go s.settleAfterRun(id, handle, logs)

	return nil
}

// settleAfterRun waits for the engine to reach a terminal state,
// persists the final status/iteration, and closes the session log.
// Runs detached from the caller of StartLoop, which returns as soon as
// the engine is launched (spec.md's commands are fire-and-forget for
// start, polled via GetLoopStatus / loop-event thereafter).
func (s *Service) settleAfterRun(id string, handle *engineregistry.Handle, logs *sessionlog.Manager) {
	state := handle.Wait()

	st, err := s.store.LoadProjectState(id)
	if err != nil {
		_ = logs.EndSession("unknown: " + err.Error())
		return
	}

	st.Execution.CurrentIteration = state.Iteration
	now := time.Now().UTC()
	switch state.Kind {
	case engine.StateCompleted:
		st.Status = storage.StatusDone
		st.Execution.CompletedAt = &now
	case engine.StateIdle:
		// StateIdle is only reached via an explicit Stop (the engine
		// never returns from a pause; it blocks in waitForResume), so
		// the project is done running, not resumable.
		st.Status = storage.StatusCancelled
	default:
		st.Status = storage.StatusFailed
	}

	_ = s.store.SaveProjectState(st)
	_ = s.store.UpdateIndexEntry(st)
	_ = logs.EndSession(string(st.Status))
}

func (s *Service) iterationTimeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.Loop.IterationTimeoutMs <= 0 {
		return 0
	}
	return time.Duration(s.cfg.Loop.IterationTimeoutMs) * time.Millisecond
}

func (s *Service) idleTimeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.Loop.IdleTimeoutMs <= 0 {
		return 0
	}
	return time.Duration(s.cfg.Loop.IdleTimeoutMs) * time.Millisecond
}

// PauseLoop requests id's running engine pause before its next iteration.
func (s *Service) PauseLoop(id string) error {
	handle, ok := s.registry.Get(id)
	if !ok {
		return fmt.Errorf("project %s has no running loop", id)
	}
	handle.Pause()
	return s.UpdateProjectStatus(id, storage.StatusPausing)
}

// ResumeLoop wakes id's paused engine.
func (s *Service) ResumeLoop(id string) error {
	handle, ok := s.registry.Get(id)
	if !ok {
		return fmt.Errorf("project %s has no running loop", id)
	}
	handle.Resume()
	return s.UpdateProjectStatus(id, storage.StatusRunning)
}

// StopLoop requests id's engine abort immediately, killing any
// in-flight child process.
func (s *Service) StopLoop(id string) error {
	handle, ok := s.registry.Get(id)
	if !ok {
		return fmt.Errorf("project %s has no running loop", id)
	}
	handle.Stop()
	return nil
}

// GetLoopStatus reports whether id currently has a running engine.
func (s *Service) GetLoopStatus(id string) bool {
	return s.registry.IsRunning(id)
}

// isGitRepo pre-flight-checks adapter B's trusted-directory
// requirement with `git -C <path> rev-parse --is-inside-work-tree`,
// ported from original_source/src-tauri/src/commands/
// loop_commands.rs::is_git_repo.
func isGitRepo(ctx context.Context, path string) (bool, error) {
	out, err := exec.CommandContext(ctx, "git", "-C", path, "rev-parse", "--is-inside-work-tree").Output()
	if err != nil {
		return false, nil
	}
	return strings.TrimSpace(string(out)) == "true", nil
}
