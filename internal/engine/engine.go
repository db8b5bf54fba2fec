package engine

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"ralphloop/internal/adapter"
	"ralphloop/internal/sessionlog"
)

// Config parameterizes one engine run.
type Config struct {
	ProjectID        string
	ProjectPath      string
	Adapter          adapter.Adapter
	Prompt           string
	MaxIterations    int
	CompletionSignal string
	// IterationTimeout and IdleTimeout of zero disable the respective
	// watchdog, matching the legacy-sentinel migration in config.Config.
	IterationTimeout time.Duration
	IdleTimeout      time.Duration
	SkipGitRepoCheck bool

	// Events receives every LoopEvent this run emits. The engine never
	// closes it; the caller owns its lifecycle.
	Events chan<- LoopEvent

	// SessionLog is optional; nil disables on-disk logging.
	SessionLog *sessionlog.Manager

	// StartIteration resumes numbering after a prior run (e.g. a
	// project reopened after being paused). Zero starts fresh.
	StartIteration int
}

// Engine drives one project's iteration loop. The zero value is not
// usable; construct with New. An *Engine is safe to share between the
// goroutine running Start and the goroutine(s) calling Pause/Resume/Stop.
type Engine struct {
	cfg Config

	pauseFlag atomic.Bool
	stopFlag  atomic.Bool
	resumeNotify *notify
}

// New constructs an Engine for cfg. cfg.CompletionSignal must already
// be resolved to its effective value (storage.DefaultCompletionSignal
// or a task override); the engine never substitutes a default.
func New(cfg Config) *Engine {
	return &Engine{
		cfg:          cfg,
		resumeNotify: newNotify(),
	}
}

// Pause requests the loop suspend before its next iteration (or, if an
// iteration is currently in flight, after it finishes). Idempotent.
func (e *Engine) Pause() {
	e.pauseFlag.Store(true)
}

// Resume clears the pending pause request and wakes a waiting loop.
func (e *Engine) Resume() {
	e.resumeNotify.signal()
}

// Stop requests the loop abort at the next safe point: before an
// iteration starts, while paused, or by killing an in-flight child.
// Idempotent.
func (e *Engine) Stop() {
	e.stopFlag.Store(true)
	e.resumeNotify.signal()
}

func (e *Engine) emit(ev LoopEvent) {
	ev.ProjectID = e.cfg.ProjectID
	if e.cfg.Events == nil {
		return
	}
	e.cfg.Events <- ev
}

func (e *Engine) logLine(iteration int, content string, isStderr bool) {
	if e.cfg.SessionLog == nil {
		return
	}
	_ = e.cfg.SessionLog.WriteEntry(iteration, content, isStderr)
}

// Start runs the iteration loop until it is stopped, exhausts
// MaxIterations, completes, or hits a fatal adapter error. It blocks
// the calling goroutine; callers typically invoke it via `go`.
func (e *Engine) Start(ctx context.Context) LoopState {
	iteration := e.cfg.StartIteration

	for iteration < e.cfg.MaxIterations {
		if e.stopFlag.Load() {
			e.emit(LoopEvent{Kind: EventStopped, Iteration: iteration})
			return LoopState{Kind: StateIdle, Iteration: iteration}
		}

		if e.pauseFlag.Load() {
			e.emit(LoopEvent{Kind: EventPaused, Iteration: iteration})
			if !e.waitForResume(ctx) {
				e.emit(LoopEvent{Kind: EventStopped, Iteration: iteration})
				return LoopState{Kind: StateIdle, Iteration: iteration}
			}
			e.pauseFlag.Store(false)
			e.emit(LoopEvent{Kind: EventResumed, Iteration: iteration})
		}

		iteration++
		e.emit(LoopEvent{Kind: EventIterationStart, Iteration: iteration})

		result, err := e.runIteration(ctx, iteration)
		if err == ErrGitRepoCheckRequired {
			e.emit(LoopEvent{Kind: EventError, Iteration: iteration, Err: err})
			return LoopState{Kind: StateFailed, Iteration: iteration}
		}
		if err != nil {
			// Spawn failure or non-fatal watchdog trip: log and advance.
			e.emit(LoopEvent{Kind: EventError, Iteration: iteration, Err: err})
			continue
		}
		if result.stopped {
			e.emit(LoopEvent{Kind: EventStopped, Iteration: iteration})
			return LoopState{Kind: StateIdle, Iteration: iteration}
		}
		if result.completed {
			e.emit(LoopEvent{Kind: EventCompleted, Iteration: iteration})
			return LoopState{Kind: StateCompleted, Iteration: iteration}
		}
		// Child exited without signaling completion; advance to the
		// next iteration, re-checking pause/stop gates at loop top.
	}

	e.emit(LoopEvent{Kind: EventMaxIterationsReached, Iteration: iteration})
	return LoopState{Kind: StateFailed, Iteration: iteration}
}

// waitForResume blocks until Resume or Stop is signaled, or ctx is
// canceled, polling the stop flag periodically in case a caller
// observes it directly rather than through Stop(). Returns false if
// the wait ended because of a stop request or context cancellation.
func (e *Engine) waitForResume(ctx context.Context) bool {
	poll := time.NewTicker(100 * time.Millisecond)
	defer poll.Stop()
	for {
		select {
		case <-e.resumeNotify.wait():
			return !e.stopFlag.Load()
		case <-poll.C:
			if e.stopFlag.Load() {
				return false
			}
		case <-ctx.Done():
			return false
		}
	}
}

type iterationResult struct {
	completed bool
	stopped   bool
}

// runIteration spawns one child process and streams its stdout/stderr
// concurrently until completion is detected, the child exits, a
// watchdog trips, a fatal adapter error is seen, or Stop is requested.
func (e *Engine) runIteration(ctx context.Context, iteration int) (iterationResult, error) {
	cmd, err := e.cfg.Adapter.BuildCommand(ctx, e.cfg.Prompt, e.cfg.ProjectPath,
		adapter.CommandOptions{SkipGitRepoCheck: e.cfg.SkipGitRepoCheck})
	if err != nil {
		return iterationResult{}, err
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return iterationResult{}, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return iterationResult{}, err
	}
	if err := cmd.Start(); err != nil {
		return iterationResult{}, err
	}

	const chanBuffer = 256
	outCh := make(chan string, chanBuffer)
	errCh := make(chan string, chanBuffer)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); scanInto(stdout, outCh) }()
	go func() { defer wg.Done(); scanInto(stderr, errCh) }()

	reap := func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		wg.Wait()
		_ = cmd.Wait()
	}

	iterationStart := time.Now()
	lastOutput := iterationStart

	watchdog := time.NewTicker(time.Second)
	defer watchdog.Stop()

	pollStop := time.NewTicker(100 * time.Millisecond)
	defer pollStop.Stop()

	for outCh != nil || errCh != nil {
		select {
		case line, ok := <-outCh:
			if !ok {
				outCh = nil
				continue
			}
			lastOutput = time.Now()
			parsed := e.cfg.Adapter.ParseOutputLine(line)
			e.emit(LoopEvent{Kind: EventOutput, Iteration: iteration, Content: parsed.Content, IsStderr: false})
			e.logLine(iteration, parsed.Content, false)
			if parsed.IsAssistant && parsed.Content != "" && strings.Contains(parsed.Content, e.cfg.CompletionSignal) {
				reap()
				return iterationResult{completed: true}, nil
			}

		case line, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			lastOutput = time.Now()
			if adapter.IsGitRepoCheckError(e.cfg.Adapter.Kind(), line) {
				reap()
				return iterationResult{}, ErrGitRepoCheckRequired
			}
			isStderr := e.cfg.Adapter.Kind() != adapter.Codex
			e.emit(LoopEvent{Kind: EventOutput, Iteration: iteration, Content: line, IsStderr: isStderr})
			e.logLine(iteration, line, isStderr)

		case <-watchdog.C:
			if e.cfg.IterationTimeout > 0 && time.Since(iterationStart) > e.cfg.IterationTimeout {
				reap()
				return iterationResult{}, ErrIterationTimeout
			}
			if e.cfg.IdleTimeout > 0 && time.Since(lastOutput) > e.cfg.IdleTimeout {
				reap()
				return iterationResult{}, ErrIdleTimeout
			}

		case <-pollStop.C:
			if e.stopFlag.Load() {
				reap()
				return iterationResult{stopped: true}, nil
			}

		case <-ctx.Done():
			reap()
			return iterationResult{stopped: true}, nil
		}
	}

	// Both streams hit EOF without signaling completion or a fatal
	// error: the child exited on its own. Reap it and move on.
	wg.Wait()
	_ = cmd.Wait()
	return iterationResult{}, nil
}

// scanInto copies newline-delimited output from r into out, closing out
// on EOF. A generously sized token buffer accommodates long JSON lines
// some adapters emit for large tool-call payloads.
func scanInto(r io.Reader, out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		out <- scanner.Text()
	}
}
