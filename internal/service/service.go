// Package service is the command layer: every verb spec.md §6 exposes
// to a UI host, wiring storage, the engine registry, adapters, the
// brainstorm driver, and session logging together. Grounded on
// original_source/src-tauri/src/commands/loop_commands.rs (the
// Tauri-IPC boundary itself has no Go analogue; verbs are exposed here
// as plain methods consumed by both cmd/ and internal/ui).
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ralphloop/config"
	"ralphloop/internal/adapter"
	"ralphloop/internal/brainstorm"
	"ralphloop/internal/engine"
	"ralphloop/internal/engineregistry"
	"ralphloop/internal/sessionlog"
	"ralphloop/internal/storage"
)

// Service owns all long-lived state the command layer needs.
type Service struct {
	store      *storage.Store
	registry   *engineregistry.Registry
	configPath string

	mu  sync.Mutex
	cfg *config.Config

	// events is the single shared "loop-event" topic: every engine
	// started by this Service is given this channel, tagged with its
	// ProjectID, so a UI host can demultiplex with one Events() feed.
	events chan engine.LoopEvent
}

// New loads (or seeds) configuration at configPath and returns a
// Service rooted at dataDir.
func New(dataDir, configPath string) (*Service, error) {
	cfg, err := config.Load(configPath)
	if err == config.ErrConfigNotFound {
		cfg = config.DefaultConfig()
		if saveErr := config.Save(configPath, cfg); saveErr != nil {
			return nil, fmt.Errorf("seeding default configuration: %w", saveErr)
		}
	} else if err != nil {
		return nil, err
	}

	store := storage.New(dataDir)
	if err := store.EnsureDataDir(); err != nil {
		return nil, err
	}

	return &Service{
		store:      store,
		registry:   engineregistry.New(),
		configPath: configPath,
		cfg:        cfg,
		events:     make(chan engine.LoopEvent, 256),
	}, nil
}

// Events returns the shared channel every running engine's LoopEvents
// are published to, the analogue of the original's single "loop-event"
// Tauri topic.
func (s *Service) Events() <-chan engine.LoopEvent {
	return s.events
}

// --- Project CRUD -----------------------------------------------------

// ListProjects returns the lightweight project index.
func (s *Service) ListProjects() ([]storage.ProjectMeta, error) {
	idx, err := s.store.LoadProjectIndex()
	if err != nil {
		return nil, describe(err)
	}
	return idx.Projects, nil
}

// CreateProject registers a new project at path in the Brainstorming status.
func (s *Service) CreateProject(path, name string) (storage.ProjectState, error) {
	st, err := s.store.CreateProject(path, name)
	if err != nil {
		return storage.ProjectState{}, describe(err)
	}
	return st, nil
}

// GetProject returns the full persisted state for id.
func (s *Service) GetProject(id string) (storage.ProjectState, error) {
	st, err := s.store.LoadProjectState(id)
	if err != nil {
		return storage.ProjectState{}, describe(err)
	}
	return st, nil
}

// DeleteProject removes a project's persisted state and index entry.
// Refuses to delete a project with a running engine.
func (s *Service) DeleteProject(id string) error {
	if s.registry.IsRunning(id) {
		return fmt.Errorf("cannot delete project %s: a loop is currently running", id)
	}
	return describe(s.store.DeleteProjectData(id))
}

// UpdateProjectStatus overwrites a project's status.
func (s *Service) UpdateProjectStatus(id string, status storage.ProjectStatus) error {
	st, err := s.store.LoadProjectState(id)
	if err != nil {
		return describe(err)
	}
	st.Status = status
	if err := s.store.SaveProjectState(st); err != nil {
		return describe(err)
	}
	return describe(s.store.UpdateIndexEntry(st))
}

// SetProjectSkipGitRepoCheck toggles the opt-in that lets adapter B run
// outside a git repository.
func (s *Service) SetProjectSkipGitRepoCheck(id string, skip bool) error {
	st, err := s.store.LoadProjectState(id)
	if err != nil {
		return describe(err)
	}
	st.SkipGitRepoCheck = skip
	return describe(s.store.SaveProjectState(st))
}

// UpdateTaskPrompt overwrites a project's task prompt.
func (s *Service) UpdateTaskPrompt(id, prompt string) error {
	st, err := s.store.LoadProjectState(id)
	if err != nil {
		return describe(err)
	}
	st.Task.Prompt = prompt
	return describe(s.store.SaveProjectState(st))
}

// UpdateTaskMaxIterations overwrites a project's max-iterations budget.
func (s *Service) UpdateTaskMaxIterations(id string, n int) error {
	st, err := s.store.LoadProjectState(id)
	if err != nil {
		return describe(err)
	}
	st.Task.MaxIterations = n
	return describe(s.store.SaveProjectState(st))
}

// UpdateTaskCLI switches which adapter a project's task uses.
func (s *Service) UpdateTaskCLI(id string, cli adapter.CliKind) error {
	st, err := s.store.LoadProjectState(id)
	if err != nil {
		return describe(err)
	}
	st.Task.CLI = cli
	return describe(s.store.SaveProjectState(st))
}

// --- CLI detection ------------------------------------------------------

// DetectInstalledCLIs probes every supported adapter's installation.
func (s *Service) DetectInstalledCLIs(ctx context.Context) []storage.CliInfo {
	infos := make([]storage.CliInfo, 0, len(adapter.ValidKinds))
	for _, kind := range adapter.ValidKinds {
		a := adapter.New(kind)
		info := storage.CliInfo{
			Kind:      kind,
			Name:      a.Name(),
			Path:      a.Path(),
			Available: a.IsInstalled(),
		}
		if info.Available {
			if v, ok := a.Version(ctx); ok {
				info.Version = v
			}
		}
		infos = append(infos, info)
	}
	return infos
}

// --- Config -------------------------------------------------------------

// GetConfig returns a copy of the current configuration.
func (s *Service) GetConfig() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.cfg
}

// SaveConfig validates and persists cfg, replacing the in-memory copy.
func (s *Service) SaveConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := config.Save(s.configPath, &cfg); err != nil {
		return describe(err)
	}
	s.cfg = &cfg
	return nil
}

// ConfirmPermissions records the user's one-time permissions acknowledgement.
func (s *Service) ConfirmPermissions() error {
	s.mu.Lock()
	cfg := *s.cfg
	s.mu.Unlock()
	cfg.Loop.PermissionsConfirmed = true
	return s.SaveConfig(cfg)
}

// --- Logs -----------------------------------------------------------------

// CleanupLogs deletes log files older than the configured retention
// across every project, returning the number deleted.
func (s *Service) CleanupLogs() (int, error) {
	s.mu.Lock()
	days := s.cfg.Loop.LogRetentionDays
	s.mu.Unlock()

	idx, err := s.store.LoadProjectIndex()
	if err != nil {
		return 0, describe(err)
	}
	isProjectDir := func(name string) bool {
		for _, p := range idx.Projects {
			if p.ID == name {
				return true
			}
		}
		return false
	}
	total, err := sessionlog.CleanupAllLogs(s.store.ProjectsRoot(), days, isProjectDir)
	if err != nil {
		return 0, describe(err)
	}
	return total, nil
}

// GetProjectLogs returns a project's log filenames, most recent first.
func (s *Service) GetProjectLogs(id string) ([]string, error) {
	names, err := s.store.ListProjectLogFiles(id)
	if err != nil {
		return nil, describe(err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// --- Brainstorm -----------------------------------------------------------

// AiBrainstormChat runs one brainstorm turn for id's conversation so far.
func (s *Service) AiBrainstormChat(ctx context.Context, id string, conversation []brainstorm.ConversationMessage) (brainstorm.AiBrainstormResponse, error) {
	st, err := s.store.LoadProjectState(id)
	if err != nil {
		return brainstorm.AiBrainstormResponse{}, describe(err)
	}

	cli := st.Task.CLI
	if cli == "" {
		s.mu.Lock()
		cli = adapter.CliKind(s.cfg.Loop.DefaultCLI)
		s.mu.Unlock()
	}

	driver := brainstorm.New(adapter.New(cli))
	resp, err := driver.Chat(ctx, st.Path, conversation)
	if err != nil {
		return brainstorm.AiBrainstormResponse{}, describe(err)
	}

	st.Brainstorm.Conversation = append(st.Brainstorm.Conversation, toBrainstormAnswers(conversation)...)
	_ = s.store.SaveProjectState(st)

	return resp, nil
}

func toBrainstormAnswers(conversation []brainstorm.ConversationMessage) []storage.BrainstormAnswer {
	out := make([]storage.BrainstormAnswer, len(conversation))
	for i, m := range conversation {
		out[i] = storage.BrainstormAnswer{Role: m.Role, Content: m.Content}
	}
	return out
}

// CompleteAiBrainstorm writes the generated prompt, CLI choice, and
// iteration budget to the project's task and transitions its status
// from Brainstorming to Ready.
func (s *Service) CompleteAiBrainstorm(id, prompt string, cli adapter.CliKind, maxIterations int) error {
	st, err := s.store.LoadProjectState(id)
	if err != nil {
		return describe(err)
	}
	st.Task = storage.NewTaskConfig(prompt, cli, maxIterations)
	st.Status = storage.StatusReady
	if err := s.store.SaveProjectState(st); err != nil {
		return describe(err)
	}
	return describe(s.store.UpdateIndexEntry(st))
}

// --- Recovery ---------------------------------------------------------

// RecoveryInfo describes a project left Running or Pausing by a prior
// process that exited without a graceful stop.
type RecoveryInfo struct {
	ProjectID   string
	ProjectName string
	Iteration   int
	Status      storage.ProjectStatus
}

// CheckInterruptedTasks scans every project for a status that only a
// live engine should hold, implying the previous process died with it
// still "running" on disk.
func (s *Service) CheckInterruptedTasks() ([]RecoveryInfo, error) {
	idx, err := s.store.LoadProjectIndex()
	if err != nil {
		return nil, describe(err)
	}

	var interrupted []RecoveryInfo
	for _, meta := range idx.Projects {
		st, err := s.store.LoadProjectState(meta.ID)
		if err != nil {
			continue
		}
		if st.Status == storage.StatusRunning || st.Status == storage.StatusPausing {
			interrupted = append(interrupted, RecoveryInfo{
				ProjectID:   st.ID,
				ProjectName: st.Name,
				Iteration:   st.Execution.CurrentIteration,
				Status:      st.Status,
			})
		}
	}
	return interrupted, nil
}

// CancelInterruptedTask marks a stale running/pausing project Cancelled.
func (s *Service) CancelInterruptedTask(id string) error {
	return s.UpdateProjectStatus(id, storage.StatusCancelled)
}

// describe converts a storage/internal error into a redacted,
// user-facing error; per spec.md §7's propagation policy, error text
// that may carry secrets is sanitized before it reaches a UI host.
func describe(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s", sessionlog.Sanitize(err.Error()))
}
