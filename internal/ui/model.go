// Package ui provides the BubbleTea UI model for the application.
// It implements a stack-based navigation router with theme support,
// driven by internal/service.Service rather than holding any loop
// state itself.
package ui

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"ralphloop/config"
	"ralphloop/internal/adapter"
	"ralphloop/internal/engine"
	applogger "ralphloop/internal/logger"
	"ralphloop/internal/service"
	"ralphloop/internal/storage"
	"ralphloop/internal/ui/nav"
	"ralphloop/internal/ui/screens"
)

// Model represents the application state with a navigation stack.
type Model struct {
	screens []nav.Screen

	width, height int
	isDark        bool
	quitting      bool

	altScreen    bool
	mouseEnabled bool
	windowTitle  string

	svc *service.Service

	defaultCLI           string
	defaultMaxIterations int
}

// New creates a new Model wired to svc.
func New(cfg config.Config, svc *service.Service) Model {
	projects, _ := svc.ListProjects()
	root := screens.NewProjectListScreen(false, cfg.App.Name, projects)

	return Model{
		screens:              []nav.Screen{root},
		altScreen:             cfg.UI.AltScreen,
		mouseEnabled:          cfg.UI.MouseEnabled,
		windowTitle:           cfg.App.Title,
		svc:                   svc,
		defaultCLI:            cfg.Loop.DefaultCLI,
		defaultMaxIterations:  cfg.Loop.DefaultMaxIterations,
	}
}

// Init requests the terminal background color, initializes the root
// screen, and starts draining the Service's shared loop-event channel.
func (m Model) Init() tea.Cmd {
	applogger.Debug().Msg("Initializing UI model")
	cmds := []tea.Cmd{tea.RequestBackgroundColor}
	if len(m.screens) > 0 {
		cmds = append(cmds, m.screens[len(m.screens)-1].Init())
	}
	cmds = append(cmds, m.listenEvents())
	return tea.Batch(cmds...)
}

// listenEvents blocks on the Service's event channel and delivers the
// next LoopEvent to the BubbleTea runtime. Update re-subscribes after
// every delivery so the channel is continually drained.
func (m Model) listenEvents() tea.Cmd {
	return func() tea.Msg {
		return <-m.svc.Events()
	}
}

// Update handles incoming messages and returns an updated model and command.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.BackgroundColorMsg:
		m.isDark = msg.IsDark()
		for i := range m.screens {
			if t, ok := m.screens[i].(nav.Themeable); ok {
				t.SetTheme(m.isDark)
			}
		}

	case nav.PushMsg:
		return m.push(msg.Screen)

	case nav.PopMsg:
		return m.pop()

	case nav.ReplaceMsg:
		return m.replace(msg.Screen)

	case engine.LoopEvent:
		cmds = append(cmds, m.listenEvents())
		// fall through to delegate to active screen

	case screens.OpenProjectUserMsg:
		return m.openProject(msg.ProjectID)

	case screens.NewProjectUserMsg:
		return m.push(screens.NewNewProjectScreen(m.isDark, m.windowTitle))

	case screens.ProjectCreatedUserMsg:
		return m.createProject(msg)

	case screens.DeleteProjectUserMsg:
		_ = m.svc.DeleteProject(msg.ProjectID)
		return m.refreshProjectList()

	case screens.StartUserMsg:
		err := m.svc.StartLoop(context.Background(), msg.ProjectID)
		if err != nil {
			applogger.Error().Err(err).Msg("starting loop")
		}
		if d, ok := m.top().(*screens.DashboardScreen); ok && err == nil {
			d.SetRunning(true)
		}
		return m, nil

	case screens.PauseUserMsg:
		_ = m.svc.PauseLoop(msg.ProjectID)
		return m, nil

	case screens.ResumeUserMsg:
		_ = m.svc.ResumeLoop(msg.ProjectID)
		return m, nil

	case screens.StopUserMsg:
		_ = m.svc.StopLoop(msg.ProjectID)
		return m, nil

	case screens.ViewHistoryUserMsg:
		logs, _ := m.svc.GetProjectLogs(msg.ProjectID)
		return m.push(screens.NewHistoryScreen(m.windowTitle, m.isDark, logs))

	case screens.AdapterChangedMsg:
		_ = m.svc.UpdateTaskCLI(msg.ProjectID, msg.CLI)
		return m, nil

	case screens.BrainstormSendUserMsg:
		return m, m.runBrainstorm(msg)

	case screens.CompleteBrainstormUserMsg:
		return m.completeBrainstorm(msg)
	}

	if len(m.screens) > 0 {
		top := m.screens[len(m.screens)-1]
		updated, cmd := top.Update(msg)
		m.screens[len(m.screens)-1] = updated
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) top() nav.Screen {
	if len(m.screens) == 0 {
		return nil
	}
	return m.screens[len(m.screens)-1]
}

func (m Model) push(s nav.Screen) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if cmd := s.Init(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if t, ok := s.(nav.Themeable); ok {
		t.SetTheme(m.isDark)
	}
	s, cmd := s.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	cmds = append(cmds, cmd)
	m.screens = append(m.screens, s)
	return m, tea.Batch(cmds...)
}

func (m Model) pop() (tea.Model, tea.Cmd) {
	if len(m.screens) <= 1 {
		return m, nil
	}
	m.screens = m.screens[:len(m.screens)-1]
	top := m.screens[len(m.screens)-1]
	updated, cmd := top.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.screens[len(m.screens)-1] = updated
	return m, cmd
}

func (m Model) replace(s nav.Screen) (tea.Model, tea.Cmd) {
	if len(m.screens) == 0 {
		return m, nil
	}
	var cmds []tea.Cmd
	if cmd := s.Init(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if t, ok := s.(nav.Themeable); ok {
		t.SetTheme(m.isDark)
	}
	s, cmd := s.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	cmds = append(cmds, cmd)
	m.screens[len(m.screens)-1] = s
	return m, tea.Batch(cmds...)
}

func (m Model) refreshProjectList() (tea.Model, tea.Cmd) {
	projects, _ := m.svc.ListProjects()
	m.screens[0] = screens.NewProjectListScreen(m.isDark, m.windowTitle, projects)
	return m, nil
}

// openProject loads id's full state and pushes the Brainstorm screen
// (still Brainstorming) or the Dashboard (every other status).
func (m Model) openProject(id string) (tea.Model, tea.Cmd) {
	st, err := m.svc.GetProject(id)
	if err != nil {
		applogger.Error().Err(err).Msg("loading project")
		return m, nil
	}

	if st.Status == storage.StatusBrainstorming {
		cli := st.Task.CLI
		if cli == "" {
			cli = adapter.CliKind(m.defaultCLI)
		}
		maxIter := st.Task.MaxIterations
		if maxIter == 0 {
			maxIter = m.defaultMaxIterations
		}
		return m.push(screens.NewBrainstormScreen(m.isDark, m.windowTitle, id, cli, maxIter))
	}

	return m.push(screens.NewDashboardScreen(m.isDark, m.windowTitle, st, m.svc.GetLoopStatus(id)))
}

func (m Model) createProject(msg screens.ProjectCreatedUserMsg) (tea.Model, tea.Cmd) {
	name := msg.Name
	if name == "" {
		name = msg.Path
	}
	st, err := m.svc.CreateProject(msg.Path, name)
	if err != nil {
		applogger.Error().Err(err).Msg("creating project")
		return m.refreshProjectList()
	}
	mm, cmd := m.refreshProjectList()
	next := mm.(Model)
	pushed, pushCmd := next.push(screens.NewBrainstormScreen(next.isDark, next.windowTitle, st.ID, adapter.CliKind(next.defaultCLI), next.defaultMaxIterations))
	return pushed, tea.Batch(cmd, pushCmd)
}

func (m Model) runBrainstorm(msg screens.BrainstormSendUserMsg) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		resp, err := svc.AiBrainstormChat(context.Background(), msg.ProjectID, msg.Conversation)
		return screens.BrainstormRespondedMsg{Response: resp, Err: err}
	}
}

func (m Model) completeBrainstorm(msg screens.CompleteBrainstormUserMsg) (tea.Model, tea.Cmd) {
	if err := m.svc.CompleteAiBrainstorm(msg.ProjectID, msg.Prompt, msg.CLI, msg.MaxIterations); err != nil {
		applogger.Error().Err(err).Msg("completing brainstorm")
		return m, nil
	}
	st, err := m.svc.GetProject(msg.ProjectID)
	if err != nil {
		return m.pop()
	}
	mm, popCmd := m.pop()
	next := mm.(Model)
	pushed, pushCmd := next.push(screens.NewDashboardScreen(next.isDark, next.windowTitle, st, false))
	return pushed, tea.Batch(popCmd, pushCmd)
}

// View renders the current model state as a tea.View.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	var v tea.View
	if len(m.screens) > 0 {
		v = m.screens[len(m.screens)-1].View()
	} else {
		v = tea.NewView("")
	}
	v.AltScreen = m.altScreen
	v.WindowTitle = m.windowTitle
	if m.mouseEnabled {
		v.MouseMode = tea.MouseModeCellMotion
	}
	return v
}

// Run starts the BubbleTea program with the given model.
func Run(m Model) error {
	applogger.Info().Msg("Starting BubbleTea program")

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	applogger.Info().Msg("Program exited successfully")
	return nil
}
