package screens

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"ralphloop/internal/engine"
	"ralphloop/internal/storage"
	"ralphloop/internal/ui/banner"
	appkeys "ralphloop/internal/ui/keys"
	"ralphloop/internal/ui/nav"
)

// StartUserMsg asks the root model to start id's loop.
type StartUserMsg struct{ ProjectID string }

// PauseUserMsg asks the root model to pause id's running loop.
type PauseUserMsg struct{ ProjectID string }

// ResumeUserMsg asks the root model to resume id's paused loop.
type ResumeUserMsg struct{ ProjectID string }

// StopUserMsg asks the root model to stop id's running loop.
type StopUserMsg struct{ ProjectID string }

// ViewHistoryUserMsg asks the root model to fetch id's session log list
// and push a HistoryScreen over it.
type ViewHistoryUserMsg struct{ ProjectID string }

// TurnKind identifies the visual style of an output turn.
type TurnKind int

const (
	// TurnAgent is numbered iteration output from the agent.
	TurnAgent TurnKind = iota
	// TurnSystem is loop-state/lifecycle commentary.
	TurnSystem
)

// OutputTurn holds one discrete unit of output.
type OutputTurn struct {
	Kind      TurnKind
	Iteration int
	Lines     []string
	Streaming bool
}

const statusBarHeight = 1

// DashboardScreen shows a single project's Loop Engine state: a chat-like
// output panel fed by engine.LoopEvent, and a persistent status bar.
type DashboardScreen struct {
	ScreenBase

	keys         appkeys.DashboardKeyMap
	project      storage.ProjectState
	running      bool
	turns        []OutputTurn
	chatViewport viewport.Model
	autoScroll   bool
	bannerText   string
	bannerHeight int
}

// NewDashboardScreen creates a DashboardScreen for project.
func NewDashboardScreen(isDark bool, appName string, project storage.ProjectState, running bool) *DashboardScreen {
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.SoftWrap = true

	s := &DashboardScreen{
		ScreenBase:   NewBase(isDark, appName),
		keys:         appkeys.NewDashboard(),
		chatViewport: vp,
		autoScroll:   true,
		project:      project,
		running:      running,
	}
	s.initBanner()
	return s
}

func (s *DashboardScreen) initBanner() {
	cfg := banner.BannerConfig{Text: "RALPHLOOP", Font: "standard"}
	rendered, err := banner.RenderBanner(cfg, 120)
	if err != nil {
		rendered = "RALPHLOOP"
	}
	s.bannerText = rendered
	s.bannerHeight = lipgloss.Height(rendered) + 2
}

func (s *DashboardScreen) subLine() string {
	return fmt.Sprintf("Project: %s  |  Status: %s  |  Adapter: %s  |  Iteration: %d",
		s.project.Path,
		s.project.Status,
		s.project.Task.CLI,
		s.project.Execution.CurrentIteration,
	)
}

// Init returns nil; the root model drives this screen via loop events.
func (s *DashboardScreen) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and returns an updated screen and command.
func (s *DashboardScreen) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.Width, s.Height = msg.Width, msg.Height
		s.rebuildViewport()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "pgup":
			s.autoScroll = false
		case "end":
			s.autoScroll = true
			s.chatViewport.GotoBottom()
		}

		switch {
		case key.Matches(msg, s.keys.Start):
			if !s.running {
				return s, func() tea.Msg { return StartUserMsg{ProjectID: s.project.ID} }
			}
		case key.Matches(msg, s.keys.Pause):
			if s.running && s.project.Status == storage.StatusRunning {
				return s, func() tea.Msg { return PauseUserMsg{ProjectID: s.project.ID} }
			}
		case key.Matches(msg, s.keys.Resume):
			if s.running && s.project.Status == storage.StatusPaused {
				return s, func() tea.Msg { return ResumeUserMsg{ProjectID: s.project.ID} }
			}
		case key.Matches(msg, s.keys.Stop):
			if s.running {
				return s, func() tea.Msg { return StopUserMsg{ProjectID: s.project.ID} }
			}
		case key.Matches(msg, s.keys.History):
			return s, func() tea.Msg { return ViewHistoryUserMsg{ProjectID: s.project.ID} }
		case key.Matches(msg, s.keys.Client):
			return s, nav.Push(NewAdapterScreen(s.project, s.IsDark, s.AppName))
		case key.Matches(msg, s.keys.Back):
			return s, nav.Pop()
		case key.Matches(msg, s.keys.Quit):
			return s, tea.Quit
		}

	case engine.LoopEvent:
		s.applyEvent(msg)
	}

	var cmd tea.Cmd
	s.chatViewport, cmd = s.chatViewport.Update(msg)
	return s, cmd
}

// applyEvent folds one loop event into the turn log and in-memory project
// status, mirroring what settleAfterRun persists for the same event.
func (s *DashboardScreen) applyEvent(ev engine.LoopEvent) {
	switch ev.Kind {
	case engine.EventIterationStart:
		s.turns = append(s.turns, OutputTurn{Kind: TurnAgent, Iteration: ev.Iteration, Streaming: true})
		s.project.Execution.CurrentIteration = ev.Iteration
		s.autoScroll = true

	case engine.EventOutput:
		if len(s.turns) == 0 || s.turns[len(s.turns)-1].Kind != TurnAgent {
			s.turns = append(s.turns, OutputTurn{Kind: TurnAgent, Iteration: ev.Iteration, Streaming: true})
		}
		last := &s.turns[len(s.turns)-1]
		last.Lines = append(last.Lines, ev.Content)
		s.autoScroll = true

	case engine.EventPaused:
		s.project.Status = storage.StatusPaused
		s.turns = append(s.turns, OutputTurn{Kind: TurnSystem, Lines: []string{"Loop paused"}})

	case engine.EventResumed:
		s.project.Status = storage.StatusRunning
		s.turns = append(s.turns, OutputTurn{Kind: TurnSystem, Lines: []string{"Loop resumed"}})

	case engine.EventCompleted:
		s.running = false
		s.project.Status = storage.StatusDone
		s.turns = append(s.turns, OutputTurn{Kind: TurnSystem, Lines: []string{"Completion signal detected — loop finished"}})

	case engine.EventMaxIterationsReached:
		s.running = false
		s.project.Status = storage.StatusFailed
		s.turns = append(s.turns, OutputTurn{Kind: TurnSystem, Lines: []string{"Maximum iterations reached without completion"}})

	case engine.EventError:
		msg := "Error"
		if ev.Err != nil {
			msg = "Error: " + ev.Err.Error()
		}
		s.turns = append(s.turns, OutputTurn{Kind: TurnSystem, Lines: []string{msg}})

	case engine.EventStopped:
		s.running = false
		s.turns = append(s.turns, OutputTurn{Kind: TurnSystem, Lines: []string{"Loop stopped"}})
	}

	totalLines := 0
	for _, t := range s.turns {
		totalLines += len(t.Lines)
	}
	if totalLines > 1000 {
		for i := range s.turns {
			if len(s.turns[i].Lines) > 0 {
				s.turns[i].Lines = s.turns[i].Lines[1:]
				break
			}
		}
	}
	s.rebuildViewport()
}

// SetRunning lets the root model correct this screen's local "running"
// belief after a StartLoop/PauseLoop/etc. call succeeds or fails.
func (s *DashboardScreen) SetRunning(running bool) {
	s.running = running
}

// View renders the three-region dashboard: banner, chat panel, status bar.
func (s *DashboardScreen) View() tea.View {
	if !s.IsSized() {
		return s.RenderView("Loading...")
	}

	t := s.Theme

	bannerStyle := lipgloss.NewStyle().Foreground(t.Palette.Primary).Bold(true)
	subLineStyle := lipgloss.NewStyle().Foreground(t.Palette.Muted)
	dividerStyle := lipgloss.NewStyle().Foreground(t.Palette.Border)
	topBanner := lipgloss.JoinVertical(lipgloss.Left,
		bannerStyle.Render(s.bannerText),
		subLineStyle.Render(s.subLine()),
		dividerStyle.Render(strings.Repeat("─", s.Width)),
	)

	chatH := s.Height - s.bannerHeight - statusBarHeight
	if chatH < 1 {
		chatH = 1
	}
	s.chatViewport.SetWidth(s.Width)
	s.chatViewport.SetHeight(chatH)
	s.rebuildViewport()

	statusBar := s.renderStatusBar()

	return s.RenderView(lipgloss.JoinVertical(lipgloss.Left,
		topBanner,
		s.chatViewport.View(),
		statusBar,
	))
}

// SetTheme updates the screen's theme. Implements nav.Themeable.
func (s *DashboardScreen) SetTheme(isDark bool) {
	s.ApplyTheme(isDark)
}

func (s *DashboardScreen) rebuildViewport() {
	var sb strings.Builder
	for _, t := range s.turns {
		sb.WriteString(renderTurn(t, s.IsDark))
		sb.WriteString("\n\n")
	}
	s.chatViewport.SetContent(sb.String())
	if s.autoScroll {
		s.chatViewport.GotoBottom()
	}
}

func renderTurn(t OutputTurn, isDark bool) string {
	ld := lipgloss.LightDark(isDark)

	switch t.Kind {
	case TurnAgent:
		label := fmt.Sprintf("[#%d]", t.Iteration)
		headerStyle := lipgloss.NewStyle().
			Foreground(ld(lipgloss.Color("#0080FF"), lipgloss.Color("#4DA6FF"))).
			Bold(true)
		header := headerStyle.Render(label)
		body := strings.Join(t.Lines, "\n")
		if t.Streaming {
			body += " ▌"
		}
		return lipgloss.JoinVertical(lipgloss.Left, header, body)

	case TurnSystem:
		style := lipgloss.NewStyle().
			Foreground(ld(lipgloss.Color("#888888"), lipgloss.Color("#AAAAAA"))).
			Italic(true)
		return style.Render("[sys]  " + strings.Join(t.Lines, "\n"))
	}
	return ""
}

func (s *DashboardScreen) renderStatusBar() string {
	t := s.Theme
	helpView := s.RenderHelp(s.keys)
	return lipgloss.NewStyle().
		Background(t.Palette.Border).
		Foreground(t.Palette.Text).
		Width(s.Width).
		Render(helpView)
}
