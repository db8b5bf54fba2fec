package screens

import (
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	appkeys "ralphloop/internal/ui/keys"
	"ralphloop/internal/ui/nav"
)

// historyHelpKeys implements help.KeyMap for the history screen.
type historyHelpKeys struct {
	vp  viewport.KeyMap
	app appkeys.GlobalKeyMap
}

func (k historyHelpKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.vp.Up, k.vp.Down, k.app.Back}
}

func (k historyHelpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.vp.Up, k.vp.Down, k.vp.HalfPageUp, k.vp.HalfPageDown},
		{k.vp.PageUp, k.vp.PageDown, k.app.Back, k.app.Help},
	}
}

// HistoryScreen lists a project's session log files, most recent first.
type HistoryScreen struct {
	ScreenBase
	logFiles []string
	vp       viewport.Model
	ready    bool
}

// NewHistoryScreen creates a HistoryScreen for an already-fetched log file list.
func NewHistoryScreen(appName string, isDark bool, logFiles []string) *HistoryScreen {
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.SoftWrap = true

	return &HistoryScreen{
		ScreenBase: NewBase(isDark, appName),
		logFiles:   logFiles,
		vp:         vp,
	}
}

// Init returns nil (no startup commands needed).
func (s *HistoryScreen) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages.
func (s *HistoryScreen) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.Width, s.Height = msg.Width, msg.Height
		s.updateViewportSize()
		if !s.ready {
			s.vp.SetContent(s.buildContent())
			s.ready = true
		}

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, s.Keys.Help):
			s.Help.ShowAll = !s.Help.ShowAll
			s.updateViewportSize()
			return s, nil
		case key.Matches(msg, s.Keys.Back):
			return s, nav.Pop()
		}
	}

	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	return s, cmd
}

// View renders the history screen.
func (s *HistoryScreen) View() tea.View {
	if !s.ready {
		return s.RenderView("Loading...")
	}
	helpKeys := historyHelpKeys{vp: s.vp.KeyMap, app: s.Keys}
	return s.RenderView(s.Theme.App.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			s.HeaderView(),
			s.vp.View(),
			s.footerView(),
			s.RenderHelp(helpKeys),
		),
	))
}

// SetTheme updates the theme. Implements nav.Themeable.
func (s *HistoryScreen) SetTheme(isDark bool) {
	s.ApplyTheme(isDark)
	s.vp.SetContent(s.buildContent())
}

// buildContent formats the log file list.
func (s *HistoryScreen) buildContent() string {
	t := s.Theme

	if len(s.logFiles) == 0 {
		return t.Subtle.Render("No session logs recorded yet.")
	}

	var sb strings.Builder
	sb.WriteString(t.Title.Render("Session Logs") + "\n\n")
	for _, name := range s.logFiles {
		sb.WriteString(name + "\n")
	}
	return sb.String()
}

func (s *HistoryScreen) footerView() string {
	b := lipgloss.RoundedBorder()
	b.Left = "┤"
	info := lipgloss.NewStyle().
		BorderStyle(b).
		BorderForeground(s.Theme.Palette.Primary).
		Padding(0, 1).
		Render("")

	lineW := max(0, s.ContentWidth()-lipgloss.Width(info))
	line := s.Theme.Subtle.Render(strings.Repeat("─", lineW))
	return lipgloss.JoinHorizontal(lipgloss.Center, line, info)
}

func (s *HistoryScreen) updateViewportSize() {
	if !s.IsSized() {
		return
	}
	s.Help.SetWidth(s.ContentWidth())
	helpKeys := historyHelpKeys{vp: s.vp.KeyMap, app: s.Keys}
	headerH := lipgloss.Height(s.HeaderView())
	footerH := lipgloss.Height(s.footerView())
	helpH := lipgloss.Height(s.RenderHelp(helpKeys))

	vpH := s.CalculateContentHeight(headerH+footerH, helpH)
	s.vp.SetWidth(s.ContentWidth())
	s.vp.SetHeight(vpH)
}
