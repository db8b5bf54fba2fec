package screens

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"ralphloop/internal/storage"
	"ralphloop/internal/ui/nav"
)

// OpenProjectUserMsg asks the root model to load id's full state and
// push the screen appropriate to its status (Brainstorm or Dashboard).
type OpenProjectUserMsg struct{ ProjectID string }

// NewProjectUserMsg asks the root model to push a NewProjectScreen.
type NewProjectUserMsg struct{}

// DeleteProjectUserMsg asks the root model to delete a project and
// refresh the list.
type DeleteProjectUserMsg struct{ ProjectID string }

// ProjectsLoadedMsg carries a freshly (re)loaded project index into the
// list screen.
type ProjectsLoadedMsg struct{ Projects []storage.ProjectMeta }

// listKeyMap are the bindings specific to the project list.
type listKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	New    key.Binding
	Delete key.Binding
	Quit   key.Binding
}

func newListKeyMap() listKeyMap {
	return listKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new project")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.New, k.Delete, k.Quit}
}

func (k listKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Open, k.New, k.Delete}, {k.Quit}}
}

// ProjectListScreen is the application's root screen: every known
// project, its status, and commands to open, create, or delete one.
type ProjectListScreen struct {
	ScreenBase
	keys     listKeyMap
	projects []storage.ProjectMeta
	cursor   int
}

// NewProjectListScreen creates a ProjectListScreen seeded with projects.
func NewProjectListScreen(isDark bool, appName string, projects []storage.ProjectMeta) *ProjectListScreen {
	return &ProjectListScreen{
		ScreenBase: NewBase(isDark, appName),
		keys:       newListKeyMap(),
		projects:   projects,
	}
}

// Init returns nil.
func (s *ProjectListScreen) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages.
func (s *ProjectListScreen) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.Width, s.Height = msg.Width, msg.Height

	case ProjectsLoadedMsg:
		s.projects = msg.Projects
		if s.cursor >= len(s.projects) {
			s.cursor = max(0, len(s.projects)-1)
		}

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, s.keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, s.keys.Down):
			if s.cursor < len(s.projects)-1 {
				s.cursor++
			}
		case key.Matches(msg, s.keys.Open):
			if s.cursor < len(s.projects) {
				id := s.projects[s.cursor].ID
				return s, func() tea.Msg { return OpenProjectUserMsg{ProjectID: id} }
			}
		case key.Matches(msg, s.keys.New):
			return s, func() tea.Msg { return NewProjectUserMsg{} }
		case key.Matches(msg, s.keys.Delete):
			if s.cursor < len(s.projects) {
				id := s.projects[s.cursor].ID
				return s, func() tea.Msg { return DeleteProjectUserMsg{ProjectID: id} }
			}
		case key.Matches(msg, s.keys.Quit):
			return s, tea.Quit
		}
	}
	return s, nil
}

// View renders the project list.
func (s *ProjectListScreen) View() tea.View {
	t := s.Theme
	var sb strings.Builder
	sb.WriteString(t.Title.Render(s.AppName) + "\n\n")

	if len(s.projects) == 0 {
		sb.WriteString(t.Subtle.Render("No projects yet. Press 'n' to create one.") + "\n")
	}
	for i, p := range s.projects {
		cursor := "  "
		if i == s.cursor {
			cursor = "▸ "
		}
		statusStyle := s.statusStyle(p.Status)
		line := fmt.Sprintf("%s%-24s %-12s %s", cursor, p.Name, statusStyle.Render(string(p.Status)), p.Path)
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n" + s.RenderHelp(s.keys))
	return s.RenderView(sb.String())
}

// SetTheme updates the theme. Implements nav.Themeable.
func (s *ProjectListScreen) SetTheme(isDark bool) {
	s.ApplyTheme(isDark)
}

func (s *ProjectListScreen) statusStyle(status storage.ProjectStatus) lipgloss.Style {
	t := s.Theme
	switch status {
	case storage.StatusRunning:
		return t.StatusRunning
	case storage.StatusPaused, storage.StatusPausing:
		return t.StatusPaused
	case storage.StatusDone:
		return t.StatusComplete
	case storage.StatusFailed, storage.StatusCancelled:
		return t.StatusFailed
	default:
		return t.StatusPending
	}
}
