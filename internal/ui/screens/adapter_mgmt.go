package screens

import (
	"charm.land/huh/v2"
	tea "charm.land/bubbletea/v2"

	"ralphloop/internal/adapter"
	"ralphloop/internal/storage"
	huhadapter "ralphloop/internal/ui/huh"
	"ralphloop/internal/ui/nav"
	"ralphloop/internal/ui/theme"
)

// AdapterChangedMsg is sent when the user submits the adapter form.
// The root model forwards it to Service.UpdateTaskCLI.
type AdapterChangedMsg struct {
	ProjectID string
	CLI       adapter.CliKind
}

// AdapterScreen wraps a huh form that lets the user change the CLI a
// project's task runs with.
type AdapterScreen struct {
	ScreenBase
	form          *huh.Form
	projectID     string
	selectedCLI   string
	formBuilder   func() *huh.Form
}

// NewAdapterScreen creates an AdapterScreen pre-populated with project's
// current CLI choice.
func NewAdapterScreen(project storage.ProjectState, isDark bool, appName string) *AdapterScreen {
	s := &AdapterScreen{
		ScreenBase:  NewBase(isDark, appName),
		projectID:   project.ID,
		selectedCLI: string(project.Task.CLI),
	}

	s.formBuilder = func() *huh.Form {
		return s.buildForm()
	}
	s.form = s.formBuilder()
	s.form.WithTheme(theme.HuhThemeFunc())
	s.form.WithKeyMap(huhadapter.KeyMap(s.Keys))
	return s
}

// buildForm constructs the huh form bound to the screen's selection.
func (s *AdapterScreen) buildForm() *huh.Form {
	options := make([]huh.Option[string], len(adapter.ValidKinds))
	for i, k := range adapter.ValidKinds {
		options[i] = huh.NewOption(string(k), string(k))
	}

	cliField := huh.NewSelect[string]().
		Title("CLI").
		Description("Select the agent CLI this project's loop runs").
		Options(options...).
		Value(&s.selectedCLI)

	return huh.NewForm(huh.NewGroup(cliField)).WithShowHelp(true)
}

// Init returns the form's initial command.
func (s *AdapterScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update handles incoming messages.
func (s *AdapterScreen) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.Width, s.Height = msg.Width, msg.Height

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, nav.Pop()
		case "ctrl+c":
			return s, tea.Quit
		}
	}

	form, cmd := s.form.Update(msg)
	s.form = form.(*huh.Form)

	switch s.form.State {
	case huh.StateCompleted:
		changed := AdapterChangedMsg{ProjectID: s.projectID, CLI: adapter.CliKind(s.selectedCLI)}
		s.form = s.formBuilder()
		s.form.WithTheme(theme.HuhThemeFunc())
		s.form.WithKeyMap(huhadapter.KeyMap(s.Keys))
		return s, tea.Batch(
			func() tea.Msg { return changed },
			nav.Pop(),
		)
	case huh.StateAborted:
		s.form = s.formBuilder()
		s.form.WithTheme(theme.HuhThemeFunc())
		s.form.WithKeyMap(huhadapter.KeyMap(s.Keys))
		return s, tea.Batch(cmd, s.form.Init(), nav.Pop())
	}

	return s, cmd
}

// View renders the adapter management form screen.
func (s *AdapterScreen) View() tea.View {
	return s.RenderView(s.Theme.App.Render(
		s.HeaderView() + "\n" + s.form.View(),
	))
}

// SetTheme updates the theme. Implements nav.Themeable.
func (s *AdapterScreen) SetTheme(isDark bool) {
	s.ApplyTheme(isDark)
	s.form.WithTheme(theme.HuhThemeFunc())
}

var _ tea.Msg = AdapterChangedMsg{}
