package screens

import (
	"charm.land/huh/v2"
	tea "charm.land/bubbletea/v2"

	huhadapter "ralphloop/internal/ui/huh"
	"ralphloop/internal/ui/nav"
	"ralphloop/internal/ui/theme"
)

// ProjectCreatedUserMsg is sent when the user submits the new-project form.
type ProjectCreatedUserMsg struct {
	Path string
	Name string
}

// NewProjectScreen is a small huh form collecting a project's directory
// and display name before handing off to CreateProject.
type NewProjectScreen struct {
	ScreenBase
	huhForm *huh.Form
	path    string
	name    string
}

// NewNewProjectScreen creates a NewProjectScreen.
func NewNewProjectScreen(isDark bool, appName string) *NewProjectScreen {
	s := &NewProjectScreen{ScreenBase: NewBase(isDark, appName)}
	s.huhForm = s.buildForm()
	s.huhForm.WithTheme(theme.HuhThemeFunc())
	s.huhForm.WithKeyMap(huhadapter.KeyMap(s.Keys))
	return s
}

func (s *NewProjectScreen) buildForm() *huh.Form {
	pathField := huh.NewInput().
		Title("Project directory").
		Description("Absolute or relative path to the project's working directory").
		Value(&s.path)

	nameField := huh.NewInput().
		Title("Display name").
		Description("How this project appears in the list (defaults to the directory name)").
		Value(&s.name)

	return huh.NewForm(huh.NewGroup(pathField, nameField)).WithShowHelp(true)
}

// Init returns the form's initial command.
func (s *NewProjectScreen) Init() tea.Cmd {
	return s.huhForm.Init()
}

// Update handles incoming messages.
func (s *NewProjectScreen) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
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

	form, cmd := s.huhForm.Update(msg)
	s.huhForm = form.(*huh.Form)

	switch s.huhForm.State {
	case huh.StateCompleted:
		created := ProjectCreatedUserMsg{Path: s.path, Name: s.name}
		return s, tea.Batch(
			func() tea.Msg { return created },
			nav.Pop(),
		)
	case huh.StateAborted:
		return s, tea.Batch(cmd, nav.Pop())
	}

	return s, cmd
}

// View renders the new-project form.
func (s *NewProjectScreen) View() tea.View {
	return s.RenderView(s.Theme.App.Render(
		s.HeaderView() + "\n" + s.huhForm.View(),
	))
}

// SetTheme updates the theme. Implements nav.Themeable.
func (s *NewProjectScreen) SetTheme(isDark bool) {
	s.ApplyTheme(isDark)
	s.huhForm.WithTheme(theme.HuhThemeFunc())
}
