package screens

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	"charm.land/huh/v2"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"ralphloop/internal/adapter"
	"ralphloop/internal/brainstorm"
	huhadapter "ralphloop/internal/ui/huh"
	"ralphloop/internal/ui/nav"
	"ralphloop/internal/ui/theme"
)

// BrainstormSendUserMsg asks the root model to run one brainstorm turn
// for ProjectID with the given conversation so far.
type BrainstormSendUserMsg struct {
	ProjectID    string
	Conversation []brainstorm.ConversationMessage
}

// BrainstormRespondedMsg delivers the result of a BrainstormSendUserMsg
// back into the screen.
type BrainstormRespondedMsg struct {
	Response brainstorm.AiBrainstormResponse
	Err      error
}

// CompleteBrainstormUserMsg asks the root model to finalize the
// brainstorm: write the generated task and transition to Ready.
type CompleteBrainstormUserMsg struct {
	ProjectID     string
	Prompt        string
	CLI           adapter.CliKind
	MaxIterations int
}

// brainstormPhase tracks whether the screen is chatting with the
// adapter or collecting the final CLI/iteration choice.
type brainstormPhase int

const (
	phaseChat brainstormPhase = iota
	phaseFinalize
)

// BrainstormScreen drives the free-form conversation that produces a
// project's generated task prompt before it becomes Ready.
type BrainstormScreen struct {
	ScreenBase

	projectID    string
	conversation []brainstorm.ConversationMessage
	vp           viewport.Model
	input        textinput.Model
	waiting      bool

	phase         brainstormPhase
	generated     string
	cliChoice     string
	maxIterations string
	finalizeForm  *huh.Form
}

// NewBrainstormScreen creates a BrainstormScreen for projectID.
func NewBrainstormScreen(isDark bool, appName, projectID string, defaultCLI adapter.CliKind, defaultMaxIterations int) *BrainstormScreen {
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.SoftWrap = true

	ti := textinput.New()
	ti.Placeholder = "Describe what you want built, or answer the question above..."
	ti.Focus()

	return &BrainstormScreen{
		ScreenBase:    NewBase(isDark, appName),
		projectID:     projectID,
		vp:            vp,
		input:         ti,
		cliChoice:     string(defaultCLI),
		maxIterations: fmt.Sprintf("%d", defaultMaxIterations),
	}
}

// Init returns nil; the user's first message kicks off the conversation.
func (s *BrainstormScreen) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages.
func (s *BrainstormScreen) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.Width, s.Height = msg.Width, msg.Height
		s.rebuildViewport()

	case tea.KeyPressMsg:
		if msg.String() == "esc" && s.phase == phaseChat {
			return s, nav.Pop()
		}
		if s.phase == phaseChat && msg.String() == "enter" && !s.waiting {
			text := strings.TrimSpace(s.input.Value())
			if text == "" {
				break
			}
			s.conversation = append(s.conversation, brainstorm.ConversationMessage{Role: "user", Content: text})
			s.input.SetValue("")
			s.waiting = true
			s.rebuildViewport()
			conv := append([]brainstorm.ConversationMessage(nil), s.conversation...)
			id := s.projectID
			return s, func() tea.Msg { return BrainstormSendUserMsg{ProjectID: id, Conversation: conv} }
		}

	case BrainstormRespondedMsg:
		s.waiting = false
		if msg.Err != nil {
			s.conversation = append(s.conversation, brainstorm.ConversationMessage{Role: "assistant", Content: "Error: " + msg.Err.Error()})
			s.rebuildViewport()
			break
		}
		resp := msg.Response
		s.conversation = append(s.conversation, brainstorm.ConversationMessage{Role: "assistant", Content: renderBrainstormResponse(resp)})
		s.rebuildViewport()
		if resp.IsComplete {
			s.generated = resp.GeneratedPrompt
			s.enterFinalize()
		}
	}

	if s.phase == phaseFinalize {
		return s.updateFinalize(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	cmds = append(cmds, cmd)
	s.input, cmd = s.input.Update(msg)
	cmds = append(cmds, cmd)
	return s, tea.Batch(cmds...)
}

func (s *BrainstormScreen) enterFinalize() {
	s.phase = phaseFinalize
	s.finalizeForm = s.buildFinalizeForm()
	s.finalizeForm.WithTheme(theme.HuhThemeFunc())
	s.finalizeForm.WithKeyMap(huhadapter.KeyMap(s.Keys))
}

func (s *BrainstormScreen) buildFinalizeForm() *huh.Form {
	options := make([]huh.Option[string], len(adapter.ValidKinds))
	for i, k := range adapter.ValidKinds {
		options[i] = huh.NewOption(string(k), string(k))
	}
	cliField := huh.NewSelect[string]().Title("CLI").Options(options...).Value(&s.cliChoice)
	itersField := huh.NewInput().Title("Max iterations").Value(&s.maxIterations)
	return huh.NewForm(huh.NewGroup(cliField, itersField)).WithShowHelp(true)
}

func (s *BrainstormScreen) updateFinalize(msg tea.Msg) (nav.Screen, tea.Cmd) {
	form, cmd := s.finalizeForm.Update(msg)
	s.finalizeForm = form.(*huh.Form)

	if s.finalizeForm.State == huh.StateCompleted {
		var n int
		fmt.Sscanf(s.maxIterations, "%d", &n)
		completed := CompleteBrainstormUserMsg{
			ProjectID:     s.projectID,
			Prompt:        s.generated,
			CLI:           adapter.CliKind(s.cliChoice),
			MaxIterations: n,
		}
		return s, func() tea.Msg { return completed }
	}
	return s, cmd
}

// View renders the brainstorm screen.
func (s *BrainstormScreen) View() tea.View {
	if s.phase == phaseFinalize {
		return s.RenderView(s.Theme.App.Render(
			s.HeaderView() + "\n\n" + s.Theme.Subtle.Render(s.generated) + "\n\n" + s.finalizeForm.View(),
		))
	}

	status := ""
	if s.waiting {
		status = s.Theme.Subtle.Render("thinking...")
	}

	vpH := s.Height - 5
	if vpH < 1 {
		vpH = 1
	}
	s.vp.SetWidth(s.ContentWidth())
	s.vp.SetHeight(vpH)
	s.rebuildViewport()

	return s.RenderView(lipgloss.JoinVertical(lipgloss.Left,
		s.HeaderView(),
		s.vp.View(),
		status,
		s.input.View(),
	))
}

// SetTheme updates the theme. Implements nav.Themeable.
func (s *BrainstormScreen) SetTheme(isDark bool) {
	s.ApplyTheme(isDark)
	if s.finalizeForm != nil {
		s.finalizeForm.WithTheme(theme.HuhThemeFunc())
	}
}

func (s *BrainstormScreen) rebuildViewport() {
	var sb strings.Builder
	for _, m := range s.conversation {
		label := "you"
		if m.Role == "assistant" {
			label = "agent"
		}
		sb.WriteString(s.Theme.Subtle.Render("["+label+"]") + " " + m.Content + "\n\n")
	}
	s.vp.SetWidth(s.ContentWidth())
	s.vp.SetContent(sb.String())
	s.vp.GotoBottom()
}

// renderBrainstormResponse formats one parsed adapter turn for display.
func renderBrainstormResponse(r brainstorm.AiBrainstormResponse) string {
	if r.IsComplete {
		return "Ready to finalize: " + r.GeneratedPrompt
	}
	var sb strings.Builder
	sb.WriteString(r.Question)
	if r.Description != "" {
		sb.WriteString("\n" + r.Description)
	}
	for _, o := range r.Options {
		sb.WriteString(fmt.Sprintf("\n  - %s: %s", o.Label, o.Description))
	}
	return sb.String()
}
