// Package nav defines the screen-stack navigation vocabulary shared by
// Model and every screen: the Screen interface, its optional Themeable
// extension, and the Push/Pop/Replace messages Model's own stack
// machinery reacts to. Grounded in idiom on sibling module
// template-v2-enhanced/internal/ui/nav/nav.go, trimmed down: this
// application's Model manages the screen stack directly rather than
// through a separate Stack type, so only the vocabulary is needed here.
package nav

import tea "charm.land/bubbletea/v2"

// Screen is a navigable screen. Update returns Screen rather than
// tea.Model so the stack stays type-safe without assertions at every
// call site.
type Screen interface {
	Init() tea.Cmd
	Update(tea.Msg) (Screen, tea.Cmd)
	View() tea.View
}

// Themeable is implemented by screens that adapt their palette once
// the terminal's background color is known.
type Themeable interface {
	SetTheme(isDark bool)
}

// PushMsg requests pushing a screen onto the navigation stack.
type PushMsg struct{ Screen Screen }

// PopMsg requests popping the top screen from the navigation stack.
type PopMsg struct{}

// ReplaceMsg requests replacing the top screen on the stack.
type ReplaceMsg struct{ Screen Screen }

// Push returns a command that pushes screen onto the stack.
func Push(screen Screen) tea.Cmd {
	return func() tea.Msg { return PushMsg{Screen: screen} }
}

// Pop returns a command that pops the top screen from the stack.
func Pop() tea.Cmd {
	return func() tea.Msg { return PopMsg{} }
}

// Replace returns a command that replaces the top screen.
func Replace(screen Screen) tea.Cmd {
	return func() tea.Msg { return ReplaceMsg{Screen: screen} }
}
