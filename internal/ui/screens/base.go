package screens

import (
	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"

	appkeys "ralphloop/internal/ui/keys"
	"ralphloop/internal/ui/theme"
)

// ScreenBase carries the fields every screen needs regardless of its
// own content: global key bindings, the current theme, the help model,
// and the terminal dimensions. Screens embed it instead of repeating
// this wiring.
type ScreenBase struct {
	AppName string
	IsDark  bool
	Width   int
	Height  int

	Keys  appkeys.GlobalKeyMap
	Theme theme.Theme
	Help  help.Model
}

// NewBase returns a ScreenBase themed for isDark, labeled appName.
func NewBase(isDark bool, appName string) ScreenBase {
	return ScreenBase{
		AppName: appName,
		IsDark:  isDark,
		Keys:    appkeys.New(),
		Theme:   theme.New(isDark),
		Help:    help.New(),
	}
}

// ApplyTheme rebuilds Theme for a newly detected background color.
func (b *ScreenBase) ApplyTheme(isDark bool) {
	b.IsDark = isDark
	b.Theme = theme.New(isDark)
}

// IsSized reports whether a WindowSizeMsg has been delivered yet.
func (b *ScreenBase) IsSized() bool {
	return b.Width > 0 && b.Height > 0
}

// ContentWidth returns the width available for a screen's content area.
func (b *ScreenBase) ContentWidth() int {
	if b.Width <= 0 {
		return 80
	}
	return b.Width
}

// HeaderView renders the shared app-name header line.
func (b *ScreenBase) HeaderView() string {
	return b.Theme.Title.Render(b.AppName)
}

// RenderHelp renders km through the shared help model.
func (b *ScreenBase) RenderHelp(km help.KeyMap) string {
	b.Help.Width = b.ContentWidth()
	return b.Help.View(km)
}

// CalculateContentHeight returns the viewport height left over once
// reserved (header+footer) and helpH (the rendered help view) rows are
// subtracted from the terminal height.
func (b *ScreenBase) CalculateContentHeight(reserved, helpH int) int {
	h := b.Height - reserved - helpH
	if h < 1 {
		return 1
	}
	return h
}

// RenderView wraps content in a tea.View. Screens call this from their
// own View() method rather than returning a bare string, so Model can
// treat every screen in the stack uniformly.
func (b *ScreenBase) RenderView(content string) tea.View {
	return tea.NewView(content)
}
