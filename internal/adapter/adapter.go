// Package adapter abstracts vendor-specific agent CLI invocation and
// output parsing behind a single polymorphic interface, as described in
// SPEC_FULL.md's CLI Adapter component.
package adapter

import (
	"context"
	"os/exec"
)

// CliKind tags which adapter a project uses.
type CliKind string

const (
	// Required per spec.md §4.1's A/B/C table.
	Claude CliKind = "claude" // A
	Codex  CliKind = "codex"  // B
	Gemini CliKind = "gemini" // C

	// Additional adapters kept from the teacher's domain-stack richness;
	// spec.md's non-goals forbid multiplexing concurrent agents within
	// one project, not supporting more than three vendors.
	Cursor   CliKind = "cursor"
	Opencode CliKind = "opencode"
	Kilo     CliKind = "kilo"
	Pi       CliKind = "pi"
)

// ValidKinds lists every supported CliKind in display order.
var ValidKinds = []CliKind{Claude, Codex, Gemini, Cursor, Opencode, Kilo, Pi}

// LineType tags how a ParsedLine's content should be interpreted.
type LineType string

const (
	LineText  LineType = "text"
	LineJSON  LineType = "json"
	LineError LineType = "error"
)

// ParsedLine is one line of child output, normalized across adapters.
// IsAssistant discriminates agent reasoning output from tool/control
// events; only assistant content is searched for the completion signal.
type ParsedLine struct {
	Content     string
	LineType    LineType
	IsAssistant bool
}

// CommandOptions configures adapter command construction.
type CommandOptions struct {
	// SkipGitRepoCheck propagates to adapters (currently only Codex)
	// that refuse to run outside a git repository by default.
	SkipGitRepoCheck bool
}

// Adapter is the polymorphic capability every supported CLI implements.
type Adapter interface {
	// Name returns a human-readable identifier.
	Name() string

	// Kind returns the CliKind this adapter implements.
	Kind() CliKind

	// IsInstalled reports whether the executable was found on the
	// effective PATH. Cached at construction.
	IsInstalled() bool

	// Path returns the resolved executable path, or "" if not installed.
	Path() string

	// Version invokes `<exe> --version`, trims whitespace, and returns
	// it on a zero exit. The second return is false on any failure.
	Version(ctx context.Context) (string, bool)

	// BuildCommand constructs the edit-capable "execute" command: flags
	// permit file modification; stdout/stderr are piped; stdin is closed.
	BuildCommand(ctx context.Context, prompt, workingDir string, opts CommandOptions) (*exec.Cmd, error)

	// BuildReadonlyCommand is as above, but flags restrict the child to
	// read-only behavior. Used exclusively by the brainstorm driver.
	BuildReadonlyCommand(ctx context.Context, prompt, workingDir string, opts CommandOptions) (*exec.Cmd, error)

	// ParseOutputLine normalizes one line of child output.
	ParseOutputLine(line string) ParsedLine

	// ContainsCompletion performs a format-aware search for signal
	// within text, respecting the is_assistant rule for NDJSON adapters.
	ContainsCompletion(text, signal string) bool
}

// New constructs the Adapter for kind. Unknown kinds default to Claude.
func New(kind CliKind) Adapter {
	switch kind {
	case Codex:
		return newCodexAdapter()
	case Gemini:
		return newGeminiAdapter()
	case Cursor:
		return newCursorAdapter()
	case Opencode:
		return newOpencodeAdapter()
	case Kilo:
		return newKiloAdapter()
	case Pi:
		return newPiAdapter()
	default:
		return newClaudeAdapter()
	}
}
