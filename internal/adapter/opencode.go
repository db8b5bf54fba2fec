package adapter

import (
	"context"
	"os/exec"
)

// opencodeAdapter: run command, JSON output, permission auto-allow via
// env var. Grounded on the teacher's internal/adapter/opencode.go +
// commands.go.
type opencodeAdapter struct{ base }

func newOpencodeAdapter() *opencodeAdapter {
	return &opencodeAdapter{base: newBase(Opencode, "Opencode", "opencode")}
}

func (a *opencodeAdapter) BuildCommand(ctx context.Context, prompt, workingDir string, _ CommandOptions) (*exec.Cmd, error) {
	args := []string{"run", "--format", "json", prompt}
	env := map[string]string{"OPENCODE_PERMISSION": `{"*":"allow"}`}
	return a.buildCmd(ctx, args, workingDir, env), nil
}

func (a *opencodeAdapter) BuildReadonlyCommand(ctx context.Context, prompt, workingDir string, _ CommandOptions) (*exec.Cmd, error) {
	args := []string{"run", "--format", "json", prompt}
	return a.buildCmd(ctx, args, workingDir, nil), nil
}

func (a *opencodeAdapter) ParseOutputLine(line string) ParsedLine {
	return parsePartLine(line)
}

func (a *opencodeAdapter) ContainsCompletion(text, signal string) bool {
	return containsCompletionByLine(a.ParseOutputLine, text, signal)
}
