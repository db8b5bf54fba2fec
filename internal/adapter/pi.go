package adapter

import (
	"context"
	"os/exec"
)

// piAdapter: JSON mode, prompt flag. Grounded on the teacher's
// internal/adapter/pi.go + commands.go.
type piAdapter struct{ base }

func newPiAdapter() *piAdapter {
	return &piAdapter{base: newBase(Pi, "Pi", "pi")}
}

func (a *piAdapter) BuildCommand(ctx context.Context, prompt, workingDir string, _ CommandOptions) (*exec.Cmd, error) {
	args := []string{"--mode", "json", "-p", prompt}
	return a.buildCmd(ctx, args, workingDir, nil), nil
}

func (a *piAdapter) BuildReadonlyCommand(ctx context.Context, prompt, workingDir string, _ CommandOptions) (*exec.Cmd, error) {
	args := []string{"--mode", "json", "-p", prompt}
	return a.buildCmd(ctx, args, workingDir, nil), nil
}

func (a *piAdapter) ParseOutputLine(line string) ParsedLine {
	return parsePartLine(line)
}

func (a *piAdapter) ContainsCompletion(text, signal string) bool {
	return containsCompletionByLine(a.ParseOutputLine, text, signal)
}
