package adapter

import (
	"context"
	"os/exec"
)

// kiloAdapter: run command, JSON output, permission auto-allow via env
// var. Grounded on the teacher's internal/adapter/kilo.go +
// commands.go.
type kiloAdapter struct{ base }

func newKiloAdapter() *kiloAdapter {
	return &kiloAdapter{base: newBase(Kilo, "Kilo", "kilo")}
}

func (a *kiloAdapter) BuildCommand(ctx context.Context, prompt, workingDir string, _ CommandOptions) (*exec.Cmd, error) {
	args := []string{"run", "--format", "json", prompt}
	env := map[string]string{"KILO_PERMISSION": `{"*":"allow"}`}
	return a.buildCmd(ctx, args, workingDir, env), nil
}

func (a *kiloAdapter) BuildReadonlyCommand(ctx context.Context, prompt, workingDir string, _ CommandOptions) (*exec.Cmd, error) {
	args := []string{"run", "--format", "json", prompt}
	return a.buildCmd(ctx, args, workingDir, nil), nil
}

func (a *kiloAdapter) ParseOutputLine(line string) ParsedLine {
	return parsePartLine(line)
}

func (a *kiloAdapter) ContainsCompletion(text, signal string) bool {
	return containsCompletionByLine(a.ParseOutputLine, text, signal)
}
