package adapter

import (
	"context"
	"os/exec"
	"strings"
)

// geminiAdapter implements adapter C: a comparable flag set for the
// third vendor, plain text output where every line is assistant
// content. Grounded on spec.md §4.1's table row C; no original_source
// or teacher file covers a third vendor directly, so command flags
// follow the same print-mode/non-interactive shape the other two
// adapters use.
type geminiAdapter struct{ base }

func newGeminiAdapter() *geminiAdapter {
	return &geminiAdapter{base: newBase(Gemini, "Gemini", "gemini")}
}

func (a *geminiAdapter) BuildCommand(ctx context.Context, prompt, workingDir string, _ CommandOptions) (*exec.Cmd, error) {
	args := []string{"-p", prompt, "--yolo"}
	return a.buildCmd(ctx, args, workingDir, nil), nil
}

func (a *geminiAdapter) BuildReadonlyCommand(ctx context.Context, prompt, workingDir string, _ CommandOptions) (*exec.Cmd, error) {
	args := []string{"-p", prompt}
	return a.buildCmd(ctx, args, workingDir, nil), nil
}

func (a *geminiAdapter) ParseOutputLine(line string) ParsedLine {
	return ParsedLine{Content: line, LineType: LineText, IsAssistant: true}
}

func (a *geminiAdapter) ContainsCompletion(text, signal string) bool {
	if signal == "" {
		return false
	}
	return strings.Contains(text, signal)
}
