package adapter

import (
	"context"
	"os/exec"
	"strings"
)

// codexAdapter implements adapter B: exec-mode, bypass-approvals,
// optional skip-repo-check, NDJSON events with completion text arriving
// on item.completed where item.type=="agent_message". Grounded on
// original_source/src-tauri/src/adapters/codex.rs for the executable and
// SPEC_FULL.md's richer NDJSON description (which supersedes the
// original's plain-text snapshot, per DESIGN.md).
type codexAdapter struct{ base }

func newCodexAdapter() *codexAdapter {
	return &codexAdapter{base: newBase(Codex, "Codex", "codex")}
}

func (a *codexAdapter) BuildCommand(ctx context.Context, prompt, workingDir string, opts CommandOptions) (*exec.Cmd, error) {
	args := []string{"exec", "--full-auto", "--json"}
	if opts.SkipGitRepoCheck {
		args = append(args, "--skip-git-repo-check")
	}
	args = append(args, prompt)
	return a.buildCmd(ctx, args, workingDir, nil), nil
}

func (a *codexAdapter) BuildReadonlyCommand(ctx context.Context, prompt, workingDir string, opts CommandOptions) (*exec.Cmd, error) {
	args := []string{"exec", "--json"}
	if opts.SkipGitRepoCheck {
		args = append(args, "--skip-git-repo-check")
	}
	args = append(args, prompt)
	return a.buildCmd(ctx, args, workingDir, nil), nil
}

func (a *codexAdapter) ParseOutputLine(line string) ParsedLine {
	return parseCodexLine(line)
}

func (a *codexAdapter) ContainsCompletion(text, signal string) bool {
	return containsCompletionByLine(a.ParseOutputLine, text, signal)
}

// IsGitRepoCheckError reports whether line is Codex's fatal guard
// refusing to run outside a trusted directory. Checked by the Loop
// Engine both reactively on stderr and as part of the pre-flight check.
// Grounded on original_source/src-tauri/src/engine/mod.rs::is_codex_git_repo_check_error.
func IsGitRepoCheckError(kind CliKind, line string) bool {
	if kind != Codex {
		return false
	}
	return strings.Contains(line, "Not inside a trusted directory") &&
		strings.Contains(line, "skip-git-repo-check")
}
