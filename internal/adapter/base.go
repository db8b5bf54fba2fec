package adapter

import (
	"context"
	"os/exec"
	"strings"

	"ralphloop/internal/envresolve"
)

// base implements the installation-probe and version-check plumbing
// shared by every concrete adapter; concrete types embed it and add
// their own BuildCommand/BuildReadonlyCommand/ParseOutputLine/
// ContainsCompletion.
type base struct {
	kind CliKind
	name string
	exe  string
	path string
	ok   bool
}

func newBase(kind CliKind, name, exe string) base {
	path, ok := envresolve.ResolveExecutable(exe)
	return base{kind: kind, name: name, exe: exe, path: path, ok: ok}
}

func (b base) Name() string      { return b.name }
func (b base) Kind() CliKind     { return b.kind }
func (b base) IsInstalled() bool { return b.ok }
func (b base) Path() string      { return b.path }

func (b base) Version(ctx context.Context) (string, bool) {
	exe := b.exe
	if b.path != "" {
		exe = b.path
	}
	cmd := envresolve.BuildCommand(ctx, exe, []string{"--version"}, "", nil)
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}
	version := strings.TrimSpace(string(out))
	if version == "" {
		return "", false
	}
	return version, true
}

// buildCmd is a shared helper for constructing a piped, stdin-closed
// child command via the environment resolver.
func (b base) buildCmd(ctx context.Context, args []string, workingDir string, extraEnv map[string]string) *exec.Cmd {
	exe := b.exe
	if b.path != "" {
		exe = b.path
	}
	cmd := envresolve.BuildCommand(ctx, exe, args, workingDir, extraEnv)
	cmd.Stdin = nil
	return cmd
}
