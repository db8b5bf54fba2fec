package envresolve

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
)

// BuildCommand constructs an *exec.Cmd for name+args that inherits the
// filtered, PATH-merged environment and is wrapped so that shell rc
// files and version-manager shims are honored:
//
//   - POSIX: the child is launched under the user's login shell as
//     `<shell> -lc "<escaped argv>"`; argv is joined with single-quote
//     escaping.
//   - Windows: batch-file executables (.cmd/.bat) are wrapped as
//     `cmd /C <exe> <args>`; others are invoked directly. The hide
//     console window flag is applied in both cases.
func BuildCommand(ctx context.Context, name string, args []string, workingDir string, extraEnv map[string]string) *exec.Cmd {
	var cmd *exec.Cmd

	if runtime.GOOS == "windows" {
		lower := strings.ToLower(name)
		if strings.HasSuffix(lower, ".cmd") || strings.HasSuffix(lower, ".bat") {
			fullArgs := append([]string{"/C", name}, args...)
			cmd = exec.CommandContext(ctx, "cmd", fullArgs...)
		} else {
			cmd = exec.CommandContext(ctx, name, args...)
		}
		hideWindow(cmd)
	} else {
		shell := loginShell()
		argv := append([]string{name}, args...)
		cmd = exec.CommandContext(ctx, shell, "-lc", quoteArgv(argv))
	}

	cmd.Dir = workingDir
	cmd.Env = FilteredEnv(extraEnv)
	return cmd
}

func loginShell() string {
	env := LoginShellEnv()
	if sh, ok := env["SHELL"]; ok && sh != "" {
		return sh
	}
	return "/bin/sh"
}

// quoteArgv joins argv into a single string with single-quote escaping,
// suitable for passing to `<shell> -lc`.
func quoteArgv(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		parts[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
	}
	return strings.Join(parts, " ")
}
