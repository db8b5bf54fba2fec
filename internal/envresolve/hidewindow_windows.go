//go:build windows

package envresolve

import (
	"os/exec"
	"syscall"
)

// hideWindow applies the hide-console-window creation flag on Windows.
func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
