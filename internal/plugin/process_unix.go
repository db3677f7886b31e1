//go:build unix

package plugin

import (
	"os/exec"
	"syscall"
)

// setProcGroup runs the script in its own process group so a timeout reaches its children
func setProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcGroup kills the script's whole process group
func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process != nil {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	return nil
}
