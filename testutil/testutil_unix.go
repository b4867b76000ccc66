//go:build !windows

package testutil

import (
	"fmt"
	"os/exec"
	"syscall"
	"testing"
)

// StartStubbornSleeper spawns a shell that ignores SIGTERM, with a sleeping
// child, and returns the shell's PID. Used to exercise the kill escalation
// path: the shell only dies to SIGKILL.
func StartStubbornSleeper(t *testing.T, seconds int) int {
	t.Helper()
	return startShell(t, fmt.Sprintf(`trap "" TERM; sleep %d`, seconds))
}

// StartSleeperTree spawns a shell with two sleeping children (a three
// process tree) and returns the shell's PID.
func StartSleeperTree(t *testing.T, seconds int) int {
	t.Helper()
	return startShell(t, fmt.Sprintf("sleep %d & sleep %d & wait", seconds, seconds))
}

// startShell runs a script in its own process group so cleanup can take the
// whole tree down even when the test's own termination path failed.
func startShell(t *testing.T, script string) int {
	t.Helper()

	cmd := exec.Command("sh", "-c", script)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		t.Fatalf("Failed to start shell process: %v", err)
	}

	t.Cleanup(func() {
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		_ = cmd.Wait()
	})

	return cmd.Process.Pid
}
