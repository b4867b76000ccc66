//go:build windows

package testutil

import "testing"

// The process-tree helpers script a POSIX shell; the scenarios they back
// (signal traps, process groups) have no direct Windows equivalent.

func StartStubbornSleeper(t *testing.T, seconds int) int {
	t.Helper()
	t.Skip("requires a POSIX shell")
	return 0
}

func StartSleeperTree(t *testing.T, seconds int) int {
	t.Helper()
	t.Skip("requires a POSIX shell")
	return 0
}
