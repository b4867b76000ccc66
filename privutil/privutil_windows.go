//go:build windows

package privutil

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

func isElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// relaunchElevated uses ShellExecute with the "runas" verb, which triggers
// the UAC consent prompt. The new instance starts detached; the current one
// should exit once this returns true.
func relaunchElevated() (bool, error) {
	exe, err := os.Executable()
	if err != nil {
		return false, fmt.Errorf("cannot resolve executable path: %w", err)
	}

	verb, err := windows.UTF16PtrFromString("runas")
	if err != nil {
		return false, err
	}
	file, err := windows.UTF16PtrFromString(exe)
	if err != nil {
		return false, err
	}
	args, err := windows.UTF16PtrFromString(strings.Join(os.Args[1:], " "))
	if err != nil {
		return false, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}
	dir, err := windows.UTF16PtrFromString(cwd)
	if err != nil {
		return false, err
	}

	if err := windows.ShellExecute(0, verb, file, args, dir, windows.SW_NORMAL); err != nil {
		return false, fmt.Errorf("elevated relaunch refused: %w", err)
	}
	return true, nil
}
