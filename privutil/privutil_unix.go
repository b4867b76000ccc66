//go:build !windows

package privutil

import "os"

func isElevated() bool {
	return os.Geteuid() == 0
}

// No UAC equivalent; operators use sudo themselves.
func relaunchElevated() (bool, error) {
	return false, nil
}
