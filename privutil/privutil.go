// Package privutil answers whether the current process is elevated and, on
// Windows, can request an elevated relaunch. Socket-table queries and
// terminating foreign processes need elevation on some platforms; everything
// in procport still works unelevated, just with more PermissionDenied
// results.
package privutil

// IsElevated reports whether the process runs with administrative
// privileges: effective uid 0 on Unix, an elevated token on Windows.
func IsElevated() bool {
	return isElevated()
}

// RelaunchElevated asks the OS to start a new elevated instance of the
// current executable with the same arguments. It returns true when the
// relaunch was requested, in which case the caller should exit. On Unix
// there is no elevation prompt concept and it always returns false.
func RelaunchElevated() (bool, error) {
	return relaunchElevated()
}
