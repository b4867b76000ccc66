package procs

import "strings"

// Categorize assigns a process to exactly one Category from already-fetched
// metadata. The rules are ordered heuristics carried over from the original
// tool, not an authoritative taxonomy:
//
//   - pid 0 is the idle pseudo-process
//   - very low pids are kernel/system processes
//   - no resolvable owner means a background/kernel task
//   - service-looking names and service accounts (SYSTEM, NT AUTHORITY\*,
//     root) are Services
//   - everything else belongs to a logged-in user
//
// The function is pure and total: the same inputs always produce the same
// label, and every input produces some label. An empty username stands for
// "owner unavailable".
func Categorize(pid int32, name, username string) Category {
	if pid == 0 {
		return CategorySystemIdle
	}
	if pid <= 4 {
		return CategorySystem
	}
	if username == "" {
		return CategoryBackground
	}
	upper := strings.ToUpper(username)
	if strings.Contains(strings.ToLower(name), "service") ||
		upper == "SYSTEM" ||
		upper == "ROOT" ||
		strings.HasPrefix(upper, "NT AUTHORITY") {
		return CategoryServices
	}
	return CategoryUser
}
