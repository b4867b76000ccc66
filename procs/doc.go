// Package procs enumerates, classifies, and terminates operating-system
// processes. It is a thin layer over github.com/shirou/gopsutil/v4/process:
// every query re-reads current OS state and nothing is cached, so two
// snapshots taken back to back may disagree.
//
// The one real policy in this package is TerminateTree: terminate the whole
// descendant tree gracefully, wait a bounded time, then kill whatever is
// still alive. Each target fails independently; a permission error on one
// pid never aborts its siblings.
package procs
