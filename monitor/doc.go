// Package monitor implements the real-time views: a port-range monitor, an
// interactive thread monitor, and a simple full-process follow view. Each
// loop re-reads OS state on every iteration and carries no state across
// iterations beyond what is displayed (and the previous port states, kept
// only to detect changes worth a notification).
//
// All loops stop on context cancellation and leave the terminal with its
// styling reset.
package monitor
