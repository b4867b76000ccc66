package procs

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/procport/procport/logutil"
)

// exitPollInterval is how often waitForExit re-checks targets.
const exitPollInterval = 100 * time.Millisecond

// Failure records a pid that could not be terminated and why.
type Failure struct {
	PID   int32  `json:"pid"`
	Error string `json:"error"`
}

// TreeResult summarizes a TerminateTree call. Pids appear in exactly one of
// Terminated (exited after the graceful signal), Killed (needed the forceful
// signal), or Failed.
type TreeResult struct {
	Terminated []int32   `json:"terminated"`
	Killed     []int32   `json:"killed"`
	Failed     []Failure `json:"failed"`
}

// Merge folds other into r. Used when freeing a port owned by several
// processes.
func (r *TreeResult) Merge(other TreeResult) {
	r.Terminated = append(r.Terminated, other.Terminated...)
	r.Killed = append(r.Killed, other.Killed...)
	r.Failed = append(r.Failed, other.Failed...)
}

// Done reports whether every target ended up terminated or killed.
func (r TreeResult) Done() bool {
	return len(r.Failed) == 0
}

// TerminateTree terminates the process with the given pid and all of its
// descendants.
//
// Policy: enumerate descendants at call time, send the graceful terminate
// signal to every descendant and then the root, wait up to timeout for them
// to exit, then send the forceful kill signal to any survivor and wait up to
// grace for it to land. A pid that is already gone counts as success; a
// permission error on one target is recorded and its siblings are still
// processed. Descendants spawned after enumeration are not tracked — the
// whole operation is best-effort, not atomic.
func TerminateTree(ctx context.Context, pid int32, timeout, grace time.Duration) TreeResult {
	var result TreeResult

	root, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		// Already dead: terminating a dead tree is a no-op success.
		logutil.Debug("terminate target not running", "pid", pid)
		return result
	}

	// Children first, root last, so the root cannot respawn its children
	// while we work through the list.
	targets := append(descendants(ctx, root), root)

	for _, p := range targets {
		if err := p.TerminateWithContext(ctx); err != nil && !isGone(err) {
			result.Failed = append(result.Failed, Failure{
				PID:   p.Pid,
				Error: fmt.Sprintf("terminate error: %v", err),
			})
		}
	}

	gone, alive := waitForExit(ctx, targets, timeout)
	for _, p := range gone {
		result.Terminated = append(result.Terminated, p.Pid)
	}

	for _, p := range alive {
		if err := p.KillWithContext(ctx); err != nil {
			if isGone(err) {
				result.Terminated = append(result.Terminated, p.Pid)
				continue
			}
			result.Failed = append(result.Failed, Failure{
				PID:   p.Pid,
				Error: fmt.Sprintf("kill error: %v", err),
			})
		}
	}

	if len(alive) > 0 {
		killed, survivors := waitForExit(ctx, alive, grace)
		for _, p := range killed {
			if !contains(result.Terminated, p.Pid) {
				result.Killed = append(result.Killed, p.Pid)
			}
		}
		for _, p := range survivors {
			if contains(result.Terminated, p.Pid) {
				continue
			}
			result.Failed = append(result.Failed, Failure{
				PID:   p.Pid,
				Error: "still alive after kill",
			})
		}
	}

	result.dedupe()
	return result
}

// KillTree is the forced variant: it skips the graceful terminate phase and
// sends the kill signal to the whole tree immediately, waiting up to grace
// for it to land. Same idempotency and per-target failure rules as
// TerminateTree.
func KillTree(ctx context.Context, pid int32, grace time.Duration) TreeResult {
	var result TreeResult

	root, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		logutil.Debug("kill target not running", "pid", pid)
		return result
	}
	targets := append(descendants(ctx, root), root)

	for _, p := range targets {
		if err := p.KillWithContext(ctx); err != nil && !isGone(err) {
			result.Failed = append(result.Failed, Failure{
				PID:   p.Pid,
				Error: fmt.Sprintf("kill error: %v", err),
			})
		}
	}

	killed, survivors := waitForExit(ctx, targets, grace)
	for _, p := range killed {
		result.Killed = append(result.Killed, p.Pid)
	}
	for _, p := range survivors {
		result.Failed = append(result.Failed, Failure{
			PID:   p.Pid,
			Error: "still alive after kill",
		})
	}

	result.dedupe()
	return result
}

// descendants walks the process tree depth-first and returns every
// descendant of p, deepest first.
func descendants(ctx context.Context, p *process.Process) []*process.Process {
	children, err := p.ChildrenWithContext(ctx)
	if err != nil {
		// No children, or the process vanished while walking.
		return nil
	}
	var out []*process.Process
	for _, c := range children {
		out = append(out, descendants(ctx, c)...)
		out = append(out, c)
	}
	return out
}

// waitForExit polls targets until they exit, the deadline passes, or ctx is
// canceled. Anything still running at the deadline is returned in alive.
func waitForExit(ctx context.Context, targets []*process.Process, timeout time.Duration) (gone, alive []*process.Process) {
	deadline := time.Now().Add(timeout)
	pending := make(map[int32]*process.Process, len(targets))
	for _, p := range targets {
		pending[p.Pid] = p
	}

	for len(pending) > 0 {
		for pid, p := range pending {
			if hasExited(ctx, p) {
				gone = append(gone, p)
				delete(pending, pid)
			}
		}
		if len(pending) == 0 || time.Now().After(deadline) {
			break
		}
		select {
		case <-time.After(exitPollInterval):
		case <-ctx.Done():
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	for _, p := range pending {
		alive = append(alive, p)
	}
	return gone, alive
}

// hasExited reports whether p is gone or a zombie. IsRunning alone is not
// enough: an exited child keeps its /proc entry until its parent reaps it,
// and gopsutil reports that entry as running. Waiting on a zombie would burn
// the whole timeout on a process that is already dead.
func hasExited(ctx context.Context, p *process.Process) bool {
	running, err := p.IsRunningWithContext(ctx)
	if err != nil || !running {
		return true
	}
	st, err := p.StatusWithContext(ctx)
	return err == nil && slices.Contains(st, process.Zombie)
}

// isGone reports whether err means the target no longer exists, which the
// termination policy treats as success.
func isGone(err error) bool {
	return errors.Is(err, process.ErrorProcessNotRunning) ||
		errors.Is(err, syscall.ESRCH) ||
		errors.Is(err, syscall.ECHILD)
}

func contains(pids []int32, pid int32) bool {
	for _, p := range pids {
		if p == pid {
			return true
		}
	}
	return false
}

// dedupe removes duplicate pids and drops killed/failed entries that were in
// fact terminated, keeping each pid in a single bucket.
func (r *TreeResult) dedupe() {
	r.Terminated = uniq(r.Terminated)
	var killed []int32
	for _, pid := range uniq(r.Killed) {
		if !contains(r.Terminated, pid) {
			killed = append(killed, pid)
		}
	}
	r.Killed = killed

	seen := make(map[int32]bool)
	var failed []Failure
	for _, f := range r.Failed {
		if contains(r.Terminated, f.PID) || contains(r.Killed, f.PID) || seen[f.PID] {
			continue
		}
		seen[f.PID] = true
		failed = append(failed, f)
	}
	r.Failed = failed
}

func uniq(pids []int32) []int32 {
	seen := make(map[int32]bool, len(pids))
	var out []int32
	for _, pid := range pids {
		if !seen[pid] {
			seen[pid] = true
			out = append(out, pid)
		}
	}
	return out
}
