package ports

import (
	"context"
	"time"

	"github.com/procport/procport/logutil"
	"github.com/procport/procport/procs"
)

// settleDelay gives the OS a moment to reap sockets before the post-kill
// re-check; without it the check races the TIME_WAIT transition.
const settleDelay = 300 * time.Millisecond

// FreeResult reports a port-freeing attempt.
type FreeResult struct {
	Port        int              `json:"port"`
	AlreadyFree bool             `json:"alreadyFree"`
	Owners      []Owner          `json:"owners,omitempty"`
	Summary     procs.TreeResult `json:"summary"`
	Freed       bool             `json:"freed"`
}

// TreeReporter observes each owner's termination result as Free works
// through the owner list. The CLI uses it for per-tree progress output.
type TreeReporter func(owner Owner, result procs.TreeResult)

// Free terminates the process trees of every process bound to the port,
// then re-checks the port. A port with no owners is reported as already
// free with no side effects. Partial failures (one owner un-killable) do
// not stop the remaining owners from being processed. report may be nil.
func Free(ctx context.Context, port int, killTimeout, killGrace time.Duration, report TreeReporter) (FreeResult, error) {
	result := FreeResult{Port: port}

	owners, err := Owners(ctx, port)
	if err != nil {
		return result, err
	}
	if len(owners) == 0 {
		result.AlreadyFree = true
		result.Freed = true
		return result, nil
	}
	result.Owners = owners

	for _, owner := range owners {
		logutil.Debug("terminating port owner tree", "port", port, "pid", owner.PID)
		tree := procs.TerminateTree(ctx, owner.PID, killTimeout, killGrace)
		if report != nil {
			report(owner, tree)
		}
		result.Summary.Merge(tree)
	}

	select {
	case <-time.After(settleDelay):
	case <-ctx.Done():
		return result, ctx.Err()
	}

	remaining, err := Owners(ctx, port)
	if err != nil {
		// Termination happened; only the re-check failed.
		logutil.Warn("could not re-check port after freeing", "port", port, "error", err)
		return result, nil
	}
	result.Freed = len(remaining) == 0
	return result, nil
}
