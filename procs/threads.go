package procs

import (
	"context"
	"fmt"
	"sort"

	"github.com/shirou/gopsutil/v4/process"
)

// ThreadInfo is one thread's CPU time accounting.
type ThreadInfo struct {
	TID        int32   `json:"tid"`
	UserTime   float64 `json:"userTime"`
	SystemTime float64 `json:"systemTime"`
}

// Threads returns per-thread CPU times for a pid, ordered by thread id.
// A missing process or denied access is reported as an error; the thread
// monitor shows it and carries on.
func Threads(ctx context.Context, pid int32) ([]ThreadInfo, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("process %d no longer exists", pid)
	}
	stats, err := p.ThreadsWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot retrieve threads for pid %d: %w", pid, err)
	}
	out := make([]ThreadInfo, 0, len(stats))
	for tid, t := range stats {
		info := ThreadInfo{TID: tid}
		if t != nil {
			info.UserTime = t.User
			info.SystemTime = t.System
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TID < out[j].TID })
	return out, nil
}
