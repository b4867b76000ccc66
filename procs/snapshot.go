package procs

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/procport/procport/logutil"
)

// cpuWarmup is the delay between priming CPU counters and reading them.
// gopsutil's first CPUPercent call has no previous sample to diff against,
// so Snapshot primes every process, sleeps, then reads the deltas.
const cpuWarmup = 100 * time.Millisecond

// Snapshot enumerates all current processes and returns one Record per
// process that could be read. Individual attribute failures degrade to zero
// values; a process that disappears mid-enumeration is skipped. The only
// error case is failing to list processes at all.
func Snapshot(ctx context.Context) ([]Record, error) {
	return snapshot(ctx, cpuWarmup)
}

func snapshot(ctx context.Context, warmup time.Duration) ([]Record, error) {
	list, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	// Prime per-process CPU counters, then wait so the second read has a
	// meaningful interval to average over.
	for _, p := range list {
		_, _ = p.CPUPercentWithContext(ctx)
	}
	select {
	case <-time.After(warmup):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	records := make([]Record, 0, len(list))
	for _, p := range list {
		r, ok := read(ctx, p)
		if !ok {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// read collects one process's attributes best-effort. Returns ok=false only
// when the process is gone or unreadable enough that not even a name exists.
func read(ctx context.Context, p *process.Process) (Record, bool) {
	name, err := p.NameWithContext(ctx)
	if err != nil {
		logutil.Debug("skipping unreadable process", "pid", p.Pid, "error", err)
		return Record{}, false
	}
	if name == "" {
		name = "<unknown>"
	}

	r := Record{PID: p.Pid, Name: name}
	r.PPID, _ = p.PpidWithContext(ctx)
	var userErr error
	r.User, userErr = p.UsernameWithContext(ctx)
	r.Exe, _ = p.ExeWithContext(ctx)
	r.Cmdline, _ = p.CmdlineSliceWithContext(ctx)
	r.CPUPercent, _ = p.CPUPercentWithContext(ctx)
	if mem, err := p.MemoryInfoWithContext(ctx); err == nil && mem != nil {
		r.MemoryRSS = mem.RSS
	}
	r.MemoryHuman = HumanMemory(r.MemoryRSS)
	r.ThreadCount, _ = p.NumThreadsWithContext(ctx)
	r.Category = Categorize(r.PID, r.Name, r.User)
	// An owner lookup that errored (not merely empty) is distinct from a
	// kernel task with no owner.
	if userErr != nil && r.Category == CategoryBackground {
		r.Category = CategoryOther
	}
	return r, true
}

// Lookup fetches a single process by pid, or ok=false when it does not exist
// or cannot be read.
func Lookup(ctx context.Context, pid int32) (Record, bool) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return Record{}, false
	}
	return read(ctx, p)
}
