package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/procport/procport/cliout"
	"github.com/procport/procport/procs"
)

// ProcessMonitor is the non-interactive follow view: a timed full redraw of
// every process with basic CPU/memory numbers.
type ProcessMonitor struct {
	Interval time.Duration
	Filter   string
}

// Run blocks until ctx is canceled.
func (m *ProcessMonitor) Run(ctx context.Context) error {
	if m.Interval <= 0 {
		return fmt.Errorf("invalid monitor interval %v", m.Interval)
	}
	defer cliout.ResetTerminal()

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		m.iterate(ctx)
		select {
		case <-ticker.C:
		case <-ctx.Done():
			cliout.Plain("\nStopping process monitor.")
			return nil
		}
	}
}

func (m *ProcessMonitor) iterate(ctx context.Context) {
	started := time.Now()
	records, err := procs.Snapshot(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		cliout.Error("process snapshot failed: %v", err)
		return
	}
	if m.Filter != "" {
		records = procs.MatchName(records, m.Filter)
	}
	procs.SortByCPU(records)
	recordProcessSample(records, time.Since(started))

	cliout.ClearScreen()
	cliout.Header(fmt.Sprintf("All Processes (interval %s)", m.Interval))
	for _, r := range records {
		name := r.Name
		if len(name) > 25 {
			name = name[:25]
		}
		cliout.Plain("PID:%6d  Name:%-25s  CPU:%5.1f%%  MEM:%9s  Threads:%d",
			r.PID, name, r.CPUPercent, r.MemoryHuman, r.ThreadCount)
	}
	cliout.Hint("Press Ctrl+C to stop monitoring")
}
