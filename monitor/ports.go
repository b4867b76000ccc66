package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/procport/procport/cliout"
	"github.com/procport/procport/logutil"
	"github.com/procport/procport/notify"
	"github.com/procport/procport/ports"
)

// PortMonitor re-scans a port range at a fixed interval and redraws a
// colored FREE/OCCUPIED grid until canceled.
type PortMonitor struct {
	Start        int
	End          int
	Interval     time.Duration
	ProbeTimeout time.Duration
	RowWidth     int

	// Notifier, when set, gets an alert whenever a port changes state
	// between iterations.
	Notifier notify.Notifier

	previous map[int]ports.Status
}

// Run blocks until ctx is canceled. Transient scan failures are reported
// and the loop continues on the next tick.
func (m *PortMonitor) Run(ctx context.Context) error {
	if err := ports.ValidateRange(m.Start, m.End); err != nil {
		return err
	}
	if m.Interval <= 0 {
		return fmt.Errorf("invalid monitor interval %v", m.Interval)
	}
	if m.RowWidth <= 0 {
		m.RowWidth = 8
	}
	defer cliout.ResetTerminal()

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		m.iterate(ctx)
		select {
		case <-ticker.C:
		case <-ctx.Done():
			cliout.Plain("\nStopping port monitor.")
			return nil
		}
	}
}

func (m *PortMonitor) iterate(ctx context.Context) {
	started := time.Now()
	bindings, err := ports.ScanRange(ctx, m.Start, m.End, m.ProbeTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		cliout.Error("port scan failed: %v", err)
		return
	}
	recordPortSample(bindings, time.Since(started))

	cliout.ClearScreen()
	cliout.Header(fmt.Sprintf("Real-time ports %d-%d (interval %s)", m.Start, m.End, m.Interval))
	RenderPortGrid(bindings, m.RowWidth)
	cliout.Hint("Press Ctrl+C to stop monitoring")

	m.notifyChanges(ctx, bindings)
}

// notifyChanges compares against the previous iteration and fires one
// notification per state flip. The first iteration only seeds the baseline.
func (m *PortMonitor) notifyChanges(ctx context.Context, bindings []ports.Binding) {
	current := make(map[int]ports.Status, len(bindings))
	for _, b := range bindings {
		current[b.Port] = b.Status
	}
	defer func() { m.previous = current }()

	if m.Notifier == nil || m.previous == nil {
		return
	}
	for _, b := range bindings {
		prev, seen := m.previous[b.Port]
		if !seen || prev == b.Status {
			continue
		}
		n := notify.Notification{
			Title:     fmt.Sprintf("Port %d is now %s", b.Port, b.Status),
			Message:   fmt.Sprintf("Port %d changed from %s to %s", b.Port, prev, b.Status),
			Severity:  notify.SeverityWarning,
			Timestamp: time.Now(),
		}
		if err := m.Notifier.Send(ctx, n); err != nil {
			logutil.Debug("notification failed", "port", b.Port, "error", err)
		}
	}
}

// RenderPortGrid prints bindings as a colored grid, rowWidth ports per line.
func RenderPortGrid(bindings []ports.Binding, rowWidth int) {
	if rowWidth <= 0 {
		rowWidth = 8
	}
	for i, b := range bindings {
		cell := fmt.Sprintf("%5d:%s", b.Port, b.Status)
		fmt.Printf("%s   ", cliout.Status(cell, string(b.Status)))
		if (i+1)%rowWidth == 0 {
			fmt.Println()
		}
	}
	if len(bindings)%rowWidth != 0 {
		fmt.Println()
	}
}
