package monitor

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/procport/procport/cliout"
	"github.com/procport/procport/procs"
)

// ThreadMonitor is the interactive thread view: a paged table of processes
// ordered by thread count, refreshed on demand, with per-pid thread detail.
//
// Commands at the prompt:
//
//	Enter    refresh
//	<number> show threads for that PID, or for the row at that index
//	n / p    next / previous page
//	r        change the name filter
//	s        change the page size
//	q        quit back to the menu
type ThreadMonitor struct {
	Filter   string
	PageSize int

	// Input defaults to a reader over os.Stdin. The menu shares its own so
	// a read abandoned on Ctrl+C cannot swallow the next menu choice; tests
	// inject a scripted reader.
	Input *cliout.LineReader
}

// Run drives the monitor until the operator quits, input ends, or ctx is
// canceled. Cancellation interrupts a pending read immediately.
func (m *ThreadMonitor) Run(ctx context.Context) error {
	if m.PageSize <= 0 {
		m.PageSize = 20
	}
	in := m.Input
	if in == nil {
		in = cliout.NewLineReader(os.Stdin)
	}
	defer cliout.ResetTerminal()

	page := 0
	for {
		if ctx.Err() != nil {
			return nil
		}

		started := time.Now()
		records, err := procs.Snapshot(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			cliout.Error("process snapshot failed: %v", err)
			records = nil
		}
		if m.Filter != "" {
			records = procs.MatchName(records, m.Filter)
		}
		procs.SortByThreads(records)
		recordProcessSample(records, time.Since(started))

		totalPages := (len(records) + m.PageSize - 1) / m.PageSize
		if totalPages < 1 {
			totalPages = 1
		}
		if page >= totalPages {
			page = 0
		}

		cliout.ClearScreen()
		filterLabel := m.Filter
		if filterLabel == "" {
			filterLabel = "*all*"
		}
		cliout.Header(fmt.Sprintf("Thread Monitor - filter=%q (page %d/%d)", filterLabel, page+1, totalPages))
		if len(records) == 0 {
			cliout.Plain(" <no matching processes>")
		} else {
			renderThreadTable(records, m.PageSize, page)
		}
		cliout.Hint("[Enter]=refresh", "[pid]=show threads", "n=next page", "p=prev page", "r=filter", "s=page size", "q=quit")

		fmt.Print("Command: ")
		cmd, ok := in.ReadLine(ctx)
		if !ok {
			return nil
		}

		switch strings.ToLower(cmd) {
		case "":
			continue
		case "q":
			return nil
		case "n":
			page = (page + 1) % totalPages
		case "p":
			page = (page - 1 + totalPages) % totalPages
		case "r":
			fmt.Print("Enter new filter substring (empty = all): ")
			line, ok := in.ReadLine(ctx)
			if !ok {
				return nil
			}
			m.Filter = line
			page = 0
		case "s":
			fmt.Print("Enter new page size (rows): ")
			line, ok := in.ReadLine(ctx)
			if !ok {
				return nil
			}
			if size, err := strconv.Atoi(line); err == nil && size > 0 {
				m.PageSize = size
				page = 0
			} else {
				cliout.Error("Invalid page size.")
			}
		default:
			num, err := strconv.Atoi(cmd)
			if err != nil {
				cliout.Error("Unknown command.")
				continue
			}
			pid, ok := resolveTarget(records, num)
			if !ok {
				cliout.Error("No matching PID or index in list.")
				continue
			}
			cliout.ClearScreen()
			showThreads(ctx, pid)
			fmt.Print("\nPress Enter to return to monitor...")
			if _, ok := in.ReadLine(ctx); !ok {
				return nil
			}
		}
	}
}

// resolveTarget interprets a number first as a PID present in the list, then
// as a 1-based row index.
func resolveTarget(records []procs.Record, num int) (int32, bool) {
	for _, r := range records {
		if int(r.PID) == num {
			return r.PID, true
		}
	}
	if num >= 1 && num <= len(records) {
		return records[num-1].PID, true
	}
	return 0, false
}

func renderThreadTable(records []procs.Record, pageSize, page int) {
	start := page * pageSize
	end := start + pageSize
	if start > len(records) {
		return
	}
	if end > len(records) {
		end = len(records)
	}

	cliout.Plain("%3s  %6s  %7s  %6s  %9s  %s", "Idx", "PID", "Threads", "CPU%", "MEM", "Name")
	cliout.Plain("%s", strings.Repeat("-", 80))
	for i, r := range records[start:end] {
		name := r.Name
		if len(name) > 38 {
			name = name[:35] + "..."
		}
		cliout.Plain("%3d  %6d  %7d  %6.1f  %9s  %s",
			start+i+1, r.PID, r.ThreadCount, r.CPUPercent, r.MemoryHuman, name)
	}
}

// showThreads prints per-thread CPU times for one pid.
func showThreads(ctx context.Context, pid int32) {
	record, ok := procs.Lookup(ctx, pid)
	if !ok {
		cliout.Error("Process %d no longer exists.", pid)
		return
	}
	threads, err := procs.Threads(ctx, pid)
	if err != nil {
		cliout.Error("%v", err)
		return
	}

	cliout.Header(fmt.Sprintf("Threads for PID %d - %s", pid, record.Name))
	if len(threads) == 0 {
		cliout.Plain(" <no threads>")
		return
	}
	cliout.Plain("%8s  %10s  %11s", "TID", "UserTime", "SystemTime")
	cliout.Plain("%s", strings.Repeat("-", 40))
	for _, t := range threads {
		cliout.Plain("%8d  %10.4f  %11.4f", t.TID, t.UserTime, t.SystemTime)
	}
	cliout.Plain("%s", strings.Repeat("-", 40))
}
