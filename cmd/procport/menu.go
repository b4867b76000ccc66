package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/procport/procport/cliout"
	"github.com/procport/procport/monitor"
	"github.com/procport/procport/ports"
	"github.com/procport/procport/privutil"
	"github.com/procport/procport/procs"
)

// runMenu is the default interactive mode: the numbered main menu that ties
// every operation together. It loops until the operator picks Exit or stdin
// ends. A single LineReader owns stdin for the whole session, so a monitor
// read abandoned on Ctrl+C cannot swallow the next menu choice.
func runMenu(ctx context.Context) error {
	if err := errJSONInteractive(); err != nil {
		return err
	}
	checkElevation()

	in := cliout.NewLineReader(os.Stdin)
	for {
		cliout.ClearScreen()
		cliout.Header("ProcPort Manager - Main Menu")
		cliout.Plain("1) Show processes")
		cliout.Plain("2) Search processes by name")
		cliout.Plain("3) Kill process by PID")
		cliout.Plain("4) Kill processes by name")
		cliout.Plain("5) Show Top processes (CPU / Memory)")
		cliout.Plain("6) Free a port")
		cliout.Plain("7) Show free/occupied ports in a range")
		cliout.Plain("8) Real-time ports monitor")
		cliout.Plain("9) Monitor threads by process name")
		cliout.Plain("0) Exit")

		choice, ok := prompt(ctx, in, "Enter your choice: ")
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			menuShowProcesses(ctx, in)
		case "2":
			menuSearch(ctx, in)
		case "3":
			menuKillByPID(ctx, in)
		case "4":
			menuKillByName(ctx, in)
		case "5":
			menuTop(ctx, in)
		case "6":
			menuFreePort(ctx, in)
		case "7":
			menuScanRange(ctx, in)
		case "8":
			menuPortMonitor(ctx, in)
		case "9":
			menuThreadMonitor(ctx, in)
		case "0":
			cliout.Plain("Goodbye.")
			return nil
		default:
			cliout.Plain("Invalid choice. Try again.")
			pause(ctx, in)
		}
	}
}

// checkElevation warns when running unelevated and, on Windows, offers a UAC
// relaunch. Everything still works without elevation, with more
// permission-denied results.
func checkElevation() {
	if privutil.IsElevated() {
		return
	}
	if runtime.GOOS != "windows" {
		return
	}
	cliout.Warning("Admin privileges recommended for some operations. Attempting to relaunch with admin...")
	relaunched, err := privutil.RelaunchElevated()
	if err == nil && relaunched {
		cliout.Plain("Relaunch requested. Exiting current instance.")
		os.Exit(0)
	}
	cliout.Warning("Continuing without admin privileges (some operations may fail).")
}

func menuShowProcesses(ctx context.Context, in *cliout.LineReader) {
	records, err := procs.Snapshot(ctx)
	if err != nil {
		cliout.Error("%v", err)
		pause(ctx, in)
		return
	}

	cliout.Header("Thread types")
	cats := procs.Categories()
	for i, cat := range cats {
		cliout.Plain(" %d) %s", i+1, cat)
	}
	cliout.Plain(" 0) All")
	sel, ok := prompt(ctx, in, fmt.Sprintf("Select thread type (0-%d): ", len(cats)))
	if !ok {
		return
	}

	var filtered []procs.Record
	if sel == "0" {
		printGrouped(records)
		filtered = records
	} else if idx, err := strconv.Atoi(sel); err == nil && idx >= 1 && idx <= len(cats) {
		cat := cats[idx-1]
		cliout.Header(fmt.Sprintf("Category: %s", cat))
		filtered = procs.FilterCategory(records, cat)
		printRecords(filtered)
	} else {
		cliout.Plain("Invalid selection.")
	}
	offerSave(ctx, in, filtered, "process_list")
}

func menuSearch(ctx context.Context, in *cliout.LineReader) {
	term, ok := prompt(ctx, in, "Enter process name or fragment: ")
	if !ok || term == "" {
		return
	}
	records, err := procs.Snapshot(ctx)
	if err != nil {
		cliout.Error("%v", err)
		pause(ctx, in)
		return
	}
	matched := procs.Search(records, term)
	cliout.Header(fmt.Sprintf("Search results for %q", term))
	printRecords(matched)
	offerSave(ctx, in, matched, "search_"+term)
}

func menuKillByPID(ctx context.Context, in *cliout.LineReader) {
	s, ok := prompt(ctx, in, "Enter PID to kill: ")
	if !ok {
		return
	}
	pid, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		cliout.Error("Invalid PID.")
		pause(ctx, in)
		return
	}
	record, found := procs.Lookup(ctx, int32(pid))
	if !found {
		cliout.Error("Process not found or inaccessible.")
		pause(ctx, in)
		return
	}
	cliout.Plain("Found: PID=%d Name=%s Cmdline=%s", record.PID, record.Name, strings.Join(record.Cmdline, " "))
	if !in.Confirm(ctx, fmt.Sprintf("Kill PID %d and all child processes?", pid)) {
		cliout.Plain("Cancelled.")
		pause(ctx, in)
		return
	}
	printTreeResult(procs.TerminateTree(ctx, record.PID, cfg.KillTimeout, cfg.KillGrace))
	pause(ctx, in)
}

func menuKillByName(ctx context.Context, in *cliout.LineReader) {
	frag, ok := prompt(ctx, in, "Enter process name fragment to kill: ")
	if !ok || frag == "" {
		return
	}
	records, err := procs.Snapshot(ctx)
	if err != nil {
		cliout.Error("%v", err)
		pause(ctx, in)
		return
	}
	targets := procs.MatchName(records, frag)
	if len(targets) == 0 {
		cliout.Plain("No matching processes.")
		pause(ctx, in)
		return
	}
	cliout.Header("Processes to be killed (with their children)")
	for _, t := range targets {
		cliout.Plain(" PID:%6d  Name:%s", t.PID, t.Name)
	}
	if !in.Confirm(ctx, fmt.Sprintf("Kill %d processes and their children?", len(targets))) {
		cliout.Plain("Cancelled.")
		pause(ctx, in)
		return
	}
	for _, t := range targets {
		cliout.Header(fmt.Sprintf("Terminating tree for PID %d", t.PID))
		printTreeResult(procs.TerminateTree(ctx, t.PID, cfg.KillTimeout, cfg.KillGrace))
	}
	pause(ctx, in)
}

func menuTop(ctx context.Context, in *cliout.LineReader) {
	sortChoice, ok := prompt(ctx, in, "Sort by (1) CPU or (2) Memory? [1/2]: ")
	if !ok {
		return
	}
	nStr, ok := prompt(ctx, in, "How many results (default 5): ")
	if !ok {
		return
	}
	n, err := strconv.Atoi(nStr)
	if err != nil || n <= 0 {
		n = 5
	}

	records, err := procs.Snapshot(ctx)
	if err != nil {
		cliout.Error("%v", err)
		pause(ctx, in)
		return
	}
	if sortChoice == "2" {
		procs.SortByMemory(records)
		cliout.Header(fmt.Sprintf("Top %d by Memory", n))
	} else {
		procs.SortByCPU(records)
		cliout.Header(fmt.Sprintf("Top %d by CPU", n))
	}
	out := procs.Top(records, n)
	printRecords(out)
	offerSave(ctx, in, out, "top_processes")
}

func menuFreePort(ctx context.Context, in *cliout.LineReader) {
	s, ok := prompt(ctx, in, "Enter port to free: ")
	if !ok || s == "" {
		cliout.Plain("No port provided.")
		pause(ctx, in)
		return
	}
	port, err := parsePort(s)
	if err != nil {
		cliout.Error("Invalid port.")
		pause(ctx, in)
		return
	}

	owners, err := ports.Owners(ctx, port)
	if err != nil {
		if errors.Is(err, ports.ErrPermissionDenied) {
			cliout.Warning("Resolving port owners requires elevated privileges on this platform.")
		}
		cliout.Error("%v", err)
		pause(ctx, in)
		return
	}
	if len(owners) == 0 {
		cliout.Success("Port %d is FREE", port)
		pause(ctx, in)
		return
	}

	cliout.Header(fmt.Sprintf("Processes using port %d", port))
	for _, o := range owners {
		exe := o.Exe
		if exe == "" {
			exe = "-"
		}
		cliout.Plain(" PID:%6d  Name:%-30s  User:%-20s  Exe:%s", o.PID, o.Name, o.User, exe)
	}
	if !in.Confirm(ctx, "Terminate these processes and their children to free the port?") {
		cliout.Plain("Cancelled.")
		pause(ctx, in)
		return
	}

	result, err := freePort(ctx, port, cfg.KillTimeout)
	if err != nil {
		cliout.Error("%v", err)
		pause(ctx, in)
		return
	}
	offerSave(ctx, in, result, fmt.Sprintf("port_%d_processes", port))
}

func menuScanRange(ctx context.Context, in *cliout.LineReader) {
	start, end, ok := promptPortRange(ctx, in)
	if !ok {
		return
	}
	bindings, err := ports.ScanRange(ctx, start, end, cfg.ProbeTimeout)
	if err != nil {
		cliout.Error("%v", err)
		pause(ctx, in)
		return
	}
	cliout.Header(fmt.Sprintf("Ports %d..%d", start, end))
	monitor.RenderPortGrid(bindings, cfg.ScanRowWidth)
	offerSave(ctx, in, bindings, fmt.Sprintf("ports_%d_%d", start, end))
}

func menuPortMonitor(ctx context.Context, in *cliout.LineReader) {
	start, end, ok := promptPortRange(ctx, in)
	if !ok {
		return
	}
	interval := cfg.PortInterval
	if s, ok := prompt(ctx, in, fmt.Sprintf("Interval (default %s): ", interval)); ok && s != "" {
		if d, err := parseDurationOrSeconds(s); err == nil {
			interval = d
		}
	}

	monCtx, stop := withInterrupt(ctx)
	defer stop()
	m := &monitor.PortMonitor{
		Start:        start,
		End:          end,
		Interval:     interval,
		ProbeTimeout: cfg.ProbeTimeout,
		RowWidth:     cfg.ScanRowWidth,
	}
	if err := m.Run(monCtx); err != nil {
		cliout.Error("%v", err)
		pause(ctx, in)
	}
}

func menuThreadMonitor(ctx context.Context, in *cliout.LineReader) {
	name, ok := prompt(ctx, in, "Process name substring to monitor (empty = all): ")
	if !ok {
		return
	}
	monCtx, stop := withInterrupt(ctx)
	defer stop()
	m := &monitor.ThreadMonitor{Filter: name, PageSize: cfg.PageSize, Input: in}
	if err := m.Run(monCtx); err != nil {
		cliout.Error("%v", err)
		pause(ctx, in)
	}
}

// offerSave is the original save-or-return prompt shown after result
// listings.
func offerSave(ctx context.Context, in *cliout.LineReader, data interface{}, defaultLabel string) {
	for {
		cliout.Plain("\nOptions:")
		cliout.Plain(" 1) Save results to file")
		cliout.Plain(" 2) Return to main menu")
		choice, ok := prompt(ctx, in, "Choose an option (1-2): ")
		if !ok || choice == "2" {
			return
		}
		if choice == "1" {
			label, ok := prompt(ctx, in, fmt.Sprintf("Enter filename without extension [%s]: ", defaultLabel))
			if !ok {
				return
			}
			if label == "" {
				label = defaultLabel
			}
			saveResult(label, data)
			pause(ctx, in)
			return
		}
		cliout.Plain("Invalid selection. Enter 1 or 2.")
	}
}

// prompt reads one line; ok is false when stdin is closed or ctx canceled.
func prompt(ctx context.Context, in *cliout.LineReader, label string) (string, bool) {
	fmt.Print(label)
	return in.ReadLine(ctx)
}

func pause(ctx context.Context, in *cliout.LineReader) {
	fmt.Print("Enter to continue ...")
	_, _ = in.ReadLine(ctx)
}

func promptPortRange(ctx context.Context, in *cliout.LineReader) (int, int, bool) {
	startStr, ok := prompt(ctx, in, "Start port: ")
	if !ok {
		return 0, 0, false
	}
	endStr, ok := prompt(ctx, in, "End port: ")
	if !ok {
		return 0, 0, false
	}
	start, end, err := parsePortRange(startStr, endStr)
	if err != nil {
		cliout.Error("%v", err)
		pause(ctx, in)
		return 0, 0, false
	}
	return start, end, true
}

// parseDurationOrSeconds accepts "5s" or a bare "5" meaning seconds.
func parseDurationOrSeconds(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || secs <= 0 {
		return 0, fmt.Errorf("invalid interval %q", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
