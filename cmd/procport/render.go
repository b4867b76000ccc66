package main

import (
	"github.com/procport/procport/cliout"
	"github.com/procport/procport/fileutil"
	"github.com/procport/procport/procs"
)

// printRecords renders the standard one-line-per-process listing.
func printRecords(records []procs.Record) {
	if len(records) == 0 {
		cliout.Plain(" <none>")
		return
	}
	for _, r := range records {
		name := r.Name
		if len(name) > 30 {
			name = name[:30]
		}
		user := r.User
		if len(user) > 20 {
			user = user[:20]
		}
		cliout.Plain(" PID:%6d  CPU:%5.1f%%  MEM:%9s  Name:%-30s  User:%-20s  Threads:%d",
			r.PID, r.CPUPercent, r.MemoryHuman, name, user, r.ThreadCount)
	}
}

// printTreeResult renders a termination summary.
func printTreeResult(result procs.TreeResult) {
	if len(result.Terminated) > 0 {
		cliout.Success("Gracefully terminated: %v", result.Terminated)
	}
	if len(result.Killed) > 0 {
		cliout.Success("Forcibly killed: %v", result.Killed)
	}
	for _, f := range result.Failed {
		cliout.Error("Failed PID %d: %s", f.PID, f.Error)
	}
	if len(result.Terminated) == 0 && len(result.Killed) == 0 && len(result.Failed) == 0 {
		cliout.Success("Nothing to terminate (already gone)")
	}
}

// saveResult writes data into the configured results directory and reports
// the path. Used by the --save flag and the menu's save prompt.
func saveResult(label string, data interface{}) {
	path, err := fileutil.SaveResult(cfg.ResultsDir, label, data)
	if err != nil {
		cliout.Error("Failed to save: %v", err)
		return
	}
	cliout.Success("Saved results to: %s", path)
}
