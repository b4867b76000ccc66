package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/procport/procport/cliout"
	"github.com/procport/procport/procs"
)

func newKillCommand() *cobra.Command {
	var (
		flagName    string
		flagTimeout time.Duration
		flagForce   bool
		flagYes     bool
	)

	cmd := &cobra.Command{
		Use:   "kill [pid]...",
		Short: "Terminate process trees by PID or name fragment",
		Long: `Terminates each target process and all of its descendants: a graceful
terminate first, a bounded wait, then a forceful kill for anything still
alive. A PID that is already gone counts as success.`,
		Example: `  procport kill 1234
  procport kill 1234 5678 --yes
  procport kill --name myserver`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && flagName == "" {
				return fmt.Errorf("provide at least one pid or --name")
			}
			timeout := flagTimeout
			if timeout <= 0 {
				timeout = cfg.KillTimeout
			}
			ctx := cmd.Context()

			var targets []procs.Record
			for _, arg := range args {
				pid, err := strconv.ParseInt(arg, 10, 32)
				if err != nil {
					return fmt.Errorf("invalid pid %q", arg)
				}
				record, ok := procs.Lookup(ctx, int32(pid))
				if !ok {
					cliout.Success("PID %d not found (already gone)", pid)
					continue
				}
				targets = append(targets, record)
			}

			if flagName != "" {
				records, err := procs.Snapshot(ctx)
				if err != nil {
					return err
				}
				matched := procs.MatchName(records, flagName)
				if len(matched) == 0 {
					cliout.Plain("No processes matching %q.", flagName)
				}
				targets = append(targets, matched...)
			}

			if len(targets) == 0 {
				return nil
			}

			cliout.Header("Processes to be killed (with their children)")
			for _, t := range targets {
				cliout.Plain(" PID:%6d  Name:%s  Cmdline:%s", t.PID, t.Name, strings.Join(t.Cmdline, " "))
			}
			if !flagYes && !cliout.Confirm(fmt.Sprintf("Kill %d process tree(s)?", len(targets))) {
				cliout.Plain("Cancelled.")
				return nil
			}

			var summary procs.TreeResult
			for _, t := range targets {
				cliout.Header(fmt.Sprintf("Terminating tree for PID %d", t.PID))
				var result procs.TreeResult
				if flagForce {
					result = procs.KillTree(ctx, t.PID, cfg.KillGrace)
				} else {
					result = procs.TerminateTree(ctx, t.PID, timeout, cfg.KillGrace)
				}
				printTreeResult(result)
				summary.Merge(result)
			}
			if cliout.IsJSON() {
				return cliout.PrintJSON(summary)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagName, "name", "", "Kill all processes whose name contains this fragment")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Wait this long before escalating to kill (default from config)")
	cmd.Flags().BoolVar(&flagForce, "force", false, "Skip the graceful terminate and kill immediately")
	cmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
