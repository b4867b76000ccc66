package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/procport/procport/browser"
	"github.com/procport/procport/cliout"
	"github.com/procport/procport/monitor"
	"github.com/procport/procport/notify"
	"github.com/procport/procport/ports"
	"github.com/procport/procport/procs"
)

func newPortCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "port",
		Short: "Inspect, scan, and free network ports",
	}
	cmd.AddCommand(newPortFreeCommand(), newPortScanCommand(), newPortWatchCommand())
	return cmd
}

func newPortFreeCommand() *cobra.Command {
	var (
		flagTimeout time.Duration
		flagYes     bool
		flagSave    string
	)

	cmd := &cobra.Command{
		Use:   "free <port>",
		Short: "Free a port by terminating the process trees bound to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := parsePort(args[0])
			if err != nil {
				return err
			}
			timeout := flagTimeout
			if timeout <= 0 {
				timeout = cfg.KillTimeout
			}
			ctx := cmd.Context()

			owners, err := ports.Owners(ctx, port)
			if err != nil {
				if errors.Is(err, ports.ErrPermissionDenied) {
					cliout.Warning("Resolving port owners requires elevated privileges on this platform.")
				}
				return err
			}
			if len(owners) == 0 {
				result := ports.FreeResult{Port: port, AlreadyFree: true, Freed: true}
				return cliout.Print(result, func() {
					cliout.Success("Port %d is FREE", port)
				})
			}

			cliout.Header(fmt.Sprintf("Processes using port %d", port))
			for _, o := range owners {
				exe := o.Exe
				if exe == "" {
					exe = "-"
				}
				cliout.Plain(" PID:%6d  Name:%-30s  User:%-20s  Exe:%s", o.PID, o.Name, o.User, exe)
			}
			if !flagYes && !cliout.Confirm("Terminate these processes and their children to free the port?") {
				cliout.Plain("Cancelled.")
				return nil
			}

			result, err := freePort(ctx, port, timeout)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("save") {
				saveResult(saveLabel(flagSave, fmt.Sprintf("port_%d_processes", port)), result)
			}
			if cliout.IsJSON() {
				return cliout.PrintJSON(result)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Wait this long before escalating to kill (default from config)")
	cmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().StringVar(&flagSave, "save", "", "Save the result to the results directory under this label")
	cmd.Flags().Lookup("save").NoOptDefVal = "port_free"
	return cmd
}

// freePort runs ports.Free with per-tree progress output. The caller already
// resolved and listed the owners for its confirmation prompt; Free resolves
// them again itself, which also catches owners that exited in between.
func freePort(ctx context.Context, port int, timeout time.Duration) (ports.FreeResult, error) {
	result, err := ports.Free(ctx, port, timeout, cfg.KillGrace, func(owner ports.Owner, tree procs.TreeResult) {
		cliout.Header(fmt.Sprintf("Terminating tree for PID %d", owner.PID))
		printTreeResult(tree)
	})
	if err != nil {
		return result, err
	}
	if result.Freed {
		cliout.Success("Port %d is now FREE", port)
	} else {
		cliout.Warning("Port %d still appears in use. Manual inspection recommended.", port)
	}
	return result, nil
}

func newPortScanCommand() *cobra.Command {
	var flagSave string

	cmd := &cobra.Command{
		Use:   "scan <start> <end>",
		Short: "Show free/occupied ports in a range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := parsePortRange(args[0], args[1])
			if err != nil {
				return err
			}
			bindings, err := ports.ScanRange(cmd.Context(), start, end, cfg.ProbeTimeout)
			if err != nil {
				return err
			}

			if err := cliout.Print(bindings, func() {
				cliout.Header(fmt.Sprintf("Ports %d..%d", start, end))
				monitor.RenderPortGrid(bindings, cfg.ScanRowWidth)
			}); err != nil {
				return err
			}

			if cmd.Flags().Changed("save") {
				saveResult(saveLabel(flagSave, fmt.Sprintf("ports_%d_%d", start, end)), bindings)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagSave, "save", "", "Save results to the results directory under this label")
	cmd.Flags().Lookup("save").NoOptDefVal = "ports"
	return cmd
}

func newPortWatchCommand() *cobra.Command {
	var (
		flagInterval    time.Duration
		flagNotify      bool
		flagMetricsAddr string
		flagOpen        bool
	)

	cmd := &cobra.Command{
		Use:   "watch <start> <end>",
		Short: "Monitor a port range in real time",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errJSONInteractive(); err != nil {
				return err
			}
			start, end, err := parsePortRange(args[0], args[1])
			if err != nil {
				return err
			}
			interval := flagInterval
			if interval <= 0 {
				interval = cfg.PortInterval
			}
			ctx, stop := withInterrupt(cmd.Context())
			defer stop()

			m := &monitor.PortMonitor{
				Start:        start,
				End:          end,
				Interval:     interval,
				ProbeTimeout: cfg.ProbeTimeout,
				RowWidth:     cfg.ScanRowWidth,
			}
			if flagNotify {
				notifier, err := notify.New(notify.DefaultConfig())
				if err != nil {
					cliout.Warning("Desktop notifications unavailable: %v", err)
				} else {
					defer notifier.Close()
					m.Notifier = notifier
				}
			}
			if flagMetricsAddr != "" {
				startMetrics(ctx, flagMetricsAddr, flagOpen)
			}

			return m.Run(ctx)
		},
	}

	cmd.Flags().DurationVar(&flagInterval, "interval", 0, "Refresh interval (default from config)")
	cmd.Flags().BoolVar(&flagNotify, "notify", false, "Send a desktop notification when a port changes state")
	cmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().BoolVar(&flagOpen, "open", false, "Open the metrics page in the browser")
	return cmd
}

// startMetrics starts the metrics endpoint and optionally opens it.
func startMetrics(ctx context.Context, addr string, open bool) {
	url, err := monitor.ServeMetrics(ctx, addr)
	if err != nil {
		cliout.Warning("Metrics server failed to start: %v", err)
		return
	}
	cliout.Info("Serving metrics at %s", url)
	if open {
		if err := browser.Open(url); err != nil {
			cliout.Warning("%v", err)
		}
	}
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil || port < ports.MinPort || port > ports.MaxPort {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return port, nil
}

func parsePortRange(startArg, endArg string) (int, int, error) {
	start, err := strconv.Atoi(startArg)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start port %q", startArg)
	}
	end, err := strconv.Atoi(endArg)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end port %q", endArg)
	}
	if err := ports.ValidateRange(start, end); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
