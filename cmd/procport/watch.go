package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/procport/procport/monitor"
)

func newWatchCommand() *cobra.Command {
	var (
		flagFollow      bool
		flagInterval    time.Duration
		flagPageSize    int
		flagMetricsAddr string
		flagOpen        bool
	)

	cmd := &cobra.Command{
		Use:   "watch [fragment]",
		Short: "Monitor processes and threads in real time",
		Long: `Without --follow this is the interactive thread monitor: a paged table of
processes ordered by thread count, with per-PID thread detail, refresh,
paging, and filtering driven from the keyboard.

With --follow it is a simple timed redraw of all processes until
interrupted.`,
		Example: `  procport watch myserver
  procport watch --follow --interval 5s
  procport watch --metrics-addr :9090 --open`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errJSONInteractive(); err != nil {
				return err
			}
			ctx, stop := withInterrupt(cmd.Context())
			defer stop()
			fragment := ""
			if len(args) == 1 {
				fragment = args[0]
			}
			if flagMetricsAddr != "" {
				startMetrics(ctx, flagMetricsAddr, flagOpen)
			}

			if flagFollow {
				interval := flagInterval
				if interval <= 0 {
					interval = cfg.PortInterval
				}
				m := &monitor.ProcessMonitor{Interval: interval, Filter: fragment}
				return m.Run(ctx)
			}

			pageSize := flagPageSize
			if pageSize <= 0 {
				pageSize = cfg.PageSize
			}
			m := &monitor.ThreadMonitor{Filter: fragment, PageSize: pageSize}
			return m.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&flagFollow, "follow", false, "Non-interactive timed redraw of all processes")
	cmd.Flags().DurationVar(&flagInterval, "interval", 0, "Refresh interval for --follow (default from config)")
	cmd.Flags().IntVar(&flagPageSize, "page-size", 0, "Rows per page in the interactive monitor (default from config)")
	cmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().BoolVar(&flagOpen, "open", false, "Open the metrics page in the browser")
	return cmd
}
