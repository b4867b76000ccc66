package main

import (
	"context"
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/procport/procport/cliout"
	"github.com/procport/procport/logutil"
)

// newListenCommand is a debug helper: a throwaway TCP listener for
// exercising the port scan, free, and watch operations against a known
// occupied port.
func newListenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen <port>",
		Short: "Run a fake TCP listener on a port (for testing port operations)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := parsePort(args[0])
			if err != nil {
				return err
			}
			ctx, stop := withInterrupt(cmd.Context())
			defer stop()
			return runListener(ctx, port)
		},
	}
	return cmd
}

func runListener(ctx context.Context, port int) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	defer listener.Close()

	cliout.Success("Listening on port %d...", port)
	cliout.Hint("Press Ctrl+C to stop")

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				cliout.Plain("\nShutting down.")
				return nil
			}
			return err
		}
		cliout.Info("Connection from %s", conn.RemoteAddr())
		if _, err := conn.Write([]byte("Fake service response\n")); err != nil {
			logutil.Debug("write to client failed", "error", err)
		}
		_ = conn.Close()
	}
}
