// Command procport is an interactive utility for inspecting and managing
// OS processes and network ports. Run with no arguments for the numbered
// menu; every menu action is also available as a subcommand for scripting.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/procport/procport/cliout"
	"github.com/procport/procport/config"
	"github.com/procport/procport/logutil"
	"github.com/procport/procport/version"
)

var versionInfo = version.New("procport")

// cfg is the effective configuration, loaded in the root PersistentPreRunE
// before any command body runs.
var cfg = config.Default()

func main() {
	root := newRootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		cliout.Error("%v", err)
		os.Exit(1)
	}
}

// withInterrupt scopes a context to Ctrl+C. Long-running views create one
// per run so an interrupt stops the view, not the whole program; the menu
// keeps going afterwards.
func withInterrupt(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

func newRootCommand() *cobra.Command {
	var (
		flagOutput  string
		flagNoColor bool
		flagDebug   bool
		flagConfig  string
	)

	root := &cobra.Command{
		Use:   "procport",
		Short: "Inspect and manage OS processes and network ports",
		Long: `procport lists processes with resource usage, classifies them into coarse
categories, terminates process trees (terminate, wait, then kill), locates
and frees processes bound to a port, and monitors threads and ports in
real time.

With no subcommand it starts the interactive menu.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logutil.Setup(flagDebug, flagDebug)
			if flagNoColor {
				cliout.NoColor()
			}
			if err := cliout.SetFormat(flagOutput); err != nil {
				return err
			}
			loaded, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	// Accept --no_color for --no-color and the like.
	pf.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	pf.StringVarP(&flagOutput, "output", "o", "default", "Output format (default, json)")
	pf.BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	pf.StringVar(&flagConfig, "config", "", "Path to config file")

	root.AddCommand(
		newPsCommand(),
		newSearchCommand(),
		newKillCommand(),
		newPortCommand(),
		newWatchCommand(),
		newListenCommand(),
		version.NewCommand(versionInfo),
	)
	return root
}

// errJSONInteractive guards interactive-only flows against JSON mode.
func errJSONInteractive() error {
	if cliout.IsJSON() {
		return fmt.Errorf("this command is interactive and does not support --output json")
	}
	return nil
}
