package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dhamidi/blueprint/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("bp.cli")

// errReported is returned by commands that already printed their
// diagnostics; main only sets the exit status for it.
var errReported = errors.New("errors reported")

// app carries the settings every subcommand reads. It is filled in before
// any subcommand runs.
type app struct {
	configPath string
	verbose    int
	noColor    bool

	cfg *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "bp:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}

	rootCmd := &cobra.Command{
		Use:     "bp",
		Short:   "Parse, inspect and format blueprint source files",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "",
		fmt.Sprintf("config file (default: first of %v in the working directory, or $%s)", config.FileNames, config.EnvVar))
	rootCmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "log more; repeat for debug output")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored diagnostics")

	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newTokensCmd(a))
	rootCmd.AddCommand(newFmtCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newGrammarCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))

	return rootCmd
}

func (a *app) setup() error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.Load(a.configPath)
	} else {
		a.cfg, err = config.Discover(".")
	}
	if err != nil {
		return err
	}
	if a.noColor {
		a.cfg.Output.Color = false
	}

	verbosity := max(a.verbose, a.cfg.Log.Verbosity)
	var logFile *string
	if a.cfg.Log.File != "" {
		logFile = &a.cfg.Log.File
	}
	commonlog.Configure(verbosity, logFile)

	if path := a.cfg.Path(); path != "" {
		log.Debugf("loaded config from %s", path)
	}
	return nil
}
