package main

import (
	"fmt"

	"github.com/dhamidi/blueprint/lsp"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Report syntax errors in blueprint files",
		Long: `Parse every blueprint file below the given paths and report problems.

Directories are searched recursively for *.bp files, skipping hidden
directories. With no arguments the current directory is checked.
The exit status is non-zero when any file fails to parse.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			paths, err := expandPaths(args)
			if err != nil {
				return err
			}

			ws := lsp.NewWorkspace(".", a.cfg.ParserOptions()...)
			for _, path := range paths {
				if err := ws.ScanFile(path); err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			st := newStyles(a.cfg.Output.Color)
			diags := newDiagPrinter(cmd.ErrOrStderr(), a.cfg.Output.Color)
			failed, warnings := 0, 0
			for _, path := range ws.Paths() {
				f := ws.GetFile(path)
				d := ws.Diagnostics(path)
				diags.Print(path, f.Content, d)
				if f.ParseErr != nil {
					failed++
				}
				warnings += len(f.Warnings)
			}

			if !quiet {
				summary := fmt.Sprintf("checked %d files", len(paths))
				switch {
				case failed > 0:
					summary = st.paint(st.err, fmt.Sprintf("%s, %d with errors", summary, failed))
				case warnings > 0:
					summary = st.paint(st.warning, fmt.Sprintf("%s, %d warnings", summary, warnings))
				default:
					summary = st.paint(st.ok, summary + ", no problems")
				}
				fmt.Fprintln(cmd.OutOrStdout(), summary)
			}
			if failed > 0 {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print diagnostics")

	return cmd
}
