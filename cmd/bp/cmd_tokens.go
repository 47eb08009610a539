package main

import (
	"errors"

	"github.com/dhamidi/blueprint/bp/parser"
	"github.com/dhamidi/blueprint/format"
	"github.com/dhamidi/blueprint/lsp"
	"github.com/spf13/cobra"
)

func newTokensCmd(a *app) *cobra.Command {
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a blueprint file",
		Long: `Print one token per line: its kind followed by its canonical spelling.

Lexing stops at the first malformed token, which is reported on stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("positions") {
				includePositions = a.cfg.Output.Positions
			}
			source, name, err := readSource(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			tw := format.NewTokenWriter(cmd.OutOrStdout())
			tw.Positions = includePositions
			err = tw.WriteAll(source, name)
			var lexErr *parser.LexError
			if errors.As(err, &lexErr) {
				newDiagPrinter(cmd.ErrOrStderr(), a.cfg.Output.Color).
					Print(name, source, lsp.Diagnose(err, nil))
				return errReported
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&includePositions, "positions", false, "prefix each token with its line and column")

	return cmd
}
