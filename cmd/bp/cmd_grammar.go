package main

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/dhamidi/blueprint/grammar"
	"github.com/dhamidi/blueprint/lsp"
	"github.com/spf13/cobra"
)

func newGrammarCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Print the EBNF grammar of blueprint source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(grammar.Source())
			return err
		},
	}

	cmd.AddCommand(newGrammarVerifyCmd())
	cmd.AddCommand(newGrammarCheckCmd(a))

	return cmd
}

func newGrammarVerifyCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "verify [file]",
		Short: "Parse and verify an EBNF grammar file",
		Long: `Parse and verify an EBNF grammar file.

Without a file the built-in blueprint grammar is verified.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := "blueprint.ebnf"
			src := grammar.Source()
			if len(args) == 1 {
				filename = args[0]
				var err error
				src, err = os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			g, err := grammar.Parse(filename, src, startProduction)
			if err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return errReported
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d productions ok\n", filename, len(g))
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", grammar.Start, "start production for verification (if empty, only checks syntax)")

	return cmd
}

func newGrammarCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [path...]",
		Short: "Check blueprint files against the EBNF grammar",
		Long: `Run the grammar's Earley recognizer over blueprint files.

This is independent of the parser used by the other commands and reports
the first token no sentence of the grammar can continue with.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			paths, err := expandPaths(args)
			if err != nil {
				return err
			}

			diags := newDiagPrinter(cmd.ErrOrStderr(), a.cfg.Output.Color)
			failed := 0
			for _, path := range paths {
				content, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
				if err := grammar.Check(content, path); err != nil {
					diags.Print(path, content, lsp.Diagnose(err, nil))
					failed++
				}
			}
			if failed > 0 {
				return errReported
			}
			return nil
		},
	}
}

// printErrors prints each error of the lists the ebnf package returns on
// its own line.
func printErrors(w io.Writer, err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(w, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(w, err)
	}
}
