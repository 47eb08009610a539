package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhamidi/blueprint/format"
	"github.com/dhamidi/blueprint/lsp"
	"github.com/spf13/cobra"
)

func newFmtCmd(a *app) *cobra.Command {
	var overwrite bool
	var list bool

	cmd := &cobra.Command{
		Use:   "fmt [file...]",
		Short: "Print blueprint files in canonical form",
		Long: `Pretty-print blueprint files to stdout.

Reads from stdin when no file is given.
Use -w to overwrite files in place and -l to only list files whose
formatting differs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
				if overwrite || list {
					return fmt.Errorf("-w and -l require file arguments")
				}
				source, name, err := readSource(cmd.InOrStdin(), args)
				if err != nil {
					return err
				}
				return a.formatOne(cmd, name, source, false, false)
			}

			failed := false
			for _, filename := range args {
				if ext := filepath.Ext(filename); ext != lsp.Ext {
					return fmt.Errorf("expected %s file, got %s", lsp.Ext, filename)
				}
				source, err := os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
				if err := a.formatOne(cmd, filename, source, overwrite, list); err != nil {
					if !errors.Is(err, errReported) {
						return err
					}
					failed = true
				}
			}
			if failed {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&overwrite, "write", "w", false, "overwrite files in place")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list files whose formatting differs")

	return cmd
}

func (a *app) formatOne(cmd *cobra.Command, name string, source []byte, overwrite, list bool) error {
	output, err := format.PrettyPrint(source, a.cfg.ParserOptions()...)
	if err != nil {
		newDiagPrinter(cmd.ErrOrStderr(), a.cfg.Output.Color).
			Print(name, source, lsp.Diagnose(err, nil))
		return errReported
	}

	switch {
	case list:
		if !bytes.Equal(source, output) {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	case overwrite:
		if bytes.Equal(source, output) {
			return nil
		}
		log.Infof("formatted %s", name)
		return os.WriteFile(name, output, 0644)
	}
	_, err = cmd.OutOrStdout().Write(output)
	return err
}
