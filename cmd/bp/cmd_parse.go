package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dhamidi/blueprint/bp/ast"
	"github.com/dhamidi/blueprint/bp/parser"
	"github.com/dhamidi/blueprint/format"
	"github.com/dhamidi/blueprint/lsp"
	"github.com/spf13/cobra"
)

func newParseCmd(a *app) *cobra.Command {
	var outputFormat string
	var includePositions bool
	var policy string
	var trace bool
	var expr bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a blueprint file and dump its syntax tree",
		Long: `Parse a blueprint file and dump the resulting syntax tree.

Reads from stdin when no file is given or the file is "-".
With --expr the input is parsed as a single expression instead of a program.

Output formats: ` + strings.Join(format.Formats, ", ") + `

Examples:
  bp parse app.bp
  bp parse -f json --positions app.bp
  echo '1 + 2 * 3' | bp parse --expr`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				outputFormat = a.cfg.Output.Format
			}
			if !cmd.Flags().Changed("positions") {
				includePositions = a.cfg.Output.Positions
			}
			opts := a.cfg.ParserOptions()
			if cmd.Flags().Changed("policy") {
				p, err := parser.ParsePolicy(policy)
				if err != nil {
					return err
				}
				opts = append(opts, parser.WithPolicy(p))
			}
			if trace {
				opts = append(opts, parser.WithTrace())
			}

			source, name, err := readSource(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			opts = append([]parser.Option{parser.WithFile(name)}, opts...)

			p := parser.New(source, opts...)
			var node ast.Node
			if expr {
				var e ast.Expr
				e, err = p.ParseExpr()
				node = e
			} else {
				var prog *ast.Program
				prog, err = p.ParseProgram()
				node = prog
			}

			diags := newDiagPrinter(cmd.ErrOrStderr(), a.cfg.Output.Color)
			diags.Print(name, source, lsp.Diagnose(err, p.Warnings()))
			if err != nil {
				log.Debugf("parse %s: %s", name, err)
				return errReported
			}

			var buf bytes.Buffer
			enc, err := format.NewEncoder(outputFormat, &buf, includePositions)
			if err != nil {
				return err
			}
			if err := enc.Encode(node); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", format.FormatTree, "output format ("+strings.Join(format.Formats, ", ")+")")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include source positions in the output")
	cmd.Flags().StringVar(&policy, "policy", "strict", "error policy for stray top-level tokens (strict, lenient)")
	cmd.Flags().BoolVar(&trace, "trace", false, "log every consumed token at debug level")
	cmd.Flags().BoolVarP(&expr, "expr", "e", false, "parse the input as a single expression")

	return cmd
}
