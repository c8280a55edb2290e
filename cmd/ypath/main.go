// Command ypath compiles and evaluates YAML path expressions against a
// YAML document from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-yamlpath/yamlpath"
	"github.com/go-yamlpath/yamlpath/internal/diag"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var debug bool

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ypath",
		Short: "Compile and evaluate YAML path expressions",
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "dump the compiled expression tree to stderr")
	root.AddCommand(checkCmd(), evalCmd())
	return root
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path-expression>",
		Short: "Compile a path expression and report syntax errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			expr, err := yamlpath.Compile(args[0], yamlpath.WithDiagnostics(diag.NewZapSink(logger)))
			if err != nil {
				return err
			}
			if debug {
				spew.Fdump(os.Stderr, expr)
			}
			fmt.Println(expr.String())
			return nil
		},
	}
}

func evalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <path-expression> <file.yaml>",
		Short: "Evaluate a path expression against a YAML document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := yamlpath.Compile(args[0])
			if err != nil {
				return err
			}
			if debug {
				spew.Fdump(os.Stderr, expr)
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			var root yaml.Node
			if err := yaml.Unmarshal(data, &root); err != nil {
				return fmt.Errorf("parsing %s: %w", args[1], err)
			}

			doc := yamlpath.NewDocument(&root)
			results, err := yamlpath.Eval(expr, doc, doc.Root())
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			for _, n := range results.Nodes() {
				if err := enc.Encode(n); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
