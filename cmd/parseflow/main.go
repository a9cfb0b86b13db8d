package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opal-lang/parseflow"
	"github.com/opal-lang/parseflow/ast"
	"github.com/opal-lang/parseflow/diag"
	"github.com/opal-lang/parseflow/interp"
	"github.com/opal-lang/parseflow/internal/repl"
)

func main() {
	var (
		file    string
		debug   bool
		noColor bool
		dumpIR  string
	)

	rootCmd := &cobra.Command{
		Use:           "parseflow",
		Short:         "Run or explore ParseFlow scripts",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				os.Setenv("PARSEFLOW_DEBUG", "1")
			}
			useColor := ShouldUseColor(noColor)

			if file == "" {
				repl.Run(os.Stdin, os.Stdout)
				return nil
			}
			return runFile(file, dumpIR, useColor)
		},
	}

	rootCmd.Flags().StringVarP(&file, "file", "f", "", "Path to a ParseFlow script; omit to start the REPL")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored error output")
	rootCmd.Flags().StringVar(&dumpIR, "dump-ir", "", "Write a CBOR-encoded, fingerprinted AST dump to this path")

	if err := rootCmd.Execute(); err != nil {
		FormatError(os.Stderr, err, ShouldUseColor(noColor))
		os.Exit(1)
	}
}

// runFile parses path, optionally dumps its intermediate code, then
// evaluates it, rendering any error to stderr.
func runFile(path, dumpIR string, useColor bool) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	root, parseErr := parseflow.Parse(path, string(source))
	if parseErr != nil {
		FormatError(os.Stderr, parseErr, useColor)
		return fmt.Errorf("failed to parse %s", path)
	}

	if dumpIR != "" {
		if err := writeDump(dumpIR, path, root); err != nil {
			return err
		}
	}

	ctx := interp.NewRootContext(interp.NewGlobals())
	result := interp.New().Eval(root, ctx)
	if result.Err != nil {
		FormatError(os.Stderr, result.Err, useColor)
		return fmt.Errorf("failed to run %s", path)
	}
	return nil
}

// writeDump opens (or creates) path and writes a diagnostic AST dump to
// it via diag.CBORWriter, the one production Writer per SPEC_FULL.md §6.
func writeDump(path, fileLabel string, root ast.Node) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("opening %s for --dump-ir: %w", path, err)
	}
	defer f.Close()

	w := diag.NewCBORWriter(f)
	if err := w.Write(fileLabel, root); err != nil {
		return fmt.Errorf("writing intermediate code to %s: %w", path, err)
	}
	return nil
}
