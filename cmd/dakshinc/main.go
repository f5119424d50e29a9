// Command dakshinc is the Dakshin compiler: it lowers a single Dakshin
// source file straight to NASM x86-64 assembly text (spec §6's compiler
// entry point), the Go counterpart of the original `dakshin.py`/
// `compiler.py` scripts.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/woundrite/dakshin/internal/astjson"
	"github.com/woundrite/dakshin/internal/cli"
	"github.com/woundrite/dakshin/internal/codegen"
	"github.com/woundrite/dakshin/internal/diag"
	"github.com/woundrite/dakshin/internal/stdlib"
)

var (
	verbose      bool
	dumpAsmStats bool
)

var rootCmd = &cobra.Command{
	Use:     "dakshinc <source_file> [output_file]",
	Short:   "Compile a Dakshin source file to x86-64 NASM assembly",
	Version: "0.1.0",
	Args:    cobra.MaximumNArgs(2),
	RunE:    runCompile,
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"print pipeline stage banners and the compilation statistics report")
	rootCmd.Flags().BoolVar(&dumpAsmStats, "dump-asm-stats", false,
		"print assembly line and string-literal counts after generation")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(cli.ExitSyntaxError)
	}
}

func runCompile(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: dakshinc <source_file> [output_file]")
		return nil
	}

	sourcePath := args[0]
	sink := diag.NewSink()

	src, ok := cli.LoadSource(sourcePath, sink)
	if !ok {
		fmt.Fprintln(os.Stderr, sink.Format())
		os.Exit(cli.ExitLexError)
	}

	fmt.Printf("Compiling: %s\n", sourcePath)

	pipeline := &cli.Pipeline{Verbose: verbose, Stderr: os.Stderr}
	result, errMsg, ok := pipeline.Parse(src, sourcePath, sink)
	if !ok {
		fmt.Fprintln(os.Stderr, errMsg)
		if sink.HasErrors() {
			os.Exit(cli.ExitLexError)
		}
		os.Exit(cli.ExitSyntaxError)
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Code Generation...")
	}
	gen := codegen.New(stdlib.Load())
	assembly := gen.Generate(result.Program)

	outputPath := resolveOutputPath(sourcePath, args)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(assembly), 0o644); err != nil {
		return fmt.Errorf("unable to write %s: %w", outputPath, err)
	}
	fmt.Printf("Assembly written to: %s\n", outputPath)

	if dumpAsmStats {
		fmt.Fprintf(os.Stderr, "assembly lines: %d\n", strings.Count(assembly, "\n"))
		fmt.Fprintf(os.Stderr, "string literals: %d\n", gen.StringLiteralCount())
	}

	if verbose {
		stats := cli.Stats{
			SourceFile:     sourcePath,
			TokenCount:     result.TokenCount,
			NodeCount:      astjson.CountNodes(astjson.Dump(result.Program)),
			StringLiterals: gen.StringLiteralCount(),
			AssemblyLines:  strings.Count(assembly, "\n"),
		}
		fmt.Fprint(os.Stderr, stats.Format())
	}

	return nil
}

// resolveOutputPath implements spec §6's "one arg: out/<stem>.asm; two
// args: write to the second path verbatim" rule.
func resolveOutputPath(sourcePath string, args []string) string {
	if len(args) >= 2 {
		return args[1]
	}
	stem := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	return filepath.Join("out", stem+".asm")
}
