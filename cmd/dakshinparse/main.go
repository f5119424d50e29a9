// Command dakshinparse is the Dakshin AST REPL: given a file it prints the
// parsed AST as indented JSON, and with no arguments it reads fragments
// from stdin interactively until "exit" (spec §6), the Go counterpart of
// the original `parse.py` script.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/woundrite/dakshin/internal/astjson"
	"github.com/woundrite/dakshin/internal/cli"
	"github.com/woundrite/dakshin/internal/diag"
)

var queryPath string

var rootCmd = &cobra.Command{
	Use:     "dakshinparse [source_file]",
	Short:   "Parse a Dakshin source file and print its AST as JSON",
	Version: "0.1.0",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runParse,
}

func init() {
	rootCmd.Flags().StringVar(&queryPath, "query", "",
		"print only the gjson path within the dumped AST, instead of the full tree")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(cli.ExitSyntaxError)
	}
}

func runParse(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return repl()
	}
	return parseFile(args[0])
}

func parseFile(path string) error {
	sink := diag.NewSink()
	src, ok := cli.LoadSource(path, sink)
	if !ok {
		fmt.Fprintln(os.Stderr, sink.Format())
		os.Exit(cli.ExitLexError)
	}

	output, ok := parseAndRender(src, path, sink)
	if !ok {
		fmt.Println(output)
		os.Exit(cli.ExitSyntaxError)
	}
	fmt.Println(output)
	return nil
}

// repl implements the "Tokenizer REPL. Type 'exit' to quit." loop from the
// original main.py, one self-contained source fragment per line.
func repl() error {
	fmt.Println("Parser REPL. Type 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return nil
		}
		line := scanner.Text()
		if line == "exit" {
			return nil
		}

		sink := diag.NewSink()
		output, _ := parseAndRender(line, "<repl>", sink)
		fmt.Println(output)
	}
}

// parseAndRender runs the front end over src and renders either the dumped
// AST JSON (optionally narrowed by --query) or an error message, returning
// false on any lex/syntax failure.
func parseAndRender(src, file string, sink *diag.Sink) (string, bool) {
	pipeline := &cli.Pipeline{}
	result, errMsg, ok := pipeline.Parse(src, file, sink)
	if !ok {
		return errMsg, false
	}

	out, err := astjson.Marshal(result.Program, file)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), false
	}
	if queryPath != "" {
		return gjson.GetBytes(out, queryPath).String(), true
	}
	return string(out), true
}
