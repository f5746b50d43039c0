// Command epochscriptfmt is a minimal CLI wiring the UI-graph compilation
// path end to end: it reads a uigraph.UiData document as JSON, runs
// ValidateUIData then CompileUIData against a small built-in demo
// registry, and writes the resulting PartialTradeSignalMetaData as JSON.
// It exists to demonstrate the library wired together; it is not itself
// a compiler-core requirement.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/stratdsl/compiler/graphcompile"
	"github.com/stratdsl/compiler/issue"
	"github.com/stratdsl/compiler/uigraph"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "epochscriptfmt",
		Usage: "validate and compile a trading-strategy UI graph into its intermediate representation",
		Commands: []*cli.Command{
			{
				Name:  "compile",
				Usage: "validate then compile a UiData JSON document",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "in", Usage: "input UiData JSON file (- for stdin)", Value: "-"},
					&cli.StringFlag{Name: "out", Usage: "output IR JSON file (- for stdout)", Value: "-"},
				},
				Action: runCompile,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCompile(c *cli.Context) error {
	data, err := readInput(c.String("in"))
	if err != nil {
		return fmt.Errorf("epochscriptfmt: %w", err)
	}

	var ui uigraph.UiData
	if err := json.Unmarshal(data, &ui); err != nil {
		return fmt.Errorf("epochscriptfmt: decoding UiData: %w", err)
	}

	reg := demoRegistry()

	sorted, issues := uigraph.ValidateUIData(ui, reg)
	if len(issues) > 0 {
		fmt.Fprint(os.Stderr, issue.NewFormatter().Format(issues))
		return fmt.Errorf("epochscriptfmt: validation failed with %d issue(s)", len(issues))
	}

	meta, err := graphcompile.CompileUIData(sorted, ui, reg)
	if err != nil {
		return fmt.Errorf("epochscriptfmt: %w", err)
	}

	out, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("epochscriptfmt: encoding result: %w", err)
	}
	out = append(out, '\n')

	return writeOutput(c.String("out"), out)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
