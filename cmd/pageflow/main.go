// Command pageflow is the external-collaborator CLI surface of §6: it
// renders a document JSON file (or stdin) to a PDF file (or stdout).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pageflow/pageflow/engine"
)

const exampleDocument = `{
	"children": [
		{"type": "Text", "content": "pageflow example document"}
	]
}`

type options struct {
	inPath  string
	outPath string
	example bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pageflow: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "pageflow: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: pageflow render [flags] [path]\n")
		flag.PrintDefaults()
	}
	outPath := flag.String("o", "", "Output PDF path (default: stdout)")
	example := flag.Bool("example", false, "Render the built-in example document instead of reading input")
	flag.Parse()
	if flag.Arg(0) == "render" {
		// Flags may also follow the subcommand: "render -o out.pdf in.json".
		if err := flag.CommandLine.Parse(flag.Args()[1:]); err != nil {
			return options{}, err
		}
	}

	if flag.NArg() > 1 {
		flag.Usage()
		return options{}, fmt.Errorf("too many arguments")
	}
	if flag.NArg() == 1 {
		if flag.Arg(0) != "render" {
			opts.inPath = flag.Arg(0)
		}
	}
	opts.outPath = *outPath
	opts.example = *example
	return opts, nil
}

func run(opts options) error {
	documentJSON, err := readInput(opts)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	pdf, err := engine.Render(documentJSON)
	if err != nil {
		return err
	}

	out := os.Stdout
	if opts.outPath != "" {
		f, err := os.Create(opts.outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	if _, err := out.Write(pdf); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func readInput(opts options) ([]byte, error) {
	if opts.example {
		return []byte(exampleDocument), nil
	}
	if opts.inPath == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(opts.inPath)
}
