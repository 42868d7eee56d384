// Command livedom-fragdump exercises the parser, renderer, and fragment
// decoder from the command line: useful for eyeballing what a markup
// string parses to, or what a rendered-fragment JSON payload expands
// into, without wiring up a host.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/livefir/livedom"
	"github.com/livefir/livedom/fragment"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "parse":
		err = runParse(os.Args[2:])
	case "fragment":
		err = runFragment(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runParse parses markup (from a file argument, or stdin if omitted)
// and prints the round-tripped render.
func runParse(args []string) error {
	data, err := readInput(args)
	if err != nil {
		return err
	}
	doc, err := livedom.Parse(string(data))
	if err != nil {
		return err
	}
	fmt.Print(doc.Render())
	return nil
}

// runFragment decodes a rendered-fragment JSON payload (from a file
// argument, or stdin if omitted) and prints the markup it expands to.
func runFragment(args []string) error {
	data, err := readInput(args)
	if err != nil {
		return err
	}
	f, err := fragment.Decode(data)
	if err != nil {
		return err
	}
	opts := fragment.DefaultDecodeOptions()
	if err := fragment.CheckUnusedTemplates(f, opts); err != nil {
		return err
	}
	out, err := fragment.Render(f, opts)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func readInput(args []string) ([]byte, error) {
	if len(args) > 0 {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(os.Stdin)
}

func printUsage() {
	fmt.Println("livedom-fragdump")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  livedom-fragdump parse [<markup-file>]       Parse markup and re-render it")
	fmt.Println("  livedom-fragdump fragment [<fragment-file>]  Decode a rendered fragment and render its markup")
	fmt.Println()
	fmt.Println("Both commands read from stdin when no file argument is given.")
}
