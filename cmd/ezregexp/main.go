// Command ezregexp explains regular-expression patterns as fluent builder
// source from the command line, and ships a small build-mode demo.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/ezregexp/ezregexp/internal/codegen"
	"github.com/ezregexp/ezregexp/internal/parser"
	"github.com/ezregexp/ezregexp/pkg/ezregexp"
)

var (
	explainPat  = flag.String("explain", "", "Pattern to explain as builder source")
	buildDemo   = flag.Bool("build", false, "Run the built-in date pattern demo")
	verboseFlag = flag.Bool("verbose", false, "Log parser decisions to stderr")
	helpFlag    = flag.Bool("help", false, "Show help message")
	version     = flag.Bool("version", false, "Print version information")
)

const (
	appVersion = "1.0.0"
	appName    = "ezregexp"
)

func main() {
	flag.Parse()

	if *helpFlag {
		printHelp()
		return
	}

	if *version {
		fmt.Printf("%s version %s\n", appName, appVersion)
		return
	}

	switch {
	case *explainPat != "":
		tr := parser.NewTrace(*verboseFlag)
		code, err := explainSource(*explainPat, tr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error explaining pattern: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(code)
	case *buildDemo:
		if err := runBuildDemo(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error running demo: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: either -explain or -build is required\n\n")
		printHelp()
		os.Exit(1)
	}
}

// explainSource parses pattern and renders the builder calls that would
// reconstruct it, logging parse decisions through tr.
func explainSource(pattern string, tr *parser.Trace) (string, error) {
	node, err := parser.ParseWithTrace(pattern, tr)
	if err != nil {
		return "", err
	}
	return codegen.Render(node), nil
}

// runBuildDemo assembles a date pattern with the builder, shows both of its
// renderings, and pulls named captures out of a sample input with the
// standard engine.
func runBuildDemo(w io.Writer) error {
	date := ezregexp.StartWith(ezregexp.Digit().Times(4).Named("year")).
		AndThen("-").
		AndThen(ezregexp.Digit().Times(2).Named("month")).
		AndThen("-").
		AndThen(ezregexp.Digit().Times(2).Named("day"))

	pattern, err := date.ToString()
	if err != nil {
		return fmt.Errorf("failed to build date pattern: %w", err)
	}
	code, err := date.ToCode()
	if err != nil {
		return fmt.Errorf("failed to render builder source: %w", err)
	}

	fmt.Fprintf(w, "pattern: %s\n", pattern)
	fmt.Fprintf(w, "builder: %s\n", code)

	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("failed to compile pattern: %w", err)
	}
	const input = "released on 2010-03-14"
	match := re.FindStringSubmatch(input)
	if match == nil {
		return fmt.Errorf("pattern %q did not match %q", pattern, input)
	}
	fmt.Fprintf(w, "input:   %s\n", input)
	for i, name := range re.SubexpNames() {
		if name != "" {
			fmt.Fprintf(w, "  %s = %s\n", name, match[i])
		}
	}
	return nil
}

func printHelp() {
	fmt.Printf("Usage: %s [OPTIONS]\n\n", appName)
	fmt.Println("Explain regular-expression patterns as fluent builder source")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s -explain '^\\d{4}-\\d{2}-\\d{2}$'   # Print builder calls for the pattern\n", appName)
	fmt.Printf("  %s -explain 'gr(a|e)y' -verbose      # Log every parse decision to stderr\n", appName)
	fmt.Printf("  %s -build                            # Run the date pattern demo\n", appName)
}
