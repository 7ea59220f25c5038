// Package cli parses arguments and renders comparison results for the
// configlens command.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/raysh454/configlens/internal/platform"
)

// Output formats accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputHTML = "html"
)

// Exit codes. ExitDiff means the comparison ran and found differences.
const (
	ExitNoDiff = 0
	ExitDiff   = 1
	ExitError  = 2
)

// CLIArgs are the parsed command-line arguments for one comparison run.
type CLIArgs struct {
	// SourcePath and TargetPath are the two config files to compare.
	SourcePath string
	TargetPath string

	// Platform selects the rule set; empty means the configured default.
	Platform platform.Platform

	// Normalize enables VLAN trunk normalization before comparison.
	Normalize bool

	// Output is one of text, json or html.
	Output string

	// OutputFile writes the rendering to a file instead of stdout.
	OutputFile string

	// IgnorePatterns are regexes whose matching rows are excluded from the
	// diff verdict.
	IgnorePatterns []string

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

type repeatedFlag []string

func (f *repeatedFlag) String() string { return strings.Join(*f, ",") }

func (f *repeatedFlag) Set(v string) error {
	*f = append(*f, v)
	return nil
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by
// passing arbitrary slices. The function is deterministic and does not read
// os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("configlens", flag.ContinueOnError)
	var (
		platformName = fs.String("platform", "", "Platform rule set (CISCO_IOS, CISCO_NXOS, ARISTA_EOS, JUNIPER_JUNOS, GENERIC)")
		normalize    = fs.Bool("normalize", false, "Normalize VLAN trunk lists before comparing")
		output       = fs.String("output", OutputText, "Output format: text|json|html")
		outputFile   = fs.String("output-file", "", "Write output to a file instead of stdout")
		ignores      repeatedFlag
	)
	fs.Var(&ignores, "ignore", "Regex for rows to ignore (repeatable)")

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	rest := fs.Args()
	if len(rest) != 2 {
		return nil, fmt.Errorf("expected exactly two config files, got %d", len(rest))
	}

	var p platform.Platform
	if *platformName != "" {
		parsed, err := platform.Parse(*platformName)
		if err != nil {
			return nil, err
		}
		p = parsed
	}

	switch *output {
	case OutputText, OutputJSON, OutputHTML:
	default:
		return nil, fmt.Errorf("unknown output format %q", *output)
	}

	return &CLIArgs{
		SourcePath:     rest[0],
		TargetPath:     rest[1],
		Platform:       p,
		Normalize:      *normalize,
		Output:         *output,
		OutputFile:     *outputFile,
		IgnorePatterns: ignores,
		RawArgs:        args,
	}, nil
}
