package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/raysh454/configlens/internal/app"
	"github.com/raysh454/configlens/internal/ignore"
	"github.com/raysh454/configlens/internal/logging"
)

// Run executes one comparison end to end and returns the process exit code.
// stdout receives the rendering (unless --output-file is set), stderr the
// errors.
func Run(args []string, stdout, stderr io.Writer) int {
	parsed, err := ParseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "configlens: %v\n", err)
		fmt.Fprintln(stderr, "usage: configlens [flags] <source> <target>")
		return ExitError
	}

	cfg := app.DefaultConfig()
	if parsed.Platform != "" {
		cfg.Platform = parsed.Platform
	}

	var ignores *ignore.Manager
	if len(parsed.IgnorePatterns) > 0 {
		ignores, err = ignore.FromPatterns(parsed.IgnorePatterns)
		if err != nil {
			fmt.Fprintf(stderr, "configlens: %v\n", err)
			return ExitError
		}
	}

	orch := app.NewOrchestrator(cfg, nil, ignores, logging.NewStderrLogger("CLI"))

	res, err := orch.CompareFiles(context.Background(), parsed.SourcePath, parsed.TargetPath, app.CompareOptions{
		Normalize: parsed.Normalize,
	})
	if err != nil {
		fmt.Fprintf(stderr, "configlens: %v\n", err)
		return ExitError
	}
	if res.NormalizeWarning != "" {
		fmt.Fprintf(stderr, "configlens: warning: %s\n", res.NormalizeWarning)
	}

	out, err := Render(res, parsed.Output)
	if err != nil {
		fmt.Fprintf(stderr, "configlens: %v\n", err)
		return ExitError
	}

	if parsed.OutputFile != "" {
		if err := os.WriteFile(parsed.OutputFile, []byte(out), 0o644); err != nil {
			fmt.Fprintf(stderr, "configlens: %v\n", err)
			return ExitError
		}
	} else {
		fmt.Fprint(stdout, out)
	}

	if res.HasDiff {
		return ExitDiff
	}
	return ExitNoDiff
}
