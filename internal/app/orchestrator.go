package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/raysh454/configlens/internal/align"
	"github.com/raysh454/configlens/internal/compare"
	"github.com/raysh454/configlens/internal/folder"
	"github.com/raysh454/configlens/internal/ignore"
	"github.com/raysh454/configlens/internal/loader"
	"github.com/raysh454/configlens/internal/logging"
	"github.com/raysh454/configlens/internal/platform"
	"github.com/raysh454/configlens/internal/store"
	"github.com/raysh454/configlens/internal/structural"
	"github.com/raysh454/configlens/internal/validate"
)

// Orchestrator wires loading, normalization, comparison, ignore filtering and
// persistence into the operations the CLI and server expose.
type Orchestrator struct {
	cfg     *Config
	logger  logging.Logger
	history *store.Store
	ignores *ignore.Manager
}

// NewOrchestrator creates an Orchestrator. history and ignores may be nil
// (no persistence, no ignore filtering).
func NewOrchestrator(cfg *Config, history *store.Store, ignores *ignore.Manager, logger logging.Logger) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("Orchestrator")
	}
	return &Orchestrator{cfg: cfg, logger: logger, history: history, ignores: ignores}
}

// History returns the run store (nil when persistence is disabled).
func (o *Orchestrator) History() *store.Store { return o.history }

// Ignores returns the ignore manager (nil when filtering is disabled).
func (o *Orchestrator) Ignores() *ignore.Manager { return o.ignores }

// CompareOptions selects how a comparison runs.
type CompareOptions struct {
	// Platform overrides the configured default when non-empty.
	Platform platform.Platform
	// Normalize enables VLAN trunk normalization before comparison.
	Normalize bool
	// Persist saves the result to the run history when a store is wired.
	Persist bool
	// SourceName / TargetName label the inputs in history and output.
	SourceName string
	TargetName string
}

// CompareResult is a finished comparison ready for rendering.
type CompareResult struct {
	Structural structural.Result `json:"structural"`
	// InlineChunks holds character-level chunks for replace rows, keyed by
	// row index.
	InlineChunks map[int][]compare.InlineChunk `json:"inline_chunks,omitempty"`
	// RunID is set when the result was persisted.
	RunID string `json:"run_id,omitempty"`
	// HasDiff reports whether any non-ignored row differs.
	HasDiff bool `json:"has_diff"`
	// NormalizeWarning carries the non-fatal VLAN parse failures, if any.
	NormalizeWarning string `json:"normalize_warning,omitempty"`

	SourceName string `json:"source_name,omitempty"`
	TargetName string `json:"target_name,omitempty"`
}

func (o *Orchestrator) platformFor(opts CompareOptions) platform.Platform {
	if opts.Platform != "" {
		return opts.Platform
	}
	return o.cfg.Platform
}

// CompareLines runs the full pipeline on already-loaded line slices.
func (o *Orchestrator) CompareLines(ctx context.Context, source, target []string, opts CompareOptions) (*CompareResult, error) {
	p := o.platformFor(opts)
	comparator := compare.New(p)

	structuralRes, err := comparator.AlignWithStructuralDiffInfo(source, target, opts.Normalize)
	res := &CompareResult{
		Structural: structuralRes,
		SourceName: opts.SourceName,
		TargetName: opts.TargetName,
	}
	if err != nil {
		// Malformed VLAN lists degrade to pass-through; surface, don't fail.
		o.logger.Warn("vlan normalization degraded",
			logging.Field{Key: "error", Value: err.Error()})
		res.NormalizeWarning = err.Error()
	}

	if o.ignores != nil {
		o.ignores.Apply(res.Structural.Rows, res.Structural.SourceTypes, res.Structural.TargetTypes)
	}

	res.InlineChunks = compare.RowChunks(res.Structural.Rows)
	res.HasDiff = hasVisibleDiff(res.Structural)

	if opts.Persist && o.history != nil {
		if err := o.persist(ctx, p, opts, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// CompareFiles loads both files and compares them. Names default to the
// paths.
func (o *Orchestrator) CompareFiles(ctx context.Context, sourcePath, targetPath string, opts CompareOptions) (*CompareResult, error) {
	source, err := loader.Lines(sourcePath)
	if err != nil {
		return nil, err
	}
	target, err := loader.Lines(targetPath)
	if err != nil {
		return nil, err
	}
	if opts.SourceName == "" {
		opts.SourceName = sourcePath
	}
	if opts.TargetName == "" {
		opts.TargetName = targetPath
	}
	return o.CompareLines(ctx, source, target, opts)
}

// Validate runs the three-way change validation.
func (o *Orchestrator) Validate(running, change, expected []string, p platform.Platform) (validate.Result, error) {
	if p == "" {
		p = o.cfg.Platform
	}
	return validate.NewEngine(p).Validate(running, change, expected)
}

// ScanFolders compares two directories file by file.
func (o *Orchestrator) ScanFolders(leftDir, rightDir string, recursive bool) ([]folder.Entry, error) {
	s := &folder.Scanner{Recursive: recursive}
	return s.Scan(leftDir, rightDir)
}

func (o *Orchestrator) persist(ctx context.Context, p platform.Platform, opts CompareOptions, res *CompareResult) error {
	doc, err := json.Marshal(res.Structural)
	if err != nil {
		return fmt.Errorf("marshaling rows: %w", err)
	}
	id, err := o.history.SaveRun(ctx, store.Run{
		SourceName: opts.SourceName,
		TargetName: opts.TargetName,
		Platform:   string(p),
		Normalized: opts.Normalize,
		RowCount:   len(res.Structural.Rows),
		DiffCount:  diffCount(res.Structural),
		RowsJSON:   string(doc),
	})
	if err != nil {
		return err
	}
	res.RunID = id
	return nil
}

func hasVisibleDiff(res structural.Result) bool {
	for i := range res.Rows {
		if isDiffType(res.SourceTypes[i]) || isDiffType(res.TargetTypes[i]) {
			return true
		}
	}
	return false
}

func diffCount(res structural.Result) int {
	n := 0
	for i := range res.Rows {
		if isDiffType(res.SourceTypes[i]) || isDiffType(res.TargetTypes[i]) {
			n++
		}
	}
	return n
}

func isDiffType(t align.DiffType) bool {
	switch t {
	case align.Equal, align.Empty, align.Ignore:
		return false
	default:
		return true
	}
}
