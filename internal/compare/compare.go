// Package compare is the façade over normalization, hierarchical keying,
// alignment and structural analysis. One Comparator invocation is a single
// comparison pass: nothing is shared between calls, so concurrent
// comparisons on different inputs need no synchronization.
package compare

import (
	"github.com/raysh454/configlens/internal/align"
	"github.com/raysh454/configlens/internal/normalize"
	"github.com/raysh454/configlens/internal/platform"
	"github.com/raysh454/configlens/internal/structural"
)

// Comparator compares two configuration texts for one platform.
type Comparator struct {
	platform   platform.Platform
	normalizer *normalize.Normalizer
}

// New returns a Comparator for p.
func New(p platform.Platform) *Comparator {
	return &Comparator{
		platform:   p,
		normalizer: normalize.New(p),
	}
}

// Platform returns the platform this Comparator was built for.
func (c *Comparator) Platform() platform.Platform {
	return c.platform
}

// prepare optionally pair-normalizes the inputs. The returned error is the
// non-fatal MalformedVlanRange signal; the lines are always usable.
func (c *Comparator) prepare(source, target []string, normalizeVlans bool) ([]string, []string, error) {
	if !normalizeVlans {
		return source, target, nil
	}
	return c.normalizer.Pair(source, target)
}

// Align returns the equal-height row alignment of source and target.
func (c *Comparator) Align(source, target []string, normalizeVlans bool) ([]align.Row, error) {
	src, tgt, err := c.prepare(source, target, normalizeVlans)
	if err != nil {
		return align.Rows(src, tgt), err
	}
	return align.Rows(src, tgt), nil
}

// AlignWithDiffInfo returns the alignment plus the positional per-row
// classification (equal/delete/insert/replace).
func (c *Comparator) AlignWithDiffInfo(source, target []string, normalizeVlans bool) ([]align.Row, []align.DiffType, error) {
	rows, err := c.Align(source, target, normalizeVlans)
	return rows, align.Types(rows), err
}

// AlignWithStructuralDiffInfo returns the alignment with per-side structural
// classification: rows whose key exists on both sides but at a different
// position read as reorder, and the result carries the counterpart map for
// jumping between reordered occurrences.
func (c *Comparator) AlignWithStructuralDiffInfo(source, target []string, normalizeVlans bool) (structural.Result, error) {
	rows, err := c.Align(source, target, normalizeVlans)
	return structural.Analyze(rows), err
}
