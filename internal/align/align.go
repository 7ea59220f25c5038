// Package align produces a WinMerge-style equal-height alignment of two
// configuration texts. Lines are matched by their hierarchical comparison key
// (see internal/hierarchy), so identical text under different parent blocks is
// never paired. The edit script comes from difflib's SequenceMatcher; the
// shorter side of uneven runs is padded with empty rows.
package align

import (
	"github.com/pmezard/go-difflib/difflib"

	"github.com/raysh454/configlens/internal/hierarchy"
)

// DiffType classifies one side of an aligned row. The set is closed;
// consumers are expected to switch exhaustively over it.
type DiffType string

const (
	// Equal: same key on both sides, same relative order.
	Equal DiffType = "equal"
	// Delete: key present only in the source.
	Delete DiffType = "delete"
	// Insert: key present only in the target.
	Insert DiffType = "insert"
	// Replace: positionally aligned lines with different keys.
	Replace DiffType = "replace"
	// Reorder: key present on both sides at differing structural positions.
	// Assigned by the structural analyzer, never by the aligner itself.
	Reorder DiffType = "reorder"
	// Empty: synthetic padding row with no source line.
	Empty DiffType = "empty"
	// Ignore: row suppressed by a caller-side ignore pattern.
	Ignore DiffType = "ignore"
)

// Row is one display row of the alignment. An empty key marks the padded side.
type Row struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	SourceKey string `json:"source_key"`
	TargetKey string `json:"target_key"`
}

// Type derives the row-level diff classification from the aligned keys.
func (r Row) Type() DiffType {
	switch {
	case r.SourceKey == "" && r.TargetKey != "":
		return Insert
	case r.SourceKey != "" && r.TargetKey == "":
		return Delete
	case r.SourceKey != r.TargetKey:
		return Replace
	default:
		return Equal
	}
}

// Rows aligns two line sequences using their hierarchical keys. The output
// preserves the original relative order of both inputs, has at least
// max(len(source), len(target)) rows, and removing the padded rows from
// either side reconstructs that input exactly.
func Rows(sourceLines, targetLines []string) []Row {
	srcKeys := hierarchy.Keys(sourceLines)
	tgtKeys := hierarchy.Keys(targetLines)
	return expand(sourceLines, targetLines, srcKeys, srcKeys, tgtKeys, tgtKeys, true)
}

// Types returns the per-row classification for rows.
func Types(rows []Row) []DiffType {
	types := make([]DiffType, len(rows))
	for i, r := range rows {
		types[i] = r.Type()
	}
	return types
}

// expand walks the SequenceMatcher edit script over the match keys and emits
// padded rows carrying the emit keys. Match and emit keys coincide at the top
// level; inside a replace block the match keys are re-derived block-locally
// while the emitted keys stay global, so downstream structural analysis still
// sees full hierarchical paths.
//
// rekey selects the replace-run strategy: when true, the block is re-aligned
// by a recursive call with block-local keys (lines whose local keys
// correspond are paired, the rest is padded); when false — inside that
// recursive call — replace runs are zipped positionally and the length
// difference is padded. The recursion is a single level deep by construction.
func expand(srcLines, tgtLines, srcMatch, srcEmit, tgtMatch, tgtEmit []string, rekey bool) []Row {
	var rows []Row

	var matcher *difflib.SequenceMatcher
	if rekey {
		matcher = difflib.NewMatcher(srcMatch, tgtMatch)
	} else {
		// No autojunk inside blocks: popular keys must stay matchable.
		matcher = difflib.NewMatcherWithJunk(srcMatch, tgtMatch, false, nil)
	}

	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			for k := 0; k < op.I2-op.I1; k++ {
				rows = append(rows, Row{
					Source:    srcLines[op.I1+k],
					Target:    tgtLines[op.J1+k],
					SourceKey: srcEmit[op.I1+k],
					TargetKey: tgtEmit[op.J1+k],
				})
			}

		case 'r':
			if rekey {
				subSrcLines := srcLines[op.I1:op.I2]
				subTgtLines := tgtLines[op.J1:op.J2]
				rows = append(rows, expand(
					subSrcLines, subTgtLines,
					hierarchy.Keys(subSrcLines), srcEmit[op.I1:op.I2],
					hierarchy.Keys(subTgtLines), tgtEmit[op.J1:op.J2],
					false,
				)...)
				continue
			}
			srcCount := op.I2 - op.I1
			tgtCount := op.J2 - op.J1
			for k := 0; k < srcCount || k < tgtCount; k++ {
				var row Row
				if k < srcCount {
					row.Source = srcLines[op.I1+k]
					row.SourceKey = srcEmit[op.I1+k]
				}
				if k < tgtCount {
					row.Target = tgtLines[op.J1+k]
					row.TargetKey = tgtEmit[op.J1+k]
				}
				rows = append(rows, row)
			}

		case 'd':
			for i := op.I1; i < op.I2; i++ {
				rows = append(rows, Row{Source: srcLines[i], SourceKey: srcEmit[i]})
			}

		case 'i':
			for j := op.J1; j < op.J2; j++ {
				rows = append(rows, Row{Target: tgtLines[j], TargetKey: tgtEmit[j]})
			}
		}
	}

	return rows
}
