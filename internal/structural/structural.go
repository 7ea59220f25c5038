// Package structural classifies aligned rows by order-independent key
// membership. Where the aligner sees a delete+insert pair, this package
// recognizes the same key on both sides and re-tags it as a reorder: the
// statement moved, it did not change. It also exposes, per reordered key, the
// row positions of its counterpart on the other side so a UI can jump between
// them.
package structural

import "github.com/raysh454/configlens/internal/align"

// KeySets is the order-independent partition of the two key sets.
type KeySets struct {
	// Additional holds keys present only in the target.
	Additional map[string]struct{}
	// Deletional holds keys present only in the source.
	Deletional map[string]struct{}
	// NonChanged holds keys present in both.
	NonChanged map[string]struct{}
}

// Partition splits the source and target key sets by membership. Empty keys
// (padding) are skipped.
func Partition(sourceKeys, targetKeys []string) KeySets {
	src := make(map[string]struct{}, len(sourceKeys))
	for _, k := range sourceKeys {
		if k != "" {
			src[k] = struct{}{}
		}
	}
	tgt := make(map[string]struct{}, len(targetKeys))
	for _, k := range targetKeys {
		if k != "" {
			tgt[k] = struct{}{}
		}
	}

	ks := KeySets{
		Additional: make(map[string]struct{}),
		Deletional: make(map[string]struct{}),
		NonChanged: make(map[string]struct{}),
	}
	for k := range src {
		if _, ok := tgt[k]; ok {
			ks.NonChanged[k] = struct{}{}
		} else {
			ks.Deletional[k] = struct{}{}
		}
	}
	for k := range tgt {
		if _, ok := src[k]; !ok {
			ks.Additional[k] = struct{}{}
		}
	}
	return ks
}

// Counterpart records where a reordered key sits on each side, as 0-based row
// indices into the aligned rows.
type Counterpart struct {
	SourceRows []int `json:"source_rows"`
	TargetRows []int `json:"target_rows"`
}

// Result carries the per-side classification of every aligned row plus the
// reorder navigation map keyed by comparison key.
type Result struct {
	Rows         []align.Row            `json:"rows"`
	SourceTypes  []align.DiffType       `json:"source_types"`
	TargetTypes  []align.DiffType       `json:"target_types"`
	Counterparts map[string]Counterpart `json:"counterparts"`
}

// HasDiff reports whether any row differs structurally.
func (r Result) HasDiff() bool {
	for i := range r.Rows {
		if r.SourceTypes[i] != align.Equal && r.SourceTypes[i] != align.Empty {
			return true
		}
		if r.TargetTypes[i] != align.Equal && r.TargetTypes[i] != align.Empty {
			return true
		}
	}
	return false
}

// Analyze computes per-side diff types for the aligned rows. A side is
// "delete"/"insert" only when its key is absent from the other input
// entirely; a key that exists on both sides but sits on a misaligned row
// becomes "reorder". Padding rows are "empty".
func Analyze(rows []align.Row) Result {
	srcKeys := make([]string, len(rows))
	tgtKeys := make([]string, len(rows))
	for i, r := range rows {
		srcKeys[i] = r.SourceKey
		tgtKeys[i] = r.TargetKey
	}
	ks := Partition(srcKeys, tgtKeys)

	res := Result{
		Rows:         rows,
		SourceTypes:  make([]align.DiffType, len(rows)),
		TargetTypes:  make([]align.DiffType, len(rows)),
		Counterparts: make(map[string]Counterpart),
	}

	for i, r := range rows {
		switch {
		case r.SourceKey == "":
			res.SourceTypes[i] = align.Empty
		case member(ks.Deletional, r.SourceKey):
			res.SourceTypes[i] = align.Delete
		case r.SourceKey != r.TargetKey:
			// Present in both inputs but not on its matched row.
			res.SourceTypes[i] = align.Reorder
		default:
			res.SourceTypes[i] = align.Equal
		}

		switch {
		case r.TargetKey == "":
			res.TargetTypes[i] = align.Empty
		case member(ks.Additional, r.TargetKey):
			res.TargetTypes[i] = align.Insert
		case r.SourceKey != r.TargetKey:
			res.TargetTypes[i] = align.Reorder
		default:
			res.TargetTypes[i] = align.Equal
		}
	}

	// Navigation map: for every reordered key, record its rows on each side.
	for i := range rows {
		if res.SourceTypes[i] == align.Reorder {
			c := res.Counterparts[rows[i].SourceKey]
			c.SourceRows = append(c.SourceRows, i)
			res.Counterparts[rows[i].SourceKey] = c
		}
		if res.TargetTypes[i] == align.Reorder {
			c := res.Counterparts[rows[i].TargetKey]
			c.TargetRows = append(c.TargetRows, i)
			res.Counterparts[rows[i].TargetKey] = c
		}
	}

	return res
}

func member(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
