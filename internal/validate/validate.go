// Package validate checks whether an observed before→after configuration
// difference is fully explained by a declared change script. The running and
// expected configs are aligned structurally; every removal and insertion is
// then matched against the change script's commands, with "no X" handled
// symmetrically (a "no X" command explains the removal of X from the running
// side and the addition of "no X" on the expected side, and vice versa).
package validate

import (
	"strings"

	"github.com/raysh454/configlens/internal/align"
	"github.com/raysh454/configlens/internal/compare"
	"github.com/raysh454/configlens/internal/hierarchy"
	"github.com/raysh454/configlens/internal/platform"
)

// Verdict classifies one side of an aligned row after validation.
type Verdict string

const (
	VerdictEqual   Verdict = "equal"
	VerdictReorder Verdict = "reorder"
	VerdictEmpty   Verdict = "empty"
	// VerdictChangeRemove: a removal explained by the change script.
	VerdictChangeRemove Verdict = "change_remove"
	// VerdictRemove: an unexplained removal — a validation error.
	VerdictRemove Verdict = "remove"
	// VerdictChangeAdd: an insertion explained by the change script.
	VerdictChangeAdd Verdict = "change_add"
	// VerdictAdd: an unexplained insertion — a validation error.
	VerdictAdd Verdict = "add"
)

// ChangeStatus classifies a line of the change script.
type ChangeStatus string

const (
	// ChangeNormal: a line not participating in any observed difference
	// (comments, blanks, matched ancestors).
	ChangeNormal ChangeStatus = "normal"
	// ChangeApplied: a command matched to an observed removal/insertion.
	ChangeApplied ChangeStatus = "change"
	// ChangeUnmatched: a meaningful command with no observable effect in
	// the before/after diff.
	ChangeUnmatched ChangeStatus = "unmatched"
)

// Result is the outcome of one validation run.
type Result struct {
	// Rows is the running↔expected alignment.
	Rows []align.Row `json:"rows"`
	// RunningTypes / ExpectedTypes are per-row verdicts for each column.
	RunningTypes  []Verdict `json:"running_types"`
	ExpectedTypes []Verdict `json:"expected_types"`
	// ChangeLines echoes the change script; ChangeTypes classifies each line.
	ChangeLines []string       `json:"change_lines"`
	ChangeTypes []ChangeStatus `json:"change_types"`
	// ChangeToRunning / ChangeToExpected map change-line indices to the
	// 1-based display rows they explain.
	ChangeToRunning  map[int][]int `json:"change_to_running"`
	ChangeToExpected map[int][]int `json:"change_to_expected"`
	// IsValid is true when every observed difference is explained.
	IsValid bool `json:"is_valid"`
	// HasUnappliedChange is true when the script declares a change with no
	// observable effect.
	HasUnappliedChange bool `json:"has_unapplied_change"`
}

// Engine runs validations for one platform.
type Engine struct {
	comparator *compare.Comparator
}

// NewEngine returns an Engine for p.
func NewEngine(p platform.Platform) *Engine {
	return &Engine{comparator: compare.New(p)}
}

// keyMaps index the change script for matching: addKeys match insertions on
// the expected side, removeKeys match removals on the running side. Each key
// maps to the change-line indices that declared it.
type keyMaps struct {
	addKeys    map[string][]int
	removeKeys map[string][]int
}

// buildChangeKeyMaps registers every meaningful change line under both its
// add-form and remove-form key. For "no X" the remove key is the path with
// the bare X leaf (X disappears from running) and the add key is "no X"
// itself (it may appear verbatim in expected); for a plain command Y the add
// key is Y and the remove key is the path with a "no Y" leaf.
func buildChangeKeyMaps(changeLines []string) keyMaps {
	paths := hierarchy.Resolve(changeLines)
	km := keyMaps{
		addKeys:    make(map[string][]int),
		removeKeys: make(map[string][]int),
	}
	for ci, line := range changeLines {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "!") {
			continue
		}
		path := paths[ci]
		if rest, ok := strings.CutPrefix(stripped, "no "); ok {
			removePath := append(append(hierarchy.Path{}, path[:len(path)-1]...), strings.TrimSpace(rest))
			km.removeKeys[removePath.Key()] = append(km.removeKeys[removePath.Key()], ci)
			km.addKeys[path.Key()] = append(km.addKeys[path.Key()], ci)
		} else {
			km.addKeys[path.Key()] = append(km.addKeys[path.Key()], ci)
			noPath := append(append(hierarchy.Path{}, path[:len(path)-1]...), "no "+stripped)
			km.removeKeys[noPath.Key()] = append(km.removeKeys[noPath.Key()], ci)
		}
	}
	return km
}

// Validate classifies every running↔expected difference against the change
// script. Three phases: align running↔expected, index the change script,
// classify; fully deterministic, one pass over the alignment.
func (e *Engine) Validate(running, change, expected []string) (Result, error) {
	structuralRes, err := e.comparator.AlignWithStructuralDiffInfo(running, expected, false)
	if err != nil {
		return Result{}, err
	}

	km := buildChangeKeyMaps(change)

	// Lowercased remove keys for prefix matching: "no interface X" must also
	// explain the removal of X's children.
	type removeEntry struct {
		lowerKey string
		indices  []int
	}
	lowerRemoveEntries := make([]removeEntry, 0, len(km.removeKeys))
	for rk, cis := range km.removeKeys {
		lowerRemoveEntries = append(lowerRemoveEntries, removeEntry{lowerKey: strings.ToLower(rk), indices: cis})
	}

	res := Result{
		Rows:             structuralRes.Rows,
		RunningTypes:     make([]Verdict, len(structuralRes.Rows)),
		ExpectedTypes:    make([]Verdict, len(structuralRes.Rows)),
		ChangeLines:      append([]string(nil), change...),
		ChangeTypes:      make([]ChangeStatus, len(change)),
		ChangeToRunning:  make(map[int][]int),
		ChangeToExpected: make(map[int][]int),
		IsValid:          true,
	}
	for i := range res.ChangeTypes {
		res.ChangeTypes[i] = ChangeNormal
	}

	for i, row := range structuralRes.Rows {
		displayRow := i + 1

		switch structuralRes.SourceTypes[i] {
		case align.Delete:
			indices := km.removeKeys[row.SourceKey]
			if len(indices) == 0 {
				srcLower := strings.ToLower(row.SourceKey)
				for _, entry := range lowerRemoveEntries {
					if srcLower == entry.lowerKey || strings.HasPrefix(srcLower, entry.lowerKey+hierarchy.KeySeparator) {
						indices = entry.indices
						break
					}
				}
			}
			if len(indices) > 0 {
				res.RunningTypes[i] = VerdictChangeRemove
				for _, ci := range indices {
					res.ChangeTypes[ci] = ChangeApplied
					res.ChangeToRunning[ci] = append(res.ChangeToRunning[ci], displayRow)
				}
			} else {
				res.RunningTypes[i] = VerdictRemove
				res.IsValid = false
			}
		default:
			res.RunningTypes[i] = passthroughVerdict(structuralRes.SourceTypes[i])
		}

		switch structuralRes.TargetTypes[i] {
		case align.Insert:
			indices := km.addKeys[row.TargetKey]
			if len(indices) > 0 {
				res.ExpectedTypes[i] = VerdictChangeAdd
				for _, ci := range indices {
					res.ChangeTypes[ci] = ChangeApplied
					res.ChangeToExpected[ci] = append(res.ChangeToExpected[ci], displayRow)
				}
			} else {
				res.ExpectedTypes[i] = VerdictAdd
				res.IsValid = false
			}
		default:
			res.ExpectedTypes[i] = passthroughVerdict(structuralRes.TargetTypes[i])
		}
	}

	markUnmatched(&res, change)
	return res, nil
}

// markUnmatched flags meaningful change commands that explained nothing.
// Ancestors of matched commands are skipped: a parent block header is
// "covered" when any of its children matched, so it is not a false positive.
func markUnmatched(res *Result, changeLines []string) {
	paths := hierarchy.Resolve(changeLines)

	coveredAncestors := make(map[string]struct{})
	for ci, path := range paths {
		if res.ChangeTypes[ci] != ChangeApplied {
			continue
		}
		for depth := 1; depth < len(path); depth++ {
			coveredAncestors[path[:depth].Key()] = struct{}{}
		}
	}

	for ci, line := range changeLines {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "!") {
			continue
		}
		if res.ChangeTypes[ci] != ChangeNormal {
			continue
		}
		if _, covered := coveredAncestors[paths[ci].Key()]; covered {
			continue
		}
		res.ChangeTypes[ci] = ChangeUnmatched
		res.HasUnappliedChange = true
	}
}

func passthroughVerdict(t align.DiffType) Verdict {
	switch t {
	case align.Reorder:
		return VerdictReorder
	case align.Empty:
		return VerdictEmpty
	default:
		return VerdictEqual
	}
}
