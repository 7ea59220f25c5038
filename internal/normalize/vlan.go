// Package normalize canonicalizes "switchport trunk allowed vlan" statements
// before comparison. Platforms cap line length, so a trunk allow list may be
// split over several "vlan add" lines; two configs differing only in how the
// list was wrapped must still compare as equal. Normalization merges each
// interface block's VLAN IDs into one ranged line, and pair normalization
// additionally injects an identical annotation line on both sides describing
// the VLAN-set difference per interface.
package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/raysh454/configlens/internal/platform"
)

// AnnotationMarker prefixes the synthetic VLAN-difference line. Renderers use
// it to pick the annotation color.
const AnnotationMarker = "! [vlan diff]"

// ErrMalformedVlanRange signals that a VLAN ID list failed to parse. The
// offending line is passed through unnormalized; the rest of the block still
// normalizes. Callers may log and continue.
var ErrMalformedVlanRange = errors.New("malformed vlan range")

var (
	// The ID group admits only digits, commas, hyphens and spaces, so the
	// init pattern can never match a "vlan add" line: "add" starts with a
	// letter. No lookahead needed.
	vlanInitRe = regexp.MustCompile(`(?i)^(\s*)switchport\s+trunk\s+allowed\s+vlan\s+([\d,\-\s]+)$`)
	vlanAddRe  = regexp.MustCompile(`(?i)^(\s*)switchport\s+trunk\s+allowed\s+vlan\s+add\s+([\d,\-\s]+)$`)
	ifaceRe    = regexp.MustCompile(`(?i)^interface\s+`)
)

// ExpandIDs parses a comma/hyphen-range VLAN ID list into an integer set.
func ExpandIDs(spec string) (map[int]struct{}, error) {
	ids := make(map[int]struct{})
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "-") {
			bounds := strings.SplitN(part, "-", 2)
			start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrMalformedVlanRange, part)
			}
			end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrMalformedVlanRange, part)
			}
			for v := start; v <= end; v++ {
				ids[v] = struct{}{}
			}
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedVlanRange, part)
		}
		ids[v] = struct{}{}
	}
	return ids, nil
}

// IDsToRanges re-encodes an ID set as a minimal comma/hyphen-range string:
// consecutive IDs collapse to "a-b", segments sort ascending. The empty set
// yields "".
func IDsToRanges(ids map[int]struct{}) string {
	if len(ids) == 0 {
		return ""
	}
	sorted := make([]int, 0, len(ids))
	for v := range ids {
		sorted = append(sorted, v)
	}
	sort.Ints(sorted)

	var segments []string
	start, prev := sorted[0], sorted[0]
	flush := func() {
		if start == prev {
			segments = append(segments, strconv.Itoa(start))
		} else {
			segments = append(segments, fmt.Sprintf("%d-%d", start, prev))
		}
	}
	for _, v := range sorted[1:] {
		if v == prev+1 {
			prev = v
			continue
		}
		flush()
		start, prev = v, v
	}
	flush()
	return strings.Join(segments, ",")
}

// IsAnnotation reports whether line is a synthetic VLAN-difference marker.
func IsAnnotation(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), AnnotationMarker)
}

// Normalizer rewrites VLAN trunk statements according to the platform rules.
// A Normalizer is stateless between calls; block accumulators are local to a
// single invocation, so concurrent use on different inputs is safe.
type Normalizer struct {
	rules platform.Rules
}

// New returns a Normalizer for p. Platforms without trunk-grammar support get
// a pass-through Normalizer.
func New(p platform.Platform) *Normalizer {
	return &Normalizer{rules: platform.RulesFor(p)}
}

// Config normalizes a single configuration. Lines matching the trunk grammar
// inside each interface block are merged into one canonical ranged line at
// the position of the first VLAN line. Parse failures are reported joined
// into the returned error while the affected lines pass through untouched.
func (n *Normalizer) Config(lines []string) ([]string, error) {
	if !n.rules.TrunkGrammar {
		return append([]string(nil), lines...), nil
	}

	var out []string
	var errs []error
	for i := 0; i < len(lines); {
		line := lines[i]
		if !ifaceRe.MatchString(strings.TrimSpace(line)) {
			out = append(out, line)
			i++
			continue
		}
		// Collect the interface block up to the next interface line.
		block := []string{line}
		j := i + 1
		for j < len(lines) && !ifaceRe.MatchString(strings.TrimSpace(lines[j])) {
			block = append(block, lines[j])
			j++
		}
		normalized, err := normalizeBlock(block)
		if err != nil {
			errs = append(errs, err)
		}
		out = append(out, normalized...)
		i = j
	}
	return out, errors.Join(errs...)
}

// normalizeBlock merges the VLAN trunk lines of one interface block. Init and
// add lines may appear in any order and may be interleaved with other
// configuration lines.
func normalizeBlock(block []string) ([]string, error) {
	hasVlan := false
	for _, line := range block {
		if vlanAddRe.MatchString(line) || vlanInitRe.MatchString(line) {
			hasVlan = true
			break
		}
	}
	if !hasVlan {
		return block, nil
	}

	accumulated := make(map[int]struct{})
	firstVlanIdx := -1
	vlanIndent := " "
	type indexedLine struct {
		idx  int
		text string
	}
	var rest []indexedLine
	var errs []error

	for idx, line := range block {
		var m []string
		if m = vlanAddRe.FindStringSubmatch(line); m == nil {
			m = vlanInitRe.FindStringSubmatch(line)
		}
		if m == nil {
			rest = append(rest, indexedLine{idx: idx, text: line})
			continue
		}
		ids, err := ExpandIDs(m[2])
		if err != nil {
			// Degrade to pass-through for this line only.
			errs = append(errs, fmt.Errorf("line %q: %w", strings.TrimSpace(line), err))
			rest = append(rest, indexedLine{idx: idx, text: line})
			continue
		}
		if firstVlanIdx < 0 {
			firstVlanIdx = idx
			vlanIndent = m[1]
		}
		for v := range ids {
			accumulated[v] = struct{}{}
		}
	}

	// An emptied set suppresses the canonical line rather than emitting an
	// empty range string.
	if len(accumulated) == 0 || firstVlanIdx < 0 {
		return block, errors.Join(errs...)
	}

	merged := fmt.Sprintf("%sswitchport trunk allowed vlan %s", vlanIndent, IDsToRanges(accumulated))

	result := make([]string, 0, len(rest)+1)
	inserted := false
	for _, ln := range rest {
		if !inserted && ln.idx > firstVlanIdx {
			result = append(result, merged)
			inserted = true
		}
		result = append(result, ln.text)
	}
	if !inserted {
		result = append(result, merged)
	}
	return result, errors.Join(errs...)
}

// vlanInfo is the per-interface accumulator extracted from a normalized
// config: the trunk line's indentation and its VLAN ID set.
type vlanInfo struct {
	indent string
	ids    map[int]struct{}
}

// extractVlanInfo maps lowercased interface names to their trunk VLAN sets.
func extractVlanInfo(lines []string) map[string]vlanInfo {
	info := make(map[string]vlanInfo)
	current := ""
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if ifaceRe.MatchString(stripped) {
			current = strings.ToLower(stripped)
			continue
		}
		if current == "" {
			continue
		}
		if m := vlanInitRe.FindStringSubmatch(line); m != nil {
			ids, err := ExpandIDs(m[2])
			if err != nil {
				continue
			}
			info[current] = vlanInfo{indent: m[1], ids: ids}
		}
	}
	return info
}

// injectAnnotations inserts each interface's annotation line directly after
// its canonical trunk line.
func injectAnnotations(lines []string, annotations map[string]string) []string {
	out := make([]string, 0, len(lines)+len(annotations))
	current := ""
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if ifaceRe.MatchString(stripped) {
			current = strings.ToLower(stripped)
		}
		out = append(out, line)
		if current != "" && vlanInitRe.MatchString(line) {
			if ann, ok := annotations[current]; ok {
				out = append(out, ann)
			}
		}
	}
	return out
}

// Pair normalizes both configs and, for every interface present in both with
// differing VLAN sets, injects an identical annotation line after the trunk
// line on both sides:
//
//	! [vlan diff]  -delete:96,162-168  +add:181-189
//
// Because the text matches on both sides the row always compares equal,
// serving purely as an explanatory marker.
func (n *Normalizer) Pair(src, tgt []string) ([]string, []string, error) {
	srcNorm, srcErr := n.Config(src)
	tgtNorm, tgtErr := n.Config(tgt)
	err := errors.Join(srcErr, tgtErr)
	if !n.rules.TrunkGrammar {
		return srcNorm, tgtNorm, err
	}

	srcInfo := extractVlanInfo(srcNorm)
	tgtInfo := extractVlanInfo(tgtNorm)

	annotations := make(map[string]string)
	for iface, s := range srcInfo {
		t, ok := tgtInfo[iface]
		if !ok {
			continue
		}
		deleted := difference(s.ids, t.ids)
		added := difference(t.ids, s.ids)
		if len(deleted) == 0 && len(added) == 0 {
			continue
		}
		var parts []string
		if len(deleted) > 0 {
			parts = append(parts, "-delete:"+IDsToRanges(deleted))
		}
		if len(added) > 0 {
			parts = append(parts, "+add:"+IDsToRanges(added))
		}
		annotations[iface] = fmt.Sprintf("%s%s  %s", s.indent, AnnotationMarker, strings.Join(parts, "  "))
	}

	if len(annotations) == 0 {
		return srcNorm, tgtNorm, err
	}
	return injectAnnotations(srcNorm, annotations), injectAnnotations(tgtNorm, annotations), err
}

func difference(a, b map[int]struct{}) map[int]struct{} {
	out := make(map[int]struct{})
	for v := range a {
		if _, ok := b[v]; !ok {
			out[v] = struct{}{}
		}
	}
	return out
}
