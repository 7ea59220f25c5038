// Package ignore manages the regex patterns that suppress known-noisy lines
// (timestamps, ntp clock-period, etc.) from a rendered diff. Filtering is a
// caller-side concern: patterns re-type already-aligned rows, the comparison
// core itself has no ignore logic.
package ignore

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/raysh454/configlens/internal/align"
	"github.com/raysh454/configlens/internal/settings"
)

// Manager holds a compiled pattern list, optionally persisted via settings.
type Manager struct {
	settings *settings.Settings
	patterns []string
	compiled []*regexp.Regexp
}

// NewManager loads persisted patterns from st. Invalid or non-string entries
// in the file are skipped silently, matching load-time leniency: a corrupt
// pattern should not make the whole app unusable.
func NewManager(st *settings.Settings) *Manager {
	m := &Manager{settings: st}
	for _, p := range st.IgnorePatterns() {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		m.patterns = append(m.patterns, p)
		m.compiled = append(m.compiled, re)
	}
	return m
}

// FromPatterns builds an unpersisted Manager, failing on any invalid regex.
// Used for one-shot CLI --ignore flags where silence would hide a typo.
func FromPatterns(patterns []string) (*Manager, error) {
	m := &Manager{}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		m.patterns = append(m.patterns, p)
		m.compiled = append(m.compiled, re)
	}
	return m, nil
}

// Patterns returns a copy of the registered patterns.
func (m *Manager) Patterns() []string {
	return append([]string(nil), m.patterns...)
}

// Add registers a pattern and persists the list. Empty and duplicate
// patterns are rejected.
func (m *Manager) Add(pattern string) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return fmt.Errorf("empty ignore pattern")
	}
	for _, existing := range m.patterns {
		if existing == pattern {
			return fmt.Errorf("pattern %q already registered", pattern)
		}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
	}
	m.patterns = append(m.patterns, pattern)
	m.compiled = append(m.compiled, re)
	return m.save()
}

// Remove deletes a pattern and persists the list. Unknown patterns are a
// no-op.
func (m *Manager) Remove(pattern string) error {
	for i, existing := range m.patterns {
		if existing == pattern {
			m.patterns = append(m.patterns[:i], m.patterns[i+1:]...)
			m.compiled = append(m.compiled[:i], m.compiled[i+1:]...)
			return m.save()
		}
	}
	return nil
}

func (m *Manager) save() error {
	if m.settings == nil {
		return nil
	}
	return m.settings.SetIgnorePatterns(m.patterns)
}

// Matches reports whether any pattern matches line.
func (m *Manager) Matches(line string) bool {
	for _, re := range m.compiled {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// Apply re-types every aligned row whose visible line matches a pattern to
// "ignore" on both sides, in place. The source text decides; padded source
// rows fall back to the target text.
func (m *Manager) Apply(rows []align.Row, sourceTypes, targetTypes []align.DiffType) {
	if len(m.compiled) == 0 {
		return
	}
	for i, row := range rows {
		line := row.Source
		if line == "" {
			line = row.Target
		}
		if m.Matches(line) {
			sourceTypes[i] = align.Ignore
			targetTypes[i] = align.Ignore
		}
	}
}
