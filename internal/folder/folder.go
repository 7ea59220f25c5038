// Package folder compares two directories of configuration files and reports
// a per-file status, so a whole device fleet's before/after dumps can be
// triaged before diving into individual diffs.
package folder

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"
)

// Status is the comparison outcome for one relative path.
type Status string

const (
	StatusSame      Status = "same"
	StatusDiff      Status = "diff"
	StatusOnlyLeft  Status = "only_left"
	StatusOnlyRight Status = "only_right"
)

// Entry is one file's result. Paths are empty on the missing side.
type Entry struct {
	// Filename is the path relative to the scanned root.
	Filename  string `json:"filename"`
	Status    Status `json:"status"`
	LeftPath  string `json:"left_path,omitempty"`
	RightPath string `json:"right_path,omitempty"`
}

// Scanner walks two directories and pairs files by relative path.
type Scanner struct {
	// Recursive selects a full tree walk instead of a flat top-level scan.
	Recursive bool
}

// Scan returns one Entry per file found on either side, sorted by relative
// path. Equality is by content: text compared after decoding, raw bytes when
// the content is not valid UTF-8.
func (s *Scanner) Scan(leftDir, rightDir string) ([]Entry, error) {
	if err := checkDir(leftDir); err != nil {
		return nil, err
	}
	if err := checkDir(rightDir); err != nil {
		return nil, err
	}

	left, err := s.collect(leftDir)
	if err != nil {
		return nil, err
	}
	right, err := s.collect(rightDir)
	if err != nil {
		return nil, err
	}

	names := make(map[string]struct{}, len(left)+len(right))
	for n := range left {
		names[n] = struct{}{}
	}
	for n := range right {
		names[n] = struct{}{}
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	entries := make([]Entry, 0, len(sorted))
	for _, name := range sorted {
		lp, inLeft := left[name]
		rp, inRight := right[name]
		e := Entry{Filename: name, LeftPath: lp, RightPath: rp}
		switch {
		case inLeft && !inRight:
			e.Status = StatusOnlyLeft
		case !inLeft && inRight:
			e.Status = StatusOnlyRight
		default:
			same, err := sameContent(lp, rp)
			if err != nil {
				return nil, err
			}
			if same {
				e.Status = StatusSame
			} else {
				e.Status = StatusDiff
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("folder %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("folder %s: not a directory", dir)
	}
	return nil
}

// collect maps relative paths to absolute file paths.
func (s *Scanner) collect(root string) (map[string]string, error) {
	files := make(map[string]string)
	if !s.Recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Type().IsRegular() {
				files[e.Name()] = filepath.Join(root, e.Name())
			}
		}
		return files, nil
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = path
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func sameContent(left, right string) (bool, error) {
	lb, err := os.ReadFile(left)
	if err != nil {
		return false, err
	}
	rb, err := os.ReadFile(right)
	if err != nil {
		return false, err
	}
	if utf8.Valid(lb) && utf8.Valid(rb) {
		return string(lb) == string(rb), nil
	}
	return bytes.Equal(lb, rb), nil
}
