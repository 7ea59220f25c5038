// Package loader reads configuration files into the line slices the
// comparison engine consumes: UTF-8, BOM stripped, line terminators removed.
// The engine itself never touches the filesystem.
package loader

import (
	"fmt"
	"os"
	"strings"
)

// Lines reads path and returns its terminator-stripped lines. CRLF and bare
// CR inputs are handled; a UTF-8 BOM on the first line is dropped. An empty
// file yields an empty slice.
func Lines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Split(string(data)), nil
}

// Split turns raw text into terminator-stripped lines.
func Split(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}
