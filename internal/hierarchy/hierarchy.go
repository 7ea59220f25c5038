// Package hierarchy reconstructs the parent/child structure of an
// indentation-nested configuration text and turns each line into a canonical
// comparison key. A line's parent is the nearest preceding line with strictly
// smaller indentation; depth-0 lines start a new root. Indentation widths are
// compared, not counted in discrete levels, so irregular indentation still
// produces a nesting relationship.
package hierarchy

import "strings"

// KeySeparator joins ancestor texts into a comparison key. Chosen to be
// vanishingly unlikely inside real configuration text.
const KeySeparator = " > "

// Path is the ancestor chain of a line, outermost first, ending in the line
// itself. Elements are whitespace-stripped line texts.
type Path []string

// Key joins the path into a single comparison key. Two lines with identical
// ancestor chain and own text produce an identical key regardless of their
// absolute line numbers.
func (p Path) Key() string {
	return strings.Join(p, KeySeparator)
}

// indentWidth counts the leading whitespace of line.
func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

type stackEntry struct {
	indent int
	text   string
}

// Resolve computes one Path per input line. It never fails: malformed or
// empty input yields an empty slice, and every line gets exactly one path
// independent of content.
func Resolve(lines []string) []Path {
	paths := make([]Path, 0, len(lines))
	var stack []stackEntry
	for _, line := range lines {
		indent := indentWidth(line)
		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, stackEntry{indent: indent, text: strings.TrimSpace(line)})
		path := make(Path, len(stack))
		for i, e := range stack {
			path[i] = e.text
		}
		paths = append(paths, path)
	}
	return paths
}

// Keys returns the comparison key of every input line.
func Keys(lines []string) []string {
	paths := Resolve(lines)
	keys := make([]string, len(paths))
	for i, p := range paths {
		keys[i] = p.Key()
	}
	return keys
}
