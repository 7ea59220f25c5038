package compare

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/raysh454/configlens/internal/align"
)

// ChunkType classifies a span inside a replaced line.
type ChunkType string

const (
	ChunkEqual   ChunkType = "equal"
	ChunkAdded   ChunkType = "added"
	ChunkRemoved ChunkType = "removed"
)

// InlineChunk is a contiguous span of a replace row's text pair.
type InlineChunk struct {
	Type ChunkType `json:"type"`
	Text string    `json:"text"`
}

// InlineChunks computes the character-level difference between the two sides
// of a replace row so renderers can highlight the modified span inside the
// line instead of the whole line.
func InlineChunks(source, target string) []InlineChunk {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(source, target, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	chunks := make([]InlineChunk, 0, len(diffs))
	for _, d := range diffs {
		var ct ChunkType
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			ct = ChunkAdded
		case diffmatchpatch.DiffDelete:
			ct = ChunkRemoved
		case diffmatchpatch.DiffEqual:
			ct = ChunkEqual
		}
		chunks = append(chunks, InlineChunk{Type: ct, Text: d.Text})
	}
	return chunks
}

// RowChunks returns inline chunks for every replace row, keyed by row index.
// Other row types have no intra-line difference worth computing.
func RowChunks(rows []align.Row) map[int][]InlineChunk {
	out := make(map[int][]InlineChunk)
	for i, r := range rows {
		if r.Type() != align.Replace {
			continue
		}
		if strings.TrimSpace(r.Source) == "" && strings.TrimSpace(r.Target) == "" {
			continue
		}
		out[i] = InlineChunks(r.Source, r.Target)
	}
	return out
}
