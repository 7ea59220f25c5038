package compare_test

import (
	"errors"
	"testing"

	"github.com/raysh454/configlens/internal/align"
	"github.com/raysh454/configlens/internal/compare"
	"github.com/raysh454/configlens/internal/normalize"
	"github.com/raysh454/configlens/internal/platform"
)

func TestAlign_WithoutNormalization(t *testing.T) {
	t.Parallel()

	c := compare.New(platform.CiscoIOS)
	rows, err := c.Align(
		[]string{"hostname r1", "ip http server"},
		[]string{"hostname r1"},
		false,
	)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].Type() != align.Delete {
		t.Errorf("expected delete, got %s", rows[1].Type())
	}
}

func TestAlign_NormalizationMakesWrappedTrunksEqual(t *testing.T) {
	t.Parallel()

	c := compare.New(platform.CiscoIOS)
	src := []string{
		"interface Gi0/1",
		" switchport trunk allowed vlan 1-3",
		" switchport trunk allowed vlan add 10",
	}
	tgt := []string{
		"interface Gi0/1",
		" switchport trunk allowed vlan 1,2,3,10",
	}

	rows, types, err := c.AlignWithDiffInfo(src, tgt, true)
	if err != nil {
		t.Fatalf("AlignWithDiffInfo: %v", err)
	}
	for i, dt := range types {
		if dt != align.Equal {
			t.Errorf("row %d (%q / %q): expected equal after normalization, got %s",
				i, rows[i].Source, rows[i].Target, dt)
		}
	}
}

func TestAlign_AnnotationRowComparesEqual(t *testing.T) {
	t.Parallel()

	c := compare.New(platform.CiscoIOS)
	src := []string{
		"interface Gi0/1",
		" switchport trunk allowed vlan 1-5",
	}
	tgt := []string{
		"interface Gi0/1",
		" switchport trunk allowed vlan 1-3",
	}

	rows, types, err := c.AlignWithDiffInfo(src, tgt, true)
	if err != nil {
		t.Fatalf("AlignWithDiffInfo: %v", err)
	}

	found := false
	for i, r := range rows {
		if normalize.IsAnnotation(r.Source) {
			found = true
			if types[i] != align.Equal {
				t.Errorf("annotation row must compare equal, got %s", types[i])
			}
			if r.Source != r.Target {
				t.Errorf("annotation must be identical on both sides: %q vs %q", r.Source, r.Target)
			}
		}
	}
	if !found {
		t.Error("expected an injected annotation row")
	}
}

func TestAlign_MalformedVlanIsNonFatal(t *testing.T) {
	t.Parallel()

	c := compare.New(platform.CiscoIOS)
	src := []string{
		"interface Gi0/1",
		" switchport trunk allowed vlan 1-",
	}
	rows, err := c.Align(src, src, true)
	if !errors.Is(err, normalize.ErrMalformedVlanRange) {
		t.Fatalf("expected ErrMalformedVlanRange, got %v", err)
	}
	if len(rows) == 0 {
		t.Error("alignment must still be produced alongside the error")
	}
}

func TestAlignWithStructuralDiffInfo_ReorderDetected(t *testing.T) {
	t.Parallel()

	c := compare.New(platform.CiscoIOS)
	res, err := c.AlignWithStructuralDiffInfo(
		[]string{"ntp server 1.1.1.1", "ntp server 2.2.2.2", "logging host 10.0.0.9"},
		[]string{"logging host 10.0.0.9", "ntp server 1.1.1.1", "ntp server 2.2.2.2"},
		false,
	)
	if err != nil {
		t.Fatalf("AlignWithStructuralDiffInfo: %v", err)
	}

	if _, ok := res.Counterparts["logging host 10.0.0.9"]; !ok {
		t.Errorf("expected a counterpart entry for the moved line, got %v", res.Counterparts)
	}
	if !res.HasDiff() {
		t.Error("a reorder is still a structural difference")
	}
}

func TestInlineChunks_ReconstructBothSides(t *testing.T) {
	t.Parallel()

	source := " switchport mode trunk"
	target := " switchport mode access"
	chunks := compare.InlineChunks(source, target)

	var rebuiltSrc, rebuiltTgt string
	for _, ch := range chunks {
		switch ch.Type {
		case compare.ChunkEqual:
			rebuiltSrc += ch.Text
			rebuiltTgt += ch.Text
		case compare.ChunkRemoved:
			rebuiltSrc += ch.Text
		case compare.ChunkAdded:
			rebuiltTgt += ch.Text
		}
	}
	if rebuiltSrc != source {
		t.Errorf("chunks do not reconstruct the source: %q", rebuiltSrc)
	}
	if rebuiltTgt != target {
		t.Errorf("chunks do not reconstruct the target: %q", rebuiltTgt)
	}

	var hasEqual, hasChange bool
	for _, ch := range chunks {
		if ch.Type == compare.ChunkEqual {
			hasEqual = true
		} else {
			hasChange = true
		}
	}
	if !hasEqual || !hasChange {
		t.Errorf("expected mixed chunk types for a partial change, got %+v", chunks)
	}
}

func TestRowChunks_OnlyReplaceRows(t *testing.T) {
	t.Parallel()

	rows := []align.Row{
		{Source: "a", Target: "a", SourceKey: "a", TargetKey: "a"},
		{Source: "mtu 9000", Target: "mtu 1500", SourceKey: "mtu 9000", TargetKey: "mtu 1500"},
		{Source: "b", SourceKey: "b"},
	}
	chunks := compare.RowChunks(rows)

	if len(chunks) != 1 {
		t.Fatalf("expected chunks for exactly the replace row, got %v", chunks)
	}
	if _, ok := chunks[1]; !ok {
		t.Error("expected chunks keyed by the replace row index 1")
	}
}
