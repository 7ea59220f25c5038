package normalize_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/raysh454/configlens/internal/normalize"
	"github.com/raysh454/configlens/internal/platform"
)

func newNormalizer(t *testing.T) *normalize.Normalizer {
	t.Helper()
	return normalize.New(platform.CiscoIOS)
}

func idSet(ids ...int) map[int]struct{} {
	out := make(map[int]struct{}, len(ids))
	for _, v := range ids {
		out[v] = struct{}{}
	}
	return out
}

func TestExpandIDs(t *testing.T) {
	t.Parallel()

	got, err := normalize.ExpandIDs("1,3-5, 10")
	if err != nil {
		t.Fatalf("ExpandIDs: %v", err)
	}
	want := idSet(1, 3, 4, 5, 10)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExpandIDs_Malformed(t *testing.T) {
	t.Parallel()

	for _, spec := range []string{"1,abc", "10-", "-5"} {
		if _, err := normalize.ExpandIDs(spec); !errors.Is(err, normalize.ErrMalformedVlanRange) {
			t.Errorf("spec %q: expected ErrMalformedVlanRange, got %v", spec, err)
		}
	}
}

func TestIDsToRanges(t *testing.T) {
	t.Parallel()

	cases := []struct {
		ids  map[int]struct{}
		want string
	}{
		{idSet(1, 2, 3, 10), "1-3,10"},
		{idSet(5), "5"},
		{idSet(), ""},
		{idSet(7, 9, 8, 20, 22), "7-9,20,22"},
	}
	for _, tc := range cases {
		if got := normalize.IDsToRanges(tc.ids); got != tc.want {
			t.Errorf("IDsToRanges(%v): expected %q, got %q", tc.ids, tc.want, got)
		}
	}
}

func TestExpandAndRangesRoundTrip(t *testing.T) {
	t.Parallel()

	spec := "1-3,10,12-14"
	ids, err := normalize.ExpandIDs(spec)
	if err != nil {
		t.Fatalf("ExpandIDs: %v", err)
	}
	if got := normalize.IDsToRanges(ids); got != spec {
		t.Errorf("round trip changed the spec: %q -> %q", spec, got)
	}
}

func TestConfig_MergesAddLines(t *testing.T) {
	t.Parallel()

	n := newNormalizer(t)
	in := []string{
		"interface Gi0/1",
		" switchport trunk allowed vlan 1,2,3",
		" switchport trunk allowed vlan add 10",
		" shutdown",
	}
	out, err := n.Config(in)
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	want := []string{
		"interface Gi0/1",
		" switchport trunk allowed vlan 1-3,10",
		" shutdown",
	}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("expected %v, got %v", want, out)
	}
}

func TestConfig_Idempotent(t *testing.T) {
	t.Parallel()

	n := newNormalizer(t)
	in := []string{
		"interface Gi0/1",
		" switchport trunk allowed vlan 100-110",
		" switchport trunk allowed vlan add 200,201",
	}
	once, err := n.Config(in)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	twice, err := n.Config(once)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalization is not idempotent:\nonce  %v\ntwice %v", once, twice)
	}
}

func TestConfig_CaseInsensitiveGrammar(t *testing.T) {
	t.Parallel()

	n := newNormalizer(t)
	in := []string{
		"Interface Gi0/1",
		" Switchport Trunk Allowed Vlan 5",
		" SWITCHPORT TRUNK ALLOWED VLAN ADD 6",
	}
	out, err := n.Config(in)
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 lines after merging, got %v", out)
	}
	if out[1] != " switchport trunk allowed vlan 5-6" {
		t.Errorf("unexpected canonical line %q", out[1])
	}
}

func TestConfig_MalformedLinePassesThrough(t *testing.T) {
	t.Parallel()

	n := newNormalizer(t)
	in := []string{
		"interface Gi0/1",
		" switchport trunk allowed vlan 1,2",
		" switchport trunk allowed vlan add 3-",
	}
	out, err := n.Config(in)
	if !errors.Is(err, normalize.ErrMalformedVlanRange) {
		t.Fatalf("expected ErrMalformedVlanRange, got %v", err)
	}

	var keptMalformed, mergedValid bool
	for _, line := range out {
		if line == " switchport trunk allowed vlan add 3-" {
			keptMalformed = true
		}
		if line == " switchport trunk allowed vlan 1-2" {
			mergedValid = true
		}
	}
	if !keptMalformed {
		t.Errorf("malformed line should pass through untouched: %v", out)
	}
	if !mergedValid {
		t.Errorf("valid lines should still merge: %v", out)
	}
}

func TestConfig_LinesOutsideInterfaceBlocksUntouched(t *testing.T) {
	t.Parallel()

	n := newNormalizer(t)
	in := []string{
		"hostname r1",
		"vlan 10",
		" name users",
	}
	out, err := n.Config(in)
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("non-trunk config must pass through unchanged: %v", out)
	}
}

func TestConfig_UnsupportedPlatformPassesThrough(t *testing.T) {
	t.Parallel()

	n := normalize.New(platform.JuniperJunOS)
	in := []string{
		"interface Gi0/1",
		" switchport trunk allowed vlan 1,2",
		" switchport trunk allowed vlan add 3",
	}
	out, err := n.Config(in)
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("platforms without trunk grammar must not rewrite: %v", out)
	}
}

func TestPair_InjectsIdenticalAnnotationBothSides(t *testing.T) {
	t.Parallel()

	n := newNormalizer(t)
	src := []string{
		"interface Gi0/1",
		" switchport trunk allowed vlan 1-5",
	}
	tgt := []string{
		"interface Gi0/1",
		" switchport trunk allowed vlan 1-3",
		" switchport trunk allowed vlan add 10",
	}

	srcOut, tgtOut, err := n.Pair(src, tgt)
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}

	wantAnn := " ! [vlan diff]  -delete:4-5  +add:10"
	srcAnn := findAnnotation(srcOut)
	tgtAnn := findAnnotation(tgtOut)
	if srcAnn != wantAnn {
		t.Errorf("source annotation: expected %q, got %q", wantAnn, srcAnn)
	}
	if srcAnn != tgtAnn {
		t.Errorf("annotation must be identical on both sides: %q vs %q", srcAnn, tgtAnn)
	}

	// The annotation sits directly after the canonical trunk line.
	for i, line := range srcOut {
		if line == " switchport trunk allowed vlan 1-5" {
			if i+1 >= len(srcOut) || !normalize.IsAnnotation(srcOut[i+1]) {
				t.Error("annotation must follow the trunk line")
			}
		}
	}
}

func TestPair_EqualSetsProduceNoAnnotation(t *testing.T) {
	t.Parallel()

	n := newNormalizer(t)
	src := []string{
		"interface Gi0/1",
		" switchport trunk allowed vlan 1-3",
		" switchport trunk allowed vlan add 10",
	}
	tgt := []string{
		"interface Gi0/1",
		" switchport trunk allowed vlan 1,2,3,10",
	}

	srcOut, tgtOut, err := n.Pair(src, tgt)
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}
	if findAnnotation(srcOut) != "" || findAnnotation(tgtOut) != "" {
		t.Error("identical VLAN sets must not produce an annotation")
	}
	if !reflect.DeepEqual(srcOut, tgtOut) {
		t.Errorf("wrap-only differences must normalize identically:\nsrc %v\ntgt %v", srcOut, tgtOut)
	}
}

func TestPair_InterfaceMissingOnOneSide(t *testing.T) {
	t.Parallel()

	n := newNormalizer(t)
	src := []string{
		"interface Gi0/1",
		" switchport trunk allowed vlan 1-5",
	}
	tgt := []string{"hostname r1"}

	srcOut, tgtOut, err := n.Pair(src, tgt)
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}
	if findAnnotation(srcOut) != "" || findAnnotation(tgtOut) != "" {
		t.Error("an interface present on one side only must not be annotated")
	}
}

func TestIsAnnotation(t *testing.T) {
	t.Parallel()

	if !normalize.IsAnnotation("  ! [vlan diff]  +add:5") {
		t.Error("annotation line not recognized")
	}
	if normalize.IsAnnotation("! regular comment") {
		t.Error("ordinary comment misrecognized as annotation")
	}
}

func findAnnotation(lines []string) string {
	for _, l := range lines {
		if normalize.IsAnnotation(l) {
			return l
		}
	}
	return ""
}
