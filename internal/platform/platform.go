// Package platform maps device platforms to the structural rules the
// comparison engine needs: the indentation unit that encodes nesting and
// whether the VLAN trunk grammar applies. The rule table is built once at
// process start and is never mutated afterwards; callers receive it by value.
package platform

import "fmt"

// Platform identifies the configuration dialect of the input texts.
type Platform string

const (
	CiscoIOS        Platform = "CISCO_IOS"
	CiscoNXOS       Platform = "CISCO_NXOS"
	CiscoXR         Platform = "CISCO_XR"
	AristaEOS       Platform = "ARISTA_EOS"
	JuniperJunOS    Platform = "JUNIPER_JUNOS"
	FortinetFortiOS Platform = "FORTINET_FORTIOS"
	HPComware5      Platform = "HP_COMWARE5"
	HPProcurve      Platform = "HP_PROCURVE"
	VyOS            Platform = "VYOS"
	Generic         Platform = "GENERIC"
)

// Rules are the per-platform knobs consumed by the hierarchy resolver and the
// VLAN trunk normalizer.
type Rules struct {
	// IndentUnit is the whitespace string representing one nesting level.
	// The resolver compares raw indentation widths, so this only matters
	// for re-emitting synthetic lines at the right depth.
	IndentUnit string

	// TrunkGrammar reports whether "switchport trunk allowed vlan" lines
	// are recognized and normalized for this platform.
	TrunkGrammar bool
}

// ruleTable is the single ownership point for platform constants. Unsupported
// platforms fall back to indentation-only analysis with normalization off.
var ruleTable = map[Platform]Rules{
	CiscoIOS: {IndentUnit: " ", TrunkGrammar: true},
}

var fallbackRules = Rules{IndentUnit: " ", TrunkGrammar: false}

// All lists every recognized platform, supported ones first.
func All() []Platform {
	return []Platform{
		CiscoIOS, CiscoNXOS, CiscoXR, AristaEOS, JuniperJunOS,
		FortinetFortiOS, HPComware5, HPProcurve, VyOS, Generic,
	}
}

// Supported reports whether p has full structural + trunk-grammar support.
func Supported(p Platform) bool {
	_, ok := ruleTable[p]
	return ok
}

// RulesFor returns the rules for p, falling back to indentation-only analysis
// for platforms without dedicated support.
func RulesFor(p Platform) Rules {
	if r, ok := ruleTable[p]; ok {
		return r
	}
	return fallbackRules
}

// Parse resolves a platform name. Unknown names are an error so CLI/API
// callers surface typos instead of silently degrading.
func Parse(name string) (Platform, error) {
	for _, p := range All() {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown platform %q", name)
}
