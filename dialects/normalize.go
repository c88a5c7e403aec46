package dialects

import (
	"regexp"
	"strconv"
	"strings"
)

var macDotGroupedRegex = regexp.MustCompile(`^([0-9a-f]{4})\.([0-9a-f]{4})\.([0-9a-f]{4})$`)
var macPlainRegex = regexp.MustCompile(`^[0-9a-f]{12}$`)
var aggregatePortRegex = regexp.MustCompile(`^(po\d+|mpo\d+|bond\d+|ae\d+|peerlink(\.\d+)?)$`)
var breakoutSlashRegex = regexp.MustCompile(`^(eth\d+/\d+)/(\d+)$`)
var breakoutSubRegex = regexp.MustCompile(`^(swp\d+)s(\d+)$`)
var speedRegex = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*([mgt])?(?:b(?:p?s)?)?$`)

// Long vendor port names mapped to the canonical short scheme.
// Longer prefixes must come first.
var portLongNames = []struct {
	prefix string
	short  string
}{
	{"mlag-port-channel", "mpo"},
	{"port-channel", "po"},
	{"ethernet", "eth"},
}

// NormalizeMAC converts any vendor MAC spelling (colon-, hyphen- or
// dot-grouped) to the canonical colon-delimited lowercase form.
func NormalizeMAC(raw string) (string, bool) {
	mac := strings.ToLower(strings.TrimSpace(raw))
	mac = strings.ReplaceAll(mac, "-", ":")
	if result := macDotGroupedRegex.FindStringSubmatch(mac); result != nil {
		mac = result[1] + result[2] + result[3]
	}
	stripped := strings.ReplaceAll(mac, ":", "")
	if !macPlainRegex.MatchString(stripped) {
		return "", false
	}
	parts := make([]string, 0, 6)
	for i := 0; i < 12; i += 2 {
		parts = append(parts, stripped[i:i+2])
	}
	return strings.Join(parts, ":"), true
}

// NormalizePort converts a vendor port name to the canonical lowercase short
// scheme (Ethernet1/1 and Eth1/1 both become eth1/1). Breakout sub-port
// identity is preserved distinctly from the parent port.
func NormalizePort(raw string) string {
	port := strings.ToLower(strings.TrimSpace(raw))
	for _, name := range portLongNames {
		if strings.HasPrefix(port, name.prefix) {
			return name.short + port[len(name.prefix):]
		}
	}
	return port
}

// IsAggregatePort reports whether a port name is a link-aggregation or
// port-channel pseudo-interface. MAC table entries on these are never
// promoted to link assignments.
func IsAggregatePort(raw string) bool {
	return aggregatePortRegex.MatchString(NormalizePort(raw))
}

// SplitBreakout returns the parent port and sub-port index for a breakout
// child (eth1/1/2 or swp1s0). ok is false for non-breakout ports.
func SplitBreakout(canonical string) (parent string, sub int, ok bool) {
	if result := breakoutSlashRegex.FindStringSubmatch(canonical); result != nil {
		sub, _ = strconv.Atoi(result[2])
		return result[1], sub, true
	}
	if result := breakoutSubRegex.FindStringSubmatch(canonical); result != nil {
		sub, _ = strconv.Atoi(result[2])
		return result[1], sub, true
	}
	return "", 0, false
}

// IsVirtualMAC reports whether a canonical MAC matches one of the known
// virtual-function vendor prefixes.
func IsVirtualMAC(mac string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix == "" {
			continue
		}
		if strings.HasPrefix(mac, strings.ToLower(strings.TrimSpace(prefix))) {
			return true
		}
	}
	return false
}

// ParseSpeedMbps converts vendor speed spellings (100G, 25g, 40000, 1000Mb/s)
// to Mbit/s. Returns 0 for unknown/auto/absent speeds.
func ParseSpeedMbps(raw string) uint {
	speed := strings.ToLower(strings.TrimSpace(raw))
	speed = strings.TrimSuffix(speed, "/s")
	result := speedRegex.FindStringSubmatch(speed)
	if result == nil {
		return 0
	}
	value, err := strconv.ParseFloat(result[1], 64)
	if err != nil {
		return 0
	}
	switch result[2] {
	case "g":
		value *= 1000
	case "t":
		value *= 1000 * 1000
	}
	return uint(value)
}
