package dialects

import (
	"regexp"

	"dev.rackwire.net/fabricmap/common"
)

// Dialect names.
const (
	DialectOnyx    = "onyx"
	DialectNXOS    = "nxos"
	DialectCumulus = "cumulus"
)

// Filter - Caller-supplied restrictions applied while parsing MAC tables.
type Filter struct {
	DataPlaneVLAN      uint     // 0 disables the VLAN restriction
	VirtualMACPrefixes []string // canonical colon-form prefixes
}

// MACTableResult - Surviving entries plus drop counts for diagnostics.
type MACTableResult struct {
	Entries          []common.MacTableEntry
	DroppedAggregate int
	DroppedVirtual   int
	DroppedVLAN      int
}

// Dialect - Capability set implemented once per switch OS dialect. Shared
// logic never branches on dialect names; new dialects are added by
// implementing this interface and registering it in All.
type Dialect interface {
	Name() string
	// Interactive reports whether this dialect's accounts enforce a restricted
	// interactive shell that rejects command-as-argument execution.
	Interactive() bool
	PromptPattern() *regexp.Regexp

	ProbeCommand() string
	MatchesProbe(lines []string) bool

	HostnameCommand() string
	MACTableCommand() string
	NeighborCommand() string
	PortCommand() string

	ParseHostname(lines []string) string
	ParseMACTable(lines []string, filter Filter) (MACTableResult, error)
	ParseNeighbors(lines []string) ([]common.NeighborLink, error)
	ParsePorts(lines []string) ([]common.Port, error)
}

// appendMACEntry applies the shared normalization and drop rules to one raw
// MAC table row and appends survivors to the result. The switch field is
// stamped by the collector afterwards.
func appendMACEntry(result *MACTableResult, filter Filter, vlan uint, rawMAC string, static bool, rawPort string) {
	mac, ok := NormalizeMAC(rawMAC)
	if !ok {
		return
	}
	if IsAggregatePort(rawPort) {
		result.DroppedAggregate++
		return
	}
	if IsVirtualMAC(mac, filter.VirtualMACPrefixes) {
		result.DroppedVirtual++
		return
	}
	if filter.DataPlaneVLAN != 0 && vlan != filter.DataPlaneVLAN {
		result.DroppedVLAN++
		return
	}
	result.Entries = append(result.Entries, common.MacTableEntry{
		Port:    NormalizePort(rawPort),
		RawPort: rawPort,
		MAC:     mac,
		VLAN:    vlan,
		Static:  static,
	})
}

var registered = []Dialect{
	&onyxDialect{},
	&nxosDialect{},
	&cumulusDialect{},
}

// All - Registered dialects, in probe order.
func All() []Dialect {
	return registered
}

// Get - Look up a dialect by name.
func Get(name string) (Dialect, bool) {
	for _, dialect := range registered {
		if dialect.Name() == name {
			return dialect, true
		}
	}
	return nil, false
}
