package dialects

import (
	"regexp"
	"strconv"

	"dev.rackwire.net/fabricmap/common"
)

// NVIDIA (Mellanox) Onyx / MLNX-OS. Accounts land in a restricted interactive
// CLI that rejects command-as-argument execution, so everything runs through
// the interactive shell state machine.

var onyxPromptRegex = regexp.MustCompile(`[\w.-]+(?: \[[^\]]+\])? [>#] ?$`)
var onyxProbeRegex = regexp.MustCompile(`Product name:\s+(Onyx|MLNX-OS)`)
var onyxHostnameRegex = regexp.MustCompile(`Hostname:\s+(\S+)`)
var onyxMACTableHeaderRegex = regexp.MustCompile(`Vlan\s+Mac Address\s+Type\s+Port`)
var onyxMACTableEntryRegex = regexp.MustCompile(`^\s*(\d+)\s+([0-9A-Fa-f:]{17})\s+(Dynamic|Static)\s+(\S+)\s*$`)
var onyxNeighborHeaderRegex = regexp.MustCompile(`Local Interface\s+Device ID\s+Port ID\s+System Name`)
var onyxNeighborEntryRegex = regexp.MustCompile(`^\s*((?:Eth|Po|Mpo)\S*)\s+(\S+)\s+(\S+)\s+(\S+)\s*$`)
var onyxPortHeaderRegex = regexp.MustCompile(`Port\s+Operational state\s+Speed`)
var onyxPortEntryRegex = regexp.MustCompile(`^\s*(Eth\S+)\s+(Up|Down)\s+(\S+)`)

type onyxDialect struct{}

func (d *onyxDialect) Name() string                  { return DialectOnyx }
func (d *onyxDialect) Interactive() bool             { return true }
func (d *onyxDialect) PromptPattern() *regexp.Regexp { return onyxPromptRegex }
func (d *onyxDialect) ProbeCommand() string          { return "show version" }
func (d *onyxDialect) HostnameCommand() string       { return "show hosts" }
func (d *onyxDialect) MACTableCommand() string       { return "show mac-address-table" }
func (d *onyxDialect) NeighborCommand() string       { return "show lldp remote" }
func (d *onyxDialect) PortCommand() string           { return "show interfaces ethernet status" }

func (d *onyxDialect) MatchesProbe(lines []string) bool {
	for _, line := range lines {
		if onyxProbeRegex.MatchString(line) {
			return true
		}
	}
	return false
}

func (d *onyxDialect) ParseHostname(lines []string) string {
	for _, line := range lines {
		if result := onyxHostnameRegex.FindStringSubmatch(line); result != nil {
			return result[1]
		}
	}
	return ""
}

func (d *onyxDialect) ParseMACTable(lines []string, filter Filter) (MACTableResult, error) {
	var result MACTableResult
	foundHeader := false
	for _, line := range lines {
		if onyxMACTableHeaderRegex.MatchString(line) {
			foundHeader = true
			continue
		}
		entry := onyxMACTableEntryRegex.FindStringSubmatch(line)
		if entry == nil {
			// Skip separator and summary lines
			continue
		}
		vlan, err := strconv.ParseUint(entry[1], 10, 12)
		if err != nil {
			continue
		}
		appendMACEntry(&result, filter, uint(vlan), entry[2], entry[3] == "Static", entry[4])
	}
	if !foundHeader && len(result.Entries) == 0 {
		return result, common.ErrParseFailed
	}
	return result, nil
}

func (d *onyxDialect) ParseNeighbors(lines []string) ([]common.NeighborLink, error) {
	var neighbors []common.NeighborLink
	foundHeader := false
	for _, line := range lines {
		if onyxNeighborHeaderRegex.MatchString(line) {
			foundHeader = true
			continue
		}
		entry := onyxNeighborEntryRegex.FindStringSubmatch(line)
		if entry == nil {
			continue
		}
		neighbors = append(neighbors, common.NeighborLink{
			Port:         NormalizePort(entry[1]),
			RemoteSystem: entry[4],
			RemotePort:   entry[3],
		})
	}
	if !foundHeader && len(neighbors) == 0 {
		return nil, common.ErrParseFailed
	}
	return neighbors, nil
}

func (d *onyxDialect) ParsePorts(lines []string) ([]common.Port, error) {
	var ports []common.Port
	foundHeader := false
	for _, line := range lines {
		if onyxPortHeaderRegex.MatchString(line) {
			foundHeader = true
			continue
		}
		entry := onyxPortEntryRegex.FindStringSubmatch(line)
		if entry == nil {
			continue
		}
		if IsAggregatePort(entry[1]) {
			continue
		}
		name := NormalizePort(entry[1])
		port := common.Port{
			Name:      name,
			RawName:   entry[1],
			SpeedMbps: ParseSpeedMbps(entry[3]),
			OperUp:    entry[2] == "Up",
		}
		if parent, sub, ok := SplitBreakout(name); ok {
			port.Parent = parent
			port.SubPort = sub
		}
		ports = append(ports, port)
	}
	if !foundHeader && len(ports) == 0 {
		return nil, common.ErrParseFailed
	}
	return ports, nil
}
