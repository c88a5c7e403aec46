package dialects

import (
	"regexp"
	"strconv"
	"strings"

	"dev.rackwire.net/fabricmap/common"
)

// Cisco Nexus NX-OS. Direct command execution works, dot-grouped MAC
// spelling and long interface names.

var nxosPromptRegex = regexp.MustCompile(`[\w.-]+[>#] ?$`)
var nxosProbeRegex = regexp.MustCompile(`Cisco Nexus Operating System|NX-OS`)
var nxosHostnameRegex = regexp.MustCompile(`^[\w.-]+$`)
var nxosMACTableHeaderRegex = regexp.MustCompile(`VLAN\s+MAC Address\s+Type`)
var nxosMACTableEntryRegex = regexp.MustCompile(`^[*+]?\s*(\d+)\s+([0-9a-fA-F]{4}\.[0-9a-fA-F]{4}\.[0-9a-fA-F]{4})\s+(\w+)\s+\S+\s+\S+\s+\S+\s+(\S+)\s*$`)
var nxosNeighborHeaderRegex = regexp.MustCompile(`Device ID\s+Local Intf\s+Hold-time\s+Capability\s+Port ID`)
var nxosNeighborEntryRegex = regexp.MustCompile(`^(\S+)\s+(Eth\S+)\s+(\d+)\s+(?:([A-Z,]+)\s+)?(\S+)\s*$`)
var nxosPortHeaderRegex = regexp.MustCompile(`Port\s+Name\s+Status\s+Vlan`)
var nxosPortEntryRegex = regexp.MustCompile(`^(Eth\S+)\s+.*?\s+(connected|notconnec\w*|disabled|sfpAbsent|xcvrAbsen\w*|noOperMem\w*)\s+(\S+)\s+(\S+)\s+(\S+)\s+\S+\s*$`)

type nxosDialect struct{}

func (d *nxosDialect) Name() string                  { return DialectNXOS }
func (d *nxosDialect) Interactive() bool             { return false }
func (d *nxosDialect) PromptPattern() *regexp.Regexp { return nxosPromptRegex }
func (d *nxosDialect) ProbeCommand() string          { return "show version" }
func (d *nxosDialect) HostnameCommand() string       { return "show hostname" }
func (d *nxosDialect) MACTableCommand() string       { return "show mac address-table" }
func (d *nxosDialect) NeighborCommand() string       { return "show lldp neighbors" }
func (d *nxosDialect) PortCommand() string           { return "show interface status" }

func (d *nxosDialect) MatchesProbe(lines []string) bool {
	for _, line := range lines {
		if nxosProbeRegex.MatchString(line) {
			return true
		}
	}
	return false
}

func (d *nxosDialect) ParseHostname(lines []string) string {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if nxosHostnameRegex.MatchString(line) {
			return line
		}
	}
	return ""
}

func (d *nxosDialect) ParseMACTable(lines []string, filter Filter) (MACTableResult, error) {
	var result MACTableResult
	foundHeader := false
	for _, line := range lines {
		if nxosMACTableHeaderRegex.MatchString(line) {
			foundHeader = true
			continue
		}
		entry := nxosMACTableEntryRegex.FindStringSubmatch(line)
		if entry == nil {
			// Skip legend, separator and summary lines
			continue
		}
		vlan, err := strconv.ParseUint(entry[1], 10, 12)
		if err != nil {
			continue
		}
		appendMACEntry(&result, filter, uint(vlan), entry[2], strings.EqualFold(entry[3], "static"), entry[4])
	}
	if !foundHeader && len(result.Entries) == 0 {
		return result, common.ErrParseFailed
	}
	return result, nil
}

func (d *nxosDialect) ParseNeighbors(lines []string) ([]common.NeighborLink, error) {
	var neighbors []common.NeighborLink
	foundHeader := false
	for _, line := range lines {
		if nxosNeighborHeaderRegex.MatchString(line) {
			foundHeader = true
			continue
		}
		if !foundHeader {
			// Capability legend precedes the table
			continue
		}
		entry := nxosNeighborEntryRegex.FindStringSubmatch(line)
		if entry == nil {
			continue
		}
		neighbors = append(neighbors, common.NeighborLink{
			Port:         NormalizePort(entry[2]),
			RemoteSystem: entry[1],
			RemotePort:   entry[5],
		})
	}
	if !foundHeader {
		return nil, common.ErrParseFailed
	}
	return neighbors, nil
}

func (d *nxosDialect) ParsePorts(lines []string) ([]common.Port, error) {
	var ports []common.Port
	foundHeader := false
	for _, line := range lines {
		if nxosPortHeaderRegex.MatchString(line) {
			foundHeader = true
			continue
		}
		entry := nxosPortEntryRegex.FindStringSubmatch(line)
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
			SpeedMbps: ParseSpeedMbps(entry[5]),
			OperUp:    entry[2] == "connected",
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
