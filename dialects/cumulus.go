package dialects

import (
	"regexp"
	"strconv"
	"strings"

	"dev.rackwire.net/fabricmap/common"
)

// NVIDIA Cumulus Linux. Direct command execution against the NCLU frontend.

var cumulusPromptRegex = regexp.MustCompile(`[\w.-]+[@:][\w~/.-]+[$#] ?$`)
var cumulusProbeRegex = regexp.MustCompile(`Cumulus Linux`)
var cumulusHostnameRegex = regexp.MustCompile(`^[\w.-]+$`)
var cumulusMACTableHeaderRegex = regexp.MustCompile(`VLAN\s+Master\s+Interface\s+MAC`)
var cumulusMACTableEntryRegex = regexp.MustCompile(`^\s*(\d+|untagged)\s+(\S+)\s+(\S+)\s+([0-9a-fA-F:]{17})\b(.*)$`)
var cumulusNeighborHeaderRegex = regexp.MustCompile(`LocalPort\s+Speed\s+Mode\s+RemoteHost\s+RemotePort`)
var cumulusNeighborEntryRegex = regexp.MustCompile(`^\s*(swp\S+|eth\d+)\s+(\S+)\s+(\S+)\s+(\S+)\s+(\S+)\s*$`)
var cumulusPortHeaderRegex = regexp.MustCompile(`State\s+Name\s+Spd\s+MTU`)
var cumulusPortEntryRegex = regexp.MustCompile(`^\s*(UP|DN|ADMDN)\s+(swp\S+)\s+(\S+)\s+(\d+)`)

type cumulusDialect struct{}

func (d *cumulusDialect) Name() string                  { return DialectCumulus }
func (d *cumulusDialect) Interactive() bool             { return false }
func (d *cumulusDialect) PromptPattern() *regexp.Regexp { return cumulusPromptRegex }
func (d *cumulusDialect) ProbeCommand() string          { return "net show version" }
func (d *cumulusDialect) HostnameCommand() string       { return "hostname" }
func (d *cumulusDialect) MACTableCommand() string       { return "net show bridge macs" }
func (d *cumulusDialect) NeighborCommand() string       { return "net show lldp" }
func (d *cumulusDialect) PortCommand() string           { return "net show interface" }

func (d *cumulusDialect) MatchesProbe(lines []string) bool {
	for _, line := range lines {
		if cumulusProbeRegex.MatchString(line) {
			return true
		}
	}
	return false
}

func (d *cumulusDialect) ParseHostname(lines []string) string {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if cumulusHostnameRegex.MatchString(line) {
			return line
		}
	}
	return ""
}

func (d *cumulusDialect) ParseMACTable(lines []string, filter Filter) (MACTableResult, error) {
	var result MACTableResult
	foundHeader := false
	for _, line := range lines {
		if cumulusMACTableHeaderRegex.MatchString(line) {
			foundHeader = true
			continue
		}
		entry := cumulusMACTableEntryRegex.FindStringSubmatch(line)
		if entry == nil {
			continue
		}
		var vlan uint
		if entry[1] != "untagged" {
			parsed, err := strconv.ParseUint(entry[1], 10, 12)
			if err != nil {
				continue
			}
			vlan = uint(parsed)
		}
		static := strings.Contains(entry[5], "permanent") || strings.Contains(entry[5], "static")
		appendMACEntry(&result, filter, vlan, entry[4], static, entry[3])
	}
	if !foundHeader && len(result.Entries) == 0 {
		return result, common.ErrParseFailed
	}
	return result, nil
}

func (d *cumulusDialect) ParseNeighbors(lines []string) ([]common.NeighborLink, error) {
	var neighbors []common.NeighborLink
	foundHeader := false
	for _, line := range lines {
		if cumulusNeighborHeaderRegex.MatchString(line) {
			foundHeader = true
			continue
		}
		entry := cumulusNeighborEntryRegex.FindStringSubmatch(line)
		if entry == nil {
			continue
		}
		neighbors = append(neighbors, common.NeighborLink{
			Port:         NormalizePort(entry[1]),
			RemoteSystem: entry[4],
			RemotePort:   entry[5],
		})
	}
	if !foundHeader && len(neighbors) == 0 {
		return nil, common.ErrParseFailed
	}
	return neighbors, nil
}

func (d *cumulusDialect) ParsePorts(lines []string) ([]common.Port, error) {
	var ports []common.Port
	foundHeader := false
	for _, line := range lines {
		if cumulusPortHeaderRegex.MatchString(line) {
			foundHeader = true
			continue
		}
		entry := cumulusPortEntryRegex.FindStringSubmatch(line)
		if entry == nil {
			continue
		}
		if IsAggregatePort(entry[2]) {
			continue
		}
		name := NormalizePort(entry[2])
		port := common.Port{
			Name:      name,
			RawName:   entry[2],
			SpeedMbps: ParseSpeedMbps(entry[3]),
			OperUp:    entry[1] == "UP",
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
