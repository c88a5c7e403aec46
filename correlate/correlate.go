package correlate

import (
	"sort"

	"dev.rackwire.net/fabricmap/collect"
	"dev.rackwire.net/fabricmap/common"
)

// Input - The inputs of the correlation pass. Correlation is a pure,
// order-independent function of these; identical inputs always produce an
// identical assignment set.
type Input struct {
	MACIndex           map[string]common.InterfaceRecord
	Devices            map[string]common.NetworkDevice
	Captures           []collect.SwitchCapture
	Undetected         []string
	UnreachableNodes   []string
	UplinkMinSpeedMbps uint
}

// Correlate joins the node MAC index against per-switch MAC tables and LLDP
// neighbor data, emitting one classified assignment per surviving entry or
// port. Multi-homed devices keep one assignment per (switch, port) pair.
func Correlate(in Input) []common.LinkAssignment {
	var assignments []common.LinkAssignment
	for _, capture := range in.Captures {
		assignments = append(assignments, correlateSwitch(in, capture)...)
	}
	return assignments
}

func correlateSwitch(in Input, capture collect.SwitchCapture) []common.LinkAssignment {
	switchID := capture.Descriptor.ManagementIP

	ports := make(map[string]common.Port)
	for _, port := range capture.Ports {
		ports[port.Name] = port
	}
	hasLLDP := make(map[string]bool)
	isIPL := make(map[string]bool)
	for _, neighbor := range capture.Neighbors {
		hasLLDP[neighbor.Port] = true
		if neighbor.InterSwitch {
			isIPL[neighbor.Port] = true
		}
	}

	hasEntries := make(map[string]bool)
	hasNodeMatch := make(map[string]bool)
	var assignments []common.LinkAssignment
	seenDataPlane := make(map[common.LinkAssignment]bool)

	for _, entry := range capture.MACEntries {
		hasEntries[entry.Port] = true
		record, found := in.MACIndex[entry.MAC]
		if !found {
			continue
		}
		hasNodeMatch[entry.Port] = true
		assignment := common.LinkAssignment{
			Switch:         switchID,
			Port:           entry.Port,
			DeviceID:       record.DeviceID,
			Interface:      record.Name,
			Classification: common.ClassDataPlane,
		}
		if device, ok := in.Devices[record.DeviceID]; ok {
			assignment.DeviceHostname = device.Hostname
		}
		// The same MAC learned under several VLANs is still one link;
		// distinct ports stay distinct (multi-homing preserved).
		if seenDataPlane[assignment] {
			continue
		}
		seenDataPlane[assignment] = true
		assignments = append(assignments, assignment)
	}

	// Remaining ports classify once each, in deterministic order.
	portNames := make(map[string]bool)
	for name := range ports {
		portNames[name] = true
	}
	for name := range hasEntries {
		portNames[name] = true
	}
	for name := range hasLLDP {
		portNames[name] = true
	}
	ordered := make([]string, 0, len(portNames))
	for name := range portNames {
		if !hasNodeMatch[name] {
			ordered = append(ordered, name)
		}
	}
	sort.Strings(ordered)

	for _, name := range ordered {
		assignments = append(assignments, common.LinkAssignment{
			Switch:         switchID,
			Port:           name,
			Classification: classifyPort(in, ports[name], hasEntries[name], hasLLDP[name], isIPL[name]),
		})
	}

	return assignments
}

// classifyPort decides the class of a port with no node-MAC match.
// Precedence: ipl, then inferred uplink-candidate (reserved speed range,
// no LLDP), then unknown (unmatched entries or non-switch LLDP remote),
// then unused.
func classifyPort(in Input, port common.Port, hasEntries bool, hasLLDP bool, isIPL bool) common.Classification {
	if isIPL {
		return common.ClassIPL
	}
	if !hasLLDP && in.UplinkMinSpeedMbps > 0 && port.SpeedMbps >= in.UplinkMinSpeedMbps {
		return common.ClassUplinkCandidate
	}
	if hasEntries || hasLLDP {
		return common.ClassUnknown
	}
	return common.ClassUnused
}
