package correlate

import (
	"sort"
	"strconv"
	"strings"

	"dev.rackwire.net/fabricmap/common"
)

// BuildGraph runs correlation and assembles the topology handed to the
// reporting layer: the ordered assignment list, per-switch summary counts
// and the explicit undetected/unreachable lists.
func BuildGraph(in Input) common.TopologyGraph {
	assignments := Correlate(in)
	sort.Slice(assignments, func(i, j int) bool {
		a, b := assignments[i], assignments[j]
		if a.Switch != b.Switch {
			return a.Switch < b.Switch
		}
		if a.Port != b.Port {
			return portLess(a.Port, b.Port)
		}
		if a.DeviceID != b.DeviceID {
			return a.DeviceID < b.DeviceID
		}
		return a.Classification < b.Classification
	})

	summaryIndex := make(map[string]int)
	var summaries []common.SwitchSummary
	for _, capture := range in.Captures {
		summaryIndex[capture.Descriptor.ManagementIP] = len(summaries)
		summaries = append(summaries, common.SwitchSummary{
			ManagementIP: capture.Descriptor.ManagementIP,
			Hostname:     capture.Descriptor.Hostname,
			Dialect:      capture.Descriptor.Dialect,
			Counts:       make(map[common.Classification]int),
		})
	}
	for _, assignment := range assignments {
		if idx, found := summaryIndex[assignment.Switch]; found {
			summaries[idx].Counts[assignment.Classification]++
		}
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ManagementIP < summaries[j].ManagementIP
	})

	undetected := append([]string(nil), in.Undetected...)
	sort.Strings(undetected)
	unreachable := append([]string(nil), in.UnreachableNodes...)
	sort.Strings(unreachable)

	return common.TopologyGraph{
		Assignments:        assignments,
		Switches:           summaries,
		UndetectedSwitches: undetected,
		UnreachableNodes:   unreachable,
	}
}

// portLess orders port names naturally: eth1/2 before eth1/10.
func portLess(a, b string) bool {
	aParts, bParts := splitPortName(a), splitPortName(b)
	for i := 0; i < len(aParts) && i < len(bParts); i++ {
		if aParts[i] == bParts[i] {
			continue
		}
		aNum, aErr := strconv.Atoi(aParts[i])
		bNum, bErr := strconv.Atoi(bParts[i])
		if aErr == nil && bErr == nil {
			return aNum < bNum
		}
		return aParts[i] < bParts[i]
	}
	return len(aParts) < len(bParts)
}

// splitPortName splits a port name into alternating non-digit and digit runs.
func splitPortName(name string) []string {
	var parts []string
	var current strings.Builder
	currentDigit := false
	for _, r := range name {
		digit := r >= '0' && r <= '9'
		if current.Len() > 0 && digit != currentDigit {
			parts = append(parts, current.String())
			current.Reset()
		}
		currentDigit = digit
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
