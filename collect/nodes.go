package collect

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"dev.rackwire.net/fabricmap/common"
	"dev.rackwire.net/fabricmap/dialects"
	"dev.rackwire.net/fabricmap/util"
)

// One remote command enumerates interface names, MACs and IPs in two
// sections separated by the marker line.
const nodeInterfaceCommand = "ip -o link show; echo ---; ip -o -4 addr show"
const nodeSectionMarker = "---"

var nodeLinkRegex = regexp.MustCompile(`^\d+:\s+([^:@\s]+)(?:@\S+)?:\s+.*\blink/ether\s+([0-9a-fA-F:]+)`)
var nodeAddrRegex = regexp.MustCompile(`^\d+:\s+(\S+)\s+inet\s+([0-9.]+)/\d+`)
var nodeVLANNameRegex = regexp.MustCompile(`^(.+)\.(\d+)$`)

// NodeResult - Output of the node collection pool.
type NodeResult struct {
	MACIndex    map[string]common.InterfaceRecord
	Devices     map[string]common.NetworkDevice
	Unreachable []string
	Entries     []common.ScrapeEntry
}

// CollectNodes fans out the interface-enumeration command to all nodes with
// bounded concurrency. A single node's failure is logged and excluded,
// never aborting the batch. A shutdown signal stops scheduling new nodes;
// in-flight units finish.
func CollectNodes(runner Runner, nodes []common.Node, credentials []common.Credential, workers int, policy Policy, shutdown *util.ShutdownChannelDistributor) NodeResult {
	result := NodeResult{
		MACIndex: make(map[string]common.InterfaceRecord),
		Devices:  make(map[string]common.NetworkDevice),
	}

	shutdownChannel := make(chan bool, 1)
	shutdown.AddListener(shutdownChannel)

	type nodeOutcome struct {
		node    common.Node
		records []common.InterfaceRecord
		entry   common.ScrapeEntry
		err     error
	}
	outcomes := make(chan nodeOutcome, len(nodes))
	sem := make(chan struct{}, workers)
	var waitGroup sync.WaitGroup

scheduling:
	for _, node := range nodes {
		select {
		case <-shutdownChannel:
			log.Warn("Node collection aborted")
			break scheduling
		case sem <- struct{}{}:
		}
		waitGroup.Add(1)
		go func(node common.Node) {
			defer waitGroup.Done()
			defer func() { <-sem }()
			startTime := time.Now()
			records, err := collectNode(runner, node, credentials, policy)
			outcomes <- nodeOutcome{
				node:    node,
				records: records,
				entry: common.ScrapeEntry{
					Time:     startTime,
					Source:   node.ManagementIP,
					Phase:    "node",
					Duration: time.Since(startTime),
					Success:  err == nil,
				},
				err: err,
			}
		}(node)
	}
	waitGroup.Wait()
	close(outcomes)

	// Index in hostname order so cross-node duplicate MACs resolve the same
	// way every run, independent of goroutine completion order.
	var collected []nodeOutcome
	for outcome := range outcomes {
		collected = append(collected, outcome)
	}
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].node.Hostname < collected[j].node.Hostname
	})

	for _, outcome := range collected {
		result.Entries = append(result.Entries, outcome.entry)
		if outcome.err != nil {
			log.WithError(outcome.err).WithFields(log.Fields{
				"node": outcome.node.Hostname,
			}).Warn("Node collection failed, excluding node")
			result.Unreachable = append(result.Unreachable, outcome.node.Hostname)
			continue
		}
		device := common.NetworkDevice{
			ID:         outcome.node.Hostname,
			Hostname:   outcome.node.Hostname,
			Role:       outcome.node.Role,
			Interfaces: outcome.records,
		}
		if device.Role == "" {
			device.Role = common.RoleUnknown
		}
		result.Devices[device.ID] = device
		for _, record := range outcome.records {
			if existing, found := result.MACIndex[record.MAC]; found && existing.DeviceID != record.DeviceID {
				log.WithFields(log.Fields{
					"mac":      record.MAC,
					"device":   record.DeviceID,
					"existing": existing.DeviceID,
				}).Warn("Duplicate MAC across nodes, keeping first by hostname")
				continue
			}
			result.MACIndex[record.MAC] = record
		}
		log.WithFields(log.Fields{
			"node":            outcome.node.Hostname,
			"interface_count": len(outcome.records),
		}).Info("Collected node interfaces")
	}

	log.WithFields(log.Fields{
		"node_count":        len(nodes),
		"unreachable_count": len(result.Unreachable),
		"mac_count":         len(result.MACIndex),
	}).Info("Node collection done")

	return result
}

func collectNode(runner Runner, node common.Node, credentials []common.Credential, policy Policy) ([]common.InterfaceRecord, error) {
	var lastErr error
	for _, credential := range credentials {
		lines, err := runWithRetry(policy, func() ([]string, error) {
			return runner.Line(node.ManagementIP, credential, nodeInterfaceCommand)
		})
		if err != nil {
			lastErr = err
			if errors.Is(err, common.ErrAuthFailed) {
				continue
			}
			return nil, err
		}
		return parseNodeInterfaces(node, lines), nil
	}
	return nil, lastErr
}

// parseNodeInterfaces reads the two-section command output: link lines give
// (name, MAC), address lines give the first IPv4 address per interface.
// A trailing ".<digits>" interface name carries the VLAN tag.
func parseNodeInterfaces(node common.Node, lines []string) []common.InterfaceRecord {
	addresses := make(map[string]string)
	inAddrSection := false
	for _, line := range lines {
		if strings.TrimSpace(line) == nodeSectionMarker {
			inAddrSection = true
			continue
		}
		if !inAddrSection {
			continue
		}
		result := nodeAddrRegex.FindStringSubmatch(line)
		if result == nil {
			continue
		}
		if _, found := addresses[result[1]]; !found {
			addresses[result[1]] = result[2]
		}
	}

	var records []common.InterfaceRecord
	for _, line := range lines {
		if strings.TrimSpace(line) == nodeSectionMarker {
			break
		}
		result := nodeLinkRegex.FindStringSubmatch(line)
		if result == nil {
			continue
		}
		name := result[1]
		if name == "lo" {
			continue
		}
		mac, ok := dialects.NormalizeMAC(result[2])
		if !ok {
			log.WithFields(log.Fields{
				"node":      node.Hostname,
				"interface": name,
			}).Trace("Malformed MAC address, skipping interface")
			continue
		}
		record := common.InterfaceRecord{
			DeviceID: node.Hostname,
			Name:     name,
			MAC:      mac,
			IP:       addresses[name],
		}
		if vlanResult := nodeVLANNameRegex.FindStringSubmatch(name); vlanResult != nil {
			if vlan, err := strconv.ParseUint(vlanResult[2], 10, 12); err == nil {
				record.VLAN = uint(vlan)
			}
		}
		records = append(records, record)
	}
	return records
}
