package core

import (
	"errors"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"dev.rackwire.net/fabricmap/collect"
	"dev.rackwire.net/fabricmap/common"
	"dev.rackwire.net/fabricmap/correlate"
	"dev.rackwire.net/fabricmap/db"
	"dev.rackwire.net/fabricmap/dialects"
	"dev.rackwire.net/fabricmap/sshexec"
	"dev.rackwire.net/fabricmap/util"
)

// RunDiscovery - Run one full discovery pass: node and switch collection in
// parallel, then correlation into the topology graph. Individual device
// failures are tolerated and reported inside the graph; an error is returned
// only when an entire device class yielded nothing.
func RunDiscovery(shutdown *util.ShutdownChannelDistributor, sink *db.Sink, metrics *Metrics) (common.TopologyGraph, error) {
	config := common.GlobalConfig
	runner := &sshexec.Runner{
		ConnectTimeout: config.ConnectTimeout,
		CommandTimeout: config.CommandTimeout,
	}
	policy := collect.Policy{
		MaxRetries: config.MaxRetries,
		RetryDelay: config.RetryDelay,
	}
	filter := dialects.Filter{
		DataPlaneVLAN:      config.DataPlaneVLAN,
		VirtualMACPrefixes: config.VirtualMACPrefixes,
	}

	startTime := time.Now()

	var nodeResult collect.NodeResult
	var switchResult collect.SwitchResult
	var waitGroup sync.WaitGroup
	waitGroup.Add(2)
	go func() {
		defer waitGroup.Done()
		nodeResult = collect.CollectNodes(runner, common.GlobalInventory.Nodes,
			common.GlobalCredentials.Nodes, config.NodeWorkers, policy, shutdown)
	}()
	go func() {
		defer waitGroup.Done()
		switchResult = collect.CollectSwitches(runner, common.GlobalInventory.Switches,
			common.GlobalCredentials.Switches, config.SwitchWorkers, policy, filter, shutdown)
	}()
	waitGroup.Wait()

	recordRunTelemetry(sink, metrics, nodeResult, switchResult)

	if len(common.GlobalInventory.Switches) > 0 && len(switchResult.Captures) == 0 {
		return common.TopologyGraph{}, errors.New("no switches reachable")
	}
	if len(common.GlobalInventory.Nodes) > 0 && len(nodeResult.Devices) == 0 {
		return common.TopologyGraph{}, errors.New("no nodes reachable")
	}

	graph := correlate.BuildGraph(correlate.Input{
		MACIndex:           nodeResult.MACIndex,
		Devices:            nodeResult.Devices,
		Captures:           switchResult.Captures,
		Undetected:         switchResult.Undetected,
		UnreachableNodes:   nodeResult.Unreachable,
		UplinkMinSpeedMbps: config.UplinkMinSpeedMbps,
	})

	for _, summary := range graph.Switches {
		sink.StoreSwitchSummary(summary, startTime)
	}

	log.WithFields(log.Fields{
		"assignment_count":       len(graph.Assignments),
		"switch_count":           len(graph.Switches),
		"undetected_count":       len(graph.UndetectedSwitches),
		"unreachable_node_count": len(graph.UnreachableNodes),
		"duration":               time.Since(startTime),
	}).Info("Discovery done")

	return graph, nil
}

func recordRunTelemetry(sink *db.Sink, metrics *Metrics, nodeResult collect.NodeResult, switchResult collect.SwitchResult) {
	for _, entry := range append(nodeResult.Entries, switchResult.Entries...) {
		sink.StoreScrapeEntry(entry)
		metrics.ScrapeOutcomes.WithLabelValues(entry.Phase, strconv.FormatBool(entry.Success)).Inc()
	}
	for _, capture := range switchResult.Captures {
		metrics.VirtualMACsDropped.Add(float64(capture.DroppedVirtual))
		metrics.AggregateEntriesDropped.Add(float64(capture.DroppedAggregate))
		metrics.VLANFilteredEntries.Add(float64(capture.DroppedVLAN))
		metrics.ParseFailures.Add(float64(capture.ParseFailures))
	}
	metrics.UndetectedSwitches.Add(float64(len(switchResult.Undetected)))
	metrics.UnreachableNodes.Add(float64(len(nodeResult.Unreachable)))
}
