package collect

import (
	"errors"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"dev.rackwire.net/fabricmap/common"
	"dev.rackwire.net/fabricmap/dialects"
	"dev.rackwire.net/fabricmap/util"
)

// SwitchCapture - Everything collected from one detected switch.
type SwitchCapture struct {
	Descriptor common.SwitchDescriptor
	MACEntries []common.MacTableEntry
	Neighbors  []common.NeighborLink
	Ports      []common.Port

	DroppedAggregate int
	DroppedVirtual   int
	DroppedVLAN      int
	ParseFailures    int
}

// SwitchResult - Output of the switch collection pool.
type SwitchResult struct {
	Captures   []SwitchCapture
	Undetected []string
	Entries    []common.ScrapeEntry
}

// DetectSwitch tries ordered (credential, probe command, signature) tuples;
// the first probe whose output matches its dialect's signature freezes the
// (dialect, credentials) pair for this switch for the rest of the run.
func DetectSwitch(runner Runner, sw common.Switch, credentials []common.Credential, policy Policy) (common.SwitchDescriptor, dialects.Dialect, error) {
	sawOutput := false
	var lastErr error
	for _, credential := range credentials {
		for _, dialect := range dialects.All() {
			lines, err := runWithRetry(policy, func() ([]string, error) {
				if dialect.Interactive() {
					return runner.Interactive(sw.ManagementIP, credential, dialect.ProbeCommand(), dialect.PromptPattern())
				}
				return runner.Line(sw.ManagementIP, credential, dialect.ProbeCommand())
			})
			if err != nil {
				lastErr = err
				if errors.Is(err, common.ErrAuthFailed) {
					// Fall through to the next candidate credential set
					break
				}
				if errors.Is(err, common.ErrUnreachable) && !errors.Is(err, common.ErrCommandTimeout) {
					return common.SwitchDescriptor{ManagementIP: sw.ManagementIP}, nil, err
				}
				continue
			}
			if len(lines) > 0 {
				sawOutput = true
			}
			if dialect.MatchesProbe(lines) {
				descriptor := common.SwitchDescriptor{
					ManagementIP: sw.ManagementIP,
					Dialect:      dialect.Name(),
					Credential:   credential,
					Reachable:    true,
				}
				log.WithFields(log.Fields{
					"switch":  sw.ManagementIP,
					"dialect": dialect.Name(),
				}).Info("Detected switch dialect")
				return descriptor, dialect, nil
			}
		}
	}
	if sawOutput {
		return common.SwitchDescriptor{ManagementIP: sw.ManagementIP}, nil, common.ErrUnsupportedDialect
	}
	if lastErr == nil {
		lastErr = common.ErrUnreachable
	}
	return common.SwitchDescriptor{ManagementIP: sw.ManagementIP}, nil, lastErr
}

// CollectSwitches runs detection and MAC/neighbor/port collection for all
// switches with bounded concurrency, then flags inter-switch neighbor links
// against the discovered hostname set. A shutdown signal stops scheduling
// new switches; in-flight units finish.
func CollectSwitches(runner Runner, switches []common.Switch, credentials []common.Credential, workers int, policy Policy, filter dialects.Filter, shutdown *util.ShutdownChannelDistributor) SwitchResult {
	var result SwitchResult

	shutdownChannel := make(chan bool, 1)
	shutdown.AddListener(shutdownChannel)

	type switchOutcome struct {
		sw      common.Switch
		capture *SwitchCapture
		entry   common.ScrapeEntry
		err     error
	}
	outcomes := make(chan switchOutcome, len(switches))
	sem := make(chan struct{}, workers)
	var waitGroup sync.WaitGroup

scheduling:
	for _, sw := range switches {
		select {
		case <-shutdownChannel:
			log.Warn("Switch collection aborted")
			break scheduling
		case sem <- struct{}{}:
		}
		waitGroup.Add(1)
		go func(sw common.Switch) {
			defer waitGroup.Done()
			defer func() { <-sem }()
			startTime := time.Now()
			capture, err := collectSwitch(runner, sw, credentials, policy, filter)
			outcomes <- switchOutcome{
				sw:      sw,
				capture: capture,
				entry: common.ScrapeEntry{
					Time:     startTime,
					Source:   sw.ManagementIP,
					Phase:    "switch",
					Duration: time.Since(startTime),
					Success:  err == nil,
				},
				err: err,
			}
		}(sw)
	}
	waitGroup.Wait()
	close(outcomes)

	for outcome := range outcomes {
		result.Entries = append(result.Entries, outcome.entry)
		if outcome.err != nil {
			log.WithError(outcome.err).WithFields(log.Fields{
				"switch": outcome.sw.ManagementIP,
			}).Warn("Switch excluded from discovery")
			result.Undetected = append(result.Undetected, outcome.sw.ManagementIP)
			continue
		}
		result.Captures = append(result.Captures, *outcome.capture)
		log.WithFields(log.Fields{
			"switch":         outcome.sw.ManagementIP,
			"dialect":        outcome.capture.Descriptor.Dialect,
			"mac_entries":    len(outcome.capture.MACEntries),
			"neighbor_count": len(outcome.capture.Neighbors),
			"port_count":     len(outcome.capture.Ports),
		}).Info("Collected switch tables")
	}

	markInterSwitchLinks(result.Captures)

	log.WithFields(log.Fields{
		"switch_count":     len(switches),
		"undetected_count": len(result.Undetected),
	}).Info("Switch collection done")

	return result
}

func collectSwitch(runner Runner, sw common.Switch, credentials []common.Credential, policy Policy, filter dialects.Filter) (*SwitchCapture, error) {
	descriptor, dialect, err := DetectSwitch(runner, sw, credentials, policy)
	if err != nil {
		return nil, err
	}
	capture := SwitchCapture{Descriptor: descriptor}

	execute := func(command string) ([]string, error) {
		return runWithRetry(policy, func() ([]string, error) {
			if dialect.Interactive() {
				return runner.Interactive(descriptor.ManagementIP, descriptor.Credential, command, dialect.PromptPattern())
			}
			return runner.Line(descriptor.ManagementIP, descriptor.Credential, command)
		})
	}

	// Hostname is best-effort; inter-switch flagging degrades without it.
	if lines, err := execute(dialect.HostnameCommand()); err == nil {
		capture.Descriptor.Hostname = dialect.ParseHostname(lines)
	} else {
		log.WithError(err).WithFields(log.Fields{
			"switch": sw.ManagementIP,
		}).Debug("Failed to fetch switch hostname")
	}

	if lines, err := execute(dialect.MACTableCommand()); err != nil {
		return nil, err
	} else if macResult, parseErr := dialect.ParseMACTable(lines, filter); parseErr != nil {
		// Format drift: treat this switch's MAC table as empty, not an abort
		log.WithError(parseErr).WithFields(log.Fields{
			"switch":  sw.ManagementIP,
			"dialect": dialect.Name(),
		}).Warn("MAC table parse failed, treating as empty")
		capture.ParseFailures++
	} else {
		capture.MACEntries = macResult.Entries
		capture.DroppedAggregate = macResult.DroppedAggregate
		capture.DroppedVirtual = macResult.DroppedVirtual
		capture.DroppedVLAN = macResult.DroppedVLAN
	}

	if lines, err := execute(dialect.NeighborCommand()); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"switch": sw.ManagementIP,
		}).Warn("Neighbor collection failed, continuing without LLDP")
	} else if neighbors, parseErr := dialect.ParseNeighbors(lines); parseErr != nil {
		log.WithError(parseErr).WithFields(log.Fields{
			"switch":  sw.ManagementIP,
			"dialect": dialect.Name(),
		}).Warn("Neighbor parse failed, continuing without LLDP")
		capture.ParseFailures++
	} else {
		capture.Neighbors = neighbors
	}

	if lines, err := execute(dialect.PortCommand()); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"switch": sw.ManagementIP,
		}).Warn("Port inventory collection failed, continuing without it")
	} else if ports, parseErr := dialect.ParsePorts(lines); parseErr != nil {
		log.WithError(parseErr).WithFields(log.Fields{
			"switch":  sw.ManagementIP,
			"dialect": dialect.Name(),
		}).Warn("Port inventory parse failed, continuing without it")
		capture.ParseFailures++
	} else {
		capture.Ports = ports
	}

	// Stamp the owning switch on everything collected
	for i := range capture.MACEntries {
		capture.MACEntries[i].Switch = descriptor.ManagementIP
	}
	for i := range capture.Neighbors {
		capture.Neighbors[i].Switch = descriptor.ManagementIP
	}
	for i := range capture.Ports {
		capture.Ports[i].Switch = descriptor.ManagementIP
	}

	return &capture, nil
}

// markInterSwitchLinks flags neighbor links whose remote system name matches
// another switch in the current discovery set.
func markInterSwitchLinks(captures []SwitchCapture) {
	known := make(map[string]bool)
	for _, capture := range captures {
		if capture.Descriptor.Hostname != "" {
			known[strings.ToLower(capture.Descriptor.Hostname)] = true
		}
		known[strings.ToLower(capture.Descriptor.ManagementIP)] = true
	}
	for i := range captures {
		for j := range captures[i].Neighbors {
			remote := strings.ToLower(captures[i].Neighbors[j].RemoteSystem)
			if known[remote] {
				captures[i].Neighbors[j].InterSwitch = true
			}
		}
	}
}
