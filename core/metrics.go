package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"dev.rackwire.net/fabricmap/common"
	"dev.rackwire.net/fabricmap/util"
)

// Metrics - Process-wide discovery counters, served by the optional metrics endpoint.
type Metrics struct {
	Registry *prometheus.Registry

	ScrapeOutcomes          *prometheus.CounterVec
	VirtualMACsDropped      prometheus.Counter
	AggregateEntriesDropped prometheus.Counter
	VLANFilteredEntries     prometheus.Counter
	ParseFailures           prometheus.Counter
	UndetectedSwitches      prometheus.Counter
	UnreachableNodes        prometheus.Counter
}

// NewMetrics - Create a registry and register all discovery counters on it.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	util.NewExporterMetric(registry, common.PrometheusNamespace, common.AppVersion)
	return &Metrics{
		Registry: registry,
		ScrapeOutcomes: util.NewCounterVec(registry, common.PrometheusNamespace, "discovery", "scrapes_total",
			"Collection units by phase and outcome.", []string{"phase", "success"}),
		VirtualMACsDropped: util.NewCounter(registry, common.PrometheusNamespace, "discovery", "virtual_macs_dropped_total",
			"MAC table entries dropped for matching a virtual MAC prefix."),
		AggregateEntriesDropped: util.NewCounter(registry, common.PrometheusNamespace, "discovery", "aggregate_entries_dropped_total",
			"MAC table entries dropped for pointing at an aggregate port."),
		VLANFilteredEntries: util.NewCounter(registry, common.PrometheusNamespace, "discovery", "vlan_filtered_entries_total",
			"MAC table entries dropped by the data-plane VLAN filter."),
		ParseFailures: util.NewCounter(registry, common.PrometheusNamespace, "discovery", "parse_failures_total",
			"Switch command outputs that failed to parse."),
		UndetectedSwitches: util.NewCounter(registry, common.PrometheusNamespace, "discovery", "undetected_switches_total",
			"Switches excluded because no dialect was detected."),
		UnreachableNodes: util.NewCounter(registry, common.PrometheusNamespace, "discovery", "unreachable_nodes_total",
			"Nodes excluded because interface collection failed."),
	}
}
