package common

import (
	"time"
)

// Device roles as provided by the inventory collaborator.
const (
	RoleCompute = "compute"
	RoleStorage = "storage"
	RoleUnknown = "unknown"
)

// Classification - Final classification of a switch port.
type Classification string

// Port classifications.
const (
	ClassDataPlane       Classification = "data-plane"
	ClassIPL             Classification = "ipl"
	ClassUplinkCandidate Classification = "uplink-candidate"
	ClassUnused          Classification = "unused"
	ClassUnknown         Classification = "unknown"
)

// Credential - SSH credential candidate for a device class.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Node - A compute/storage device from the inventory collaborator.
type Node struct {
	Hostname     string `json:"hostname"`
	ManagementIP string `json:"management_ip"`
	Role         string `json:"role"`
}

// Switch - A fabric switch from the inventory collaborator.
type Switch struct {
	ManagementIP string `json:"management_ip"`
}

// InterfaceRecord - One network interface on a node, as enumerated remotely.
type InterfaceRecord struct {
	DeviceID string `json:"device_id"`
	Name     string `json:"name"`
	MAC      string `json:"mac"` // canonical colon-delimited lowercase
	IP       string `json:"ip,omitempty"`
	VLAN     uint   `json:"vlan,omitempty"` // 0 when untagged
}

// NetworkDevice - A node plus its collected interfaces. Immutable during a run.
type NetworkDevice struct {
	ID         string            `json:"id"`
	Hostname   string            `json:"hostname"`
	Role       string            `json:"role"`
	Interfaces []InterfaceRecord `json:"interfaces"`
}

// SwitchDescriptor - Detection result for one switch.
// Written once by the detector, read-only afterwards.
type SwitchDescriptor struct {
	ManagementIP string     `json:"management_ip"`
	Hostname     string     `json:"hostname,omitempty"`
	Dialect      string     `json:"dialect"`
	Credential   Credential `json:"-"` // never serialized or logged
	Reachable    bool       `json:"reachable"`
}

// Port - One switch port from the interface-status table.
type Port struct {
	Switch    string `json:"switch"`
	Name      string `json:"name"` // canonical
	RawName   string `json:"raw_name"`
	SpeedMbps uint   `json:"speed_mbps"`
	OperUp    bool   `json:"oper_up"`
	Parent    string `json:"parent,omitempty"`   // canonical parent port for breakout children
	SubPort   int    `json:"sub_port,omitempty"` // sub-port index, 0 when not a breakout child
}

// MacTableEntry - One surviving MAC table row. Ephemeral, consumed by correlation.
type MacTableEntry struct {
	Switch  string
	Port    string // canonical
	RawPort string
	MAC     string // canonical colon-delimited lowercase
	VLAN    uint
	Static  bool
}

// NeighborLink - One LLDP neighbor row.
type NeighborLink struct {
	Switch       string `json:"switch"`
	Port         string `json:"port"` // canonical local port
	RemoteSystem string `json:"remote_system"`
	RemotePort   string `json:"remote_port"`
	InterSwitch  bool   `json:"inter_switch"`
}

// LinkAssignment - The sole durable output unit: one classified switch port.
type LinkAssignment struct {
	Switch         string         `json:"switch"`
	Port           string         `json:"port"`
	DeviceID       string         `json:"device_id,omitempty"`
	DeviceHostname string         `json:"device_hostname,omitempty"`
	Interface      string         `json:"interface,omitempty"`
	Classification Classification `json:"classification"`
}

// SwitchSummary - Per-switch classification counts for the reporting layer.
type SwitchSummary struct {
	ManagementIP string                 `json:"management_ip"`
	Hostname     string                 `json:"hostname,omitempty"`
	Dialect      string                 `json:"dialect"`
	Counts       map[Classification]int `json:"counts"`
}

// TopologyGraph - The full discovery result handed to the reporting layer.
type TopologyGraph struct {
	Assignments        []LinkAssignment `json:"assignments"`
	Switches           []SwitchSummary  `json:"switches"`
	UndetectedSwitches []string         `json:"undetected_switches,omitempty"`
	UnreachableNodes   []string         `json:"unreachable_nodes,omitempty"`
}

// ScrapeEntry - Timing record for one unit of remote work.
type ScrapeEntry struct {
	Time     time.Time
	Source   string
	Phase    string
	Duration time.Duration
	Success  bool
}
