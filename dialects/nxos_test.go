package dialects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.rackwire.net/fabricmap/common"
)

var nxosVersionFixture = []string{
	"Cisco Nexus Operating System (NX-OS) Software",
	"TAC support: http://www.cisco.com/tac",
	"Software",
	"  BIOS: version 05.47",
	"  NXOS: version 9.3(10)",
	"Hardware",
	"  cisco Nexus9000 C93180YC-EX chassis",
}

var nxosMACTableFixture = []string{
	"Legend:",
	"        * - primary entry, G - Gateway MAC, (R) - Routed MAC, O - Overlay MAC",
	"        age - seconds since last seen,+ - primary entry using vPC Peer-Link,",
	"VLAN     MAC Address      Type      age     Secure NTFY Ports",
	"---------+-----------------+--------+---------+------+----+------------------",
	"*  100     0c42.a122.fb4a   dynamic  0         F      F    Eth1/1",
	"*  100     0c42.a122.fb4b   dynamic  0         F      F    Eth1/2",
	"*  100     5254.0012.3456   dynamic  0         F      F    Eth1/3",
	"*  100     b859.9f11.2233   dynamic  0         F      F    Po10",
	"*  300     0c42.a199.8877   static   -         F      F    Eth1/4",
}

func TestNXOSMatchesProbe(t *testing.T) {
	dialect := &nxosDialect{}
	assert.True(t, dialect.MatchesProbe(nxosVersionFixture))
	assert.False(t, dialect.MatchesProbe(onyxVersionFixture))
	assert.False(t, dialect.MatchesProbe(nil))
}

func TestNXOSParseHostname(t *testing.T) {
	dialect := &nxosDialect{}
	assert.Equal(t, "nexus-leaf01", dialect.ParseHostname([]string{"", "nexus-leaf01"}))
	assert.Equal(t, "", dialect.ParseHostname([]string{"% Invalid command at '^' marker."}))
}

func TestNXOSParseMACTable(t *testing.T) {
	dialect := &nxosDialect{}
	filter := Filter{VirtualMACPrefixes: []string{"52:54:00"}}

	result, err := dialect.ParseMACTable(nxosMACTableFixture, filter)
	require.NoError(t, err)

	require.Len(t, result.Entries, 3)
	assert.Equal(t, common.MacTableEntry{
		Port:    "eth1/1",
		RawPort: "Eth1/1",
		MAC:     "0c:42:a1:22:fb:4a",
		VLAN:    100,
	}, result.Entries[0])
	assert.True(t, result.Entries[2].Static)
	assert.Equal(t, 1, result.DroppedAggregate)
	assert.Equal(t, 1, result.DroppedVirtual)
}

func TestNXOSParseMACTableGarbage(t *testing.T) {
	dialect := &nxosDialect{}
	_, err := dialect.ParseMACTable([]string{"% Invalid command at '^' marker."}, Filter{})
	assert.ErrorIs(t, err, common.ErrParseFailed)
}

func TestNXOSParseNeighbors(t *testing.T) {
	dialect := &nxosDialect{}
	lines := []string{
		"Capability codes:",
		"  (R) Router, (B) Bridge, (T) Telephone, (C) DOCSIS Cable Device",
		"  (W) WLAN Access Point, (P) Repeater, (S) Station, (O) Other",
		"Device ID            Local Intf      Hold-time  Capability  Port ID",
		"spine01.lab          Eth1/49         120        BR          Ethernet1/1",
		"kvm-host-1           Eth1/10         120        S           enp1s0f0",
		"Total entries displayed: 2",
	}
	neighbors, err := dialect.ParseNeighbors(lines)
	require.NoError(t, err)
	require.Len(t, neighbors, 2)
	assert.Equal(t, "eth1/49", neighbors[0].Port)
	assert.Equal(t, "spine01.lab", neighbors[0].RemoteSystem)
	assert.Equal(t, "Ethernet1/1", neighbors[0].RemotePort)

	// Legend lines alone never count as a table
	_, err = dialect.ParseNeighbors(lines[:3])
	assert.ErrorIs(t, err, common.ErrParseFailed)
}

func TestNXOSParsePorts(t *testing.T) {
	dialect := &nxosDialect{}
	lines := []string{
		"--------------------------------------------------------------------------------",
		"Port          Name               Status    Vlan      Duplex  Speed   Type",
		"--------------------------------------------------------------------------------",
		"Eth1/1        server-23          connected 100       full    100G    QSFP-100G-AOC",
		"Eth1/2        --                 notconnec 1         auto    auto    --",
		"Eth1/3/1      breakout-leg       connected 100       full    25G     SFP-25G",
	}
	ports, err := dialect.ParsePorts(lines)
	require.NoError(t, err)
	require.Len(t, ports, 3)

	assert.True(t, ports[0].OperUp)
	assert.Equal(t, uint(100000), ports[0].SpeedMbps)

	assert.False(t, ports[1].OperUp)
	assert.Equal(t, uint(0), ports[1].SpeedMbps)

	assert.Equal(t, "eth1/3/1", ports[2].Name)
	assert.Equal(t, "eth1/3", ports[2].Parent)
	assert.Equal(t, 1, ports[2].SubPort)
}
