package dialects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.rackwire.net/fabricmap/common"
)

var onyxVersionFixture = []string{
	"Product name:      Onyx",
	"Product release:   3.9.3124",
	"Build ID:          #1-dev",
	"Build date:        2022-01-30 16:24:58",
	"Target arch:       x86_64",
	"Target hw:         x86_64",
	"Built by:          jenkins@e4b2dfb4b723",
	"Uptime:            124d 1h 55m 18.768s",
}

var onyxMACTableFixture = []string{
	"Legend: Mst = Master",
	"",
	"Vlan    Mac Address         Type         Port",
	"----    -----------         ----         ----",
	"1       0c:42:a1:22:fb:4a   Dynamic      Eth1/1",
	"1       0c:42:a1:22:fb:4b   Dynamic      Eth1/2",
	"1       00:50:56:aa:bb:cc   Dynamic      Eth1/3",
	"1       b8:59:9f:11:22:33   Dynamic      Po10",
	"200     0c:42:a1:99:88:77   Static       Eth1/4",
	"1       0c:42:a1:00:11/22   Dynamic      Eth1/5",
	"",
	"Number of unicast:    5",
}

func TestOnyxMatchesProbe(t *testing.T) {
	dialect := &onyxDialect{}
	assert.True(t, dialect.MatchesProbe(onyxVersionFixture))
	assert.True(t, dialect.MatchesProbe([]string{"Product name:      MLNX-OS"}))
	assert.False(t, dialect.MatchesProbe([]string{"Cisco Nexus Operating System (NX-OS) Software"}))
	assert.False(t, dialect.MatchesProbe(nil))
}

func TestOnyxParseHostname(t *testing.T) {
	dialect := &onyxDialect{}
	lines := []string{
		"Hostname: leaf-sw01",
		"Name servers:",
		"  10.1.0.53",
	}
	assert.Equal(t, "leaf-sw01", dialect.ParseHostname(lines))
	assert.Equal(t, "", dialect.ParseHostname([]string{"Name servers:"}))
}

func TestOnyxParseMACTable(t *testing.T) {
	dialect := &onyxDialect{}
	filter := Filter{VirtualMACPrefixes: []string{"00:50:56"}}

	result, err := dialect.ParseMACTable(onyxMACTableFixture, filter)
	require.NoError(t, err)

	require.Len(t, result.Entries, 3)
	assert.Equal(t, common.MacTableEntry{
		Port:    "eth1/1",
		RawPort: "Eth1/1",
		MAC:     "0c:42:a1:22:fb:4a",
		VLAN:    1,
	}, result.Entries[0])
	assert.True(t, result.Entries[2].Static)
	assert.Equal(t, uint(200), result.Entries[2].VLAN)
	assert.Equal(t, 1, result.DroppedAggregate)
	assert.Equal(t, 1, result.DroppedVirtual)
	assert.Equal(t, 0, result.DroppedVLAN)
}

func TestOnyxParseMACTableVLANFilter(t *testing.T) {
	dialect := &onyxDialect{}
	result, err := dialect.ParseMACTable(onyxMACTableFixture, Filter{DataPlaneVLAN: 200})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "eth1/4", result.Entries[0].Port)
	assert.Equal(t, 3, result.DroppedVLAN)
}

func TestOnyxParseMACTableGarbage(t *testing.T) {
	dialect := &onyxDialect{}
	_, err := dialect.ParseMACTable([]string{"% Unrecognized command"}, Filter{})
	assert.ErrorIs(t, err, common.ErrParseFailed)
}

func TestOnyxParseNeighbors(t *testing.T) {
	dialect := &onyxDialect{}
	lines := []string{
		"Local Interface      Device ID            Port ID              System Name",
		"---------------      ---------            -------              -----------",
		"Eth1/31              b8:59:9f:aa:bb:cc    Eth1/31              spine-sw01",
		"Eth1/32              b8:59:9f:aa:bb:cd    Eth1/32              spine-sw02",
		"Eth1/10              0c:42:a1:00:00:01    enp1s0f0             kvm-host-3",
	}
	neighbors, err := dialect.ParseNeighbors(lines)
	require.NoError(t, err)
	require.Len(t, neighbors, 3)
	assert.Equal(t, "eth1/31", neighbors[0].Port)
	assert.Equal(t, "spine-sw01", neighbors[0].RemoteSystem)
	assert.Equal(t, "Eth1/31", neighbors[0].RemotePort)

	_, err = dialect.ParseNeighbors([]string{"% Unrecognized command"})
	assert.ErrorIs(t, err, common.ErrParseFailed)
}

func TestOnyxParsePorts(t *testing.T) {
	dialect := &onyxDialect{}
	lines := []string{
		"Port             Operational state    Speed          Negotiation",
		"----             -----------------    -----          -----------",
		"Eth1/1           Up                   100G           No-Negotiation",
		"Eth1/2           Down                 Unknown        Auto",
		"Eth1/3/1         Up                   25G            No-Negotiation",
	}
	ports, err := dialect.ParsePorts(lines)
	require.NoError(t, err)
	require.Len(t, ports, 3)

	assert.Equal(t, "eth1/1", ports[0].Name)
	assert.Equal(t, uint(100000), ports[0].SpeedMbps)
	assert.True(t, ports[0].OperUp)

	assert.False(t, ports[1].OperUp)
	assert.Equal(t, uint(0), ports[1].SpeedMbps)

	assert.Equal(t, "eth1/3/1", ports[2].Name)
	assert.Equal(t, "eth1/3", ports[2].Parent)
	assert.Equal(t, 1, ports[2].SubPort)
}
