package dialects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.rackwire.net/fabricmap/common"
)

var cumulusVersionFixture = []string{
	"NCLU_VERSION=1.0-cl4.2.1u1",
	"DISTRIB_ID=\"Cumulus Linux\"",
	"DISTRIB_RELEASE=4.2.1",
	"DISTRIB_DESCRIPTION=\"Cumulus Linux 4.2.1\"",
}

var cumulusMACTableFixture = []string{
	"VLAN      Master    Interface    MAC                TunnelDest  State      Flags      LastSeen",
	"--------  --------  -----------  -----------------  ----------  ---------  ---------  --------",
	"100       bridge    swp1         0c:42:a1:22:fb:4a                                    00:00:10",
	"100       bridge    swp2         0c:42:a1:22:fb:4b                                    00:00:11",
	"100       bridge    swp3         00:50:56:aa:bb:cc                                    00:00:05",
	"100       bridge    bond0        b8:59:9f:11:22:33                                    00:01:02",
	"untagged  bridge    peerlink     b8:59:9f:44:55:66              permanent             never",
	"300       bridge    swp4         0c:42:a1:99:88:77              permanent             never",
}

func TestCumulusMatchesProbe(t *testing.T) {
	dialect := &cumulusDialect{}
	assert.True(t, dialect.MatchesProbe(cumulusVersionFixture))
	assert.False(t, dialect.MatchesProbe(nxosVersionFixture))
	assert.False(t, dialect.MatchesProbe(nil))
}

func TestCumulusParseHostname(t *testing.T) {
	dialect := &cumulusDialect{}
	assert.Equal(t, "cumulus-leaf03", dialect.ParseHostname([]string{"cumulus-leaf03"}))
	assert.Equal(t, "", dialect.ParseHostname([]string{"command not found"}))
}

func TestCumulusParseMACTable(t *testing.T) {
	dialect := &cumulusDialect{}
	filter := Filter{VirtualMACPrefixes: []string{"00:50:56"}}

	result, err := dialect.ParseMACTable(cumulusMACTableFixture, filter)
	require.NoError(t, err)

	require.Len(t, result.Entries, 3)
	assert.Equal(t, common.MacTableEntry{
		Port:    "swp1",
		RawPort: "swp1",
		MAC:     "0c:42:a1:22:fb:4a",
		VLAN:    100,
	}, result.Entries[0])
	assert.True(t, result.Entries[2].Static)
	assert.Equal(t, uint(300), result.Entries[2].VLAN)
	// bond0 and peerlink are aggregates
	assert.Equal(t, 2, result.DroppedAggregate)
	assert.Equal(t, 1, result.DroppedVirtual)
}

func TestCumulusParseMACTableGarbage(t *testing.T) {
	dialect := &cumulusDialect{}
	_, err := dialect.ParseMACTable([]string{"ERROR: command not found"}, Filter{})
	assert.ErrorIs(t, err, common.ErrParseFailed)
}

func TestCumulusParseNeighbors(t *testing.T) {
	dialect := &cumulusDialect{}
	lines := []string{
		"LocalPort  Speed  Mode     RemoteHost  RemotePort",
		"---------  -----  -------  ----------  ----------",
		"swp31      100G   Default  spine-sw01  swp1",
		"swp32      100G   Default  spine-sw02  swp1",
		"eth0       1G     Mgmt     mgmt-sw     ge-0/0/7",
	}
	neighbors, err := dialect.ParseNeighbors(lines)
	require.NoError(t, err)
	require.Len(t, neighbors, 3)
	assert.Equal(t, "swp31", neighbors[0].Port)
	assert.Equal(t, "spine-sw01", neighbors[0].RemoteSystem)
	assert.Equal(t, "swp1", neighbors[0].RemotePort)

	_, err = dialect.ParseNeighbors([]string{"ERROR: command not found"})
	assert.ErrorIs(t, err, common.ErrParseFailed)
}

func TestCumulusParsePorts(t *testing.T) {
	dialect := &cumulusDialect{}
	lines := []string{
		"State  Name    Spd   MTU    Mode          LLDP                Summary",
		"-----  ----    ---   ---    ----          ----                -------",
		"UP     swp1    100G  9216   Trunk/L2      server-1 (enp1s0)   Master: bridge(UP)",
		"DN     swp2    N/A   9216   Trunk/L2                          Master: bridge(UP)",
		"UP     swp3s0  25G   9216   Trunk/L2                          Master: bridge(UP)",
	}
	ports, err := dialect.ParsePorts(lines)
	require.NoError(t, err)
	require.Len(t, ports, 3)

	assert.True(t, ports[0].OperUp)
	assert.Equal(t, uint(100000), ports[0].SpeedMbps)

	assert.False(t, ports[1].OperUp)
	assert.Equal(t, uint(0), ports[1].SpeedMbps)

	assert.Equal(t, "swp3s0", ports[2].Name)
	assert.Equal(t, "swp3", ports[2].Parent)
	assert.Equal(t, 0, ports[2].SubPort)
}
