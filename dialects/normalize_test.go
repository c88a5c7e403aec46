package dialects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMAC(t *testing.T) {
	tests := map[string]struct {
		raw    string
		want   string
		wantOK bool
	}{
		"colon lowercase":  {"0c:42:a1:22:fb:4a", "0c:42:a1:22:fb:4a", true},
		"colon uppercase":  {"0C:42:A1:22:FB:4A", "0c:42:a1:22:fb:4a", true},
		"hyphen grouped":   {"0C-42-A1-22-FB-4A", "0c:42:a1:22:fb:4a", true},
		"dot grouped":      {"0c42.a122.fb4a", "0c:42:a1:22:fb:4a", true},
		"surrounding ws":   {"  0c:42:a1:22:fb:4a ", "0c:42:a1:22:fb:4a", true},
		"too short":        {"0c:42:a1:22:fb", "", false},
		"non-hex":          {"0c:42:a1:22:fb:4g", "", false},
		"empty":            {"", "", false},
		"garbage":          {"not-a-mac", "", false},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := NormalizeMAC(test.raw)
			assert.Equal(t, test.wantOK, ok)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestNormalizePort(t *testing.T) {
	tests := map[string]struct {
		raw  string
		want string
	}{
		"onyx short":       {"Eth1/1", "eth1/1"},
		"nxos long":        {"Ethernet1/1", "eth1/1"},
		"same name":        {"eth1/1", "eth1/1"},
		"port channel":     {"Port-Channel10", "po10"},
		"mlag channel":     {"Mlag-Port-Channel5", "mpo5"},
		"short po":         {"Po10", "po10"},
		"cumulus":          {"swp12", "swp12"},
		"breakout slash":   {"Ethernet1/1/2", "eth1/1/2"},
		"breakout sub":     {"swp1s0", "swp1s0"},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, NormalizePort(test.raw))
		})
	}
}

func TestIsAggregatePort(t *testing.T) {
	assert.True(t, IsAggregatePort("Po10"))
	assert.True(t, IsAggregatePort("Port-Channel10"))
	assert.True(t, IsAggregatePort("Mpo5"))
	assert.True(t, IsAggregatePort("bond0"))
	assert.True(t, IsAggregatePort("ae3"))
	assert.True(t, IsAggregatePort("peerlink"))
	assert.True(t, IsAggregatePort("peerlink.4094"))
	assert.False(t, IsAggregatePort("Eth1/1"))
	assert.False(t, IsAggregatePort("swp1"))
	assert.False(t, IsAggregatePort("bonded1")) // not an exact aggregate name
}

func TestSplitBreakout(t *testing.T) {
	parent, sub, ok := SplitBreakout("eth1/1/2")
	assert.True(t, ok)
	assert.Equal(t, "eth1/1", parent)
	assert.Equal(t, 2, sub)

	parent, sub, ok = SplitBreakout("swp1s0")
	assert.True(t, ok)
	assert.Equal(t, "swp1", parent)
	assert.Equal(t, 0, sub)

	_, _, ok = SplitBreakout("eth1/1")
	assert.False(t, ok)
	_, _, ok = SplitBreakout("swp12")
	assert.False(t, ok)
}

func TestIsVirtualMAC(t *testing.T) {
	prefixes := []string{"00:50:56", "52:54:00"}
	assert.True(t, IsVirtualMAC("00:50:56:ab:cd:ef", prefixes))
	assert.True(t, IsVirtualMAC("52:54:00:12:34:56", prefixes))
	assert.False(t, IsVirtualMAC("0c:42:a1:22:fb:4a", prefixes))
	assert.False(t, IsVirtualMAC("0c:42:a1:22:fb:4a", nil))
}

func TestParseSpeedMbps(t *testing.T) {
	tests := map[string]struct {
		raw  string
		want uint
	}{
		"100G":       {"100G", 100000},
		"lowercase":  {"25g", 25000},
		"plain mbps": {"40000", 40000},
		"mb suffix":  {"1000Mb/s", 1000},
		"gbps":       {"10Gbps", 10000},
		"fraction":   {"2.5G", 2500},
		"unknown":    {"Unknown", 0},
		"auto":       {"auto", 0},
		"empty":      {"", 0},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, ParseSpeedMbps(test.raw))
		})
	}
}
