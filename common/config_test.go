package common

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	assert.True(t, LoadConfig(""))
	assert.Equal(t, 10, GlobalConfig.NodeWorkers)
	assert.Equal(t, 4, GlobalConfig.SwitchWorkers)
	assert.Equal(t, uint(0), GlobalConfig.DataPlaneVLAN)
	assert.NotEmpty(t, GlobalConfig.VirtualMACPrefixes)
}

func TestLoadConfigVLANOverride(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	// Overrides set ahead of loading (the CLI path) hit the same validation
	viper.Set("data_plane_vlan", 100)
	assert.True(t, LoadConfig(""))
	assert.Equal(t, uint(100), GlobalConfig.DataPlaneVLAN)
}

func TestLoadConfigRejectsOutOfRangeVLAN(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("data_plane_vlan", 5000)
	assert.False(t, LoadConfig(""))
}

func TestLoadConfigRejectsNonPositiveWorkers(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("node_workers", 0)
	assert.False(t, LoadConfig(""))
}
