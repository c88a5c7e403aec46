package common

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// PrometheusNamespace - Prometheus metrics namespace.
const PrometheusNamespace = "fabricmap"

// Config - The config.
type Config struct {
	InventoryPath   string
	CredentialsPath string
	OutputPath      string // empty means stdout
	HTTPEndpoint    string // empty disables the metrics endpoint

	NodeWorkers   int
	SwitchWorkers int

	ConnectTimeout time.Duration
	CommandTimeout time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	DataPlaneVLAN      uint // 0 means no VLAN filter
	UplinkMinSpeedMbps uint
	VirtualMACPrefixes []string

	InfluxDBURL   string
	InfluxDBToken string
	InfluxDBOrg   string
}

// GlobalConfig - Global singleton, populated by LoadConfig.
var GlobalConfig = Config{
	InventoryPath:      "inventory.json",
	CredentialsPath:    "credentials.json",
	NodeWorkers:        10,
	SwitchWorkers:      4,
	ConnectTimeout:     10 * time.Second,
	CommandTimeout:     30 * time.Second,
	MaxRetries:         3,
	RetryDelay:         2 * time.Second,
	UplinkMinSpeedMbps: 100000,
	VirtualMACPrefixes: []string{"00:50:56", "52:54:00", "50:6b:8d"},
}

// LoadConfig - Load configuration file and environment. Defaults apply if not called.
func LoadConfig(configPath string) bool {
	viper.SetEnvPrefix("fabricmap")
	viper.AutomaticEnv()

	viper.SetDefault("inventory_path", GlobalConfig.InventoryPath)
	viper.SetDefault("credentials_path", GlobalConfig.CredentialsPath)
	viper.SetDefault("node_workers", GlobalConfig.NodeWorkers)
	viper.SetDefault("switch_workers", GlobalConfig.SwitchWorkers)
	viper.SetDefault("connect_timeout_seconds", int(GlobalConfig.ConnectTimeout/time.Second))
	viper.SetDefault("command_timeout_seconds", int(GlobalConfig.CommandTimeout/time.Second))
	viper.SetDefault("max_retries", GlobalConfig.MaxRetries)
	viper.SetDefault("retry_delay_seconds", int(GlobalConfig.RetryDelay/time.Second))
	viper.SetDefault("uplink_min_speed_mbps", int(GlobalConfig.UplinkMinSpeedMbps))
	viper.SetDefault("virtual_mac_prefixes", GlobalConfig.VirtualMACPrefixes)

	if configPath != "" {
		viper.SetConfigFile(configPath)
		log.WithFields(log.Fields{
			"config_path": configPath,
		}).Info("Loading config")
		if err := viper.ReadInConfig(); err != nil {
			log.WithError(err).Error("Failed to read config file")
			return false
		}
	}

	GlobalConfig.InventoryPath = viper.GetString("inventory_path")
	GlobalConfig.CredentialsPath = viper.GetString("credentials_path")
	GlobalConfig.OutputPath = viper.GetString("output_path")
	GlobalConfig.HTTPEndpoint = viper.GetString("http_endpoint")
	GlobalConfig.NodeWorkers = viper.GetInt("node_workers")
	GlobalConfig.SwitchWorkers = viper.GetInt("switch_workers")
	GlobalConfig.ConnectTimeout = time.Duration(viper.GetInt("connect_timeout_seconds")) * time.Second
	GlobalConfig.CommandTimeout = time.Duration(viper.GetInt("command_timeout_seconds")) * time.Second
	GlobalConfig.MaxRetries = viper.GetInt("max_retries")
	GlobalConfig.RetryDelay = time.Duration(viper.GetInt("retry_delay_seconds")) * time.Second
	GlobalConfig.DataPlaneVLAN = uint(viper.GetInt("data_plane_vlan"))
	GlobalConfig.UplinkMinSpeedMbps = uint(viper.GetInt("uplink_min_speed_mbps"))
	GlobalConfig.VirtualMACPrefixes = viper.GetStringSlice("virtual_mac_prefixes")
	GlobalConfig.InfluxDBURL = viper.GetString("influxdb_url")
	GlobalConfig.InfluxDBToken = viper.GetString("influxdb_token")
	GlobalConfig.InfluxDBOrg = viper.GetString("influxdb_org")

	if GlobalConfig.NodeWorkers <= 0 || GlobalConfig.SwitchWorkers <= 0 {
		log.Error("Non-positive worker counts not allowed")
		return false
	}
	if GlobalConfig.ConnectTimeout <= 0 || GlobalConfig.CommandTimeout <= 0 {
		log.Error("Non-positive timeouts not allowed")
		return false
	}
	if GlobalConfig.DataPlaneVLAN >= 4096 {
		log.Error("Data-plane VLAN ID out of range")
		return false
	}

	return true
}
