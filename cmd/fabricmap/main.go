package main

import (
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"dev.rackwire.net/fabricmap/common"
	"dev.rackwire.net/fabricmap/core"
	"dev.rackwire.net/fabricmap/db"
	"dev.rackwire.net/fabricmap/util"
)

func main() {
	log.Infof("Starting %v version %v by %v", common.AppName, common.AppVersion, common.AppAuthor)

	// Parse CLI args (may exit)
	debug := false
	configPath := ""
	outputPath := ""
	dataPlaneVLAN := -1
	flag.BoolVar(&debug, "debug", debug, "Show debug messages.")
	flag.StringVar(&configPath, "config", configPath, "Config file path.")
	flag.StringVar(&outputPath, "output", outputPath, "Topology output file path, stdout if empty.")
	flag.IntVar(&dataPlaneVLAN, "vlan", dataPlaneVLAN, "Data-plane VLAN filter, overrides config.")
	flag.Parse()
	if debug {
		log.SetLevel(log.TraceLevel)
		log.Info("Debug mode enabled")
	}

	// Flag overrides go through viper so LoadConfig validates them too
	if outputPath != "" {
		viper.Set("output_path", outputPath)
	}
	if dataPlaneVLAN >= 0 {
		viper.Set("data_plane_vlan", dataPlaneVLAN)
	}

	// Load config
	if !common.LoadConfig(configPath) {
		os.Exit(1)
	}

	// Load credentials and inventory
	if !common.LoadCredentials() || !common.LoadInventory() {
		os.Exit(1)
	}

	// Setup internal shutdown mechanism
	shutdownChannel := make(chan os.Signal, 1)
	signal.Notify(shutdownChannel, syscall.SIGINT, syscall.SIGTERM)
	shutdown := util.NewShutdownChannelDistributor(shutdownChannel)

	metrics := core.NewMetrics()
	core.StartHTTPServer(metrics)

	sink := db.NewSink(common.GlobalConfig.InfluxDBURL, common.GlobalConfig.InfluxDBToken, common.GlobalConfig.InfluxDBOrg)
	defer sink.Close()

	graph, err := core.RunDiscovery(shutdown, sink, metrics)
	if err != nil {
		sink.Close()
		log.WithError(err).Fatal("Discovery failed")
	}

	if !writeTopology(graph) {
		sink.Close()
		os.Exit(1)
	}
}

func writeTopology(graph common.TopologyGraph) bool {
	data, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		log.WithError(err).Error("Failed to serialize topology")
		return false
	}
	data = append(data, '\n')

	if common.GlobalConfig.OutputPath == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			log.WithError(err).Error("Failed to write topology")
			return false
		}
		return true
	}
	if err := os.WriteFile(common.GlobalConfig.OutputPath, data, 0644); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"output_path": common.GlobalConfig.OutputPath,
		}).Error("Failed to write topology")
		return false
	}
	log.WithFields(log.Fields{
		"output_path": common.GlobalConfig.OutputPath,
	}).Info("Topology written")
	return true
}
