package db

import (
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2api "github.com/influxdata/influxdb-client-go/v2/api"
	log "github.com/sirupsen/logrus"

	"dev.rackwire.net/fabricmap/common"
)

// InfluxDBBucket - InfluxDB bucket.
const InfluxDBBucket = "fabricmap"

// Sink - Optional InfluxDB sink for run telemetry. A nil sink accepts and
// discards everything, so callers never need to check whether one is
// configured.
type Sink struct {
	client   influxdb2.Client
	writeAPI influxdb2api.WriteAPI
}

// NewSink - Create a sink, or nil if no database URL is configured.
func NewSink(url string, token string, org string) *Sink {
	if url == "" {
		log.Debug("No database URL configured, telemetry disabled")
		return nil
	}

	client := influxdb2.NewClient(url, token)
	writeAPI := client.WriteAPI(org, InfluxDBBucket)
	writeAPIErrors := writeAPI.Errors()
	go func() {
		for err := range writeAPIErrors {
			log.WithError(err).Error("Failed to write to database")
		}
	}()

	log.Info("DB client started: ", url)
	return &Sink{client: client, writeAPI: writeAPI}
}

// StoreScrapeEntry - Attempt to store a scrape entry in the DB.
func (sink *Sink) StoreScrapeEntry(entry common.ScrapeEntry) {
	log.WithFields(log.Fields{
		"source":   entry.Source,
		"phase":    entry.Phase,
		"time":     entry.Time,
		"duration": entry.Duration,
		"success":  entry.Success,
	}).Trace("Scrape entry")

	if sink == nil {
		return
	}

	point := influxdb2.NewPointWithMeasurement("scrape").
		AddTag("source", entry.Source).
		AddTag("phase", entry.Phase).
		AddField("duration_seconds", float64(entry.Duration)/float64(time.Second)).
		AddField("success", entry.Success).
		SetTime(entry.Time)
	sink.writeAPI.WritePoint(point)
}

// StoreSwitchSummary - Attempt to store per-switch correlation counts in the DB.
func (sink *Sink) StoreSwitchSummary(summary common.SwitchSummary, runTime time.Time) {
	log.WithFields(log.Fields{
		"switch":  summary.ManagementIP,
		"dialect": summary.Dialect,
	}).Trace("Switch summary entry")

	if sink == nil {
		return
	}

	point := influxdb2.NewPointWithMeasurement("switch_summary").
		AddTag("switch", summary.ManagementIP).
		AddTag("dialect", summary.Dialect).
		SetTime(runTime)
	for classification, count := range summary.Counts {
		point.AddField(string(classification), count)
	}
	sink.writeAPI.WritePoint(point)
}

// Close - Flush buffered points and close the client.
func (sink *Sink) Close() {
	if sink == nil {
		return
	}
	sink.writeAPI.Flush()
	sink.client.Close()
	log.Info("DB client stopped")
}
