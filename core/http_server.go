package core

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"dev.rackwire.net/fabricmap/common"
)

// StartHTTPServer - Serve the metrics endpoint in the background, if one is configured.
func StartHTTPServer(metrics *Metrics) {
	endpoint := common.GlobalConfig.HTTPEndpoint
	if endpoint == "" {
		return
	}
	go func() {
		log.WithFields(log.Fields{
			"endpoint": endpoint,
		}).Info("HTTP server listening")
		var mainServeMux http.ServeMux
		mainServeMux.HandleFunc("/", handleOtherRequest)
		mainServeMux.HandleFunc("/metrics", func(response http.ResponseWriter, request *http.Request) {
			handleMetricsRequest(metrics, response, request)
		})
		if err := http.ListenAndServe(endpoint, &mainServeMux); err != nil {
			log.WithError(err).Error("HTTP server failed")
		}
	}()
}

func handleOtherRequest(response http.ResponseWriter, request *http.Request) {
	if request.URL.Path == "/" {
		fmt.Fprintf(response, "%s version %s by %s.\n", common.AppName, common.AppVersion, common.AppAuthor)
		fmt.Fprintf(response, "\nPaths:\n")
		fmt.Fprintf(response, "- Metrics: /metrics\n")
	} else {
		http.Error(response, "404 - Page not found.\n", 404)
	}
}

func handleMetricsRequest(metrics *Metrics, response http.ResponseWriter, request *http.Request) {
	log.WithFields(log.Fields{
		"endpoint": "metrics",
		"client":   request.RemoteAddr,
		"url":      request.URL,
	}).Trace("Request")

	promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}).ServeHTTP(response, request)
}
