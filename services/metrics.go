package services

import "github.com/prometheus/client_golang/prometheus"

var (
	toolsDiscoveredCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tools_discovered_total",
		Help: "Total number of raw candidates returned by all sources.",
	})
	toolsInsertedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tools_inserted_total",
		Help: "Total number of new tools persisted to the database.",
	})
	toolsDuplicateCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tools_duplicate_total",
		Help: "Total number of candidates skipped because the name already exists.",
	})
)

func init() {
	prometheus.MustRegister(toolsDiscoveredCounter, toolsInsertedCounter, toolsDuplicateCounter)
}
