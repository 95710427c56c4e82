// Package metrics measures runs.
//
// EnergyDrift and MaxError implement sim.Metric and are fed every recorded
// state by the driver. Recorder aggregates finished runs into Prometheus
// collectors that can be written out as a node_exporter textfile.
package metrics
