// Package metrics exposes pipeline activity as Prometheus collectors and
// reads runtime memory statistics for the dashboards.
package metrics
