// Package metrics provides operational metrics collection.
//
// Tool calls are counted by tool name and outcome and timed by tool name.
// Collectors register on a private Prometheus registry so tests and
// multiple servers in one process do not collide; Handler exposes that
// registry in Prometheus text format.
package metrics
