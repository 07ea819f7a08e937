// Package telemetry groups the operational observability helpers shared by
// the MCP server and the admin twin. Prometheus metrics live in
// telemetry/metrics; tracing is configured by platform/otel.
package telemetry
