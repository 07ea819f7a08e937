// Package domain is the MCP dispatch boundary for the GA4 admin tools.
//
// It decodes the untyped tool arguments into one typed action per tool, runs
// the matching admin operation, and renders every outcome, including
// failures, as an indented JSON envelope in the tool result text. Nothing
// returned from Dispatch is a protocol error.
package domain
