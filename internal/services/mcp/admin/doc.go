// Package admin implements the Google Analytics 4 property administration
// operations exposed as MCP tools.
//
// Every operation resolves the caller's property reference through a single
// Resolver and then issues exactly one create or list call against the
// Analytics Admin API. Failures are never retried or rewritten here; they
// travel back to the MCP dispatch layer as *NotFoundError or *RemoteAPIError.
package admin
