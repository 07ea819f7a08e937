// Package service wires protocol transport to the admin tool dispatcher.
//
// It is the transport adapter layer: the package knows how to run MCP over stdio
// or streamable HTTP and delegates tool meaning to the domain dispatcher.
package service
