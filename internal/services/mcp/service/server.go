package service

import (
	"github.com/louisbranch/ga4-admin-mcp/internal/platform/telemetry/metrics"
	"github.com/louisbranch/ga4-admin-mcp/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies the MCP server during initialization.
	serverName = "ga4-admin-server"
	// serverVersion identifies the MCP server version.
	serverVersion = "1.0.0"
)

// TransportKind identifies the supported MCP transport implementations.
type TransportKind string

const (
	// TransportStdio serves MCP over standard input and output.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP serves MCP over streamable HTTP.
	TransportHTTP TransportKind = "http"
)

// Config holds runtime settings for the MCP server.
type Config struct {
	Transport TransportKind
	// HTTPAddr is the HTTP listen address. Defaults to localhost:8081.
	HTTPAddr string
	// AllowedHosts extends the loopback-only Host/Origin allowlist.
	AllowedHosts []string
	// AuthToken is a static bearer token accepted on /mcp and /metrics.
	AuthToken string
	// JWTSecret, when set, also accepts HS256 bearer JWTs signed with it.
	// Tokens must carry the ga4-admin-mcp audience and an expiry.
	JWTSecret string
}

// Server hosts the MCP server and its tool dispatcher.
type Server struct {
	mcpServer  *mcp.Server
	dispatcher *domain.Dispatcher
	metrics    *metrics.Registry
}

// New creates an MCP server exposing the four admin tools backed by ops.
// reg may be nil, in which case tool calls are not counted and the HTTP
// transport serves no /metrics endpoint.
func New(ops domain.Operations, reg *metrics.Registry) *Server {
	dispatcher := domain.NewDispatcher(ops, reg)
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	handler := dispatcher.Handler()
	for _, tool := range domain.Tools() {
		mcpServer.AddTool(tool, handler)
	}
	mcpServer.AddReceivingMiddleware(dispatcher.UnknownToolMiddleware())

	return &Server{
		mcpServer:  mcpServer,
		dispatcher: dispatcher,
		metrics:    reg,
	}
}

// MCPServer exposes the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	if s == nil {
		return nil
	}
	return s.mcpServer
}
