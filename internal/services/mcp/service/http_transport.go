package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/louisbranch/ga4-admin-mcp/internal/platform/telemetry/metrics"
	"github.com/louisbranch/ga4-admin-mcp/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultHTTPAddr = "localhost:8081"

var listenTCP = net.Listen

// HTTPTransport serves MCP over streamable HTTP. It guards every endpoint
// with Host/Origin validation and, when configured, bearer authorization.
type HTTPTransport struct {
	addr         string
	allowedHosts map[string]struct{}
	authToken    string
	jwtSecret    []byte
	server       *mcp.Server
	metrics      *metrics.Registry
}

// NewHTTPTransport creates a transport for server using cfg. An empty
// HTTPAddr binds to localhost only.
func NewHTTPTransport(cfg Config, server *Server) *HTTPTransport {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		addr = defaultHTTPAddr
	}
	t := &HTTPTransport{
		addr:         addr,
		allowedHosts: parseAllowedHosts(cfg.AllowedHosts),
		authToken:    strings.TrimSpace(cfg.AuthToken),
	}
	if secret := strings.TrimSpace(cfg.JWTSecret); secret != "" {
		t.jwtSecret = []byte(secret)
	}
	if server != nil {
		t.server = server.mcpServer
		t.metrics = server.metrics
	}
	return t
}

// Handler returns the HTTP routes of the transport:
//
//	/mcp         streamable HTTP MCP endpoint
//	/mcp/health  liveness probe
//	/metrics     Prometheus metrics, when a registry is configured
func (t *HTTPTransport) Handler() http.Handler {
	mux := http.NewServeMux()

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return t.server
	}, nil)
	mux.Handle("/mcp", t.guard(streamable))
	mux.HandleFunc("/mcp/health", t.handleHealth)
	if t.metrics != nil {
		mux.Handle("/metrics", t.guard(t.metrics.Handler()))
	}
	return otelhttp.NewHandler(mux, "mcp")
}

// guard applies host validation and bearer authorization before next.
func (t *HTTPTransport) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := t.validateLocalRequest(r); err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		if !t.authorizeRequest(w, r) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully.
func (t *HTTPTransport) Start(ctx context.Context) error {
	if t.server == nil {
		return fmt.Errorf("MCP server is not configured")
	}

	listener, err := listenTCP("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", t.addr, err)
	}

	httpServer := &http.Server{
		Handler:           t.Handler(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	log.Printf("Starting MCP HTTP server on %s", listener.Addr())

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		log.Printf("Shutting down MCP HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		return fmt.Errorf("HTTP server error: %w", err)
	}
}
