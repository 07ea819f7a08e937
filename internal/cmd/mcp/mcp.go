// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"log"

	entrypoint "github.com/louisbranch/ga4-admin-mcp/internal/platform/cmd"
	"github.com/louisbranch/ga4-admin-mcp/internal/platform/telemetry/metrics"
	"github.com/louisbranch/ga4-admin-mcp/internal/services/mcp/admin"
	"github.com/louisbranch/ga4-admin-mcp/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	Transport    string   `env:"GA4_ADMIN_MCP_TRANSPORT"     envDefault:"stdio"`
	HTTPAddr     string   `env:"GA4_ADMIN_MCP_HTTP_ADDR"     envDefault:"localhost:8081"`
	AllowedHosts []string `env:"GA4_ADMIN_MCP_ALLOWED_HOSTS" envSeparator:","`
	AuthToken    string   `env:"GA4_ADMIN_MCP_AUTH_TOKEN"`
	JWTSecret    string   `env:"GA4_ADMIN_MCP_JWT_SECRET"`
	APIEndpoint  string   `env:"GA4_ADMIN_API_ENDPOINT"`
	APIInsecure  bool     `env:"GA4_ADMIN_API_INSECURE"      envDefault:"false"`
	LookupRPS    float64  `env:"GA4_ADMIN_LOOKUP_RPS"        envDefault:"10"`
	LookupBurst  int      `env:"GA4_ADMIN_LOOKUP_BURST"      envDefault:"1"`
}

// ParseConfig parses environ (KEY=VALUE pairs) and flags into a Config.
// Flags win over the environment.
func ParseConfig(fs *flag.FlagSet, args []string, environ []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg, environ); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.APIEndpoint, "api-endpoint", cfg.APIEndpoint, "Analytics Admin API endpoint override")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	switch service.TransportKind(cfg.Transport) {
	case service.TransportStdio, service.TransportHTTP:
	default:
		return Config{}, fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
	return cfg, nil
}

// NewServer builds the MCP server for cfg. The Analytics Admin client is
// created lazily on the first tool call.
func NewServer(cfg Config, reg *metrics.Registry) *service.Server {
	provider := admin.NewLazyProvider(admin.GoogleClientFactory(admin.ClientConfig{
		Endpoint: cfg.APIEndpoint,
		Insecure: cfg.APIInsecure,
	}))
	ops := admin.NewService(provider,
		admin.WithLookupLimiter(admin.NewLookupLimiter(cfg.LookupRPS, cfg.LookupBurst)),
	)
	return service.New(ops, reg)
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		if cfg.APIEndpoint != "" {
			log.Printf("using Analytics Admin endpoint %s", cfg.APIEndpoint)
		}
		server := NewServer(cfg, metrics.NewRegistry())
		return server.Run(ctx, service.Config{
			Transport:    service.TransportKind(cfg.Transport),
			HTTPAddr:     cfg.HTTPAddr,
			AllowedHosts: cfg.AllowedHosts,
			AuthToken:    cfg.AuthToken,
			JWTSecret:    cfg.JWTSecret,
		})
	})
}
