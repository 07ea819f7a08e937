package mcp

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/louisbranch/ga4-admin-mcp/internal/platform/telemetry/metrics"
	"github.com/louisbranch/ga4-admin-mcp/internal/services/admintwin/api"
	"github.com/louisbranch/ga4-admin-mcp/internal/services/admintwin/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Transport != "stdio" {
		t.Fatalf("expected default transport stdio, got %q", cfg.Transport)
	}
	if cfg.HTTPAddr != "localhost:8081" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.APIEndpoint != "" || cfg.APIInsecure {
		t.Fatalf("expected Google default endpoint, got %q insecure=%v", cfg.APIEndpoint, cfg.APIInsecure)
	}
	if cfg.LookupRPS != 10 || cfg.LookupBurst != 1 {
		t.Fatalf("expected default lookup pacing, got %v/%d", cfg.LookupRPS, cfg.LookupBurst)
	}
	if len(cfg.AllowedHosts) != 0 || cfg.AuthToken != "" {
		t.Fatalf("expected no hosts or token, got %v %q", cfg.AllowedHosts, cfg.AuthToken)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	environ := []string{
		"GA4_ADMIN_MCP_TRANSPORT=http",
		"GA4_ADMIN_MCP_HTTP_ADDR=env-http",
		"GA4_ADMIN_MCP_ALLOWED_HOSTS=mcp.example.com,admin.example.com",
		"GA4_ADMIN_MCP_AUTH_TOKEN=secret",
		"GA4_ADMIN_MCP_JWT_SECRET=jwt",
		"GA4_ADMIN_API_ENDPOINT=http://env-endpoint",
		"GA4_ADMIN_API_INSECURE=true",
		"GA4_ADMIN_LOOKUP_RPS=2.5",
		"GA4_ADMIN_LOOKUP_BURST=3",
	}
	args := []string{"-http-addr", "flag-http", "-api-endpoint", "http://flag-endpoint"}
	cfg, err := ParseConfig(fs, args, environ)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Transport != "http" {
		t.Fatalf("expected env transport, got %q", cfg.Transport)
	}
	if cfg.HTTPAddr != "flag-http" {
		t.Fatalf("expected flag http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.APIEndpoint != "http://flag-endpoint" || !cfg.APIInsecure {
		t.Fatalf("unexpected endpoint config %q insecure=%v", cfg.APIEndpoint, cfg.APIInsecure)
	}
	if len(cfg.AllowedHosts) != 2 || cfg.AllowedHosts[1] != "admin.example.com" {
		t.Fatalf("unexpected allowed hosts %v", cfg.AllowedHosts)
	}
	if cfg.AuthToken != "secret" || cfg.JWTSecret != "jwt" || cfg.LookupRPS != 2.5 || cfg.LookupBurst != 3 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestParseConfigRejectsUnknownTransport(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := ParseConfig(fs, []string{"-transport", "grpc"}, nil); err == nil {
		t.Fatal("expected unsupported transport error")
	}
}

func TestParseConfigRejectsMalformedEnv(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil, []string{"GA4_ADMIN_LOOKUP_RPS=fast"}); err == nil {
		t.Fatal("expected env parse error")
	}
}

func TestNewServerTalksToEndpoint(t *testing.T) {
	s := store.New()
	err := s.Load(store.Seed{Accounts: []store.SeedAccount{{
		ID:         "1",
		Properties: []store.SeedProperty{{ID: "42", Streams: []store.SeedStream{{ID: "9", MeasurementID: "G-CMD"}}}},
	}}})
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	twin := httptest.NewServer(api.NewRouter(s))
	defer twin.Close()

	server := NewServer(Config{APIEndpoint: twin.URL, APIInsecure: true, LookupRPS: 100, LookupBurst: 1}, metrics.NewRegistry())

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.MCPServer().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("connect server: %v", err)
	}
	defer serverSession.Wait()
	clientSession, err := mcp.NewClient(&mcp.Implementation{Name: "cmd-test", Version: "0.0.1"}, nil).Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	defer clientSession.Close()

	result, err := clientSession.CallTool(ctx, &mcp.CallToolParams{
		Name:      "create_conversion_event",
		Arguments: map[string]any{"propertyId": "G-CMD", "eventName": "sign_up"},
	})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %+v", result.Content)
	}
	var env struct {
		Success bool `json:"success"`
		Event   struct {
			Name string `json:"name"`
		} `json:"event"`
	}
	if err := json.Unmarshal([]byte(result.Content[0].(*mcp.TextContent).Text), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !env.Success || env.Event.Name == "" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}
