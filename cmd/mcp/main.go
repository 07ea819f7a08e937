package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	mcpcmd "github.com/louisbranch/ga4-admin-mcp/internal/cmd/mcp"
)

// main starts the GA4 admin MCP server on stdio or HTTP.
func main() {
	log.SetPrefix("[MCP] ")
	log.SetOutput(os.Stderr)

	cfg, err := mcpcmd.ParseConfig(flag.CommandLine, os.Args[1:], os.Environ())
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcpcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve MCP: %v", err)
	}
}
