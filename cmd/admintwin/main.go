package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	twincmd "github.com/louisbranch/ga4-admin-mcp/internal/cmd/admintwin"
)

// main serves the Analytics Admin API twin for local development.
func main() {
	log.SetPrefix("[TWIN] ")

	cfg, err := twincmd.ParseConfig(flag.CommandLine, os.Args[1:], os.Environ())
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := twincmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve twin: %v", err)
	}
}
