// Package admintwin parses twin command flags and serves the Analytics Admin
// API twin over HTTP.
package admintwin

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"

	entrypoint "github.com/louisbranch/ga4-admin-mcp/internal/platform/cmd"
	"github.com/louisbranch/ga4-admin-mcp/internal/platform/timeouts"
	"github.com/louisbranch/ga4-admin-mcp/internal/services/admintwin/api"
	"github.com/louisbranch/ga4-admin-mcp/internal/services/admintwin/store"
)

var listenTCP = net.Listen

// Config holds the twin command configuration.
type Config struct {
	Addr string `env:"GA4_ADMIN_TWIN_ADDR" envDefault:"localhost:8090"`
	Seed string `env:"GA4_ADMIN_TWIN_SEED"`
}

// ParseConfig parses environ (KEY=VALUE pairs) and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, environ []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg, environ); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.Seed, "seed", cfg.Seed, "YAML seed file loaded at startup")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewStore builds the twin store, loading the seed file when one is set.
func NewStore(cfg Config) (*store.MemoryStore, error) {
	s := store.New()
	path := strings.TrimSpace(cfg.Seed)
	if path == "" {
		return s, nil
	}
	seed, err := store.LoadSeedFile(path)
	if err != nil {
		return nil, err
	}
	if err := s.Load(seed); err != nil {
		return nil, fmt.Errorf("load seed %s: %w", path, err)
	}
	return s, nil
}

// Run serves the twin until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTwin, func(ctx context.Context) error {
		s, err := NewStore(cfg)
		if err != nil {
			return fmt.Errorf("init twin store: %w", err)
		}
		listener, err := listenTCP("tcp", cfg.Addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
		}
		return serve(ctx, listener, api.NewRouter(s))
	})
}

func serve(ctx context.Context, listener net.Listener, handler http.Handler) error {
	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	log.Printf("Analytics Admin twin listening on %s", listener.Addr())

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown twin: %w", err)
		}
		return nil
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve twin: %w", err)
	}
}
