package admin

import (
	"context"
	"sync"
)

// ClientProvider supplies the authenticated API client for an invocation.
type ClientProvider interface {
	Client(ctx context.Context) (API, error)
}

// ClientFactory builds a new API client.
type ClientFactory func(ctx context.Context) (API, error)

// LazyProvider builds its client on first use and reuses it afterwards. A
// failed build is not remembered, so the next call tries again.
type LazyProvider struct {
	mu      sync.Mutex
	factory ClientFactory
	client  API
}

// NewLazyProvider creates a provider around factory.
func NewLazyProvider(factory ClientFactory) *LazyProvider {
	return &LazyProvider{factory: factory}
}

// Client returns the shared client, building it if needed. The factory runs
// with a context detached from ctx's cancellation because the client and its
// token source outlive the invocation that created them.
func (p *LazyProvider) Client(ctx context.Context) (API, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	client, err := p.factory(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}
	p.client = client
	return client, nil
}
