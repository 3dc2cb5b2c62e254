package publishers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Builder creates a Publisher from a config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Registry maps publisher types to builders. Use NewRegistry or DefaultRegistry.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns a registry with optional pre-registered builders.
func NewRegistry(builders map[string]Builder) *Registry {
	r := &Registry{builders: make(map[string]Builder, len(builders))}
	for typ, b := range builders {
		r.Register(typ, b)
	}
	return r
}

// DefaultRegistry knows every built-in sink.
func DefaultRegistry() *Registry {
	return NewRegistry(map[string]Builder{
		TypeStdout:    newStdoutPublisher,
		TypeHTTP:      newHTTPPublisher,
		TypeSQS:       newSQSPublisher,
		TypeSNS:       newSNSPublisher,
		TypeGCPPubSub: newGCPPubSubPublisher,
	})
}

// Register associates a builder with a publisher type. Blank types and nil builders are ignored.
func (r *Registry) Register(typ string, builder Builder) {
	typ = normalizeType(typ)
	if typ == "" || builder == nil {
		return
	}

	r.mu.Lock()
	r.builders[typ] = builder
	r.mu.Unlock()
}

// Types lists registered publisher types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.builders))
	for typ := range r.builders {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

// PublisherFor builds the publisher for a single config entry.
func (r *Registry) PublisherFor(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	typ := normalizeType(cfg.Type)
	if typ == "" {
		return nil, fmt.Errorf("publisher %q has no type configured", cfg.ID)
	}

	r.mu.RLock()
	builder, ok := r.builders[typ]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no publisher registered for type %q (known: %s)", cfg.Type, strings.Join(r.Types(), ", "))
	}
	return builder(ctx, cfg, ensureLogger(log))
}

// Build instantiates every config entry and returns them behind a Fanout.
// Publishers built before a failure are closed.
func (r *Registry) Build(ctx context.Context, cfgs []PublisherConfig, log Logger) (*Fanout, error) {
	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		pub, err := r.PublisherFor(ctx, cfg, log)
		if err != nil {
			_ = closeAll(pubs)
			return nil, fmt.Errorf("build publisher %q: %w", cfg.ID, err)
		}
		pubs = append(pubs, pub)
	}
	return NewFanout(pubs), nil
}

func normalizeType(typ string) string {
	return strings.ToLower(strings.TrimSpace(typ))
}
