package providers

import (
	"context"

	"github.com/samvad-hq/samvad-bulletin/internal/domain"
	"github.com/samvad-hq/samvad-bulletin/pkg/httpclient"
)

// Fetcher retrieves stories for a provider and wraps them as items.
// Concrete implementations live in type-specific files (e.g., rss.go).
type Fetcher interface {
	ID() string
	Fetch(ctx context.Context, cfg Provider) ([]domain.Item, error)
}

// FetcherRegistry resolves the fetcher implementation for a given provider config.
type FetcherRegistry interface {
	FetcherFor(cfg Provider) (Fetcher, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within providers.
type HTTPClient = httpclient.Client
