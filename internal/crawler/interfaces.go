package crawler

import (
	"context"

	"github.com/samvad-hq/samvad-bulletin/internal/domain"
	"github.com/samvad-hq/samvad-bulletin/pkg/providers"
	"github.com/samvad-hq/samvad-bulletin/pkg/publishers"
)

// ItemScraper fills in story fields a feed left blank (e.g., from OG tags).
type ItemScraper interface {
	Enrich(ctx context.Context, cfg providers.Provider, items []domain.Item) []domain.Item
}

// EventPublisher announces events downstream and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which items were already announced.
type Deduper interface {
	SeenItem(id string) (bool, error)
	MarkItem(id string) error
}
