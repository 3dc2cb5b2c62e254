package crawler

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/samvad-bulletin/internal/domain"
	"github.com/samvad-hq/samvad-bulletin/internal/logger"
	"github.com/samvad-hq/samvad-bulletin/pkg/providers"
	"github.com/samvad-hq/samvad-bulletin/pkg/publishers"
)

// Service coordinates crawling across multiple providers.
type Service struct {
	processor *ProviderProcessor
	log       logger.Logger
}

// NewService wires a crawler with the provider fetcher registry, the
// publisher fanout and the dedupe store.
func NewService(reg providers.FetcherRegistry, pub EventPublisher, log logger.Logger, dedupe Deduper) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		processor: NewProviderProcessor(reg, NewScraper(nil, log), pub, log, dedupe),
		log:       log,
	}
}

// WithScraper replaces the default page scraper; nil disables enrichment.
func (s *Service) WithScraper(scraper ItemScraper) *Service {
	s.processor.scraper = scraper
	return s
}

// Run executes a crawl pass for all configured providers.
func (s *Service) Run(ctx context.Context, cfgs []providers.Provider) error {
	if s == nil || s.processor == nil || s.processor.registry == nil {
		return fmt.Errorf("crawler service is not initialized")
	}

	if len(cfgs) == 0 {
		return fmt.Errorf("no providers configured for crawling")
	}

	if errs := s.runAll(ctx, cfgs); len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runAll(ctx context.Context, cfgs []providers.Provider) []error {
	errs := make([]error, 0, len(cfgs))

	for i, cfg := range cfgs {
		if ctx.Err() != nil {
			s.log.WarnObj("crawl interrupted", "crawl_meta", map[string]any{
				"remaining_providers": len(cfgs) - i,
			})
			break
		}
		if err := s.processor.Process(ctx, cfg, i); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("provider crawl failed", "provider_error", map[string]any{
				"provider_id": cfg.ID,
				"error":       err.Error(),
			})
		}
	}

	return errs
}

// ProviderProcessor runs one provider end to end: fetch, enrich, dedupe,
// announce and mark.
type ProviderProcessor struct {
	registry  providers.FetcherRegistry
	scraper   ItemScraper
	publisher EventPublisher
	log       logger.Logger
	dedupe    Deduper
}

// NewProviderProcessor builds a processor; scraper, publisher and dedupe are optional.
func NewProviderProcessor(reg providers.FetcherRegistry, scraper ItemScraper, pub EventPublisher, log logger.Logger, dedupe Deduper) *ProviderProcessor {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &ProviderProcessor{
		registry:  reg,
		scraper:   scraper,
		publisher: pub,
		log:       log,
		dedupe:    dedupe,
	}
}

// Process crawls a single provider. position is the provider's index in the pass, used for logging.
func (p *ProviderProcessor) Process(ctx context.Context, cfg providers.Provider, position int) error {
	fetcher, err := p.registry.FetcherFor(cfg)
	if err != nil {
		return fmt.Errorf("resolve fetcher for provider %s: %w", cfg.ID, err)
	}

	items, err := fetcher.Fetch(ctx, cfg)
	if err != nil {
		return fmt.Errorf("fetch provider %s: %w", cfg.ID, err)
	}
	fetched := len(items)

	items = p.filterNewItems(cfg, items)
	if p.scraper != nil && len(items) > 0 {
		items = p.scraper.Enrich(ctx, cfg, items)
	}
	for i := range items {
		items[i] = applyProviderDefaults(cfg, items[i])
	}

	announced, errs := p.publishItems(ctx, cfg, items)

	p.log.InfoObj("provider crawl completed", "provider_result", map[string]any{
		"provider_id":     cfg.ID,
		"position":        position,
		"items_fetched":   fetched,
		"items_new":       len(items),
		"items_announced": announced,
	})

	return errors.Join(errs...)
}

func (p *ProviderProcessor) publishItems(ctx context.Context, cfg providers.Provider, items []domain.Item) (int, []error) {
	var errs []error
	announced := 0

	for _, item := range items {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		evt := publishers.NewEvent(item)
		if p.publisher != nil {
			delivered, err := p.publisher.Publish(ctx, evt)
			if err != nil {
				errs = append(errs, fmt.Errorf("publish item %s from %s: %w", item.ID, cfg.ID, err))
			}
			if delivered == 0 {
				continue
			}
		}

		announced++
		if p.dedupe != nil {
			if err := p.dedupe.MarkItem(item.ID); err != nil {
				p.log.WarnObj("mark item failed", "storage_error", map[string]any{
					"provider_id": cfg.ID,
					"item_id":     item.ID,
					"error":       err.Error(),
				})
			}
		}
	}

	return announced, errs
}

// filterNewItems drops repeated IDs within the batch and items the dedupe
// store has seen. A lookup error lets the item through so a flaky store never
// silences a story.
func (p *ProviderProcessor) filterNewItems(cfg providers.Provider, items []domain.Item) []domain.Item {
	accepted := make(map[string]struct{}, len(items))
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if _, dup := accepted[item.ID]; dup {
			continue
		}
		if p.dedupe != nil {
			seen, err := p.dedupe.SeenItem(item.ID)
			if err != nil {
				p.log.WarnObj("dedupe lookup failed", "storage_error", map[string]any{
					"provider_id": cfg.ID,
					"item_id":     item.ID,
					"error":       err.Error(),
				})
			}
			if seen {
				continue
			}
		}
		accepted[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

// applyProviderDefaults fills article author and location from the provider
// when neither the feed nor the page supplied them.
func applyProviderDefaults(cfg providers.Provider, item domain.Item) domain.Item {
	if item.ProviderID == "" {
		item.ProviderID = cfg.ID
	}

	switch story := item.Story.(type) {
	case domain.Article:
		if story.Author == "" {
			story.Author = cfg.Name
		}
		if story.Location == "" {
			story.Location = cfg.Location
		}
		item.Story = story
	case domain.ShortPost:
		if story.Author == "" {
			story.Author = cfg.Name
		}
		item.Story = story
	}
	return item
}
