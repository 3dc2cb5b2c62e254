package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-bulletin/internal/config"
	"github.com/samvad-hq/samvad-bulletin/internal/crawler"
	"github.com/samvad-hq/samvad-bulletin/internal/logger"
	"github.com/samvad-hq/samvad-bulletin/internal/storage"
	"github.com/samvad-hq/samvad-bulletin/pkg/httpclient"
	"github.com/samvad-hq/samvad-bulletin/pkg/providers"
	"github.com/samvad-hq/samvad-bulletin/pkg/publishers"
)

// Harvester is the bulletin runtime. It owns the crawl loop and the
// publishers and store it was built with.
type Harvester struct {
	cfg           *config.Config
	providerReg   *providers.Registry
	fanout        *publishers.Fanout
	crawlService  *crawler.Service
	crawlInterval time.Duration
	log           logger.Logger
	store         storage.Store
}

// NewHarvester builds a harvester runtime from config files.
func NewHarvester(ctx context.Context, cfg *config.Config, log logger.Logger) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	client := httpclient.NewRestyClient(cfg.HTTPTimeout)
	return newHarvester(ctx, cfg, log, providers.DefaultFetcherRegistry(client), crawler.NewScraper(client, log))
}

func newHarvester(ctx context.Context, cfg *config.Config, log logger.Logger, fetchers providers.FetcherRegistry, scraper crawler.ItemScraper) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	providerReg, err := loadProviders(cfg, log)
	if err != nil {
		return nil, err
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg, log)
	if err != nil {
		_ = fanout.Close()
		return nil, err
	}

	return &Harvester{
		cfg:           cfg,
		providerReg:   providerReg,
		fanout:        fanout,
		crawlService:  crawler.NewService(fetchers, fanout, log, store).WithScraper(scraper),
		crawlInterval: cfg.CrawlInterval,
		log:           log,
		store:         store,
	}, nil
}

func loadProviders(cfg *config.Config, log logger.Logger) (*providers.Registry, error) {
	reg, err := providers.LoadRegistry(cfg.ProvidersFile)
	if err != nil {
		return nil, fmt.Errorf("load providers registry: %w", err)
	}

	list := reg.All()
	summaries := make([]map[string]string, 0, len(list))
	for _, p := range list {
		summaries = append(summaries, map[string]string{"id": p.ID, "type": p.Type, "kind": p.Kind})
	}
	log.InfoObj("providers registry loaded", "providers_meta", map[string]any{
		"count":     len(summaries),
		"providers": summaries,
	})
	return reg, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	reg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := reg.Enabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	fanout, err := publishers.DefaultRegistry().Build(ctx, enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{"id": pubCfg.ID, "type": pubCfg.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return fanout, nil
}

func openStore(cfg *config.Config, log logger.Logger) (storage.Store, error) {
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ItemTTL:         cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"item_ttl_seconds":         int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})
	return store, nil
}

// RunOnce performs a single crawl pass across all providers.
func (h *Harvester) RunOnce(ctx context.Context) error {
	if h == nil || h.crawlService == nil {
		return fmt.Errorf("harvester is not initialized")
	}
	return h.runOnce(ctx, h.providerReg.All())
}

// Run starts the crawl loop until the context is cancelled.
func (h *Harvester) Run(ctx context.Context) error {
	if h == nil || h.crawlService == nil {
		return fmt.Errorf("harvester is not initialized")
	}
	providers := h.providerReg.All()

	h.log.InfoObj("harvester loop starting", "harvester_state", map[string]any{
		"providers_count":  len(providers),
		"publishers_count": h.fanout.Size(),
		"crawl_interval":   h.crawlInterval.String(),
	})

	if err := h.runOnce(ctx, providers); err != nil {
		h.log.ErrorObj("initial crawl failed", "error", err)
	}

	ticker := time.NewTicker(h.crawlInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.InfoObj("harvester loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := h.runOnce(ctx, providers); err != nil {
				h.log.ErrorObj("scheduled crawl failed", "error", err)
			}
		}
	}
}

func (h *Harvester) runOnce(ctx context.Context, providers []providers.Provider) error {
	start := time.Now()
	h.log.InfoObj("crawl started", "crawl_meta", map[string]any{
		"providers_count": len(providers),
		"started_at":      start.UTC(),
	})
	if err := h.crawlService.Run(ctx, providers); err != nil {
		return err
	}
	h.log.InfoObj("crawl completed", "crawl_meta", map[string]any{
		"providers_count": len(providers),
		"elapsed_ms":      time.Since(start).Milliseconds(),
	})
	return nil
}

// Close releases the store and any publishers holding connections.
func (h *Harvester) Close() error {
	if h == nil {
		return nil
	}
	var errs []error
	if h.fanout != nil {
		if err := h.fanout.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publishers: %w", err))
		}
	}
	if h.store != nil {
		if err := h.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	return errors.Join(errs...)
}
