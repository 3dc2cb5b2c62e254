package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-bulletin/internal/domain"
)

// defaultMaxSitemaps caps how many child sitemaps of an index are followed.
const defaultMaxSitemaps = 5

// googleNewsFetcher implements Fetcher for Google News sitemap providers.
type googleNewsFetcher struct {
	client HTTPClient
	sleep  func(context.Context, time.Duration) error
}

func NewGoogleNewsFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &googleNewsFetcher{client: client, sleep: sleepCtx}
}

func (f *googleNewsFetcher) ID() string {
	return ProviderTypeGoogleNews
}

func (f *googleNewsFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.Item, error) {
	if !strings.EqualFold(cfg.Type, ProviderTypeGoogleNews) {
		return nil, fmt.Errorf("google news fetcher received incompatible provider type %q", cfg.Type)
	}
	if strings.TrimSpace(cfg.SourceURL) == "" {
		return nil, fmt.Errorf("provider %q source_url is empty", cfg.ID)
	}

	headers := Headers(cfg)

	raw, err := fetchDocument(ctx, f.client, cfg.SourceURL, cfg.ID, headers)
	if err != nil {
		return nil, err
	}

	docs := [][]byte{raw}
	if isSitemapIndex(raw) {
		docs, err = f.fetchChildren(ctx, cfg, raw, headers)
		if err != nil {
			return nil, err
		}
	}

	var items []domain.Item
	seen := make(map[string]struct{})
	for _, doc := range docs {
		urls, err := parseGoogleNewsSitemap(doc)
		if err != nil {
			return nil, fmt.Errorf("decode google news sitemap: %w", err)
		}
		// Section sitemaps of one index often list the same story.
		for _, item := range buildItemsFromSitemap(cfg, urls) {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s sitemap returned no records", cfg.ID)
	}
	return items, nil
}

// fetchChildren downloads the child sitemaps listed in an index. A failing
// child is skipped as long as at least one succeeds.
func (f *googleNewsFetcher) fetchChildren(ctx context.Context, cfg Provider, index []byte, headers map[string]string) ([][]byte, error) {
	locs, err := parseSitemapIndex(index)
	if err != nil {
		return nil, fmt.Errorf("decode sitemap index: %w", err)
	}
	if limit := ConfigInt(cfg, ConfigMaxSitemapsKey, defaultMaxSitemaps); len(locs) > limit {
		locs = locs[:limit]
	}

	var (
		out  [][]byte
		errs []error
	)
	for i, loc := range locs {
		if i > 0 {
			if err := f.sleep(ctx, cfg.RequestDelay()); err != nil {
				return nil, err
			}
		}
		body, err := fetchDocument(ctx, f.client, loc, cfg.ID, headers)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, body)
	}
	if len(out) == 0 {
		if len(errs) == 0 {
			return nil, fmt.Errorf("%s sitemap index lists no sitemaps", cfg.ID)
		}
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func buildItemsFromSitemap(cfg Provider, urls []googleNewsURL) []domain.Item {
	items := make([]domain.Item, 0, len(urls))
	for _, u := range urls {
		loc := strings.TrimSpace(u.Loc)
		if loc == "" {
			continue
		}

		headline := strings.TrimSpace(u.News.Title)
		if headline == "" {
			headline = loc
		}
		location := strings.TrimSpace(u.News.Publication.Name)
		if location == "" {
			location = cfg.Location
		}

		article := domain.Article{
			Headline: headline,
			Location: location,
			Content:  strings.Join(parseKeywords(u.News.Keywords), ", "),
		}

		items = append(items, domain.Item{
			ID:          hashID(cfg.ID, loc),
			ProviderID:  cfg.ID,
			URL:         loc,
			PublishedAt: parsePublicationDate(u.News.PublicationDate),
			Story:       article,
		})
	}
	return items
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
