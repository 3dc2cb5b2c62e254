package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/samvad-bulletin/internal/domain"
	"github.com/samvad-hq/samvad-bulletin/internal/logger"
	"github.com/samvad-hq/samvad-bulletin/pkg/httpclient"
	"github.com/samvad-hq/samvad-bulletin/pkg/providers"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
)

// Scraper fetches article pages and fills missing article fields from page metadata.
type Scraper struct {
	client httpclient.Client
	log    logger.Logger
}

// NewScraper constructs a scraper with the provided HTTP client (or default).
func NewScraper(client httpclient.Client, log logger.Logger) *Scraper {
	if client == nil {
		client = providers.DefaultHTTPClient()
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Scraper{client: client, log: log}
}

// Enrich visits each article item that is missing fields, throttled by the
// provider's request delay. Short posts pass through untouched. On
// cancellation the items handled so far are returned.
func (s *Scraper) Enrich(ctx context.Context, cfg providers.Provider, items []domain.Item) []domain.Item {
	delay := cfg.RequestDelay()
	out := append([]domain.Item(nil), items...)
	fetched := 0

	for i, item := range items {
		select {
		case <-ctx.Done():
			return out[:i]
		default:
		}

		art, ok := item.Story.(domain.Article)
		if !ok || !needsEnrichment(art) || strings.TrimSpace(item.URL) == "" {
			continue
		}

		if fetched > 0 && delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out[:i]
			case <-timer.C:
			}
		}
		fetched++

		enriched, err := s.fetchAndParse(ctx, cfg, item.URL, art)
		if err != nil {
			s.log.WarnObj("article metadata scrape failed", "metadata_error", map[string]any{
				"provider_id": cfg.ID,
				"url":         item.URL,
				"error":       err.Error(),
			})
			continue
		}
		out[i].Story = enriched
	}

	return out
}

func needsEnrichment(a domain.Article) bool {
	return a.Headline == "" || a.Author == "" || a.Location == "" || a.Content == ""
}

func (s *Scraper) fetchAndParse(ctx context.Context, cfg providers.Provider, url string, art domain.Article) (domain.Article, error) {
	resp, err := s.client.Get(ctx, url, providers.Headers(cfg))
	if err != nil {
		return art, fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return art, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return art, err
	}
	return mergeMeta(art, meta), nil
}

// mergeMeta only fills fields that are still empty.
func mergeMeta(art domain.Article, meta pageMeta) domain.Article {
	if art.Headline == "" {
		art.Headline = meta.Title
	}
	if art.Author == "" {
		art.Author = meta.Author
	}
	if art.Location == "" {
		art.Location = meta.Location
	}
	if art.Content == "" {
		art.Content = meta.Description
	}
	return art
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return pageMeta{
		Title: firstNonEmpty(
			extract(`meta[property="og:title"]`),
			strings.TrimSpace(doc.Find("title").First().Text()),
		),
		Author: firstNonEmpty(
			extract(`meta[name="author"]`),
			extract(`meta[property="article:author"]`),
		),
		Location: firstNonEmpty(
			extract(`meta[name="geo.placename"]`),
			extract(`meta[property="og:site_name"]`),
		),
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
		),
	}, nil
}

type pageMeta struct {
	Title       string
	Author      string
	Location    string
	Description string
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
