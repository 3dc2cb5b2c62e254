package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/samvad-hq/samvad-bulletin/internal/domain"
)

const (
	replyMarker   = "@"
	retweetMarker = "RT "
)

// rssFetcher implements Fetcher for RSS/Atom feeds. The provider kind decides
// whether entries become articles or short posts.
type rssFetcher struct {
	client HTTPClient
}

func NewRSSFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &rssFetcher{client: client}
}

func (f *rssFetcher) ID() string {
	return ProviderTypeRSS
}

func (f *rssFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.Item, error) {
	if !strings.EqualFold(cfg.Type, ProviderTypeRSS) {
		return nil, fmt.Errorf("rss fetcher received incompatible provider type %q", cfg.Type)
	}
	if strings.TrimSpace(cfg.SourceURL) == "" {
		return nil, fmt.Errorf("provider %q source_url is empty", cfg.ID)
	}

	raw, err := fetchDocument(ctx, f.client, cfg.SourceURL, cfg.ID, Headers(cfg))
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().ParseString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s feed: %w", cfg.ID, err)
	}

	items := itemsFromFeed(cfg, feed)
	if len(items) == 0 {
		return nil, fmt.Errorf("%s feed returned no records", cfg.ID)
	}
	return items, nil
}

func itemsFromFeed(cfg Provider, feed *gofeed.Feed) []domain.Item {
	items := make([]domain.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil {
			continue
		}
		link := strings.TrimSpace(entry.Link)
		key := strings.TrimSpace(entry.GUID)
		if key == "" {
			key = link
		}
		if key == "" {
			continue
		}

		items = append(items, domain.Item{
			ID:          hashID(cfg.ID, key),
			ProviderID:  cfg.ID,
			URL:         link,
			PublishedAt: entryPublished(entry),
			Story:       storyFromEntry(cfg, feed, entry),
		})
	}
	return items
}

func storyFromEntry(cfg Provider, feed *gofeed.Feed, entry *gofeed.Item) domain.Summarizer {
	author := entryAuthor(entry)

	if cfg.Kind == domain.KindShortPost {
		text := entryText(entry)
		if text == "" {
			text = strings.TrimSpace(entry.Title)
		}
		if author == "" {
			author = strings.TrimSpace(feed.Title)
		}
		return domain.ShortPost{
			Author:    author,
			Content:   text,
			IsReply:   strings.HasPrefix(text, replyMarker),
			IsRetweet: strings.HasPrefix(text, retweetMarker),
		}
	}

	location := cfg.Location
	if location == "" {
		location = strings.TrimSpace(feed.Title)
	}
	return domain.Article{
		Headline: strings.TrimSpace(entry.Title),
		Location: location,
		Author:   author,
		Content:  entryText(entry),
	}
}

func entryAuthor(entry *gofeed.Item) string {
	if entry.Author != nil && strings.TrimSpace(entry.Author.Name) != "" {
		return strings.TrimSpace(entry.Author.Name)
	}
	for _, a := range entry.Authors {
		if a != nil && strings.TrimSpace(a.Name) != "" {
			return strings.TrimSpace(a.Name)
		}
	}
	return ""
}

func entryPublished(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed
	}
	return time.Time{}
}

// entryText returns the entry body with markup removed.
func entryText(entry *gofeed.Item) string {
	raw := entry.Content
	if strings.TrimSpace(raw) == "" {
		raw = entry.Description
	}
	return stripHTML(raw)
}

func stripHTML(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
