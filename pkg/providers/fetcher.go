package providers

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-bulletin/pkg/httpclient"
)

// Built-in provider types.
const (
	ProviderTypeGoogleNews = "google_news_sitemap"
	ProviderTypeRSS        = "rss"
)

// TypeRegistry resolves a provider's fetcher by provider id first and by
// provider type second.
type TypeRegistry struct {
	mu     sync.RWMutex
	byID   map[string]Fetcher
	byType map[string]Fetcher
}

// NewTypeFetcherRegistry builds a registry from type fetchers plus optional
// per-provider overrides keyed by their ID().
func NewTypeFetcherRegistry(typeFetchers map[string]Fetcher, overrides ...Fetcher) *TypeRegistry {
	r := &TypeRegistry{
		byID:   make(map[string]Fetcher),
		byType: make(map[string]Fetcher),
	}
	for typ, f := range typeFetchers {
		r.RegisterType(typ, f)
	}
	for _, f := range overrides {
		if f != nil {
			r.Override(f.ID(), f)
		}
	}
	return r
}

// DefaultFetcherRegistry wires the built-in fetchers to client (or the default client).
func DefaultFetcherRegistry(client HTTPClient) *TypeRegistry {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return NewTypeFetcherRegistry(map[string]Fetcher{
		ProviderTypeGoogleNews: NewGoogleNewsFetcher(client),
		ProviderTypeRSS:        NewRSSFetcher(client),
	})
}

// DefaultHTTPClient returns a resty-backed client with the standard fetch timeout.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(15 * time.Second) }

// RegisterType serves every provider of typ with f.
func (r *TypeRegistry) RegisterType(typ string, f Fetcher) { r.put(r.byType, typ, f) }

// Override serves the provider with the given id with f regardless of its type.
func (r *TypeRegistry) Override(id string, f Fetcher) { r.put(r.byID, id, f) }

func (r *TypeRegistry) put(into map[string]Fetcher, key string, f Fetcher) {
	key = strings.ToLower(strings.TrimSpace(key))
	if f == nil || key == "" {
		return
	}
	r.mu.Lock()
	into[key] = f
	r.mu.Unlock()
}

// FetcherFor implements FetcherRegistry.
func (r *TypeRegistry) FetcherFor(cfg Provider) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}
	id := strings.ToLower(strings.TrimSpace(cfg.ID))
	if id == "" {
		return nil, fmt.Errorf("provider id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.byID[id]; ok {
		return f, nil
	}
	if f, ok := r.byType[strings.ToLower(strings.TrimSpace(cfg.Type))]; ok {
		return f, nil
	}

	known := make([]string, 0, len(r.byType))
	for typ := range r.byType {
		known = append(known, typ)
	}
	sort.Strings(known)
	return nil, fmt.Errorf("no fetcher registered for provider %q (type %q, known types: %s)", cfg.ID, cfg.Type, strings.Join(known, ", "))
}
