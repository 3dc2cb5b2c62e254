package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-bulletin/internal/config"
)

const horseFeed = `<?xml version="1.0"?>
<rss version="2.0">
<channel>
  <title>horse_ebooks</title>
  <item>
    <guid>1</guid>
    <link>https://social.example/horse/1</link>
    <description>of course, as your probably already know, people</description>
  </item>
  <item>
    <guid>2</guid>
    <link>https://social.example/horse/2</link>
    <description>@dril everything happens so much</description>
  </item>
</channel>
</rss>`

type sink struct {
	mu        sync.Mutex
	summaries []string
}

func (s *sink) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var payload struct {
			Summary string `json:"summary"`
			Kind    string `json:"kind"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Errorf("decode event: %v", err)
		}
		if payload.Kind != "short_post" {
			t.Errorf("kind = %q", payload.Kind)
		}
		s.mu.Lock()
		s.summaries = append(s.summaries, payload.Summary)
		s.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testConfig(t *testing.T, feedURL, sinkURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	providersFile := writeFile(t, dir, "providers.yaml", fmt.Sprintf(`
providers:
  - id: horse
    name: Horse
    type: rss
    kind: short_post
    source_url: %s
`, feedURL))
	publishersFile := writeFile(t, dir, "publishers.yaml", fmt.Sprintf(`
publishers:
  - id: sink
    type: http
    http:
      url: %s
`, sinkURL))

	return &config.Config{
		AppName:                "samvad-bulletin",
		ProvidersFile:          providersFile,
		PublishersFile:         publishersFile,
		CrawlInterval:          time.Hour,
		HTTPTimeout:            5 * time.Second,
		StorageType:            "bbolt",
		BBoltPath:              filepath.Join(dir, "announced.db"),
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
	}
}

func TestHarvesterRunOnceAnnouncesEachItemOnce(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(horseFeed))
	}))
	defer feed.Close()

	s := &sink{}
	sinkSrv := httptest.NewServer(s.handler(t))
	defer sinkSrv.Close()

	h, err := NewHarvester(context.Background(), testConfig(t, feed.URL, sinkSrv.URL), nil)
	if err != nil {
		t.Fatalf("NewHarvester: %v", err)
	}
	defer h.Close()

	if err := h.RunOnce(context.Background()); err != nil {
		t.Fatalf("first RunOnce: %v", err)
	}
	if err := h.RunOnce(context.Background()); err != nil {
		t.Fatalf("second RunOnce: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.summaries) != 2 {
		t.Fatalf("expected 2 deliveries across both passes, got %d: %v", len(s.summaries), s.summaries)
	}
	if s.summaries[0] != "horse_ebooks: of course, as your probably already know, people" {
		t.Fatalf("summary = %q", s.summaries[0])
	}
}

func TestHarvesterRunStopsOnCancel(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(horseFeed))
	}))
	defer feed.Close()
	sinkSrv := httptest.NewServer((&sink{}).handler(t))
	defer sinkSrv.Close()

	h, err := NewHarvester(context.Background(), testConfig(t, feed.URL, sinkSrv.URL), nil)
	if err != nil {
		t.Fatalf("NewHarvester: %v", err)
	}
	defer h.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not exit after cancel")
	}
}

func TestNewHarvesterValidation(t *testing.T) {
	if _, err := NewHarvester(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}

	cfg := testConfig(t, "https://feed.example/rss", "https://sink.example")
	cfg.PublishersFile = writeFile(t, t.TempDir(), "publishers.yaml", `
publishers:
  - id: off
    type: stdout
    enabled: false
`)
	if _, err := NewHarvester(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error when no publishers are enabled")
	}
}

func TestNilHarvester(t *testing.T) {
	var h *Harvester
	if err := h.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected error from nil harvester")
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close on nil: %v", err)
	}
}
