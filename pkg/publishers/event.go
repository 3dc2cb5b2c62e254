package publishers

import (
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/samvad-bulletin/internal/domain"
	"github.com/samvad-hq/samvad-bulletin/pkg/bulletin"
)

// Event is the announcement payload published downstream.
type Event struct {
	ID          string            `json:"id"`
	Kind        string            `json:"kind"`
	ProviderID  string            `json:"provider_id"`
	ItemID      string            `json:"item_id"`
	URL         string            `json:"url,omitempty"`
	Summary     string            `json:"summary"`
	Headline    string            `json:"headline"`
	Story       domain.Summarizer `json:"story"`
	PublishedAt time.Time         `json:"published_at"`
	AnnouncedAt time.Time         `json:"announced_at"`
}

// NewEvent snapshots item into an Event. The summary is computed once here.
func NewEvent(item domain.Item) Event {
	return Event{
		ID:          uuid.NewString(),
		Kind:        domain.Kind(item),
		ProviderID:  item.ProviderID,
		ItemID:      item.ID,
		URL:         item.URL,
		Summary:     item.Summarize(),
		Headline:    bulletin.Line(item),
		Story:       item.Story,
		PublishedAt: item.PublishedAt,
		AnnouncedAt: time.Now().UTC(),
	}
}

// Summarize returns the precomputed summary so events can be announced directly.
func (e Event) Summarize() string { return e.Summary }

func (e Event) attributes() map[string]string {
	return map[string]string{
		"provider_id": e.ProviderID,
		"kind":        e.Kind,
	}
}
