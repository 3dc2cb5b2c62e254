package domain

import "time"

// Item wraps a fetched story with the metadata needed to track and route it.
type Item struct {
	ID          string     `json:"id"`
	ProviderID  string     `json:"provider_id"`
	URL         string     `json:"url"`
	PublishedAt time.Time  `json:"published_at"`
	Story       Summarizer `json:"story"`
}

// Summarize delegates to the wrapped story.
func (i Item) Summarize() string {
	if i.Story == nil {
		return ""
	}
	return i.Story.Summarize()
}
