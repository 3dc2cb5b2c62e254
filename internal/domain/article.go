package domain

import "fmt"

// Article is a long-form news story.
type Article struct {
	Headline string `json:"headline"`
	Location string `json:"location"`
	Author   string `json:"author"`
	Content  string `json:"content"`
}

// Summarize formats headline, author and location. Content is left out.
func (a Article) Summarize() string {
	return fmt.Sprintf("%s by %s (%s)", a.Headline, a.Author, a.Location)
}
