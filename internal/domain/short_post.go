package domain

import "fmt"

// ShortPost is a microblog entry.
type ShortPost struct {
	Author    string `json:"author"`
	Content   string `json:"content"`
	IsReply   bool   `json:"is_reply"`
	IsRetweet bool   `json:"is_retweet"`
}

// Summarize formats author and body. Reply/retweet flags do not show up.
func (p ShortPost) Summarize() string {
	return fmt.Sprintf("%s: %s", p.Author, p.Content)
}
