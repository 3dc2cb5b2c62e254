package domain

// Domain contains the story records and the capability they share.

// Summarizer is implemented by anything that can describe itself in one line.
// Summarize must be pure: no side effects and no failure mode.
type Summarizer interface {
	Summarize() string
}

const (
	KindArticle   = "article"
	KindShortPost = "short_post"
	KindUnknown   = "unknown"
)

// Kind reports the record kind behind s, used for routing attributes downstream.
func Kind(s Summarizer) string {
	switch v := s.(type) {
	case Article, *Article:
		return KindArticle
	case ShortPost, *ShortPost:
		return KindShortPost
	case Item:
		return Kind(v.Story)
	case *Item:
		if v == nil {
			return KindUnknown
		}
		return Kind(v.Story)
	default:
		return KindUnknown
	}
}
