package domain

// NewSamplePost builds the canned short post. Callers only see a Summarizer.
func NewSamplePost() Summarizer {
	return ShortPost{
		Author:    "horse_ebooks",
		Content:   "of course, as your probably already know, people",
		IsReply:   false,
		IsRetweet: false,
	}
}

// NewSampleArticle builds the canned article used by the demo command.
func NewSampleArticle() Summarizer {
	return Article{
		Headline: "Penguins win the Stanley Cup Championship!",
		Location: "Pittsburgh, PA, USA",
		Author:   "Iceburgh",
		Content:  "The Pittsburgh Penguins once again are the best hockey team in the NHL.",
	}
}
