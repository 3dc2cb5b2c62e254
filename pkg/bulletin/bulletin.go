// Package bulletin renders summarizable stories as breaking-news lines.
package bulletin

import (
	"fmt"
	"io"
	"os"

	"github.com/samvad-hq/samvad-bulletin/internal/domain"
)

// Prefix leads every announcement line.
const Prefix = "Breaking news! "

// Line returns the announcement text for item without a line terminator.
func Line(item domain.Summarizer) string {
	return Prefix + item.Summarize()
}

// Announce writes the announcement for item to standard output.
func Announce(item domain.Summarizer) error {
	return AnnounceTo(os.Stdout, item)
}

// AnnounceTo writes exactly one announcement line for item to w.
func AnnounceTo(w io.Writer, item domain.Summarizer) error {
	if _, err := fmt.Fprintln(w, Line(item)); err != nil {
		return fmt.Errorf("announce: %w", err)
	}
	return nil
}

// AnnounceAll announces items in order, stopping at the first write error.
func AnnounceAll[T domain.Summarizer](w io.Writer, items ...T) error {
	for i, item := range items {
		if err := AnnounceTo(w, item); err != nil {
			return fmt.Errorf("item[%d]: %w", i, err)
		}
	}
	return nil
}
