package bulletin

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/samvad-hq/samvad-bulletin/internal/domain"
)

type fixedSummary string

func (f fixedSummary) Summarize() string { return string(f) }

type failingWriter struct{ writes int }

func (f *failingWriter) Write([]byte) (int, error) {
	f.writes++
	return 0, errors.New("disk full")
}

func TestAnnounceToWritesSingleLine(t *testing.T) {
	var buf bytes.Buffer
	if err := AnnounceTo(&buf, fixedSummary("X: Y")); err != nil {
		t.Fatalf("AnnounceTo: %v", err)
	}
	if got := buf.String(); got != "Breaking news! X: Y\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestAnnounceToArticleAndPost(t *testing.T) {
	art := domain.Article{
		Headline: "Penguins win the Stanley Cup Championship!",
		Location: "Pittsburgh, PA, USA",
		Author:   "Iceburgh",
		Content:  "The Pittsburgh Penguins once again are the best hockey team in the NHL.",
	}
	post := domain.ShortPost{
		Author:  "horse_ebooks",
		Content: "of course, as your probably already know, people",
		IsReply: true,
	}

	var buf bytes.Buffer
	if err := AnnounceTo(&buf, art); err != nil {
		t.Fatalf("AnnounceTo article: %v", err)
	}
	if err := AnnounceTo(&buf, post); err != nil {
		t.Fatalf("AnnounceTo post: %v", err)
	}

	want := "Breaking news! Penguins win the Stanley Cup Championship! by Iceburgh (Pittsburgh, PA, USA)\n" +
		"Breaking news! horse_ebooks: of course, as your probably already know, people\n"
	if got := buf.String(); got != want {
		t.Fatalf("output = %q want %q", got, want)
	}
	if art.Headline != "Penguins win the Stanley Cup Championship!" || !post.IsReply {
		t.Fatalf("announce mutated its input")
	}
}

func TestAnnounceToFactoryValue(t *testing.T) {
	var buf bytes.Buffer
	if err := AnnounceTo(&buf, domain.NewSamplePost()); err != nil {
		t.Fatalf("AnnounceTo: %v", err)
	}
	if got := buf.String(); got != "Breaking news! horse_ebooks: of course, as your probably already know, people\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestAnnounceToPropagatesWriteError(t *testing.T) {
	w := &failingWriter{}
	err := AnnounceTo(w, fixedSummary("x"))
	if err == nil {
		t.Fatalf("expected write error")
	}
	if w.writes != 1 {
		t.Fatalf("expected one write attempt, got %d", w.writes)
	}
}

func TestAnnounceAllGenericMatchesDynamic(t *testing.T) {
	posts := []domain.ShortPost{
		{Author: "a", Content: "one"},
		{Author: "b", Content: "two", IsRetweet: true},
	}

	var static bytes.Buffer
	if err := AnnounceAll(&static, posts...); err != nil {
		t.Fatalf("AnnounceAll: %v", err)
	}

	var dynamic bytes.Buffer
	for _, p := range posts {
		var s domain.Summarizer = p
		if err := AnnounceTo(&dynamic, s); err != nil {
			t.Fatalf("AnnounceTo: %v", err)
		}
	}

	if static.String() != dynamic.String() {
		t.Fatalf("static %q != dynamic %q", static.String(), dynamic.String())
	}
	if static.String() != "Breaking news! a: one\nBreaking news! b: two\n" {
		t.Fatalf("unexpected output %q", static.String())
	}
}

func TestAnnounceAllStopsAtFirstError(t *testing.T) {
	w := &failingWriter{}
	if err := AnnounceAll[domain.Summarizer](w, fixedSummary("a"), fixedSummary("b")); err == nil {
		t.Fatalf("expected error")
	}
	if w.writes != 1 {
		t.Fatalf("expected to stop after first failure, got %d writes", w.writes)
	}
}

func TestLine(t *testing.T) {
	if got := Line(domain.ShortPost{Author: "x", Content: "y"}); got != "Breaking news! x: y" {
		t.Fatalf("Line = %q", got)
	}
}

func TestAnnounceWritesToStdout(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	t.Cleanup(func() { os.Stdout = orig })

	announceErr := Announce(fixedSummary("X: Y"))
	os.Stdout = orig
	w.Close()

	out, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		t.Fatalf("read pipe: %v", err)
	}
	if announceErr != nil {
		t.Fatalf("Announce: %v", announceErr)
	}
	if got := string(out); got != "Breaking news! X: Y\n" {
		t.Fatalf("stdout = %q", got)
	}
}

func TestAnnounceReportsClosedStdout(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	r.Close()
	w.Close()
	orig := os.Stdout
	os.Stdout = w
	t.Cleanup(func() { os.Stdout = orig })

	if err := Announce(fixedSummary("X: Y")); err == nil {
		t.Fatalf("expected error writing to closed stdout")
	}
}
