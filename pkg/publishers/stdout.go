package publishers

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/samvad-hq/samvad-bulletin/pkg/bulletin"
)

// stdoutPublisher prints the "Breaking news!" line for every event.
type stdoutPublisher struct {
	id  string
	mu  sync.Mutex
	out io.Writer
}

func newStdoutPublisher(_ context.Context, cfg PublisherConfig, _ Logger) (Publisher, error) {
	var out io.Writer = os.Stdout
	if cfg.Stdout != nil && cfg.Stdout.Stream == streamStderr {
		out = os.Stderr
	}
	return &stdoutPublisher{id: cfg.ID, out: out}, nil
}

func (s *stdoutPublisher) ID() string   { return s.id }
func (s *stdoutPublisher) Type() string { return TypeStdout }

func (s *stdoutPublisher) Publish(_ context.Context, evt Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bulletin.AnnounceTo(s.out, evt)
}
