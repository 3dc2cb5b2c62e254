package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubPublisher struct {
	id       string
	typ      string
	err      error
	closeErr error
	calls    int
	closed   bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return s.closeErr
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	ok := &stubPublisher{id: "ok", typ: TypeStdout}
	bad := &stubPublisher{id: "bad", typ: TypeHTTP, err: errors.New("failed")}
	fanout := NewFanout([]Publisher{ok, nil, bad})

	if fanout.Size() != 2 {
		t.Fatalf("expected nil publishers to be dropped, size=%d", fanout.Size())
	}

	count, err := fanout.Publish(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil || !strings.Contains(err.Error(), "http publisher[bad]") {
		t.Fatalf("expected aggregated error naming the failing publisher, got %v", err)
	}
	if ok.calls != 1 || bad.calls != 1 {
		t.Fatalf("expected every publisher to be called once")
	}
}

func TestFanoutNilIsEmpty(t *testing.T) {
	var f *Fanout
	if n, err := f.Publish(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("nil fanout Publish = %d, %v", n, err)
	}
	if f.Size() != 0 || f.Close() != nil {
		t.Fatalf("nil fanout should be inert")
	}
}

func TestFanoutCloseClosesAll(t *testing.T) {
	a := &stubPublisher{id: "a", typ: TypeStdout}
	b := &stubPublisher{id: "b", typ: TypeStdout, closeErr: errors.New("busy")}
	err := NewFanout([]Publisher{a, b}).Close()
	if !a.closed || !b.closed {
		t.Fatalf("expected both publishers closed")
	}
	if err == nil {
		t.Fatalf("expected close error to surface")
	}
}

func TestRegistryBuildWithDefaults(t *testing.T) {
	fanout, err := DefaultRegistry().Build(context.Background(), []PublisherConfig{
		sanitizePublisherConfig(PublisherConfig{ID: "console", Type: TypeStdout}),
		sanitizePublisherConfig(PublisherConfig{ID: "hook", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}}),
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if fanout.Size() != 2 {
		t.Fatalf("expected 2 publishers, got %d", fanout.Size())
	}
	pubs := fanout.publishers
	if pubs[0].Type() != TypeStdout || pubs[1].Type() != TypeHTTP {
		t.Fatalf("unexpected publisher types %s, %s", pubs[0].Type(), pubs[1].Type())
	}
}

func TestRegistryBuildClosesOnFailure(t *testing.T) {
	built := &stubPublisher{id: "first", typ: "stub"}
	reg := NewRegistry(map[string]Builder{
		"stub": func(context.Context, PublisherConfig, Logger) (Publisher, error) { return built, nil },
	})

	_, err := reg.Build(context.Background(), []PublisherConfig{
		{ID: "first", Type: "stub"},
		{ID: "x", Type: "carrier_pigeon"},
	}, nil)
	if err == nil || !strings.Contains(err.Error(), "known: stub") {
		t.Fatalf("expected unknown type error listing known types, got %v", err)
	}
	if !built.closed {
		t.Fatalf("expected already-built publisher to be closed")
	}
}

func TestRegistryTypesSorted(t *testing.T) {
	got := strings.Join(DefaultRegistry().Types(), ",")
	if got != "gcp_pubsub,http,sns,sqs,stdout" {
		t.Fatalf("Types = %s", got)
	}
}

func TestRegistryRegisterIgnoresBlank(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register("  ", newStdoutPublisher)
	reg.Register("custom", nil)
	if _, err := reg.PublisherFor(context.Background(), PublisherConfig{ID: "c", Type: "custom"}, nil); err == nil {
		t.Fatalf("expected nil builder to be ignored")
	}

	reg.Register(" CUSTOM ", newStdoutPublisher)
	pub, err := reg.PublisherFor(context.Background(), PublisherConfig{ID: "c", Type: "custom"}, nil)
	if err != nil {
		t.Fatalf("PublisherFor: %v", err)
	}
	if pub.ID() != "c" {
		t.Fatalf("ID = %s", pub.ID())
	}
}
