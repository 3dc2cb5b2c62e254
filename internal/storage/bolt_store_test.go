package storage

import (
	"path/filepath"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestBoltStoreMarksAndExpiresItems(t *testing.T) {
	store, err := openBolt(filepath.Join(t.TempDir(), "announced.db"), Options{
		ItemTTL:         time.Minute,
		CleanupInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer store.Close()

	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	store.now = clock.Now
	store.lastCleanup.Store(clock.t.Unix())

	seen, err := store.SeenItem("id1")
	if err != nil || seen {
		t.Fatalf("expected unseen item, seen=%v err=%v", seen, err)
	}

	if err := store.MarkItem("id1"); err != nil {
		t.Fatalf("MarkItem: %v", err)
	}

	seen, err = store.SeenItem("id1")
	if err != nil || !seen {
		t.Fatalf("expected item marked as seen, got seen=%v err=%v", seen, err)
	}

	clock.Advance(2 * time.Minute)

	seen, err = store.SeenItem("id1")
	if err != nil {
		t.Fatalf("SeenItem after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire")
	}
}

func TestBoltStoreCleanupSweepsExpired(t *testing.T) {
	store, err := openBolt(filepath.Join(t.TempDir(), "nested", "announced.db"), Options{
		ItemTTL:         time.Second,
		CleanupInterval: time.Minute,
	})
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer store.Close()

	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	store.now = clock.Now
	store.lastCleanup.Store(clock.t.Unix())

	for _, id := range []string{"a", "b"} {
		if err := store.MarkItem(id); err != nil {
			t.Fatalf("MarkItem(%s): %v", id, err)
		}
	}

	clock.Advance(2 * time.Minute)
	if err := store.MarkItem("c"); err != nil {
		t.Fatalf("MarkItem(c): %v", err)
	}

	if got := bucketLen(t, store); got != 1 {
		t.Fatalf("expected sweep to leave 1 entry, got %d", got)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore(TypeNone, "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkItem("x"); err != nil {
		t.Fatalf("noop store MarkItem: %v", err)
	}
	if seen, _ := store.SeenItem("x"); seen {
		t.Fatalf("noop store should never report seen")
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore(TypeBBolt, " ", Options{}); err == nil {
		t.Fatalf("expected error for missing bbolt path")
	}
}

func TestDecodeExpiryRejectsMalformed(t *testing.T) {
	if _, ok := decodeExpiry([]byte{1, 2}); ok {
		t.Fatalf("expected short value to be rejected")
	}
	if _, ok := decodeExpiry(make([]byte, expiryValueBytes)); ok {
		t.Fatalf("expected zero expiry to be rejected")
	}
	want := time.Unix(1_800_000_000, 0)
	got, ok := decodeExpiry(encodeExpiry(want))
	if !ok || !got.Equal(want) {
		t.Fatalf("round trip = %v, %v", got, ok)
	}
}
