package cache

import (
	"errors"
	"testing"
	"time"
)

func newTestStore() *Store {
	return NewStore(64, time.Minute)
}

func TestThroughComputesOnce(t *testing.T) {
	s := newTestStore()
	calls := 0

	for i := 0; i < 3; i++ {
		got, err := Through(s, RegionTracksAll, SingleKey, func() (string, error) {
			calls++
			return "payload", nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "payload" {
			t.Fatalf("expected payload, got %q", got)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one compute call, got %d", calls)
	}
}

func TestThroughDoesNotCacheErrors(t *testing.T) {
	s := newTestStore()
	calls := 0
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		_, err := Through(s, RegionTrackByID, IDKey(1), func() (int, error) {
			calls++
			return 0, boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("errors must not be cached, got %d calls", calls)
	}
}

func TestInvalidateSingleKey(t *testing.T) {
	s := newTestStore()
	s.Set(RegionTrackByID, IDKey(1), "one")
	s.Set(RegionTrackByID, IDKey(2), "two")

	s.Invalidate(Key(RegionTrackByID, IDKey(1)))

	if s.Contains(RegionTrackByID, IDKey(1)) {
		t.Fatal("key 1 should be evicted")
	}
	if !s.Contains(RegionTrackByID, IDKey(2)) {
		t.Fatal("key 2 should survive")
	}
}

func TestInvalidateWholeRegion(t *testing.T) {
	s := newTestStore()
	s.Set(RegionTracksSearch, "abba", 1)
	s.Set(RegionTracksSearch, "cher", 2)
	s.Set(RegionAlbumsAll, SingleKey, 3)

	s.Invalidate(All(RegionTracksSearch))

	if s.Len(RegionTracksSearch) != 0 {
		t.Fatalf("search region should be empty, has %d", s.Len(RegionTracksSearch))
	}
	if !s.Contains(RegionAlbumsAll, SingleKey) {
		t.Fatal("other regions must not be touched")
	}
}

func TestInvalidateBatch(t *testing.T) {
	s := newTestStore()
	s.Set(RegionTracksAll, SingleKey, 1)
	s.Set(RegionAlbumByID, IDKey(7), 2)

	s.Invalidate(
		All(RegionTracksAll),
		Key(RegionAlbumByID, IDKey(7)),
		Key(RegionUserByID, IDKey(99)), // absent key is fine
	)

	if s.Contains(RegionTracksAll, SingleKey) || s.Contains(RegionAlbumByID, IDKey(7)) {
		t.Fatal("batch eviction missed an entry")
	}
}

func TestPairKeyDistinct(t *testing.T) {
	if PairKey(1, 23) == PairKey(12, 3) {
		t.Fatal("pair keys must not collide across boundaries")
	}
}

func TestRegionsAreIndependent(t *testing.T) {
	s := newTestStore()
	s.Set(RegionUserByID, IDKey(1), "user")
	s.Set(RegionArtistByID, IDKey(1), "artist")

	got, ok := s.Get(RegionUserByID, IDKey(1))
	if !ok || got != "user" {
		t.Fatalf("expected user, got %v", got)
	}
	got, ok = s.Get(RegionArtistByID, IDKey(1))
	if !ok || got != "artist" {
		t.Fatalf("expected artist, got %v", got)
	}
}
