// Package cache provides a process-wide keyed cache of query results,
// partitioned into named regions. Reads go through Through; mutations
// declare the exact set of (region, key-or-all) evictions at the call
// site. Eviction runs after the underlying write commits and is not
// atomic with it, so a concurrent reader can repopulate a region with
// a value read just before the commit. Best effort, not transactional.
package cache

import (
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Region names, one per query shape. Single place so eviction sets and
// read-through call sites cannot drift apart.
const (
	RegionTracksAll        = "tracks.all"
	RegionTrackByID        = "track.byId"
	RegionTracksByAlbum    = "tracks.byAlbum"
	RegionTracksSearch     = "tracks.search"
	RegionTracksLiked      = "tracks.liked"
	RegionTrackLikedStatus = "track.likedStatus"

	RegionAlbumsAll      = "albums.all"
	RegionAlbumByID      = "album.byId"
	RegionAlbumsByArtist = "albums.byArtist"
	RegionAlbumsSearch   = "albums.search"

	RegionArtistsAll      = "artists.all"
	RegionArtistByID      = "artist.byId"
	RegionArtistsByUser   = "artists.byUserId"
	RegionArtistsSearch   = "artist.search"
	RegionSubscriptions   = "artist.subscriptions"
	RegionSubscribers     = "artist.subscribers"
	RegionSubscriberCount = "artist.subscribers.count"
	RegionSubscribed      = "artist.subscribed"

	RegionUsersAll    = "users.all"
	RegionUserByID    = "user.byId"
	RegionUserByEmail = "user.byEmail"
)

// SingleKey is the key used by regions that hold one list-all entry.
const SingleKey = "all"

// IDKey builds a cache key from an entity id.
func IDKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// PairKey builds a composite key from two ids, e.g. (trackID, userID).
func PairKey(a, b uint) string {
	return IDKey(a) + ":" + IDKey(b)
}

// Eviction names one region entry, or a whole region when All is set.
type Eviction struct {
	Region string
	Key    string
	All    bool
}

func Key(region, key string) Eviction {
	return Eviction{Region: region, Key: key}
}

func All(region string) Eviction {
	return Eviction{Region: region, All: true}
}

// Store is a set of named regions, each an expiring LRU. Regions are
// created lazily on first use.
type Store struct {
	size int
	ttl  time.Duration

	mu      sync.RWMutex
	regions map[string]*expirable.LRU[string, any]
}

func NewStore(size int, ttl time.Duration) *Store {
	if size <= 0 {
		size = 512
	}
	return &Store{
		size:    size,
		ttl:     ttl,
		regions: make(map[string]*expirable.LRU[string, any]),
	}
}

func (s *Store) region(name string) *expirable.LRU[string, any] {
	s.mu.RLock()
	r, ok := s.regions[name]
	s.mu.RUnlock()
	if ok {
		return r
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok = s.regions[name]; ok {
		return r
	}
	r = expirable.NewLRU[string, any](s.size, nil, s.ttl)
	s.regions[name] = r
	return r
}

// Get returns the cached value for (region, key) if present.
func (s *Store) Get(region, key string) (any, bool) {
	return s.region(region).Get(key)
}

// Set stores a value under (region, key).
func (s *Store) Set(region, key string, value any) {
	s.region(region).Add(key, value)
}

// Contains reports whether (region, key) is cached, without touching
// recency.
func (s *Store) Contains(region, key string) bool {
	return s.region(region).Contains(key)
}

// Len reports the number of live entries in a region.
func (s *Store) Len(region string) int {
	return s.region(region).Len()
}

// Invalidate applies the given evictions in order.
func (s *Store) Invalidate(evictions ...Eviction) {
	for _, e := range evictions {
		r := s.region(e.Region)
		if e.All {
			r.Purge()
			continue
		}
		r.Remove(e.Key)
	}
}

// Through is the read-through lookup: return the cached value for
// (region, key) if present, otherwise compute it, store it and return
// it. Compute failures are returned without populating the cache.
func Through[T any](s *Store, region, key string, compute func() (T, error)) (T, error) {
	if v, ok := s.Get(region, key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	value, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	s.Set(region, key, value)
	return value, nil
}
