package deezer

import (
	"sync"

	"github.com/handiism/deezer-downloader/internal/model"
)

// Cache is the process-wide identity store for resolved entities.
//
// For a given ID at most one live Track or Album instance exists; every
// resolution path consults the cache first, so hydrating one reference
// is visible through every other reference to the same ID. Entries are
// never evicted, the cache lives as long as the process.
type Cache struct {
	mu     sync.RWMutex
	tracks map[int64]*model.Track
	albums map[int64]*model.Album
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		tracks: make(map[int64]*model.Track),
		albums: make(map[int64]*model.Album),
	}
}

// Track returns the cached track for id, if any.
func (c *Cache) Track(id int64) (*model.Track, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tracks[id]
	return t, ok
}

// Album returns the cached album for id, if any.
func (c *Cache) Album(id int64) (*model.Album, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.albums[id]
	return a, ok
}

// PutTrack stores t unless a track with the same ID is already cached,
// and returns the canonical instance either way. First write wins.
func (c *Cache) PutTrack(t *model.Track) *model.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.tracks[t.ID]; ok {
		return cached
	}
	c.tracks[t.ID] = t
	return t
}

// PutAlbum stores a unless an album with the same ID is already cached,
// and returns the canonical instance either way.
func (c *Cache) PutAlbum(a *model.Album) *model.Album {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.albums[a.ID]; ok {
		return cached
	}
	c.albums[a.ID] = a
	return a
}
