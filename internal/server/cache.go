package server

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ironsheep/imgedit/internal/codec"
	"github.com/ironsheep/imgedit/internal/editor"
	"github.com/ironsheep/imgedit/internal/pixel"
)

// Cache provides thread-safe caching of decoded images to avoid redundant
// disk reads and decodes.
//
// Entries are keyed by the exact path string. A cached entry is reused only
// while the file's size and modification time are unchanged; otherwise the
// file is decoded again.
//
// Cached buffers remain in memory until Evict or Clear is called.
type Cache struct {
	ed *editor.ImageEditor

	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	buf     *pixel.Buffer
	format  codec.Format
	size    int64
	modTime time.Time
}

// NewCache creates an empty cache that decodes with ed.
func NewCache(ed *editor.ImageEditor) *Cache {
	return &Cache{
		ed:      ed,
		entries: make(map[string]*cacheEntry),
	}
}

// Open returns a fresh editable Image for path. Edits to the returned image
// never affect the cache. The caller must Close it.
func (c *Cache) Open(path string) (*editor.Image, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return c.ed.FromBuffer(entry.buf, entry.format), nil
}

func (c *Cache) load(path string) (*cacheEntry, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}

	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && entry.size == stat.Size() && entry.modTime.Equal(stat.ModTime()) {
		return entry, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	img, err := c.ed.CreateImage(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	defer img.Close()

	buf, err := img.Buffer()
	if err != nil {
		return nil, err
	}
	entry = &cacheEntry{
		buf:     buf,
		format:  img.SourceFormat(),
		size:    stat.Size(),
		modTime: stat.ModTime(),
	}

	c.mu.Lock()
	c.entries[path] = entry
	c.mu.Unlock()

	return entry, nil
}

// Len reports the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all images from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// Evict removes one path from the cache. Unknown paths are ignored.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}
