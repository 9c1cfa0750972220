// Package content implements the in-memory file content cache.
package content

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Entry is a cached file's bytes plus bookkeeping. Entries are never mutated
// in place; a content change creates a new entry with a new hash.
type Entry struct {
	Key            string
	Content        []byte
	Size           int64
	Hash           string
	CreatedAt      time.Time
	LastAccessedAt time.Time
	AccessCount    int64
	TTL            time.Duration
}

// Expired reports whether the entry is past its time-to-live. A
// non-positive TTL means the entry is already expired.
func (e *Entry) Expired(now time.Time) bool {
	if e.TTL <= 0 {
		return true
	}
	return now.Sub(e.CreatedAt) > e.TTL
}

// MakeKey builds the composite cache key for a file.
func MakeKey(owner, repo, branch, path string) string {
	return fmt.Sprintf("%s/%s@%s:%s", owner, repo, branch, path)
}

// repoPrefix is the key prefix shared by all entries of one repository.
func repoPrefix(owner, repo string) string {
	return owner + "/" + repo + "@"
}

// Cache is a bounded, time-expiring map from composite keys to file bytes.
// Expired entries are dropped lazily on Get and eagerly by Sweep.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*Entry
	totalBytes int64
	maxBytes   int64
	defaultTTL time.Duration
}

// NewCache creates a content cache with a byte cap and default entry TTL.
func NewCache(maxBytes int64, defaultTTL time.Duration) *Cache {
	return &Cache{
		entries:    make(map[string]*Entry),
		maxBytes:   maxBytes,
		defaultTTL: defaultTTL,
	}
}

// Get returns cached content for a file and bumps access metadata.
// Expired entries are dropped and reported as a miss.
func (c *Cache) Get(owner, repo, branch, path string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := MakeKey(owner, repo, branch, path)
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	now := time.Now()
	if entry.Expired(now) {
		c.removeLocked(key)
		return nil, false
	}

	entry.LastAccessedAt = now
	entry.AccessCount++
	return entry.Content, true
}

// Put stores file content under the default TTL.
func (c *Cache) Put(owner, repo, branch, path string, content []byte) {
	c.PutWithTTL(owner, repo, branch, path, content, c.defaultTTL)
}

// PutWithTTL stores file content with an explicit TTL. Content larger than
// the cache's byte cap is not cached at all.
func (c *Cache) PutWithTTL(owner, repo, branch, path string, content []byte, ttl time.Duration) {
	size := int64(len(content))
	if c.maxBytes > 0 && size > c.maxBytes {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := MakeKey(owner, repo, branch, path)
	c.removeLocked(key)
	c.makeRoomLocked(size)

	now := time.Now()
	sum := sha256.Sum256(content)
	c.entries[key] = &Entry{
		Key:            key,
		Content:        content,
		Size:           size,
		Hash:           hex.EncodeToString(sum[:]),
		CreatedAt:      now,
		LastAccessedAt: now,
		TTL:            ttl,
	}
	c.totalBytes += size
}

// Invalidate drops the entry for a single file.
func (c *Cache) Invalidate(owner, repo, branch, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(MakeKey(owner, repo, branch, path))
}

// InvalidateRepo drops all entries for a repository across all branches.
func (c *Cache) InvalidateRepo(owner, repo string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := repoPrefix(owner, repo)
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.removeLocked(key)
		}
	}
}

// Sweep eagerly removes all expired entries and returns how many were
// dropped. The housekeeping loop calls this on a fixed interval.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	dropped := 0
	for key, entry := range c.entries {
		if entry.Expired(now) {
			c.removeLocked(key)
			dropped++
		}
	}
	return dropped
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Entry)
	c.totalBytes = 0
}

// Stats describes the cache's live (non-expired) footprint.
type Stats struct {
	Entries    int
	TotalBytes int64
	MaxBytes   int64
}

// NearCapacity reports whether the cache is within 90% of its byte cap.
// This is a warning-level condition, not an error; the sweeper and LRU
// eviction are the mitigation.
func (s Stats) NearCapacity() bool {
	return s.MaxBytes > 0 && s.TotalBytes*10 >= s.MaxBytes*9
}

// GetStats counts live entries only.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	stats := Stats{MaxBytes: c.maxBytes}
	for _, entry := range c.entries {
		if entry.Expired(now) {
			continue
		}
		stats.Entries++
		stats.TotalBytes += entry.Size
	}
	return stats
}

// removeLocked deletes an entry and updates the byte count.
// Caller must hold c.mu.
func (c *Cache) removeLocked(key string) {
	if entry, ok := c.entries[key]; ok {
		c.totalBytes -= entry.Size
		delete(c.entries, key)
	}
}

// makeRoomLocked evicts until the incoming size fits under the byte cap:
// expired entries first, then least-recently-accessed. Caller must hold c.mu.
func (c *Cache) makeRoomLocked(incoming int64) {
	if c.maxBytes <= 0 || c.totalBytes+incoming <= c.maxBytes {
		return
	}

	now := time.Now()
	for key, entry := range c.entries {
		if entry.Expired(now) {
			c.removeLocked(key)
		}
	}
	if c.totalBytes+incoming <= c.maxBytes {
		return
	}

	victims := make([]*Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		victims = append(victims, entry)
	}
	sort.Slice(victims, func(i, j int) bool {
		return victims[i].LastAccessedAt.Before(victims[j].LastAccessedAt)
	})
	for _, victim := range victims {
		if c.totalBytes+incoming <= c.maxBytes {
			return
		}
		c.removeLocked(victim.Key)
	}
}
