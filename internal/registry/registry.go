package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const indexVersion = 1

// indexFile is the on-disk shape of repo-index.json.
type indexFile struct {
	Version      int       `json:"version"`
	Repositories []*Handle `json:"repositories"`
}

// Registry is an in-memory map of repository handles persisted to a small
// JSON index file for restart-time recovery.
type Registry struct {
	indexPath string
	maxRepos  int

	mu      sync.RWMutex
	handles map[string]*Handle
}

// Load reads the index file at path, or starts empty if it doesn't exist.
// A corrupted index is discarded rather than treated as fatal; the cache can
// always be rebuilt from the remote.
func Load(indexPath string, maxRepos int) (*Registry, error) {
	r := &Registry{
		indexPath: indexPath,
		maxRepos:  maxRepos,
		handles:   make(map[string]*Handle),
	}

	data, err := os.ReadFile(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("failed to read repo index: %w", err)
	}

	var idx indexFile
	if err := json.Unmarshal(data, &idx); err != nil || idx.Version != indexVersion {
		// Start fresh; working copies on disk are re-registered on next sync.
		return r, nil
	}

	for _, h := range idx.Repositories {
		if h.Owner == "" || h.Repo == "" {
			continue
		}
		r.handles[h.Key()] = h
	}
	return r, nil
}

// Get returns a copy of the handle for (owner, repo), or nil if unknown.
func (r *Registry) Get(owner, repo string) *Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handles[Key(owner, repo)]
	if !ok {
		return nil
	}
	return h.clone()
}

// Set stores or updates a handle and persists the index. If the repository
// cap is exceeded, the least-recently-synced handles are evicted (never the
// one just set) and returned so the caller can remove their working
// directories.
func (r *Registry) Set(h *Handle) (evicted []*Handle, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handles[h.Key()] = h.clone()

	if r.maxRepos > 0 && len(r.handles) > r.maxRepos {
		victims := r.sortedLocked()
		sort.Slice(victims, func(i, j int) bool {
			return victims[i].LastSyncedAt.Before(victims[j].LastSyncedAt)
		})
		for _, victim := range victims {
			if len(r.handles) <= r.maxRepos {
				break
			}
			if victim.Key() == h.Key() {
				continue
			}
			delete(r.handles, victim.Key())
			evicted = append(evicted, victim)
		}
	}

	if err := r.saveLocked(); err != nil {
		return evicted, err
	}
	return evicted, nil
}

// Delete removes a handle and persists the index. Deleting an unknown key is
// a no-op (idempotent operation).
func (r *Registry) Delete(owner, repo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Key(owner, repo)
	if _, ok := r.handles[key]; !ok {
		return nil
	}
	delete(r.handles, key)
	return r.saveLocked()
}

// List returns copies of all handles sorted by key.
func (r *Registry) List() []*Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked()
}

// Len returns the number of registered repositories.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}

// Reset drops all handles and persists the empty index.
func (r *Registry) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handles = make(map[string]*Handle)
	return r.saveLocked()
}

func (r *Registry) sortedLocked() []*Handle {
	handles := make([]*Handle, 0, len(r.handles))
	for _, h := range r.handles {
		handles = append(handles, h.clone())
	}
	sort.Slice(handles, func(i, j int) bool {
		return handles[i].Key() < handles[j].Key()
	})
	return handles
}

// saveLocked writes the index atomically via write-to-temp + rename.
// Caller must hold r.mu.
func (r *Registry) saveLocked() error {
	idx := indexFile{
		Version:      indexVersion,
		Repositories: r.sortedLocked(),
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal repo index: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.indexPath), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmpPath := r.indexPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write repo index: %w", err)
	}
	if err := os.Rename(tmpPath, r.indexPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename repo index: %w", err)
	}
	return nil
}
