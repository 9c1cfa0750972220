// Package config handles elkhorn configuration.
package config

import (
	"os"
	"path/filepath"
)

// File permission constants for consistent file creation.
const (
	DefaultFileMode = 0644
	DefaultDirMode  = 0755
)

// EnvCacheDir overrides the cache root directory when set.
const EnvCacheDir = "ELKHORN_CACHE_DIR"

// Paths provides all elkhorn-related filesystem paths.
type Paths struct {
	ConfigDir  string // ~/.config/elkhorn
	ConfigFile string // ~/.config/elkhorn/config.yaml
	CacheRoot  string // <tmp>/elkhorn
	ReposDir   string // <tmp>/elkhorn/repos
	IndexFile  string // <tmp>/elkhorn/repo-index.json
}

// NewPaths creates Paths using ~/.config for configuration and the platform
// temp directory for the repository cache. The cache lives under temp rather
// than ~/.cache because working copies are large and fully reproducible.
func NewPaths() *Paths {
	home := os.Getenv("HOME")
	configDir := filepath.Join(home, ".config", "elkhorn")

	cacheRoot := os.Getenv(EnvCacheDir)
	if cacheRoot == "" {
		cacheRoot = filepath.Join(os.TempDir(), "elkhorn")
	}

	return &Paths{
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, "config.yaml"),
		CacheRoot:  cacheRoot,
		ReposDir:   filepath.Join(cacheRoot, "repos"),
		IndexFile:  filepath.Join(cacheRoot, "repo-index.json"),
	}
}

// NewPathsWithOverrides allows overriding directories for testing.
func NewPathsWithOverrides(configDir, cacheRoot string) *Paths {
	return &Paths{
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, "config.yaml"),
		CacheRoot:  cacheRoot,
		ReposDir:   filepath.Join(cacheRoot, "repos"),
		IndexFile:  filepath.Join(cacheRoot, "repo-index.json"),
	}
}

// RepoDir returns the working directory for a repository. A repository is
// checked out to exactly one directory regardless of branch; switching
// branches updates this directory in place.
func (p *Paths) RepoDir(owner, repo string) string {
	return filepath.Join(p.ReposDir, owner, repo)
}
