package buildcache

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"
)

// Artifact describes the cached binary for one source file.
type Artifact struct {
	Key           string
	CachePath     string
	SourceMTime   time.Time
	ArtifactMTime time.Time
	// Missing is set when either stat failed; such an artifact is never valid.
	Missing bool
}

// Valid reports whether the artifact exists and is at least as new as its source.
func (a Artifact) Valid() bool {
	if a.Missing {
		return false
	}
	return !a.ArtifactMTime.Before(a.SourceMTime)
}

// BuildFunc compiles source into out. A non-nil error means out must not be used.
type BuildFunc func(source, out string) error

// Cache resolves source files to up-to-date artifacts.
//
// Two concurrent Ensure calls for the same uncached source both compile; each
// writes its own temporary file and renames it into place, so the race costs a
// redundant build but never exposes a partial artifact.
type Cache struct {
	scratch *Scratch
	logger  *slog.Logger
	seq     atomic.Uint64
}

func New(scratch *Scratch, logger *slog.Logger) *Cache {
	if scratch == nil {
		scratch = DefaultScratch()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{scratch: scratch, logger: logger}
}

// Lookup stats the source and its artifact without building anything.
func (c *Cache) Lookup(source string) (Artifact, error) {
	dir, err := c.scratch.Dir()
	if err != nil {
		return Artifact{}, err
	}
	key := Key(source)
	art := Artifact{Key: key, CachePath: filepath.Join(dir, key)}

	srcInfo, srcErr := os.Stat(source)
	artInfo, artErr := os.Stat(art.CachePath)
	if srcErr != nil || artErr != nil {
		art.Missing = true
	}
	if srcErr == nil {
		art.SourceMTime = srcInfo.ModTime()
	}
	if artErr == nil {
		art.ArtifactMTime = artInfo.ModTime()
	}
	return art, nil
}

// Ensure returns the path of a valid artifact for source, calling build only
// when the cached one is missing or stale. rebuilt reports whether build ran.
func (c *Cache) Ensure(source string, build BuildFunc) (path string, rebuilt bool, err error) {
	art, err := c.Lookup(source)
	if err != nil {
		return "", false, err
	}
	if art.Valid() {
		c.logger.Debug("artifact up to date", "source", source, "artifact", art.CachePath)
		return art.CachePath, false, nil
	}

	c.logger.Debug("artifact stale, rebuilding", "source", source, "artifact", art.CachePath,
		"source_mtime", art.SourceMTime, "artifact_mtime", art.ArtifactMTime)

	tmp := c.tempPath(art.CachePath)
	if err := build(source, tmp); err != nil {
		_ = os.Remove(tmp)
		return "", true, err
	}
	if err := os.Rename(tmp, art.CachePath); err != nil {
		_ = os.Remove(tmp)
		return "", true, fmt.Errorf("install artifact %s: %w", art.CachePath, err)
	}
	return art.CachePath, true, nil
}

func (c *Cache) tempPath(final string) string {
	n := c.seq.Add(1)
	return final + "." + strconv.Itoa(os.Getpid()) + "." + strconv.FormatUint(n, 10) + ".tmp"
}
