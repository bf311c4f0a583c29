// Package buildcache keeps compiled artifacts in a flat scratch directory and
// decides, by modification time alone, whether an artifact is still valid.
package buildcache

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// DirName is the scratch directory created under the platform temp dir.
const DirName = "evr-tmp"

// Scratch is the shared artifact directory. It is created lazily, at most once
// per Scratch value; the process entry point owns the value and passes it down.
type Scratch struct {
	path string
	once sync.Once
	err  error
}

func NewScratch(path string) *Scratch {
	return &Scratch{path: path}
}

// DefaultScratch returns a Scratch rooted at $TMPDIR/evr-tmp.
func DefaultScratch() *Scratch {
	return NewScratch(filepath.Join(os.TempDir(), DirName))
}

// Dir returns the scratch directory, creating it on first use.
func (s *Scratch) Dir() (string, error) {
	s.once.Do(func() {
		s.err = ensureDir(s.path)
	})
	return s.path, s.err
}

func ensureDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("scratch %s exists and is not a directory", path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat scratch %s: %w", path, err)
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		// Another evr process may have created it since the stat.
		if os.IsExist(err) {
			return ensureDir(path)
		}
		return fmt.Errorf("create scratch %s: %w", path, err)
	}
	return nil
}

// Key derives the artifact name for a source path: the FNV-1a 64-bit hash of
// its absolute form, in hex. Distinct paths may collide; that is accepted.
func Key(source string) string {
	if abs, err := filepath.Abs(source); err == nil {
		source = abs
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(source))
	return strconv.FormatUint(h.Sum64(), 16)
}
