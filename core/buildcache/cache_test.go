package buildcache

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func writeSource(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

type countingBuilder struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (b *countingBuilder) build(source, out string) error {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	if err := os.WriteFile(out, []byte("artifact for "+source), 0o755); err != nil {
		return err
	}
	if b.fail {
		return errors.New("compile failed")
	}
	return nil
}

func (b *countingBuilder) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func TestEnsureReusesFreshArtifact(t *testing.T) {
	cache := New(NewScratch(filepath.Join(t.TempDir(), DirName)), nil)
	src := writeSource(t, t.TempDir(), "main.c", "int main(){}")
	b := &countingBuilder{}

	first, rebuilt, err := cache.Ensure(src, b.build)
	if err != nil {
		t.Fatalf("first Ensure: %v", err)
	}
	if !rebuilt {
		t.Fatal("first Ensure should build")
	}
	second, rebuilt, err := cache.Ensure(src, b.build)
	if err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if rebuilt {
		t.Fatal("second Ensure should reuse the artifact")
	}
	if first != second {
		t.Fatalf("artifact path changed: %s vs %s", first, second)
	}
	if b.count() != 1 {
		t.Fatalf("builder ran %d times, want 1", b.count())
	}
}

func TestEnsureRebuildsStaleArtifact(t *testing.T) {
	cache := New(NewScratch(filepath.Join(t.TempDir(), DirName)), nil)
	src := writeSource(t, t.TempDir(), "main.c", "int main(){}")
	b := &countingBuilder{}

	artifact, _, err := cache.Ensure(src, b.build)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	info, err := os.Stat(artifact)
	if err != nil {
		t.Fatalf("stat artifact: %v", err)
	}
	newer := info.ModTime().Add(2 * time.Second)
	if err := os.Chtimes(src, newer, newer); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	if _, rebuilt, err := cache.Ensure(src, b.build); err != nil || !rebuilt {
		t.Fatalf("Ensure after touch: rebuilt=%v err=%v", rebuilt, err)
	}
	if b.count() != 2 {
		t.Fatalf("builder ran %d times, want 2", b.count())
	}
}

func TestEnsureEqualMTimesIsValid(t *testing.T) {
	cache := New(NewScratch(filepath.Join(t.TempDir(), DirName)), nil)
	src := writeSource(t, t.TempDir(), "main.c", "int main(){}")
	b := &countingBuilder{}

	artifact, _, err := cache.Ensure(src, b.build)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	stamp := time.Now().Add(-time.Hour).Truncate(time.Second)
	for _, p := range []string{src, artifact} {
		if err := os.Chtimes(p, stamp, stamp); err != nil {
			t.Fatalf("Chtimes %s: %v", p, err)
		}
	}
	if _, rebuilt, err := cache.Ensure(src, b.build); err != nil || rebuilt {
		t.Fatalf("equal mtimes: rebuilt=%v err=%v", rebuilt, err)
	}
}

func TestEnsureFailedBuildLeavesNoArtifact(t *testing.T) {
	scratch := NewScratch(filepath.Join(t.TempDir(), DirName))
	cache := New(scratch, nil)
	src := writeSource(t, t.TempDir(), "main.c", "int main(){")
	b := &countingBuilder{fail: true}

	if _, _, err := cache.Ensure(src, b.build); err == nil {
		t.Fatal("expected build error")
	}
	art, err := cache.Lookup(src)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if art.Valid() {
		t.Fatal("failed build left a valid artifact")
	}
	dir, _ := scratch.Dir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("scratch dir not empty after failed build: %v", entries)
	}

	// The next run must try again rather than reuse anything.
	if _, _, err := cache.Ensure(src, b.build); err == nil {
		t.Fatal("expected build error on retry")
	}
	if b.count() != 2 {
		t.Fatalf("builder ran %d times, want 2", b.count())
	}
}

func TestLookupMissingSourceIsInvalid(t *testing.T) {
	cache := New(NewScratch(filepath.Join(t.TempDir(), DirName)), nil)
	art, err := cache.Lookup(filepath.Join(t.TempDir(), "missing.c"))
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if art.Valid() {
		t.Fatal("artifact for missing source should be invalid")
	}
}

func TestScratchCreatedOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), DirName)
	s := NewScratch(path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("scratch must not be created eagerly")
	}
	for i := 0; i < 3; i++ {
		got, err := s.Dir()
		if err != nil {
			t.Fatalf("Dir: %v", err)
		}
		if got != path {
			t.Fatalf("Dir = %s", got)
		}
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		t.Fatalf("scratch not a directory: %v", err)
	}
}

func TestScratchRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DirName)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewScratch(path).Dir(); err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Fatalf("expected not-a-directory error, got %v", err)
	}
}

func TestKeyIsStableAndPathSensitive(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.c")
	b := filepath.Join(dir, "b.c")
	if Key(a) != Key(a) {
		t.Fatal("key not deterministic")
	}
	if Key(a) == Key(b) {
		t.Fatal("distinct paths share a key")
	}
	if strings.ContainsAny(Key(a), "/\\") {
		t.Fatalf("key %q is not a flat file name", Key(a))
	}
}
