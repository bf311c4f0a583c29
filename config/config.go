// Package config locates and parses the .evr file that configures each backend.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"evr/backend"
	"evr/backend/compiled"
	"evr/backend/interpreted"
)

// FileName is the configuration file searched for in the working directory and its parents.
const FileName = ".evr"

// ErrNotFound is returned by Find when no .evr exists up to the filesystem root.
var ErrNotFound = errors.New("not an evr subtree")

// Config holds the settings of every backend.
type Config struct {
	// Path is the .evr file the config was loaded from; empty for defaults.
	Path string
	// Python configures .py files.
	Python backend.Settings
	// Clang configures C++ sources (.cc, .cpp, .cxx).
	Clang backend.Settings
	// ClangC configures C sources (.c).
	ClangC backend.Settings
}

// Defaults returns the configuration used when a table or the whole file is absent.
func Defaults() Config {
	return Config{
		Python: backend.Settings{Executable: interpreted.DefaultInterpreter, Timeout: backend.DefaultTimeout},
		Clang:  backend.Settings{Executable: compiled.CXX.DefaultExecutable, Timeout: backend.DefaultTimeout},
		ClangC: backend.Settings{Executable: compiled.C.DefaultExecutable, Timeout: backend.DefaultTimeout},
	}
}

// Validate ensures the config is usable.
func (c Config) Validate() error {
	tables := map[string]backend.Settings{"python": c.Python, "clang": c.Clang, "clang_c": c.ClangC}
	names := maps.Keys(tables)
	slices.Sort(names)
	for _, name := range names {
		s := tables[name]
		if s.Executable == "" {
			return fmt.Errorf("%s: executable required", name)
		}
		if s.Timeout <= 0 {
			return fmt.Errorf("%s: timeout must be > 0", name)
		}
	}
	return nil
}

// Find walks from dir up to the root and returns the first .evr found.
func Find(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(current, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNotFound
		}
		current = parent
	}
}

type fileSettings struct {
	Template    *string  `toml:"template"`
	Args        []string `toml:"args"`
	CC          string   `toml:"cc"`
	Interpreter string   `toml:"interpreter"`
	Version     string   `toml:"version"`
	Timeout     any      `toml:"timeout"`
}

type fileConfig struct {
	Python *fileSettings `toml:"python"`
	Clang  *fileSettings `toml:"clang"`
	ClangC *fileSettings `toml:"clang_c"`
}

// Load parses the .evr file at path on top of Defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes .evr contents. Unknown keys are rejected so typos surface.
func Parse(data []byte) (Config, error) {
	var raw fileConfig
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		return Config{}, err
	}

	cfg := Defaults()
	var err error
	if cfg.Python, err = overlay("python", cfg.Python, raw.Python, pythonExecutable); err != nil {
		return Config{}, err
	}
	if cfg.Clang, err = overlay("clang", cfg.Clang, raw.Clang, compilerExecutable); err != nil {
		return Config{}, err
	}
	if cfg.ClangC, err = overlay("clang_c", cfg.ClangC, raw.ClangC, compilerExecutable); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func overlay(table string, base backend.Settings, fs *fileSettings, executable func(*fileSettings) (string, error)) (backend.Settings, error) {
	if fs == nil {
		return base, nil
	}
	if fs.Template != nil {
		text := *fs.Template
		base.Template = &text
	}
	if len(fs.Args) > 0 {
		base.ExtraArgs = append([]string(nil), fs.Args...)
	}
	exe, err := executable(fs)
	if err != nil {
		return base, fmt.Errorf("%s: %w", table, err)
	}
	if exe != "" {
		base.Executable = exe
	}
	if fs.Timeout != nil {
		timeout, err := seconds(fs.Timeout)
		if err != nil {
			return base, fmt.Errorf("%s.timeout: %w", table, err)
		}
		base.Timeout = timeout
	}
	return base, nil
}

// pythonExecutable honours an explicit interpreter, else python<version>.
func pythonExecutable(fs *fileSettings) (string, error) {
	if fs.CC != "" {
		return "", errors.New("cc is not valid for an interpreter")
	}
	if fs.Interpreter != "" {
		return fs.Interpreter, nil
	}
	if fs.Version != "" {
		return "python" + fs.Version, nil
	}
	return "", nil
}

func compilerExecutable(fs *fileSettings) (string, error) {
	if fs.Interpreter != "" || fs.Version != "" {
		return "", errors.New("interpreter and version are only valid for python")
	}
	return fs.CC, nil
}

// seconds converts a TOML integer or float number of seconds.
func seconds(v any) (time.Duration, error) {
	var secs float64
	switch n := v.(type) {
	case int64:
		secs = float64(n)
	case float64:
		secs = n
	default:
		return 0, fmt.Errorf("expected seconds as a number, got %T", v)
	}
	if secs <= 0 {
		return 0, fmt.Errorf("must be > 0, got %v", secs)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
