package runner

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"evr/backend"
	"evr/backend/compiled"
	"evr/backend/interpreted"
	"evr/config"
	"evr/core/buildcache"
	"evr/core/execution"
	"evr/registry"
)

// Action records which path Run took for a source file.
type Action string

const (
	ActionScaffolded Action = "scaffolded"
	ActionRan        Action = "ran"
)

type Result struct {
	Action  Action
	Backend string
	// Outcome is nil when the file was scaffolded.
	Outcome execution.Outcome
}

type Options struct {
	// Scratch is the artifact directory shared by compiled backends.
	Scratch *buildcache.Scratch
	Stdin   *os.File
	Stdout  *os.File
	Stderr  *os.File
	Logger  *slog.Logger
}

// Runner scaffolds missing source files and runs existing ones.
type Runner struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// New wires the standard backends from cfg.
func New(cfg config.Config, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	env := backend.Env{
		Cache:  buildcache.New(opts.Scratch, logger),
		Stdin:  opts.Stdin,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
		Logger: logger,
	}
	return NewWithRegistry(Standard(cfg, env), logger)
}

func NewWithRegistry(reg *registry.Registry, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{registry: reg, logger: logger}
}

// Standard maps .py to the interpreter, .cc/.cpp/.cxx to the C++ toolchain
// and .c to the C toolchain.
func Standard(cfg config.Config, env backend.Env) *registry.Registry {
	reg := registry.New()
	reg.Register(interpreted.NewPython(cfg.Python, env), "py")
	reg.Register(compiled.New(compiled.CXX, cfg.Clang, env), "cc", "cpp", "cxx")
	reg.Register(compiled.New(compiled.C, cfg.ClangC, env), "c")
	return reg
}

func (r *Runner) Registry() *registry.Registry { return r.registry }

// Run scaffolds path from its template when it does not exist, and otherwise
// runs it through the backend registered for its extension.
func (r *Runner) Run(path string) (Result, error) {
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Result{}, err
		}
		return r.scaffold(path)
	}

	b, err := r.registry.Lookup(path)
	if err != nil {
		return Result{}, err
	}
	r.logger.Debug("running", "source", path, "backend", b.Name())
	outcome, err := b.Run(path)
	if err != nil {
		return Result{Action: ActionRan, Backend: b.Name()}, err
	}
	return Result{Action: ActionRan, Backend: b.Name(), Outcome: outcome}, nil
}

func (r *Runner) scaffold(path string) (Result, error) {
	text := r.registry.Template(path)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Result{}, fmt.Errorf("scaffold %s: %w", path, err)
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return Result{}, fmt.Errorf("scaffold %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return Result{}, fmt.Errorf("scaffold %s: %w", path, err)
	}
	r.logger.Debug("scaffolded", "source", path, "bytes", len(text))
	return Result{Action: ActionScaffolded}, nil
}
