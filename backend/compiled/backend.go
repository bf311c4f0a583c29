// Package compiled runs sources that must be built by a C-family toolchain first.
package compiled

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"evr/backend"
	"evr/core/buildcache"
	"evr/core/execution"
)

// Language names a toolchain variant and the value passed to -x.
type Language struct {
	Name              string
	Flag              string
	DefaultExecutable string
}

var (
	C   = Language{Name: "clang_c", Flag: "c", DefaultExecutable: "clang"}
	CXX = Language{Name: "clang", Flag: "c++", DefaultExecutable: "clang++"}
)

type Backend struct {
	lang     Language
	settings backend.Settings
	env      backend.Env
}

func New(lang Language, settings backend.Settings, env backend.Env) *Backend {
	if settings.Executable == "" {
		settings.Executable = lang.DefaultExecutable
	}
	if env.Cache == nil {
		env.Cache = buildcache.New(buildcache.DefaultScratch(), env.Log())
	}
	return &Backend{lang: lang, settings: settings, env: env}
}

func (b *Backend) Name() string { return b.lang.Name }

func (b *Backend) Template() (string, bool) { return b.settings.TemplateText() }

// Run builds source if its cached artifact is stale and then executes the artifact.
func (b *Backend) Run(source string) (execution.Outcome, error) {
	artifact, _, err := b.env.Cache.Ensure(source, b.compile)
	if err != nil {
		if execution.IsKind(err, execution.KindBuild) {
			return nil, err
		}
		return nil, execution.BuildError("cache", source, err)
	}
	res, err := b.env.Supervisor(b.settings).Run([]string{artifact})
	if err != nil {
		return nil, err
	}
	return res.Outcome, nil
}

// CompileArgs is the toolchain argv: the language is forced with -x and the
// configured extra arguments come last so they can override the defaults.
func (b *Backend) CompileArgs(source, out string) []string {
	argv := []string{b.settings.Executable, "-x", b.lang.Flag, source, "-o", out}
	return append(argv, b.settings.ExtraArgs...)
}

func (b *Backend) compile(source, out string) error {
	argv := b.CompileArgs(source, out)
	b.env.Log().Debug("compiling", "backend", b.lang.Name, "argv", strings.Join(argv, " "))

	cmd := exec.Command(argv[0], argv[1:]...)
	diag := b.env.Stderr
	if diag == nil {
		diag = os.Stderr
	}
	cmd.Stdout = diag
	cmd.Stderr = diag

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return execution.BuildError("compile", source, fmt.Errorf("%w: %s %v", execution.ErrCompileFailed, argv[0], exitErr))
		}
		return execution.BuildError("start compiler", source, err)
	}
	return nil
}

var _ backend.Backend = (*Backend)(nil)
