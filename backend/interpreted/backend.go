// Package interpreted runs sources directly through an interpreter.
package interpreted

import (
	"strings"

	"evr/backend"
	"evr/core/execution"
)

// DefaultInterpreter is used when the settings name no executable.
const DefaultInterpreter = "python3"

type Backend struct {
	name     string
	settings backend.Settings
	env      backend.Env
}

// NewPython returns the backend registered for .py files.
func NewPython(settings backend.Settings, env backend.Env) *Backend {
	return New("python", settings, env)
}

func New(name string, settings backend.Settings, env backend.Env) *Backend {
	if settings.Executable == "" {
		settings.Executable = DefaultInterpreter
	}
	return &Backend{name: name, settings: settings, env: env}
}

func (b *Backend) Name() string { return b.name }

func (b *Backend) Template() (string, bool) { return b.settings.TemplateText() }

// Args is the interpreter argv. Interpreter flags precede the script path;
// anything after it would be passed to the script instead.
func (b *Backend) Args(source string) []string {
	argv := make([]string, 0, len(b.settings.ExtraArgs)+2)
	argv = append(argv, b.settings.Executable)
	argv = append(argv, b.settings.ExtraArgs...)
	return append(argv, source)
}

func (b *Backend) Run(source string) (execution.Outcome, error) {
	argv := b.Args(source)
	b.env.Log().Debug("interpreting", "backend", b.name, "argv", strings.Join(argv, " "))
	res, err := b.env.Supervisor(b.settings).Run(argv)
	if err != nil {
		return nil, err
	}
	return res.Outcome, nil
}

var _ backend.Backend = (*Backend)(nil)
