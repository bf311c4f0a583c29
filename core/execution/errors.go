package execution

import (
	"errors"
	"fmt"
)

var (
	// ErrCompileFailed is wrapped by build errors when the toolchain exits non-zero.
	ErrCompileFailed = errors.New("compilation failed")
	// ErrNotExited is wrapped by supervision errors for stopped or continued statuses.
	ErrNotExited = errors.New("process did not exit")
)

// ErrorKind separates failures of the build step from failures to supervise the child.
type ErrorKind int

const (
	KindBuild ErrorKind = iota + 1
	KindSupervise
)

func (k ErrorKind) String() string {
	switch k {
	case KindBuild:
		return "build"
	case KindSupervise:
		return "supervise"
	default:
		return "unknown"
	}
}

// Error is the error type returned by backends and the supervisor.
type Error struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// BuildError wraps err as a build failure for path.
func BuildError(op, path string, err error) error {
	return &Error{Kind: KindBuild, Op: op, Path: path, Err: err}
}

// SuperviseError wraps err as a supervision failure for path.
func SuperviseError(op, path string, err error) error {
	return &Error{Kind: KindSupervise, Op: op, Path: path, Err: err}
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
