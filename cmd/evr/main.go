package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"evr/config"
	"evr/core/buildcache"
	"evr/core/execution"
	"evr/core/version"
	"evr/report"
	"evr/runner"
)

const (
	exitEngineError = 1
	exitUsage       = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("evr", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts report.Options
	var showVersion bool
	fs.BoolVar(&opts.Time, "t", false, "print the wall time of the run")
	fs.BoolVar(&opts.Time, "time", false, "print the wall time of the run")
	fs.BoolVar(&opts.Memory, "m", false, "print the peak resident set size")
	fs.BoolVar(&opts.Memory, "mem", false, "print the peak resident set size")
	fs.BoolVar(&showVersion, "version", false, "print the version and exit")
	fs.Usage = func() { usage(fs) }
	sources, err := parseArgs(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return exitUsage
	}
	if showVersion {
		fmt.Fprintln(stdout, "evr", version.Version)
		return 0
	}
	if len(sources) != 1 {
		fmt.Fprintln(stderr, "evr: expected exactly one source file")
		usage(fs)
		return exitUsage
	}
	src := sources[0]

	logger := newLogger(stderr)
	slog.SetDefault(logger)

	cfg, err := loadConfig(logger)
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		return exitEngineError
	}

	r := runner.New(cfg, runner.Options{
		Scratch: buildcache.DefaultScratch(),
		Stdin:   stdin,
		Stdout:  stdout,
		Stderr:  stderr,
		Logger:  logger,
	})
	res, err := r.Run(src)
	if err != nil {
		logError(logger, src, err)
		return exitEngineError
	}
	if res.Action == runner.ActionScaffolded {
		logger.Info("created", "source", src)
		return 0
	}

	if err := report.Write(stdout, res.Outcome, opts); err != nil {
		logger.Error("write metrics", "err", err)
	}
	if _, ok := res.Outcome.(execution.Success); !ok {
		logger.Error(res.Outcome.String(), "source", src)
	}
	return report.ExitCode(res.Outcome)
}

// parseArgs accepts flags on either side of the source path. flag stops at
// the first positional argument, so parsing resumes after each one.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		// Everything after an explicit "--" is positional.
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func loadConfig(logger *slog.Logger) (config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	path, err := config.Find(cwd)
	if errors.Is(err, config.ErrNotFound) {
		logger.Debug("no config found, using defaults", "dir", cwd)
		return config.Defaults(), nil
	}
	if err != nil {
		return config.Config{}, err
	}
	logger.Debug("loading config", "path", path)
	return config.Load(path)
}

func logError(logger *slog.Logger, src string, err error) {
	switch {
	case errors.Is(err, execution.ErrCompileFailed):
		logger.Error("compilation failed", "source", src)
	case execution.IsKind(err, execution.KindBuild):
		logger.Error("build failed", "source", src, "err", err)
	default:
		logger.Error("run failed", "source", src, "err", err)
	}
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if isTruthyEnv("EVR_DEBUG") {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: time.Kitchen}))
}

func isTruthyEnv(key string) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func usage(fs *flag.FlagSet) {
	fmt.Fprintln(fs.Output(), "usage: evr [-t|--time] [-m|--mem] [--version] <source>")
	fs.PrintDefaults()
}
