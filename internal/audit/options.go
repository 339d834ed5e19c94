package audit

import (
	"fmt"
	"os"
)

// Options holds options for Audit.
type Options struct {
	// ImportPath is the import path of the tracker package. Defaults to
	// DefaultImportPath.
	ImportPath string

	// Tests includes the test files of each package.
	Tests bool

	// Dir is the directory to run the build system's query tool
	// that provides information about the packages.
	// If Dir is empty, the tool is run in the current directory.
	Dir string

	// Env is the environment to use when invoking the build system's query tool.
	// If Env is nil, the current environment is used.
	// As in os/exec's Cmd, only the last value in the slice for
	// each environment key is used.
	Env []string
}

// Option configures Options and may fail.
type Option func(*Options) error

// WithOptions applies each option in turn and stops at the first error. nil
// options are skipped.
func WithOptions(opts ...Option) Option {
	return func(o *Options) error {
		for _, opt := range opts {
			if opt == nil {
				continue
			}
			if err := opt(o); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithArgs applies every Option found in args. It lets commands pass options
// through the variadic arguments of subcommands.Command.Execute.
func WithArgs(args ...any) Option {
	return func(o *Options) error {
		for _, arg := range args {
			switch opt := arg.(type) {
			case Option:
				if err := opt(o); err != nil {
					return err
				}
			case func(*Options) error:
				if err := opt(o); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unexpected argument of type %T", arg)
			}
		}
		return nil
	}
}

// WithDir sets the directory packages are loaded from.
func WithDir(dir string) Option {
	return func(o *Options) error {
		o.Dir = dir
		return nil
	}
}

// WithWDFallback sets the directory to the working directory unless one was
// already set.
func WithWDFallback() Option {
	return func(o *Options) error {
		if o.Dir != "" {
			return nil
		}
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		o.Dir = wd
		return nil
	}
}

// WithEnv sets the environment of the build system's query tool.
func WithEnv(env []string) Option {
	return func(o *Options) error {
		o.Env = env
		return nil
	}
}

// WithImportPath sets the import path of the tracker package. An empty path
// leaves the default in place.
func WithImportPath(importPath string) Option {
	return func(o *Options) error {
		if importPath != "" {
			o.ImportPath = importPath
		}
		return nil
	}
}

// WithTests sets whether test files are audited.
func WithTests(tests bool) Option {
	return func(o *Options) error {
		o.Tests = tests
		return nil
	}
}
