package audit

import (
	"context"

	"golang.org/x/tools/go/packages"
)

// load parses the packages that match the given patterns. Only syntax is
// loaded; dependencies are neither parsed nor type checked. The patterns are
// defined by the underlying build system. For the go tool, this is described
// at https://golang.org/cmd/go/#hdr-Package_lists_and_patterns
//
// wd is the working directory and env is the set of environment variables to
// use when loading the packages specified by patterns. If env is nil or
// empty, the current environment is used. When tests is set, the test
// variants of each package are loaded as well.
func load(ctx context.Context, wd string, env []string, tests bool, patterns []string) ([]*packages.Package, []error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedSyntax,
		Dir:     wd,
		Env:     env,
		Tests:   tests,
	}
	escaped := make([]string, len(patterns))
	for i := range patterns {
		escaped[i] = "pattern=" + patterns[i]
	}
	pkgs, err := packages.Load(cfg, escaped...)
	if err != nil {
		return nil, []error{err}
	}
	var errs []error
	for _, p := range pkgs {
		for _, e := range p.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return pkgs, nil
}
