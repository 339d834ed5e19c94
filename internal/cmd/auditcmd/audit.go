// Package auditcmd implements the audit subcommand of the calltracker tool.
package auditcmd

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/Versent/go-calltracker/internal/audit"
)

// packages returns the slice of packages to audit based on f.
// It defaults to "./...".
func packages(f *flag.FlagSet) []string {
	pkgs := f.Args()
	if len(pkgs) == 0 {
		pkgs = []string{"./..."}
	}
	return pkgs
}

type AuditCmd struct {
	log        *log.Logger
	importPath string
	tests      bool
}

func NewAuditCmd(l *log.Logger, f *flag.FlagSet) *AuditCmd {
	cmd := &AuditCmd{log: l}
	cmd.SetFlags(f)
	return cmd
}

func (*AuditCmd) Name() string { return "audit" }
func (*AuditCmd) Synopsis() string {
	return "report call trackers that are never checked"
}
func (*AuditCmd) Usage() string {
	return `audit [-pkg importpath] [-tests=false] [package ...]

  Given one or more packages, audit reports every tracker created with
  New, new(Tracker) or &Tracker{} whose Check method is never called and
  which is never passed on, e.g. to AssertExpectedCalls.

  If no package is listed, it defaults to "./...".

`
}
func (cmd *AuditCmd) SetFlags(f *flag.FlagSet) {
	if cmd.log == nil {
		cmd.log = log.Default()
	}
	f.StringVar(&cmd.importPath, "pkg", audit.DefaultImportPath, "import path of the calltracker package")
	f.BoolVar(&cmd.tests, "tests", true, "include test files")
}

// Execute runs the audit. Any audit.Option found in args is applied after
// the options derived from the flags.
func (cmd *AuditCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	var opts audit.Options
	err := audit.WithOptions(
		audit.WithEnv(os.Environ()),
		audit.WithImportPath(cmd.importPath),
		audit.WithTests(cmd.tests),
		audit.WithArgs(args...),
		audit.WithWDFallback(),
	)(&opts)
	if err != nil {
		cmd.log.Println(err)
		return subcommands.ExitFailure
	}

	findings, errs := audit.Audit(ctx, packages(f), opts)
	if len(errs) > 0 {
		logErrors(cmd.log, errs...)
		cmd.log.Println("audit failed")
		return subcommands.ExitFailure
	}
	for _, finding := range findings {
		cmd.log.Println(finding)
	}
	if len(findings) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func logErrors(l *log.Logger, errs ...error) {
	for _, err := range errs {
		l.Println(strings.Replace(err.Error(), "\n", "\n\t", -1))
	}
}
