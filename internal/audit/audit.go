// Package audit finds call trackers that are created but never checked.
//
// A tracker counts as checked when its Check method is called, or when it is
// handed to other code: passed to a function (other than Expect and
// MustExpect), returned, stored or aliased. Trackers are matched by variable
// name within each top-level function, so shadowed names share a verdict.
package audit

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/ast/inspector"
)

// DefaultImportPath is the import path of the calltracker package.
const DefaultImportPath = "github.com/Versent/go-calltracker"

// Finding is a tracker that is never checked.
type Finding struct {
	// Pos is the position of the tracker's declaration.
	Pos token.Position
	// Name is the variable the tracker was assigned to.
	Name string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: tracker %q is never checked", f.Pos, f.Name)
}

// Audit loads the packages matching patterns and returns the unchecked
// trackers found in them, sorted by position.
func Audit(ctx context.Context, patterns []string, opts Options) ([]Finding, []error) {
	importPath := opts.ImportPath
	if importPath == "" {
		importPath = DefaultImportPath
	}

	pkgs, errs := load(ctx, opts.Dir, opts.Env, opts.Tests, patterns)
	if len(errs) > 0 {
		return nil, errs
	}

	// Test variants repeat the files of the package under test.
	seen := map[token.Position]bool{}
	var findings []Finding
	for _, pkg := range pkgs {
		for _, f := range Files(pkg.Fset, pkg.Syntax, importPath) {
			if seen[f.Pos] {
				continue
			}
			seen[f.Pos] = true
			findings = append(findings, f)
		}
	}
	sortFindings(findings)
	return findings, nil
}

// Files returns the unchecked trackers in the given files, sorted by
// position. Files that do not import importPath are skipped.
func Files(fset *token.FileSet, files []*ast.File, importPath string) []Finding {
	var findings []Finding
	for _, file := range files {
		name, ok := importName(file, importPath)
		if !ok {
			continue
		}
		a := &fileAudit{fset: fset, pkg: name}
		inspector.New([]*ast.File{file}).WithStack(visited, a.visit)
		findings = append(findings, a.findings...)
	}
	sortFindings(findings)
	return findings
}

func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i].Pos, findings[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// importName returns the name under which file imports importPath. The name
// is "." for dot imports. Blank imports are ignored.
func importName(file *ast.File, importPath string) (string, bool) {
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil || p != importPath {
			continue
		}
		if spec.Name != nil {
			if spec.Name.Name == "_" {
				return "", false
			}
			return spec.Name.Name, true
		}
		return defaultName(p), true
	}
	return "", false
}

// defaultName guesses the package name for an import path without loading
// it, following the usual conventions: "github.com/x/go-foo",
// "example.com/foo/v2" and "gopkg.in/foo.v1" are all foo.
func defaultName(importPath string) string {
	name := path.Base(importPath)
	if len(name) > 1 && name[0] == 'v' && isDigits(name[1:]) {
		name = path.Base(path.Dir(importPath))
	}
	if i := strings.LastIndex(name, ".v"); i > 0 && isDigits(name[i+2:]) {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	name = strings.TrimSuffix(name, "-go")
	return strings.NewReplacer("-", "", ".", "").Replace(name)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

var visited = []ast.Node{
	(*ast.FuncDecl)(nil),
	(*ast.AssignStmt)(nil),
	(*ast.ValueSpec)(nil),
	(*ast.Ident)(nil),
}

// tracker is a variable holding a newly constructed tracker.
type tracker struct {
	name    string
	pos     token.Pos
	checked bool
}

type fileAudit struct {
	fset     *token.FileSet
	pkg      string
	findings []Finding

	// trackers declared in the current top-level function, in order, and
	// the latest declaration for each name.
	trackers []*tracker
	byName   map[string]*tracker
}

func (a *fileAudit) visit(n ast.Node, push bool, stack []ast.Node) bool {
	switch n := n.(type) {
	case *ast.FuncDecl:
		if push {
			if n.Body == nil {
				return false
			}
			a.trackers, a.byName = nil, map[string]*tracker{}
			return true
		}
		for _, t := range a.trackers {
			if !t.checked {
				a.findings = append(a.findings, Finding{Pos: a.fset.Position(t.pos), Name: t.name})
			}
		}
		a.trackers, a.byName = nil, nil
	case *ast.AssignStmt:
		if push && len(n.Lhs) == len(n.Rhs) {
			for i, rhs := range n.Rhs {
				a.declare(n.Lhs[i], rhs)
			}
		}
	case *ast.ValueSpec:
		if push && len(n.Names) == len(n.Values) {
			for i, value := range n.Values {
				a.declare(n.Names[i], value)
			}
		}
	case *ast.Ident:
		if push && len(stack) > 1 {
			if t, ok := a.byName[n.Name]; ok && a.escapes(use(stack)) {
				t.checked = true
			}
		}
	}
	return true
}

// declare records lhs as a tracker when value constructs one. Declarations
// outside a function body are ignored.
func (a *fileAudit) declare(lhs ast.Expr, value ast.Expr) {
	id, ok := lhs.(*ast.Ident)
	if !ok || id.Name == "_" || a.byName == nil || !a.isConstructor(value) {
		return
	}
	t := &tracker{name: id.Name, pos: id.Pos()}
	a.trackers = append(a.trackers, t)
	a.byName[id.Name] = t
}

// isConstructor reports whether expr is New(), new(Tracker) or &Tracker{}.
func (a *fileAudit) isConstructor(expr ast.Expr) bool {
	switch e := astutil.Unparen(expr).(type) {
	case *ast.CallExpr:
		if a.isPkgFunc(e.Fun, "New") {
			return len(e.Args) == 0
		}
		if id, ok := e.Fun.(*ast.Ident); ok && id.Name == "new" && len(e.Args) == 1 {
			return a.isPkgFunc(e.Args[0], "Tracker")
		}
	case *ast.UnaryExpr:
		if lit, ok := e.X.(*ast.CompositeLit); ok && e.Op == token.AND {
			return a.isPkgFunc(lit.Type, "Tracker")
		}
	}
	return false
}

// isPkgFunc reports whether expr refers to the exported identifier name of
// the tracker package, with or without instantiation.
func (a *fileAudit) isPkgFunc(expr ast.Expr, name string) bool {
	switch e := expr.(type) {
	case *ast.IndexExpr:
		return a.isPkgFunc(e.X, name)
	case *ast.IndexListExpr:
		return a.isPkgFunc(e.X, name)
	case *ast.SelectorExpr:
		x, ok := e.X.(*ast.Ident)
		return ok && x.Name == a.pkg && e.Sel.Name == name
	case *ast.Ident:
		return a.pkg == "." && e.Name == name
	}
	return false
}

// use returns the outermost expression that is the identifier at the top of
// stack wrapped only in parentheses or dereferences, and that expression's
// parent. (*tr).Check() and (tr).Check() are uses of tr.
func use(stack []ast.Node) (ast.Expr, ast.Node) {
	i := len(stack) - 1
	for i > 1 && isWrapper(stack[i-1]) {
		i--
	}
	return stack[i].(ast.Expr), stack[i-1]
}

func isWrapper(n ast.Node) bool {
	switch n.(type) {
	case *ast.ParenExpr, *ast.StarExpr:
		return true
	}
	return false
}

// escapes reports whether the use of id within parent verifies the tracker
// or hands it to code that may.
func (a *fileAudit) escapes(id ast.Expr, parent ast.Node) bool {
	switch p := parent.(type) {
	case *ast.SelectorExpr:
		return p.X == id && p.Sel.Name == "Check"
	case *ast.CallExpr:
		if p.Fun == id {
			return false
		}
		return !a.isPkgFunc(p.Fun, "Expect") && !a.isPkgFunc(p.Fun, "MustExpect")
	case *ast.AssignStmt:
		return contains(p.Rhs, id)
	case *ast.ValueSpec:
		return contains(p.Values, id)
	case *ast.KeyValueExpr:
		return p.Value == id
	case *ast.ReturnStmt, *ast.CompositeLit, *ast.UnaryExpr, *ast.SendStmt:
		return true
	}
	return false
}

func contains(exprs []ast.Expr, id ast.Expr) bool {
	for _, e := range exprs {
		if e == id {
			return true
		}
	}
	return false
}
