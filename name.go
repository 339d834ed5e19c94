package calltracker

import (
	"reflect"
	"runtime"
	"strings"
)

// anonymous is the name reported for function literals.
const anonymous = "<anonymous>"

// funcName returns the declared name of fn without its package path or
// receiver, e.g. "foo" for pkg.foo and "Get" for the method value
// pkg.(*T).Get-fm. Closures are reported as anonymous.
func funcName(fn reflect.Value) string {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return anonymous
	}
	// reflect.makeFuncStub and friends belong to no declared function.
	if strings.HasPrefix(f.Name(), "reflect.") {
		return anonymous
	}
	name := stripTypeArgs(f.Name())
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")

	parts := strings.Split(name, ".")
	last := parts[len(parts)-1]
	if last == "" || len(parts) > 1 && isClosure(last) {
		return anonymous
	}
	return last
}

// isClosure reports whether a symbol segment is one the compiler generates
// for function literals: "func1", or "2" for literals nested inside one.
func isClosure(segment string) bool {
	return isDigits(strings.TrimPrefix(segment, "func"))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// stripTypeArgs removes instantiation brackets such as "[...]" or
// "[go.shape.int]" so that they cannot be mistaken for path separators.
func stripTypeArgs(name string) string {
	var b strings.Builder
	depth := 0
	for _, r := range name {
		switch {
		case r == '[':
			depth++
		case r == ']' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
