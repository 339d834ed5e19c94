package calltracker

import (
	"reflect"
	"strconv"
	"sync/atomic"
)

// record is the state kept for a single call to Expect.
type record struct {
	name     string
	expected int
	actual   atomic.Int64
	stack    string
	wrapped  reflect.Value
}

func (r *record) result() Result {
	return Result{
		Name:     r.name,
		Expected: r.expected,
		Actual:   int(r.actual.Load()),
		Stack:    r.stack,
	}
}

// Result describes an expectation at the time Check was called.
type Result struct {
	// Name is the name of the wrapped function, or "<anonymous>" for a
	// function literal.
	Name string
	// Expected is the number of calls the function should have received.
	Expected int
	// Actual is the number of calls made through the wrapper.
	Actual int
	// Stack is the goroutine stack captured when Expect was called.
	Stack string
}

// String returns a one line summary of the mismatch, without the stack.
func (r Result) String() string {
	return printer.Sprintf(mismatchMsg, r.Name, r.Expected, r.Actual,
		strconv.Itoa(r.Expected), strconv.Itoa(r.Actual))
}
