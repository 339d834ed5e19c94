// Package calltracker verifies how many times functions are called during a
// test.
//
// A Tracker wraps functions with Expect and records every call made through
// the returned wrapper. Check reports the wrapped functions whose call count
// differs from the expected count, in the order they were registered.
package calltracker

import (
	"errors"
	"fmt"
	"reflect"
	"runtime/debug"
	"sync"
)

// ErrNotFunction is returned by Expect when fn cannot be invoked.
var ErrNotFunction = errors.New("fn must be a function")

// Tracker holds the expectations registered with Expect. The zero value is
// ready to use. Each Tracker is independent of every other.
type Tracker struct {
	mu      sync.Mutex
	records []*record
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{}
}

// Expect registers fn as expected to be called count times and returns a
// wrapper with the same type as fn. Every call of the wrapper is counted
// before it is forwarded to fn, and the results of fn are returned unchanged.
//
// count is optional. Anything other than a positive integer is treated as 1.
// Expect returns ErrNotFunction if fn is not a non-nil function.
func (t *Tracker) Expect(fn any, count ...any) (any, error) {
	value := reflect.ValueOf(fn)
	if value.Kind() != reflect.Func || value.IsNil() {
		return nil, ErrNotFunction
	}

	var n any
	if len(count) > 0 {
		n = count[0]
	}
	rec := &record{
		name:     funcName(value),
		expected: normalizeCount(n),
		stack:    string(debug.Stack()),
	}
	rec.wrapped = wrap(rec, value)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, rec)

	return rec.wrapped.Interface(), nil
}

// Expect is the typed form of Tracker.Expect. The returned wrapper has type F
// and can be used in place of fn.
func Expect[F any](t *Tracker, fn F, count ...any) (F, error) {
	wrapped, err := t.Expect(fn, count...)
	if err != nil {
		var zero F
		return zero, err
	}
	return wrapped.(F), nil
}

// MustExpect is like Expect but panics if fn is not a function.
func MustExpect[F any](t *Tracker, fn F, count ...any) F {
	wrapped, err := Expect(t, fn, count...)
	if err != nil {
		panic(fmt.Sprintf("calltracker.MustExpect: %v", err))
	}
	return wrapped
}

// Check returns a Result for every expectation whose actual call count
// differs from the expected count, in registration order. It does not reset
// any counters and may be called any number of times.
func (t *Tracker) Check() []Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	results := []Result{}
	for _, rec := range t.records {
		if res := rec.result(); res.Actual != res.Expected {
			results = append(results, res)
		}
	}
	return results
}

// Len returns the number of registered expectations.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}
