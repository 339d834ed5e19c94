package calltracker

import (
	"errors"
	"regexp"
	"testing"
)

func foo() string { return "foo" }
func bar() string { return "bar" }
func baz() string { return "baz" }

func TestNew(t *testing.T) {
	tracker := New()
	if tracker.Len() != 0 {
		t.Fatalf("expected no expectations, got %d", tracker.Len())
	}
	if results := tracker.Check(); results == nil || len(results) != 0 {
		t.Fatalf("expected empty results, got %#v", results)
	}
	if New() == tracker {
		t.Error("expected different trackers")
	}
}

func TestExpect_records(t *testing.T) {
	tests := []struct {
		name     string
		fn       any
		count    []any
		wantName string
		want     int
	}{
		{name: "anonymous", fn: func() {}, wantName: anonymous, want: 1},
		{name: "named", fn: foo, wantName: "foo", want: 1},
		{name: "named with count", fn: bar, count: []any{3}, wantName: "bar", want: 3},
		{name: "extra counts ignored", fn: baz, count: []any{2, 5}, wantName: "baz", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := New()
			if _, err := tracker.Expect(tt.fn, tt.count...); err != nil {
				t.Fatal("unexpected error:", err)
			}
			if tracker.Len() != 1 {
				t.Fatalf("expected one expectation, got %d", tracker.Len())
			}
			rec := tracker.records[0]
			if rec.name != tt.wantName {
				t.Errorf("unexpected name: expected %q, got %q", tt.wantName, rec.name)
			}
			if rec.expected != tt.want {
				t.Errorf("unexpected expected count: expected %d, got %d", tt.want, rec.expected)
			}
			if got := rec.actual.Load(); got != 0 {
				t.Errorf("unexpected actual count: expected 0, got %d", got)
			}
			if rec.stack == "" {
				t.Error("expected a stack")
			}
		})
	}
}

func TestExpect_stackAttribution(t *testing.T) {
	tracker := New()
	if _, err := tracker.Expect(foo); err != nil {
		t.Fatal(err)
	}
	if ok, _ := regexp.MatchString(`TestExpect_stackAttribution`, tracker.records[0].stack); !ok {
		t.Errorf("stack does not mention the registering test:\n%s", tracker.records[0].stack)
	}
}

func TestExpect_invalidCount(t *testing.T) {
	var nilSlice []int
	values := []any{
		nil,
		"",
		"3",
		"foo",
		-1,
		0,
		3.14,
		-2.0,
		float32(0.5),
		inf(),
		-inf(),
		nan(),
		true,
		false,
		regexp.MustCompile("foo"),
		[]any{},
		nilSlice,
		map[string]any{},
		struct{}{},
		func() {},
	}

	for _, value := range values {
		tracker := New()
		if _, err := tracker.Expect(bar, value); err != nil {
			t.Fatalf("unexpected error for %#v: %v", value, err)
		}
		if got := tracker.records[0].expected; got != 1 {
			t.Errorf("count %#v: expected 1, got %d", value, got)
		}
	}
}

func TestExpect_notFunction(t *testing.T) {
	var nilFunc func()
	values := []any{
		nil,
		"",
		"foo",
		0,
		1,
		inf(),
		nan(),
		true,
		false,
		regexp.MustCompile("foo"),
		[]any{},
		map[string]any{},
		struct{}{},
		nilFunc,
	}

	for _, value := range values {
		tracker := New()
		wrapped, err := tracker.Expect(value)
		if !errors.Is(err, ErrNotFunction) {
			t.Errorf("%#v: expected ErrNotFunction, got %v", value, err)
			continue
		}
		if err.Error() != "fn must be a function" {
			t.Errorf("unexpected message: %q", err.Error())
		}
		if wrapped != nil {
			t.Errorf("%#v: expected no wrapper, got %T", value, wrapped)
		}
		if tracker.Len() != 0 {
			t.Errorf("%#v: expected nothing registered", value)
		}
	}
}

func TestExpect_wrapperCounts(t *testing.T) {
	tracker := New()
	wrapped := MustExpect(tracker, func() string { return "bar" })
	rec := tracker.records[0]

	if got := rec.actual.Load(); got != 0 {
		t.Fatalf("expected 0 calls, got %d", got)
	}
	if got := wrapped(); got != "bar" {
		t.Errorf("unexpected result: expected %q, got %q", "bar", got)
	}
	if got := rec.actual.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
}

func TestExpect_forwardsArguments(t *testing.T) {
	tracker := New()

	sum := MustExpect(tracker, func(prefix string, n ...int) (string, int) {
		total := 0
		for _, v := range n {
			total += v
		}
		return prefix, total
	})
	prefix, total := sum("total", 1, 2, 3)
	if prefix != "total" || total != 6 {
		t.Errorf("unexpected results: %q %d", prefix, total)
	}
	if _, total = sum("none"); total != 0 {
		t.Errorf("unexpected total: %d", total)
	}

	if got := tracker.records[0].actual.Load(); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
}

type counter struct{ n int }

func (c *counter) Inc(by int) int {
	c.n += by
	return c.n
}

func TestExpect_methodValue(t *testing.T) {
	tracker := New()
	c := &counter{}
	inc := MustExpect(tracker, c.Inc, 2)

	inc(2)
	if got := inc(3); got != 5 {
		t.Errorf("unexpected result: expected 5, got %d", got)
	}
	if c.n != 5 {
		t.Errorf("receiver not preserved: expected 5, got %d", c.n)
	}
	if name := tracker.records[0].name; name != "Inc" {
		t.Errorf("unexpected name: expected %q, got %q", "Inc", name)
	}
	if results := tracker.Check(); len(results) != 0 {
		t.Errorf("unexpected mismatches: %v", results)
	}
}

type handler func(string) error

func TestExpect_namedFuncType(t *testing.T) {
	tracker := New()
	var h handler = func(string) error { return nil }
	wrapped, err := Expect(tracker, h)
	if err != nil {
		t.Fatal(err)
	}
	if err := wrapped("x"); err != nil {
		t.Fatal(err)
	}

	untyped, err := tracker.Expect(h)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := untyped.(handler); !ok {
		t.Errorf("expected wrapper of type handler, got %T", untyped)
	}
}

func TestExpect_panicPropagates(t *testing.T) {
	tracker := New()
	boom := MustExpect(tracker, func() { panic("boom") })

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("unexpected panic: %v", r)
			}
		}()
		boom()
	}()

	if got := tracker.records[0].actual.Load(); got != 1 {
		t.Errorf("expected the panicking call to count, got %d", got)
	}
}

func TestExpect_errorPassthrough(t *testing.T) {
	tracker := New()
	want := errors.New("failed")
	fail := MustExpect(tracker, func() error { return want })

	if err := fail(); err != want {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExpect_countsAtCallTime(t *testing.T) {
	tracker := New()
	release := make(chan struct{})
	start := func() <-chan int {
		done := make(chan int, 1)
		go func() {
			<-release
			done <- 1
		}()
		return done
	}
	first := MustExpect(tracker, start)
	second := MustExpect(tracker, start)

	d1 := first()
	d2 := second()
	d3 := second()

	if got := tracker.records[0].actual.Load(); got != 1 {
		t.Errorf("first: expected 1 call before completion, got %d", got)
	}
	if got := tracker.records[1].actual.Load(); got != 2 {
		t.Errorf("second: expected 2 calls before completion, got %d", got)
	}

	close(release)
	<-d3
	<-d1
	<-d2

	results := tracker.Check()
	if len(results) != 1 || results[0].Actual != 2 || results[0].Expected != 1 {
		t.Errorf("unexpected results: %v", results)
	}
}

func TestMustExpect_panics(t *testing.T) {
	defer func() {
		if r := recover(); r != "calltracker.MustExpect: fn must be a function" {
			t.Errorf("unexpected panic: %v", r)
		}
	}()
	MustExpect[any](New(), 42)
}

func TestCheck(t *testing.T) {
	t.Run("called once", func(t *testing.T) {
		tracker := New()
		fn := MustExpect(tracker, foo)
		fn()
		if results := tracker.Check(); len(results) != 0 {
			t.Errorf("expected no mismatches, got %v", results)
		}
	})

	t.Run("mismatches in order", func(t *testing.T) {
		tracker := New()
		fooFn := MustExpect(tracker, foo)
		barFn := MustExpect(tracker, bar, 2)
		bazFn := MustExpect(tracker, baz)

		fooFn()
		barFn()
		bazFn()
		bazFn()

		results := tracker.Check()
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		want := []struct {
			name             string
			expected, actual int
		}{
			{"bar", 2, 1},
			{"baz", 1, 2},
		}
		for i, w := range want {
			got := results[i]
			if got.Name != w.name || got.Expected != w.expected || got.Actual != w.actual {
				t.Errorf("results[%d]: expected %v, got %s", i, w, got)
			}
			if got.Stack == "" {
				t.Errorf("results[%d]: expected a stack", i)
			}
		}
	})

	t.Run("never called", func(t *testing.T) {
		tracker := New()
		MustExpect(tracker, foo, 3)
		results := tracker.Check()
		if len(results) != 1 || results[0].Actual != 0 || results[0].Expected != 3 {
			t.Errorf("unexpected results: %v", results)
		}
	})

	t.Run("repeatable and live", func(t *testing.T) {
		tracker := New()
		fn := MustExpect(tracker, foo, 2)
		fn()

		first, second := tracker.Check(), tracker.Check()
		if len(first) != 1 || len(second) != 1 || first[0].Actual != second[0].Actual {
			t.Fatalf("expected identical results, got %v and %v", first, second)
		}

		fn()
		if results := tracker.Check(); len(results) != 0 {
			t.Errorf("expected counts to be live, got %v", results)
		}
	})
}

func TestTracker_zeroValue(t *testing.T) {
	var tracker Tracker
	fn := MustExpect(&tracker, foo)
	fn()
	if results := tracker.Check(); len(results) != 0 {
		t.Errorf("unexpected mismatches: %v", results)
	}
}

func TestExpect_rewrapped(t *testing.T) {
	tracker := New()
	inner := MustExpect(tracker, foo)
	outer := MustExpect(tracker, inner)

	if got := outer(); got != "foo" {
		t.Errorf("unexpected result: expected %q, got %q", "foo", got)
	}
	if name := tracker.records[1].name; name != anonymous {
		t.Errorf("unexpected name: expected %q, got %q", anonymous, name)
	}
	if results := tracker.Check(); len(results) != 0 {
		t.Errorf("unexpected mismatches: %v", results)
	}
}
