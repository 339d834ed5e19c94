package calltracker

import "testing"

// AssertExpectedCalls marks t as failed for every expectation of the given
// trackers whose call count does not match. Each failure includes the stack
// captured when the expectation was registered. nil trackers are ignored.
func AssertExpectedCalls(t testing.TB, trackers ...*Tracker) {
	t.Helper()

	for _, tracker := range trackers {
		if tracker == nil {
			continue
		}

		for _, res := range tracker.Check() {
			t.Errorf("%s\nexpectation registered at:\n%s", res, res.Stack)
		}
	}
}
