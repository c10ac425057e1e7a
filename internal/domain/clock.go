package domain

import "github.com/jonboulle/clockwork"

// clock is the package-level time source behind Clock. The fetcher's
// most-recent-month link selection and the builder's archive-count
// heuristic both depend on the current date, so tests freeze it.
var clock = clockwork.NewRealClock()

// Clock returns the injected time source.
func Clock() clockwork.Clock {
	return clock
}

// SetClock swaps the time source. Pass nil to reset to the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
