package domain

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze time via SetClock.
// Production code uses the real clock; tests inject a fake for deterministic
// CreatedAt timestamps.
var clock = clockwork.NewRealClock()

// NowMillis returns the current epoch millisecond timestamp from the
// package clock, the resolution CreatedAt is stored in.
func NowMillis() int64 {
	return clock.Now().UnixMilli()
}

// SetClock swaps the time source for record building. Pass nil to reset to
// real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
