package worldclock

import "time"

// Clock abstracts time.Now so that "now" can be fixed in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock of the host.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
