// Package clock supplies wall-clock time, one-shot timers and app lifecycle
// transitions to the daily log.
package clock

import (
	"time"

	"github.com/robfig/cron/v3"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer before it fired.
	Stop() bool
}

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real is the system clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

var midnight = mustSchedule("0 0 * * *")

func mustSchedule(spec string) cron.Schedule {
	s, err := cron.ParseStandard(spec)
	if err != nil {
		panic(err)
	}
	return s
}

// NextMidnight returns the first local midnight strictly after now, in now's location.
func NextMidnight(now time.Time) time.Time {
	return midnight.Next(now)
}

// UntilNextMidnight is the delay from now to NextMidnight(now).
func UntilNextMidnight(now time.Time) time.Duration {
	return NextMidnight(now).Sub(now)
}
