package register

import (
	"fmt"
	"time"
)

const MinutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time without a date, in minutes since midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return 0, invalid("time", "hour %d out of range 0-23", hour)
	}
	if minute < 0 || minute > 59 {
		return 0, invalid("time", "minute %d out of range 0-59", minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// MustTimeOfDay is NewTimeOfDay for literals known to be valid.
func MustTimeOfDay(hour, minute int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay accepts "hh:mm" (24-hour clock, single digit hour allowed).
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, invalid("time", "%q is not in format hh:mm", value)
	}
	return NewTimeOfDay(parsed.Hour(), parsed.Minute())
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Add shifts the time by d, wrapping around midnight. Sub-minute parts of d
// are dropped.
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	minutes := (int(t) + int(d/time.Minute)) % MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}
	return TimeOfDay(minutes)
}

func (t TimeOfDay) Before(other TimeOfDay) bool { return t < other }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Timestamp is the register clock: a service day counter plus a time of day.
// Day 0 is the day the register was started.
type Timestamp struct {
	Day  int
	Time TimeOfDay
}

// Minutes is the absolute minute since the start of day 0.
func (ts Timestamp) Minutes() int {
	return ts.Day*MinutesPerDay + int(ts.Time)
}

func (ts Timestamp) Before(other Timestamp) bool {
	return ts.Minutes() < other.Minutes()
}

func (ts Timestamp) String() string {
	if ts.Day == 0 {
		return ts.Time.String()
	}
	return fmt.Sprintf("%s (day +%d)", ts.Time, ts.Day)
}
