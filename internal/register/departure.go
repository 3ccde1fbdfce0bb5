package register

import (
	"strings"
	"time"
)

// MaxDelay caps the accumulated delay of a departure. Anything longer is
// treated as an input error, which also keeps delay arithmetic far from
// time.Duration overflow.
const MaxDelay = 7 * 24 * time.Hour

// MaxDelayMinutes is MaxDelay in whole minutes.
const MaxDelayMinutes = int(MaxDelay / time.Minute)

// Departure is a scheduled train departure. Delay and track are the only
// fields that change after construction; equality is by train number.
type Departure struct {
	departureTime TimeOfDay
	line          string
	trainNumber   int
	destination   string
	track         int
	delay         time.Duration
}

// NewDeparture validates every field. A track of 0 means no track is assigned yet.
func NewDeparture(departureTime TimeOfDay, line string, trainNumber int, destination string, track int, delay time.Duration) (*Departure, error) {
	if departureTime < 0 || departureTime >= MinutesPerDay {
		return nil, invalid("departure time", "%d minutes is outside a day", int(departureTime))
	}
	if strings.TrimSpace(line) == "" {
		return nil, invalid("line", "must not be empty")
	}
	if trainNumber < 0 {
		return nil, invalid("train number", "%d is negative", trainNumber)
	}
	if strings.TrimSpace(destination) == "" {
		return nil, invalid("destination", "must not be empty")
	}
	if track < 0 {
		return nil, invalid("track", "%d is negative", track)
	}
	if delay < 0 {
		return nil, invalid("delay", "%s is negative", delay)
	}
	if delay > MaxDelay {
		return nil, invalid("delay", "%s is above the maximum %s", delay, MaxDelay)
	}

	return &Departure{
		departureTime: departureTime,
		line:          line,
		trainNumber:   trainNumber,
		destination:   destination,
		track:         track,
		delay:         delay,
	}, nil
}

func (d Departure) DepartureTime() TimeOfDay { return d.departureTime }
func (d Departure) Line() string             { return d.line }
func (d Departure) TrainNumber() int         { return d.trainNumber }
func (d Departure) Destination() string      { return d.destination }
func (d Departure) Track() int               { return d.track }
func (d Departure) Delay() time.Duration     { return d.delay }

// EffectiveDepartureTime is the departure time plus delay, wrapped to a 24h clock.
func (d Departure) EffectiveDepartureTime() TimeOfDay {
	return d.departureTime.Add(d.delay)
}

// Wrapped reports whether the delay pushes the departure past midnight.
func (d Departure) Wrapped() bool {
	return d.effectiveMinutes() >= MinutesPerDay
}

// effectiveMinutes is the unwrapped effective time relative to the departure's own day.
func (d Departure) effectiveMinutes() int {
	return int(d.departureTime) + int(d.delay/time.Minute)
}

// AddDelay accumulates delay; it can never shrink.
func (d *Departure) AddDelay(minutes int) error {
	if err := d.checkAddDelay(minutes); err != nil {
		return err
	}
	d.delay += time.Duration(minutes) * time.Minute
	return nil
}

// checkAddDelay rejects minutes that are negative or would push the delay
// past MaxDelay. It runs before any conversion to time.Duration.
func (d Departure) checkAddDelay(minutes int) error {
	if minutes < 0 {
		return invalid("delay", "%d minutes is negative", minutes)
	}
	if minutes > int((MaxDelay-d.delay)/time.Minute) {
		return invalid("delay", "%d minutes would exceed the maximum %s (current %s)", minutes, MaxDelay, d.delay)
	}
	return nil
}

func (d *Departure) SetTrack(track int) error {
	if track < 0 {
		return invalid("track", "%d is negative", track)
	}
	d.track = track
	return nil
}

func (d Departure) Equal(other Departure) bool {
	return d.trainNumber == other.trainNumber
}
