package register

import (
	"slices"
)

const DefaultMaxTrainNumber = 9999

type entry struct {
	departure *Departure
	// service day the departure was registered on
	day int
}

func (e *entry) effectiveMinutes() int {
	return e.day*MinutesPerDay + e.departure.effectiveMinutes()
}

// Register is the in-memory set of departures plus the clock used to decide
// which of them have left. It is not safe for concurrent use.
type Register struct {
	entries        []*entry
	index          map[int]*entry
	clock          Timestamp
	maxTrainNumber int
}

type Option func(*Register)

func WithMaxTrainNumber(max int) Option {
	return func(r *Register) { r.maxTrainNumber = max }
}

func WithClock(clock Timestamp) Option {
	return func(r *Register) { r.clock = clock }
}

func New(opts ...Option) *Register {
	r := &Register{
		index:          make(map[int]*entry),
		maxTrainNumber: DefaultMaxTrainNumber,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Register) Len() int            { return len(r.entries) }
func (r *Register) Clock() Timestamp    { return r.clock }
func (r *Register) MaxTrainNumber() int { return r.maxTrainNumber }

// Add takes ownership of departure. It is anchored to the current service day.
func (r *Register) Add(departure *Departure) error {
	if departure == nil {
		return invalid("departure", "must not be nil")
	}
	if departure.trainNumber > r.maxTrainNumber {
		return invalid("train number", "%d is above the maximum %d", departure.trainNumber, r.maxTrainNumber)
	}
	if _, exists := r.index[departure.trainNumber]; exists {
		return &DuplicateError{TrainNumber: departure.trainNumber}
	}

	e := &entry{departure: departure, day: r.clock.Day}
	r.entries = append(r.entries, e)
	r.index[departure.trainNumber] = e
	return nil
}

// FindByTrainNumber returns a copy of the matching departure.
func (r *Register) FindByTrainNumber(trainNumber int) (Departure, bool) {
	e, ok := r.index[trainNumber]
	if !ok {
		return Departure{}, false
	}
	return *e.departure, true
}

// FindByDestination returns copies of every departure to destination, in register order.
func (r *Register) FindByDestination(destination string) []Departure {
	out := make([]Departure, 0)
	for _, e := range r.entries {
		if e.departure.destination == destination {
			out = append(out, *e.departure)
		}
	}
	return out
}

// Departures returns copies of all departures in register order.
func (r *Register) Departures() []Departure {
	out := make([]Departure, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e.departure)
	}
	return out
}

// SortByEffectiveTime returns a copy ordered by effective departure time.
// Ties keep register order. The register itself is not reordered.
func (r *Register) SortByEffectiveTime() []Departure {
	out := r.Departures()
	slices.SortStableFunc(out, func(a, b Departure) int {
		return int(a.EffectiveDepartureTime()) - int(b.EffectiveDepartureTime())
	})
	return out
}

// SetClock moves the clock forward. Moving it backwards is a ValidationError
// and leaves the clock untouched.
func (r *Register) SetClock(clock Timestamp) error {
	if clock.Time < 0 || clock.Time >= MinutesPerDay {
		return invalid("clock", "%d minutes is outside a day", int(clock.Time))
	}
	if clock.Before(r.clock) {
		return invalid("clock", "%s is before current time %s", clock, r.clock)
	}
	r.clock = clock
	return nil
}

// SetTime moves the clock within the current service day.
func (r *Register) SetTime(t TimeOfDay) error {
	return r.SetClock(Timestamp{Day: r.clock.Day, Time: t})
}

// RollOver moves the clock to t on the next service day.
func (r *Register) RollOver(t TimeOfDay) error {
	return r.SetClock(Timestamp{Day: r.clock.Day + 1, Time: t})
}

// DepartTrains removes and returns every departure whose effective departure
// is before the clock. A departure delayed past midnight stays until the clock
// has crossed midnight too.
func (r *Register) DepartTrains() []Departure {
	now := r.clock.Minutes()

	departed := make([]Departure, 0)
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.effectiveMinutes() < now {
			departed = append(departed, *e.departure)
			delete(r.index, e.departure.trainNumber)
			continue
		}
		kept = append(kept, e)
	}
	clear(r.entries[len(kept):])
	r.entries = kept

	return departed
}

// resolve maps train numbers to entries. Nothing is mutated, so batch
// operations can validate the whole batch before touching any departure.
func (r *Register) resolve(trainNumbers []int) ([]*entry, error) {
	if len(trainNumbers) == 0 {
		return nil, &MembershipError{}
	}

	seen := make(map[int]bool, len(trainNumbers))
	resolved := make([]*entry, 0, len(trainNumbers))
	var missing []int
	for _, n := range trainNumbers {
		if seen[n] {
			return nil, invalid("train numbers", "%d listed more than once", n)
		}
		seen[n] = true

		e, ok := r.index[n]
		if !ok {
			missing = append(missing, n)
			continue
		}
		resolved = append(resolved, e)
	}
	if len(missing) > 0 {
		return nil, &MembershipError{Missing: missing}
	}
	return resolved, nil
}

// DeleteMany removes all listed departures or none of them.
func (r *Register) DeleteMany(trainNumbers []int) (int, error) {
	if _, err := r.resolve(trainNumbers); err != nil {
		return 0, err
	}

	doomed := make(map[int]bool, len(trainNumbers))
	for _, n := range trainNumbers {
		doomed[n] = true
		delete(r.index, n)
	}
	r.entries = slices.DeleteFunc(r.entries, func(e *entry) bool {
		return doomed[e.departure.trainNumber]
	})
	return len(trainNumbers), nil
}

func (r *Register) ChangeTracks(trainNumbers []int, track int) error {
	if track < 0 {
		return invalid("track", "%d is negative", track)
	}
	resolved, err := r.resolve(trainNumbers)
	if err != nil {
		return err
	}

	for _, e := range resolved {
		if err := e.departure.SetTrack(track); err != nil {
			return err
		}
	}
	return nil
}

func (r *Register) AddDelay(trainNumbers []int, minutes int) error {
	if minutes < 0 {
		return invalid("delay", "%d minutes is negative", minutes)
	}
	resolved, err := r.resolve(trainNumbers)
	if err != nil {
		return err
	}
	for _, e := range resolved {
		if err := e.departure.checkAddDelay(minutes); err != nil {
			return err
		}
	}

	for _, e := range resolved {
		if err := e.departure.AddDelay(minutes); err != nil {
			return err
		}
	}
	return nil
}
