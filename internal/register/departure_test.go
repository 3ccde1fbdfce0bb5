package register

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeparture(t *testing.T, at TimeOfDay, trainNumber int, destination string, delay time.Duration) *Departure {
	t.Helper()
	d, err := NewDeparture(at, "L1", trainNumber, destination, 1, delay)
	require.NoError(t, err)
	return d
}

func TestNewDepartureValidation(t *testing.T) {
	noon := MustTimeOfDay(12, 0)
	tests := []struct {
		name        string
		line        string
		trainNumber int
		destination string
		track       int
		delay       time.Duration
		field       string
	}{
		{name: "negative delay", line: "L1", trainNumber: 1, destination: "Oslo", delay: -time.Minute, field: "delay"},
		{name: "negative train number", line: "L1", trainNumber: -1, destination: "Oslo", field: "train number"},
		{name: "negative track", line: "L1", trainNumber: 1, destination: "Oslo", track: -2, field: "track"},
		{name: "empty line", line: "", trainNumber: 1, destination: "Oslo", field: "line"},
		{name: "blank destination", line: "L1", trainNumber: 1, destination: "  ", field: "destination"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDeparture(noon, tt.line, tt.trainNumber, tt.destination, tt.track, tt.delay)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestNewDepartureUnassignedTrack(t *testing.T) {
	d, err := NewDeparture(MustTimeOfDay(8, 15), "F4", 42, "Bergen", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Track())
	assert.Equal(t, "08:15", d.DepartureTime().String())
}

func TestAddDelayAccumulates(t *testing.T) {
	d := newTestDeparture(t, MustTimeOfDay(12, 0), 1, "Oslo", 5*time.Minute)

	require.NoError(t, d.AddDelay(10))
	assert.Equal(t, 15*time.Minute, d.Delay())

	require.NoError(t, d.AddDelay(0))
	assert.Equal(t, 15*time.Minute, d.Delay())

	err := d.AddDelay(-1)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 15*time.Minute, d.Delay())
}

func TestSetTrack(t *testing.T) {
	d := newTestDeparture(t, MustTimeOfDay(12, 0), 1, "Oslo", 0)

	require.NoError(t, d.SetTrack(7))
	assert.Equal(t, 7, d.Track())

	var verr *ValidationError
	require.ErrorAs(t, d.SetTrack(-1), &verr)
	assert.Equal(t, 7, d.Track())
}

func TestEffectiveDepartureTime(t *testing.T) {
	t.Run("zero delay equals departure time", func(t *testing.T) {
		d := newTestDeparture(t, MustTimeOfDay(9, 30), 1, "Oslo", 0)
		assert.Equal(t, d.DepartureTime(), d.EffectiveDepartureTime())
		assert.False(t, d.Wrapped())
	})

	t.Run("delay is added", func(t *testing.T) {
		d := newTestDeparture(t, MustTimeOfDay(9, 30), 1, "Oslo", 45*time.Minute)
		assert.Equal(t, MustTimeOfDay(10, 15), d.EffectiveDepartureTime())
		assert.False(t, d.Wrapped())
	})

	t.Run("delay wraps past midnight", func(t *testing.T) {
		d := newTestDeparture(t, MustTimeOfDay(23, 0), 1, "Oslo", 90*time.Minute)
		assert.Equal(t, MustTimeOfDay(0, 30), d.EffectiveDepartureTime())
		assert.True(t, d.Wrapped())
	})

	t.Run("ending exactly at midnight counts as wrapped", func(t *testing.T) {
		d := newTestDeparture(t, MustTimeOfDay(23, 0), 1, "Oslo", time.Hour)
		assert.Equal(t, MustTimeOfDay(0, 0), d.EffectiveDepartureTime())
		assert.True(t, d.Wrapped())
	})
}

func TestDepartureEqualityByTrainNumber(t *testing.T) {
	a := newTestDeparture(t, MustTimeOfDay(9, 0), 7, "Oslo", 0)
	b := newTestDeparture(t, MustTimeOfDay(17, 0), 7, "Trondheim", time.Hour)
	c := newTestDeparture(t, MustTimeOfDay(9, 0), 8, "Oslo", 0)

	assert.True(t, a.Equal(*b))
	assert.False(t, a.Equal(*c))
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("07:05")
	require.NoError(t, err)
	assert.Equal(t, MustTimeOfDay(7, 5), got)

	got, err = ParseTimeOfDay("23:59")
	require.NoError(t, err)
	assert.Equal(t, "23:59", got.String())

	for _, bad := range []string{"", "24:00", "12:60", "noon", "12-30"} {
		_, err := ParseTimeOfDay(bad)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "input %q", bad)
	}
}

func TestDelayIsCapped(t *testing.T) {
	_, err := NewDeparture(MustTimeOfDay(12, 0), "L1", 1, "Oslo", 1, MaxDelay+time.Minute)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "delay", verr.Field)

	d := newTestDeparture(t, MustTimeOfDay(12, 0), 1, "Oslo", 0)

	// would overflow time.Duration if converted unchecked
	require.ErrorAs(t, d.AddDelay(200_000_000), &verr)
	assert.Equal(t, time.Duration(0), d.Delay())
	assert.Equal(t, MustTimeOfDay(12, 0), d.EffectiveDepartureTime())

	require.NoError(t, d.AddDelay(MaxDelayMinutes))
	assert.Equal(t, MaxDelay, d.Delay())

	require.ErrorAs(t, d.AddDelay(1), &verr)
	assert.Equal(t, MaxDelay, d.Delay())
	require.NoError(t, d.AddDelay(0))
}
