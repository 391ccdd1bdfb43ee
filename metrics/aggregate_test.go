package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breezechen/abstreet/headless"
)

func seconds(d float64) *float64 { return &d }

func direction(fromID, toID int64) headless.DirectionKey {
	return headless.DirectionKey{
		From: headless.DirectedRoad{ID: fromID, Dir: "N"},
		To:   headless.DirectedRoad{ID: toID, Dir: "S"},
	}
}

func crosswalk(fromID, toID int64) headless.DirectionKey {
	k := direction(fromID, toID)
	k.Crosswalk = true
	return k
}

func TestTripDurations(t *testing.T) {
	trips := []headless.Trip{
		{ID: 1, Duration: seconds(30)},
		{ID: 2, Duration: nil},
		{ID: 3, Duration: seconds(0)},
	}
	got := TripDurations(trips)

	// A trip is present iff it has a duration, and the value is kept
	// exactly. Zero is a real duration, not a missing one.
	require.Len(t, got, 2)
	assert.Equal(t, 30.0, got[1])
	assert.Equal(t, 0.0, got[3])
	_, cancelled := got[2]
	assert.False(t, cancelled)
}

func TestMeanDelayPerDirection(t *testing.T) {
	entries := []headless.DelayEntry{
		{Direction: direction(12, 7), Samples: []float64{10, 20, 30}},
		{Direction: direction(3, 4), Samples: []float64{1}},
		{Direction: direction(5, 6), Samples: nil},
		{Direction: crosswalk(12, 7), Samples: []float64{99, 99}},
	}
	got := MeanDelayPerDirection(entries)

	require.Len(t, got, 2)
	assert.Equal(t, "20.0", got["Road #12 (N) -> Road #7 (S)"])
	assert.Equal(t, "1.0", got["Road #3 (N) -> Road #4 (S)"])

	// No sample sequence, no mean.
	_, ok := got["Road #5 (N) -> Road #6 (S)"]
	assert.False(t, ok)
}

func TestMeanDelayRounding(t *testing.T) {
	entries := []headless.DelayEntry{
		{Direction: direction(1, 2), Samples: []float64{1, 2}},
		{Direction: direction(3, 4), Samples: []float64{0.04, 0.04}},
	}
	got := MeanDelayPerDirection(entries)
	assert.Equal(t, "1.5", got["Road #1 (N) -> Road #2 (S)"])
	assert.Equal(t, "0.0", got["Road #3 (N) -> Road #4 (S)"])
}

func TestThroughputPerDirection(t *testing.T) {
	entries := []headless.ThroughputEntry{
		{Direction: direction(12, 7), Count: 40},
		{Direction: direction(3, 4), Count: 0},
		{Direction: crosswalk(12, 7), Count: 500},
	}
	got := ThroughputPerDirection(entries)

	require.Len(t, got, 2)
	assert.Equal(t, int64(40), got["Road #12 (N) -> Road #7 (S)"])

	// Zero counts survive; only the delay aggregate drops empties.
	count, ok := got["Road #3 (N) -> Road #4 (S)"]
	require.True(t, ok)
	assert.Equal(t, int64(0), count)
}

func TestCrosswalksNeverAggregated(t *testing.T) {
	delays := MeanDelayPerDirection([]headless.DelayEntry{
		{Direction: crosswalk(1, 2), Samples: []float64{5, 5, 5}},
	})
	assert.Empty(t, delays)

	thruput := ThroughputPerDirection([]headless.ThroughputEntry{
		{Direction: crosswalk(1, 2), Count: 12},
	})
	assert.Empty(t, thruput)
}

func TestAggregatePhase(t *testing.T) {
	phase := AggregatePhase(
		[]headless.Trip{{ID: 1, Duration: seconds(30)}, {ID: 2, Duration: nil}},
		[]headless.DelayEntry{{Direction: direction(1, 2), Samples: []float64{4, 6}}},
		[]headless.ThroughputEntry{{Direction: direction(1, 2), Count: 9}},
	)

	assert.Equal(t, 1, phase.TripCount())
	assert.Equal(t, 30.0, phase.TotalDuration())
	assert.Equal(t, map[string]string{"Road #1 (N) -> Road #2 (S)": "5.0"}, phase.Delays)
	assert.Equal(t, map[string]int64{"Road #1 (N) -> Road #2 (S)": 9}, phase.Throughput)
}

func TestComparisonScalars(t *testing.T) {
	c := Comparison{
		Baseline:  PhaseMetrics{Trips: map[int64]float64{1: 30, 2: 45}},
		Treatment: PhaseMetrics{Trips: map[int64]float64{1: 20, 2: 50, 3: 10}},
	}

	assert.Equal(t, 1, c.TripsFinishedDelta())
	// (30+45) - (20+50+10): the treatment finished one more trip but spent
	// 5 more seconds overall.
	assert.Equal(t, -5.0, c.TotalTimeSaved())
}
