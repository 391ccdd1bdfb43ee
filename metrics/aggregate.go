// Package metrics turns raw simulation payloads into comparison-ready
// aggregates. Every function is pure and stateless: the same payload always
// produces the same aggregate, and nothing here talks to the network.
package metrics

import (
	"fmt"

	"github.com/breezechen/abstreet/headless"
)

// TripDurations maps each finished trip's id to its duration in seconds.
// Cancelled trips (no duration) are dropped.
func TripDurations(trips []headless.Trip) map[int64]float64 {
	out := make(map[int64]float64, len(trips))
	for _, trip := range trips {
		if trip.Duration != nil {
			out[trip.ID] = *trip.Duration
		}
	}
	return out
}

// MeanDelayPerDirection computes the arithmetic mean delay for each
// vehicular direction, keyed by the canonical direction label and rendered
// with one decimal place. Crosswalk directions and directions with no
// samples are omitted; a mean over zero samples is undefined, not zero.
func MeanDelayPerDirection(entries []headless.DelayEntry) map[string]string {
	out := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.Direction.Crosswalk || len(entry.Samples) == 0 {
			continue
		}
		var sum float64
		for _, sample := range entry.Samples {
			sum += sample
		}
		mean := sum / float64(len(entry.Samples))
		out[entry.Direction.Label()] = fmt.Sprintf("%.1f", mean)
	}
	return out
}

// ThroughputPerDirection maps each vehicular direction's canonical label to
// its cumulative count. Crosswalk directions are omitted. Note the
// asymmetry with MeanDelayPerDirection: zero counts are kept here, and the
// two filters must not be quietly unified.
func ThroughputPerDirection(entries []headless.ThroughputEntry) map[string]int64 {
	out := make(map[string]int64, len(entries))
	for _, entry := range entries {
		if entry.Direction.Crosswalk {
			continue
		}
		out[entry.Direction.Label()] = entry.Count
	}
	return out
}

// PhaseMetrics is one experiment phase reduced to its comparable aggregates.
type PhaseMetrics struct {
	Trips      map[int64]float64 `json:"trips"`
	Delays     map[string]string `json:"delays"`
	Throughput map[string]int64  `json:"throughput"`
}

// AggregatePhase reduces one phase's raw payloads.
func AggregatePhase(trips []headless.Trip, delays []headless.DelayEntry, thruput []headless.ThroughputEntry) PhaseMetrics {
	return PhaseMetrics{
		Trips:      TripDurations(trips),
		Delays:     MeanDelayPerDirection(delays),
		Throughput: ThroughputPerDirection(thruput),
	}
}

// TripCount is the number of finished, non-cancelled trips.
func (p PhaseMetrics) TripCount() int { return len(p.Trips) }

// TotalDuration is the summed duration of all finished trips, in seconds.
func (p PhaseMetrics) TotalDuration() float64 {
	var sum float64
	for _, d := range p.Trips {
		sum += d
	}
	return sum
}
