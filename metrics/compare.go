package metrics

// Comparison pairs the two phases of one experiment.
type Comparison struct {
	Baseline  PhaseMetrics `json:"baseline"`
	Treatment PhaseMetrics `json:"treatment"`
}

// TripsFinishedDelta is how many more trips finished under the treatment
// than under the baseline. Higher is better.
func (c Comparison) TripsFinishedDelta() int {
	return c.Treatment.TripCount() - c.Baseline.TripCount()
}

// TotalTimeSaved is the baseline's total trip time minus the treatment's,
// in seconds. Positive means the treatment was faster over all trips.
func (c Comparison) TotalTimeSaved() float64 {
	return c.Baseline.TotalDuration() - c.Treatment.TotalDuration()
}
