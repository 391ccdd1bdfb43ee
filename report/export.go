package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/breezechen/abstreet/metrics"
)

// Export is the machine-readable form of a finished experiment: the two
// aggregated phases, their verdict scalars, and the flattened table rows.
type Export struct {
	Comparison         metrics.Comparison `json:"comparison"`
	TripsFinishedDelta int                `json:"trips_finished_delta"`
	TotalTimeSaved     float64            `json:"total_time_saved_seconds"`
	Rows               []Row              `json:"rows"`
}

// NewExport captures everything downstream tooling needs from c.
func NewExport(c metrics.Comparison) Export {
	return Export{
		Comparison:         c,
		TripsFinishedDelta: c.TripsFinishedDelta(),
		TotalTimeSaved:     c.TotalTimeSaved(),
		Rows:               Rows(c),
	}
}

// WriteJSON writes the full export to path, pretty-printed.
func WriteJSON(path string, c metrics.Comparison) error {
	data, err := json.MarshalIndent(NewExport(c), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing results to %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes the per-direction rows to path, followed by the verdict
// scalars as trailing summary records.
func WriteCSV(path string, c metrics.Comparison) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing results to %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"direction", "avg_delay_before", "avg_delay_after", "thruput_before", "thruput_after"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range Rows(c) {
		record := []string{row.Direction, row.DelayBefore, row.DelayAfter, row.ThroughputBefore, row.ThroughputAfter}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	if err := w.Write([]string{"trips_finished_delta", strconv.Itoa(c.TripsFinishedDelta()), "", "", ""}); err != nil {
		return err
	}
	if err := w.Write([]string{"total_time_saved_seconds", strconv.FormatFloat(c.TotalTimeSaved(), 'g', -1, 64), "", "", ""}); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
