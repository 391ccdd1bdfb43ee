package report

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"

	"github.com/breezechen/abstreet/metrics"
)

func sampleComparison() metrics.Comparison {
	return metrics.Comparison{
		Baseline: metrics.PhaseMetrics{
			Trips: map[int64]float64{1: 30, 2: 45},
			Delays: map[string]string{
				"Road #12 (N) -> Road #7 (S)":     "12.3",
				"Road #3 (Fwd) -> Road #4 (Back)": "4.0",
			},
			Throughput: map[string]int64{
				"Road #12 (N) -> Road #7 (S)":     40,
				"Road #3 (Fwd) -> Road #4 (Back)": 12,
			},
		},
		Treatment: metrics.PhaseMetrics{
			Trips: map[int64]float64{1: 20, 2: 50, 3: 10},
			Delays: map[string]string{
				"Road #12 (N) -> Road #7 (S)": "9.8",
				// Only present after the edit; the report shows no row for it.
				"Road #9 (N) -> Road #1 (S)": "2.0",
			},
			Throughput: map[string]int64{
				"Road #12 (N) -> Road #7 (S)": 55,
			},
		},
	}
}

func TestPrintMatchesGolden(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Out: &buf}
	p.Print(sampleComparison())
	golden.Assert(t, buf.String(), "experiment_report.golden")
}

func TestRows(t *testing.T) {
	rows := Rows(sampleComparison())
	require.Len(t, rows, 2, "one row per baseline direction, nothing else")

	assert.Equal(t, Row{
		Direction:        "Road #12 (N) -> Road #7 (S)",
		DelayBefore:      "12.3",
		DelayAfter:       "9.8",
		ThroughputBefore: "40",
		ThroughputAfter:  "55",
	}, rows[0])

	// Missing treatment values render as dashes instead of blowing up.
	assert.Equal(t, Row{
		Direction:        "Road #3 (Fwd) -> Road #4 (Back)",
		DelayBefore:      "4.0",
		DelayAfter:       "-",
		ThroughputBefore: "12",
		ThroughputAfter:  "-",
	}, rows[1])
}

func TestTreatmentOnlyDirectionsProduceNoRow(t *testing.T) {
	var buf bytes.Buffer
	(&Printer{Out: &buf}).Print(sampleComparison())
	assert.NotContains(t, buf.String(), "Road #9")
}

func TestRowsAreSortedByLabel(t *testing.T) {
	c := metrics.Comparison{
		Baseline: metrics.PhaseMetrics{
			Delays: map[string]string{
				"Road #9 (N) -> Road #1 (S)": "3.0",
				"Road #1 (N) -> Road #9 (S)": "1.0",
				"Road #5 (N) -> Road #5 (S)": "2.0",
			},
		},
	}
	rows := Rows(c)
	require.Len(t, rows, 3)
	assert.Equal(t, "Road #1 (N) -> Road #9 (S)", rows[0].Direction)
	assert.Equal(t, "Road #5 (N) -> Road #5 (S)", rows[1].Direction)
	assert.Equal(t, "Road #9 (N) -> Road #1 (S)", rows[2].Direction)
}

func TestPrintColorsVerdicts(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	(&Printer{Out: &buf, Color: true}).Print(sampleComparison())

	// Delta +1 is good news, -5 seconds saved is bad news.
	assert.Contains(t, buf.String(), "\x1b[32m1 more trips finished")
	assert.Contains(t, buf.String(), "\x1b[31mExperiment was -5 seconds faster")
}

func TestPrintWithoutColorStaysPlain(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	(&Printer{Out: &buf, Color: false}).Print(sampleComparison())
	assert.NotContains(t, buf.String(), "\x1b[")
}
