// Package experiment orchestrates a controlled before/after comparison
// against a live headless simulation: run the unedited world, apply one
// signal-timing edit, run the same span again, and hand both phases' raw
// payloads to the metrics layer. The simulation itself is the only mutable
// state, and it is assumed to have no other clients for the duration of a
// run.
package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/breezechen/abstreet/headless"
	"github.com/breezechen/abstreet/metrics"
)

// StartOfDay is the window start used when querying per-direction delays.
const StartOfDay = "00:00:00"

// RawPhase is one phase's payloads, untransformed.
type RawPhase struct {
	Trips      []headless.Trip
	Delays     []headless.DelayEntry
	Throughput []headless.ThroughputEntry
}

// Aggregate reduces the phase to its comparable metrics.
func (p RawPhase) Aggregate() metrics.PhaseMetrics {
	return metrics.AggregatePhase(p.Trips, p.Delays, p.Throughput)
}

// Runner drives the two-phase protocol against one signal. Each step must
// complete before the next begins; any failure aborts the run and leaves
// the simulation wherever the last successful step put it, with no
// rollback.
type Runner struct {
	Client *headless.Client

	// SignalID is the intersection under study.
	SignalID int64

	// Until is how far to advance each phase, as "HH:MM:SS". Both phases
	// use the same target so the comparison is time-aligned.
	Until string

	// Mutate is the single edit under test, applied to the plan fetched at
	// the end of the baseline phase.
	Mutate StageMutation
}

// Run executes both phases and returns their raw payloads.
//
// Ordering constraint: reset discards applied edits, so the mutated plan
// must be posted after the treatment-phase reset, never before. Posting
// first silently loses the edit and compares baseline against baseline.
// Both phases advance to the same target time.
func (r *Runner) Run(ctx context.Context) (baseline, treatment RawPhase, err error) {
	if err := r.validate(); err != nil {
		return RawPhase{}, RawPhase{}, err
	}

	if _, err := r.Client.Reset(ctx); err != nil {
		return RawPhase{}, RawPhase{}, fmt.Errorf("resetting before baseline: %w", err)
	}
	slog.Info("Simulating baseline phase", "signal", r.SignalID, "until", r.Until)
	if _, err := r.Client.GotoTime(ctx, r.Until); err != nil {
		return RawPhase{}, RawPhase{}, fmt.Errorf("advancing baseline to %s: %w", r.Until, err)
	}
	baseline, err = r.collect(ctx)
	if err != nil {
		return RawPhase{}, RawPhase{}, fmt.Errorf("collecting baseline data: %w", err)
	}

	cfg, err := r.Client.Signal(ctx, r.SignalID)
	if err != nil {
		return RawPhase{}, RawPhase{}, fmt.Errorf("fetching signal %d: %w", r.SignalID, err)
	}
	if err := r.Mutate(cfg); err != nil {
		return RawPhase{}, RawPhase{}, fmt.Errorf("mutating signal %d: %w", r.SignalID, err)
	}

	if _, err := r.Client.Reset(ctx); err != nil {
		return RawPhase{}, RawPhase{}, fmt.Errorf("resetting before treatment: %w", err)
	}
	if _, err := r.Client.SetSignal(ctx, cfg); err != nil {
		return RawPhase{}, RawPhase{}, fmt.Errorf("applying edit to signal %d: %w", r.SignalID, err)
	}
	slog.Info("Simulating treatment phase", "signal", r.SignalID, "until", r.Until)
	if _, err := r.Client.GotoTime(ctx, r.Until); err != nil {
		return RawPhase{}, RawPhase{}, fmt.Errorf("advancing treatment to %s: %w", r.Until, err)
	}
	treatment, err = r.collect(ctx)
	if err != nil {
		return RawPhase{}, RawPhase{}, fmt.Errorf("collecting treatment data: %w", err)
	}

	return baseline, treatment, nil
}

// RunComparison executes both phases and aggregates them.
func (r *Runner) RunComparison(ctx context.Context) (metrics.Comparison, error) {
	baseline, treatment, err := r.Run(ctx)
	if err != nil {
		return metrics.Comparison{}, err
	}
	return metrics.Comparison{
		Baseline:  baseline.Aggregate(),
		Treatment: treatment.Aggregate(),
	}, nil
}

func (r *Runner) validate() error {
	if r.Client == nil {
		return fmt.Errorf("experiment: no client configured")
	}
	if r.Mutate == nil {
		return fmt.Errorf("experiment: no mutation configured")
	}
	if _, err := headless.ParseClock(r.Until); err != nil {
		return fmt.Errorf("experiment: bad target time: %w", err)
	}
	return nil
}

func (r *Runner) collect(ctx context.Context) (RawPhase, error) {
	trips, err := r.Client.FinishedTrips(ctx)
	if err != nil {
		return RawPhase{}, err
	}
	delays, err := r.Client.Delays(ctx, r.SignalID, StartOfDay, r.Until)
	if err != nil {
		return RawPhase{}, err
	}
	thruput, err := r.Client.CumulativeThroughput(ctx, r.SignalID)
	if err != nil {
		return RawPhase{}, err
	}
	return RawPhase{Trips: trips, Delays: delays, Throughput: thruput}, nil
}
