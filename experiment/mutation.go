package experiment

import (
	"fmt"

	"github.com/breezechen/abstreet/headless"
)

// StageMutation is the single edit an experiment tests, applied in place to
// a freshly fetched signal plan. Implementations must be pure transforms of
// the config: no I/O, no dependence on anything but the plan itself. The
// runner owns when (and how often) a mutation runs.
type StageMutation func(cfg *headless.SignalConfig) error

// ScaleStage multiplies the fixed duration of the stage at index by factor.
func ScaleStage(index int, factor float64) StageMutation {
	return func(cfg *headless.SignalConfig) error {
		if factor <= 0 {
			return fmt.Errorf("scale factor must be positive, got %g", factor)
		}
		stage, err := fixedStage(cfg, index)
		if err != nil {
			return err
		}
		d, _ := stage.Fixed()
		stage.SetFixed(d * factor)
		return nil
	}
}

// DoubleStage doubles the fixed duration of the stage at index.
func DoubleStage(index int) StageMutation {
	return ScaleStage(index, 2)
}

// SetStageDuration replaces the fixed duration of the stage at index with
// an absolute value in seconds.
func SetStageDuration(index int, seconds float64) StageMutation {
	return func(cfg *headless.SignalConfig) error {
		if seconds <= 0 {
			return fmt.Errorf("stage duration must be positive, got %g", seconds)
		}
		stage, err := fixedStage(cfg, index)
		if err != nil {
			return err
		}
		stage.SetFixed(seconds)
		return nil
	}
}

func fixedStage(cfg *headless.SignalConfig, index int) (*headless.StageType, error) {
	if index < 0 || index >= len(cfg.Stages) {
		return nil, fmt.Errorf("signal has %d stages, no stage %d", len(cfg.Stages), index)
	}
	st := &cfg.Stages[index].Type
	if _, ok := st.Fixed(); !ok {
		return nil, fmt.Errorf("stage %d is %s, not fixed-time", index, st.Variant())
	}
	return st, nil
}
