package commands

import (
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breezechen/abstreet/headless"
)

// scratchCmd carries just the flags experimentMutation inspects.
func scratchCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "scratch"}
	cmd.Flags().Float64("scale", 2.0, "")
	cmd.Flags().Float64("set-duration", 0, "")
	return cmd
}

func testConfig(t *testing.T) *headless.SignalConfig {
	t.Helper()
	var cfg headless.SignalConfig
	require.NoError(t, json.Unmarshal([]byte(
		`{"id": 67, "stages": [{"stage_type": {"Fixed": 30}}, {"stage_type": {"Fixed": 45}}]}`,
	), &cfg))
	return &cfg
}

func TestExperimentMutationDefaultsToScaling(t *testing.T) {
	experimentStage = 1
	experimentScale = 2

	mutate, what, err := experimentMutation(scratchCmd())
	require.NoError(t, err)
	assert.Equal(t, "scale fixed duration by 2", what)

	cfg := testConfig(t)
	require.NoError(t, mutate(cfg))
	d, _ := cfg.Stages[1].Type.Fixed()
	assert.Equal(t, 90.0, d)
}

func TestExperimentMutationSetDuration(t *testing.T) {
	experimentStage = 0
	experimentDuration = 40

	cmd := scratchCmd()
	require.NoError(t, cmd.Flags().Set("set-duration", "40"))

	mutate, what, err := experimentMutation(cmd)
	require.NoError(t, err)
	assert.Equal(t, "set fixed duration to 40s", what)

	cfg := testConfig(t)
	require.NoError(t, mutate(cfg))
	d, _ := cfg.Stages[0].Type.Fixed()
	assert.Equal(t, 40.0, d)
}

func TestExperimentMutationExclusiveFlags(t *testing.T) {
	cmd := scratchCmd()
	require.NoError(t, cmd.Flags().Set("scale", "1.5"))
	require.NoError(t, cmd.Flags().Set("set-duration", "40"))

	_, _, err := experimentMutation(cmd)
	assert.Error(t, err)
}
