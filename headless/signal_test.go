package headless

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A trimmed-down signal document with the fields this package interprets
// plus several it must carry through untouched.
const signalDoc = `{
	"id": 67,
	"offset": 12,
	"stages": [
		{
			"stage_type": {"Fixed": 30},
			"protected_movements": [{"from": 1, "to": 2}],
			"yield_movements": []
		},
		{
			"stage_type": {"Fixed": 45},
			"protected_movements": [{"from": 3, "to": 4}],
			"yield_movements": [{"from": 5, "to": 6}]
		},
		{
			"stage_type": {"Variable": [10, 5, 3]},
			"protected_movements": [],
			"yield_movements": []
		}
	]
}`

func TestSignalRoundTripPreservesUnknownFields(t *testing.T) {
	var cfg SignalConfig
	require.NoError(t, json.Unmarshal([]byte(signalDoc), &cfg))

	out, err := json.Marshal(cfg)
	require.NoError(t, err)

	// The server requires the full document back on update; nothing may be
	// dropped or reshaped.
	assert.JSONEq(t, signalDoc, string(out))
}

func TestSignalStages(t *testing.T) {
	var cfg SignalConfig
	require.NoError(t, json.Unmarshal([]byte(signalDoc), &cfg))
	require.Len(t, cfg.Stages, 3)

	id, ok := cfg.ID()
	require.True(t, ok)
	assert.Equal(t, int64(67), id)

	d, ok := cfg.Stages[0].Type.Fixed()
	require.True(t, ok)
	assert.Equal(t, 30.0, d)
	assert.Equal(t, "Fixed", cfg.Stages[0].Type.Variant())

	_, ok = cfg.Stages[2].Type.Fixed()
	assert.False(t, ok, "a Variable stage has no fixed duration")
	assert.Equal(t, "Variable", cfg.Stages[2].Type.Variant())
}

func TestSetFixed(t *testing.T) {
	var cfg SignalConfig
	require.NoError(t, json.Unmarshal([]byte(signalDoc), &cfg))

	require.True(t, cfg.Stages[1].Type.SetFixed(90))
	d, ok := cfg.Stages[1].Type.Fixed()
	require.True(t, ok)
	assert.Equal(t, 90.0, d)

	// Updating a non-fixed stage is refused, not silently converted.
	assert.False(t, cfg.Stages[2].Type.SetFixed(90))
	assert.Equal(t, "Variable", cfg.Stages[2].Type.Variant())

	// The edit survives a marshal.
	out, err := json.Marshal(cfg)
	require.NoError(t, err)
	var back SignalConfig
	require.NoError(t, json.Unmarshal(out, &back))
	d, ok = back.Stages[1].Type.Fixed()
	require.True(t, ok)
	assert.Equal(t, 90.0, d)
}

func TestSignalDecodingErrors(t *testing.T) {
	cases := map[string]string{
		"no stages":         `{"id": 1}`,
		"no stage_type":     `{"id": 1, "stages": [{"protected_movements": []}]}`,
		"two variants":      `{"id": 1, "stages": [{"stage_type": {"Fixed": 30, "Variable": []}}]}`,
		"empty variant":     `{"id": 1, "stages": [{"stage_type": {}}]}`,
		"non-numeric Fixed": `{"id": 1, "stages": [{"stage_type": {"Fixed": "soon"}}]}`,
	}
	for name, doc := range cases {
		var cfg SignalConfig
		if err := json.Unmarshal([]byte(doc), &cfg); err == nil {
			t.Errorf("%s: expected a decode error", name)
		}
	}
}

func TestSignalIDAbsent(t *testing.T) {
	var cfg SignalConfig
	require.NoError(t, json.Unmarshal([]byte(`{"stages": []}`), &cfg))
	_, ok := cfg.ID()
	assert.False(t, ok)
}
