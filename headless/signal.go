package headless

import (
	"encoding/json"
	"fmt"
)

// SignalConfig is a traffic-signal timing plan. The server's schema carries
// more fields than this package models (offsets, movement tables, and
// whatever future versions add), so every record keeps the raw JSON it was
// decoded from and merges typed edits back over it on marshal. A config
// fetched from get-traffic-signal can always be POSTed back unchanged.
type SignalConfig struct {
	Stages []Stage

	extra map[string]json.RawMessage
}

func (c *SignalConfig) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	rawStages, ok := fields["stages"]
	if !ok {
		return errMissingField("traffic signal", "stages")
	}
	var stages []Stage
	if err := json.Unmarshal(rawStages, &stages); err != nil {
		return err
	}
	delete(fields, "stages")
	c.Stages = stages
	c.extra = fields
	return nil
}

func (c SignalConfig) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(c.extra)+1)
	for k, v := range c.extra {
		fields[k] = v
	}
	rawStages, err := json.Marshal(c.Stages)
	if err != nil {
		return nil, err
	}
	fields["stages"] = rawStages
	return json.Marshal(fields)
}

// ID returns the signal's intersection id, or false when the payload
// carried none.
func (c SignalConfig) ID() (int64, bool) {
	raw, ok := c.extra["id"]
	if !ok {
		return 0, false
	}
	var id int64
	if err := json.Unmarshal(raw, &id); err != nil {
		return 0, false
	}
	return id, true
}

// Stage is one stage of a signal plan. Only the stage type is modelled;
// the movement lists and any other fields ride along untouched.
type Stage struct {
	Type StageType

	extra map[string]json.RawMessage
}

func (s *Stage) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	rawType, ok := fields["stage_type"]
	if !ok {
		return errMissingField("signal stage", "stage_type")
	}
	var st StageType
	if err := json.Unmarshal(rawType, &st); err != nil {
		return err
	}
	delete(fields, "stage_type")
	s.Type = st
	s.extra = fields
	return nil
}

func (s Stage) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(s.extra)+1)
	for k, v := range s.extra {
		fields[k] = v
	}
	rawType, err := json.Marshal(s.Type)
	if err != nil {
		return nil, err
	}
	fields["stage_type"] = rawType
	return json.Marshal(fields)
}

// StageType is the tagged variant describing how a stage ends. The wire
// form is a single-key object: {"Fixed": 30} for a fixed duration in
// seconds, or some other variant ({"Variable": [...]} and friends) that
// this package preserves but does not interpret.
type StageType struct {
	variants map[string]json.RawMessage
}

func (t *StageType) UnmarshalJSON(data []byte) error {
	var variants map[string]json.RawMessage
	if err := json.Unmarshal(data, &variants); err != nil {
		return err
	}
	if len(variants) != 1 {
		return fmt.Errorf("stage_type: want exactly one variant, got %d", len(variants))
	}
	if raw, ok := variants["Fixed"]; ok {
		var seconds float64
		if err := json.Unmarshal(raw, &seconds); err != nil {
			return fmt.Errorf("stage_type Fixed: %w", err)
		}
	}
	t.variants = variants
	return nil
}

func (t StageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.variants)
}

// Variant returns the variant name, e.g. "Fixed" or "Variable".
func (t StageType) Variant() string {
	for name := range t.variants {
		return name
	}
	return ""
}

// Fixed returns the fixed duration in seconds, or false when the stage is
// not fixed-time.
func (t StageType) Fixed() (float64, bool) {
	raw, ok := t.variants["Fixed"]
	if !ok {
		return 0, false
	}
	var seconds float64
	if err := json.Unmarshal(raw, &seconds); err != nil {
		return 0, false
	}
	return seconds, true
}

// SetFixed replaces the duration of a fixed-time stage. It reports false,
// changing nothing, when the stage is not fixed-time.
func (t *StageType) SetFixed(seconds float64) bool {
	if _, ok := t.variants["Fixed"]; !ok {
		return false
	}
	raw, err := json.Marshal(seconds)
	if err != nil {
		return false
	}
	t.variants["Fixed"] = raw
	return true
}
