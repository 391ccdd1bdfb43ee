// Package headless is a typed client for the headless traffic-simulation
// API. The server owns all simulation state; this package only moves
// requests and strictly-validated payloads across the wire. Dynamic JSON
// never leaks past the decode boundary: every record below checks its
// required fields and fails loudly instead of defaulting.
package headless

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
)

// Trip is one finished (or cancelled) journey. A nil Duration means the
// trip was cancelled; cancelled trips never enter any aggregate.
type Trip struct {
	ID       int64    `json:"id"`
	Duration *float64 `json:"duration"`
}

func (t *Trip) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       *int64   `json:"id"`
		Duration *float64 `json:"duration"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ID == nil {
		return errMissingField("trip", "id")
	}
	t.ID = *raw.ID
	t.Duration = raw.Duration
	return nil
}

// DirectedRoad is one half of a movement: a road plus the direction of
// travel along it.
type DirectedRoad struct {
	ID  int64  `json:"id"`
	Dir string `json:"dir"`
}

func (r *DirectedRoad) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID  *int64  `json:"id"`
		Dir *string `json:"dir"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ID == nil {
		return errMissingField("directed road", "id")
	}
	if raw.Dir == nil {
		return errMissingField("directed road", "dir")
	}
	r.ID = *raw.ID
	r.Dir = *raw.Dir
	return nil
}

func (r DirectedRoad) String() string {
	return fmt.Sprintf("Road #%d (%s)", r.ID, r.Dir)
}

// DirectionKey identifies a directed movement through an intersection. It
// is a comparable value type, so it can key maps directly; Label is the one
// canonical string form shared by every aggregate that joins baseline
// against treatment.
type DirectionKey struct {
	Crosswalk bool         `json:"crosswalk"`
	From      DirectedRoad `json:"from"`
	To        DirectedRoad `json:"to"`
}

func (k *DirectionKey) UnmarshalJSON(data []byte) error {
	var raw struct {
		Crosswalk *bool         `json:"crosswalk"`
		From      *DirectedRoad `json:"from"`
		To        *DirectedRoad `json:"to"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Crosswalk == nil {
		return errMissingField("direction", "crosswalk")
	}
	if raw.From == nil {
		return errMissingField("direction", "from")
	}
	if raw.To == nil {
		return errMissingField("direction", "to")
	}
	k.Crosswalk = *raw.Crosswalk
	k.From = *raw.From
	k.To = *raw.To
	return nil
}

// Label renders the canonical direction label, e.g.
// "Road #12 (N) -> Road #7 (S)".
func (k DirectionKey) Label() string {
	return fmt.Sprintf("%s -> %s", k.From, k.To)
}

// DelayEntry is one (direction, delay samples) pair from the get-delays
// payload. The wire encodes the per-direction map as an array of two-element
// arrays because the key is a composite object.
type DelayEntry struct {
	Direction DirectionKey
	Samples   []float64
}

func (e *DelayEntry) UnmarshalJSON(data []byte) error {
	key, value, err := splitPair(data)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(key, &e.Direction); err != nil {
		return err
	}
	if err := json.Unmarshal(value, &e.Samples); err != nil {
		return fmt.Errorf("delay samples for %s: %w", e.Direction.Label(), err)
	}
	return nil
}

func (e DelayEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Direction, e.Samples})
}

// ThroughputEntry is one (direction, cumulative count) pair from the
// get-cumulative-thruput payload.
type ThroughputEntry struct {
	Direction DirectionKey
	Count     int64
}

func (e *ThroughputEntry) UnmarshalJSON(data []byte) error {
	key, value, err := splitPair(data)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(key, &e.Direction); err != nil {
		return err
	}
	if err := json.Unmarshal(value, &e.Count); err != nil {
		return fmt.Errorf("throughput count for %s: %w", e.Direction.Label(), err)
	}
	return nil
}

func (e ThroughputEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Direction, e.Count})
}

func splitPair(data []byte) (key, value json.RawMessage, err error) {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, nil, err
	}
	if len(pair) != 2 {
		return nil, nil, fmt.Errorf("per_direction entry: want a [key, value] pair, got %d elements", len(pair))
	}
	return pair[0], pair[1], nil
}

// AgentSnapshot is the position of one active agent. A nil VehicleType
// means the agent is a pedestrian.
type AgentSnapshot struct {
	Pos         orb.Point
	VehicleType *string
}

func (a *AgentSnapshot) UnmarshalJSON(data []byte) error {
	var raw struct {
		Pos *struct {
			Longitude *float64 `json:"longitude"`
			Latitude  *float64 `json:"latitude"`
		} `json:"pos"`
		VehicleType *string `json:"vehicle_type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Pos == nil {
		return errMissingField("agent", "pos")
	}
	if raw.Pos.Longitude == nil || raw.Pos.Latitude == nil {
		return errMissingField("agent position", "longitude/latitude")
	}
	a.Pos = orb.Point{*raw.Pos.Longitude, *raw.Pos.Latitude}
	a.VehicleType = raw.VehicleType
	return nil
}

func (a AgentSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"pos": map[string]float64{
			"longitude": a.Pos.Lon(),
			"latitude":  a.Pos.Lat(),
		},
		"vehicle_type": a.VehicleType,
	})
}

// IsPedestrian reports whether this agent is on foot.
func (a AgentSnapshot) IsPedestrian() bool { return a.VehicleType == nil }

// ParseClock parses a simulated clock value in "HH:MM:SS" form. Hours may
// exceed 23: a simulation that runs a day and a half ends at 36:00:00.
func ParseClock(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("clock time %q: want HH:MM:SS", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("clock time %q: want HH:MM:SS", s)
		}
		nums[i] = n
	}
	if nums[1] > 59 || nums[2] > 59 {
		return 0, fmt.Errorf("clock time %q: minutes and seconds must be below 60", s)
	}
	return time.Duration(nums[0])*time.Hour +
		time.Duration(nums[1])*time.Minute +
		time.Duration(nums[2])*time.Second, nil
}

// FormatClock renders a duration since midnight in the "HH:MM:SS" form the
// API expects.
func FormatClock(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
