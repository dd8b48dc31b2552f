package ports

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"courierquest/internal/domain/city"
)

// DataSource tags where provider data actually came from, so callers
// branch on the result instead of catching failures.
type DataSource string

const (
	SourceRemote    DataSource = "remote"
	SourceCache     DataSource = "cache"
	SourceGenerated DataSource = "generated"
)

type MapResult struct {
	Map    city.Map
	Source DataSource
}

type JobsResult struct {
	Jobs   []JobDescriptor
	Source DataSource
}

// CityProvider supplies the initial world data. Implementations must
// resolve their own fallbacks; a returned error is fatal to startup.
type CityProvider interface {
	FetchMap(ctx context.Context) (MapResult, error)
	FetchJobs(ctx context.Context) (JobsResult, error)
}

// JobDescriptor is the tagged variant of one wire-format job entry:
// either a bare identifier string or a structured payload. Exactly one
// of Ref/Payload is set.
type JobDescriptor struct {
	Ref     string
	Payload *JobPayload
}

// JobPayload is the structured job shape. Every field is optional on
// the wire; ingestion synthesizes whatever is missing.
type JobPayload struct {
	ID       string  `json:"id"`
	Payout   int     `json:"payout"`
	PickupX  *int    `json:"pickup_x,omitempty"`
	PickupY  *int    `json:"pickup_y,omitempty"`
	DropoffX *int    `json:"dropoff_x,omitempty"`
	DropoffY *int    `json:"dropoff_y,omitempty"`
	Priority *int    `json:"priority,omitempty"`
	Weight   *int    `json:"weight,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

func (d *JobDescriptor) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		return json.Unmarshal(data, &d.Ref)
	}

	var raw struct {
		ID       string          `json:"id"`
		Payout   json.RawMessage `json:"payout"`
		Salary   json.RawMessage `json:"salary"`
		PickupX  *int            `json:"pickup_x"`
		PickupY  *int            `json:"pickup_y"`
		DropoffX *int            `json:"dropoff_x"`
		DropoffY *int            `json:"dropoff_y"`
		Priority *int            `json:"priority"`
		Weight   *int            `json:"weight"`
		Duration float64         `json:"duration"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	payload := JobPayload{
		ID:       raw.ID,
		PickupX:  raw.PickupX,
		PickupY:  raw.PickupY,
		DropoffX: raw.DropoffX,
		DropoffY: raw.DropoffY,
		Priority: raw.Priority,
		Weight:   raw.Weight,
		Duration: raw.Duration,
	}
	// Some feeds call the payout "salary" and some quote the number.
	payload.Payout = parseMoney(raw.Payout)
	if payload.Payout == 0 {
		payload.Payout = parseMoney(raw.Salary)
	}
	d.Payload = &payload
	return nil
}

func parseMoney(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	s = strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}
