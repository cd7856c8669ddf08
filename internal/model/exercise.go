package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Exercise struct {
	ID            int           `json:"id"`
	MuscleGroup   string        `json:"muscle_group"`
	Exercise      string        `json:"exercise"`
	CurrentWeight *float64      `json:"current_weight,omitempty"`
	WeightHistory []WeightEntry `json:"weight_history"`
}

// Latest returns the most recent weight entry. The history is kept most-recent-first.
func (e Exercise) Latest() (WeightEntry, bool) {
	if len(e.WeightHistory) == 0 {
		return WeightEntry{}, false
	}
	return e.WeightHistory[0], true
}

type WeightEntry struct {
	ID         int       `json:"id,omitempty"`
	ExerciseID int       `json:"exercise_id,omitempty"`
	Weight     float64   `json:"weight"`
	CreatedAt  Timestamp `json:"created_at"`
	UpdatedAt  Timestamp `json:"updated_at"`
}

type CreateExercise struct {
	MuscleGroup   string  `json:"muscle_group"`
	Exercise      string  `json:"exercise"`
	InitialWeight float64 `json:"initial_weight"`
}

type UpdateExercise struct {
	MuscleGroup string `json:"muscle_group"`
	Exercise    string `json:"exercise"`
}

type NewWeightEntry struct {
	Weight float64 `json:"weight"`
}

// ErrorBody is the error payload of the weights API. Detail may hold any JSON value.
type ErrorBody struct {
	Detail  json.RawMessage `json:"detail,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Text returns detail if present, message otherwise.
func (b ErrorBody) Text() string {
	detail := bytes.TrimSpace(b.Detail)
	if len(detail) > 0 && !bytes.Equal(detail, []byte("null")) {
		var s string
		if err := json.Unmarshal(detail, &s); err == nil {
			if s != "" {
				return s
			}
		} else {
			return string(detail)
		}
	}
	return b.Message
}

// zone-less layout used by some ISO 8601 producers
const naiveLayout = "2006-01-02T15:04:05.999999999"

// Timestamp is an ISO 8601 instant. Values without a zone are taken as UTC.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Time.Format(time.RFC3339Nano))
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		ts.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		ts.Time = t
		return nil
	}

	t, err := time.ParseInLocation(naiveLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("timestamp [%s]: %w", s, err)
	}
	ts.Time = t
	return nil
}
