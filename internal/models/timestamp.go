package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// LocalDateTimeLayout is a timestamp without a zone; such values are read as UTC.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

// Timestamp decodes RFC 3339 times as well as zone-less LocalDateTimeLayout ones.
type Timestamp struct {
	time.Time
}

// ParseTimestamp reads s as RFC 3339, falling back to LocalDateTimeLayout in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(LocalDateTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return t, nil
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	ts.Time = t
	return nil
}

func (ts *Timestamp) ptr() *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time
	return &t
}
