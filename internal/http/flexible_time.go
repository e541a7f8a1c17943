package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Formatos aceptados para fechas de gastos. Sin zona horaria se asume UTC.
var flexibleTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

type flexibleTime struct {
	time.Time
}

func (t *flexibleTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := parseFlexibleTime(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func parseFlexibleTime(raw string) (time.Time, error) {
	for _, layout := range flexibleTimeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", raw)
}
