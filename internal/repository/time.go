package repository

import "time"

// SQLite has no native time type, so session and settings timestamps are
// stored as RFC3339Nano strings. Rows written without sub-second precision
// still parse under plain RFC3339, so reads accept both layouts.
var timeLayouts = [...]string{time.RFC3339Nano, time.RFC3339}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}
