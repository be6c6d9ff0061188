package dbx

import (
	"fmt"
	"time"
)

// ParseSQLiteTime parses the textual datetime forms SQLite hands back for
// DATETIME columns (CURRENT_TIMESTAMP, or RFC 3339 when the driver already
// converted the value).
func ParseSQLiteTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
