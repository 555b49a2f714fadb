package utils

import (
	"fmt"
	"time"
)

// FormatDuration renders d as 500ms, 1.5s or 1.1m.
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	switch {
	case ms < 1000:
		return fmt.Sprintf("%dms", ms)
	case ms < 60_000:
		return fmt.Sprintf("%.1fs", float64(ms)/1000.0)
	default:
		return fmt.Sprintf("%.1fm", float64(ms)/60_000.0)
	}
}

func IfEmptyElse(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
