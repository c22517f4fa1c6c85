// Package timeutil provides time formatting utilities for CLI output.
package timeutil

import (
	"fmt"
	"time"
)

// LocalTimeFormat is the format used for displaying local times in CLI output.
const LocalTimeFormat = "2006-01-02 15:04:05"

// FormatDuration renders d compactly: "1h 2m 3s", "2m 3s", "3.2s" or "450ms".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

// FormatTime renders t in local time, or "-" for the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(LocalTimeFormat)
}

// FormatAge renders how long ago t was relative to now: "just now", "5m ago",
// "3h ago", "2d ago".
func FormatAge(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours())/24)
	}
}
