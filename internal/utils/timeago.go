package utils

import (
	"fmt"
	"time"
)

// FormatTimeAgo renders a timestamp as a relative phrase for the
// alert feed ("3 hours ago", "Just now"). Timestamps older than a
// week show the month and day instead.
func FormatTimeAgo(t time.Time) string {
	return formatTimeAgoAt(t, time.Now())
}

func formatTimeAgoAt(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff > 7*24*time.Hour:
		return t.Format("Jan 02")
	case diff >= 24*time.Hour:
		days := int(diff.Hours()) / 24
		return fmt.Sprintf("%d %s ago", days, pluralize("day", days))
	case diff >= time.Hour:
		hours := int(diff.Hours())
		return fmt.Sprintf("%d %s ago", hours, pluralize("hour", hours))
	case diff >= time.Minute:
		minutes := int(diff.Minutes())
		return fmt.Sprintf("%d %s ago", minutes, pluralize("minute", minutes))
	default:
		return "Just now"
	}
}

func pluralize(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
