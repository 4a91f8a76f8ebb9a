package common

import (
	"fmt"
	"time"
)

// FormatTimeAgo formats t relative to now.
func FormatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		if mins := int(diff.Minutes()); mins != 1 {
			return fmt.Sprintf("%d minutes ago", mins)
		}
		return "1 minute ago"
	case diff < 24*time.Hour:
		if hours := int(diff.Hours()); hours != 1 {
			return fmt.Sprintf("%d hours ago", hours)
		}
		return "1 hour ago"
	}
	return t.Local().Format("Jan 2, 15:04")
}

// FormatDuration formats d for run tables.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

// StatusClass maps a run status to its badge class.
func StatusClass(status string) string {
	switch status {
	case "success":
		return "status--success"
	case "failed":
		return "status--failed"
	case "cancelled":
		return "status--cancelled"
	case "running":
		return "status--running"
	}
	return ""
}
