// Package util holds small display helpers shared by the command-line tools.
package util //nolint:revive // package name util hosts shared formatting helpers

import "time"

// FormatDueIn renders how far due lies from now, truncated to minutes.
// Past due times are reported as overdue.
func FormatDueIn(due, now time.Time) string {
	if due.IsZero() {
		return "-"
	}
	d := due.Sub(now).Truncate(time.Minute)
	switch {
	case d == 0:
		return "now"
	case d < 0:
		return "overdue " + (-d).String()
	default:
		return "in " + d.String()
	}
}
