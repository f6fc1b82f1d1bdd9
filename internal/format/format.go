// Package format holds the pure display-formatting helpers shared by the
// dashboard API payloads: relative/absolute timestamps, abbreviated numbers,
// and severity/status display categories.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RelativeTime buckets the elapsed time since t into a short human label.
// The convention is uniform: "just now", "5m ago", "3h ago", "2d ago",
// "1w ago", "4mo ago", "2y ago".
func RelativeTime(t time.Time, now time.Time) string {
	d := now.Sub(t)
	mins := int(d.Minutes())
	hours := int(d.Hours())
	days := int(d.Hours() / 24)

	switch {
	case mins < 1:
		return "just now"
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	case days < 30:
		return fmt.Sprintf("%dw ago", days/7)
	case days < 365:
		return fmt.Sprintf("%dmo ago", days/30)
	default:
		return fmt.Sprintf("%dy ago", days/365)
	}
}

// RelativeTimeString is the fail-closed variant for raw timestamp strings:
// unparseable input is returned unchanged, never an error.
func RelativeTimeString(s string) string {
	t, err := parseTimestamp(s)
	if err != nil {
		return s
	}
	return RelativeTime(t, time.Now())
}

// Number abbreviates large values for card display: 1532 -> "1.5K",
// 2100000 -> "2.1M". Values below 1000 render as plain integers.
func Number(n float64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", n/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", n/1_000)
	default:
		return strconv.FormatInt(int64(n), 10)
	}
}

// Date renders an absolute date ("Jan 2, 2006"). Unparseable input is
// returned unchanged.
func Date(s string) string {
	t, err := parseTimestamp(s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2, 2006")
}

// Time renders an absolute clock time ("03:04 PM"). Unparseable input is
// returned unchanged.
func Time(s string) string {
	t, err := parseTimestamp(s)
	if err != nil {
		return s
	}
	return t.Format("03:04 PM")
}

// Title upper-cases the first letter of a stored lowercase label ("critical"
// -> "Critical") for display.
func Title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Trend is the percent change from previous to current, 0 when there is no
// previous value to compare against.
func Trend(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
