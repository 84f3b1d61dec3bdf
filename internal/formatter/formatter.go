// package formatter renders durations, counts, and dates for display and
// exports playlist data to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// FormatDuration converts an ISO 8601 duration ("PT1H2M3S") to a clock-style
// string. The hour segment appears only when present: "1:02:03", "5:00".
//
// Empty or malformed input renders as "0:00".
func FormatDuration(iso string) string {
	match := durationPattern.FindStringSubmatch(iso)
	if match == nil {
		return "0:00"
	}

	hours := segment(match[1])
	minutes := segment(match[2])
	seconds := segment(match[3])

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// segment parses one duration capture group, treating an absent group as zero.
func segment(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// FormatCount renders an integer with comma-grouped thousands: 1234567 -> "1,234,567".
func FormatCount(n int64) string {
	s := strconv.FormatInt(n, 10)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	var groups []string
	for len(s) > 3 {
		groups = append([]string{s[len(s)-3:]}, groups...)
		s = s[:len(s)-3]
	}
	groups = append([]string{s}, groups...)

	return sign + strings.Join(groups, ",")
}

// FormatDate renders a timestamp as "Jan 2, 2006". The zero time renders as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// FormatPublishedAt renders an RFC 3339 timestamp string as "Jan 2, 2006".
//
// Unparseable input renders as "".
func FormatPublishedAt(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return ""
	}
	return FormatDate(t)
}
