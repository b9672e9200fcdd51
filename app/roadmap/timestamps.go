package roadmap

import (
	"slices"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04 UTC"
)

// ParseTimestamp parses an ISO-8601 timestamp. Empty or malformed input
// yields the zero time, which sorts before every real instant.
func ParseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", DateLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func FormatDate(value string) string {
	t := ParseTimestamp(value)
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func FormatDateTime(value string) string {
	t := ParseTimestamp(value)
	if t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}

// SortByClosedDesc orders initiatives most recently closed first; those
// without a close timestamp go last in their original order.
func SortByClosedDesc(initiatives []*Initiative) {
	slices.SortStableFunc(initiatives, func(a, b *Initiative) int {
		return ParseTimestamp(b.ClosedAt).Compare(ParseTimestamp(a.ClosedAt))
	})
}
