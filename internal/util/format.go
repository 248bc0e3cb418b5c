package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// TruncateString truncates s to at most maxWidth terminal cells and adds an
// ellipsis if anything was cut.
func TruncateString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, ellipsis)
}

// ClipString cuts s to maxWidth terminal cells without a marker.
func ClipString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "")
}

// Prefix returns the first n characters of s.
func Prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// FormatCount formats an integer with thousands separators.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// FormatRelative returns a humanized "3 days ago" form of an epoch
// millisecond timestamp.
func FormatRelative(ms int64) string {
	return humanize.Time(time.UnixMilli(ms))
}

// NowMillis returns the current time in epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// FormatIntList joins ids with sep.
func FormatIntList(ids []int, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, sep)
}

// ParseIntList parses user input like "0, 1 2" into ids. Empty input
// yields an empty list.
func ParseIntList(input string) ([]int, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '、' || r == '\t'
	})
	ids := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid partition id %q", f)
		}
		ids = append(ids, n)
	}
	return ids, nil
}
