// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// TruncateText cuts s to maxLength runes and appends "..." when it was longer
func TruncateText(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength]) + "..."
}

// GenerateSlug turns text into a lowercase, hyphen-separated URL segment
func GenerateSlug(text string) string {
	s := strings.ToLower(text)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// FormatDate renders t like "January 2, 2006 at 03:04 PM"
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006 at 03:04 PM")
}

// RelativeTime renders t relative to now, e.g. "3 days ago"
func RelativeTime(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatCount renders n with thousands separators
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
