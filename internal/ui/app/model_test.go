package app

import (
	"testing"
	"time"
	"unicode/utf8"
)

func TestTruncateCountsRunes(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		in   string
		max  int
		want string
	}{
		{"Development", 20, "Development"},
		{"A very long task name indeed", 10, "A very lo…"},
		{"Kundenprojekt Müller-Lüdenscheidt", 16, "Kundenprojekt M…"},
		{"日本語のタスク名がとても長い場合", 8, "日本語のタスク…"},
	} {
		got := truncate(tc.in, tc.max)
		if got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("truncate(%q, %d) produced invalid UTF-8", tc.in, tc.max)
		}
	}
}

func TestFormatDurationIsClockShaped(t *testing.T) {
	t.Parallel()
	if got := formatDuration(time.Hour + 5*time.Minute + 3*time.Second); got != "01:05:03" {
		t.Fatalf("formatDuration = %q, want 01:05:03", got)
	}
	if got := formatDuration(0); got != "00:00:00" {
		t.Fatalf("formatDuration zero = %q, want 00:00:00", got)
	}
}
