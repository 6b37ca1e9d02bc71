package ui

import (
	"testing"
	"time"
)

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		name string
		in   int64 // seconds
		want string
	}{
		{"negative", -5, "now"},
		{"subsecond", 0, "now"},
		{"seconds", 12, "12s ago"},
		{"minutes", 61, "1m ago"},
		{"hours", 2*60*60 + 10, "2h ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := humanizeDuration(time.Duration(tc.in) * time.Second)
			if got != tc.want {
				t.Fatalf("humanizeDuration(%d) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Germany", 10); got != "Germany" {
		t.Fatalf("truncate short = %q, want Germany", got)
	}
	if got := truncate("South Georgia and the South Sandwich Islands", 10); got != "South Geo…" {
		t.Fatalf("truncate long = %q, want %q", got, "South Geo…")
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=3 = %q, want ab", got)
	}
	got := truncateMiddle("/home/user/.local/share/atlas/atlas.log", 16)
	if len([]rune(got)) != 16 {
		t.Fatalf("got %q (%d runes), want 16", got, len([]rune(got)))
	}
	if got[:7] != "/home/u" {
		t.Fatalf("got %q, want it to keep the prefix", got)
	}
}

func TestPadMeasuresDisplayWidth(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q, want %q", got, "ab  ")
	}
	if got := padLeft("12", 4); got != "  12" {
		t.Fatalf("padLeft = %q, want %q", got, "  12")
	}
	if got := padRight("toolong", 3); got != "toolong" {
		t.Fatalf("padRight overflow = %q, want unchanged", got)
	}
}

func TestClampCursor(t *testing.T) {
	cases := []struct{ cursor, count, want int }{
		{0, 0, 0},
		{-1, 5, 0},
		{3, 5, 3},
		{9, 5, 4},
	}
	for _, tc := range cases {
		if got := clampCursor(tc.cursor, tc.count); got != tc.want {
			t.Fatalf("clampCursor(%d, %d) = %d, want %d", tc.cursor, tc.count, got, tc.want)
		}
	}
}
