package crawler

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1:23:45", "PT1H23M45S"},
		{"4:13", "PT4M13S"},
		{"42", "PT42S"},
		{"PT5M10S", "PT5M10S"},
		{"", "PT0S"},
		{"not a duration", "PT0S"},
		{"1:xx:45", "PT0S"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%q) = %q, want %q", tt.in, tt.want, got)
		}
	}
}

func TestParseRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2 ngày trước", now.AddDate(0, 0, -2)},
		{"30 giây trước", now.Add(-30 * time.Second)},
		{"5 phút trước", now.Add(-5 * time.Minute)},
		{"12 giờ trước", now.Add(-12 * time.Hour)},
		{"3 tuần trước", now.AddDate(0, 0, -21)},
		{"6 tháng trước", now.AddDate(0, -6, 0)},
		{"1 năm trước", now.AddDate(-1, 0, 0)},
	}
	for _, tt := range tests {
		got := parseRelativeTime(tt.in, now)
		if diff := got.Sub(tt.want); diff > time.Second || diff < -time.Second {
			t.Errorf("parseRelativeTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseRelativeTime_UnrecognizedReturnsNow(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	for _, in := range []string{"", "Premiered yesterday", "???"} {
		if got := parseRelativeTime(in, now); !got.Equal(now) {
			t.Errorf("parseRelativeTime(%q) = %v, want now unchanged", in, got)
		}
	}
}

func TestDigitsOnly(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1,2 N lượt xem", "12"},
		{"1.234.567 lượt xem", "1234567"},
		{"0 lượt xem", "0"},
		{"lượt xem", "0"},
		{"", "0"},
	}
	for _, tt := range tests {
		if got := digitsOnly(tt.in); got != tt.want {
			t.Errorf("digitsOnly(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
