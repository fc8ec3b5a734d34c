package util

import (
	"math"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KiB"},
		{1536, "1.50 KiB"},
		{1048576, "1.00 MiB"},
		{5242880, "5.00 MiB"},
		{1073741824, "1.00 GiB"},
		{1610612736, "1.50 GiB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.bytes); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{3599, "00:59:59"},
		{3600, "01:00:00"},
		{7325, "02:02:05"},
		{90.7, "00:01:30"},
		{-1, "??:??:??"},
		{math.NaN(), "??:??:??"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatKbps(t *testing.T) {
	tests := []struct {
		kbps float64
		want string
	}{
		{0, "unknown"},
		{-100, "unknown"},
		{1500, "1500 kbps"},
		{847.6, "848 kbps"},
	}

	for _, tt := range tests {
		if got := FormatKbps(tt.kbps); got != tt.want {
			t.Errorf("FormatKbps(%v) = %q, want %q", tt.kbps, got, tt.want)
		}
	}
}
