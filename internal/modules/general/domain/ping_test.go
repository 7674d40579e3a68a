package domain

import (
	"testing"
	"time"
)

func TestPingResult_LatencyText(t *testing.T) {
	result := NewPingResult(42*time.Millisecond+300*time.Microsecond, 0)

	if got := result.LatencyText(); got != "42 ms" {
		t.Errorf("expected %q, got %q", "42 ms", got)
	}
}

func TestPingResult_UptimeText(t *testing.T) {
	tests := []struct {
		uptime time.Duration
		want   string
	}{
		{0, "0 minutes"},
		{time.Minute, "1 minute"},
		{90 * time.Minute, "1 hour, 30 minutes"},
		{9*24*time.Hour + 5*time.Minute, "1 week, 2 days, 0 hours, 5 minutes"},
		{366 * 24 * time.Hour, "1 year, 0 weeks, 1 day, 0 hours, 0 minutes"},
	}

	for _, tt := range tests {
		result := NewPingResult(0, tt.uptime)
		if got := result.UptimeText(); got != tt.want {
			t.Errorf("UptimeText(%v) = %q, want %q", tt.uptime, got, tt.want)
		}
	}
}
