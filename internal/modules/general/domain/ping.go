package domain

import (
	"fmt"
	"strings"
	"time"
)

// PingResult is the connection status reported by the ping command.
type PingResult struct {
	// Latency is the last gateway heartbeat round trip.
	Latency time.Duration
	Uptime  time.Duration
}

// NewPingResult creates a PingResult.
func NewPingResult(latency, uptime time.Duration) *PingResult {
	return &PingResult{Latency: latency, Uptime: uptime}
}

// LatencyText renders the latency in milliseconds.
func (r *PingResult) LatencyText() string {
	return fmt.Sprintf("%d ms", r.Latency.Milliseconds())
}

// UptimeText renders the uptime as "1 week, 2 days, 0 hours, 5 minutes".
// Leading zero units are left out.
func (r *PingResult) UptimeText() string {
	units := []struct {
		size time.Duration
		name string
	}{
		{365 * 24 * time.Hour, "year"},
		{7 * 24 * time.Hour, "week"},
		{24 * time.Hour, "day"},
		{time.Hour, "hour"},
		{time.Minute, "minute"},
	}

	d := r.Uptime.Round(time.Minute)
	var parts []string
	for _, u := range units {
		n := int64(d / u.size)
		d -= time.Duration(n) * u.size
		if n == 0 && len(parts) == 0 && u.size != time.Minute {
			continue
		}
		name := u.name
		if n != 1 {
			name += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, name))
	}
	return strings.Join(parts, ", ")
}
