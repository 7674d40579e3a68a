package application

import (
	"time"

	"github.com/sglre6355/pinkbean/internal/modules/general/domain"
)

// PingInteractor handles the ping use case.
type PingInteractor struct {
	startedAt time.Time
	latency   func() time.Duration
	now       func() time.Time
}

// NewPingInteractor creates a new PingInteractor. latency reports the last
// heartbeat round trip.
func NewPingInteractor(startedAt time.Time, latency func() time.Duration) *PingInteractor {
	return &PingInteractor{
		startedAt: startedAt,
		latency:   latency,
		now:       time.Now,
	}
}

// Execute returns the current connection status.
func (p *PingInteractor) Execute() *domain.PingResult {
	var latency time.Duration
	if p.latency != nil {
		latency = p.latency()
	}
	return domain.NewPingResult(latency, p.now().Sub(p.startedAt))
}
