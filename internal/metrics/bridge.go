// Package metrics implements host.Metric summaries of a liquid bridge run.
package metrics

import (
	"github.com/san-kum/liquidbridge/internal/host"
)

// PeakBridgeForce is the largest total bridge force seen in any sample.
type PeakBridgeForce struct {
	peak float64
}

func NewPeakBridgeForce() *PeakBridgeForce { return &PeakBridgeForce{} }

func (p *PeakBridgeForce) Name() string { return "peak_bridge_force" }

func (p *PeakBridgeForce) Observe(s host.Sample) {
	if s.BridgeForce > p.peak {
		p.peak = s.BridgeForce
	}
}

func (p *PeakBridgeForce) Value() float64 { return p.peak }
func (p *PeakBridgeForce) Reset()         { p.peak = 0 }

// BridgeLifetime is the simulated time during which at least one bridge
// existed.
type BridgeLifetime struct {
	total    float64
	lastTime float64
	bridged  bool
	started  bool
}

func NewBridgeLifetime() *BridgeLifetime { return &BridgeLifetime{} }

func (b *BridgeLifetime) Name() string { return "bridge_lifetime" }

func (b *BridgeLifetime) Observe(s host.Sample) {
	if b.started && b.bridged {
		b.total += s.Time - b.lastTime
	}
	b.started = true
	b.lastTime = s.Time
	b.bridged = s.Bridges > 0
}

func (b *BridgeLifetime) Value() float64 { return b.total }

func (b *BridgeLifetime) Reset() {
	*b = BridgeLifetime{}
}

// Ruptures counts bridges lost between consecutive samples.
type Ruptures struct {
	count   int
	last    int
	started bool
}

func NewRuptures() *Ruptures { return &Ruptures{} }

func (r *Ruptures) Name() string { return "ruptures" }

func (r *Ruptures) Observe(s host.Sample) {
	if r.started && s.Bridges < r.last {
		r.count += r.last - s.Bridges
	}
	r.started = true
	r.last = s.Bridges
}

func (r *Ruptures) Value() float64 { return float64(r.count) }

func (r *Ruptures) Reset() {
	*r = Ruptures{}
}
