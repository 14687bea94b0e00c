package metrics

import (
	"math"

	"github.com/san-kum/liquidbridge/internal/host"
)

// Stability is the fraction of samples whose deepest overlap stays within
// threshold and whose energy is finite. Deep overlaps mean the timestep is
// too large for the contact stiffness.
type Stability struct {
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{threshold: threshold}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(sample host.Sample) {
	s.samples++
	if -sample.MinGap > s.threshold || math.IsNaN(sample.KineticEnergy) || math.IsInf(sample.KineticEnergy, 0) {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Standard returns the metrics recorded for every run.
func Standard(radius float64) []host.Metric {
	return []host.Metric{
		NewPeakBridgeForce(),
		NewBridgeLifetime(),
		NewRuptures(),
		NewPeakKineticEnergy(),
		NewMeanKineticEnergy(),
		NewStability(0.1 * radius),
	}
}
