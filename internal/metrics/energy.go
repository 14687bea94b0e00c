package metrics

import (
	"math"

	"github.com/san-kum/liquidbridge/internal/host"
)

// PeakKineticEnergy is the largest kinetic energy seen in any sample.
type PeakKineticEnergy struct {
	peak float64
}

func NewPeakKineticEnergy() *PeakKineticEnergy { return &PeakKineticEnergy{} }

func (p *PeakKineticEnergy) Name() string { return "peak_kinetic_energy" }

func (p *PeakKineticEnergy) Observe(s host.Sample) {
	p.peak = math.Max(p.peak, s.KineticEnergy)
}

func (p *PeakKineticEnergy) Value() float64 { return p.peak }
func (p *PeakKineticEnergy) Reset()         { p.peak = 0 }

// MeanKineticEnergy averages kinetic energy over all samples.
type MeanKineticEnergy struct {
	total   float64
	samples int
}

func NewMeanKineticEnergy() *MeanKineticEnergy { return &MeanKineticEnergy{} }

func (m *MeanKineticEnergy) Name() string { return "mean_kinetic_energy" }

func (m *MeanKineticEnergy) Observe(s host.Sample) {
	m.total += s.KineticEnergy
	m.samples++
}

func (m *MeanKineticEnergy) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanKineticEnergy) Reset() {
	m.total = 0
	m.samples = 0
}
