package storage

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/liquidbridge/internal/host"
)

type ExportData struct {
	Run     RunMetadata   `json:"run"`
	Samples []ExportPoint `json:"samples"`
}

// ExportPoint is a sample as written to JSON. MinGap is omitted while it
// is not finite.
type ExportPoint struct {
	Step          int      `json:"step"`
	Time          float64  `json:"time"`
	Contacts      int      `json:"contacts"`
	Bridges       int      `json:"bridges"`
	BridgeForce   float64  `json:"bridge_force"`
	NormalForce   float64  `json:"normal_force"`
	KineticEnergy float64  `json:"kinetic_energy"`
	MinGap        *float64 `json:"min_gap,omitempty"`
}

// ExportJSON writes a run and its samples as indented JSON.
func ExportJSON(w io.Writer, meta RunMetadata, samples []host.Sample) error {
	data := ExportData{
		Run:     meta,
		Samples: make([]ExportPoint, len(samples)),
	}

	for i, s := range samples {
		p := ExportPoint{
			Step:          s.Step,
			Time:          s.Time,
			Contacts:      s.Contacts,
			Bridges:       s.Bridges,
			BridgeForce:   s.BridgeForce,
			NormalForce:   s.NormalForce,
			KineticEnergy: s.KineticEnergy,
		}
		if gap := s.MinGap; !math.IsInf(gap, 0) && !math.IsNaN(gap) {
			p.MinGap = &gap
		}
		data.Samples[i] = p
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
