package config

import "sort"

const (
	glassRadius  = 0.001
	glassDensity = 2500.0
	glassShear   = 1e6
	steelShear   = 7e10
)

func wetGlass() []BridgeConfig {
	return []BridgeConfig{
		{TypeA: "glass", TypeB: "glass", SurfaceTension: 0.072, WettingAngle: 0.3},
		{TypeA: "glass", TypeB: "steel", SurfaceTension: 0.072, WettingAngle: 0.5},
	}
}

func glassBead(x, y, z, liquid float64) ParticleConfig {
	return ParticleConfig{
		Type:          "glass",
		Radius:        glassRadius,
		ContactRadius: 2.5 * glassRadius,
		Density:       glassDensity,
		ShearModulus:  glassShear,
		Poisson:       0.25,
		LiquidContent: liquid,
		Position:      [3]float64{x, y, z},
	}
}

func steelFloor() WallConfig {
	return WallConfig{Type: "steel", Normal: [3]float64{0, 0, 1}, ShearModulus: steelShear, Poisson: 0.3, Area: 1}
}

func pairPreset(liquid float64) *Config {
	cfg := DefaultConfig()
	cfg.Bridges = wetGlass()
	cfg.Duration = 0.01

	anchor := glassBead(0, 0, 0, liquid)
	anchor.Fixed = true
	mover := glassBead(2*glassRadius-1e-6, 0, 0, liquid)
	mover.Velocity = [3]float64{0.5, 0, 0}
	cfg.Particles = []ParticleConfig{anchor, mover}
	return cfg
}

// Presets holds the built-in scenarios. Each call returns a fresh Config.
var Presets = map[string]func() *Config{
	// A bead pulled off a fixed neighbour until the bridge ruptures.
	"pair": func() *Config {
		cfg := pairPreset(5)
		cfg.Name = "pair"
		return cfg
	},
	// The pair scenario without liquid.
	"dry": func() *Config {
		cfg := pairPreset(0)
		cfg.Name = "dry"
		return cfg
	},
	// A bead settling onto a wet steel floor.
	"wall": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "wall"
		cfg.Bridges = wetGlass()
		cfg.Gravity = [3]float64{0, 0, -9.81}
		cfg.Particles = []ParticleConfig{glassBead(0, 0, glassRadius+2e-5, 5)}
		cfg.Walls = []WallConfig{steelFloor()}
		return cfg
	},
	// Beads dropped in a loose stack onto the floor.
	"pile": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "pile"
		cfg.Bridges = wetGlass()
		cfg.Gravity = [3]float64{0, 0, -9.81}
		cfg.Duration = 0.01
		spacing := 2.05 * glassRadius
		for k := 0; k < 3; k++ {
			for j := 0; j < 3; j++ {
				for i := 0; i < 3; i++ {
					x := float64(i)*spacing + float64(k)*0.1*glassRadius
					z := glassRadius + 1e-5 + float64(k)*spacing
					p := glassBead(x, float64(j)*spacing, z, 5)
					p.ContactRadius = 1.5 * glassRadius
					cfg.Particles = append(cfg.Particles, p)
				}
			}
		}
		cfg.Walls = []WallConfig{steelFloor()}
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
