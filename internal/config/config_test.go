package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "liquid_bridge" {
		t.Errorf("expected model liquid_bridge, got %s", cfg.Model)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if cfg.LiquidDensity != DefaultLiquidDensity {
		t.Errorf("expected liquid density %g, got %g", DefaultLiquidDensity, cfg.LiquidDensity)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("pair")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Particles) != 2 {
		t.Fatalf("expected 2 particles, got %d", len(cfg.Particles))
	}
	if !cfg.Particles[0].Fixed {
		t.Error("expected the first particle to be fixed")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset does not validate: %v", err)
	}
}

func TestGetPresetIsACopy(t *testing.T) {
	a := GetPreset("pair")
	a.Particles[0].Radius = 42
	b := GetPreset("pair")
	if b.Particles[0].Radius == 42 {
		t.Error("preset shared between calls")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	want := []string{"dry", "pair", "pile", "wall"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected %v, got %v", want, names)
		}
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestDryPresetHasNoLiquid(t *testing.T) {
	for _, p := range GetPreset("dry").Particles {
		if p.LiquidContent != 0 {
			t.Errorf("expected no liquid, got %g", p.LiquidContent)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"no particles", func(c *Config) { c.Particles = nil }},
		{"zero radius", func(c *Config) { c.Particles[0].Radius = 0 }},
		{"no mass", func(c *Config) { c.Particles[0].Density = 0 }},
		{"zero wall normal", func(c *Config) { c.Walls = []WallConfig{{}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetPreset("pair")
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestParticleMass(t *testing.T) {
	p := ParticleConfig{Radius: 0.001, Density: 3000 / (4.0 / 3.0 * 3.141592653589793 * 1e-9)}
	if m := p.ParticleMass(); m < 2999.999 || m > 3000.001 {
		t.Errorf("expected mass 3000 from density, got %g", m)
	}
	p.Mass = 2
	if m := p.ParticleMass(); m != 2 {
		t.Errorf("expected explicit mass 2, got %g", m)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	cfg := GetPreset("wall")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Name != "wall" {
		t.Errorf("expected name wall, got %s", loaded.Name)
	}
	if len(loaded.Walls) != 1 || loaded.Walls[0].Normal != [3]float64{0, 0, 1} {
		t.Errorf("walls not preserved: %+v", loaded.Walls)
	}
	if loaded.Gravity[2] != -9.81 {
		t.Errorf("expected gravity -9.81, got %g", loaded.Gravity[2])
	}
	if len(loaded.Bridges) != 2 || loaded.Bridges[1].WettingAngle != 0.5 {
		t.Errorf("bridges not preserved: %+v", loaded.Bridges)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "min.yaml")
	body := "particles:\n  - radius: 0.001\n    mass: 0.001\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dt != DefaultDt || cfg.Model != DefaultModel {
		t.Errorf("defaults not applied: dt %g model %q", cfg.Dt, cfg.Model)
	}
	if cfg.Contact.StaticFriction != DefaultFriction {
		t.Errorf("expected static friction %g, got %g", DefaultFriction, cfg.Contact.StaticFriction)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("minimal scenario does not validate: %v", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("dt: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPrefs(t *testing.T) {
	cfg := GetPreset("pair")
	cfg.CohesionStart = 0.25
	p := cfg.Prefs()

	if p.CohesionStart != 0.25 || p.LiquidDensity != DefaultLiquidDensity {
		t.Errorf("unexpected header values %+v", p)
	}
	tbl := p.Table()
	if got := tbl.Lookup("steel", "glass").WettingAngle; got != 0.5 {
		t.Errorf("expected wetting angle 0.5, got %g", got)
	}
}
