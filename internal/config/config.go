package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/liquidbridge/internal/bridge"
	"github.com/san-kum/liquidbridge/internal/prefs"
)

const (
	DefaultModel         = "liquid_bridge"
	DefaultDt            = 1e-6
	DefaultDuration      = 0.005
	DefaultLiquidDensity = 1000.0
	DefaultRestitution   = 0.5
	DefaultFriction      = 0.3
	DefaultRolling       = 0.01
)

var ErrInvalid = errors.New("config: invalid scenario")

type Config struct {
	Name  string `yaml:"name,omitempty"`
	Model string `yaml:"model"`

	// PrefsPath points at a preference file. When set it replaces the
	// inline cohesion settings below.
	PrefsPath     string         `yaml:"prefs,omitempty"`
	CohesionStart float64        `yaml:"cohesion_start"`
	LiquidDensity float64        `yaml:"liquid_density"`
	Bridges       []BridgeConfig `yaml:"bridges"`

	Dt       float64    `yaml:"dt"`
	Duration float64    `yaml:"duration"`
	Workers  int        `yaml:"workers,omitempty"`
	Gravity  [3]float64 `yaml:"gravity"`

	Contact   ContactConfig    `yaml:"contact"`
	Particles []ParticleConfig `yaml:"particles"`
	Walls     []WallConfig     `yaml:"walls,omitempty"`
}

type BridgeConfig struct {
	TypeA          string  `yaml:"type_a"`
	TypeB          string  `yaml:"type_b"`
	SurfaceTension float64 `yaml:"surface_tension"`
	WettingAngle   float64 `yaml:"wetting_angle"`
}

type ContactConfig struct {
	Restitution     float64 `yaml:"restitution"`
	StaticFriction  float64 `yaml:"static_friction"`
	RollingFriction float64 `yaml:"rolling_friction"`
}

type ParticleConfig struct {
	Type          string  `yaml:"type"`
	Radius        float64 `yaml:"radius"`
	ContactRadius float64 `yaml:"contact_radius,omitempty"`
	// Mass wins over Density when both are set.
	Mass            float64    `yaml:"mass,omitempty"`
	Density         float64    `yaml:"density,omitempty"`
	ShearModulus    float64    `yaml:"shear_modulus"`
	Poisson         float64    `yaml:"poisson"`
	LiquidContent   float64    `yaml:"liquid_content"`
	Position        [3]float64 `yaml:"position"`
	Velocity        [3]float64 `yaml:"velocity,omitempty"`
	AngularVelocity [3]float64 `yaml:"angular_velocity,omitempty"`
	Fixed           bool       `yaml:"fixed,omitempty"`
}

// ParticleMass is Mass, or the mass of a solid sphere of Density.
func (p ParticleConfig) ParticleMass() float64 {
	if p.Mass > 0 {
		return p.Mass
	}
	return 4.0 / 3.0 * math.Pi * p.Radius * p.Radius * p.Radius * p.Density
}

type WallConfig struct {
	Type         string     `yaml:"type"`
	Point        [3]float64 `yaml:"point"`
	Normal       [3]float64 `yaml:"normal"`
	ShearModulus float64    `yaml:"shear_modulus"`
	Poisson      float64    `yaml:"poisson"`
	Area         float64    `yaml:"area,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:         DefaultModel,
		LiquidDensity: DefaultLiquidDensity,
		Dt:            DefaultDt,
		Duration:      DefaultDuration,
		Contact: ContactConfig{
			Restitution:     DefaultRestitution,
			StaticFriction:  DefaultFriction,
			RollingFriction: DefaultRolling,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the scenario can be run.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalid, c.Duration)
	}
	if len(c.Particles) == 0 {
		return fmt.Errorf("%w: no particles", ErrInvalid)
	}
	for i, p := range c.Particles {
		if p.Radius <= 0 {
			return fmt.Errorf("%w: particle %d: radius must be positive", ErrInvalid, i)
		}
		if p.ParticleMass() <= 0 {
			return fmt.Errorf("%w: particle %d: needs a positive mass or density", ErrInvalid, i)
		}
	}
	for i, w := range c.Walls {
		if w.Normal == [3]float64{} {
			return fmt.Errorf("%w: wall %d: zero normal", ErrInvalid, i)
		}
	}
	return nil
}

// Prefs returns the inline cohesion settings as preferences.
func (c *Config) Prefs() *prefs.Prefs {
	p := &prefs.Prefs{
		CohesionStart: c.CohesionStart,
		LiquidDensity: c.LiquidDensity,
		Rows:          make([]prefs.Row, 0, len(c.Bridges)),
	}
	for _, b := range c.Bridges {
		p.Rows = append(p.Rows, prefs.Row{
			TypeA:  b.TypeA,
			TypeB:  b.TypeB,
			Params: bridge.Parameters{SurfaceTension: b.SurfaceTension, WettingAngle: b.WettingAngle},
		})
	}
	return p
}
