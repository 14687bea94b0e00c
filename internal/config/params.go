package config

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownParam = errors.New("config: unknown parameter")

// params are the scalar knobs a sweep or search may turn. Setters apply the
// value to every particle or bridge row they cover.
var params = map[string]func(c *Config, v float64){
	"liquid_content": func(c *Config, v float64) {
		for i := range c.Particles {
			c.Particles[i].LiquidContent = v
		}
	},
	"surface_tension": func(c *Config, v float64) {
		for i := range c.Bridges {
			c.Bridges[i].SurfaceTension = v
		}
	},
	"wetting_angle": func(c *Config, v float64) {
		for i := range c.Bridges {
			c.Bridges[i].WettingAngle = v
		}
	},
	"liquid_density":   func(c *Config, v float64) { c.LiquidDensity = v },
	"cohesion_start":   func(c *Config, v float64) { c.CohesionStart = v },
	"restitution":      func(c *Config, v float64) { c.Contact.Restitution = v },
	"static_friction":  func(c *Config, v float64) { c.Contact.StaticFriction = v },
	"rolling_friction": func(c *Config, v float64) { c.Contact.RollingFriction = v },
	"dt":               func(c *Config, v float64) { c.Dt = v },
	"duration":         func(c *Config, v float64) { c.Duration = v },
}

func (c *Config) SetParam(name string, v float64) error {
	set, ok := params[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	set(c, v)
	return nil
}

// SetParams applies every entry of ps.
func (c *Config) SetParams(ps map[string]float64) error {
	for name, v := range ps {
		if err := c.SetParam(name, v); err != nil {
			return err
		}
	}
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
