package prefs

import (
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/liquidbridge/internal/bridge"
	"gopkg.in/gcfg.v1"
)

// iniFile is the INI dialect of the preference file:
//
//	[Cohesion]
//	StartTime = 0.0
//
//	[Liquid]
//	Density = 1000
//
//	[Bridge "glass:steel"]
//	SurfaceTension = 0.07
//	WettingAngle = 0.3
type iniFile struct {
	Cohesion struct {
		StartTime float64
	}
	Liquid struct {
		Density float64
	}
	Bridge map[string]*iniBridge
}

type iniBridge struct {
	SurfaceTension float64
	WettingAngle   float64
}

func loadINI(path string) (*Prefs, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}

	var cfg iniFile
	if err := gcfg.ReadFileInto(&cfg, path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return cfg.prefs(), nil
}

// ParseINI decodes the INI dialect from a string.
func ParseINI(src string) (*Prefs, error) {
	var cfg iniFile
	if err := gcfg.ReadStringInto(&cfg, src); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return cfg.prefs(), nil
}

func (c *iniFile) prefs() *Prefs {
	p := &Prefs{
		CohesionStart: c.Cohesion.StartTime,
		LiquidDensity: c.Liquid.Density,
	}

	pairs := make([]string, 0, len(c.Bridge))
	for pair := range c.Bridge {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)

	for _, pair := range pairs {
		b := c.Bridge[pair]
		if b == nil {
			continue
		}
		a, z := SplitPair(pair)
		p.Rows = append(p.Rows, Row{
			TypeA:  a,
			TypeB:  z,
			Params: bridge.Parameters{SurfaceTension: b.SurfaceTension, WettingAngle: b.WettingAngle},
		})
	}
	return p
}
