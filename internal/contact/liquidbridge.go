package contact

import (
	"fmt"

	"github.com/san-kum/liquidbridge/internal/bridge"
	"github.com/san-kum/liquidbridge/internal/prefs"
	"github.com/san-kum/liquidbridge/internal/property"
)

// Custom property names used by the liquid bridge model.
const (
	LiquidContent = "Liquid Content"
	BridgeStatus  = "BridgeStatus"
	BridgeForce   = "BridgeForce"
)

var (
	particleProperties = []property.Definition{
		{Name: LiquidContent, DataType: property.Double, Elements: 1, Unit: property.UnitNone},
	}
	contactProperties = []property.Definition{
		{Name: BridgeStatus, DataType: property.Double, Elements: 1, Unit: property.UnitNone},
		{Name: BridgeForce, DataType: property.Double, Elements: 1, Unit: property.UnitNone},
	}
)

// LiquidBridge is the capillary cohesion contact model.
//
// Configuration is fixed by Setup or Configure before the first step and
// only read afterwards, so CalculateForce may run concurrently.
type LiquidBridge struct {
	table         *bridge.Table
	cohesionStart float64
	liquidDensity float64
	running       bool
}

var _ Model = (*LiquidBridge)(nil)

func NewLiquidBridge() *LiquidBridge {
	return &LiquidBridge{table: bridge.NewTable()}
}

func (m *LiquidBridge) PreferenceFileName() string { return prefs.FileName }
func (m *LiquidBridge) IsThreadSafe() bool         { return true }
func (m *LiquidBridge) UsesCustomProperties() bool { return true }

// Setup loads the preference file at prefFile.
func (m *LiquidBridge) Setup(prefFile string) error {
	p, err := prefs.Load(prefFile)
	if err != nil {
		return fmt.Errorf("liquid bridge setup: %w", err)
	}
	m.Configure(p)
	return nil
}

// Configure replaces the model configuration with p. A nil p clears it.
func (m *LiquidBridge) Configure(p *prefs.Prefs) {
	if p == nil {
		p = &prefs.Prefs{}
	}
	m.cohesionStart = p.CohesionStart
	m.liquidDensity = p.LiquidDensity
	m.table = p.Table()
}

func (m *LiquidBridge) Starting() error {
	m.running = true
	return nil
}

func (m *LiquidBridge) Stopping() {
	m.running = false
}

// Running reports whether Starting was called without a later Stopping.
func (m *LiquidBridge) Running() bool { return m.running }

func (m *LiquidBridge) CohesionStart() float64 { return m.cohesionStart }
func (m *LiquidBridge) LiquidDensity() float64 { return m.liquidDensity }

// Parameters returns the bridge parameters for a pair of surface types.
func (m *LiquidBridge) Parameters(a, b string) bridge.Parameters {
	return m.table.Lookup(a, b)
}

func definitionsFor(cat property.Category) []property.Definition {
	switch cat {
	case property.Particle:
		return particleProperties
	case property.Contact:
		return contactProperties
	}
	return nil
}

func (m *LiquidBridge) NumberOfRequiredProperties(cat property.Category) int {
	return len(definitionsFor(cat))
}

func (m *LiquidBridge) PropertyDetails(index int, cat property.Category) (property.Definition, bool) {
	defs := definitionsFor(cat)
	if index < 0 || index >= len(defs) {
		return property.Definition{}, false
	}
	return defs[index], true
}

// RegisterProperties registers every property m requires in store.
func RegisterProperties(m Model, store *property.Store) error {
	if !m.UsesCustomProperties() {
		return nil
	}
	for _, cat := range property.Categories {
		n := m.NumberOfRequiredProperties(cat)
		for i := 0; i < n; i++ {
			def, ok := m.PropertyDetails(i, cat)
			if !ok {
				return fmt.Errorf("%w: %s property %d of %d", property.ErrInvalidDefinition, cat, i, n)
			}
			if _, err := store.Register(cat, def); err != nil {
				return err
			}
		}
	}
	return nil
}
