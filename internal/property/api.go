// Package property defines the custom-property contract between the host
// and contact models, and an in-memory store implementing it.
//
// Properties are named arrays of float64 attached to particles, contacts,
// geometry or the simulation. Each has a live value and a pending delta.
// Models read values and write deltas; the host applies deltas with
// [Store.Commit] between steps.
package property

// APIID identifies an API object exposed by the host.
type APIID int

const (
	APIManager APIID = iota
	FieldManager
	Field
	LicenseManager
	ContactCustomPropertyManager
	GeometryCustomPropertyManager
	ParticleCustomPropertyManager
	SimulationCustomPropertyManager
	CustomPropertyData
	ParticleManager
	GeometryManager
	SimulationManager
)

// Versioned is implemented by every host API object so callers can check
// compatibility before using it.
type Versioned interface {
	APIVersion() (major, minor uint8)
	APIID() APIID
}

// Compatible reports whether v is the API object id with the given major
// version and at least the given minor version.
func Compatible(v Versioned, id APIID, major, minor uint8) bool {
	if v == nil || v.APIID() != id {
		return false
	}
	maj, mnr := v.APIVersion()
	return maj == major && mnr >= minor
}

// Category is what a property is attached to.
type Category int

const (
	Particle Category = iota
	Contact
	Geometry
	Simulation
)

func (c Category) String() string {
	switch c {
	case Particle:
		return "particle"
	case Contact:
		return "contact"
	case Geometry:
		return "geometry"
	case Simulation:
		return "simulation"
	}
	return "unknown"
}

// Categories lists every category in declaration order.
var Categories = []Category{Particle, Contact, Geometry, Simulation}

// DataType of stored elements. Only Double is stored by this package.
type DataType int

const (
	Double DataType = iota
	Bool
)

// UnitType tells the host how to display a property. Values other than
// UnitOther and UnitNone are SI.
type UnitType int

const (
	UnitOther UnitType = iota
	UnitNone
	UnitAcceleration
	UnitAngle
	UnitAngularAcceleration
	UnitAngularVelocity
	UnitDensity
	UnitEnergy
	UnitWorkFunction
	UnitForce
	UnitCharge
	UnitLength
	UnitMass
	UnitMOI
	UnitShearMod
	UnitTime
	UnitTorque
	UnitVelocity
	UnitVolume
	UnitFrequency
	UnitTemperature
	UnitHeatFlux
	UnitStiffness
	UnitStress
	UnitMassFlow
	UnitStiffnessPerUnitArea
)

var unitNames = [...]string{
	"other", "none", "acceleration", "angle", "angular acceleration",
	"angular velocity", "density", "energy", "work function", "force",
	"charge", "length", "mass", "moment of inertia", "shear modulus", "time",
	"torque", "velocity", "volume", "frequency", "temperature", "heat flux",
	"stiffness", "stress", "mass flow", "stiffness per unit area",
}

func (u UnitType) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return "unknown"
	}
	return unitNames[u]
}

func (d DataType) String() string {
	switch d {
	case Double:
		return "double"
	case Bool:
		return "bool"
	}
	return "unknown"
}

// Definition describes one custom property.
type Definition struct {
	Name     string
	DataType DataType
	Elements int
	Unit     UnitType
}

// Data gives access to the properties of one particle, contact, geometry
// element or the simulation.
//
// Returned slices alias the store. Value slices must not be written.
// Delta returns nil when the accessor is read-only or the property is
// unknown. Index and name lookups address the same storage.
type Data interface {
	Versioned
	ReadOnly() bool
	Value(name string) []float64
	ValueAt(index int) []float64
	Delta(name string) []float64
	DeltaAt(index int) []float64
	HasData(name string) bool
	HasDataAt(index int) bool
}

// Scalar returns the first element of the named value, or 0 when d is nil
// or the property is missing.
func Scalar(d Data, name string) float64 {
	if d == nil {
		return 0
	}
	v := d.Value(name)
	if len(v) == 0 {
		return 0
	}
	return v[0]
}

// DeltaSlot returns the first delta element of the named property, or nil
// when d is nil, read-only, or the property is missing.
func DeltaSlot(d Data, name string) *float64 {
	if d == nil {
		return nil
	}
	v := d.Delta(name)
	if len(v) == 0 {
		return nil
	}
	return &v[0]
}
