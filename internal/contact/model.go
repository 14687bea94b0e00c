package contact

import (
	"github.com/san-kum/liquidbridge/internal/property"
	"github.com/san-kum/liquidbridge/internal/vecmath"
)

// Status is the outcome of a force calculation.
type Status int

const (
	// Success means the returned forces are valid.
	Success Status = iota
	// Error means this contact failed; the host may carry on.
	Error
	// FatalError means the host must stop the run.
	FatalError
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Error:
		return "error"
	case FatalError:
		return "fatal error"
	}
	return "unknown"
}

// Model is a contact force law loaded by the host.
type Model interface {
	// PreferenceFileName is the file the host looks for next to the model.
	PreferenceFileName() string
	IsThreadSafe() bool
	UsesCustomProperties() bool

	// Setup reads the preference file. A non-nil error is fatal to the run.
	Setup(prefFile string) error
	// Starting is called before the first step. A non-nil error is fatal.
	Starting() error
	// Stopping is called after the last step. Calling it again without an
	// intervening Starting has no effect.
	Stopping()

	NumberOfRequiredProperties(cat property.Category) int
	PropertyDetails(index int, cat property.Category) (property.Definition, bool)

	CalculateForce(in *Interaction) (Forces, Status)
}

// Element is the state of one side of a contact at the current step.
// Geometry elements carry a very large mass and curvature and report their
// facet Area; particles report Area 0.
type Element struct {
	ID                int
	Type              string
	Mass              float64
	Area              float64
	ShearModulus      float64
	Poisson           float64
	ContactCurvature  float64
	PhysicalCurvature float64
	Position          vecmath.Point3
	CentreOfMass      vecmath.Point3
	Velocity          vecmath.Vector3
	AngularVelocity   vecmath.Vector3
	Charge            float64
	WorkFunction      float64
	Orientation       vecmath.Matrix3x3
	Properties        property.Data
}

// Interaction is everything a model sees about one contact. Property
// accessors are only valid for the duration of the call.
type Interaction struct {
	Time     float64
	Timestep float64

	Elem1 Element
	Elem2 Element
	// Elem2IsSurface is true when element 2 is a particle surface and false
	// when it is a geometry element.
	Elem2IsSurface bool

	Contact    property.Data
	Simulation property.Data

	Restitution     float64
	StaticFriction  float64
	RollingFriction float64

	ContactPoint vecmath.Point3
	// NormalOverlap is positive while the surfaces interpenetrate and
	// negative once they have separated.
	NormalOverlap     float64
	TangentialOverlap vecmath.Vector3
}

// Forces is the result of one force calculation. Forces act on element 1;
// the host applies the opposite to element 2. Unsym components are the
// dissipative part of the matching total.
type Forces struct {
	Normal          vecmath.Vector3
	UnsymNormal     vecmath.Vector3
	Tangential      vecmath.Vector3
	UnsymTangential vecmath.Vector3

	Elem1Torque      vecmath.Vector3
	Elem1UnsymTorque vecmath.Vector3
	Elem2Torque      vecmath.Vector3
	Elem2UnsymTorque vecmath.Vector3

	ChargeToElem1 float64

	// TangentialOverlap is the overlap the host should carry into the next
	// step. It equals the input unless sliding rescaled it.
	TangentialOverlap vecmath.Vector3
}
