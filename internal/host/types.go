// Package host is a small DEM driver for contact models. It detects
// contacts between spheres and planar walls, evaluates a [contact.Model] on
// every contact in parallel, applies the results in a fixed order and
// integrates particle motion with semi-implicit Euler.
package host

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/liquidbridge/internal/contact"
)

// Geometry elements are handed to models as a sphere of WallCurvature
// radius and WallMass mass.
const (
	WallMass      = 1e20
	WallCurvature = 1e10
)

var (
	ErrInvalidOptions  = errors.New("host: invalid options")
	ErrInvalidParticle = errors.New("host: invalid particle")
	ErrInvalidWall     = errors.New("host: invalid wall")
	ErrSetup           = errors.New("host: model setup failed")
	ErrStart           = errors.New("host: model failed to start")
	ErrIncompatibleAPI = errors.New("host: incompatible property API")
	ErrFatalContact    = errors.New("host: fatal contact error")
	ErrClosed          = errors.New("host: world closed")
)

// ContactError reports the contact that stopped a step.
type ContactError struct {
	Step    int
	Time    float64
	Contact int64
	Wrapped error
}

func (e *ContactError) Error() string {
	return e.Wrapped.Error()
}

func (e *ContactError) Unwrap() error {
	return e.Wrapped
}

// Particle is a sphere. ContactRadius bounds the range in which contacts
// are tracked and defaults to Radius; set it larger to keep separated
// pairs in contact. Properties seeds the particle's custom properties.
type Particle struct {
	ID              int
	Type            string
	Radius          float64
	ContactRadius   float64
	Mass            float64
	ShearModulus    float64
	Poisson         float64
	Position        mgl64.Vec3
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Orientation     mgl64.Mat3
	Fixed           bool
	Properties      map[string]float64
}

func (p *Particle) inertia() float64 {
	return 0.4 * p.Mass * p.Radius * p.Radius
}

// Wall is an infinite plane. Normal points towards the particles.
type Wall struct {
	ID           int
	Type         string
	Point        mgl64.Vec3
	Normal       mgl64.Vec3
	ShearModulus float64
	Poisson      float64
	Area         float64
}

type Options struct {
	// PrefsPath is passed to the model's Setup. Leave it empty when the
	// model is already configured.
	PrefsPath string

	Dt      float64
	Gravity mgl64.Vec3

	Restitution     float64
	StaticFriction  float64
	RollingFriction float64

	// Workers evaluating contacts; 0 means GOMAXPROCS.
	Workers int
}

// Sample summarises the world after a step.
type Sample struct {
	Step          int
	Time          float64
	Contacts      int
	Bridges       int
	BridgeForce   float64
	NormalForce   float64
	KineticEnergy float64
	// MinGap is the smallest surface separation between any two bodies;
	// negative while they overlap. +Inf with fewer than two bodies.
	MinGap float64
}

// Contact is a snapshot of one tracked contact.
type Contact struct {
	ID           int64
	Elem1        int
	Elem2        int
	Wall         bool
	Overlap      float64
	BridgeStatus float64
	BridgeForce  float64
	Forces       contact.Forces
}

type Observer interface {
	OnStep(s Sample)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Sample)

func (f ObserverFunc) OnStep(s Sample) { f(s) }

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Result struct {
	Samples       []Sample
	Metrics       map[string]float64
	Steps         int
	ContactErrors int
}

// Final returns the last sample, or the zero Sample for an empty result.
func (r *Result) Final() Sample {
	if len(r.Samples) == 0 {
		return Sample{MinGap: math.Inf(1)}
	}
	return r.Samples[len(r.Samples)-1]
}
