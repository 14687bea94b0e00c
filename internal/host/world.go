package host

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/liquidbridge/internal/contact"
	"github.com/san-kum/liquidbridge/internal/property"
	"github.com/san-kum/liquidbridge/internal/vecmath"
)

const minChunk = 32

// World owns the particles, walls and contacts of one run.
type World struct {
	model contact.Model
	opts  Options
	store *property.Store
	sim   property.Data

	particles []Particle
	walls     []Wall

	contacts    map[pairKey]*contactState
	order       []*contactState
	nextContact int64

	forces  []mgl64.Vec3
	torques []mgl64.Vec3

	metrics []Metric
	time    float64
	step    int
	gap     float64
	errors  int
	closed  bool
}

// New configures and starts model. The model is stopped again if any later
// stage fails.
func New(model contact.Model, opts Options) (*World, error) {
	if opts.Dt <= 0 || math.IsNaN(opts.Dt) {
		return nil, fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidOptions, opts.Dt)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if !model.IsThreadSafe() {
		opts.Workers = 1
	}

	if opts.PrefsPath != "" {
		if err := model.Setup(opts.PrefsPath); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSetup, err)
		}
	}

	store := property.NewStore()
	if err := contact.RegisterProperties(model, store); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSetup, err)
	}
	store.Create(property.Simulation, 0)
	sim := store.Data(property.Simulation, 0, true)
	if !property.Compatible(sim, property.CustomPropertyData, 1, 0) {
		return nil, ErrIncompatibleAPI
	}

	if err := model.Starting(); err != nil {
		model.Stopping()
		return nil, fmt.Errorf("%w: %w", ErrStart, err)
	}

	return &World{
		model:    model,
		opts:     opts,
		store:    store,
		sim:      sim,
		contacts: make(map[pairKey]*contactState),
		gap:      math.Inf(1),
	}, nil
}

// AddParticle adds p and returns its index, which is also its ID.
func (w *World) AddParticle(p Particle) (int, error) {
	if p.Radius <= 0 || p.Mass <= 0 {
		return 0, fmt.Errorf("%w: radius %g mass %g", ErrInvalidParticle, p.Radius, p.Mass)
	}
	if p.ContactRadius < p.Radius {
		p.ContactRadius = p.Radius
	}
	if p.Orientation == (mgl64.Mat3{}) {
		p.Orientation = mgl64.Ident3()
	}

	id := len(w.particles)
	p.ID = id
	w.store.Create(property.Particle, int64(id))
	for name, v := range p.Properties {
		if err := w.store.Set(property.Particle, int64(id), name, v); err != nil {
			w.store.Remove(property.Particle, int64(id))
			return 0, fmt.Errorf("%w: %w", ErrInvalidParticle, err)
		}
	}

	w.particles = append(w.particles, p)
	w.forces = append(w.forces, mgl64.Vec3{})
	w.torques = append(w.torques, mgl64.Vec3{})
	return id, nil
}

// AddWall adds a plane and returns its index. The normal is normalised.
func (w *World) AddWall(wall Wall) (int, error) {
	l := wall.Normal.Len()
	if l == 0 {
		return 0, fmt.Errorf("%w: zero normal", ErrInvalidWall)
	}
	wall.Normal = wall.Normal.Mul(1 / l)

	id := len(w.walls)
	wall.ID = id
	w.store.Create(property.Geometry, int64(id))
	w.walls = append(w.walls, wall)
	return id, nil
}

func (w *World) AddMetric(m Metric) { w.metrics = append(w.metrics, m) }

func (w *World) Time() float64          { return w.time }
func (w *World) Dt() float64            { return w.opts.Dt }
func (w *World) Steps() int             { return w.step }
func (w *World) Store() *property.Store { return w.store }
func (w *World) ContactErrors() int     { return w.errors }

// Particle returns particle i for inspection or adjustment between steps.
func (w *World) Particle(i int) *Particle { return &w.particles[i] }

// Particles returns a copy of every particle.
func (w *World) Particles() []Particle {
	out := make([]Particle, len(w.particles))
	copy(out, w.particles)
	return out
}

func (w *World) Walls() []Wall {
	out := make([]Wall, len(w.walls))
	copy(out, w.walls)
	return out
}

// Contacts returns the tracked contacts in id order.
func (w *World) Contacts() []Contact {
	out := make([]Contact, 0, len(w.order))
	for _, cs := range w.order {
		d := w.store.Data(property.Contact, cs.id, true)
		out = append(out, Contact{
			ID:           cs.id,
			Elem1:        cs.key.a,
			Elem2:        cs.key.b,
			Wall:         cs.key.wall,
			Overlap:      cs.overlap,
			BridgeStatus: property.Scalar(d, contact.BridgeStatus),
			BridgeForce:  property.Scalar(d, contact.BridgeForce),
			Forces:       cs.out,
		})
	}
	return out
}

// Step advances the world by one timestep.
func (w *World) Step() error {
	if w.closed {
		return ErrClosed
	}

	w.gap = w.detect()
	for _, cs := range w.order {
		w.advanceTangential(cs)
		w.prepare(cs)
	}

	ParallelFor(len(w.order), w.opts.Workers, minChunk, func(start, end int) {
		for _, cs := range w.order[start:end] {
			cs.out, cs.status = w.model.CalculateForce(&cs.in)
		}
	})

	for i := range w.forces {
		w.forces[i] = mgl64.Vec3{}
		w.torques[i] = mgl64.Vec3{}
	}
	for _, cs := range w.order {
		switch cs.status {
		case contact.FatalError:
			return &ContactError{Step: w.step, Time: w.time, Contact: cs.id, Wrapped: ErrFatalContact}
		case contact.Error:
			w.errors++
			continue
		}
		w.apply(cs)
	}

	w.integrate()
	w.store.Commit()
	w.time += w.opts.Dt
	w.step++
	return nil
}

func (w *World) particleElement(i int) contact.Element {
	p := &w.particles[i]
	return contact.Element{
		ID:                p.ID,
		Type:              p.Type,
		Mass:              p.Mass,
		ShearModulus:      p.ShearModulus,
		Poisson:           p.Poisson,
		ContactCurvature:  p.ContactRadius,
		PhysicalCurvature: p.Radius,
		Position:          vecmath.PointFromVec3(p.Position),
		CentreOfMass:      vecmath.PointFromVec3(p.Position),
		Velocity:          vecmath.FromVec3(p.Velocity),
		AngularVelocity:   vecmath.FromVec3(p.AngularVelocity),
		Orientation:       vecmath.FromMat3(p.Orientation),
		Properties:        w.store.Data(property.Particle, int64(i), true),
	}
}

func (w *World) wallElement(k int, at mgl64.Vec3) contact.Element {
	wall := &w.walls[k]
	return contact.Element{
		ID:                wall.ID,
		Type:              wall.Type,
		Mass:              WallMass,
		Area:              wall.Area,
		ShearModulus:      wall.ShearModulus,
		Poisson:           wall.Poisson,
		ContactCurvature:  WallCurvature,
		PhysicalCurvature: WallCurvature,
		Position:          vecmath.PointFromVec3(at),
		CentreOfMass:      vecmath.PointFromVec3(at),
		Orientation:       vecmath.Identity(),
		Properties:        w.store.Data(property.Geometry, int64(k), true),
	}
}

// prepare fills the model input of cs for the current step.
func (w *World) prepare(cs *contactState) {
	in := &cs.in
	*in = contact.Interaction{
		Time:              w.time,
		Timestep:          w.opts.Dt,
		Elem1:             w.particleElement(cs.key.a),
		Elem2IsSurface:    !cs.key.wall,
		Contact:           w.store.Data(property.Contact, cs.id, false),
		Simulation:        w.sim,
		Restitution:       w.opts.Restitution,
		StaticFriction:    w.opts.StaticFriction,
		RollingFriction:   w.opts.RollingFriction,
		ContactPoint:      vecmath.PointFromVec3(cs.point),
		NormalOverlap:     cs.overlap,
		TangentialOverlap: cs.tangential,
	}
	if cs.key.wall {
		// Foot of the perpendicular from the particle centre.
		p := w.particles[cs.key.a].Position
		dist := w.particles[cs.key.a].Radius - cs.overlap
		in.Elem2 = w.wallElement(cs.key.b, p.Add(cs.normal.Mul(dist)))
	} else {
		in.Elem2 = w.particleElement(cs.key.b)
	}
}

// apply accumulates the forces of cs on both elements.
func (w *World) apply(cs *contactState) {
	cs.tangential = cs.out.TangentialOverlap

	f := cs.out.Normal.Add(cs.out.Tangential).Vec3()
	a := cs.key.a
	w.forces[a] = w.forces[a].Add(f)
	w.torques[a] = w.torques[a].
		Add(cs.point.Sub(w.particles[a].Position).Cross(f)).
		Add(cs.out.Elem1Torque.Vec3())

	if cs.key.wall {
		return
	}
	b := cs.key.b
	w.forces[b] = w.forces[b].Sub(f)
	w.torques[b] = w.torques[b].
		Add(cs.point.Sub(w.particles[b].Position).Cross(f.Mul(-1))).
		Add(cs.out.Elem2Torque.Vec3())
}

func (w *World) integrate() {
	dt := w.opts.Dt
	for i := range w.particles {
		p := &w.particles[i]
		if p.Fixed {
			continue
		}

		acc := w.forces[i].Mul(1 / p.Mass).Add(w.opts.Gravity)
		p.Velocity = p.Velocity.Add(acc.Mul(dt))
		p.Position = p.Position.Add(p.Velocity.Mul(dt))

		p.AngularVelocity = p.AngularVelocity.Add(w.torques[i].Mul(dt / p.inertia()))
		if angle := p.AngularVelocity.Len() * dt; angle > 0 {
			axis := vecmath.FromVec3(p.AngularVelocity).Normalize()
			rot := vecmath.Rotation(axis, angle).Mul(vecmath.FromMat3(p.Orientation))
			p.Orientation = rot.Mat3()
		}
	}
}

// Sample summarises the current state. Contact forces are those of the
// last step.
func (w *World) Sample() Sample {
	s := Sample{
		Step:     w.step,
		Time:     w.time,
		Contacts: len(w.order),
		MinGap:   w.gap,
	}
	for _, cs := range w.order {
		d := w.store.Data(property.Contact, cs.id, true)
		if property.Scalar(d, contact.BridgeStatus) == 1 {
			s.Bridges++
		}
		s.BridgeForce += property.Scalar(d, contact.BridgeForce)
		s.NormalForce += cs.out.Normal.Length()
	}
	for i := range w.particles {
		p := &w.particles[i]
		if p.Fixed {
			continue
		}
		s.KineticEnergy += 0.5*p.Mass*p.Velocity.Dot(p.Velocity) +
			0.5*p.inertia()*p.AngularVelocity.Dot(p.AngularVelocity)
	}
	return s
}

// Run steps the world for duration, reporting every sample to the
// registered metrics and observers. On cancellation the partial result is
// returned with the context's error.
func (w *World) Run(ctx context.Context, duration float64, observers ...Observer) (*Result, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidOptions, duration)
	}

	steps := int(math.Round(duration / w.opts.Dt))
	result := &Result{
		Samples: make([]Sample, 0, steps+1),
		Metrics: make(map[string]float64),
	}
	for _, m := range w.metrics {
		m.Reset()
	}

	record := func() {
		s := w.Sample()
		result.Samples = append(result.Samples, s)
		for _, m := range w.metrics {
			m.Observe(s)
		}
		for _, o := range observers {
			o.OnStep(s)
		}
	}

	w.gap = w.detect()
	record()

	var err error
	for i := 0; i < steps; i++ {
		if cerr := ctx.Err(); cerr != nil {
			err = cerr
			break
		}
		if err = w.Step(); err != nil {
			break
		}
		result.Steps++
		record()
	}

	result.ContactErrors = w.errors
	for _, m := range w.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, err
}

// Close stops the model. Further steps fail with ErrClosed.
func (w *World) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.model.Stopping()
}
