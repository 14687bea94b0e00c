package contact

import (
	. "github.com/onsi/gomega"

	"github.com/san-kum/liquidbridge/internal/bridge"
	"github.com/san-kum/liquidbridge/internal/prefs"
	"github.com/san-kum/liquidbridge/internal/property"
	"github.com/san-kum/liquidbridge/internal/vecmath"
)

const (
	radius    = 0.001
	mass      = 0.001
	shear     = 1e6
	poisson   = 0.25
	contactID = 1
)

func wetPrefs() *prefs.Prefs {
	return &prefs.Prefs{
		CohesionStart: 0,
		LiquidDensity: 1000,
		Rows: []prefs.Row{
			{TypeA: "glass", TypeB: "glass", Params: bridge.Parameters{SurfaceTension: 0.07, WettingAngle: 0.3}},
			{TypeA: "glass", TypeB: "steel", Params: bridge.Parameters{SurfaceTension: 0.07, WettingAngle: 0.3}},
		},
	}
}

type fixture struct {
	store *property.Store
	model *LiquidBridge
}

func newFixture(p *prefs.Prefs) *fixture {
	s := property.NewStore()
	m := NewLiquidBridge()
	m.Configure(p)
	Expect(RegisterProperties(m, s)).To(Succeed())
	return &fixture{store: s, model: m}
}

func (f *fixture) particle(id int64, pos vecmath.Point3, liquid float64) Element {
	f.store.Create(property.Particle, id)
	Expect(f.store.Set(property.Particle, id, LiquidContent, liquid)).To(Succeed())
	return Element{
		ID:                int(id),
		Type:              "glass",
		Mass:              mass,
		ShearModulus:      shear,
		Poisson:           poisson,
		ContactCurvature:  radius,
		PhysicalCurvature: radius,
		Position:          pos,
		CentreOfMass:      pos,
		Orientation:       vecmath.Identity(),
		Properties:        f.store.Data(property.Particle, id, true),
	}
}

func (f *fixture) resetContact(status, force float64) property.Data {
	f.store.Create(property.Contact, contactID)
	Expect(f.store.Set(property.Contact, contactID, BridgeStatus, status)).To(Succeed())
	Expect(f.store.Set(property.Contact, contactID, BridgeForce, force)).To(Succeed())
	return f.store.Data(property.Contact, contactID, false)
}

// pair places two wet glass spheres on the x axis with the given overlap.
func (f *fixture) pair(overlap, liquid float64) *Interaction {
	gap := 2*radius - overlap
	return &Interaction{
		Time:           1,
		Timestep:       1e-6,
		Elem1:          f.particle(1, vecmath.Pt(0, 0, 0), liquid),
		Elem2:          f.particle(2, vecmath.Pt(gap, 0, 0), liquid),
		Elem2IsSurface: true,
		Contact:        f.store.Data(property.Contact, contactID, false),
		Restitution:    0.5,
		StaticFriction: 0.3,
		ContactPoint:   vecmath.Pt(gap/2, 0, 0),
		NormalOverlap:  overlap,
	}
}

// wall places a wet glass sphere against a steel plane normal to x.
func (f *fixture) wall(overlap, liquid float64) *Interaction {
	plane := radius - overlap
	return &Interaction{
		Time:  1,
		Elem1: f.particle(1, vecmath.Pt(0, 0, 0), liquid),
		Elem2: Element{
			ID:                100,
			Type:              "steel",
			Mass:              1e20,
			Area:              1,
			ShearModulus:      7e10,
			Poisson:           0.3,
			ContactCurvature:  1e10,
			PhysicalCurvature: 1e10,
			Position:          vecmath.Pt(plane, 0, 0),
			CentreOfMass:      vecmath.Pt(plane, 0, 0),
			Orientation:       vecmath.Identity(),
		},
		Contact:        f.store.Data(property.Contact, contactID, false),
		Restitution:    0.5,
		StaticFriction: 0.3,
		ContactPoint:   vecmath.Pt(plane, 0, 0),
		NormalOverlap:  overlap,
	}
}

func (f *fixture) delta(name string) float64 {
	d, err := f.store.PendingDelta(property.Contact, contactID, name)
	Expect(err).NotTo(HaveOccurred())
	return d[0]
}

func (f *fixture) value(name string) float64 {
	v, err := f.store.Get(property.Contact, contactID, name)
	Expect(err).NotTo(HaveOccurred())
	return v[0]
}

// pairCapillary is the particle-particle capillary magnitude for the
// fixture's spheres at dimensionless separation s.
func pairCapillary(liquid, s float64) float64 {
	g := pairGeometry(radius, radius, mass, mass, liquid, liquid, 1000, 0.3)
	return pairFit(g.volumeStar, 0.3).force(g.radius, 0.07, s)
}
