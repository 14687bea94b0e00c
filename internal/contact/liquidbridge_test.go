package contact

import (
	"errors"
	"math"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/liquidbridge/internal/prefs"
	"github.com/san-kum/liquidbridge/internal/property"
	"github.com/san-kum/liquidbridge/internal/vecmath"
)

var _ = Describe("LiquidBridge", func() {
	var f *fixture

	BeforeEach(func() {
		f = newFixture(wetPrefs())
	})

	Describe("lifecycle", func() {
		It("declares its custom properties", func() {
			m := f.model
			Expect(m.PreferenceFileName()).To(Equal("Liquid_Bridge_prefs.txt"))
			Expect(m.IsThreadSafe()).To(BeTrue())
			Expect(m.UsesCustomProperties()).To(BeTrue())

			Expect(m.NumberOfRequiredProperties(property.Particle)).To(Equal(1))
			Expect(m.NumberOfRequiredProperties(property.Contact)).To(Equal(2))
			Expect(m.NumberOfRequiredProperties(property.Geometry)).To(Equal(0))
			Expect(m.NumberOfRequiredProperties(property.Simulation)).To(Equal(0))

			def, ok := m.PropertyDetails(0, property.Particle)
			Expect(ok).To(BeTrue())
			Expect(def).To(Equal(property.Definition{Name: "Liquid Content", DataType: property.Double, Elements: 1, Unit: property.UnitNone}))

			def, ok = m.PropertyDetails(1, property.Contact)
			Expect(ok).To(BeTrue())
			Expect(def.Name).To(Equal("BridgeForce"))

			_, ok = m.PropertyDetails(2, property.Contact)
			Expect(ok).To(BeFalse())
			_, ok = m.PropertyDetails(0, property.Geometry)
			Expect(ok).To(BeFalse())
		})

		It("registers properties in a store", func() {
			Expect(f.store.Definitions(property.Contact)).To(HaveLen(2))
			Expect(f.store.Definitions(property.Particle)).To(HaveLen(1))
		})

		It("fails setup when the preference file cannot be opened", func() {
			m := NewLiquidBridge()
			err := m.Setup(filepath.Join(GinkgoT().TempDir(), "missing.txt"))
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, prefs.ErrOpen)).To(BeTrue())
		})

		It("loads the preference file", func() {
			path := filepath.Join(GinkgoT().TempDir(), prefs.FileName)
			body := "Cohesion_Start_Time 0.5\nLiquid_Density 998\nSurfaces Gamma Theta\nglass:steel 0.072 0.2\n"
			Expect(os.WriteFile(path, []byte(body), 0o644)).To(Succeed())

			m := NewLiquidBridge()
			Expect(m.Setup(path)).To(Succeed())
			Expect(m.CohesionStart()).To(Equal(0.5))
			Expect(m.LiquidDensity()).To(Equal(998.0))
			Expect(m.Parameters("steel", "glass").SurfaceTension).To(Equal(0.072))
			Expect(m.Parameters("glass", "glass").SurfaceTension).To(BeZero())
		})

		It("tolerates repeated stopping", func() {
			m := NewLiquidBridge()
			Expect(m.Starting()).To(Succeed())
			Expect(m.Running()).To(BeTrue())
			m.Stopping()
			m.Stopping()
			Expect(m.Running()).To(BeFalse())
		})
	})

	Describe("bridge formation", func() {
		It("forms a bridge on first contact", func() {
			f.resetContact(0, 0)
			out, status := f.model.CalculateForce(f.pair(0.001, 5))

			Expect(status).To(Equal(Success))
			Expect(f.delta(BridgeStatus)).To(Equal(1.0))
			Expect(f.delta(BridgeForce)).To(BeNumerically("~", pairCapillary(5, 0), 1e-12))
			Expect(f.delta(BridgeForce)).To(BeNumerically(">", 0))
			Expect(out.ChargeToElem1).To(BeZero())
		})

		It("forms the bridge but applies no cohesion before the start time", func() {
			p := wetPrefs()
			p.CohesionStart = 2
			f = newFixture(p)
			f.resetContact(0, 0)

			in := f.pair(1e-6, 5)
			in.Restitution = 0
			out, _ := f.model.CalculateForce(in)

			Expect(f.delta(BridgeStatus)).To(Equal(1.0))
			Expect(f.delta(BridgeForce)).To(BeZero())
			Expect(out.Normal.X).To(BeNumerically("<", 0))
		})

		It("applies no cohesion without liquid", func() {
			f.resetContact(0, 0)
			f.model.CalculateForce(f.pair(1e-6, 0))

			Expect(f.delta(BridgeStatus)).To(Equal(1.0))
			Expect(f.delta(BridgeForce)).To(BeZero())
		})

		It("applies no cohesion for an unregistered pair", func() {
			f.resetContact(0, 0)
			in := f.pair(1e-6, 5)
			in.Elem2.Type = "rubber"
			f.model.CalculateForce(in)

			Expect(f.delta(BridgeStatus)).To(Equal(1.0))
			Expect(f.delta(BridgeForce)).To(BeZero())
		})

		It("leaves an approaching pair untouched", func() {
			f.resetContact(0, 0)
			in := f.pair(-1e-5, 5)
			in.TangentialOverlap = vecmath.Vec(0, 1e-7, 0)
			out, _ := f.model.CalculateForce(in)

			Expect(out.Normal.IsZero()).To(BeTrue())
			Expect(out.Tangential.IsZero()).To(BeTrue())
			Expect(out.TangentialOverlap).To(Equal(in.TangentialOverlap))
			Expect(f.delta(BridgeStatus)).To(BeZero())
			Expect(f.delta(BridgeForce)).To(BeZero())
		})
	})

	Describe("an existing bridge", func() {
		It("persists from contact into separation", func() {
			f.resetContact(0, 0)
			f.model.CalculateForce(f.pair(1e-6, 5))
			f.store.Commit()
			Expect(f.value(BridgeStatus)).To(Equal(1.0))
			atContact := f.value(BridgeForce)

			out, _ := f.model.CalculateForce(f.pair(-5e-6, 5))
			Expect(f.delta(BridgeStatus)).To(BeZero())

			// Pulls element 1 towards element 2.
			Expect(out.Normal.X).To(BeNumerically("~", pairCapillary(5, 0.005), 1e-12))
			Expect(out.Normal.X).To(BeNumerically("~", 3.149e-4, 1e-6))
			Expect(out.UnsymNormal.IsZero()).To(BeTrue())
			Expect(out.Tangential.IsZero()).To(BeTrue())

			f.store.Commit()
			Expect(f.value(BridgeStatus)).To(Equal(1.0))
			Expect(f.value(BridgeForce)).To(BeNumerically("~", out.Normal.X, 1e-15))
			Expect(f.value(BridgeForce)).To(BeNumerically("<", atContact))
		})

		It("ruptures past the rupture distance", func() {
			rupture, _ := f.model.RuptureDistance(false, radius, radius, mass, mass, 5, 5, "glass", "glass")
			Expect(rupture).To(BeNumerically("~", 2.245e-3, 1e-6))

			f.resetContact(1, 0.3)
			out, _ := f.model.CalculateForce(f.pair(-1.01*rupture, 5))

			Expect(f.delta(BridgeStatus)).To(Equal(-1.0))
			Expect(f.delta(BridgeForce)).To(Equal(-0.3))
			Expect(out.Normal.IsZero()).To(BeTrue())

			f.store.Commit()
			Expect(f.value(BridgeStatus)).To(BeZero())
			Expect(f.value(BridgeForce)).To(BeZero())
		})

		It("holds just inside the rupture distance", func() {
			rupture, _ := f.model.RuptureDistance(false, radius, radius, mass, mass, 5, 5, "glass", "glass")
			f.resetContact(1, 0.3)
			out, _ := f.model.CalculateForce(f.pair(-0.99*rupture, 5))

			Expect(f.delta(BridgeStatus)).To(BeZero())
			Expect(out.Normal.X).To(BeNumerically(">", 0))
			Expect(f.delta(BridgeForce)).To(BeNumerically("~", out.Normal.X-0.3, 1e-15))
		})

		It("does not reform without contact", func() {
			f.resetContact(0, 0)
			out, _ := f.model.CalculateForce(f.pair(-1e-6, 5))

			Expect(f.delta(BridgeStatus)).To(BeZero())
			Expect(out.Normal.IsZero()).To(BeTrue())
		})
	})

	Describe("wall contacts", func() {
		It("uses the particle-wall rupture distance", func() {
			wallRupture, vs := f.model.RuptureDistance(true, radius, 0, mass, 0, 5, 0, "glass", "steel")
			pairRupture, _ := f.model.RuptureDistance(false, radius, radius, mass, mass, 5, 5, "glass", "glass")
			Expect(vs).To(BeNumerically("~", 3.349, 1e-3))
			Expect(wallRupture).NotTo(BeNumerically("~", pairRupture, 1e-6))

			f.resetContact(1, 0)
			out, _ := f.model.CalculateForce(f.wall(-0.9*wallRupture, 5))
			Expect(f.delta(BridgeStatus)).To(BeZero())
			Expect(out.Normal.X).To(BeNumerically(">", 0))

			f.resetContact(1, 0)
			out, _ = f.model.CalculateForce(f.wall(-1.1*wallRupture, 5))
			Expect(f.delta(BridgeStatus)).To(Equal(-1.0))
			Expect(out.Normal.IsZero()).To(BeTrue())
		})

		It("matches the sphere-wall fit in contact", func() {
			f.resetContact(1, 0)
			f.model.CalculateForce(f.wall(-1e-7, 5))

			g := wallGeometry(radius, mass, 5, 1000, 0.3)
			want := wallFit(g.volumeStar, 0.3).force(radius, 0.07, 1e-7/radius)
			Expect(f.delta(BridgeForce)).To(BeNumerically("~", want, 1e-12))
		})
	})

	Describe("normal contact", func() {
		It("repels and damps an approaching pair", func() {
			f.resetContact(0, 0)
			in := f.pair(1e-6, 0)
			in.Elem1.Velocity = vecmath.Vec(0.01, 0, 0)
			out, _ := f.model.CalculateForce(in)

			Expect(out.Normal.X).To(BeNumerically("<", 0))
			Expect(out.UnsymNormal.X).To(BeNumerically("<", 0))
		})

		It("damps against a separating pair", func() {
			f.resetContact(0, 0)
			in := f.pair(1e-6, 0)
			in.Elem1.Velocity = vecmath.Vec(-0.01, 0, 0)
			out, _ := f.model.CalculateForce(in)

			Expect(out.UnsymNormal.X).To(BeNumerically(">", 0))
		})

		It("has no damping for zero restitution", func() {
			f.resetContact(0, 0)
			in := f.pair(1e-6, 0)
			in.Restitution = 0
			in.Elem1.Velocity = vecmath.Vec(0.01, 0.01, 0)
			out, _ := f.model.CalculateForce(in)

			Expect(out.UnsymNormal.IsZero()).To(BeTrue())
			Expect(out.UnsymTangential.IsZero()).To(BeTrue())
		})
	})

	Describe("tangential contact", func() {
		const overlap = 1e-5
		var st float64

		BeforeEach(func() {
			gStar := 1 / (2 * (2 - poisson) / shear)
			st = 8 * gStar * math.Sqrt(radius/2*overlap)
		})

		It("clips to the Coulomb limit and rescales the overlap", func() {
			f.resetContact(0, 0)
			in := f.pair(overlap, 0)
			in.TangentialOverlap = vecmath.Vec(0, 1e-4, 0)
			out, _ := f.model.CalculateForce(in)

			limit := 0.3 * out.Normal.Length()
			Expect(out.Tangential.Length()).To(BeNumerically("~", limit, limit*1e-9))
			Expect(out.UnsymTangential).To(Equal(out.Tangential))
			Expect(out.Tangential.Y).To(BeNumerically("<", 0))

			Expect(out.TangentialOverlap.X).To(BeZero())
			Expect(out.TangentialOverlap.Y).To(BeNumerically("~", limit/st, limit/st*1e-9))
			Expect(out.TangentialOverlap.Y).To(BeNumerically("<", in.TangentialOverlap.Y))
		})

		It("adds damping below the limit", func() {
			f.resetContact(0, 0)
			in := f.pair(overlap, 0)
			in.TangentialOverlap = vecmath.Vec(0, 1e-9, 0)
			in.Elem1.Velocity = vecmath.Vec(0, 0, 0.01)
			out, _ := f.model.CalculateForce(in)

			Expect(out.TangentialOverlap).To(Equal(in.TangentialOverlap))
			Expect(out.UnsymTangential.Z).To(BeNumerically("<", 0))
			spring := out.Tangential.Sub(out.UnsymTangential)
			Expect(spring.Y).To(BeNumerically("~", -st*1e-9, st*1e-18))
			Expect(spring.Z).To(BeNumerically("~", 0, 1e-15))
		})
	})

	Describe("rolling friction", func() {
		It("opposes the spin of a rotating element only", func() {
			f.resetContact(0, 0)
			in := f.pair(1e-6, 5)
			in.RollingFriction = 0.1
			in.Elem1.AngularVelocity = vecmath.Vec(0, 0, 3)
			out, _ := f.model.CalculateForce(in)

			want := out.Normal.Length() * radius * 0.1
			Expect(out.Elem1Torque.Z).To(BeNumerically("~", -want, want*1e-12))
			Expect(out.Elem1Torque.Dot(in.Elem1.AngularVelocity)).To(BeNumerically("<", 0))
			Expect(out.Elem1UnsymTorque).To(Equal(out.Elem1Torque))
			Expect(out.Elem2Torque.IsZero()).To(BeTrue())
			Expect(out.Elem2UnsymTorque.IsZero()).To(BeTrue())
		})
	})

	Describe("missing property data", func() {
		It("treats absent accessors as zero and skips writes", func() {
			in := f.pair(1e-6, 5)
			in.Contact = nil
			in.Elem1.Properties = nil
			in.Elem2.Properties = nil

			var out Forces
			var status Status
			Expect(func() { out, status = f.model.CalculateForce(in) }).NotTo(Panic())
			Expect(status).To(Equal(Success))
			Expect(out.Normal.X).To(BeNumerically("<", 0))
		})

		It("ignores a read-only contact accessor", func() {
			f.resetContact(0, 0)
			in := f.pair(1e-6, 5)
			in.Contact = f.store.Data(property.Contact, contactID, true)
			f.model.CalculateForce(in)

			Expect(f.delta(BridgeStatus)).To(BeZero())
			Expect(f.delta(BridgeForce)).To(BeZero())
		})
	})
})
