package host

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/liquidbridge/internal/bridge"
	"github.com/san-kum/liquidbridge/internal/contact"
	"github.com/san-kum/liquidbridge/internal/prefs"
	"github.com/san-kum/liquidbridge/internal/property"
)

const (
	radius = 0.001
	mass   = 0.001
)

func wetModel() *contact.LiquidBridge {
	m := contact.NewLiquidBridge()
	m.Configure(&prefs.Prefs{
		LiquidDensity: 1000,
		Rows: []prefs.Row{
			{TypeA: "glass", TypeB: "glass", Params: bridge.Parameters{SurfaceTension: 0.07, WettingAngle: 0.3}},
			{TypeA: "glass", TypeB: "steel", Params: bridge.Parameters{SurfaceTension: 0.07, WettingAngle: 0.3}},
		},
	})
	return m
}

func glass(pos mgl64.Vec3, fixed bool) Particle {
	return Particle{
		Type:          "glass",
		Radius:        radius,
		ContactRadius: 2.5 * radius,
		Mass:          mass,
		ShearModulus:  1e6,
		Poisson:       0.25,
		Position:      pos,
		Fixed:         fixed,
		Properties:    map[string]float64{contact.LiquidContent: 5},
	}
}

func floor() Wall {
	return Wall{Type: "steel", Normal: mgl64.Vec3{0, 0, 1}, ShearModulus: 7e10, Poisson: 0.3, Area: 1}
}

type fatalModel struct {
	*contact.LiquidBridge
	status contact.Status
}

func (m fatalModel) CalculateForce(*contact.Interaction) (contact.Forces, contact.Status) {
	return contact.Forces{}, m.status
}

type countMetric struct{ n int }

func (c *countMetric) Name() string   { return "count" }
func (c *countMetric) Observe(Sample) { c.n++ }
func (c *countMetric) Value() float64 { return float64(c.n) }
func (c *countMetric) Reset()         { c.n = 0 }

var _ = Describe("World", func() {
	var (
		model *contact.LiquidBridge
		w     *World
	)

	BeforeEach(func() {
		model = wetModel()
		var err error
		w, err = New(model, Options{Dt: 1e-6, Restitution: 0.5, StaticFriction: 0.3, Workers: 2})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(w.Close)
	})

	Describe("construction", func() {
		It("registers the model's properties and starts it", func() {
			Expect(model.Running()).To(BeTrue())
			Expect(w.Store().Definitions(property.Particle)).To(HaveLen(1))
			Expect(w.Store().Definitions(property.Contact)).To(HaveLen(2))
		})

		It("rejects a non-positive timestep", func() {
			_, err := New(wetModel(), Options{})
			Expect(errors.Is(err, ErrInvalidOptions)).To(BeTrue())
		})

		It("fails when the preference file is missing", func() {
			m := contact.NewLiquidBridge()
			_, err := New(m, Options{Dt: 1e-6, PrefsPath: filepath.Join(GinkgoT().TempDir(), "nope.txt")})
			Expect(errors.Is(err, ErrSetup)).To(BeTrue())
			Expect(errors.Is(err, prefs.ErrOpen)).To(BeTrue())
			Expect(m.Running()).To(BeFalse())
		})

		It("validates particles and walls", func() {
			_, err := w.AddParticle(Particle{Radius: 0, Mass: 1})
			Expect(errors.Is(err, ErrInvalidParticle)).To(BeTrue())

			p := glass(mgl64.Vec3{}, false)
			p.Properties = map[string]float64{"Colour": 1}
			_, err = w.AddParticle(p)
			Expect(errors.Is(err, ErrInvalidParticle)).To(BeTrue())
			Expect(errors.Is(err, property.ErrUnknown)).To(BeTrue())
			Expect(w.Store().Len(property.Particle)).To(BeZero())

			_, err = w.AddWall(Wall{})
			Expect(errors.Is(err, ErrInvalidWall)).To(BeTrue())
		})

		It("assigns ids and seeds particle properties", func() {
			id, err := w.AddParticle(glass(mgl64.Vec3{}, false))
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal(0))
			id, err = w.AddParticle(glass(mgl64.Vec3{0.01, 0, 0}, false))
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal(1))

			v, err := w.Store().Get(property.Particle, 1, contact.LiquidContent)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal([]float64{5}))
			Expect(w.Particle(1).Orientation).To(Equal(mgl64.Ident3()))
		})
	})

	Describe("a pulled-apart pair", func() {
		BeforeEach(func() {
			_, err := w.AddParticle(glass(mgl64.Vec3{0, 0, 0}, true))
			Expect(err).NotTo(HaveOccurred())
			_, err = w.AddParticle(glass(mgl64.Vec3{2*radius - 1e-6, 0, 0}, true))
			Expect(err).NotTo(HaveOccurred())
		})

		moveTo := func(gap float64) {
			w.Particle(1).Position = mgl64.Vec3{2*radius + gap, 0, 0}
			Expect(w.Step()).To(Succeed())
		}

		It("keeps the bridge until the rupture distance", func() {
			Expect(w.Step()).To(Succeed())
			s := w.Sample()
			Expect(s.Contacts).To(Equal(1))
			Expect(s.Bridges).To(Equal(1))

			moveTo(5e-6)
			cs := w.Contacts()
			Expect(cs).To(HaveLen(1))
			Expect(cs[0].Overlap).To(BeNumerically("~", -5e-6, 1e-12))
			Expect(cs[0].BridgeStatus).To(Equal(1.0))
			Expect(cs[0].Forces.Normal.X).To(BeNumerically("~", 3.149e-4, 1e-6))
			Expect(cs[0].BridgeForce).To(BeNumerically("~", cs[0].Forces.Normal.X, 1e-12))
			Expect(w.Sample().BridgeForce).To(BeNumerically(">", 0))

			rupture, _ := model.RuptureDistance(false, radius, radius, mass, mass, 5, 5, "glass", "glass")
			moveTo(1.05 * rupture)
			s = w.Sample()
			Expect(s.Contacts).To(Equal(1))
			Expect(s.Bridges).To(BeZero())
			Expect(s.BridgeForce).To(BeZero())

			moveTo(0.01)
			Expect(w.Sample().Contacts).To(BeZero())
			Expect(w.Store().Len(property.Contact)).To(BeZero())
		})

		It("drags a resting particle with a sliding neighbour", func() {
			w.Particle(1).Velocity = mgl64.Vec3{0, 0.01, 0}
			Expect(w.Step()).To(Succeed())
			Expect(w.Step()).To(Succeed())

			cs := w.Contacts()
			Expect(cs).To(HaveLen(1))
			Expect(cs[0].Forces.Tangential.Y).To(BeNumerically(">", 0))
			Expect(cs[0].Forces.TangentialOverlap.Y).To(BeNumerically("<", 0))
		})

		It("tracks time and steps", func() {
			Expect(w.Step()).To(Succeed())
			Expect(w.Step()).To(Succeed())
			Expect(w.Steps()).To(Equal(2))
			Expect(w.Time()).To(BeNumerically("~", 2e-6, 1e-18))
			Expect(w.Sample().MinGap).To(BeNumerically("~", -1e-6, 1e-12))
		})
	})

	Describe("a particle on a wet floor", func() {
		It("holds a bridge to the wall", func() {
			_, err := w.AddWall(floor())
			Expect(err).NotTo(HaveOccurred())
			_, err = w.AddParticle(glass(mgl64.Vec3{0, 0, radius - 1e-7}, false))
			Expect(err).NotTo(HaveOccurred())

			res, err := w.Run(context.Background(), 2e-4)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(Equal(200))
			Expect(res.Samples).To(HaveLen(201))

			final := res.Final()
			Expect(final.Contacts).To(Equal(1))
			Expect(final.Bridges).To(Equal(1))
			Expect(final.BridgeForce).To(BeNumerically(">", 0))
			Expect(w.Contacts()[0].Wall).To(BeTrue())
		})
	})

	Describe("running", func() {
		It("reports every sample to metrics and observers", func() {
			_, err := w.AddParticle(glass(mgl64.Vec3{}, false))
			Expect(err).NotTo(HaveOccurred())

			metric := &countMetric{}
			w.AddMetric(metric)
			seen := 0
			res, err := w.Run(context.Background(), 1e-5, ObserverFunc(func(Sample) { seen++ }))
			Expect(err).NotTo(HaveOccurred())
			Expect(seen).To(Equal(11))
			Expect(res.Metrics).To(HaveKeyWithValue("count", 11.0))
		})

		It("stops on cancellation", func() {
			_, err := w.AddParticle(glass(mgl64.Vec3{}, false))
			Expect(err).NotTo(HaveOccurred())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := w.Run(ctx, 1e-3)
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(res.Steps).To(BeZero())
			Expect(res.Samples).To(HaveLen(1))
		})

		It("rejects a non-positive duration", func() {
			_, err := w.Run(context.Background(), 0)
			Expect(errors.Is(err, ErrInvalidOptions)).To(BeTrue())
		})

		It("refuses to step after Close", func() {
			w.Close()
			w.Close()
			Expect(model.Running()).To(BeFalse())
			Expect(w.Step()).To(MatchError(ErrClosed))
		})
	})

	Describe("contact status", func() {
		build := func(status contact.Status) *World {
			fw, err := New(fatalModel{LiquidBridge: wetModel(), status: status}, Options{Dt: 1e-6})
			Expect(err).NotTo(HaveOccurred())
			_, err = fw.AddParticle(glass(mgl64.Vec3{}, true))
			Expect(err).NotTo(HaveOccurred())
			_, err = fw.AddParticle(glass(mgl64.Vec3{2*radius - 1e-6, 0, 0}, true))
			Expect(err).NotTo(HaveOccurred())
			return fw
		}

		It("aborts the step on a fatal error", func() {
			err := build(contact.FatalError).Step()
			Expect(errors.Is(err, ErrFatalContact)).To(BeTrue())

			var ce *ContactError
			Expect(errors.As(err, &ce)).To(BeTrue())
			Expect(ce.Contact).To(Equal(int64(1)))
			Expect(ce.Step).To(BeZero())
		})

		It("counts recoverable errors and carries on", func() {
			fw := build(contact.Error)
			res, err := fw.Run(context.Background(), 3e-6)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.ContactErrors).To(Equal(3))
		})
	})
})

var _ = Describe("parallel evaluation", func() {
	pile := func(workers int) []Sample {
		w, err := New(wetModel(), Options{
			Dt:              1e-6,
			Gravity:         mgl64.Vec3{0, 0, -9.81},
			Restitution:     0.5,
			StaticFriction:  0.3,
			RollingFriction: 0.01,
			Workers:         workers,
		})
		Expect(err).NotTo(HaveOccurred())
		defer w.Close()

		_, err = w.AddWall(floor())
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < 40; i++ {
			x := float64(i%10) * 1.9 * radius
			z := radius + float64(i/10)*1.9*radius
			p := glass(mgl64.Vec3{x, 0, z}, false)
			p.ContactRadius = 1.2 * radius
			p.Velocity = mgl64.Vec3{0.001 * float64(i%3), 0, -0.001 * float64(i%4)}
			_, err := w.AddParticle(p)
			Expect(err).NotTo(HaveOccurred())
		}

		res, err := w.Run(context.Background(), 1e-4)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Final().Contacts).To(BeNumerically(">", minChunk))
		return res.Samples
	}

	It("gives identical results for any worker count", func() {
		Expect(pile(8)).To(Equal(pile(1)))
	})
})
