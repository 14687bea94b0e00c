package host

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/liquidbridge/internal/contact"
	"github.com/san-kum/liquidbridge/internal/property"
	"github.com/san-kum/liquidbridge/internal/vecmath"
)

// pairKey identifies a contact. b is a particle index, or a wall index when
// wall is set.
type pairKey struct {
	a, b int
	wall bool
}

type contactState struct {
	id         int64
	key        pairKey
	seen       int
	tangential vecmath.Vector3

	// Geometry of the current step.
	normal  mgl64.Vec3 // unit, from element 1 towards element 2
	point   mgl64.Vec3
	overlap float64

	in     contact.Interaction
	out    contact.Forces
	status contact.Status
}

// detect refreshes the contact list for the current positions and returns
// the smallest surface gap.
func (w *World) detect() float64 {
	minGap := math.Inf(1)

	for i := range w.particles {
		p := &w.particles[i]
		for j := i + 1; j < len(w.particles); j++ {
			q := &w.particles[j]
			d := q.Position.Sub(p.Position)
			dist := d.Len()
			minGap = math.Min(minGap, dist-p.Radius-q.Radius)
			if dist >= p.ContactRadius+q.ContactRadius || dist == 0 {
				continue
			}

			n := d.Mul(1 / dist)
			overlap := p.Radius + q.Radius - dist
			cs := w.track(pairKey{a: i, b: j})
			cs.normal = n
			cs.overlap = overlap
			cs.point = p.Position.Add(n.Mul(p.Radius - overlap/2))
		}

		for k := range w.walls {
			wall := &w.walls[k]
			dist := p.Position.Sub(wall.Point).Dot(wall.Normal)
			minGap = math.Min(minGap, dist-p.Radius)
			if dist >= p.ContactRadius {
				continue
			}

			n := wall.Normal.Mul(-1)
			overlap := p.Radius - dist
			cs := w.track(pairKey{a: i, b: k, wall: true})
			cs.normal = n
			cs.overlap = overlap
			cs.point = p.Position.Add(n.Mul(p.Radius - overlap/2))
		}
	}

	w.prune()
	return minGap
}

// track returns the contact for key, creating it and its property record
// on first sight.
func (w *World) track(key pairKey) *contactState {
	cs, ok := w.contacts[key]
	if !ok {
		w.nextContact++
		cs = &contactState{id: w.nextContact, key: key}
		w.contacts[key] = cs
		w.order = append(w.order, cs)
		w.store.Create(property.Contact, cs.id)
	}
	cs.seen = w.step
	return cs
}

// prune drops contacts that were not seen this step, keeping id order.
func (w *World) prune() {
	kept := w.order[:0]
	for _, cs := range w.order {
		if cs.seen == w.step {
			kept = append(kept, cs)
			continue
		}
		delete(w.contacts, cs.key)
		w.store.Remove(property.Contact, cs.id)
	}
	for i := len(kept); i < len(w.order); i++ {
		w.order[i] = nil
	}
	w.order = kept
}

// velocityAt is the velocity of particle i's material at point x.
func (w *World) velocityAt(i int, x mgl64.Vec3) mgl64.Vec3 {
	p := &w.particles[i]
	return p.Velocity.Add(p.AngularVelocity.Cross(x.Sub(p.Position)))
}

// advanceTangential integrates the tangential overlap of cs over one step
// and keeps it in the tangent plane. It resets once the surfaces separate.
func (w *World) advanceTangential(cs *contactState) {
	if cs.overlap <= 0 {
		cs.tangential = vecmath.Vector3{}
		return
	}

	rel := w.velocityAt(cs.key.a, cs.point)
	if !cs.key.wall {
		rel = rel.Sub(w.velocityAt(cs.key.b, cs.point))
	}
	n := cs.normal
	vt := rel.Sub(n.Mul(n.Dot(rel)))

	t := cs.tangential.Vec3().Add(vt.Mul(w.opts.Dt))
	t = t.Sub(n.Mul(n.Dot(t)))
	cs.tangential = vecmath.FromVec3(t)
}
