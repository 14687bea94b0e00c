package contact

import (
	"math"

	"github.com/san-kum/liquidbridge/internal/property"
	"github.com/san-kum/liquidbridge/internal/vecmath"
)

const bridgePresent = 1.0

var dampingScale = 2 * math.Sqrt(5.0/6.0)

// equivalent holds the reduced properties of a contact pair.
type equivalent struct {
	radius float64
	mass   float64
	youngs float64
	shear  float64
}

func reduce(e1, e2 *Element) equivalent {
	y1 := 2 * (1 + e1.Poisson) * e1.ShearModulus
	y2 := 2 * (1 + e2.Poisson) * e2.ShearModulus

	return equivalent{
		radius: e1.PhysicalCurvature * e2.PhysicalCurvature / (e1.PhysicalCurvature + e2.PhysicalCurvature),
		mass:   e1.Mass * e2.Mass / (e1.Mass + e2.Mass),
		youngs: 1 / ((1-e1.Poisson*e1.Poisson)/y1 + (1-e2.Poisson*e2.Poisson)/y2),
		shear:  1 / ((2-e1.Poisson)/e1.ShearModulus + (2-e2.Poisson)/e2.ShearModulus),
	}
}

func setDelta(slot *float64, v float64) {
	if slot != nil {
		*slot = v
	}
}

// CalculateForce evaluates one contact. It always returns Success.
func (m *LiquidBridge) CalculateForce(in *Interaction) (Forces, Status) {
	out := Forces{TangentialOverlap: in.TangentialOverlap}
	e1, e2 := &in.Elem1, &in.Elem2

	lc1 := property.Scalar(e1.Properties, LiquidContent)
	lc2 := property.Scalar(e2.Properties, LiquidContent)
	status := property.Scalar(in.Contact, BridgeStatus)
	force0 := property.Scalar(in.Contact, BridgeForce)
	statusDelta := property.DeltaSlot(in.Contact, BridgeStatus)
	forceDelta := property.DeltaSlot(in.Contact, BridgeForce)

	relVel := e1.Velocity.Sub(e2.Velocity)
	unitCP := in.ContactPoint.Sub(e1.Position).Normalize()
	relVelN := unitCP.Scale(unitCP.Dot(relVel))
	relVelT := relVel.Sub(relVelN)

	eq := reduce(e1, e2)
	params := m.table.Lookup(e1.Type, e2.Type)
	theta := params.WettingAngle

	var g bridgeGeometry
	if in.Elem2IsSurface {
		g = pairGeometry(e1.PhysicalCurvature, e2.PhysicalCurvature, e1.Mass, e2.Mass, lc1, lc2, m.liquidDensity, theta)
	} else {
		g = wallGeometry(e1.PhysicalCurvature, e1.Mass, lc1, m.liquidDensity, theta)
	}

	// Normal spring-dashpot and bridge state.
	overlap := in.NormalOverlap
	var fn, fnd vecmath.Vector3
	var damping float64
	newBridge, broken := false, false

	switch {
	case overlap > 0:
		kn := 4.0 / 3.0 * eq.youngs * math.Sqrt(eq.radius)
		fn = unitCP.Scale(-kn * math.Pow(overlap, 1.5))

		damping = dampingRatio(in.Restitution)
		sn := 2.0 * eq.youngs * math.Sqrt(eq.radius*overlap)
		fnd = unitCP.Scale(dampingScale * damping * math.Sqrt(sn*eq.mass) * relVelN.Length())
		if relVelN.Dot(unitCP) > 0 {
			fnd = fnd.Neg()
		}

		if status != bridgePresent {
			setDelta(statusDelta, bridgePresent-status)
			newBridge = true
		}
	case -overlap > g.rupture && status == bridgePresent:
		// BridgeForce is zeroed below since no capillary force acts.
		setDelta(statusDelta, -status)
		broken = true
	}

	// Capillary cohesion.
	exists := (status == bridgePresent && !broken) || newBridge
	var fLiq vecmath.Vector3
	if exists && in.Time >= m.cohesionStart && g.volumeStar != 0 {
		s := 0.0
		if overlap <= 0 {
			s = -overlap / g.radius
		}
		var fit mikami
		if in.Elem2IsSurface {
			fit = pairFit(g.volumeStar, theta)
		} else {
			fit = wallFit(g.volumeStar, theta)
		}
		fLiq = unitCP.Scale(fit.force(g.radius, params.SurfaceTension, s))
	}

	out.Normal = fn.Add(fnd).Add(fLiq)
	out.UnsymNormal = fnd
	setDelta(forceDelta, fLiq.Length()-force0)

	// Tangential spring with Coulomb slip.
	if overlap > 0 {
		st := 8.0 * eq.shear * math.Sqrt(eq.radius*overlap)
		ft := in.TangentialOverlap.Scale(-st)
		limit := fn.Length() * in.StaticFriction

		if ft.Length() > limit {
			slip := ft.Scale(limit / ft.Length())
			out.Tangential = slip
			out.UnsymTangential = slip
			out.TangentialOverlap = slip.Neg().Div(st)
		} else {
			ftd := relVelT.Scale(-dampingScale * damping * math.Sqrt(st*eq.mass))
			out.Tangential = ft.Add(ftd)
			out.UnsymTangential = ftd
		}
	}

	// Rolling friction opposes each element's spin.
	fnTotal := out.Normal.Length()
	out.Elem1Torque = rollingTorque(e1, fnTotal, in.RollingFriction)
	out.Elem1UnsymTorque = out.Elem1Torque
	out.Elem2Torque = rollingTorque(e2, fnTotal, in.RollingFriction)
	out.Elem2UnsymTorque = out.Elem2Torque

	return out, Success
}

func rollingTorque(e *Element, normal, friction float64) vecmath.Vector3 {
	if vecmath.IsZero(e.AngularVelocity.LengthSquared()) {
		return vecmath.Vector3{}
	}
	return e.AngularVelocity.Normalize().Scale(-normal * e.PhysicalCurvature * friction)
}
