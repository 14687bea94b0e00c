package contact

import (
	"math"

	"github.com/san-kum/liquidbridge/internal/vecmath"
)

// bridgeGeometry is the size of a liquid bridge between two surfaces.
type bridgeGeometry struct {
	radius     float64 // characteristic radius used to scale the bridge
	volumeStar float64 // bridge volume over radius cubed
	rupture    float64 // separation at which the bridge breaks
}

// mikami holds the coefficients of F = π R γ (exp(a s' + b) + c).
type mikami struct {
	a, b, c float64
}

// liquidVolume is the volume of liquid a particle contributes to one
// bridge. content is a mass percentage; half of the particle's liquid is
// spread over the spherical cap given by capFraction.
func liquidVolume(content, mass, density, capFraction float64) float64 {
	if density <= 0 {
		return 0
	}
	return 0.01 * content * mass / density / 2.0 * capFraction
}

// pairGeometry follows the Derjaguin radius of Willett et al. (2000) and
// the cap volume split of Shi and McCarthy (2008).
func pairGeometry(r1, r2, m1, m2, lc1, lc2, density, theta float64) bridgeGeometry {
	radius := 2.0 * r1 * r2 / (r1 + r2)
	sum := (r1 + r2) * (r1 + r2)

	v1 := liquidVolume(lc1, m1, density, 1-math.Sqrt(1-r2*r2/sum))
	v2 := liquidVolume(lc2, m2, density, 1-math.Sqrt(1-r1*r1/sum))
	vs := (v1 + v2) / math.Pow(radius, 3)

	return bridgeGeometry{
		radius:     radius,
		volumeStar: vs,
		rupture:    radius * (0.99 + 0.62*theta) * math.Pow(vs, 0.34),
	}
}

// wallGeometry treats the wall as a sphere of the particle's own radius
// for the volume split; only the particle holds liquid.
func wallGeometry(r1, m1, lc1, density, theta float64) bridgeGeometry {
	v1 := liquidVolume(lc1, m1, density, 1-math.Sqrt(3.0/4.0))
	vs := v1 / math.Pow(r1, 3)

	return bridgeGeometry{
		radius:     r1,
		volumeStar: vs,
		rupture:    r1 * (0.95 + 0.22*theta) * math.Pow(vs, 0.32),
	}
}

func pairFit(vs, theta float64) mikami {
	lnV := math.Log(vs)
	return mikami{
		a: -1.1 / math.Pow(vs, 0.53),
		b: (-0.34*lnV-0.96)*theta*theta - 0.019*lnV + 0.48,
		c: 0.0042*lnV + 0.078,
	}
}

func wallFit(vs, theta float64) mikami {
	lnV := math.Log(vs)
	return mikami{
		a: -1.9 / math.Pow(vs, 0.51),
		b: (-0.16*lnV-0.76)*theta*theta - 0.012*lnV + 1.2,
		c: 0.013*lnV + 0.18,
	}
}

// force returns the capillary force magnitude at dimensionless separation s.
func (f mikami) force(radius, gamma, s float64) float64 {
	return vecmath.Pi * radius * gamma * (math.Exp(f.a*s+f.b) + f.c)
}

// RuptureDistance returns the separation at which a bridge between the
// given surfaces breaks, and the dimensionless bridge volume. r2 and m2 are
// ignored for a wall contact.
func (m *LiquidBridge) RuptureDistance(wall bool, r1, r2, m1, m2, lc1, lc2 float64, typeA, typeB string) (rupture, volumeStar float64) {
	theta := m.table.Lookup(typeA, typeB).WettingAngle
	var g bridgeGeometry
	if wall {
		g = wallGeometry(r1, m1, lc1, m.liquidDensity, theta)
	} else {
		g = pairGeometry(r1, r2, m1, m2, lc1, lc2, m.liquidDensity, theta)
	}
	return g.rupture, g.volumeStar
}

// dampingRatio maps a coefficient of restitution to the viscous damping
// ratio of the spring-dashpot contact.
func dampingRatio(restitution float64) float64 {
	if restitution <= 0 {
		return 0
	}
	l := math.Log(restitution)
	return -l / math.Sqrt(l*l+vecmath.Pi*vecmath.Pi)
}
