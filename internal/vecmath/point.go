package vecmath

import "math"

// Point3 is a location in 3D space.
type Point3 struct {
	X, Y, Z float64
}

// Pt returns a Point3 with underflowing components snapped to zero.
func Pt(x, y, z float64) Point3 {
	return Point3{snap(x), snap(y), snap(z)}
}

func (p Point3) AddVector(v Vector3) Point3 {
	return Pt(p.X+v.X, p.Y+v.Y, p.Z+v.Z)
}

func (p Point3) SubVector(v Vector3) Point3 {
	return Pt(p.X-v.X, p.Y-v.Y, p.Z-v.Z)
}

// Sub returns the vector from o to p.
func (p Point3) Sub(o Point3) Vector3 {
	return Vec(p.X-o.X, p.Y-o.Y, p.Z-o.Z)
}

func (p Point3) Scale(s float64) Point3 {
	return Pt(p.X*s, p.Y*s, p.Z*s)
}

// Div divides every coordinate by d. A divisor for which IsZero holds
// yields Invalid in every coordinate.
func (p Point3) Div(d float64) Point3 {
	if IsZero(d) {
		return Point3{Invalid, Invalid, Invalid}
	}
	return Pt(p.X/d, p.Y/d, p.Z/d)
}

func (p Point3) Distance(o Point3) float64 {
	dx, dy, dz := p.X-o.X, p.Y-o.Y, p.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Equal reports whether every coordinate differs by less than Underflow.
func (p Point3) Equal(o Point3) bool {
	return IsZero(p.X-o.X) && IsZero(p.Y-o.Y) && IsZero(p.Z-o.Z)
}
