package vecmath

import "math"

// Vector3 is a direction and magnitude in 3D space.
type Vector3 struct {
	X, Y, Z float64
}

// Vec returns a Vector3 with underflowing components snapped to zero.
func Vec(x, y, z float64) Vector3 {
	return Vector3{snap(x), snap(y), snap(z)}
}

func invalidVector() Vector3 {
	return Vector3{Invalid, Invalid, Invalid}
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vec(v.X+o.X, v.Y+o.Y, v.Z+o.Z)
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vec(v.X-o.X, v.Y-o.Y, v.Z-o.Z)
}

func (v Vector3) Neg() Vector3 {
	return Vec(-v.X, -v.Y, -v.Z)
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vec(v.X*s, v.Y*s, v.Z*s)
}

// Div divides every component by d. A divisor for which IsZero holds
// yields Invalid in every component.
func (v Vector3) Div(d float64) Vector3 {
	if IsZero(d) {
		return invalidVector()
	}
	return Vec(v.X/d, v.Y/d, v.Z/d)
}

// MulMatrix returns the product of the matrix rows with v.
func (v Vector3) MulMatrix(m Matrix3x3) Vector3 {
	return Vec(
		v.X*m.XX+v.Y*m.XY+v.Z*m.XZ,
		v.X*m.YX+v.Y*m.YY+v.Z*m.YZ,
		v.X*m.ZX+v.Y*m.ZY+v.Z*m.ZZ,
	)
}

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vec(
		v.Y*o.Z-v.Z*o.Y,
		v.Z*o.X-v.X*o.Z,
		v.X*o.Y-v.Y*o.X,
	)
}

func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vector3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

func (v Vector3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns v scaled to unit length. A zero-length vector is
// returned unchanged.
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if IsZero(l) {
		return Vec(v.X, v.Y, v.Z)
	}
	return Vec(v.X/l, v.Y/l, v.Z/l)
}

// IsZero reports whether the vector has zero length within Underflow.
func (v Vector3) IsZero() bool {
	return IsZero(v.LengthSquared())
}

// Equal compares component-wise with AreEqual.
func (v Vector3) Equal(o Vector3) bool {
	return AreEqual(v.X, o.X) && AreEqual(v.Y, o.Y) && AreEqual(v.Z, o.Z)
}
