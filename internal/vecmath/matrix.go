package vecmath

import "math"

// Matrix3x3 is a 3x3 matrix laid out as
//
//	XX XY XZ
//	YX YY YZ
//	ZX ZY ZZ
type Matrix3x3 struct {
	XX, XY, XZ float64
	YX, YY, YZ float64
	ZX, ZY, ZZ float64
}

// Identity returns the identity matrix.
func Identity() Matrix3x3 {
	return Matrix3x3{XX: 1, YY: 1, ZZ: 1}
}

// NewMatrix3x3 builds a matrix from row-major values.
func NewMatrix3x3(xx, xy, xz, yx, yy, yz, zx, zy, zz float64) Matrix3x3 {
	return Matrix3x3{
		snap(xx), snap(xy), snap(xz),
		snap(yx), snap(yy), snap(yz),
		snap(zx), snap(zy), snap(zz),
	}
}

// FromArray builds a matrix from a row-major orientation array as handed
// over by the host.
func FromArray(a [9]float64) Matrix3x3 {
	return NewMatrix3x3(a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7], a[8])
}

// Rotation returns the matrix rotating by angle radians about the unit axis.
func Rotation(axis Vector3, angle float64) Matrix3x3 {
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	return NewMatrix3x3(
		1+t*(axis.X*axis.X-1), -axis.Z*s+t*axis.X*axis.Y, axis.Y*s+t*axis.X*axis.Z,
		axis.Z*s+t*axis.X*axis.Y, 1+t*(axis.Y*axis.Y-1), -axis.X*s+t*axis.Y*axis.Z,
		-axis.Y*s+t*axis.X*axis.Z, axis.X*s+t*axis.Y*axis.Z, 1+t*(axis.Z*axis.Z-1),
	)
}

func invalidMatrix() Matrix3x3 {
	return Matrix3x3{
		Invalid, Invalid, Invalid,
		Invalid, Invalid, Invalid,
		Invalid, Invalid, Invalid,
	}
}

// Array returns the row-major values.
func (m Matrix3x3) Array() [9]float64 {
	return [9]float64{m.XX, m.XY, m.XZ, m.YX, m.YY, m.YZ, m.ZX, m.ZY, m.ZZ}
}

func (m Matrix3x3) Add(o Matrix3x3) Matrix3x3 {
	return NewMatrix3x3(
		m.XX+o.XX, m.XY+o.XY, m.XZ+o.XZ,
		m.YX+o.YX, m.YY+o.YY, m.YZ+o.YZ,
		m.ZX+o.ZX, m.ZY+o.ZY, m.ZZ+o.ZZ,
	)
}

func (m Matrix3x3) Sub(o Matrix3x3) Matrix3x3 {
	return NewMatrix3x3(
		m.XX-o.XX, m.XY-o.XY, m.XZ-o.XZ,
		m.YX-o.YX, m.YY-o.YY, m.YZ-o.YZ,
		m.ZX-o.ZX, m.ZY-o.ZY, m.ZZ-o.ZZ,
	)
}

func (m Matrix3x3) Neg() Matrix3x3 {
	return m.Scale(-1)
}

func (m Matrix3x3) Scale(s float64) Matrix3x3 {
	return NewMatrix3x3(
		m.XX*s, m.XY*s, m.XZ*s,
		m.YX*s, m.YY*s, m.YZ*s,
		m.ZX*s, m.ZY*s, m.ZZ*s,
	)
}

// Mul returns the matrix product m*o.
func (m Matrix3x3) Mul(o Matrix3x3) Matrix3x3 {
	return NewMatrix3x3(
		m.XX*o.XX+m.XY*o.YX+m.XZ*o.ZX,
		m.XX*o.XY+m.XY*o.YY+m.XZ*o.ZY,
		m.XX*o.XZ+m.XY*o.YZ+m.XZ*o.ZZ,
		m.YX*o.XX+m.YY*o.YX+m.YZ*o.ZX,
		m.YX*o.XY+m.YY*o.YY+m.YZ*o.ZY,
		m.YX*o.XZ+m.YY*o.YZ+m.YZ*o.ZZ,
		m.ZX*o.XX+m.ZY*o.YX+m.ZZ*o.ZX,
		m.ZX*o.XY+m.ZY*o.YY+m.ZZ*o.ZY,
		m.ZX*o.XZ+m.ZY*o.YZ+m.ZZ*o.ZZ,
	)
}

// Div divides every element by d. A divisor for which IsZero holds yields
// Invalid in every element.
func (m Matrix3x3) Div(d float64) Matrix3x3 {
	if IsZero(d) {
		return invalidMatrix()
	}
	return NewMatrix3x3(
		m.XX/d, m.XY/d, m.XZ/d,
		m.YX/d, m.YY/d, m.YZ/d,
		m.ZX/d, m.ZY/d, m.ZZ/d,
	)
}

func (m Matrix3x3) Transpose() Matrix3x3 {
	return Matrix3x3{
		m.XX, m.YX, m.ZX,
		m.XY, m.YY, m.ZY,
		m.XZ, m.YZ, m.ZZ,
	}
}

// Det expands the determinant along the first row:
// XX*YY*ZZ + XY*YZ*ZX + XZ*YX*ZY - XX*YZ*ZY - XY*YX*ZZ - XZ*YY*ZX.
func (m Matrix3x3) Det() float64 {
	return m.XX*m.YY*m.ZZ +
		m.XY*m.YZ*m.ZX +
		m.XZ*m.YX*m.ZY -
		m.XX*m.YZ*m.ZY -
		m.XY*m.YX*m.ZZ -
		m.XZ*m.YY*m.ZX
}

// Inv returns the adjugate divided by the determinant. A matrix whose
// determinant satisfies IsZero yields Invalid in every element.
func (m Matrix3x3) Inv() Matrix3x3 {
	det := m.Det()
	if IsZero(det) {
		return invalidMatrix()
	}
	return NewMatrix3x3(
		(m.YY*m.ZZ-m.YZ*m.ZY)/det,
		(m.XZ*m.ZY-m.XY*m.ZZ)/det,
		(m.XY*m.YZ-m.XZ*m.YY)/det,
		(m.YZ*m.ZX-m.YX*m.ZZ)/det,
		(m.XX*m.ZZ-m.XZ*m.ZX)/det,
		(m.XZ*m.YX-m.XX*m.YZ)/det,
		(m.YX*m.ZY-m.YY*m.ZX)/det,
		(m.XY*m.ZX-m.XX*m.ZY)/det,
		(m.XX*m.YY-m.XY*m.YX)/det,
	)
}

// Equal compares element-wise with AreEqual.
func (m Matrix3x3) Equal(o Matrix3x3) bool {
	a, b := m.Array(), o.Array()
	for i := range a {
		if !AreEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
