package vecmath

import "github.com/go-gl/mathgl/mgl64"

// Conversions for callers that keep their own state in mgl64 types.

func FromVec3(v mgl64.Vec3) Vector3 {
	return Vec(v[0], v[1], v[2])
}

func (v Vector3) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func PointFromVec3(v mgl64.Vec3) Point3 {
	return Pt(v[0], v[1], v[2])
}

func (p Point3) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{p.X, p.Y, p.Z}
}

// FromMat3 converts a column-major mgl64 matrix.
func FromMat3(m mgl64.Mat3) Matrix3x3 {
	return NewMatrix3x3(
		m.At(0, 0), m.At(0, 1), m.At(0, 2),
		m.At(1, 0), m.At(1, 1), m.At(1, 2),
		m.At(2, 0), m.At(2, 1), m.At(2, 2),
	)
}

// Mat3 converts to a column-major mgl64 matrix.
func (m Matrix3x3) Mat3() mgl64.Mat3 {
	return mgl64.Mat3FromRows(
		mgl64.Vec3{m.XX, m.XY, m.XZ},
		mgl64.Vec3{m.YX, m.YY, m.YZ},
		mgl64.Vec3{m.ZX, m.ZY, m.ZZ},
	)
}
