package vecmath

import "math"

const (
	// Underflow is the magnitude below which a component is treated as zero.
	Underflow = 1e-25

	// ReallyReallyZero is the default tolerance for IsReallyReallyZero and AreEqual.
	ReallyReallyZero = 1e-40

	// Invalid fills every component of a result that could not be computed.
	Invalid = 9e30

	// Pi is the truncated value of π used by the legacy force laws.
	Pi = 3.141592654

	relativeTolerance = 1e-12
)

// IsZero reports whether -Underflow < v < Underflow.
func IsZero(v float64) bool {
	return v < Underflow && v > -Underflow
}

// IsReallyReallyZero reports whether |v| <= ReallyReallyZero.
func IsReallyReallyZero(v float64) bool {
	return IsReallyReallyZeroTol(v, ReallyReallyZero)
}

// IsReallyReallyZeroTol reports whether -tol <= v <= tol.
func IsReallyReallyZeroTol(v, tol float64) bool {
	return v <= tol && v >= -tol
}

// AreEqual compares a and b relatively with the default zero tolerance.
func AreEqual(a, b float64) bool {
	return AreEqualTol(a, b, ReallyReallyZero)
}

// AreEqualTol compares a and b relatively. If either value is within tol of
// zero the comparison is made against the other one, and two near-zero
// values are equal.
func AreEqualTol(a, b, tol float64) bool {
	if !IsReallyReallyZeroTol(b, tol) {
		return math.Abs(a/b-1.0) < relativeTolerance
	}
	if !IsReallyReallyZeroTol(a, tol) {
		return math.Abs(b/a-1.0) < relativeTolerance
	}
	return true
}

func snap(v float64) float64 {
	if IsZero(v) {
		return 0
	}
	return v
}
