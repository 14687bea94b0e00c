// Package vecmath provides the 3D value types used by the contact force laws.
//
//   - [Vector3]: direction and magnitude (forces, velocities, overlaps)
//   - [Point3]: location in space (positions, contact points)
//   - [Matrix3x3]: row-major 3x3 matrix (orientations, rotations)
//
// All values are immutable; every operation returns a new value. Components
// smaller than [Underflow] in magnitude are snapped to exactly zero so that
// denormals do not accumulate over long runs.
//
// # Sentinels
//
// Division by a divisor for which [IsZero] holds, and inversion of a matrix
// whose determinant is zero, do not fail. They return a value whose every
// component is [Invalid] (9e30), which stays visible in downstream results.
package vecmath
