package core

import "math"

// Mat3 is a row-major 3x3 matrix used for rotations
type Mat3 [3][3]float64

// IdentityMat3 returns the identity matrix
func IdentityMat3() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// RotationX returns a rotation matrix about the X axis (angle in radians)
func RotationX(angle float64) Mat3 {
	sin, cos := math.Sincos(angle)
	return Mat3{
		{1, 0, 0},
		{0, cos, -sin},
		{0, sin, cos},
	}
}

// RotationY returns a rotation matrix about the Y axis (angle in radians)
func RotationY(angle float64) Mat3 {
	sin, cos := math.Sincos(angle)
	return Mat3{
		{cos, 0, sin},
		{0, 1, 0},
		{-sin, 0, cos},
	}
}

// RotationZ returns a rotation matrix about the Z axis (angle in radians)
func RotationZ(angle float64) Mat3 {
	sin, cos := math.Sincos(angle)
	return Mat3{
		{cos, -sin, 0},
		{sin, cos, 0},
		{0, 0, 1},
	}
}

// Mul returns the matrix product m*other, so that
// m.Mul(other).Apply(v) == m.Apply(other.Apply(v))
func (m Mat3) Mul(other Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return out
}

// Apply returns the matrix-vector product m*v
func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}
