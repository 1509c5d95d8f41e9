package model

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LerpVec3 linearly interpolates each component of two vectors.
//
// Parameters:
//   - a: the vector at p == 0
//   - b: the vector at p == 1
//   - p: the interpolation factor
//
// Returns:
//   - mgl32.Vec3: the interpolated vector
func LerpVec3(a, b mgl32.Vec3, p float32) mgl32.Vec3 {
	return mgl32.Vec3{
		common.Lerp(a[0], b[0], p),
		common.Lerp(a[1], b[1], p),
		common.Lerp(a[2], b[2], p),
	}
}

// Slerp spherically interpolates between two rotations along the shorter arc.
// When the quaternions lie in opposite hemispheres (negative dot product) b is negated
// first, so the result never takes the long way around.
//
// Parameters:
//   - a: the rotation at p == 0
//   - b: the rotation at p == 1
//   - p: the interpolation factor
//
// Returns:
//   - mgl32.Quat: the interpolated unit quaternion
func Slerp(a, b mgl32.Quat, p float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, p)
}

// InterpolateTransform blends two transforms: translation and scale linearly,
// rotation by shortest-arc spherical interpolation.
//
// Parameters:
//   - a: the transform at p == 0
//   - b: the transform at p == 1
//   - p: the interpolation factor in [0, 1]
//
// Returns:
//   - Transform: the interpolated transform
func InterpolateTransform(a, b Transform, p float32) Transform {
	return Transform{
		Translation: LerpVec3(a.Translation, b.Translation, p),
		Rotation:    Slerp(a.Rotation, b.Rotation, p),
		Scale:       LerpVec3(a.Scale, b.Scale, p),
	}
}

// Mat4 composes the transform into a column-major matrix as T * R * S.
//
// Returns:
//   - mgl32.Mat4: the composed local matrix
func (t Transform) Mat4() mgl32.Mat4 {
	tr := mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2])
	sc := mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])
	return tr.Mul4(t.Rotation.Normalize().Mat4()).Mul4(sc)
}

// ApproxEqual reports whether two transforms match within an absolute epsilon on every
// component. Rotations are compared by orientation, so q and -q are considered equal.
//
// Parameters:
//   - o: the transform to compare against
//   - epsilon: the absolute per-component tolerance
//
// Returns:
//   - bool: true if the transforms are equal within tolerance
func (t Transform) ApproxEqual(o Transform, epsilon float32) bool {
	for i := range 3 {
		if mgl32.Abs(t.Translation[i]-o.Translation[i]) > epsilon || mgl32.Abs(t.Scale[i]-o.Scale[i]) > epsilon {
			return false
		}
	}
	return mgl32.Abs(t.Rotation.Normalize().Dot(o.Rotation.Normalize())) >= 1-epsilon
}
