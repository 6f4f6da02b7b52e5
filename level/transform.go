package level

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform2d is the local transform of an object: translation (z carries the
// draw order), rotation angle in radians and a signed scale (negative scale
// encodes flips).
type Transform2d struct {
	Translation mgl32.Vec3
	Angle       float32
	Scale       mgl32.Vec2
}

// DefaultTransform2d returns the identity transform.
func DefaultTransform2d() Transform2d {
	return Transform2d{Scale: mgl32.Vec2{1, 1}}
}

// TranslateAround moves the transform around a pivot point by a precomputed
// (cos, sin) pair without touching its own angle.
func (t *Transform2d) TranslateAround(point mgl32.Vec2, cosSin mgl32.Vec2) {
	xy := mgl32.Vec2{t.Translation.X(), t.Translation.Y()}.Sub(point)
	rotated := mgl32.Vec2{
		xy.X()*cosSin.X() - xy.Y()*cosSin.Y(),
		xy.X()*cosSin.Y() + xy.Y()*cosSin.X(),
	}
	moved := point.Add(rotated)
	t.Translation = mgl32.Vec3{moved.X(), moved.Y(), t.Translation.Z()}
}

// RotateAround rotates the transform's position around a pivot by angle
// radians and, unless lock is set, adds the angle to its own rotation.
func (t *Transform2d) RotateAround(point mgl32.Vec2, angle float32, lock bool) {
	t.TranslateAround(point, mgl32.Vec2{math32.Cos(angle), math32.Sin(angle)})
	if !lock {
		t.Angle += angle
	}
}

// GlobalTransform2d is the world-space transform of an object, a 2x2 linear
// part plus a translation, with the draw order kept separately.
type GlobalTransform2d struct {
	Matrix      mgl32.Mat2
	Translation mgl32.Vec2
	Z           float32
}

// GlobalFromTransform2d composes scale, rotation and translation into a
// world-space transform.
func GlobalFromTransform2d(t Transform2d) GlobalTransform2d {
	cos, sin := math32.Cos(t.Angle), math32.Sin(t.Angle)
	return GlobalTransform2d{
		Matrix: mgl32.Mat2{
			cos * t.Scale.X(), sin * t.Scale.X(),
			-sin * t.Scale.Y(), cos * t.Scale.Y(),
		},
		Translation: mgl32.Vec2{t.Translation.X(), t.Translation.Y()},
		Z:           t.Translation.Z(),
	}
}

// MulTransform composes this transform with a child's local transform.
func (g GlobalTransform2d) MulTransform(t Transform2d) GlobalTransform2d {
	rhs := GlobalFromTransform2d(t)
	return GlobalTransform2d{
		Matrix:      g.Matrix.Mul2(rhs.Matrix),
		Translation: g.TransformPoint(rhs.Translation),
		Z:           g.Z + rhs.Z,
	}
}

// TransformPoint maps a local-space point into world space.
func (g GlobalTransform2d) TransformPoint(p mgl32.Vec2) mgl32.Vec2 {
	return g.Matrix.Mul2x1(p).Add(g.Translation)
}

// ScaleMagnitude returns the absolute per-axis scale encoded in the matrix.
func (g GlobalTransform2d) ScaleMagnitude() mgl32.Vec2 {
	return mgl32.Vec2{
		mgl32.Vec2{g.Matrix.At(0, 0), g.Matrix.At(1, 0)}.Len(),
		mgl32.Vec2{g.Matrix.At(0, 1), g.Matrix.At(1, 1)}.Len(),
	}
}
