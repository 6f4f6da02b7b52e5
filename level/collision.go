package level

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gdsim/gdsim/gmath"
)

// HitboxKind enumerates the local hitbox shapes.
type HitboxKind uint8

const (
	HitboxBox HitboxKind = iota
	HitboxSlope
	HitboxCircle
)

// Hitbox is the local-space shape attached to an object.
type Hitbox struct {
	Kind HitboxKind

	// Box fields. NoRotation forces an axis-aligned world hitbox even when
	// the object is rotated.
	NoRotation  bool
	Offset      mgl32.Vec2
	HalfExtents mgl32.Vec2

	// Circle field.
	Radius float32
}

// GlobalHitboxKind enumerates the world-space shape variants.
type GlobalHitboxKind uint8

const (
	GlobalHitboxAabb GlobalHitboxKind = iota
	GlobalHitboxObb
	GlobalHitboxTriangle
	GlobalHitboxCircle
)

// GlobalHitbox is the world-space hitbox, recomputed whenever the owning
// transform changes. MinMax always holds the enclosing AABB in the flipped
// encoding {minX, minY, -maxX, -maxY} so that broad-phase overlap is a single
// componentwise compare; the exact shape data sits alongside for the narrow
// phase.
type GlobalHitbox struct {
	Kind   GlobalHitboxKind
	MinMax mgl32.Vec4

	// Obb fields.
	Center      mgl32.Vec2
	HalfExtents mgl32.Vec2
	Matrix      mgl32.Mat2

	// Triangle field: the right-angle corner of a slope.
	Corner mgl32.Vec2

	// Circle field.
	Radius float32
}

// AabbHitbox builds an axis-aligned world hitbox from min/max corners.
func AabbHitbox(min, max mgl32.Vec2) GlobalHitbox {
	return GlobalHitbox{
		Kind:   GlobalHitboxAabb,
		MinMax: mgl32.Vec4{min.X(), min.Y(), -max.X(), -max.Y()},
	}
}

func aabbAround(points ...mgl32.Vec2) mgl32.Vec4 {
	min := mgl32.Vec2{math32.MaxFloat32, math32.MaxFloat32}
	max := mgl32.Vec2{-math32.MaxFloat32, -math32.MaxFloat32}
	for _, p := range points {
		min = mgl32.Vec2{math32.Min(min.X(), p.X()), math32.Min(min.Y(), p.Y())}
		max = mgl32.Vec2{math32.Max(max.X(), p.X()), math32.Max(max.Y(), p.Y())}
	}
	return mgl32.Vec4{min.X(), min.Y(), -max.X(), -max.Y()}
}

// CalculateGlobalHitbox maps a local hitbox through a world transform.
func CalculateGlobalHitbox(hitbox Hitbox, transform GlobalTransform2d, axisAligned bool) GlobalHitbox {
	scale := transform.ScaleMagnitude()
	switch hitbox.Kind {
	case HitboxBox:
		if hitbox.NoRotation || axisAligned {
			min := transform.TransformPoint(hitbox.Offset.Sub(hitbox.HalfExtents))
			max := transform.TransformPoint(hitbox.Offset.Add(hitbox.HalfExtents))
			return GlobalHitbox{
				Kind:   GlobalHitboxAabb,
				MinMax: aabbAround(min, max),
			}
		}
		he := mgl32.Vec2{hitbox.HalfExtents.X() * scale.X(), hitbox.HalfExtents.Y() * scale.Y()}
		center := transform.TransformPoint(hitbox.Offset)
		corners := obbCorners(center, he, transform.Matrix, scale)
		return GlobalHitbox{
			Kind:        GlobalHitboxObb,
			MinMax:      aabbAround(corners[0], corners[1], corners[2], corners[3]),
			Center:      center,
			HalfExtents: he,
			Matrix:      transform.Matrix,
		}
	case HitboxSlope:
		min := transform.TransformPoint(hitbox.HalfExtents.Mul(-1))
		max := transform.TransformPoint(hitbox.HalfExtents)
		corner := transform.TransformPoint(mgl32.Vec2{hitbox.HalfExtents.X(), -hitbox.HalfExtents.Y()})
		return GlobalHitbox{
			Kind:   GlobalHitboxTriangle,
			MinMax: aabbAround(min, max, corner),
			Corner: corner,
		}
	default:
		return GlobalHitbox{
			Kind:   GlobalHitboxCircle,
			MinMax: aabbAround(
				transform.Translation.Sub(mgl32.Vec2{hitbox.Radius * scale.X(), hitbox.Radius * scale.X()}),
				transform.Translation.Add(mgl32.Vec2{hitbox.Radius * scale.X(), hitbox.Radius * scale.X()}),
			),
			Center: transform.Translation,
			Radius: hitbox.Radius * scale.X(),
		}
	}
}

func obbCorners(center, he mgl32.Vec2, m mgl32.Mat2, scale mgl32.Vec2) [4]mgl32.Vec2 {
	// The matrix carries scale; the half extents are already scaled, so the
	// axes are normalized columns.
	axisX := mgl32.Vec2{m.At(0, 0), m.At(1, 0)}.Mul(1 / scale.X()).Mul(he.X())
	axisY := mgl32.Vec2{m.At(0, 1), m.At(1, 1)}.Mul(1 / scale.Y()).Mul(he.Y())
	return [4]mgl32.Vec2{
		center.Add(axisX).Add(axisY),
		center.Add(axisX).Sub(axisY),
		center.Sub(axisX).Add(axisY),
		center.Sub(axisX).Sub(axisY),
	}
}

// Min returns the AABB minimum corner.
func (h GlobalHitbox) Min() mgl32.Vec2 {
	return mgl32.Vec2{h.MinMax[0], h.MinMax[1]}
}

// Max returns the AABB maximum corner.
func (h GlobalHitbox) Max() mgl32.Vec2 {
	return mgl32.Vec2{-h.MinMax[2], -h.MinMax[3]}
}

// Intersects is the broad-phase test: thanks to the flipped-max encoding both
// AABBs overlap exactly when every component of one is below the swizzled
// negation of the other.
func (h GlobalHitbox) Intersects(other GlobalHitbox) bool {
	return h.MinMax[0] < -other.MinMax[2] &&
		h.MinMax[1] < -other.MinMax[3] &&
		h.MinMax[2] < -other.MinMax[0] &&
		h.MinMax[3] < -other.MinMax[1]
}

// IntersectsExact runs the narrow phase after a positive broad-phase test.
// Oriented boxes use a separating-axis test, circles use closest-point
// distance, and slopes fall back to their AABB while keeping the triangle
// data available to callers that want to disambiguate corner cases.
func (h GlobalHitbox) IntersectsExact(other GlobalHitbox) bool {
	if !h.Intersects(other) {
		return false
	}
	switch {
	case h.Kind == GlobalHitboxObb || other.Kind == GlobalHitboxObb:
		if h.Kind == GlobalHitboxObb && other.Kind != GlobalHitboxObb {
			return obbIntersectsAabb(h, other)
		}
		if other.Kind == GlobalHitboxObb && h.Kind != GlobalHitboxObb {
			return obbIntersectsAabb(other, h)
		}
		return obbIntersectsObb(h, other)
	case h.Kind == GlobalHitboxCircle:
		return circleIntersects(h, other)
	case other.Kind == GlobalHitboxCircle:
		return circleIntersects(other, h)
	default:
		// AABB/AABB and the slope fallback: the broad phase already passed.
		return true
	}
}

func obbAxes(h GlobalHitbox) [2]mgl32.Vec2 {
	ax := mgl32.Vec2{h.Matrix.At(0, 0), h.Matrix.At(1, 0)}
	ay := mgl32.Vec2{h.Matrix.At(0, 1), h.Matrix.At(1, 1)}
	if l := ax.Len(); l > 0 {
		ax = ax.Mul(1 / l)
	}
	if l := ay.Len(); l > 0 {
		ay = ay.Mul(1 / l)
	}
	return [2]mgl32.Vec2{ax, ay}
}

func projectOntoAxis(axis mgl32.Vec2, corners []mgl32.Vec2) (min, max float32) {
	min, max = math32.MaxFloat32, -math32.MaxFloat32
	for _, c := range corners {
		d := axis.Dot(c)
		min = math32.Min(min, d)
		max = math32.Max(max, d)
	}
	return min, max
}

func cornersOf(h GlobalHitbox) []mgl32.Vec2 {
	if h.Kind == GlobalHitboxObb {
		axes := obbAxes(h)
		ax := axes[0].Mul(h.HalfExtents.X())
		ay := axes[1].Mul(h.HalfExtents.Y())
		return []mgl32.Vec2{
			h.Center.Add(ax).Add(ay),
			h.Center.Add(ax).Sub(ay),
			h.Center.Sub(ax).Add(ay),
			h.Center.Sub(ax).Sub(ay),
		}
	}
	min, max := h.Min(), h.Max()
	return []mgl32.Vec2{
		{min.X(), min.Y()}, {max.X(), min.Y()},
		{min.X(), max.Y()}, {max.X(), max.Y()},
	}
}

func satSeparated(axes [2]mgl32.Vec2, a, b []mgl32.Vec2) bool {
	for _, axis := range axes {
		aMin, aMax := projectOntoAxis(axis, a)
		bMin, bMax := projectOntoAxis(axis, b)
		if aMax <= bMin || bMax <= aMin {
			return true
		}
	}
	return false
}

func obbIntersectsAabb(obb, other GlobalHitbox) bool {
	a, b := cornersOf(obb), cornersOf(other)
	if satSeparated(obbAxes(obb), a, b) {
		return false
	}
	return !satSeparated([2]mgl32.Vec2{{1, 0}, {0, 1}}, a, b)
}

func obbIntersectsObb(a, b GlobalHitbox) bool {
	ca, cb := cornersOf(a), cornersOf(b)
	return !satSeparated(obbAxes(a), ca, cb) && !satSeparated(obbAxes(b), ca, cb)
}

func circleIntersects(circle, other GlobalHitbox) bool {
	if other.Kind == GlobalHitboxCircle {
		rr := circle.Radius + other.Radius
		return circle.Center.Sub(other.Center).LenSqr() < rr*rr
	}
	min, max := other.Min(), other.Max()
	closest := mgl32.Vec2{
		gmath.Clamp(circle.Center.X(), min.X(), max.X()),
		gmath.Clamp(circle.Center.Y(), min.Y(), max.Y()),
	}
	return circle.Center.Sub(closest).LenSqr() < circle.Radius*circle.Radius
}
