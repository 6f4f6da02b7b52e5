package level

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestAabbBroadPhase(t *testing.T) {
	a := AabbHitbox(mgl32.Vec2{0, 0}, mgl32.Vec2{30, 30})

	cases := []struct {
		name string
		min  mgl32.Vec2
		max  mgl32.Vec2
		want bool
	}{
		{"overlapping", mgl32.Vec2{20, 20}, mgl32.Vec2{50, 50}, true},
		{"contained", mgl32.Vec2{10, 10}, mgl32.Vec2{20, 20}, true},
		{"separate", mgl32.Vec2{40, 40}, mgl32.Vec2{60, 60}, false},
		{"touching edge", mgl32.Vec2{30, 0}, mgl32.Vec2{60, 30}, false},
		{"overlap x only", mgl32.Vec2{10, 40}, mgl32.Vec2{20, 60}, false},
	}
	for _, tc := range cases {
		b := AabbHitbox(tc.min, tc.max)
		if got := a.Intersects(b); got != tc.want {
			t.Errorf("%s: Intersects = %v, want %v", tc.name, got, tc.want)
		}
		if got := b.Intersects(a); got != tc.want {
			t.Errorf("%s (reversed): Intersects = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestGlobalHitboxCorners(t *testing.T) {
	h := AabbHitbox(mgl32.Vec2{-5, -10}, mgl32.Vec2{15, 20})
	if min := h.Min(); min != (mgl32.Vec2{-5, -10}) {
		t.Fatalf("Min = %v", min)
	}
	if max := h.Max(); max != (mgl32.Vec2{15, 20}) {
		t.Fatalf("Max = %v", max)
	}
}

func TestCalculateGlobalHitboxAxisAligned(t *testing.T) {
	hitbox := Hitbox{Kind: HitboxBox, HalfExtents: mgl32.Vec2{15, 15}}
	tr := DefaultTransform2d()
	tr.Translation = mgl32.Vec3{100, 50, 0}

	h := CalculateGlobalHitbox(hitbox, GlobalFromTransform2d(tr), true)
	if h.Kind != GlobalHitboxAabb {
		t.Fatalf("Kind = %v, want aabb", h.Kind)
	}
	if min := h.Min(); !vec2ApproxEq(min, mgl32.Vec2{85, 35}) {
		t.Errorf("Min = %v, want (85, 35)", min)
	}
	if max := h.Max(); !vec2ApproxEq(max, mgl32.Vec2{115, 65}) {
		t.Errorf("Max = %v, want (115, 65)", max)
	}
}

func TestCalculateGlobalHitboxRotated(t *testing.T) {
	hitbox := Hitbox{Kind: HitboxBox, HalfExtents: mgl32.Vec2{10, 10}}
	tr := DefaultTransform2d()
	tr.Angle = math32.Pi / 4

	h := CalculateGlobalHitbox(hitbox, GlobalFromTransform2d(tr), false)
	if h.Kind != GlobalHitboxObb {
		t.Fatalf("Kind = %v, want obb", h.Kind)
	}
	// A quarter-rotated square's enclosing box grows to the diagonal.
	diag := 10 * math32.Sqrt2
	if min := h.Min(); !vec2ApproxEq(min, mgl32.Vec2{-diag, -diag}) {
		t.Errorf("Min = %v, want (-%v, -%v)", min, diag, diag)
	}
	if max := h.Max(); !vec2ApproxEq(max, mgl32.Vec2{diag, diag}) {
		t.Errorf("Max = %v, want (%v, %v)", max, diag, diag)
	}
}

func TestCalculateGlobalHitboxNoRotation(t *testing.T) {
	// NoRotation keeps the world hitbox axis aligned even under rotation.
	hitbox := Hitbox{Kind: HitboxBox, NoRotation: true, HalfExtents: mgl32.Vec2{10, 10}}
	tr := DefaultTransform2d()
	tr.Angle = math32.Pi / 4

	h := CalculateGlobalHitbox(hitbox, GlobalFromTransform2d(tr), false)
	if h.Kind != GlobalHitboxAabb {
		t.Fatalf("Kind = %v, want aabb", h.Kind)
	}
}

func TestObbNarrowPhase(t *testing.T) {
	hitbox := Hitbox{Kind: HitboxBox, HalfExtents: mgl32.Vec2{10, 10}}
	tr := DefaultTransform2d()
	tr.Angle = math32.Pi / 4
	obb := CalculateGlobalHitbox(hitbox, GlobalFromTransform2d(tr), false)

	// Sits inside the enclosing box of the rotated square but outside the
	// square itself: broad phase hits, narrow phase must reject.
	corner := AabbHitbox(mgl32.Vec2{12, 12}, mgl32.Vec2{20, 20})
	if !obb.Intersects(corner) {
		t.Fatal("broad phase should hit the corner box")
	}
	if obb.IntersectsExact(corner) {
		t.Error("narrow phase should reject the corner box")
	}

	overlapping := AabbHitbox(mgl32.Vec2{5, -5}, mgl32.Vec2{15, 5})
	if !obb.IntersectsExact(overlapping) {
		t.Error("narrow phase should accept a genuinely overlapping box")
	}
}

func TestObbAgainstObb(t *testing.T) {
	hitbox := Hitbox{Kind: HitboxBox, HalfExtents: mgl32.Vec2{10, 10}}

	tr := DefaultTransform2d()
	tr.Angle = math32.Pi / 4
	a := CalculateGlobalHitbox(hitbox, GlobalFromTransform2d(tr), false)

	tr2 := DefaultTransform2d()
	tr2.Angle = math32.Pi / 4
	tr2.Translation = mgl32.Vec3{25, 0, 0}
	b := CalculateGlobalHitbox(hitbox, GlobalFromTransform2d(tr2), false)
	// Diamonds 25 apart touch at x ~ 14.14 + 10.86: overlap along x.
	if !a.IntersectsExact(b) {
		t.Error("diamonds 25 apart should overlap")
	}

	tr2.Translation = mgl32.Vec3{30, 0, 0}
	c := CalculateGlobalHitbox(hitbox, GlobalFromTransform2d(tr2), false)
	if a.IntersectsExact(c) {
		t.Error("diamonds 30 apart should be separated")
	}
}

func TestCircleNarrowPhase(t *testing.T) {
	circle := Hitbox{Kind: HitboxCircle, Radius: 5}
	h := CalculateGlobalHitbox(circle, GlobalFromTransform2d(DefaultTransform2d()), true)
	if h.Kind != GlobalHitboxCircle {
		t.Fatalf("Kind = %v, want circle", h.Kind)
	}

	// Corner box: closest point (4, 4) is sqrt(32) > 5 away.
	corner := AabbHitbox(mgl32.Vec2{4, 4}, mgl32.Vec2{10, 10})
	if !h.Intersects(corner) {
		t.Fatal("broad phase should hit the corner box")
	}
	if h.IntersectsExact(corner) {
		t.Error("circle should miss the corner box")
	}

	side := AabbHitbox(mgl32.Vec2{3, -10}, mgl32.Vec2{10, 10})
	if !h.IntersectsExact(side) {
		t.Error("circle should hit the side box")
	}
}

func TestCircleAgainstCircle(t *testing.T) {
	mk := func(x, r float32) GlobalHitbox {
		tr := DefaultTransform2d()
		tr.Translation = mgl32.Vec3{x, 0, 0}
		return CalculateGlobalHitbox(Hitbox{Kind: HitboxCircle, Radius: r}, GlobalFromTransform2d(tr), true)
	}
	a := mk(0, 5)
	if !a.IntersectsExact(mk(8, 4)) {
		t.Error("circles 8 apart with radii 5+4 should overlap")
	}
	if a.IntersectsExact(mk(8, 2.5)) {
		t.Error("circles 8 apart with radii 5+2.5 should not overlap")
	}
}

func TestSlopeHitbox(t *testing.T) {
	slope := Hitbox{Kind: HitboxSlope, HalfExtents: mgl32.Vec2{15, 15}}
	tr := DefaultTransform2d()
	tr.Translation = mgl32.Vec3{100, 100, 0}

	h := CalculateGlobalHitbox(slope, GlobalFromTransform2d(tr), true)
	if h.Kind != GlobalHitboxTriangle {
		t.Fatalf("Kind = %v, want triangle", h.Kind)
	}
	if !vec2ApproxEq(h.Corner, mgl32.Vec2{115, 85}) {
		t.Errorf("Corner = %v, want (115, 85)", h.Corner)
	}
	if !vec2ApproxEq(h.Min(), mgl32.Vec2{85, 85}) || !vec2ApproxEq(h.Max(), mgl32.Vec2{115, 115}) {
		t.Errorf("bounds = %v..%v, want (85,85)..(115,115)", h.Min(), h.Max())
	}
}

func vec2ApproxEq(a, b mgl32.Vec2) bool {
	const eps = 1e-3
	return math32.Abs(a.X()-b.X()) < eps && math32.Abs(a.Y()-b.Y()) < eps
}
