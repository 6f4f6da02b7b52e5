package trigger

import (
	"io"
	"log/slog"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gdsim/gdsim/level"
)

func buildContext(t *testing.T, raw string) *Context {
	t.Helper()
	w, err := level.BuildWorld(slog.New(slog.NewTextHandler(io.Discard, nil)), raw)
	if err != nil {
		t.Fatalf("BuildWorld: %v", err)
	}
	return Build(w)
}

// stepAcross advances the runtime in fixed position increments, the way the
// simulation loop feeds it.
func stepAcross(c *Context, lo, hi, inc float32) {
	for x := lo; x < hi; x += inc {
		c.Step(x, x+inc)
	}
}

func TestMoveEased(t *testing.T) {
	c := buildContext(t, ";1,901,2,100,10,1,51,5,28,50;1,1,2,0,3,15,57,5;")
	tl := c.World.Timeline

	c.Step(90, 110)

	end := tl.PosForTime(tl.TimeForPos(100) + 1)
	want := 50 * (110 - 100) / (end - 100)
	got := c.World.Groups.Get(5).Delta.Translation.X()
	if math32.Abs(got-want) > 1e-4 {
		t.Errorf("delta x = %v, want %v", got, want)
	}
}

func TestMoveInstant(t *testing.T) {
	c := buildContext(t, ";1,901,2,100,51,5,28,50,29,-20;1,1,2,0,3,15,57,5;")

	c.Step(90, 110)

	got := c.World.Groups.Get(5).Delta.Translation
	if !vecApproxEq(got, mgl32.Vec2{50, -20}) {
		t.Errorf("delta = %v, want (50, -20)", got)
	}

	// The instant span was fully crossed; later frames add nothing.
	c.Step(110, 130)
	if got := c.World.Groups.Get(5).Delta.Translation; !vecApproxEq(got, mgl32.Vec2{50, -20}) {
		t.Errorf("delta after recross = %v", got)
	}
}

func TestMoveLockX(t *testing.T) {
	c := buildContext(t, ";1,901,2,100,10,1,51,5,58,1;1,1,2,0,3,15,57,5;")

	c.PlayerDelta = mgl32.Vec2{3, 0}
	c.Step(90, 110)

	got := c.World.Groups.Get(5).Delta.Translation
	if !vecApproxEq(got, mgl32.Vec2{3, 0}) {
		t.Errorf("delta = %v, want the player displacement", got)
	}
}

func TestRotateInstant(t *testing.T) {
	c := buildContext(t, ";1,1346,2,100,68,90,51,5;1,1,2,0,3,15,57,5;")

	c.Step(90, 110)

	delta := c.World.Groups.Get(5).Delta
	if delta.Rotation != level.RotationAngle {
		t.Fatalf("rotation kind = %v", delta.Rotation)
	}
	if math32.Abs(delta.Angle - -math32.Pi/2) > 1e-5 {
		t.Errorf("angle = %v, want -pi/2", delta.Angle)
	}
}

func TestRotateAroundCenter(t *testing.T) {
	c := buildContext(t, ";1,1346,2,100,68,90,51,5,71,6,70,1;1,1,2,0,3,15,57,5;1,1,2,30,3,15,57,6;")

	c.Step(90, 110)

	delta := c.World.Groups.Get(5).Delta
	if delta.Rotation != level.RotationAround || delta.CenterGroup != 6 {
		t.Errorf("delta = %+v, want rotation around group 6", delta)
	}
	if !delta.LockRotation {
		t.Error("lock rotation flag not carried")
	}
}

func TestToggle(t *testing.T) {
	c := buildContext(t, ";1,1049,2,100,51,9;")

	c.Step(90, 110)
	if c.World.Groups.Get(9).Enabled {
		t.Error("group 9 should be disabled")
	}
}

func TestStopSkipsEarlierTriggers(t *testing.T) {
	// The toggle is sequenced before the stop but positioned after it: the
	// stop runs first and suppresses it.
	c := buildContext(t, ";1,1049,2,150,51,9;1,1616,2,100,51,9;")

	c.Step(0, 200)
	if !c.World.Groups.Get(9).Enabled {
		t.Error("stopped toggle should not have run")
	}
}

func TestStopLeavesLaterTriggers(t *testing.T) {
	c := buildContext(t, ";1,1616,2,100,51,9;1,1049,2,150,51,9;")

	c.Step(0, 200)
	if c.World.Groups.Get(9).Enabled {
		t.Error("later-sequenced toggle should have run")
	}
}

func TestAlphaExclusive(t *testing.T) {
	c := buildContext(t,
		";1,1007,2,100,10,1,51,5,35,0;1,1007,2,120,10,1,51,5,35,0.5;")

	c.Step(0, 110)
	c.Step(110, 130)
	c.Step(130, 600)

	// The later fade supersedes the earlier one on the same group; the
	// first fade's target of zero must not win.
	got := c.World.Groups.Get(5).Opacity
	if math32.Abs(got-0.5) > 1e-4 {
		t.Errorf("opacity = %v, want 0.5 from the superseding fade", got)
	}
}

func TestAlphaFades(t *testing.T) {
	c := buildContext(t, ";1,1007,2,100,10,1,51,5,35,0;")

	c.Step(90, 110)
	mid := c.World.Groups.Get(5).Opacity
	if mid <= 0 || mid >= 1 {
		t.Errorf("mid fade opacity = %v, want inside (0, 1)", mid)
	}

	c.Step(110, 600)
	if got := c.World.Groups.Get(5).Opacity; got != 0 {
		t.Errorf("final opacity = %v, want 0", got)
	}
}

func TestSpawnChain(t *testing.T) {
	c := buildContext(t,
		";1,1268,2,100,51,7,63,0.5;1,901,2,400,62,1,57,7,51,5,28,10;1,1,2,0,3,15,57,5;")

	stepAcross(c, 0, 300, 5)

	got := c.World.Groups.Get(5).Delta.Translation.X()
	if math32.Abs(got-10) > 1e-4 {
		t.Errorf("spawned move delta = %v, want 10", got)
	}
	if c.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %v, want drained", c.ActiveCount())
	}
}

func TestSpawnChainRunsOnce(t *testing.T) {
	c := buildContext(t,
		";1,1268,2,100,51,7;1,1817,2,400,62,1,57,7,80,3,77,2;")

	stepAcross(c, 0, 300, 5)
	if got := c.PickupValues[3]; got != 2 {
		t.Errorf("item 3 = %v, want a single spawned pickup", got)
	}
}

func TestPickup(t *testing.T) {
	c := buildContext(t, ";1,1817,2,100,80,3,77,2;1,1817,2,150,80,3,77,5;")

	c.Step(0, 200)
	if got := c.PickupValues[3]; got != 7 {
		t.Errorf("item 3 = %v, want 7", got)
	}
}

func TestInstantCountChain(t *testing.T) {
	c := buildContext(t,
		";1,1817,2,100,80,3,77,2;"+
			"1,1811,2,150,80,3,77,2,51,7,56,1;"+
			"1,1817,2,500,62,1,57,7,80,4,77,5;")

	stepAcross(c, 0, 250, 10)

	if got := c.PickupValues[3]; got != 2 {
		t.Fatalf("item 3 = %v, want 2", got)
	}
	// The count condition held, so the chain fired the spawned pickup.
	if got := c.PickupValues[4]; got != 5 {
		t.Errorf("item 4 = %v, want 5", got)
	}
	if !c.World.Groups.Get(7).Enabled {
		t.Error("target group should be activated")
	}
}

func TestInstantCountConditionFails(t *testing.T) {
	c := buildContext(t,
		";1,1811,2,150,80,3,77,2,51,7,56,1;"+
			"1,1817,2,500,62,1,57,7,80,4,77,5;")

	stepAcross(c, 0, 250, 10)
	if got := c.PickupValues[4]; got != 0 {
		t.Errorf("item 4 = %v, want no chain on a failed condition", got)
	}
}

func TestCountWatcher(t *testing.T) {
	c := buildContext(t,
		";1,1611,2,100,80,2,77,1,51,7,56,1;"+
			"1,1817,2,300,80,2,77,1;"+
			"1,1817,2,500,62,1,57,7,80,5,77,9;")

	stepAcross(c, 0, 400, 10)

	if got := c.PickupValues[2]; got != 1 {
		t.Fatalf("item 2 = %v, want 1", got)
	}
	// The watcher polled until the pickup satisfied it, then chained.
	if got := c.PickupValues[5]; got != 9 {
		t.Errorf("item 5 = %v, want 9", got)
	}
}

func TestCountWatcherOvershoot(t *testing.T) {
	c := buildContext(t,
		";1,1611,2,100,80,3,77,2,51,7,56,1;"+
			"1,1817,2,300,80,3,77,3;"+
			"1,1817,2,500,62,1,57,7,80,4,77,5;")

	stepAcross(c, 0, 450, 10)

	if got := c.PickupValues[3]; got != 3 {
		t.Fatalf("item 3 = %v, want 3", got)
	}
	// The pickup stepped the counter from 0 straight past the target of 2;
	// jumping over the target still counts as reaching it.
	if got := c.PickupValues[4]; got != 5 {
		t.Errorf("item 4 = %v, want 5", got)
	}
}

func TestWatcherDiesAtLevelEnd(t *testing.T) {
	c := buildContext(t,
		";1,1611,2,100,80,3,77,2,51,7,56,1;"+
			"1,1817,2,390,62,1,57,7,80,4,77,5;")

	stepAcross(c, 0, 600, 10)

	// No pickup ever touches item 3, so the watcher can never fire, and it
	// must stop re-enqueueing itself once the level is over.
	if got := c.PickupValues[4]; got != 0 {
		t.Errorf("item 4 = %v, want 0 for an unsatisfied watcher", got)
	}
	if got := c.ActiveCount(); got != 0 {
		t.Errorf("ActiveCount = %v, want 0 past the level end", got)
	}
}

func TestTouchActivation(t *testing.T) {
	c := buildContext(t, ";1,1049,2,200,11,1,51,9;")

	c.Touch(0, 50)
	c.Step(50, 55)
	if c.World.Groups.Get(9).Enabled {
		t.Error("touched toggle should have run")
	}

	// Not multi-activate: a second touch is ignored.
	c.Touch(0, 60)
	if c.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %v after repeated touch", c.ActiveCount())
	}
}

func TestTouchMultiActivate(t *testing.T) {
	c := buildContext(t, ";1,1817,2,200,11,1,87,1,80,1,77,2;")

	c.Touch(0, 50)
	c.Step(50, 55)
	c.Touch(0, 60)
	c.Step(60, 65)

	if got := c.PickupValues[1]; got != 4 {
		t.Errorf("item 1 = %v, want both touches counted", got)
	}
}

func TestCollisionFiresOnContact(t *testing.T) {
	c := buildContext(t,
		";1,1815,2,100,138,1,95,4,51,7,56,1;"+
			"1,1817,2,500,62,1,57,7,80,6,77,3;")

	// No contact yet: the watcher polls.
	c.Step(90, 110)
	c.Step(110, 120)
	if got := c.PickupValues[6]; got != 0 {
		t.Fatalf("chain fired without contact, item 6 = %v", got)
	}

	c.SetOverlap(PlayerBlock, 4)
	c.Step(120, 130)
	c.Step(130, 140)

	if got := c.PickupValues[6]; got != 3 {
		t.Errorf("item 6 = %v, want 3 after contact", got)
	}
}

func TestCollisionOnExit(t *testing.T) {
	c := buildContext(t,
		";1,1815,2,100,138,1,95,4,51,7,56,1,93,1;"+
			"1,1817,2,500,62,1,57,7,80,6,77,3;")

	// Separated from the start: an exit watcher must not fire unarmed.
	c.Step(90, 110)
	if got := c.PickupValues[6]; got != 0 {
		t.Fatalf("exit watcher fired before any contact, item 6 = %v", got)
	}

	// Contact arms it.
	c.SetOverlap(PlayerBlock, 4)
	c.Step(110, 120)
	if got := c.PickupValues[6]; got != 0 {
		t.Fatalf("exit watcher fired during contact, item 6 = %v", got)
	}

	// Separation fires it.
	c.ClearOverlaps()
	c.Step(120, 130)
	c.Step(130, 140)
	if got := c.PickupValues[6]; got != 3 {
		t.Errorf("item 6 = %v, want 3 after separation", got)
	}
}

func TestPulseChannel(t *testing.T) {
	c := buildContext(t, ";1,1006,2,100,51,2,7,0,8,0,9,255,46,1;")

	c.Step(90, 110)
	c.Step(110, 130)

	channel, ok := c.World.Colors.Lookup(2)
	if !ok {
		t.Fatal("channel 2 missing")
	}
	// Pushed exactly once per activation, not per overlapping frame.
	if len(channel.Pulses) != 1 {
		t.Fatalf("pulses = %v, want 1", len(channel.Pulses))
	}
	if channel.Pulses[0].Color != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("pulse color = %v, want blue", channel.Pulses[0].Color)
	}
}

func TestPulseGroupLanes(t *testing.T) {
	c := buildContext(t, ";1,1006,2,100,51,5,52,1,66,1,46,1;1,1,2,0,3,15,57,5;")

	c.Step(90, 110)

	group := c.World.Groups.Get(5)
	if len(group.BasePulses) != 0 {
		t.Errorf("base lane = %v pulses, want 0 for a detail-only pulse", len(group.BasePulses))
	}
	if len(group.DetailPulses) != 1 {
		t.Errorf("detail lane = %v pulses, want 1", len(group.DetailPulses))
	}
}

func TestShakeOutput(t *testing.T) {
	c := buildContext(t, ";1,1520,2,100,10,1,75,4;")

	c.Step(90, 110)
	if c.Shake.Strength <= 0 || c.Shake.Strength > 4*1.5 {
		t.Errorf("shake strength = %v, want inside (0, 6]", c.Shake.Strength)
	}

	c.Step(110, 600)
	if c.Shake != (ShakeOutput{}) {
		t.Errorf("shake = %+v, want cleared after the duration", c.Shake)
	}
}

func TestColorFade(t *testing.T) {
	c := buildContext(t, "kS38,1_255_2_0_3_0_6_5;1,899,2,100,10,1,23,5,7,0,8,0,9,0;")
	c.World.Colors.Resolve(0)

	c.Step(90, 110)
	channel := c.World.Colors.Get(5)
	mid := channel.Color.X()
	if mid <= 0 || mid >= 1 {
		t.Errorf("mid fade red = %v, want inside (0, 1)", mid)
	}

	c.Step(110, 130)
	if channel.Color.X() >= mid {
		t.Errorf("fade not monotonic: %v then %v", mid, channel.Color.X())
	}

	c.Step(130, 600)
	if !vec4ApproxEqT(channel.Color, mgl32.Vec4{0, 0, 0, 1}) {
		t.Errorf("final color = %v, want black", channel.Color)
	}
}

func TestLegacyColorTrigger(t *testing.T) {
	c := buildContext(t, ";1,221,2,100,7,0,8,255,9,0;")

	c.Step(90, 110)
	channel := c.World.Colors.Get(1)
	if !vec4ApproxEqT(channel.Color, mgl32.Vec4{0, 1, 0, 1}) {
		t.Errorf("channel 1 = %v, want green", channel.Color)
	}
}

func TestFollowMirrorsDelta(t *testing.T) {
	c := buildContext(t,
		";1,901,2,100,10,1,51,5,28,50;"+
			"1,1347,2,100,10,1,51,6,71,5;"+
			"1,1,2,0,3,15,57,5;1,1,2,30,3,15,57,6;")

	c.Step(90, 110)

	moved := c.World.Groups.Get(5).Delta.Translation
	followed := c.World.Groups.Get(6).Delta.Translation
	if !vecApproxEq(moved, followed) {
		t.Errorf("follow delta = %v, want %v", followed, moved)
	}
	if moved.X() == 0 {
		t.Error("move produced no delta to mirror")
	}
}

func TestStepBackwardsIsNoop(t *testing.T) {
	c := buildContext(t, ";1,1049,2,100,51,9;")
	c.Step(110, 110)
	c.Step(110, 90)
	if enabled := c.World.Groups.Get(9).Enabled; !enabled {
		t.Error("no trigger should run on a non-advancing step")
	}
}

func vecApproxEq(a, b mgl32.Vec2) bool {
	const eps = 1e-4
	return math32.Abs(a.X()-b.X()) < eps && math32.Abs(a.Y()-b.Y()) < eps
}

func vec4ApproxEqT(a, b mgl32.Vec4) bool {
	const eps = 1e-3
	for i := range a {
		if math32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
