package trigger

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gdsim/gdsim/level"
)

// Follow mirrors the followed group's frame delta onto the target group,
// scaled per axis. Runs post so it observes the move and rotate deltas
// already accumulated this frame. The followed group must have exactly one
// root member.
type Follow struct {
	Dur         float32
	TargetGroup uint64
	FollowGroup uint64
	Scale       mgl32.Vec2
}

func (t *Follow) Execute(c *Context, _ *Entry, _, _ float32) {
	followed, ok := c.World.Groups.Lookup(t.FollowGroup)
	if !ok || len(followed.Roots) != 1 {
		return
	}
	target, ok := c.World.Groups.Lookup(t.TargetGroup)
	if !ok {
		return
	}

	delta := followed.Delta.Translation

	// A rotate-around on the followed group also displaces its member;
	// fold that displacement in.
	if followed.Delta.Rotation == level.RotationAround {
		if center, ok := c.World.Groups.Lookup(followed.Delta.CenterGroup); ok && len(center.Members) == 1 {
			pivotT := c.World.Objects[center.Members[0]].Transform
			pivot := mgl32.Vec2{pivotT.Translation.X(), pivotT.Translation.Y()}
			cosSin := mgl32.Vec2{math32.Cos(followed.Delta.Angle), math32.Sin(followed.Delta.Angle)}

			rotated := c.World.Objects[followed.Roots[0]].Transform
			before := mgl32.Vec2{rotated.Translation.X(), rotated.Translation.Y()}
			rotated.TranslateAround(pivot, cosSin)
			after := mgl32.Vec2{rotated.Translation.X(), rotated.Translation.Y()}
			delta = delta.Add(after.Sub(before))
		}
	}

	target.Delta.Translation = target.Delta.Translation.Add(
		mgl32.Vec2{delta.X() * t.Scale.X(), delta.Y() * t.Scale.Y()})
}

func (t *Follow) TargetID() uint64  { return t.TargetGroup }
func (t *Follow) Duration() float32 { return t.Dur }
func (t *Follow) Exclusive() bool   { return false }
func (t *Follow) Post() bool        { return true }
