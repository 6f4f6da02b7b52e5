package trigger

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gdsim/gdsim/gmath"
)

// Move accumulates an eased translation into the target group's pending
// delta. Axis locks replace the eased component with the player's own frame
// displacement on that axis.
type Move struct {
	Dur         float32
	Easing      gmath.Easing
	TargetGroup uint64
	Offset      mgl32.Vec2
	LockX       bool
	LockY       bool
}

func (t *Move) Execute(c *Context, _ *Entry, prev, cur float32) {
	group, ok := c.World.Groups.Lookup(t.TargetGroup)
	if !ok {
		return
	}

	amount := t.Easing.Sample(cur) - t.Easing.Sample(prev)
	delta := t.Offset.Mul(amount)

	if t.LockX {
		delta[0] += c.PlayerDelta.X()
	}
	if t.LockY {
		delta[1] += c.PlayerDelta.Y()
	}

	group.Delta.Translation = group.Delta.Translation.Add(delta)
}

func (t *Move) TargetID() uint64  { return t.TargetGroup }
func (t *Move) Duration() float32 { return t.Dur }
func (t *Move) Exclusive() bool   { return false }
func (t *Move) Post() bool        { return false }
