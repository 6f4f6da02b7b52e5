package trigger

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gdsim/gdsim/gmath"
	"github.com/gdsim/gdsim/level"
)

// Rotate writes an eased angle delta on the target group, optionally around
// the single member of a center group. Rotation deltas are last-writer
// within a frame; a running rotate is exclusive so a later one on the same
// group supersedes it.
type Rotate struct {
	Dur          float32
	Easing       gmath.Easing
	TargetGroup  uint64
	CenterGroup  uint64
	Degrees      int
	Times360     int
	LockRotation bool
}

func (t *Rotate) Execute(c *Context, _ *Entry, prev, cur float32) {
	group, ok := c.World.Groups.Lookup(t.TargetGroup)
	if !ok {
		return
	}

	amount := t.Easing.Sample(cur) - t.Easing.Sample(prev)
	angle := -mgl32.DegToRad(float32(360*t.Times360+t.Degrees)) * amount
	if angle == 0 {
		return
	}

	delta := &group.Delta
	delta.Angle = angle
	delta.LockRotation = t.LockRotation
	if t.CenterGroup != 0 {
		delta.Rotation = level.RotationAround
		delta.CenterGroup = t.CenterGroup
	} else {
		delta.Rotation = level.RotationAngle
	}
}

func (t *Rotate) TargetID() uint64  { return t.TargetGroup }
func (t *Rotate) Duration() float32 { return t.Dur }
func (t *Rotate) Exclusive() bool   { return t.Dur > 0 }
func (t *Rotate) Post() bool        { return false }
