package trigger

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gdsim/gdsim/gmath"
)

// Color fades a color channel's base value from its resolved color at
// activation to the target color over the duration, then overwrites the
// channel. Exclusive per channel.
type Color struct {
	Dur           float32
	TargetChannel uint64
	TargetColor   mgl32.Vec4
	Blending      bool
}

func (t *Color) Execute(c *Context, e *Entry, _, cur float32) {
	channel := c.World.Colors.Get(t.TargetChannel)

	start, ok := c.colorStart[e.Instance]
	if !ok {
		start, _ = channel.Resolved()
		c.colorStart[e.Instance] = start
	}

	if cur >= 1 || t.Dur == 0 {
		channel.SetBase(t.TargetColor, t.Blending)
		return
	}
	channel.SetBase(gmath.LerpVec4(start, t.TargetColor, cur), t.Blending)
}

func (t *Color) TargetID() uint64  { return t.TargetChannel }
func (t *Color) Duration() float32 { return t.Dur }
func (t *Color) Exclusive() bool   { return true }
func (t *Color) Post() bool        { return false }
