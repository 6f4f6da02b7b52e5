package trigger

import (
	"github.com/gdsim/gdsim/gmath"
)

// Alpha fades the target group's opacity from its value at activation to
// the target over the duration. Always exclusive: concurrent fades on one
// group would fight each other.
type Alpha struct {
	Dur           float32
	TargetGroup   uint64
	TargetOpacity float32
}

func (t *Alpha) Execute(c *Context, e *Entry, _, cur float32) {
	group := c.World.Groups.Get(t.TargetGroup)

	start, ok := c.alphaStart[e.Instance]
	if !ok {
		start = group.Opacity
		c.alphaStart[e.Instance] = start
	}

	if cur >= 1 || t.Dur == 0 {
		group.Opacity = t.TargetOpacity
		return
	}
	group.Opacity = gmath.Lerp(start, t.TargetOpacity, cur)
}

func (t *Alpha) TargetID() uint64  { return t.TargetGroup }
func (t *Alpha) Duration() float32 { return t.Dur }
func (t *Alpha) Exclusive() bool   { return true }
func (t *Alpha) Post() bool        { return false }
