package trigger

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gdsim/gdsim/level"
)

// pulseGroupBias separates group targets from channel targets in the
// exclusivity table, since both share one id namespace here.
const pulseGroupBias = uint64(math.MaxUint64 / 2)

// Pulse pushes a time-windowed color or HSV pulse onto the target channel's
// stack or the target group's base/detail lanes. The color resolution pass
// composites and drains the stacks; the trigger itself only pushes once per
// activation.
type Pulse struct {
	FadeIn  float32
	Hold    float32
	FadeOut float32

	TargetGroupID bool
	Target        uint64

	Color  mgl32.Vec3
	HSV    level.HSVMod
	UseHSV bool

	BaseOnly   bool
	DetailOnly bool
	Excl       bool
}

func (t *Pulse) Execute(c *Context, e *Entry, _, _ float32) {
	if _, done := c.pushed[e.Instance]; done {
		return
	}
	c.pushed[e.Instance] = struct{}{}

	pulse := level.Pulse{
		Start:      c.Now,
		FadeIn:     t.FadeIn,
		Hold:       t.Hold,
		FadeOut:    t.FadeOut,
		Color:      t.Color,
		HSV:        t.HSV,
		UseHSV:     t.UseHSV,
		BaseOnly:   t.BaseOnly,
		DetailOnly: t.DetailOnly,
	}

	if !t.TargetGroupID {
		channel := c.World.Colors.Get(t.Target)
		channel.Pulses = append(channel.Pulses, pulse)
		return
	}

	group := c.World.Groups.Get(t.Target)
	if !t.DetailOnly {
		group.BasePulses = append(group.BasePulses, pulse)
	}
	if !t.BaseOnly {
		group.DetailPulses = append(group.DetailPulses, pulse)
	}
}

func (t *Pulse) TargetID() uint64 {
	if t.TargetGroupID {
		return t.Target + pulseGroupBias
	}
	return t.Target
}

func (t *Pulse) Duration() float32 { return t.FadeIn + t.Hold + t.FadeOut }
func (t *Pulse) Exclusive() bool   { return t.Excl }
func (t *Pulse) Post() bool        { return false }
