package trigger

import (
	"github.com/chewxy/math32"
)

// Shake emits a randomized camera offset at the configured interval for the
// trigger's duration, clearing it when done. Exclusive so overlapping
// shakes don't fight.
type Shake struct {
	Dur      float32
	Strength float32
	Interval float32
}

func (t *Shake) Execute(c *Context, _ *Entry, prev, cur float32) {
	if cur >= 1 {
		c.Shake = ShakeOutput{}
		return
	}

	if t.Interval != 0 && t.Dur > 0 {
		// Only re-roll when the progress window crosses an interval
		// boundary.
		step := t.Interval / t.Dur
		if math32.Mod(cur, step)-math32.Mod(prev, step) >= 0 {
			return
		}
	}

	c.Shake = ShakeOutput{
		Strength: t.Strength * 1.5 * c.rng.Float32(),
		Angle:    2 * math32.Pi * c.rng.Float32(),
	}
}

func (t *Shake) TargetID() uint64  { return 0 }
func (t *Shake) Duration() float32 { return t.Dur }
func (t *Shake) Exclusive() bool   { return true }
func (t *Shake) Post() bool        { return false }
