package trigger

// Stop suppresses every earlier-sequenced trigger on the target group for
// the remainder of the simulation.
type Stop struct {
	TargetGroup uint64
}

func (t *Stop) Execute(c *Context, e *Entry, _, _ float32) {
	c.RecordStop(t.TargetGroup, e.Seq)
}

func (t *Stop) TargetID() uint64  { return t.TargetGroup }
func (t *Stop) Duration() float32 { return 0 }
func (t *Stop) Exclusive() bool   { return false }
func (t *Stop) Post() bool        { return false }
