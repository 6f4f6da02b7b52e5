package trigger

// Spawn chain-activates the spawn-activated triggers of the target group
// once its own interval completes, delayed by the configured offset. Runs
// post so it observes group membership and enabled flags as left by this
// frame's immediate triggers.
type Spawn struct {
	TargetGroup uint64
	Delay       float32
}

func (t *Spawn) Execute(c *Context, e *Entry, _, cur float32) {
	if cur < 1 {
		return
	}
	c.SpawnGroup(t.TargetGroup, e.Span, t.Delay)
}

// TargetID is zero: a spawn chain is not stoppable by its target group.
func (t *Spawn) TargetID() uint64  { return 0 }
func (t *Spawn) Duration() float32 { return t.Delay }
func (t *Spawn) Exclusive() bool   { return false }
func (t *Spawn) Post() bool        { return true }
