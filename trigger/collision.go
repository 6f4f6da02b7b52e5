package trigger

// Collision watches a pair of collision block ids, one of which may be the
// player sentinel. While the blocks are apart it polls by re-enqueueing
// itself; on overlap (or separation, with OnExit) it toggles the target
// group and spawn-chains it.
type Collision struct {
	BlockA      uint64
	BlockB      uint64
	TargetGroup uint64
	Activate    bool
	OnExit      bool
}

func (t *Collision) Execute(c *Context, e *Entry, _, cur float32) {
	if cur < 1 {
		return
	}

	touching := c.Overlapping(t.BlockA, t.BlockB)
	if t.OnExit {
		// Arm on first contact, fire on the following separation.
		if touching {
			c.armed[e.Object] = true
			c.Requeue(e)
			return
		}
		if !c.armed[e.Object] {
			c.Requeue(e)
			return
		}
		delete(c.armed, e.Object)
	} else if !touching {
		c.Requeue(e)
		return
	}

	group := c.World.Groups.Get(t.TargetGroup)
	group.Enabled = t.Activate
	if !group.Enabled {
		return
	}
	c.SpawnGroup(t.TargetGroup, e.Span, 0)
}

func (t *Collision) TargetID() uint64  { return t.TargetGroup }
func (t *Collision) Duration() float32 { return 0 }
func (t *Collision) Exclusive() bool   { return false }
func (t *Collision) Post() bool        { return true }
