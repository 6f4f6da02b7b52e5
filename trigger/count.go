package trigger

// CountMode is the comparison an item-count condition uses.
type CountMode uint8

const (
	CountEqual CountMode = iota
	CountLarger
	CountSmaller
)

// compare applies the mode to a live item value.
func (m CountMode) compare(value, target int64) bool {
	switch m {
	case CountLarger:
		return value > target
	case CountSmaller:
		return value < target
	default:
		return value == target
	}
}

// itemValue reads the dense pickup table with bounds applied.
func (c *Context) itemValue(item uint64) int64 {
	if item >= PickupItems {
		return 0
	}
	return c.PickupValues[item]
}

// InstantCount compares an item counter once when its interval completes;
// on success it toggles the target group and spawn-chains it. Runs post so
// it sees pickups collected earlier in the same frame.
type InstantCount struct {
	ItemID      uint64
	TargetCount int64
	Mode        CountMode
	TargetGroup uint64
	Activate    bool
}

func (t *InstantCount) Execute(c *Context, e *Entry, _, cur float32) {
	if cur < 1 {
		return
	}
	if !t.Mode.compare(c.itemValue(t.ItemID), t.TargetCount) {
		return
	}

	group := c.World.Groups.Get(t.TargetGroup)
	group.Enabled = t.Activate
	if !group.Enabled {
		return
	}
	c.SpawnGroup(t.TargetGroup, e.Span, 0)
}

func (t *InstantCount) TargetID() uint64  { return t.TargetGroup }
func (t *InstantCount) Duration() float32 { return 0 }
func (t *InstantCount) Exclusive() bool   { return false }
func (t *InstantCount) Post() bool        { return true }

// Count is the persistent form: after activation it polls the item counter
// every frame by re-enqueueing itself until the counter crosses the target,
// then fires like InstantCount. The last observed value lives on the
// trigger because a requeue mints a fresh entry instance each frame.
type Count struct {
	ItemID      uint64
	TargetCount int64
	TargetGroup uint64
	Activate    bool

	seen bool
	last int64
}

func (t *Count) Execute(c *Context, e *Entry, _, cur float32) {
	if cur < 1 {
		return
	}
	value := c.itemValue(t.ItemID)
	// A pickup may step the counter past the target without ever landing on
	// it, so a side change counts as a crossing too.
	crossed := value == t.TargetCount ||
		(t.seen && (t.last < t.TargetCount) != (value < t.TargetCount))
	t.seen, t.last = true, value
	if !crossed {
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

func (t *Count) TargetID() uint64  { return t.TargetGroup }
func (t *Count) Duration() float32 { return 0 }
func (t *Count) Exclusive() bool   { return false }
func (t *Count) Post() bool        { return true }
