package trigger

// Pickup adds to a dense item counter when its interval completes.
type Pickup struct {
	ItemID uint64
	Count  int64
}

func (t *Pickup) Execute(c *Context, _ *Entry, _, cur float32) {
	if cur < 1 {
		return
	}
	if t.ItemID >= PickupItems {
		return
	}
	c.PickupValues[t.ItemID] += t.Count
}

func (t *Pickup) TargetID() uint64  { return 0 }
func (t *Pickup) Duration() float32 { return 0 }
func (t *Pickup) Exclusive() bool   { return false }
func (t *Pickup) Post() bool        { return false }
