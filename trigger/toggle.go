package trigger

// Toggle sets the target group's enabled flag. Instant.
type Toggle struct {
	TargetGroup uint64
	Activate    bool
}

func (t *Toggle) Execute(c *Context, _ *Entry, _, _ float32) {
	c.World.Groups.Get(t.TargetGroup).Enabled = t.Activate
}

func (t *Toggle) TargetID() uint64  { return t.TargetGroup }
func (t *Toggle) Duration() float32 { return 0 }
func (t *Toggle) Exclusive() bool   { return false }
func (t *Toggle) Post() bool        { return false }
