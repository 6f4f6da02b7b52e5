package trigger

// Span is an absolute activation interval in position space. End is always
// strictly greater than Start; instant events get a one-ULP interval at
// build time.
type Span struct {
	Start, End float32
}

// Progress maps a player position into [0, 1] over the span.
func (s Span) Progress(x float32) float32 {
	if x <= s.Start {
		return 0
	}
	if x >= s.End {
		return 1
	}
	return (x - s.Start) / (s.End - s.Start)
}

// Trigger is one scripted event's behavior. Implementations are immutable
// after parsing; transient per-activation state lives in Context side tables
// keyed by the entry instance, because entries are cloned for spawn chains.
type Trigger interface {
	// Execute advances the trigger over one frame's progress window.
	Execute(c *Context, e *Entry, prev, cur float32)

	// TargetID is the group or channel the trigger acts on. Used for
	// exclusivity and stop bookkeeping; variants without a stoppable
	// target report 0.
	TargetID() uint64

	// Duration is the trigger's running time in simulated seconds.
	Duration() float32

	// Exclusive reports whether a later-starting instance on the same
	// target supersedes this one.
	Exclusive() bool

	// Post defers execution until all immediate triggers of the frame ran.
	Post() bool
}

// Activation tells how a trigger entry becomes live.
type Activation uint8

const (
	// ActivatePos activates when the player crosses the object's x.
	ActivatePos Activation = iota
	// ActivateTouch activates on player hitbox overlap.
	ActivateTouch
	// ActivateSpawn activates only through a spawn chain.
	ActivateSpawn
)

// Entry is one live or indexable trigger instance: the behavior plus its
// activation interval and bookkeeping identity.
type Entry struct {
	Fn Trigger

	// Object is the owning object's index in the world.
	Object int32
	// Groups are the owning object's group ids; a live entry is skipped
	// while any of them is disabled.
	Groups []uint64

	// Seq is the stable level-order ordinal, shared by spawned clones of
	// the same object. Stop ordering compares against it.
	Seq int
	// Instance uniquely identifies this activation for transient state.
	Instance int

	Span          Span
	Activation    Activation
	MultiActivate bool

	// started is set by the first execution. Chain-spawned entries can
	// merge a frame after their span began; the first run treats them as
	// starting from zero progress so no eased amount is lost.
	started bool
}
