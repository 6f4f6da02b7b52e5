package trigger

import (
	"math/rand/v2"
	"reflect"
	"sort"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gdsim/gdsim/gmath"
	"github.com/gdsim/gdsim/level"
)

// PickupItems is the size of the dense pickup value table.
const PickupItems = 1000

// PlayerBlock is the collision id standing in for the player's own hitbox.
const PlayerBlock uint64 = ^uint64(0)

// exclusiveKey identifies one exclusivity lane: concrete variant type plus
// the id it acts on.
type exclusiveKey struct {
	variant reflect.Type
	target  uint64
}

// ShakeOutput is the camera shake computed by the latest Shake trigger,
// consumed by the host each tick.
type ShakeOutput struct {
	Strength float32
	Angle    float32
}

// Context is the per-simulation trigger runtime: the static interval index,
// exclusivity and stop bookkeeping, spawn chains and item state. Strictly
// single-threaded within one tick. Created at level load, discarded at
// unload.
type Context struct {
	World *level.World
	Index *Index

	// spawnable and touchable map object indices to their inert entries.
	spawnable map[int32]*Entry
	touchable map[int32]*Entry

	exclusive map[exclusiveKey]float32
	stopped   *orderedmap.OrderedMap[uint64, int]
	activated map[int32]struct{}

	// pending holds chain-spawned entries enqueued this frame; they merge
	// into active at the start of the next Step.
	pending []*Entry
	active  []*Entry

	instances int

	// Transient per-activation state, keyed by entry instance.
	alphaStart map[int]float32
	colorStart map[int]mgl32.Vec4
	pushed     map[int]struct{}

	// overlaps records which collision block ids currently touch, fed by
	// the collision pass before Step runs. armed marks exit-watching
	// collision triggers that have seen their first contact.
	overlaps map[uint64]map[uint64]struct{}
	armed    map[int32]bool

	PickupValues [PickupItems]int64

	Shake ShakeOutput

	// PlayerDelta is the player's displacement this frame, consumed by
	// axis-locked moves.
	PlayerDelta mgl32.Vec2

	// Now is the simulated time at the frame's end position.
	Now float32

	rng *rand.Rand
}

// NewContext wraps a built world and index into a fresh runtime.
func NewContext(w *level.World, ix *Index) *Context {
	return &Context{
		World:      w,
		Index:      ix,
		spawnable:  map[int32]*Entry{},
		touchable:  map[int32]*Entry{},
		exclusive:  map[exclusiveKey]float32{},
		stopped:    orderedmap.NewOrderedMap[uint64, int](),
		activated:  map[int32]struct{}{},
		alphaStart: map[int]float32{},
		colorStart: map[int]mgl32.Vec4{},
		pushed:     map[int]struct{}{},
		overlaps:   map[uint64]map[uint64]struct{}{},
		armed:      map[int32]bool{},
		rng:        rand.New(rand.NewPCG(0, 0)),
	}
}

// Step resolves and executes every trigger overlapping the player movement
// window [prevX, curX). Immediate triggers run in ascending start order;
// post triggers run after all of them.
func (c *Context) Step(prevX, curX float32) {
	if curX <= prevX {
		return
	}
	c.Now = c.World.Timeline.TimeForPos(curX)

	c.active = append(c.active, c.pending...)
	c.pending = c.pending[:0]

	batch := make([]*Entry, 0, len(c.active)+8)
	c.Index.Query(prevX, curX, func(e *Entry) {
		batch = append(batch, e)
	})
	batch = append(batch, c.active...)
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].Span.Start < batch[j].Span.Start
	})

	var post []*Entry
	for _, e := range batch {
		if c.entryStopped(e) || !c.ownersEnabled(e) {
			continue
		}
		if e.Fn.Post() {
			post = append(post, e)
			continue
		}
		c.run(e, prevX, curX)
	}
	for _, e := range post {
		c.run(e, prevX, curX)
	}

	kept := c.active[:0]
	for _, e := range c.active {
		if c.entryStopped(e) || e.Span.Progress(curX) >= 1 {
			c.clearInstance(e.Instance)
			continue
		}
		kept = append(kept, e)
	}
	c.active = kept
}

// run applies the exclusivity rule and executes the entry over its progress
// window.
func (c *Context) run(e *Entry, prevX, curX float32) {
	if e.Fn.Exclusive() {
		key := exclusiveKey{variant: reflect.TypeOf(e.Fn), target: e.Fn.TargetID()}
		if last, ok := c.exclusive[key]; ok && last > e.Span.Start {
			return
		}
		c.exclusive[key] = e.Span.Start
	}
	prev := e.Span.Progress(prevX)
	if !e.started {
		e.started = true
		prev = 0
	}
	e.Fn.Execute(c, e, prev, e.Span.Progress(curX))
}

// entryStopped reports whether a recorded Stop suppresses the entry: a Stop
// at sequence n on the entry's target skips every earlier-sequenced trigger.
func (c *Context) entryStopped(e *Entry) bool {
	target := e.Fn.TargetID()
	if target == 0 {
		return false
	}
	seq, ok := c.stopped.Get(target)
	return ok && e.Seq < seq
}

// ownersEnabled reports whether all groups the trigger object belongs to
// are enabled this frame.
func (c *Context) ownersEnabled(e *Entry) bool {
	for _, gid := range e.Groups {
		if group, ok := c.World.Groups.Lookup(gid); ok && !group.Enabled {
			return false
		}
	}
	return true
}

// RecordStop suppresses all triggers on the target with a sequence below
// seq for the remainder of the simulation.
func (c *Context) RecordStop(target uint64, seq int) {
	c.stopped.Set(target, seq)
}

// SpawnGroup enqueues every eligible spawn-activated trigger of the target
// group with an interval starting delay seconds after the spawner's own
// start. Eligible means spawn-activated, owner-enabled, and not already
// activated unless marked multi-activate.
func (c *Context) SpawnGroup(groupID uint64, base Span, delay float32) {
	group, ok := c.World.Groups.Lookup(groupID)
	if !ok {
		return
	}
	tl := c.World.Timeline
	startTime := tl.TimeForPos(base.Start) + delay
	startPos := tl.PosForTime(startTime)

	for _, idx := range group.Roots {
		proto, ok := c.spawnable[idx]
		if !ok {
			continue
		}
		if _, done := c.activated[idx]; done && !proto.MultiActivate {
			continue
		}
		if !c.World.Objects[idx].GroupEnabled {
			continue
		}
		c.enqueue(proto, startPos, tl.PosForTime(startTime+proto.Fn.Duration()))
		if !proto.MultiActivate {
			c.activated[idx] = struct{}{}
		}
	}
}

// Touch activates a touch-activated trigger object, routing it through the
// spawned path with an interval starting at the touch position.
func (c *Context) Touch(object int32, x float32) {
	proto, ok := c.touchable[object]
	if !ok {
		return
	}
	if _, done := c.activated[object]; done && !proto.MultiActivate {
		return
	}
	end := c.World.Timeline.PosForTime(c.World.Timeline.TimeForPos(x) + proto.Fn.Duration())
	c.enqueue(proto, x, end)
	if !proto.MultiActivate {
		c.activated[object] = struct{}{}
	}
}

// Requeue re-enqueues a live entry with a zero-width interval at the
// current position. Used by watcher-style triggers to poll again next frame.
// Watchers whose condition never holds die at the level's right edge rather
// than re-enqueueing forever.
func (c *Context) Requeue(e *Entry) {
	pos := c.World.Timeline.PosForTime(c.Now)
	if pos > c.World.MaxX() {
		return
	}
	c.enqueue(e, pos, pos)
}

func (c *Context) enqueue(proto *Entry, startPos, endPos float32) {
	if endPos <= startPos {
		endPos = gmath.NextAfter32(startPos)
	}
	c.instances++
	c.pending = append(c.pending, &Entry{
		Fn:            proto.Fn,
		Object:        proto.Object,
		Groups:        proto.Groups,
		Seq:           proto.Seq,
		Instance:      c.instances,
		Span:          Span{Start: startPos, End: endPos},
		Activation:    ActivateSpawn,
		MultiActivate: proto.MultiActivate,
	})
}

// clearInstance drops the transient state of a finished activation.
func (c *Context) clearInstance(instance int) {
	delete(c.alphaStart, instance)
	delete(c.colorStart, instance)
	delete(c.pushed, instance)
}

// ClearOverlaps resets the collision block overlap state for a new frame.
func (c *Context) ClearOverlaps() {
	for k := range c.overlaps {
		delete(c.overlaps, k)
	}
}

// SetOverlap records that two collision block ids touch this frame. Use
// PlayerBlock for the player's side.
func (c *Context) SetOverlap(a, b uint64) {
	c.setOverlap(a, b)
	c.setOverlap(b, a)
}

func (c *Context) setOverlap(a, b uint64) {
	set, ok := c.overlaps[a]
	if !ok {
		set = map[uint64]struct{}{}
		c.overlaps[a] = set
	}
	set[b] = struct{}{}
}

// Overlapping reports whether the two collision block ids touch this frame.
func (c *Context) Overlapping(a, b uint64) bool {
	_, ok := c.overlaps[a][b]
	return ok
}

// ActiveCount is the number of live spawned entries, exposed for the host's
// debug output.
func (c *Context) ActiveCount() int {
	return len(c.active) + len(c.pending)
}
