package level

import (
	"github.com/chewxy/math32"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// RotationKind tells how a group's pending rotation delta is applied.
type RotationKind uint8

const (
	// RotationNone means no rotation was queued this frame.
	RotationNone RotationKind = iota
	// RotationAngle rotates every member around its own anchor.
	RotationAngle
	// RotationAround rotates members around the single member of a pivot
	// group.
	RotationAround
)

// GroupDelta is the transform change accumulated for one group during one
// frame. Translation accumulates commutatively; rotation is last-writer.
type GroupDelta struct {
	Translation mgl32.Vec2

	Rotation     RotationKind
	Angle        float32
	CenterGroup  uint64
	LockRotation bool
}

// reset restores the delta to identity. Called exactly once per frame before
// trigger execution.
func (d *GroupDelta) reset() {
	*d = GroupDelta{}
}

// Group is a set of objects addressed by trigger targets.
type Group struct {
	ID uint64

	// Members holds every object index in the group, Roots only the ones
	// without a parent (chained spawns walk roots).
	Members []int32
	Roots   []int32

	Enabled bool
	Opacity float32

	// Delta is the pending transform change for this frame.
	Delta GroupDelta

	// Pulse lanes for group-targeted pulse triggers.
	BasePulses   []Pulse
	DetailPulses []Pulse
}

// GlobalGroups is the group registry of one simulation instance. Lookups for
// ids never defined lazily create an empty, enabled placeholder so that
// forward references in level data never fail.
type GlobalGroups struct {
	m *orderedmap.OrderedMap[uint64, *Group]
}

// NewGlobalGroups returns an empty registry.
func NewGlobalGroups() *GlobalGroups {
	return &GlobalGroups{m: orderedmap.NewOrderedMap[uint64, *Group]()}
}

// Get returns the group with the given id, creating a placeholder when the
// id has not been seen before.
func (g *GlobalGroups) Get(id uint64) *Group {
	if group, ok := g.m.Get(id); ok {
		return group
	}
	group := &Group{ID: id, Enabled: true, Opacity: 1}
	g.m.Set(id, group)
	return group
}

// Lookup returns the group only if it already exists.
func (g *GlobalGroups) Lookup(id uint64) (*Group, bool) {
	return g.m.Get(id)
}

// Each iterates all known groups in insertion order.
func (g *GlobalGroups) Each(fn func(*Group)) {
	for el := g.m.Front(); el != nil; el = el.Next() {
		fn(el.Value)
	}
}

// ClearDeltas resets every group's pending delta to identity.
func (g *GlobalGroups) ClearDeltas() {
	g.Each(func(group *Group) {
		group.Delta.reset()
	})
}

// ApplyGroupDeltas applies every group's accumulated delta to its members'
// transforms, relocating objects whose bucket changed. Rotation around a
// pivot group is silently skipped unless the pivot has exactly one member.
func (w *World) ApplyGroupDeltas() {
	w.Groups.Each(func(group *Group) {
		delta := group.Delta
		if delta.Translation == (mgl32.Vec2{}) && delta.Rotation == RotationNone {
			return
		}

		var pivot mgl32.Vec2
		var cosSin mgl32.Vec2
		if delta.Rotation == RotationAround {
			center, ok := w.Groups.Lookup(delta.CenterGroup)
			if !ok || len(center.Members) != 1 {
				delta.Rotation = RotationNone
			} else {
				t := w.Objects[center.Members[0]].Transform
				pivot = mgl32.Vec2{t.Translation.X(), t.Translation.Y()}
				cosSin = mgl32.Vec2{math32.Cos(delta.Angle), math32.Sin(delta.Angle)}
			}
		}

		for _, index := range group.Members {
			obj := &w.Objects[index]
			t := &obj.Transform

			t.Translation = t.Translation.Add(mgl32.Vec3{delta.Translation.X(), delta.Translation.Y(), 0})

			switch delta.Rotation {
			case RotationAngle:
				t.Angle += delta.Angle
			case RotationAround:
				t.TranslateAround(pivot, cosSin)
				if !delta.LockRotation {
					t.Angle += delta.Angle
				}
			}

			w.markTransformDirty(index)
		}
	})
}
