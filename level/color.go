package level

import (
	"strconv"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gdsim/gdsim/gerror"
	"github.com/gdsim/gdsim/gmath"
)

// ColorWhite is the fallback for unresolved channels and placeholders.
var ColorWhite = mgl32.Vec4{1, 1, 1, 1}

// HSVMod shifts a color in HSV space: the hue delta is additive, saturation
// and value are multiplicative unless flagged absolute.
type HSVMod struct {
	H, S, V   float32
	SAbsolute bool
	VAbsolute bool
}

// DefaultHSVMod is the identity modifier.
func DefaultHSVMod() HSVMod {
	return HSVMod{S: 1, V: 1}
}

// ParseHSVMod parses the level format's 'a'-separated HSV string.
func ParseHSVMod(raw string) (HSVMod, error) {
	parts := strings.Split(raw, "a")
	if len(parts) != 5 {
		return HSVMod{}, gerror.New("hsv modifier needs 5 fields, got %v", len(parts))
	}
	h, err := strconv.ParseFloat(parts[0], 32)
	if err != nil {
		return HSVMod{}, err
	}
	s, err := strconv.ParseFloat(parts[1], 32)
	if err != nil {
		return HSVMod{}, err
	}
	v, err := strconv.ParseFloat(parts[2], 32)
	if err != nil {
		return HSVMod{}, err
	}
	return HSVMod{
		H:         float32(h),
		S:         float32(s),
		V:         float32(v),
		SAbsolute: parts[3] == "1",
		VAbsolute: parts[4] == "1",
	}, nil
}

// Apply shifts the RGB part of a color, keeping its alpha.
func (m HSVMod) Apply(color mgl32.Vec4) mgl32.Vec4 {
	h, s, v := gmath.RGBToHSV(color.X(), color.Y(), color.Z())
	h += m.H
	if m.SAbsolute {
		s += m.S
	} else {
		s *= m.S
	}
	if m.VAbsolute {
		v += m.V
	} else {
		v *= m.V
	}
	r, g, b := gmath.HSVToRGB(h, s, v)
	return mgl32.Vec4{r, g, b, color.W()}
}

// ColorChannel is a named color source: either a base RGBA value or a
// modified copy of another channel.
type ColorChannel struct {
	ID uint64

	// Copied discriminates the two variants.
	Copied bool

	// Base fields.
	Color    mgl32.Vec4
	Blending bool

	// Copy fields.
	CopiedID    uint64
	CopyOpacity bool
	Opacity     float32
	HSV         *HSVMod

	// Pulses is the pulse stack drained by the resolution pass.
	Pulses []Pulse

	children []uint64

	resolved         mgl32.Vec4
	resolvedBlending bool
	deferred         bool
	changed          bool
}

// Resolved returns the channel's output for this frame and its blending flag.
func (c *ColorChannel) Resolved() (mgl32.Vec4, bool) {
	return c.resolved, c.resolvedBlending
}

// Changed reports whether the resolved output changed during the last
// resolution pass. Consumed by the object color pass to skip stable objects.
func (c *ColorChannel) Changed() bool {
	return c.changed
}

// SetBase overwrites the channel with a base color. Used by color triggers.
func (c *ColorChannel) SetBase(color mgl32.Vec4, blending bool) {
	c.Copied = false
	c.Color = color
	c.Blending = blending
}

// ParseColorChannel parses one '_'-separated channel string from the level
// header and returns its id.
func ParseColorChannel(raw string) (*ColorChannel, error) {
	fields := map[string]string{}
	parts := strings.Split(raw, "_")
	for i := 0; i+1 < len(parts); i += 2 {
		fields[parts[i]] = parts[i+1]
	}

	idRaw, ok := fields["6"]
	if !ok {
		return nil, gerror.New("color channel without an id")
	}
	id, err := strconv.ParseUint(idRaw, 10, 64)
	if err != nil {
		return nil, err
	}

	channel := &ColorChannel{ID: id, Color: ColorWhite, Opacity: 1}
	channel.Blending = fields["5"] == "1"

	if opacity, ok := fields["7"]; ok {
		v, err := strconv.ParseFloat(opacity, 32)
		if err != nil {
			return nil, err
		}
		channel.Opacity = float32(v)
		channel.Color[3] = float32(v)
	}

	if copied, ok := fields["9"]; ok {
		channel.Copied = true
		channel.CopiedID, err = strconv.ParseUint(copied, 10, 64)
		if err != nil {
			return nil, err
		}
		channel.CopyOpacity = fields["17"] == "1"
		if hsvRaw, ok := fields["10"]; ok {
			hsv, err := ParseHSVMod(hsvRaw)
			if err != nil {
				return nil, err
			}
			channel.HSV = &hsv
		}
		return channel, nil
	}

	for i, key := range [...]string{"1", "2", "3"} {
		if component, ok := fields[key]; ok {
			v, err := strconv.ParseUint(component, 10, 8)
			if err != nil {
				return nil, err
			}
			channel.Color[i] = float32(v) / 255
		}
	}
	return channel, nil
}

// GlobalColorChannels is the color channel registry of one simulation
// instance. Unknown ids resolve lazily to a default white base channel.
type GlobalColorChannels struct {
	m *orderedmap.OrderedMap[uint64, *ColorChannel]

	roots []uint64
}

// NewGlobalColorChannels returns an empty registry.
func NewGlobalColorChannels() *GlobalColorChannels {
	return &GlobalColorChannels{m: orderedmap.NewOrderedMap[uint64, *ColorChannel]()}
}

// Get returns the channel with the given id, creating a default white base
// channel when the id has not been seen before.
func (g *GlobalColorChannels) Get(id uint64) *ColorChannel {
	if channel, ok := g.m.Get(id); ok {
		return channel
	}
	channel := &ColorChannel{
		ID:       id,
		Color:    ColorWhite,
		Opacity:  1,
		resolved: ColorWhite,
	}
	g.m.Set(id, channel)
	return channel
}

// Lookup returns the channel only if it already exists. Safe for concurrent
// readers, unlike Get.
func (g *GlobalColorChannels) Lookup(id uint64) (*ColorChannel, bool) {
	return g.m.Get(id)
}

// Add registers a parsed channel, replacing any placeholder under its id.
func (g *GlobalColorChannels) Add(channel *ColorChannel) {
	if existing, ok := g.m.Get(channel.ID); ok {
		// Keep the arena node stable; dependents hold the id, not the
		// pointer, but children lists may already reference it.
		*existing = *channel
		return
	}
	g.m.Set(channel.ID, channel)
}

// BuildHierarchy wires child lists from copy back-references. Unseen source
// ids get a placeholder base channel. Called once after the header is parsed.
func (g *GlobalColorChannels) BuildHierarchy() {
	var reparent [][2]uint64
	for el := g.m.Front(); el != nil; el = el.Next() {
		channel := el.Value
		channel.children = channel.children[:0]
		if channel.Copied {
			reparent = append(reparent, [2]uint64{channel.CopiedID, channel.ID})
		}
	}
	// Applied after the traversal so placeholder creation never mutates the
	// map mid-iteration.
	for _, edge := range reparent {
		parent := g.Get(edge[0])
		parent.children = append(parent.children, edge[1])
	}

	g.roots = g.roots[:0]
	for el := g.m.Front(); el != nil; el = el.Next() {
		if !el.Value.Copied {
			g.roots = append(g.roots, el.Key)
		}
	}
}

// Resolve propagates colors from base channels down the copy forest and
// composites pulse stacks. A channel revisited while still resolving (a
// direct or transitive self-copy) is deferred to the next frame instead of
// recursing; it keeps its previous output. now is the elapsed simulated time
// used to weight pulses.
func (g *GlobalColorChannels) Resolve(now float32) {
	resolving := make(map[uint64]bool, 8)
	for el := g.m.Front(); el != nil; el = el.Next() {
		el.Value.changed = false
		el.Value.deferred = false
	}

	for _, id := range g.roots {
		channel := g.Get(id)
		out := channel.Color
		if channel.Blending {
			out[3] = out[3] * out[3]
		}
		out = channel.applyPulses(out, now)
		channel.setResolved(out, channel.Blending)
		g.resolveChildren(channel, resolving, now)
	}

	// Channels reachable only through a cycle have no base root; walk any
	// copy channel that was never visited and defer the cycle entry point.
	for el := g.m.Front(); el != nil; el = el.Next() {
		channel := el.Value
		if channel.Copied && !channel.changed && !channel.deferred {
			channel.deferred = true
			g.resolveChildren(channel, resolving, now)
		}
	}
}

func (g *GlobalColorChannels) resolveChildren(parent *ColorChannel, resolving map[uint64]bool, now float32) {
	if resolving[parent.ID] {
		return
	}
	resolving[parent.ID] = true
	defer delete(resolving, parent.ID)

	parentColor, _ := parent.Resolved()
	for _, childID := range parent.children {
		child := g.Get(childID)
		if resolving[childID] {
			child.deferred = true
			continue
		}
		if !child.Copied {
			// A base channel re-registered over a copy placeholder; it is
			// resolved as a root already.
			continue
		}

		out := parentColor
		if !child.CopyOpacity {
			out[3] = child.Opacity
		}
		if child.HSV != nil {
			out = child.HSV.Apply(out)
		}
		if child.Blending {
			out[3] = out[3] * out[3]
		}
		out = child.applyPulses(out, now)
		child.setResolved(out, child.Blending)

		g.resolveChildren(child, resolving, now)
	}
}

func (c *ColorChannel) setResolved(color mgl32.Vec4, blending bool) {
	if c.resolved != color || c.resolvedBlending != blending {
		c.changed = true
	}
	c.resolved = color
	c.resolvedBlending = blending
}

func (c *ColorChannel) applyPulses(color mgl32.Vec4, now float32) mgl32.Vec4 {
	if len(c.Pulses) == 0 {
		return color
	}
	kept := c.Pulses[:0]
	for _, pulse := range c.Pulses {
		weight, done := pulse.Weight(now)
		color = pulse.Composite(color, weight)
		if !done {
			kept = append(kept, pulse)
		} else {
			c.changed = true
		}
	}
	c.Pulses = kept
	return color
}

// Pulse is a time-weighted color or HSV modification pushed by pulse
// triggers; it fades in, holds and fades out in simulated time.
type Pulse struct {
	Start   float32
	FadeIn  float32
	Hold    float32
	FadeOut float32

	// Either a flat color target or an HSV shift of the current color.
	Color  mgl32.Vec3
	HSV    HSVMod
	UseHSV bool

	// Group-lane filters; meaningless for channel pulses.
	BaseOnly   bool
	DetailOnly bool
}

// Weight returns the pulse's blend factor at the given simulated time and
// whether the pulse has fully played out.
func (p Pulse) Weight(now float32) (float32, bool) {
	elapsed := now - p.Start
	switch {
	case elapsed < 0:
		return 0, false
	case elapsed < p.FadeIn:
		return elapsed / p.FadeIn, false
	case elapsed < p.FadeIn+p.Hold:
		return 1, false
	case elapsed < p.FadeIn+p.Hold+p.FadeOut:
		return 1 - (elapsed-p.FadeIn-p.Hold)/p.FadeOut, false
	default:
		return 0, true
	}
}

// Composite blends the pulse target over a color by the given weight.
func (p Pulse) Composite(color mgl32.Vec4, weight float32) mgl32.Vec4 {
	if weight <= 0 {
		return color
	}
	var target mgl32.Vec4
	if p.UseHSV {
		target = p.HSV.Apply(color)
	} else {
		target = mgl32.Vec4{p.Color.X(), p.Color.Y(), p.Color.Z(), color.W()}
	}
	return gmath.LerpVec4(color, target, weight)
}

// ApplyGroupPulses composites the matching pulse lane of each group the
// object belongs to. Read-only: the parallel object color pass shares group
// state across workers, so pruning happens separately in PrunePulses.
func ApplyGroupPulses(groups []*Group, color mgl32.Vec4, detail bool, now float32) mgl32.Vec4 {
	for _, group := range groups {
		lane := group.BasePulses
		if detail {
			lane = group.DetailPulses
		}
		for _, pulse := range lane {
			weight, _ := pulse.Weight(now)
			color = pulse.Composite(color, weight)
		}
	}
	return color
}

// PrunePulses drops finished group pulses. Runs sequentially once per frame,
// after the parallel object color pass.
func (g *GlobalGroups) PrunePulses(now float32) {
	prune := func(lane []Pulse) []Pulse {
		kept := lane[:0]
		for _, pulse := range lane {
			if _, done := pulse.Weight(now); !done {
				kept = append(kept, pulse)
			}
		}
		return kept
	}
	g.Each(func(group *Group) {
		group.BasePulses = prune(group.BasePulses)
		group.DetailPulses = prune(group.DetailPulses)
	})
}
