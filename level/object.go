package level

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
)

// ObjectData is one decoded attribute record: the key→value map the external
// level loader produces for each object.
type ObjectData map[string]string

// Int parses an integer attribute, returning fallback when absent or
// malformed.
func (d ObjectData) Int(key string, fallback int64) int64 {
	raw, ok := d[key]
	if !ok {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

// Uint parses an unsigned integer attribute.
func (d ObjectData) Uint(key string, fallback uint64) uint64 {
	raw, ok := d[key]
	if !ok {
		return fallback
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

// Float parses a float attribute.
func (d ObjectData) Float(key string, fallback float32) float32 {
	raw, ok := d[key]
	if !ok {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return fallback
	}
	return float32(v)
}

// Bool parses a boolean attribute; the level format writes "1" for true.
func (d ObjectData) Bool(key string) bool {
	return d[key] == "1"
}

// Has reports whether the attribute is present.
func (d ObjectData) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// ObjectColorKind tells which color channel slot an object draws from.
type ObjectColorKind uint8

const (
	ColorKindNone ObjectColorKind = iota
	ColorKindBase
	ColorKindDetail
	ColorKindBlack
)

// NoChannel marks an object without a color channel reference.
const NoChannel uint64 = ^uint64(0)

// Object is one simulated level object.
type Object struct {
	ID     uint64
	ZLayer int

	Transform Transform2d
	Global    GlobalTransform2d

	Section Section

	// Group membership by id, in level order.
	Groups []uint64

	// Color wiring.
	ChannelID     uint64
	HSV           *HSVMod
	ObjectOpacity float32
	ColorKind     ObjectColorKind

	// Calculated per frame.
	Color        mgl32.Vec4
	Blending     bool
	GroupOpacity float32
	GroupEnabled bool

	// Collision.
	HasHitbox    bool
	Hitbox       Hitbox
	GlobalHitbox GlobalHitbox

	// Gameplay classification from the defaults table.
	Solid  bool
	Hazard bool

	transformDirty bool
}

// Pos returns the object's world x/y.
func (o *Object) Pos() mgl32.Vec2 {
	return mgl32.Vec2{o.Transform.Translation.X(), o.Transform.Translation.Y()}
}

// objectDefault carries the built-in per-id defaults the level format leaves
// implicit: z layer, color slot and the gameplay hitbox.
type objectDefault struct {
	zLayer    int
	colorKind ObjectColorKind
	opacity   float32

	hitbox *Hitbox
	solid  bool
	hazard bool
}

var (
	blockHitbox = &Hitbox{Kind: HitboxBox, HalfExtents: mgl32.Vec2{15, 15}}
	slabHitbox  = &Hitbox{Kind: HitboxBox, HalfExtents: mgl32.Vec2{15, 7.5}, Offset: mgl32.Vec2{0, 7.5}}
	slopeHitbox = &Hitbox{Kind: HitboxSlope, HalfExtents: mgl32.Vec2{15, 15}}
	spikeHitbox = &Hitbox{Kind: HitboxBox, NoRotation: true, HalfExtents: mgl32.Vec2{3, 5.4}}
	padHitbox   = &Hitbox{Kind: HitboxBox, NoRotation: true, HalfExtents: mgl32.Vec2{12.5, 3}, Offset: mgl32.Vec2{0, -12}}
	orbHitbox   = &Hitbox{Kind: HitboxCircle, Radius: 18}
	sawHitbox   = &Hitbox{Kind: HitboxCircle, Radius: 14.5}
	portalBox   = &Hitbox{Kind: HitboxBox, NoRotation: true, HalfExtents: mgl32.Vec2{13, 42}}
	blockBox    = &Hitbox{Kind: HitboxBox, NoRotation: true, HalfExtents: mgl32.Vec2{15, 15}}
)

// objectDefaults maps well-known object ids to their implicit data. Ids not
// listed simulate as decoration: no hitbox, default color slot.
var objectDefaults = map[uint64]objectDefault{
	// Basic solid blocks.
	1: {hitbox: blockHitbox, solid: true}, 2: {hitbox: blockHitbox, solid: true},
	3: {hitbox: blockHitbox, solid: true}, 4: {hitbox: blockHitbox, solid: true},
	5: {hitbox: blockHitbox, solid: true}, 6: {hitbox: blockHitbox, solid: true},
	7: {hitbox: blockHitbox, solid: true},
	40: {hitbox: slabHitbox, solid: true},
	289: {hitbox: slopeHitbox, solid: true}, 291: {hitbox: slopeHitbox, solid: true},

	// Hazards.
	8:   {hitbox: spikeHitbox, hazard: true},
	39:  {hitbox: spikeHitbox, hazard: true},
	103: {hitbox: spikeHitbox, hazard: true},
	392: {hitbox: &Hitbox{Kind: HitboxBox, NoRotation: true, HalfExtents: mgl32.Vec2{3, 2.6}}, hazard: true},
	88:  {hitbox: sawHitbox, hazard: true},
	89:  {hitbox: &Hitbox{Kind: HitboxCircle, Radius: 32}, hazard: true},
	98:  {hitbox: &Hitbox{Kind: HitboxCircle, Radius: 7}, hazard: true},

	// Pads and orbs.
	35:   {hitbox: padHitbox},
	140:  {hitbox: padHitbox},
	1332: {hitbox: padHitbox},
	67:   {hitbox: padHitbox},
	36:   {hitbox: orbHitbox},
	84:   {hitbox: orbHitbox},
	141:  {hitbox: orbHitbox},
	1022: {hitbox: orbHitbox},
	1330: {hitbox: orbHitbox},
	1333: {hitbox: orbHitbox},

	// Gravity and size portals.
	10:  {hitbox: portalBox},
	11:  {hitbox: portalBox},
	99:  {hitbox: portalBox},
	101: {hitbox: portalBox},

	// Speed portals.
	ObjectSpeedHalf:   {hitbox: portalBox},
	ObjectSpeedNormal: {hitbox: portalBox},
	ObjectSpeedDouble: {hitbox: portalBox},
	ObjectSpeedTriple: {hitbox: portalBox},
	ObjectSpeedQuad:   {hitbox: portalBox},

	// Collision block.
	ObjectCollisionBlock: {hitbox: blockBox},
}

// ObjectCollisionBlock is the object id of the collision-trigger block.
const ObjectCollisionBlock uint64 = 1816

// parseObject builds an Object from one attribute record. Malformed numeric
// attributes fall back to their defaults; the caller logs and decides whether
// to keep the object.
func parseObject(data ObjectData) Object {
	obj := Object{
		Transform:     DefaultTransform2d(),
		ChannelID:     NoChannel,
		ObjectOpacity: 1,
		GroupOpacity:  1,
		GroupEnabled:  true,
		Color:         ColorWhite,
	}

	obj.ID = data.Uint("1", 0)
	def, hasDefault := objectDefaults[obj.ID]

	obj.Transform.Translation = mgl32.Vec3{
		data.Float("2", 0),
		data.Float("3", 0),
		data.Float("25", 0),
	}
	obj.Transform.Angle = -mgl32.DegToRad(data.Float("6", 0))

	if scale := data.Float("32", 1); scale != 0 {
		obj.Transform.Scale = mgl32.Vec2{scale, scale}
	}
	if data.Bool("4") {
		obj.Transform.Scale[0] *= -1
	}
	if data.Bool("5") {
		obj.Transform.Scale[1] *= -1
	}

	obj.ZLayer = int(data.Int("24", int64(def.zLayer)))
	obj.ColorKind = def.colorKind
	if def.opacity > 0 {
		obj.ObjectOpacity = def.opacity
	}

	switch obj.ColorKind {
	case ColorKindDetail:
		obj.ChannelID = data.Uint("22", NoChannel)
	default:
		obj.ChannelID = data.Uint("21", NoChannel)
	}
	if hsvRaw, ok := data["43"]; ok {
		if hsv, err := ParseHSVMod(hsvRaw); err == nil {
			obj.HSV = &hsv
		}
	}

	if hasDefault && def.hitbox != nil {
		obj.HasHitbox = true
		obj.Hitbox = *def.hitbox
		obj.Solid = def.solid
		obj.Hazard = def.hazard
	} else if data.Bool("11") {
		// Touch-activated trigger objects need a contact box for the
		// player to hit.
		obj.HasHitbox = true
		obj.Hitbox = *blockBox
	}

	obj.Global = GlobalFromTransform2d(obj.Transform)
	if obj.HasHitbox {
		axisAligned := obj.Hitbox.NoRotation || obj.Transform.Angle == 0
		obj.GlobalHitbox = CalculateGlobalHitbox(obj.Hitbox, obj.Global, axisAligned)
	}
	return obj
}

// parseGroups parses the '.'-separated group list attribute.
func parseGroups(raw string) []uint64 {
	if raw == "" {
		return nil
	}
	var groups []uint64
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == '.' {
			if i > start {
				if id, err := strconv.ParseUint(raw[start:i], 10, 64); err == nil {
					groups = append(groups, id)
				}
			}
			start = i + 1
		}
	}
	return groups
}
