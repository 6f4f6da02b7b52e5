package trigger

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gdsim/gdsim/gmath"
	"github.com/gdsim/gdsim/level"
)

// Trigger object ids.
const (
	objColor        uint64 = 899
	objMove         uint64 = 901
	objPulse        uint64 = 1006
	objAlpha        uint64 = 1007
	objToggle       uint64 = 1049
	objSpawn        uint64 = 1268
	objRotate       uint64 = 1346
	objFollow       uint64 = 1347
	objShake        uint64 = 1520
	objCount        uint64 = 1611
	objStop         uint64 = 1616
	objInstantCount uint64 = 1811
	objCollision    uint64 = 1815
	objPickup       uint64 = 1817
)

// legacyColorChannels maps the old per-channel color trigger ids to the
// fixed channel they always target.
var legacyColorChannels = map[uint64]uint64{
	29:  1000, // background
	30:  1001, // ground
	104: 1002, // line
	105: 1004, // object
	221: 1,
	717: 2,
	718: 3,
	743: 4,
	744: 1003, // 3D line
}

// Build walks the world's retained attribute records, parses every trigger
// object, and returns the runtime with its static interval index. Position
// activation intervals are derived through the speed timeline; zero-width
// intervals are bumped by one ULP.
func Build(w *level.World) *Context {
	c := NewContext(w, nil)

	var entries []*Entry
	seq := 0
	for i := range w.Objects {
		obj := &w.Objects[i]
		fn := parseTrigger(obj.ID, w.Attrs[i])
		if fn == nil {
			continue
		}

		e := &Entry{
			Fn:            fn,
			Object:        int32(i),
			Groups:        obj.Groups,
			Seq:           seq,
			Instance:      seq,
			MultiActivate: w.Attrs[i].Bool("87"),
		}
		seq++

		data := w.Attrs[i]
		switch {
		case data.Bool("11"):
			e.Activation = ActivateTouch
			c.touchable[e.Object] = e
		case data.Bool("62"):
			e.Activation = ActivateSpawn
			c.spawnable[e.Object] = e
		default:
			start := obj.Transform.Translation.X()
			end := w.Timeline.PosForTime(w.Timeline.TimeForPos(start) + fn.Duration())
			if end <= start {
				end = gmath.NextAfter32(start)
			}
			e.Span = Span{Start: start, End: end}
			entries = append(entries, e)
		}
	}

	c.Index = BuildIndex(entries)
	c.instances = seq
	w.Log.Info("trigger index built",
		"triggers", seq,
		"indexed", c.Index.Len(),
		"spawn_activated", len(c.spawnable),
		"touch_activated", len(c.touchable),
	)
	return c
}

// parseTrigger returns the variant for a trigger object id, or nil for
// non-trigger objects.
func parseTrigger(id uint64, data level.ObjectData) Trigger {
	if channel, ok := legacyColorChannels[id]; ok {
		t := parseColor(data)
		t.TargetChannel = channel
		return t
	}

	switch id {
	case objColor:
		return parseColor(data)
	case objMove:
		return &Move{
			Dur:         data.Float("10", 0),
			Easing:      parseEasing(data),
			TargetGroup: data.Uint("51", 0),
			Offset:      mgl32.Vec2{data.Float("28", 0), data.Float("29", 0)},
			LockX:       data.Bool("58"),
			LockY:       data.Bool("59"),
		}
	case objPulse:
		return parsePulse(data)
	case objAlpha:
		return &Alpha{
			Dur:           data.Float("10", 0),
			TargetGroup:   data.Uint("51", 0),
			TargetOpacity: data.Float("35", 1),
		}
	case objToggle:
		return &Toggle{
			TargetGroup: data.Uint("51", 0),
			Activate:    data.Bool("56"),
		}
	case objSpawn:
		return &Spawn{
			TargetGroup: data.Uint("51", 0),
			Delay:       data.Float("63", 0),
		}
	case objRotate:
		return &Rotate{
			Dur:          data.Float("10", 0),
			Easing:       parseEasing(data),
			TargetGroup:  data.Uint("51", 0),
			CenterGroup:  data.Uint("71", 0),
			Degrees:      int(data.Int("68", 0)),
			Times360:     int(data.Int("69", 0)),
			LockRotation: data.Bool("70"),
		}
	case objFollow:
		return &Follow{
			Dur:         data.Float("10", 0),
			TargetGroup: data.Uint("51", 0),
			FollowGroup: data.Uint("71", 0),
			Scale:       mgl32.Vec2{data.Float("72", 1), data.Float("73", 1)},
		}
	case objShake:
		return &Shake{
			Dur:      data.Float("10", 0),
			Strength: data.Float("75", 0),
			Interval: data.Float("84", 0),
		}
	case objCount:
		return &Count{
			ItemID:      data.Uint("80", 0),
			TargetCount: data.Int("77", 0),
			TargetGroup: data.Uint("51", 0),
			Activate:    data.Bool("56"),
		}
	case objStop:
		return &Stop{TargetGroup: data.Uint("51", 0)}
	case objInstantCount:
		return &InstantCount{
			ItemID:      data.Uint("80", 0),
			TargetCount: data.Int("77", 0),
			Mode:        CountMode(data.Int("88", 0)),
			TargetGroup: data.Uint("51", 0),
			Activate:    data.Bool("56"),
		}
	case objCollision:
		t := &Collision{
			BlockA:      data.Uint("80", 0),
			BlockB:      data.Uint("95", 0),
			TargetGroup: data.Uint("51", 0),
			Activate:    data.Bool("56"),
			OnExit:      data.Bool("93"),
		}
		// The player-side flag replaces block A with the player sentinel.
		if data.Bool("138") {
			t.BlockA = PlayerBlock
		}
		return t
	case objPickup:
		return &Pickup{
			ItemID: data.Uint("80", 0),
			Count:  data.Int("77", 0),
		}
	}
	return nil
}

func parseColor(data level.ObjectData) *Color {
	return &Color{
		Dur:           data.Float("10", 0),
		TargetChannel: data.Uint("23", 1),
		TargetColor: mgl32.Vec4{
			data.Float("7", 255) / 255,
			data.Float("8", 255) / 255,
			data.Float("9", 255) / 255,
			data.Float("35", 1),
		},
		Blending: data.Bool("17"),
	}
}

func parsePulse(data level.ObjectData) *Pulse {
	t := &Pulse{
		FadeIn:        data.Float("45", 0),
		Hold:          data.Float("46", 0),
		FadeOut:       data.Float("47", 0),
		TargetGroupID: data.Int("52", 0) == 1,
		Target:        data.Uint("51", 0),
		Color: mgl32.Vec3{
			data.Float("7", 255) / 255,
			data.Float("8", 255) / 255,
			data.Float("9", 255) / 255,
		},
		BaseOnly:   data.Bool("65"),
		DetailOnly: data.Bool("66"),
		Excl:       data.Bool("86"),
	}
	if data.Int("48", 0) == 1 {
		t.UseHSV = true
		if hsv, err := level.ParseHSVMod(data["49"]); err == nil {
			t.HSV = hsv
		}
	}
	return t
}

func parseEasing(data level.ObjectData) gmath.Easing {
	return gmath.EasingFromID(int(data.Int("30", 0)), data.Float("85", 2), data.Has("85"))
}
