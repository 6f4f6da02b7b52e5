package level

import (
	"log/slog"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeebo/xxh3"

	"github.com/gdsim/gdsim/gerror"
	"github.com/gdsim/gdsim/worker"
)

// World is the fully built simulation state of one level: objects, the
// spatial bucket index, the group and color registries and the speed
// timeline. Built once by BuildWorld; mutated frame to frame by the
// simulation loop.
type World struct {
	Log *slog.Logger

	// LevelID identifies the loaded level data in completion signals.
	LevelID uint64

	Objects []Object

	// Attrs keeps the raw attribute record for every object, indexed like
	// Objects. The trigger build consumes these after the world exists.
	Attrs []ObjectData

	Sections *GlobalSections
	Groups   *GlobalGroups
	Colors   *GlobalColorChannels
	Timeline *SpeedTimeline

	// groupRefs caches each object's resolved group pointers for the color
	// pass. Group pointers are stable once the registry is built.
	groupRefs [][]*Group

	maxX float32
}

// ParseRecords splits a raw level string into the header record and the
// object records. Records are ';'-separated; fields inside a record are
// ','-separated alternating key and value. Trailing empty records are
// ignored.
func ParseRecords(raw string) (header ObjectData, objects []ObjectData) {
	records := strings.Split(raw, ";")
	for i, record := range records {
		if record == "" {
			continue
		}
		fields := strings.Split(record, ",")
		data := make(ObjectData, len(fields)/2)
		for j := 0; j+1 < len(fields); j += 2 {
			data[fields[j]] = fields[j+1]
		}
		if i == 0 {
			header = data
			continue
		}
		objects = append(objects, data)
	}
	if header == nil {
		header = ObjectData{}
	}
	return header, objects
}

// startMarkerFor maps the header start-speed field to the initial speed
// marker. Unknown values fall back to 1x.
func startMarkerFor(startSpeed int64) SpeedMarker {
	var id uint64
	switch startSpeed {
	case 1:
		id = ObjectSpeedHalf
	case 2:
		id = ObjectSpeedDouble
	case 3:
		id = ObjectSpeedTriple
	case 4:
		id = ObjectSpeedQuad
	default:
		return DefaultSpeedMarker()
	}
	marker, _ := speedMarkerFor(id, 0)
	return marker
}

// BuildWorld parses a raw level string and constructs the complete world.
// Malformed object records are skipped with a warning rather than failing
// the whole level.
func BuildWorld(log *slog.Logger, raw string) (*World, error) {
	if raw == "" {
		return nil, gerror.New("empty level data")
	}
	header, records := ParseRecords(raw)

	w := &World{
		Log:      log,
		LevelID:  xxh3.HashString(raw),
		Sections: NewGlobalSections(),
		Groups:   NewGlobalGroups(),
		Colors:   NewGlobalColorChannels(),
	}

	if channels, ok := header["kS38"]; ok {
		for _, part := range strings.Split(channels, "|") {
			if part == "" {
				continue
			}
			channel, err := ParseColorChannel(part)
			if err != nil {
				log.Warn("skipping malformed color channel", "raw", part, "err", err)
				continue
			}
			w.Colors.Add(channel)
		}
	}

	markers := []SpeedMarker{startMarkerFor(header.Int("kA4", 0))}

	for _, data := range records {
		if !data.Has("1") {
			log.Warn("skipping object record without an id")
			continue
		}
		obj := parseObject(data)
		index := int32(len(w.Objects))

		obj.Groups = parseGroups(data["57"])
		for _, gid := range obj.Groups {
			group := w.Groups.Get(gid)
			group.Members = append(group.Members, index)
			group.Roots = append(group.Roots, index)
		}

		if marker, ok := speedMarkerFor(obj.ID, obj.Transform.Translation.X()); ok {
			markers = append(markers, marker)
		}

		obj.Section.Current = w.Sections.Insert(index, obj.Transform.Translation.X())
		obj.Section.Old = obj.Section.Current

		if right := obj.Transform.Translation.X() + SectionSize/2; right > w.maxX {
			w.maxX = right
		}

		w.Objects = append(w.Objects, obj)
		w.Attrs = append(w.Attrs, data)
	}

	w.Colors.BuildHierarchy()
	w.Timeline = BuildSpeedTimeline(markers)

	w.groupRefs = make([][]*Group, len(w.Objects))
	for i := range w.Objects {
		ids := w.Objects[i].Groups
		if len(ids) == 0 {
			continue
		}
		refs := make([]*Group, len(ids))
		for j, gid := range ids {
			refs[j] = w.Groups.Get(gid)
		}
		w.groupRefs[i] = refs
	}

	log.Info("level built",
		"level_id", w.LevelID,
		"objects", len(w.Objects),
		"sections", w.Sections.Len(),
		"speed_segments", len(markers),
	)
	return w, nil
}

// MaxX is the rightmost extent of the level, used for the completion check.
func (w *World) MaxX() float32 {
	return w.maxX
}

// markTransformDirty flags an object for recomputation by the next
// transform pass. The flag persists until the object's bucket is processed.
func (w *World) markTransformDirty(index int32) {
	w.Objects[index].transformDirty = true
}

// batchBuckets splits the bucket range [lo, hi] into one contiguous chunk
// per worker and runs fn for every bucket, blocking until all chunks finish.
// fn must only touch objects of its own buckets; the chunk index identifies
// which goroutine a bucket belongs to so per-chunk output needs no locking.
func (w *World) batchBuckets(lo, hi int, fn func(chunk, index int, bucket *Bucket)) {
	if hi >= w.Sections.Len() {
		hi = w.Sections.Len() - 1
	}
	if lo < 0 {
		lo = 0
	}
	if lo > hi {
		return
	}

	n := worker.Count()
	span := hi - lo + 1
	if span < n {
		n = span
	}
	fns := make([]func(), 0, n)
	for c := 0; c < n; c++ {
		chunkLo := lo + c*span/n
		chunkHi := lo + (c+1)*span/n - 1
		chunk := c
		fns = append(fns, func() {
			w.Sections.Range(chunkLo, chunkHi, func(index int, bucket *Bucket) {
				fn(chunk, index, bucket)
			})
		})
	}
	worker.Batch(fns)
}

// relocation records a bucket move discovered by the parallel transform
// pass. Applied sequentially afterwards because buckets are shared.
type relocation struct {
	object   int32
	old, new int
}

// UpdateTransforms recomputes world transforms and hitboxes for every dirty
// object in the bucket range, then relocates objects whose bucket changed.
func (w *World) UpdateTransforms(lo, hi int) {
	pending := make([][]relocation, worker.Count())

	w.batchBuckets(lo, hi, func(c, _ int, bucket *Bucket) {
		for el := bucket.Front(); el != nil; el = el.Next() {
			obj := &w.Objects[el.Key]
			if !obj.transformDirty {
				continue
			}
			obj.transformDirty = false

			obj.Global = GlobalFromTransform2d(obj.Transform)
			if obj.HasHitbox {
				axisAligned := obj.Hitbox.NoRotation || obj.Transform.Angle == 0
				obj.GlobalHitbox = CalculateGlobalHitbox(obj.Hitbox, obj.Global, axisAligned)
			}

			newIndex := SectionIndexFromX(obj.Transform.Translation.X())
			if newIndex != obj.Section.Current {
				pending[c] = append(pending[c], relocation{
					object: el.Key, old: obj.Section.Current, new: newIndex,
				})
			}
		}
	})

	for _, moves := range pending {
		for _, m := range moves {
			w.Sections.Relocate(m.object, m.old, m.new)
			obj := &w.Objects[m.object]
			obj.Section.Old = m.old
			obj.Section.Current = m.new
		}
	}
}

// UpdateObjectColors recomputes the drawn color, opacity and enabled state
// of every object in the bucket range from the resolved channels, the
// object's HSV modification and its groups. Reads shared registries only.
func (w *World) UpdateObjectColors(lo, hi int, now float32) {
	w.batchBuckets(lo, hi, func(_, _ int, bucket *Bucket) {
		for el := bucket.Front(); el != nil; el = el.Next() {
			w.updateObjectColor(el.Key, now)
		}
	})
}

func (w *World) updateObjectColor(index int32, now float32) {
	obj := &w.Objects[index]

	enabled := true
	opacity := float32(1)
	for _, group := range w.groupRefs[index] {
		enabled = enabled && group.Enabled
		opacity *= group.Opacity
	}
	obj.GroupEnabled = enabled
	obj.GroupOpacity = opacity
	if !enabled {
		return
	}

	color := ColorWhite
	blending := false
	if obj.ColorKind == ColorKindBlack {
		color = mgl32.Vec4{0, 0, 0, 1}
	} else if obj.ChannelID != NoChannel {
		if channel, ok := w.Colors.Lookup(obj.ChannelID); ok {
			color, blending = channel.Resolved()
		}
	}

	if obj.HSV != nil {
		color = obj.HSV.Apply(color)
	}
	color = ApplyGroupPulses(w.groupRefs[index], color, obj.ColorKind == ColorKindDetail, now)

	alpha := color.W() * obj.ObjectOpacity * opacity
	if blending {
		// Additive blending reads alpha twice, so pre-square it.
		alpha *= alpha
	}
	color[3] = alpha

	obj.Color = color
	obj.Blending = blending
}

// EachObjectIn walks every object id in the inclusive bucket range. Objects
// spanning several buckets appear once per bucket; callers that need
// distinct visits filter themselves.
func (w *World) EachObjectIn(lo, hi int, fn func(index int32, obj *Object)) {
	w.Sections.Range(lo, hi, func(_ int, bucket *Bucket) {
		for el := bucket.Front(); el != nil; el = el.Next() {
			fn(el.Key, &w.Objects[el.Key])
		}
	})
}
