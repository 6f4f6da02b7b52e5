package level

import (
	"sort"
)

// Speed portal object ids.
const (
	ObjectSpeedHalf   uint64 = 200
	ObjectSpeedNormal uint64 = 201
	ObjectSpeedDouble uint64 = 202
	ObjectSpeedTriple uint64 = 203
	ObjectSpeedQuad   uint64 = 1334
)

// SpeedMarker is one speed change discovered at level build: the position it
// takes effect at, the raw forward velocity and the speed multiplier.
type SpeedMarker struct {
	Pos             float32
	ForwardVelocity float32
	Multiplier      float32
}

// speedMarkerFor maps a speed portal object id to its velocity parameters.
// The effective speeds work out to the familiar 251.16 / 311.58 / 387.42 /
// 468 / 576 units per second.
func speedMarkerFor(objectID uint64, x float32) (SpeedMarker, bool) {
	switch objectID {
	case ObjectSpeedHalf:
		return SpeedMarker{Pos: x, ForwardVelocity: 5.98 * 60, Multiplier: 0.7}, true
	case ObjectSpeedNormal:
		return SpeedMarker{Pos: x, ForwardVelocity: 5.77 * 60, Multiplier: 0.9}, true
	case ObjectSpeedDouble:
		return SpeedMarker{Pos: x, ForwardVelocity: 5.87 * 60, Multiplier: 1.1}, true
	case ObjectSpeedTriple:
		return SpeedMarker{Pos: x, ForwardVelocity: 6.0 * 60, Multiplier: 1.3}, true
	case ObjectSpeedQuad:
		return SpeedMarker{Pos: x, ForwardVelocity: 6.0 * 60, Multiplier: 1.6}, true
	}
	return SpeedMarker{}, false
}

// DefaultSpeedMarker returns the marker applied before any portal: the 1x
// speed at the level origin.
func DefaultSpeedMarker() SpeedMarker {
	return SpeedMarker{Pos: 0, ForwardVelocity: 5.77 * 60, Multiplier: 0.9}
}

// SpeedSegment is one immutable piece of the time/position mapping.
type SpeedSegment struct {
	Pos             float32
	ForwardVelocity float32
	Multiplier      float32
	TimeAtPos       float32
}

// EffectiveSpeed is the forward velocity scaled by the segment multiplier.
func (s SpeedSegment) EffectiveSpeed() float32 {
	return s.ForwardVelocity * s.Multiplier
}

// SpeedTimeline is the piecewise bijection between player x position and
// elapsed simulated time. Built once at level load, immutable afterwards.
type SpeedTimeline struct {
	segments []SpeedSegment
}

// BuildSpeedTimeline sorts the markers by position, deduplicates them (the
// later-appended marker wins on a position tie) and accumulates the time
// prefix. The marker list must contain at least the default marker.
func BuildSpeedTimeline(markers []SpeedMarker) *SpeedTimeline {
	type indexed struct {
		SpeedMarker
		order int
	}
	tmp := make([]indexed, len(markers))
	for i, m := range markers {
		tmp[i] = indexed{SpeedMarker: m, order: i}
	}
	sort.SliceStable(tmp, func(i, j int) bool {
		if tmp[i].Pos != tmp[j].Pos {
			return tmp[i].Pos < tmp[j].Pos
		}
		return tmp[i].order < tmp[j].order
	})

	deduped := tmp[:0]
	for _, m := range tmp {
		if len(deduped) > 0 && deduped[len(deduped)-1].Pos == m.Pos {
			deduped[len(deduped)-1] = m
			continue
		}
		deduped = append(deduped, m)
	}

	t := &SpeedTimeline{segments: make([]SpeedSegment, 0, len(deduped))}
	for _, m := range deduped {
		seg := SpeedSegment{
			Pos:             m.Pos,
			ForwardVelocity: m.ForwardVelocity,
			Multiplier:      m.Multiplier,
		}
		if n := len(t.segments); n > 0 {
			prev := t.segments[n-1]
			seg.TimeAtPos = prev.TimeAtPos + (seg.Pos-prev.Pos)/prev.EffectiveSpeed()
		}
		t.segments = append(t.segments, seg)
	}
	return t
}

// SegmentAtPos returns the last segment whose position is <= x, clamped to
// the first segment when x precedes all markers.
func (t *SpeedTimeline) SegmentAtPos(x float32) SpeedSegment {
	i := sort.Search(len(t.segments), func(i int) bool {
		return t.segments[i].Pos > x
	})
	if i == 0 {
		return t.segments[0]
	}
	return t.segments[i-1]
}

// SegmentAtTime returns the last segment whose accumulated time is <= tm.
func (t *SpeedTimeline) SegmentAtTime(tm float32) SpeedSegment {
	i := sort.Search(len(t.segments), func(i int) bool {
		return t.segments[i].TimeAtPos > tm
	})
	if i == 0 {
		return t.segments[0]
	}
	return t.segments[i-1]
}

// TimeForPos converts a position into elapsed simulated time.
func (t *SpeedTimeline) TimeForPos(x float32) float32 {
	seg := t.SegmentAtPos(x)
	return seg.TimeAtPos + (x-seg.Pos)/seg.EffectiveSpeed()
}

// PosForTime converts elapsed simulated time into a position.
func (t *SpeedTimeline) PosForTime(tm float32) float32 {
	seg := t.SegmentAtTime(tm)
	return seg.Pos + (tm-seg.TimeAtPos)*seg.EffectiveSpeed()
}
