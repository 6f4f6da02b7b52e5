package level

import (
	"github.com/elliotchance/orderedmap/v2"

	"github.com/gdsim/gdsim/assert"
)

// SectionSize is the width of one spatial bucket in level units. It keeps the
// expected object count per bucket in the tens even for dense levels.
const SectionSize float32 = 200

// SectionIndexFromX quantizes an x position into a bucket index. Everything
// left of the level origin shares bucket zero.
func SectionIndexFromX(x float32) int {
	if x <= 0 {
		return 0
	}
	return int(x / SectionSize)
}

// Bucket is the ordered object set of one section.
type Bucket = orderedmap.OrderedMap[int32, struct{}]

// Section tracks the current and previous bucket of one object.
type Section struct {
	Current int
	Old     int
}

// GlobalSections buckets object indices by quantized x position. A visible
// sub-range of buckets limits which buckets participate in per-frame work.
type GlobalSections struct {
	sections []*Bucket

	visibleLo, visibleHi int
}

// NewGlobalSections returns an empty bucket set.
func NewGlobalSections() *GlobalSections {
	return &GlobalSections{}
}

// Len returns the number of allocated buckets.
func (s *GlobalSections) Len() int {
	return len(s.sections)
}

// grow makes sure bucket index exists, preserving all existing buckets.
func (s *GlobalSections) grow(index int) {
	for len(s.sections) <= index {
		s.sections = append(s.sections, orderedmap.NewOrderedMap[int32, struct{}]())
	}
}

// Insert places an object into the bucket matching x.
func (s *GlobalSections) Insert(object int32, x float32) int {
	index := SectionIndexFromX(x)
	s.grow(index)
	s.sections[index].Set(object, struct{}{})
	return index
}

// Relocate moves an object between buckets. It touches exactly the old and
// the new bucket and grows the bucket array if needed.
func (s *GlobalSections) Relocate(object int32, oldIndex, newIndex int) {
	if oldIndex == newIndex {
		return
	}
	assert.IsTrue(oldIndex >= 0 && oldIndex < len(s.sections),
		"section relocate: old bucket %v out of range (%v buckets)", oldIndex, len(s.sections))

	ok := s.sections[oldIndex].Delete(object)
	assert.IsTrue(ok, "section relocate: object %v not in bucket %v", object, oldIndex)

	s.grow(newIndex)
	s.sections[newIndex].Set(object, struct{}{})
}

// Bucket returns the object set of one bucket, or nil when the bucket was
// never allocated.
func (s *GlobalSections) Bucket(index int) *Bucket {
	if index < 0 || index >= len(s.sections) {
		return nil
	}
	return s.sections[index]
}

// Range calls fn for every allocated bucket in [lo, hi].
func (s *GlobalSections) Range(lo, hi int, fn func(index int, bucket *Bucket)) {
	if lo < 0 {
		lo = 0
	}
	if hi >= len(s.sections) {
		hi = len(s.sections) - 1
	}
	for i := lo; i <= hi; i++ {
		fn(i, s.sections[i])
	}
}

// SetVisible sets the bucket range participating in per-frame passes.
func (s *GlobalSections) SetVisible(lo, hi int) {
	if lo < 0 {
		lo = 0
	}
	if hi >= len(s.sections) {
		hi = len(s.sections) - 1
	}
	s.visibleLo, s.visibleHi = lo, hi
}

// Visible returns the current visible bucket range.
func (s *GlobalSections) Visible() (lo, hi int) {
	return s.visibleLo, s.visibleHi
}
