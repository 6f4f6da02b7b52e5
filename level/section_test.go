package level

import (
	"testing"
)

func TestSectionIndexFromX(t *testing.T) {
	cases := []struct {
		x    float32
		want int
	}{
		{-100, 0},
		{0, 0},
		{199.9, 0},
		{200, 1},
		{1234, 6},
	}
	for _, c := range cases {
		if got := SectionIndexFromX(c.x); got != c.want {
			t.Errorf("SectionIndexFromX(%v) = %d, want %d", c.x, got, c.want)
		}
	}
}

func TestSectionsInsertAndRelocate(t *testing.T) {
	s := NewGlobalSections()

	idx := s.Insert(1, 250)
	if idx != 1 {
		t.Fatalf("Insert returned bucket %d, want 1", idx)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}

	// Relocation to a bucket beyond capacity grows the array without
	// losing existing buckets.
	s.Relocate(1, 1, 7)
	if s.Len() != 8 {
		t.Fatalf("Len after grow = %d, want 8", s.Len())
	}
	if _, ok := s.Bucket(1).Get(1); ok {
		t.Error("object still present in old bucket after relocate")
	}
	if _, ok := s.Bucket(7).Get(1); !ok {
		t.Error("object missing from new bucket after relocate")
	}

	// Relocating to the same bucket is a no-op.
	s.Relocate(1, 7, 7)
	if _, ok := s.Bucket(7).Get(1); !ok {
		t.Error("object lost by same-bucket relocate")
	}
}

func TestSectionsRange(t *testing.T) {
	s := NewGlobalSections()
	s.Insert(1, 50)
	s.Insert(2, 250)
	s.Insert(3, 450)

	var seen []int32
	s.Range(-5, 100, func(_ int, bucket *Bucket) {
		for el := bucket.Front(); el != nil; el = el.Next() {
			seen = append(seen, el.Key)
		}
	})
	if len(seen) != 3 {
		t.Fatalf("Range visited %d objects, want 3", len(seen))
	}
}

func TestSectionsVisible(t *testing.T) {
	s := NewGlobalSections()
	s.Insert(1, 1000)

	s.SetVisible(-2, 100)
	lo, hi := s.Visible()
	if lo != 0 || hi != s.Len()-1 {
		t.Errorf("Visible = (%d, %d), want clamped to (0, %d)", lo, hi, s.Len()-1)
	}
}
