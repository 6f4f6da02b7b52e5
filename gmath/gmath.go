package gmath

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Lerp linearly interpolates between start and end by x.
func Lerp(start, end, x float32) float32 {
	return start + (end-start)*x
}

// LerpVec4 linearly interpolates between two vectors componentwise.
func LerpVec4(start, end mgl32.Vec4, x float32) mgl32.Vec4 {
	return mgl32.Vec4{
		Lerp(start[0], end[0], x),
		Lerp(start[1], end[1], x),
		Lerp(start[2], end[2], x),
		Lerp(start[3], end[3], x),
	}
}

// Clamp constrains val to the range [min, max].
func Clamp(val, min, max float32) float32 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Clamp01 constrains val to the unit interval.
func Clamp01(val float32) float32 {
	return Clamp(val, 0, 1)
}

// Round32 will round a float32 to a given precision.
func Round32(val float32, precision int) float32 {
	pwr := math32.Pow(10, float32(precision))
	return math32.Round(val*pwr) / pwr
}

// Float32ApproxEq determines whether two floating point numbers are close
// enough to each other by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}

// NextAfter32 returns the next representable float32 after x towards +Inf.
// Used to give instant events a non-empty, queryable interval.
func NextAfter32(x float32) float32 {
	return math32.Nextafter(x, math32.MaxFloat32)
}

// RGBToHSV converts an RGB triple in [0, 1] to hue [0, 360), saturation and
// value in [0, 1].
func RGBToHSV(r, g, b float32) (h, s, v float32) {
	max := math32.Max(r, math32.Max(g, b))
	min := math32.Min(r, math32.Min(g, b))
	delta := max - min

	v = max
	if max > 0 {
		s = delta / max
	}
	if delta == 0 {
		return 0, s, v
	}

	switch max {
	case r:
		h = math32.Mod((g-b)/delta, 6)
	case g:
		h = (b-r)/delta + 2
	default:
		h = (r-g)/delta + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// HSVToRGB converts hue (degrees, any range), saturation and value to an RGB
// triple. Saturation and value are clamped to [0, 1].
func HSVToRGB(h, s, v float32) (r, g, b float32) {
	s = Clamp01(s)
	v = Clamp01(v)

	h = math32.Mod(h, 360)
	if h < 0 {
		h += 360
	}

	c := v * s
	x := c * (1 - math32.Abs(math32.Mod(h/60, 2)-1))
	m := v - c

	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}
