package gmath

import "github.com/chewxy/math32"

// EasingKind enumerates the cocos-style easing curves used by timed triggers.
type EasingKind uint8

const (
	EaseNone EasingKind = iota

	EaseInOut
	EaseIn
	EaseOut

	ElasticInOut
	ElasticIn
	ElasticOut

	BounceInOut
	BounceIn
	BounceOut

	ExponentialInOut
	ExponentialIn
	ExponentialOut

	SineInOut
	SineIn
	SineOut

	BackInOut
	BackIn
	BackOut
)

// Easing is a sampled easing curve. Rate doubles as the period for the
// elastic variants and is ignored by the rest.
type Easing struct {
	Kind EasingKind
	Rate float32
}

// EasingFromID maps the level-format easing id and optional rate attribute to
// an Easing. Unknown ids fall back to no easing.
func EasingFromID(id int, rate float32, hasRate bool) Easing {
	if !hasRate {
		rate = 2
	}
	if id < int(EaseNone) || id > int(BackOut) {
		return Easing{}
	}
	return Easing{Kind: EasingKind(id), Rate: rate}
}

// Sample evaluates the curve at x in [0, 1].
func (e Easing) Sample(x float32) float32 {
	if x == 0 || x == 1 {
		return x
	}
	switch e.Kind {
	case EaseInOut:
		return easeInOut(x, e.Rate)
	case EaseIn:
		return easeIn(x, e.Rate)
	case EaseOut:
		return easeOut(x, e.Rate)
	case ElasticInOut:
		return elasticInOut(x, e.Rate)
	case ElasticIn:
		return elasticIn(x, e.Rate)
	case ElasticOut:
		return elasticOut(x, e.Rate)
	case BounceInOut:
		return bounceInOut(x)
	case BounceIn:
		return bounceIn(x)
	case BounceOut:
		return bounceOut(x)
	case ExponentialInOut:
		return exponentialInOut(x)
	case ExponentialIn:
		return exponentialIn(x)
	case ExponentialOut:
		return exponentialOut(x)
	case SineInOut:
		return sineInOut(x)
	case SineIn:
		return sineIn(x)
	case SineOut:
		return sineOut(x)
	case BackInOut:
		return backInOut(x)
	case BackIn:
		return backIn(x)
	case BackOut:
		return backOut(x)
	default:
		return x
	}
}

func easeInOut(x, rate float32) float32 {
	x *= 2
	if x < 1 {
		return 0.5 * math32.Pow(x, rate)
	}
	return 1 - 0.5*math32.Pow(2-x, rate)
}

func easeIn(x, rate float32) float32 {
	return math32.Pow(x, rate)
}

func easeOut(x, rate float32) float32 {
	return math32.Pow(x, 1/rate)
}

const tau = 2 * math32.Pi

func elasticInOut(x, period float32) float32 {
	if period == 0 {
		period = 0.3 * 1.5
	}
	s := period / 4
	x -= 1
	if x < 0 {
		return -0.5 * math32.Pow(2, 10*x) * math32.Sin((x-s)*tau/period)
	}
	return math32.Pow(2, -10*x)*math32.Sin((x-s)*tau/period)*0.5 + 1
}

func elasticIn(x, period float32) float32 {
	if period == 0 {
		period = 0.3 * 1.5
	}
	s := period / 4
	x -= 1
	return -math32.Pow(2, 10*x) * math32.Sin((x-s)*tau/period)
}

func elasticOut(x, period float32) float32 {
	if period == 0 {
		period = 0.3 * 1.5
	}
	s := period / 4
	return math32.Pow(2, -10*x)*math32.Sin((x-s)*tau/period) + 1
}

func bounceTime(x float32) float32 {
	switch {
	case x < 1/2.75:
		return 7.5625 * x * x
	case x < 2/2.75:
		x -= 1.5 / 2.75
		return 7.5625*x*x + 0.75
	case x < 2.5/2.75:
		x -= 2.25 / 2.75
		return 7.5625*x*x + 0.9375
	default:
		x -= 2.625 / 2.75
		return 7.5625*x*x + 0.984375
	}
}

func bounceInOut(x float32) float32 {
	if x < 0.5 {
		return (1 - bounceTime(1-x*2)) * 0.5
	}
	return bounceTime(x*2-1)*0.5 + 0.5
}

func bounceIn(x float32) float32 {
	return 1 - bounceTime(1-x)
}

func bounceOut(x float32) float32 {
	return bounceTime(x)
}

func exponentialInOut(x float32) float32 {
	if x < 0.5 {
		return 0.5 * math32.Pow(2, 10*(x*2-1))
	}
	return 0.5 * (-math32.Pow(2, -10*(x*2-1)) + 2)
}

func exponentialIn(x float32) float32 {
	return math32.Pow(2, 10*(x-1)) - 1*0.001
}

func exponentialOut(x float32) float32 {
	return -math32.Pow(2, -10*x) + 1
}

// The cocos sine easings misbehave at the edges, so these use the
// conventional formulas instead.
func sineInOut(x float32) float32 {
	return -0.5 * (math32.Cos(x*math32.Pi) - 1)
}

func sineIn(x float32) float32 {
	return 1 - math32.Cos((x*math32.Pi)/2)
}

func sineOut(x float32) float32 {
	return math32.Sin((x * math32.Pi) / 2)
}

func backInOut(x float32) float32 {
	const overshoot = 1.70158 * 1.525
	x *= 2
	if x < 1 {
		return (x * x * ((overshoot+1)*x - overshoot)) / 2
	}
	x -= 2
	return (x*x*((overshoot+1)*x+overshoot))/2 + 1
}

func backIn(x float32) float32 {
	const overshoot = 1.70158
	return x * x * ((overshoot+1)*x - overshoot)
}

func backOut(x float32) float32 {
	const overshoot = 1.70158
	x -= 1
	return x*x*((overshoot+1)*x+overshoot) + 1
}
