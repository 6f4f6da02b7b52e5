package player

import (
	"github.com/chewxy/math32"

	"github.com/gdsim/gdsim/gmath"
)

// Cube physics constants, in units per second. The per-frame reference
// values are 0.958199 gravity and 11.180032 jump at 60 ticks with the 0.9
// vertical slowdown folded in.
const (
	cubeGravity       float32 = 0.958199 * 60 * 60 * 0.9
	cubeJumpVelocity  float32 = 11.180032 * 60
	cubeVelocityLimit float32 = 15 * 60

	// groundRotateTime is how long the on-ground snap to the nearest
	// quarter turn takes.
	groundRotateTime float32 = 0.075
)

// CubeMode is the default game mode: gravity, buffered jumps, and the
// tumbling rotation while airborne.
type CubeMode struct {
	rotateFrom     float32
	rotateTo       float32
	rotateProgress float32
	snapping       bool
}

func (m *CubeMode) Update(p *Player, dt float32, in Input) {
	flip := float32(1)
	if p.Flipped {
		flip = -1
	}

	if p.OnGround {
		if !m.snapping {
			m.snapping = true
			m.rotateFrom = p.Angle
			m.rotateTo = math32.Round(p.Angle/(math32.Pi/2)) * (math32.Pi / 2)
			m.rotateProgress = 0
		}
		m.rotateProgress += dt / groundRotateTime
		p.Angle = gmath.Lerp(m.rotateFrom, m.rotateTo, gmath.Clamp01(m.rotateProgress))

		if in.Hold {
			p.Velocity[1] = cubeJumpVelocity * flip
			if p.Mini {
				p.Velocity[1] *= 0.8
			}
			p.OnGround = false
		}
		return
	}

	m.snapping = false
	p.Angle -= math32.Pi * flip / 0.41 * dt

	p.Velocity[1] -= cubeGravity * flip * dt
	if p.Velocity.Y()*flip < -cubeVelocityLimit {
		p.Velocity[1] = -cubeVelocityLimit * flip
	}
}
