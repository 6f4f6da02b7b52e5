package player

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gdsim/gdsim/level"
)

// HalfExtent is half the player's square hitbox side.
const HalfExtent float32 = 15

// Input is the host-supplied button state for one tick.
type Input struct {
	// Hold is true while the jump button is down.
	Hold bool
	// Pressed is true only on the down edge.
	Pressed bool
}

// GameMode is the per-mode physics contract. A mode mutates vertical
// velocity, rotation and ground state; horizontal advancement is owned by
// the speed timeline, not the mode.
type GameMode interface {
	Update(p *Player, dt float32, in Input)
}

// Player is the simulated player state.
type Player struct {
	Pos      mgl32.Vec2
	LastPos  mgl32.Vec2
	Velocity mgl32.Vec2
	Angle    float32

	// Speed is the multiplier of the current timeline segment.
	Speed float32

	OnGround bool
	// Flipped inverts gravity.
	Flipped bool
	// VerticalIsX swaps the movement axes inside gravity portals.
	VerticalIsX bool
	Reverse     bool

	Mini bool
	Dead bool

	Mode GameMode
}

// New returns a player at the level start in the default mode.
func New() *Player {
	return &Player{
		Pos:      mgl32.Vec2{0, HalfExtent},
		Velocity: mgl32.Vec2{5.77 * 60, 0},
		Speed:    0.9,
		OnGround: true,
		Mode:     &CubeMode{},
	}
}

// Advance moves the player one tick: the x axis follows the speed timeline,
// the y axis integrates the mode-controlled velocity with the vertical
// slowdown factor.
func (p *Player) Advance(tl *level.SpeedTimeline, dt float32, in Input) {
	seg := tl.SegmentAtPos(p.Pos.X())
	p.Velocity[0] = seg.ForwardVelocity
	p.Speed = seg.Multiplier

	p.Mode.Update(p, dt, in)

	p.LastPos = p.Pos
	p.Pos[0] += p.Velocity.X() * p.Speed * dt
	p.Pos[1] += p.Velocity.Y() * dt * 0.9
}

// Delta is the displacement of the last Advance.
func (p *Player) Delta() mgl32.Vec2 {
	return p.Pos.Sub(p.LastPos)
}

// HitboxHalfExtent is the current half-extent, shrunk in mini form.
func (p *Player) HitboxHalfExtent() float32 {
	if p.Mini {
		return HalfExtent * 0.6
	}
	return HalfExtent
}

// Hitbox is the player's world-space axis-aligned hitbox.
func (p *Player) Hitbox() level.GlobalHitbox {
	he := p.HitboxHalfExtent()
	return level.AabbHitbox(
		mgl32.Vec2{p.Pos.X() - he, p.Pos.Y() - he},
		mgl32.Vec2{p.Pos.X() + he, p.Pos.Y() + he},
	)
}

// Land snaps the player's hitbox bottom onto a surface at the given y.
func (p *Player) Land(surfaceY float32) {
	if p.Flipped {
		p.Pos[1] = surfaceY - p.HitboxHalfExtent()
	} else {
		p.Pos[1] = surfaceY + p.HitboxHalfExtent()
	}
	p.Velocity[1] = 0
	p.OnGround = true
}
