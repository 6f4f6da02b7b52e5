package sim

import (
	"github.com/gdsim/gdsim/level"
	"github.com/gdsim/gdsim/player"
	"github.com/gdsim/gdsim/trigger"
)

// Pad and orb impulses in units per second.
var padImpulse = map[uint64]float32{
	35:   16 * 60,   // yellow pad
	140:  11.2 * 60, // pink pad
	1332: 19 * 60,   // red pad
}

var orbImpulse = map[uint64]float32{
	36:   11.180032 * 60, // yellow orb
	141:  8.944 * 60,     // pink orb
	1333: 13.416 * 60,    // red orb
}

// sideTolerance is how far the player may sink into a solid's top before a
// frontal hit counts as a crash instead of a landing.
const sideTolerance float32 = 10

// collide runs the bucket-scoped collision pass: the player against every
// hitbox in its own bucket plus one fringe bucket each side, then collision
// blocks against each other in the same neighborhood.
func (s *Simulation) collide(in player.Input) {
	p := s.Player
	w := s.World
	box := p.Hitbox()

	bucket := level.SectionIndexFromX(p.Pos.X())

	s.Triggers.ClearOverlaps()

	type block struct {
		id  uint64
		box level.GlobalHitbox
	}
	var blocks []block

	w.EachObjectIn(bucket-1, bucket+1, func(idx int32, obj *level.Object) {
		if !obj.HasHitbox || !obj.GroupEnabled {
			return
		}
		if !box.Intersects(obj.GlobalHitbox) || !box.IntersectsExact(obj.GlobalHitbox) {
			if obj.ID == level.ObjectCollisionBlock {
				blocks = append(blocks, block{id: w.Attrs[idx].Uint("80", 0), box: obj.GlobalHitbox})
			}
			return
		}

		switch {
		case obj.Hazard:
			p.Dead = true

		case obj.Solid:
			s.collideSolid(obj)

		case obj.ID == level.ObjectCollisionBlock:
			id := w.Attrs[idx].Uint("80", 0)
			blocks = append(blocks, block{id: id, box: obj.GlobalHitbox})
			s.Triggers.SetOverlap(trigger.PlayerBlock, id)

		default:
			s.collideSpecial(obj, in)
			// Touch-activated triggers route through the spawned path.
			s.Triggers.Touch(idx, p.Pos.X())
		}
	})

	// Ground plane.
	if !p.Flipped && p.Pos.Y()-p.HitboxHalfExtent() <= 0 && p.Velocity.Y() <= 0 {
		p.Land(0)
	}

	for i := 0; i < len(blocks); i++ {
		for j := i + 1; j < len(blocks); j++ {
			if blocks[i].box.Intersects(blocks[j].box) {
				s.Triggers.SetOverlap(blocks[i].id, blocks[j].id)
			}
		}
	}
}

// collideSolid lands the player on a solid's face or kills it on a frontal
// hit. With flipped gravity the roles of the faces swap.
func (s *Simulation) collideSolid(obj *level.Object) {
	p := s.Player
	he := p.HitboxHalfExtent()

	if !p.Flipped {
		top := obj.GlobalHitbox.Max().Y()
		if p.Velocity.Y() <= 0 && p.LastPos.Y()-he >= top-sideTolerance {
			p.Land(top)
			return
		}
	} else {
		bottom := obj.GlobalHitbox.Min().Y()
		if p.Velocity.Y() >= 0 && p.LastPos.Y()+he <= bottom+sideTolerance {
			p.Land(bottom)
			return
		}
	}
	p.Dead = true
}

// collideSpecial handles pads, orbs and the gravity and size portals.
func (s *Simulation) collideSpecial(obj *level.Object, in player.Input) {
	p := s.Player

	if impulse, ok := padImpulse[obj.ID]; ok {
		flip := float32(1)
		if p.Flipped {
			flip = -1
		}
		p.Velocity[1] = impulse * flip
		p.OnGround = false
		return
	}

	if impulse, ok := orbImpulse[obj.ID]; ok {
		if in.Pressed {
			flip := float32(1)
			if p.Flipped {
				flip = -1
			}
			p.Velocity[1] = impulse * flip
			p.OnGround = false
		}
		return
	}

	switch obj.ID {
	case 10:
		p.Flipped = false
	case 11:
		p.Flipped = true
	case 99:
		p.Mini = false
	case 101:
		p.Mini = true
	case 84, 1022:
		// Blue and green orbs flip gravity on use.
		if in.Pressed {
			p.Flipped = !p.Flipped
			p.OnGround = false
			if obj.ID == 1022 {
				flip := float32(1)
				if p.Flipped {
					flip = -1
				}
				p.Velocity[1] = 11.180032 * 60 * flip
			}
		}
	}
}
