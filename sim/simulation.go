package sim

import (
	"log/slog"

	"github.com/gdsim/gdsim/level"
	"github.com/gdsim/gdsim/player"
	"github.com/gdsim/gdsim/trigger"
)

// Options tune a simulation instance.
type Options struct {
	// VisiblePadding is how many buckets around the player participate in
	// the per-frame parallel passes.
	VisiblePadding int
}

// DefaultOptions covers roughly one screen of level on either side.
var DefaultOptions = Options{VisiblePadding: 4}

// Result is the completion signal handed to the host when the player
// crosses the level end.
type Result struct {
	LevelID uint64
	// Elapsed is the simulated time at the level end, for audio sync.
	Elapsed float32
}

// Simulation drives one loaded level: the world, the trigger runtime and
// the player, advanced tick by tick. Create one per level load and discard
// it at unload.
type Simulation struct {
	Log      *slog.Logger
	World    *level.World
	Triggers *trigger.Context
	Player   *player.Player

	opts    Options
	elapsed float32
	result  *Result
}

// New builds the trigger runtime for a world and wires a fresh player.
func New(log *slog.Logger, w *level.World, opts Options) *Simulation {
	if opts.VisiblePadding <= 0 {
		opts.VisiblePadding = DefaultOptions.VisiblePadding
	}
	return &Simulation{
		Log:      log,
		World:    w,
		Triggers: trigger.Build(w),
		Player:   player.New(),
		opts:     opts,
	}
}

// Done reports whether the player crossed the level end.
func (s *Simulation) Done() bool {
	return s.result != nil
}

// Result returns the completion signal, nil while the level is running.
func (s *Simulation) Result() *Result {
	return s.result
}

// Elapsed is the wall of simulated seconds advanced so far.
func (s *Simulation) Elapsed() float32 {
	return s.elapsed
}

// Tick advances the simulation by dt seconds of simulated time. Order
// within the tick: clear deltas, advance the player, refresh transforms
// and hitboxes in parallel, collide, execute triggers sequentially, apply
// group deltas, then resolve colors in parallel.
func (s *Simulation) Tick(dt float32, in player.Input) {
	if s.Done() || s.Player.Dead {
		return
	}
	s.elapsed += dt

	w := s.World
	w.Groups.ClearDeltas()

	prevX := s.Player.Pos.X()
	s.Player.Advance(w.Timeline, dt, in)
	curX := s.Player.Pos.X()

	lo := level.SectionIndexFromX(curX) - s.opts.VisiblePadding
	hi := level.SectionIndexFromX(curX) + s.opts.VisiblePadding
	w.Sections.SetVisible(lo, hi)

	w.UpdateTransforms(lo, hi)

	s.collide(in)

	s.Triggers.PlayerDelta = s.Player.Delta()
	s.Triggers.Step(prevX, curX)

	w.ApplyGroupDeltas()

	now := w.Timeline.TimeForPos(curX)
	w.Colors.Resolve(now)
	w.UpdateObjectColors(lo, hi, now)
	w.Groups.PrunePulses(now)

	if curX >= w.MaxX() {
		s.result = &Result{
			LevelID: w.LevelID,
			Elapsed: w.Timeline.TimeForPos(w.MaxX()),
		}
		s.Log.Info("level complete", "level_id", w.LevelID, "elapsed", s.result.Elapsed)
	}
}
