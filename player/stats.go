package player

import "sync/atomic"

// Stats is a point-in-time snapshot of playback counters.
type Stats struct {
	Loads          uint64
	FramesRendered uint64
	Loops          uint64
	Completions    uint64
	RenderErrors   uint64
	DroppedEvents  uint64
}

// Stats reads the counters atomically, so it is safe to call from any
// goroutine without stalling playback.
func (player *Player) Stats() Stats {
	return Stats{
		Loads:          atomic.LoadUint64(&player.loads),
		FramesRendered: atomic.LoadUint64(&player.framesRendered),
		Loops:          atomic.LoadUint64(&player.loops),
		Completions:    atomic.LoadUint64(&player.completions),
		RenderErrors:   atomic.LoadUint64(&player.renderErrors),
		DroppedEvents:  atomic.LoadUint64(&player.droppedEvents),
	}
}
