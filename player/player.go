package player

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/jefftier/gifplay/gif"
)

var (
	ErrUnsupportedSource = errors.New("player: unsupported source")
	ErrDisposed          = errors.New("player: disposed")

	errLoadSuperseded = errors.New("player: load superseded")
)

const eventBuffer = 64

type eventKind uint8

const (
	eventFrame eventKind = iota
	eventComplete
	eventError
)

type event struct {
	kind  eventKind
	index int
	err   error
}

// Player schedules decoded frames onto a compositor canvas. All
// methods are safe for concurrent use.
type Player struct {
	cfg Config

	mu         sync.Mutex
	state      State
	meta       *gif.Metadata
	compositor *gif.Compositor
	current    int
	speed      float64
	loop       bool
	disposed   bool
	loadSeq    uint64

	// Timer bookkeeping. At most one timer is outstanding; a raced
	// callback from a cancelled one is discarded by generation.
	timer      *time.Timer
	generation uint64
	armedAt    time.Time
	armedDelay time.Duration
	remaining  time.Duration

	events chan event

	// Statistics (atomic)
	loads          uint64
	framesRendered uint64
	loops          uint64
	completions    uint64
	renderErrors   uint64
	droppedEvents  uint64
}

// New builds an idle player from cfg and starts its callback
// dispatcher.
func New(cfg Config) *Player {
	cfg = cfg.withDefaults()
	player := &Player{
		cfg:    cfg,
		speed:  cfg.Speed,
		loop:   cfg.Loop,
		events: make(chan event, eventBuffer),
	}
	go player.dispatch()
	return player
}

// NewOnce returns a player that plays its animation a single time.
func NewOnce() *Player {
	return New(Config{})
}

// NewLooping returns a player that repeats until stopped.
func NewLooping() *Player {
	return New(Config{Loop: true})
}

// Load decodes an in-memory GIF and makes it the current content.
func (player *Player) Load(data []byte) (*gif.Metadata, error) {
	return player.LoadSource(context.Background(), Source{Bytes: data})
}

// LoadFile reads and decodes a GIF from the filesystem.
func (player *Player) LoadFile(ctx context.Context, path string) (*gif.Metadata, error) {
	return player.LoadSource(ctx, Source{Path: path})
}

// LoadURL downloads and decodes a GIF over HTTP.
func (player *Player) LoadURL(ctx context.Context, url string) (*gif.Metadata, error) {
	return player.LoadSource(ctx, Source{URL: url})
}

// LoadSource resolves source, decodes it and replaces the current
// content. Playback of the previous content stops immediately. If a
// newer load finishes first this one is dropped and reports an error.
// Decode failures leave the player idle and reach OnError as well.
func (player *Player) LoadSource(ctx context.Context, source Source) (*gif.Metadata, error) {
	player.mu.Lock()
	if player.disposed {
		player.mu.Unlock()
		return nil, ErrDisposed
	}
	player.cancelTimerLocked()
	player.state = StateLoading
	player.loadSeq++
	seq := player.loadSeq
	player.mu.Unlock()

	trace := uuid.New().String()
	slog.Debug("player: loading", "trace", trace, "source", source.kind())

	data, err := source.Resolve(ctx)
	var meta *gif.Metadata
	if err == nil {
		meta, err = gif.Decode(data)
	}

	player.mu.Lock()
	if player.disposed {
		player.mu.Unlock()
		return nil, ErrDisposed
	}
	if seq != player.loadSeq {
		player.mu.Unlock()
		return nil, errLoadSuperseded
	}
	if err != nil {
		player.meta = nil
		player.compositor = nil
		player.current = 0
		player.state = StateIdle
		player.emitLocked(event{kind: eventError, err: err})
		player.mu.Unlock()
		slog.Warn("player: load failed", "trace", trace, "error", err)
		return nil, err
	}

	player.meta = meta
	player.compositor = gif.NewCompositor(meta)
	player.current = 0
	player.state = StateReady
	atomic.AddUint64(&player.loads, 1)
	autoplay := player.cfg.AutoPlay && meta.IsAnimated()
	player.mu.Unlock()

	slog.Info("player: loaded", "trace", trace,
		"version", meta.Version,
		"size", humanize.IBytes(uint64(len(data))),
		"frames", meta.FrameCount(),
		"duration", meta.Duration,
		"loop_count", meta.LoopCount)

	if autoplay {
		player.Play()
	}
	return meta, nil
}

// Play starts playback from the current frame, or resumes a paused
// one without replaying the elapsed part of its delay. On a player
// that is already playing, or has nothing loaded, it does nothing.
func (player *Player) Play() {
	player.mu.Lock()
	if player.disposed || player.meta == nil {
		player.mu.Unlock()
		return
	}
	switch player.state {
	case StateReady, StatePaused, StateStopped:
	default:
		player.mu.Unlock()
		return
	}

	if !player.meta.IsAnimated() {
		// A single image has nothing to schedule and never
		// completes. Show it and stay put.
		player.renderLocked(player.current)
		player.emitLocked(event{kind: eventFrame, index: player.current})
		player.mu.Unlock()
		return
	}

	if player.state == StatePaused {
		player.state = StatePlaying
		remaining := player.remaining
		player.armLocked(remaining)
		player.mu.Unlock()
		slog.Debug("player: resumed", "remaining", remaining)
		return
	}

	player.state = StatePlaying
	player.stepLocked()
	player.mu.Unlock()
	slog.Debug("player: playing")
}

// Pause freezes playback, remembering how much of the current frame's
// delay is left so Play resumes without drift.
func (player *Player) Pause() {
	player.mu.Lock()
	if player.state != StatePlaying {
		player.mu.Unlock()
		return
	}
	remaining := player.armedDelay - time.Since(player.armedAt)
	if remaining < 0 {
		remaining = 0
	}
	player.remaining = remaining
	player.cancelTimerLocked()
	player.state = StatePaused
	frame := player.current
	player.mu.Unlock()
	slog.Debug("player: paused", "frame", frame, "remaining", remaining)
}

// Stop ends playback and rewinds to frame zero, which is rendered so
// the canvas matches the reported position. No frame notification is
// sent for the rewind.
func (player *Player) Stop() {
	player.mu.Lock()
	if player.disposed || player.meta == nil {
		player.mu.Unlock()
		return
	}
	player.cancelTimerLocked()
	player.current = 0
	player.renderLocked(0)
	player.state = StateStopped
	player.mu.Unlock()
	slog.Debug("player: stopped")
}

// SeekFrame jumps to the given frame, clamped to the valid range,
// renders it and notifies OnFrameChange. Seeking does not disturb a
// running schedule: the pending delay keeps counting.
func (player *Player) SeekFrame(index int) {
	player.mu.Lock()
	defer player.mu.Unlock()
	if player.disposed || player.meta == nil {
		return
	}
	player.seekLocked(index)
}

// SeekTime jumps to the frame whose delay window contains the given
// point on the unscaled timeline. Times past the end land on the last
// frame.
func (player *Player) SeekTime(at time.Duration) {
	player.mu.Lock()
	defer player.mu.Unlock()
	if player.disposed || player.meta == nil {
		return
	}
	player.seekLocked(player.frameAtLocked(at))
}

func (player *Player) seekLocked(index int) {
	if index < 0 {
		index = 0
	}
	if last := player.meta.FrameCount() - 1; index > last {
		index = last
	}
	player.current = index
	player.renderLocked(index)
	player.emitLocked(event{kind: eventFrame, index: index})
}

func (player *Player) frameAtLocked(at time.Duration) int {
	var elapsed time.Duration
	for index, frame := range player.meta.Frames {
		elapsed += frame.Delay
		if at < elapsed {
			return index
		}
	}
	return player.meta.FrameCount() - 1
}

// SetSpeed changes the delay divisor, clamped to [MinSpeed, MaxSpeed].
// The frame already scheduled keeps its old delay; the new speed
// applies from the next one.
func (player *Player) SetSpeed(speed float64) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.speed = clampSpeed(speed)
}

// Speed reports the current delay divisor.
func (player *Player) Speed() float64 {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.speed
}

// SetLoop switches looping on or off for subsequent wrap decisions.
func (player *Player) SetLoop(loop bool) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.loop = loop
}

// Loop reports whether playback wraps at the end.
func (player *Player) Loop() bool {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.loop
}

// State reports the lifecycle phase.
func (player *Player) State() State {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.state
}

// CurrentFrame reports the index of the frame on the canvas.
func (player *Player) CurrentFrame() int {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.current
}

// Metadata returns the decoded content, or nil before the first
// successful load.
func (player *Player) Metadata() *gif.Metadata {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.meta
}

// IsAnimated reports whether the loaded content has more than one
// frame.
func (player *Player) IsAnimated() bool {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.meta != nil && player.meta.IsAnimated()
}

// Duration reports the unscaled length of one pass through the
// animation.
func (player *Player) Duration() time.Duration {
	player.mu.Lock()
	defer player.mu.Unlock()
	if player.meta == nil {
		return 0
	}
	return player.meta.Duration
}

// Canvas exposes the live composited image. The player keeps drawing
// into it, so callers that need a stable copy should use Snapshot.
func (player *Player) Canvas() *image.RGBA {
	player.mu.Lock()
	defer player.mu.Unlock()
	if player.compositor == nil {
		return nil
	}
	return player.compositor.Canvas()
}

// Snapshot returns an independent copy of the canvas, or nil before
// the first load.
func (player *Player) Snapshot() *image.RGBA {
	player.mu.Lock()
	defer player.mu.Unlock()
	if player.compositor == nil {
		return nil
	}
	return player.compositor.Snapshot()
}

// Dispose stops playback, releases the content and closes the
// callback dispatcher. Further loads fail with ErrDisposed; calling
// Dispose again is a no-op.
func (player *Player) Dispose() {
	player.mu.Lock()
	if player.disposed {
		player.mu.Unlock()
		return
	}
	player.cancelTimerLocked()
	player.disposed = true
	player.state = StateStopped
	player.meta = nil
	player.compositor = nil
	player.current = 0
	close(player.events)
	player.mu.Unlock()
	slog.Debug("player: disposed")
}

// advance is the timer callback: move to the next frame, wrapping or
// completing at the end of the sequence.
func (player *Player) advance(generation uint64) {
	player.mu.Lock()
	if player.disposed || generation != player.generation || player.state != StatePlaying {
		player.mu.Unlock()
		return
	}

	player.current++
	if player.current >= player.meta.FrameCount() {
		if player.loop && player.meta.LoopCount != 1 {
			player.current = 0
			atomic.AddUint64(&player.loops, 1)
			player.stepLocked()
			player.mu.Unlock()
			return
		}
		player.cancelTimerLocked()
		player.current = 0
		player.state = StateStopped
		atomic.AddUint64(&player.completions, 1)
		player.emitLocked(event{kind: eventComplete})
		player.mu.Unlock()
		slog.Debug("player: completed")
		return
	}

	player.stepLocked()
	player.mu.Unlock()
}

// stepLocked renders the current frame, queues its notification and
// arms the delay to the next one.
func (player *Player) stepLocked() {
	player.renderLocked(player.current)
	player.emitLocked(event{kind: eventFrame, index: player.current})
	player.armLocked(player.scaledDelayLocked())
}

func (player *Player) scaledDelayLocked() time.Duration {
	delay := player.meta.Frames[player.current].Delay
	return time.Duration(float64(delay) / player.speed)
}

func (player *Player) armLocked(delay time.Duration) {
	player.cancelTimerLocked()
	generation := player.generation
	player.armedAt = time.Now()
	player.armedDelay = delay
	player.timer = time.AfterFunc(delay, func() {
		player.advance(generation)
	})
}

// cancelTimerLocked stops any outstanding timer and bumps the
// generation so a callback already in flight is discarded.
func (player *Player) cancelTimerLocked() {
	player.generation++
	if player.timer != nil {
		player.timer.Stop()
		player.timer = nil
	}
}

func (player *Player) renderLocked(index int) {
	if player.compositor == nil {
		return
	}
	if _, err := player.compositor.Render(index); err != nil {
		atomic.AddUint64(&player.renderErrors, 1)
		slog.Warn("player: render failed", "frame", index, "error", err)
		return
	}
	atomic.AddUint64(&player.framesRendered, 1)
}

// emitLocked hands an event to the dispatcher without blocking the
// timer goroutine. A full queue drops the event and counts it.
func (player *Player) emitLocked(ev event) {
	if player.disposed {
		return
	}
	select {
	case player.events <- ev:
	default:
		atomic.AddUint64(&player.droppedEvents, 1)
	}
}

// dispatch runs the caller's callbacks in queue order, one at a time.
func (player *Player) dispatch() {
	for ev := range player.events {
		switch ev.kind {
		case eventFrame:
			if fn := player.cfg.OnFrameChange; fn != nil {
				fn(ev.index)
			}
		case eventComplete:
			if fn := player.cfg.OnComplete; fn != nil {
				fn()
			}
		case eventError:
			if fn := player.cfg.OnError; fn != nil {
				fn(ev.err)
			}
		}
	}
}
