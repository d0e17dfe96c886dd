package player

// Speed multipliers outside this range are clamped, never rejected.
const (
	MinSpeed     = 0.1
	MaxSpeed     = 10.0
	DefaultSpeed = 1.0
)

// Config carries the initial playback settings and the caller's
// callbacks. The zero value plays once at normal speed with no
// callbacks.
type Config struct {
	// AutoPlay starts playback as soon as an animated source loads.
	AutoPlay bool

	// Speed is the initial delay divisor. Zero means DefaultSpeed.
	Speed float64

	// Loop restarts the animation after the last frame unless the
	// file's loop count says to play exactly once.
	Loop bool

	// Callbacks. All three run on the player's dispatch goroutine.
	OnFrameChange func(index int)
	OnComplete    func()
	OnError       func(err error)
}

func (cfg Config) withDefaults() Config {
	if cfg.Speed == 0 {
		cfg.Speed = DefaultSpeed
	}
	cfg.Speed = clampSpeed(cfg.Speed)
	return cfg
}

func clampSpeed(speed float64) float64 {
	switch {
	case speed < MinSpeed:
		return MinSpeed
	case speed > MaxSpeed:
		return MaxSpeed
	}
	return speed
}
