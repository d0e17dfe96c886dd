package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/urfave/cli/v3"

	"github.com/jefftier/gifplay/internal/rendering"
	"github.com/jefftier/gifplay/player"
)

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "play a GIF in a window",
		ArgsUsage: "<path or URL>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "loop",
				Aliases: []string{"l"},
				Usage:   "restart after the last frame",
			},
			&cli.Float64Flag{
				Name:  "speed",
				Value: player.DefaultSpeed,
				Usage: "delay divisor, clamped to 0.1-10",
			},
			&cli.IntFlag{
				Name:  "scale",
				Value: 1,
				Usage: "integer window scale",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "window title (defaults to the input name)",
			},
		},
		Action: runPlay,
	}
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	arg := cmd.Args().First()
	if arg == "" {
		return fmt.Errorf("missing input path or URL")
	}

	surface := rendering.NewSurface()
	var window *rendering.Window
	var playback *player.Player

	playback = player.New(player.Config{
		Speed: cmd.Float64("speed"),
		Loop:  cmd.Bool("loop"),
		OnFrameChange: func(int) {
			if snapshot := playback.Snapshot(); snapshot != nil {
				surface.Publish(snapshot)
			}
		},
		OnComplete: func() {
			slog.Info("gifplay: playback complete")
			if window != nil {
				window.RequestClose()
			}
		},
		OnError: func(err error) {
			slog.Error("gifplay: playback error", "error", err)
		},
	})
	defer playback.Dispose()

	meta, err := playback.LoadSource(ctx, sourceFor(arg))
	if err != nil {
		return err
	}

	title := cmd.String("title")
	if title == "" {
		title = arg
	}
	window, err = rendering.NewWindow(rendering.WindowConfig{
		Title:  title,
		Width:  meta.Width,
		Height: meta.Height,
		Scale:  int(cmd.Int("scale")),
	}, surface)
	if err != nil {
		return err
	}

	window.SetKeyHandler(func(key glfw.Key) {
		switch key {
		case glfw.KeyEscape, glfw.KeyQ:
			window.RequestClose()
		case glfw.KeySpace:
			if playback.State() == player.StatePlaying {
				playback.Pause()
			} else {
				playback.Play()
			}
		case glfw.KeyLeft:
			playback.Pause()
			playback.SeekFrame(playback.CurrentFrame() - 1)
		case glfw.KeyRight:
			playback.Pause()
			playback.SeekFrame(playback.CurrentFrame() + 1)
		case glfw.KeyUp:
			playback.SetSpeed(playback.Speed() * 2)
		case glfw.KeyDown:
			playback.SetSpeed(playback.Speed() / 2)
		case glfw.KeyL:
			playback.SetLoop(!playback.Loop())
		case glfw.KeyR:
			playback.Stop()
			playback.Play()
		}
	})

	fmt.Println("controls: space pause/resume, left/right step, up/down speed, L loop, R restart, Q quit")

	playback.Play()
	window.Run()

	stats := playback.Stats()
	slog.Info("gifplay: session ended",
		"frames_rendered", stats.FramesRendered,
		"loops", stats.Loops,
		"dropped_events", stats.DroppedEvents)
	return nil
}
