package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/jefftier/gifplay/player"
)

func init() {
	// GLFW event handling must run on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	root := &cli.Command{
		Name:  "gifplay",
		Usage: "decode, inspect and play GIF animations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := slog.LevelInfo
			if cmd.Bool("verbose") {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
			return ctx, nil
		},
		Commands: []*cli.Command{
			playCommand(),
			infoCommand(),
			inspectCommand(),
			exportCommand(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "gifplay:", err)
		os.Exit(1)
	}
}

// sourceFor treats anything with a scheme as a URL and everything
// else as a local path.
func sourceFor(arg string) player.Source {
	if strings.Contains(arg, "://") {
		return player.Source{URL: arg}
	}
	return player.Source{Path: arg}
}

func readInput(ctx context.Context, arg string) ([]byte, error) {
	if arg == "" {
		return nil, fmt.Errorf("missing input path or URL")
	}
	return sourceFor(arg).Resolve(ctx)
}
