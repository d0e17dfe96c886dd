package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/jefftier/gifplay/gif"
)

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "print a summary of a GIF's contents",
		ArgsUsage: "<path or URL>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "frames",
				Aliases: []string{"f"},
				Usage:   "list every frame",
			},
		},
		Action: runInfo,
	}
}

func runInfo(ctx context.Context, cmd *cli.Command) error {
	data, err := readInput(ctx, cmd.Args().First())
	if err != nil {
		return err
	}
	meta, err := gif.Decode(data)
	if err != nil {
		return err
	}

	fmt.Printf("%s %dx%d, %s\n", meta.Version, meta.Width, meta.Height,
		humanize.IBytes(uint64(len(data))))
	fmt.Printf("frames: %d, duration: %s, loops: %s\n",
		meta.FrameCount(), meta.Duration, loopLabel(meta.LoopCount))
	if len(meta.GlobalPalette) > 0 {
		fmt.Printf("global palette: %d entries, background index %d\n",
			len(meta.GlobalPalette), meta.BackgroundIndex)
	}
	for _, comment := range meta.Comments {
		fmt.Printf("comment: %s\n", comment)
	}

	if cmd.Bool("frames") {
		for _, frame := range meta.Frames {
			extras := ""
			if frame.HasTransparency {
				extras += fmt.Sprintf(", transparent %d", frame.TransparentIndex)
			}
			if frame.LocalPalette {
				extras += ", local palette"
			}
			if frame.Interlaced {
				extras += ", interlaced"
			}
			fmt.Printf("  frame %d: %dx%d at (%d,%d), delay %s, disposal %s%s\n",
				frame.Index, frame.Rect.Dx(), frame.Rect.Dy(),
				frame.Rect.Min.X, frame.Rect.Min.Y,
				frame.Delay, frame.Disposal, extras)
		}
	}
	return nil
}

func loopLabel(count int) string {
	switch count {
	case 0:
		return "forever"
	case 1:
		return "once"
	}
	return fmt.Sprintf("%d times", count)
}
