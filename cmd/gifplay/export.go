package main

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"golang.org/x/image/draw"

	"github.com/jefftier/gifplay/gif"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write every composited frame as an image file",
		ArgsUsage: "<path or URL>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   "frames",
				Usage:   "output directory",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "png",
				Usage: "png or jpeg",
			},
			&cli.IntFlag{
				Name:  "quality",
				Value: 90,
				Usage: "jpeg quality (1-100)",
			},
			&cli.IntFlag{
				Name:  "width",
				Usage: "resize frames to this width",
			},
		},
		Action: runExport,
	}
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	if format != "png" && format != "jpeg" {
		return fmt.Errorf("unsupported format: %s", format)
	}

	data, err := readInput(ctx, cmd.Args().First())
	if err != nil {
		return err
	}
	meta, err := gif.Decode(data)
	if err != nil {
		return err
	}

	outDir := cmd.String("out")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	compositor := gif.NewCompositor(meta)
	width := int(cmd.Int("width"))
	quality := int(cmd.Int("quality"))

	for index := range meta.Frames {
		if _, err := compositor.Render(index); err != nil {
			return err
		}
		img := compositor.Snapshot()
		if width > 0 && width != meta.Width {
			img = resizeToWidth(img, width)
		}
		name := filepath.Join(outDir, fmt.Sprintf("frame_%03d.%s", index, format))
		if err := writeImage(name, img, format, quality); err != nil {
			return err
		}
	}

	slog.Info("gifplay: exported", "frames", meta.FrameCount(), "dir", outDir)
	return nil
}

func resizeToWidth(src *image.RGBA, width int) *image.RGBA {
	bounds := src.Bounds()
	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst
}

func writeImage(name string, img image.Image, format string, quality int) error {
	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	switch format {
	case "png":
		if err := png.Encode(file, img); err != nil {
			return fmt.Errorf("failed to encode PNG: %w", err)
		}
	case "jpeg":
		if err := jpeg.Encode(file, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("failed to encode JPEG: %w", err)
		}
	}
	return nil
}
