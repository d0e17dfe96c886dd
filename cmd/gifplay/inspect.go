package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/jefftier/gifplay/gif"
	"github.com/jefftier/gifplay/utils"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "walk the block structure of a GIF",
		ArgsUsage: "<path or URL>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "hex",
				Usage: "dump the first N bytes before walking",
			},
		},
		Action: runInspect,
	}
}

func runInspect(ctx context.Context, cmd *cli.Command) error {
	data, err := readInput(ctx, cmd.Args().First())
	if err != nil {
		return err
	}

	if n := int64(cmd.Int("hex")); n > 0 {
		if n > int64(len(data)) {
			n = int64(len(data))
		}
		if err := utils.HexDump(os.Stdout, bytes.NewReader(data), 0, n); err != nil {
			return err
		}
		fmt.Println()
	}
	return gif.Inspect(os.Stdout, data)
}
