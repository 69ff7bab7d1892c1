package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func replay(cfg *ReplayConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Replay.Parse(cc, args)
	if err != nil {
		return err
	}
	file := "-"
	switch len(args) {
	case 0:
	case 1:
		file = args[0]
	default:
		return fmt.Errorf("%w: replay takes at most 1 file, got %v", cli.ErrUsage, args)
	}
	if cfg.SSE {
		return fmt.Errorf("%w: -sse does not apply to replay", cli.ErrUsage)
	}
	url := "-"
	if file != "-" {
		url = "file://" + file
	}
	_, err = cfg.run(cc, url)
	return err
}
