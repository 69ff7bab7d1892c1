package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func fetch(cfg *FetchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fetch.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: fetch requires 1 url, got %v", cli.ErrUsage, args)
	}
	_, err = cfg.run(cc, streamURL(args[0]))
	return err
}
