package main

import (
	"net/http"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: json/j, yaml/y, ndjson/n",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "pj").
		WithSynopsis("pj [opts] command [opts]").
		WithDescription("pj reads progressive json streams.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return pjMain(cfg, cc, args)
		}).
		WithSubs(
			FetchCommand(cfg),
			ReplayCommand(cfg),
			RefsCommand(cfg),
			ServeCommand(cfg))
}

func streamConfig(mainCfg *MainConfig) (*StreamConfig, []*cli.Opt) {
	cfg := &StreamConfig{MainConfig: mainCfg, Header: http.Header{}}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cfg, append(opts, cfg.streamOpts()...)
}

func FetchCommand(mainCfg *MainConfig) *cli.Command {
	sc, opts := streamConfig(mainCfg)
	cfg := &FetchConfig{StreamConfig: sc}
	return cli.NewCommandAt(&cfg.Fetch, "fetch").
		WithAliases("f", "get").
		WithSynopsis("fetch [opts] <url>").
		WithDescription("fetch a stream and print the resolved document").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return fetch(cfg, cc, args)
		})
}

func ReplayCommand(mainCfg *MainConfig) *cli.Command {
	sc, opts := streamConfig(mainCfg)
	cfg := &ReplayConfig{StreamConfig: sc}
	return cli.NewCommandAt(&cfg.Replay, "replay").
		WithAliases("r").
		WithSynopsis("replay [opts] [file]").
		WithDescription("replay a recorded ndjson stream from a file or stdin").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return replay(cfg, cc, args)
		})
}

func RefsCommand(mainCfg *MainConfig) *cli.Command {
	sc, opts := streamConfig(mainCfg)
	cfg := &RefsConfig{StreamConfig: sc}
	return cli.NewCommandAt(&cfg.Refs, "refs").
		WithSynopsis("refs [opts] <url|file>").
		WithDescription("list the references of a stream and where they resolved").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return refs(cfg, cc, args)
		})
}

func ServeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ServeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, &cli.Opt{
		Name:        "speed",
		Description: "multiply every delay of a stream",
		Type:        cli.NamedFuncOpt(cfg.speedFunc(), "(factor)"),
	})
	return cli.NewCommandAt(&cfg.Serve, "serve").
		WithSynopsis("serve [-config file] [-addr addr] [-scripts dir]").
		WithDescription("serve demo and scripted streams over http").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return serve(cfg, cc, args)
		})
}
