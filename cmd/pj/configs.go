package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/signadot/pjson/encode"
	"github.com/signadot/pjson/format"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='encode with color'"`
	Compact bool `cli:"name=c aliases=compact desc='output one line per document'"`

	J bool `cli:"name=j aliases=json desc='output json'"`
	Y bool `cli:"name=y aliases=yaml desc='output yaml'"`

	Verbose bool `cli:"name=v desc='log engine activity to stderr'"`

	OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fp **format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*fp = &f
		return f, nil
	})
}

func (cfg *MainConfig) format() format.Format {
	var f format.Format
	switch {
	case cfg.Y:
		f = format.YAMLFormat
	case cfg.J:
		f = format.JSONFormat
	}
	if cfg.OutFormat != nil {
		f = *cfg.OutFormat
	}
	return f
}

func (cfg *MainConfig) colors(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name == "color" && opt.Value != nil {
				return false
			}
		}
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeFormat(cfg.format()),
		encode.Compact(cfg.Compact),
	}
	if cfg.colors(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

func (cfg *MainConfig) logger() *slog.Logger {
	if !cfg.Verbose && os.Getenv("DEBUG") == "" {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// StreamConfig holds the options shared by the commands which run a
// stream through an engine.
type StreamConfig struct {
	*MainConfig

	SSE    bool   `cli:"name=sse desc='read the stream as server sent events'"`
	Watch  bool   `cli:"name=w aliases=watch desc='print the document after every change'"`
	Diff   bool   `cli:"name=d aliases=diff desc='print changes instead of documents'"`
	Raw    bool   `cli:"name=raw desc='keep unresolved placeholders in the output'"`
	Select string `cli:"name=s aliases=select desc='expression selecting the output from the document'"`
	Ext    bool   `cli:"name=x desc='enable the extension message types'"`
	Save   string `cli:"name=save desc='atomically write the final document to a file'"`

	Header  http.Header
	Timeout time.Duration

	// quiet runs the stream without printing or saving the document
	quiet bool
}

func (cfg *StreamConfig) headerFunc() cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		name, val, ok := strings.Cut(v, ":")
		if !ok {
			return nil, fmt.Errorf("%w: header %q: expected name:value", cli.ErrUsage, v)
		}
		cfg.Header.Add(strings.TrimSpace(name), strings.TrimSpace(val))
		return v, nil
	})
}

func (cfg *StreamConfig) timeoutFunc() cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		cfg.Timeout = d
		return d, nil
	})
}

func (cfg *StreamConfig) streamOpts() []*cli.Opt {
	return []*cli.Opt{
		{
			Name:        "H",
			Aliases:     []string{"header"},
			Description: "request header, may be repeated",
			Type:        cli.NamedFuncOpt(cfg.headerFunc(), "(name:value)"),
		},
		{
			Name:        "timeout",
			Description: "give up after this long",
			Type:        cli.NamedFuncOpt(cfg.timeoutFunc(), "(duration)"),
		},
	}
}

type FetchConfig struct {
	*StreamConfig
	Fetch *cli.Command
}

type ReplayConfig struct {
	*StreamConfig
	Replay *cli.Command
}

type RefsConfig struct {
	*StreamConfig
	Refs *cli.Command
}

type ServeConfig struct {
	*MainConfig
	Serve *cli.Command

	ConfigFile string `cli:"name=config desc='configuration file (yaml)'"`
	Addr       string `cli:"name=addr desc='TCP listen address'"`
	Scripts    string `cli:"name=scripts desc='directory of stream scripts'"`
	LogFile    string `cli:"name=log desc='log to this file with rotation instead of stdout'"`
	NoDemo     bool   `cli:"name=nodemo desc='do not serve the demo stream'"`
	Gops       bool   `cli:"name=gops desc='start a gops agent'"`

	Speed *float64
}

func (cfg *ServeConfig) speedFunc() cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: speed %q: %w", cli.ErrUsage, v, err)
		}
		cfg.Speed = &f
		return f, nil
	})
}
