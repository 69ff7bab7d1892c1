package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/signadot/pjson/encode"
	"github.com/signadot/pjson/engine"
	"github.com/signadot/pjson/format"
	"github.com/signadot/pjson/eval"
	"github.com/signadot/pjson/handler"
	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/libdiff"
	"github.com/signadot/pjson/transport"

	"github.com/natefinch/atomic"
	"github.com/scott-cotton/cli"
)

// streamURL turns a local path into a file URL. http(s) URLs, file URLs
// and "-" are returned as is.
func streamURL(arg string) string {
	switch {
	case arg == "-",
		strings.HasPrefix(arg, "http://"),
		strings.HasPrefix(arg, "https://"),
		strings.HasPrefix(arg, "file://"):
		return arg
	}
	return "file://" + arg
}

func (cfg *StreamConfig) fetcher(cc *cli.Context, url string) transport.Fetcher {
	log := cfg.logger()
	switch {
	case cfg.SSE:
		return &transport.SSE{Header: cfg.Header, Log: log}
	case url == "-", strings.HasPrefix(url, "file://"):
		return &transport.File{Stdin: cc.In}
	}
	return &transport.HTTP{Header: cfg.Header, Log: log}
}

func (cfg *StreamConfig) handlers() []handler.Handler {
	if !cfg.Ext {
		return nil
	}
	var res []handler.Handler
	for _, typ := range handler.Extensions() {
		res = append(res, handler.Lookup(typ))
	}
	return res
}

// printer renders documents as the stream progresses.
type printer struct {
	cfg    *StreamConfig
	cc     *cli.Context
	sel    func(*ir.Node) (*ir.Node, error)
	diff   *libdiff.Printer
	prev   *ir.Node
	n      int
	errOut error
}

func (p *printer) view(doc *ir.Node) (*ir.Node, error) {
	if p.sel == nil {
		return doc, nil
	}
	return p.sel(doc)
}

func (p *printer) print(doc *ir.Node) error {
	doc, err := p.view(doc)
	if err != nil {
		return err
	}
	defer func() { p.n++ }()
	if p.diff != nil {
		cs := libdiff.Diff(p.prev, doc)
		p.prev = doc
		if len(cs) == 0 {
			return nil
		}
		if p.n > 0 {
			fmt.Fprintln(p.cc.Out, "---")
		}
		return p.diff.Write(p.cc.Out, cs)
	}
	opts := p.cfg.encOpts(p.cc.Out)
	if p.n > 0 && !p.cfg.Compact && encode.FormatFromOpts(opts...) != format.NDJSONFormat {
		fmt.Fprintln(p.cc.Out, "---")
	}
	return encode.Encode(doc, p.cc.Out, opts...)
}

func (cfg *StreamConfig) newPrinter(cc *cli.Context) (*printer, error) {
	p := &printer{cfg: cfg, cc: cc}
	if cfg.Select != "" {
		prg, err := eval.Compile(cfg.Select)
		if err != nil {
			return nil, fmt.Errorf("%w: -select: %w", cli.ErrUsage, err)
		}
		p.sel = prg.Select()
	}
	if cfg.Diff {
		p.diff = libdiff.NewPrinter(cfg.colors(cc.Out))
	}
	return p, nil
}

// run reads url to the end through an engine. In watch mode every change
// is printed as it happens.
func (cfg *StreamConfig) run(cc *cli.Context, url string) (*engine.Engine, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	p, err := cfg.newPrinter(cc)
	if err != nil {
		return nil, err
	}
	e := engine.New(engine.Options{
		URL:      url,
		Enabled:  true,
		Handlers: cfg.handlers(),
		Fetcher:  cfg.fetcher(cc, url),
		Log:      cfg.logger(),
	})
	defer e.Dispose()
	if cfg.Watch && !cfg.quiet {
		e.Subscribe(func(doc *ir.Node) {
			if cfg.Raw {
				doc = e.RawSnapshot()
			}
			if err := p.print(doc); err != nil && p.errOut == nil {
				p.errOut = err
			}
		})
	}
	e.StartFetching(ctx)
	e.Wait()
	if e.State() == engine.Errored {
		err := e.Err()
		if errors.Is(err, transport.ErrUnauthorized) {
			return e, fmt.Errorf("%s: %w", url, err)
		}
		return e, fmt.Errorf("reading %s: %w", url, err)
	}
	if p.errOut != nil {
		return e, p.errOut
	}
	if cfg.quiet {
		return e, nil
	}
	if !cfg.Watch {
		doc := e.Snapshot()
		if cfg.Raw {
			doc = e.RawSnapshot()
		}
		if err := p.print(doc); err != nil {
			return e, err
		}
	}
	return e, cfg.save(e)
}

func (cfg *StreamConfig) save(e *engine.Engine) error {
	if cfg.Save == "" {
		return nil
	}
	doc := e.Snapshot()
	if cfg.Raw {
		doc = e.RawSnapshot()
	}
	f, ok := format.ForPath(cfg.Save)
	if !ok {
		f = cfg.format()
	}
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(doc, buf, encode.EncodeFormat(f)); err != nil {
		return err
	}
	if err := atomic.WriteFile(cfg.Save, buf); err != nil {
		return fmt.Errorf("saving %s: %w", cfg.Save, err)
	}
	return nil
}
