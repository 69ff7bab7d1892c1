package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/signadot/pjson/debug"
	"github.com/signadot/pjson/handler"
	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/message"
	"github.com/signadot/pjson/ref"
	"github.com/signadot/pjson/transport"
)

type Engine struct {
	mu   sync.Mutex
	opts Options
	reg  *handler.Registry
	log  *slog.Logger

	store *ref.Store
	doc   *ir.Node
	// filtered caches ref.Filter(doc)
	filtered, filteredOf *ir.Node

	state State
	err   error
	buf   []byte

	// gen is bumped whenever a fetch is started or stopped, chunks from
	// an older fetch are discarded.
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}

	subs     map[int]func(*ir.Node)
	nextSub  int
	disposed bool
}

func New(opts Options) *Engine {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	e := &Engine{
		opts:  opts,
		reg:   handler.NewRegistry(append(slices.Clone(opts.Handlers), handler.Builtins()...)...),
		log:   log,
		store: ref.NewStore(),
		doc:   opts.Initial,
		subs:  map[int]func(*ir.Node){},
	}
	e.store.Reset(ref.Scan(opts.Initial, nil))
	return e
}

// Snapshot returns the current document without unresolved references.
func (e *Engine) Snapshot() *ir.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filteredLocked()
}

// RawSnapshot returns the current document including placeholders.
func (e *Engine) RawSnapshot() *ir.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

// Selected returns the result of Options.Select on Snapshot, or Snapshot
// when no selection is set.
func (e *Engine) Selected() (*ir.Node, error) {
	e.mu.Lock()
	doc := e.filteredLocked()
	sel := e.opts.Select
	e.mu.Unlock()
	if sel == nil {
		return doc, nil
	}
	return sel(doc)
}

func (e *Engine) filteredLocked() *ir.Node {
	if e.filteredOf != e.doc || e.filtered == nil {
		e.filtered = ref.Filter(e.doc)
		e.filteredOf = e.doc
	}
	return e.filtered
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the error which ended the last fetch, if it failed.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Refs returns a copy of the reference store.
func (e *Engine) Refs() ref.Paths {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Snapshot()
}

// Subscribe registers fn to receive the filtered snapshot after every
// change. The returned function unsubscribes.
func (e *Engine) Subscribe(fn func(doc *ir.Node)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return func() {}
	}
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

// StartFetching starts reading the stream in a new goroutine. It does
// nothing while streaming, when disabled or without a URL.
func (e *Engine) StartFetching(ctx context.Context) {
	e.mu.Lock()
	if e.disposed || e.state == Streaming || !e.opts.Enabled || e.opts.URL == "" {
		e.mu.Unlock()
		return
	}
	f := e.opts.Fetcher
	if f == nil {
		f = transport.ForURL(e.opts.URL)
	}
	url := e.opts.URL
	e.gen++
	gen := e.gen
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	e.cancel, e.done = cancel, done
	e.state, e.err, e.buf = Streaming, nil, nil
	onStart := e.opts.OnStreamStart
	e.mu.Unlock()

	e.log.Info("stream started", "url", url)
	if onStart != nil {
		onStart()
	}
	go e.run(ctx, cancel, gen, f, url, done)
}

func (e *Engine) run(ctx context.Context, cancel context.CancelFunc, gen uint64, f transport.Fetcher, url string, done chan struct{}) {
	defer close(done)
	defer cancel()
	err := f.Fetch(ctx, url, &fetchSink{e: e, gen: gen})

	e.mu.Lock()
	if e.gen != gen {
		e.mu.Unlock()
		e.log.Debug("stopped stream returned", "url", url, "error", err)
		return
	}
	e.cancel = nil
	var (
		evs   []event
		onEnd func(*ir.Node)
		onErr func(error)
		final *ir.Node
	)
	if err == nil {
		if len(bytes.TrimSpace(e.buf)) > 0 {
			if ev, ok := e.applyLineLocked(e.buf); ok {
				evs = append(evs, ev)
			}
		}
		e.buf = nil
		e.state = Complete
		onEnd = e.opts.OnStreamEnd
		final = e.doc
	} else {
		e.buf = nil
		e.state, e.err = Errored, err
		onErr = e.opts.OnStreamError
	}
	subs, onMsg := e.listenersLocked()
	e.mu.Unlock()

	deliver(evs, subs, onMsg)
	if err != nil {
		e.log.Error("stream failed", "url", url, "error", err)
		if onErr != nil {
			onErr(err)
		}
		return
	}
	e.log.Info("stream complete", "url", url)
	if onEnd != nil {
		onEnd(final)
	}
}

// Stop cancels the current fetch, if any, and returns to Idle. No chunk
// of the cancelled fetch is applied after Stop returns. The document is
// kept. Notifications for chunks applied before Stop may still be
// delivered after it returns, since subscribers run outside the lock.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	e.gen++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
		e.log.Info("stream stopped", "url", e.opts.URL)
	}
	e.state = Idle
	e.buf = nil
}

// Wait blocks until the goroutine of the last started fetch has exited.
func (e *Engine) Wait() {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Dispose stops fetching and drops every subscriber. The engine does not
// fetch again.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	e.disposed = true
	e.subs = map[int]func(*ir.Node){}
}

// UpdateOptions changes the options through fn. Handlers and Initial
// cannot be changed. Fetching restarts when the URL changes or fetching is
// enabled, and stops when it is disabled. Subscribers are notified when a
// selection is set or cleared.
func (e *Engine) UpdateOptions(ctx context.Context, fn func(*Options)) {
	e.mu.Lock()
	old := e.opts
	next := old
	fn(&next)
	next.Handlers, next.Initial = old.Handlers, old.Initial
	if next.Log != nil && next.Log != old.Log {
		e.log = next.Log
	}
	e.opts = next
	var (
		restart = next.Enabled && next.URL != "" && (next.URL != old.URL || !old.Enabled)
		stop    = !next.Enabled && e.state == Streaming
		notify  = next.Select != nil || old.Select != nil
	)
	if restart || stop {
		e.stopLocked()
	}
	doc := e.filteredLocked()
	subs, _ := e.listenersLocked()
	e.mu.Unlock()

	if restart {
		e.StartFetching(ctx)
	}
	if notify {
		deliver([]event{{doc: doc, changed: true}}, subs, nil)
	}
}

// ProcessChunk applies a chunk of stream bytes. Lines may be split
// anywhere across chunks, including inside a multi-byte character.
func (e *Engine) ProcessChunk(chunk []byte) {
	e.process(0, false, chunk)
}

type fetchSink struct {
	e   *Engine
	gen uint64
}

func (s *fetchSink) ProcessChunk(chunk []byte) {
	s.e.process(s.gen, true, chunk)
}

func (e *Engine) process(gen uint64, check bool, chunk []byte) {
	e.mu.Lock()
	if check && e.gen != gen {
		e.mu.Unlock()
		return
	}
	e.buf = append(e.buf, chunk...)
	var evs []event
	for {
		i := bytes.IndexByte(e.buf, '\n')
		if i == -1 {
			break
		}
		line := e.buf[:i]
		if ev, ok := e.applyLineLocked(line); ok {
			evs = append(evs, ev)
		}
		e.buf = e.buf[i+1:]
	}
	if len(e.buf) == 0 {
		e.buf = nil
	}
	subs, onMsg := e.listenersLocked()
	e.mu.Unlock()
	deliver(evs, subs, onMsg)
}

type event struct {
	doc     *ir.Node
	changed bool
}

// applyLineLocked applies one line. ok is false when the line could not
// be parsed.
func (e *Engine) applyLineLocked(line []byte) (ev event, ok bool) {
	msg, err := message.Parse(line)
	if err != nil {
		if len(bytes.TrimSpace(line)) > 0 {
			e.log.Debug("dropping line", "error", err)
		}
		return ev, false
	}
	if debug.Engine() {
		debug.Logf("message %s\n", msg)
	}
	prev := e.doc
	next := e.applyLocked(msg, prev)
	e.doc = next
	if e.opts.Equal != nil {
		ev.changed = !e.opts.Equal(prev, next)
	} else {
		ev.changed = prev != next
	}
	if ev.changed || e.opts.OnMessage != nil {
		ev.doc = e.filteredLocked()
	}
	return ev, true
}

func (e *Engine) applyLocked(msg *message.Message, doc *ir.Node) (res *ir.Node) {
	h := e.reg.Lookup(msg.Type)
	if h == nil {
		e.log.Debug("no handler", "type", msg.Type)
		return doc
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("handler panicked", "type", msg.Type, "key", msg.Key, "panic", fmt.Sprint(r))
			res = doc
		}
	}()
	c := handler.NewCapability(e.store, e.log)
	res, err := h.Handle(msg, doc, c)
	if err != nil {
		if errors.Is(err, handler.ErrBadMessage) {
			e.log.Debug("dropping message", "type", msg.Type, "key", msg.Key, "error", err)
		} else {
			e.log.Warn("handler failed", "type", msg.Type, "key", msg.Key, "error", err)
		}
		return doc
	}
	c.Commit()
	return res
}

func (e *Engine) listenersLocked() ([]func(*ir.Node), func(*ir.Node)) {
	keys := slices.Sorted(maps.Keys(e.subs))
	subs := make([]func(*ir.Node), len(keys))
	for i, k := range keys {
		subs[i] = e.subs[k]
	}
	return subs, e.opts.OnMessage
}

func deliver(evs []event, subs []func(*ir.Node), onMsg func(*ir.Node)) {
	for _, ev := range evs {
		if ev.changed {
			for _, fn := range subs {
				fn(ev.doc)
			}
		}
		if onMsg != nil {
			onMsg(ev.doc)
		}
	}
}
