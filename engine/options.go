package engine

import (
	"log/slog"

	"github.com/signadot/pjson/handler"
	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/transport"
)

type Options struct {
	// URL of the stream. StartFetching does nothing without one.
	URL string
	// Enabled gates fetching.
	Enabled bool
	// Initial is the document before any message arrives.
	Initial *ir.Node
	// Handlers take precedence over the built-in handlers, in order. They
	// are fixed when the engine is created.
	Handlers []handler.Handler

	// OnMessage receives the filtered document after every parsed message.
	OnMessage func(doc *ir.Node)
	// Equal decides whether a new snapshot is a change. When nil, any new
	// root is a change.
	Equal func(prev, next *ir.Node) bool

	OnStreamStart func()
	// OnStreamEnd receives the final unfiltered document.
	OnStreamEnd   func(doc *ir.Node)
	OnStreamError func(err error)

	// Fetcher reads the stream. When nil it is chosen by transport.ForURL.
	Fetcher transport.Fetcher
	// Select derives the value returned by Selected from the filtered
	// snapshot.
	Select func(doc *ir.Node) (*ir.Node, error)

	Log *slog.Logger
}
