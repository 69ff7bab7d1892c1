package handler

import (
	"errors"

	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/message"
)

// ErrBadMessage is returned when a message lacks what its type requires,
// such as a missing "value".
var ErrBadMessage = errors.New("bad message")

// Handler applies one message type. Handle returns the new document; doc
// must not be modified. An error drops the message.
type Handler interface {
	Type() string
	Handle(msg *message.Message, doc *ir.Node, c Capability) (*ir.Node, error)
}

// Func adapts a function to a Handler.
type Func struct {
	Name string
	F    func(msg *message.Message, doc *ir.Node, c Capability) (*ir.Node, error)
}

func (f Func) Type() string { return f.Name }

func (f Func) Handle(msg *message.Message, doc *ir.Node, c Capability) (*ir.Node, error) {
	return f.F(msg, doc, c)
}
