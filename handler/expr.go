package handler

import (
	"fmt"
	"sync"

	"github.com/signadot/pjson/eval"
	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/message"
)

const ExprType = "expr"

// Expr replaces the value at "key" with the result of the expression in
// "value". The expression sees the current value as "value", the message
// as "msg" and the whole document as "doc".
func Expr() Handler {
	return &exprHandler{progs: map[string]*eval.Program{}}
}

type exprHandler struct {
	mu    sync.Mutex
	progs map[string]*eval.Program
}

func (h *exprHandler) Type() string { return ExprType }

func (h *exprHandler) Handle(msg *message.Message, doc *ir.Node, c Capability) (*ir.Node, error) {
	if msg.Value == nil || msg.Value.Type != ir.StringType {
		return nil, fmt.Errorf("%w: expr needs a string value", ErrBadMessage)
	}
	prg, err := h.compile(msg.Value.String)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadMessage, err)
	}
	return c.Update(doc, msg.Key, func(cur *ir.Node) (*ir.Node, error) {
		return prg.Run(doc, eval.Env{
			"value": cur.ToAny(),
			"msg":   msg.Raw.ToAny(),
		})
	})
}

func (h *exprHandler) compile(src string) (*eval.Program, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p, ok := h.progs[src]; ok {
		return p, nil
	}
	p, err := eval.Compile(src)
	if err != nil {
		return nil, err
	}
	h.progs[src] = p
	return p, nil
}
