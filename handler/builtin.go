package handler

import (
	"fmt"
	"slices"

	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/message"
	"github.com/signadot/pjson/ref"
)

// Builtins returns the handlers for init, value, text, push and concat.
func Builtins() []Handler {
	return []Handler{
		Func{Name: message.InitType, F: handleInit},
		Func{Name: message.ValueType, F: handleValue},
		Func{Name: message.TextType, F: handleText},
		Func{Name: message.PushType, F: handlePush},
		Func{Name: message.ConcatType, F: handleConcat},
	}
}

// handleInit replaces the document and the whole reference store.
func handleInit(msg *message.Message, _ *ir.Node, c Capability) (*ir.Node, error) {
	if msg.Data == nil {
		return nil, fmt.Errorf("%w: init without data", ErrBadMessage)
	}
	return c.Reset(msg.Data), nil
}

func handleValue(msg *message.Message, doc *ir.Node, c Capability) (*ir.Node, error) {
	if msg.Value == nil {
		return nil, fmt.Errorf("%w: value without value", ErrBadMessage)
	}
	return c.Update(doc, msg.Key, func(*ir.Node) (*ir.Node, error) {
		return msg.Value, nil
	})
}

// handleText appends to a string. A placeholder or missing value is
// replaced by the text; values of other types are left alone.
func handleText(msg *message.Message, doc *ir.Node, c Capability) (*ir.Node, error) {
	if msg.Value == nil {
		return nil, fmt.Errorf("%w: text without value", ErrBadMessage)
	}
	text := msg.Value.String
	if msg.Value.Type != ir.StringType {
		d, err := msg.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		text = string(d)
	}
	return c.Update(doc, msg.Key, func(cur *ir.Node) (*ir.Node, error) {
		switch {
		case cur == nil, cur.Type == ir.NullType:
			return ir.FromString(text), nil
		case cur.Type != ir.StringType:
			c.Log().Debug("text on non string value", "key", msg.Key, "type", cur.Type)
			return cur, nil
		case ref.IsPlaceholder(cur.String):
			return ir.FromString(text), nil
		}
		return ir.FromString(cur.String + text), nil
	})
}

func handlePush(msg *message.Message, doc *ir.Node, c Capability) (*ir.Node, error) {
	if msg.Value == nil {
		return nil, fmt.Errorf("%w: push without value", ErrBadMessage)
	}
	return c.Update(doc, msg.Key, func(cur *ir.Node) (*ir.Node, error) {
		return appendTo(cur, msg.Value), nil
	})
}

func handleConcat(msg *message.Message, doc *ir.Node, c Capability) (*ir.Node, error) {
	if msg.Value == nil || msg.Value.Type != ir.ArrayType {
		return nil, fmt.Errorf("%w: concat needs an array value", ErrBadMessage)
	}
	return c.Update(doc, msg.Key, func(cur *ir.Node) (*ir.Node, error) {
		return appendTo(cur, msg.Value.Values...), nil
	})
}

// appendTo appends vs to cur, starting from an empty array when cur is
// not one.
func appendTo(cur *ir.Node, vs ...*ir.Node) *ir.Node {
	if cur == nil || cur.Type != ir.ArrayType {
		return ir.FromSlice(slices.Clone(vs))
	}
	return cur.Append(vs...)
}
