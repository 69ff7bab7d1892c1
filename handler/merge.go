package handler

import (
	"fmt"

	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/message"
)

const MergeType = "merge"

// Merge shallowly merges the object "value" into the object at "key".
// When either is not an object the value at key is replaced.
func Merge() Handler {
	return Func{Name: MergeType, F: handleMerge}
}

func MergeMessage(key string, v *ir.Node) *message.Message {
	return message.New(MergeType, key, v)
}

func handleMerge(msg *message.Message, doc *ir.Node, c Capability) (*ir.Node, error) {
	if msg.Value == nil {
		return nil, fmt.Errorf("%w: merge without value", ErrBadMessage)
	}
	return c.Update(doc, msg.Key, func(cur *ir.Node) (*ir.Node, error) {
		if cur == nil || cur.Type != ir.ObjectType || msg.Value.Type != ir.ObjectType {
			return msg.Value, nil
		}
		res := cur
		for i, f := range msg.Value.Fields {
			res = res.WithField(f, msg.Value.Values[i])
		}
		return res, nil
	})
}
