package handler

import (
	"fmt"

	"github.com/signadot/pjson/debug"
	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/message"

	jsonpatch "github.com/evanphx/json-patch"
)

const JSONPatchType = "json-patch"

// JSONPatch applies the RFC 6902 operations in "value" to the value at
// "key". Pointers in the operations are relative to that value.
func JSONPatch() Handler {
	return Func{Name: JSONPatchType, F: handleJSONPatch}
}

func handleJSONPatch(msg *message.Message, doc *ir.Node, c Capability) (*ir.Node, error) {
	if msg.Value == nil || msg.Value.Type != ir.ArrayType {
		return nil, fmt.Errorf("%w: json-patch needs an array of operations", ErrBadMessage)
	}
	d, err := msg.Value.MarshalJSON()
	if err != nil {
		return nil, err
	}
	ops, err := jsonpatch.DecodePatch(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadMessage, err)
	}
	return c.Update(doc, msg.Key, func(cur *ir.Node) (*ir.Node, error) {
		if debug.Handler() {
			debug.Logf("json-patch %s on %v\n", msg.Value, cur)
		}
		in, err := cur.MarshalJSON()
		if err != nil {
			return nil, err
		}
		out, err := ops.Apply(in)
		if err != nil {
			return nil, fmt.Errorf("json-patch: %w", err)
		}
		return ir.FromJSON(out)
	})
}
