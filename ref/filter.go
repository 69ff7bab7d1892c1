package ref

import "github.com/signadot/pjson/ir"

// Filter returns node with every unresolved reference removed: placeholder
// strings and reference objects ({"type": "ref", "key": "ref$<n>"}).
// Object members holding one are dropped, array elements holding one
// become null so that indices stay stable. Filter returns nil when node
// itself is unresolved.
//
// Subtrees without references are returned as is, and Filter of a
// filtered document returns the same document.
func Filter(node *ir.Node) *ir.Node {
	res, ok := filter(node)
	if !ok {
		return nil
	}
	return res
}

func filter(node *ir.Node) (*ir.Node, bool) {
	if node == nil {
		return nil, false
	}
	switch node.Type {
	case ir.StringType:
		if IsPlaceholder(node.String) {
			return nil, false
		}
	case ir.ArrayType:
		var values []*ir.Node
		for i, v := range node.Values {
			fv, ok := filter(v)
			if !ok {
				fv = ir.Null()
			}
			if fv != v && values == nil {
				values = make([]*ir.Node, i, len(node.Values))
				copy(values, node.Values[:i])
			}
			if values != nil {
				values = append(values, fv)
			}
		}
		if values != nil {
			return ir.FromSlice(values), true
		}
	case ir.ObjectType:
		if isRefObject(node) {
			return nil, false
		}
		var (
			fields  []string
			values  []*ir.Node
			changed bool
		)
		for i, v := range node.Values {
			fv, ok := filter(v)
			if (!ok || fv != v) && !changed {
				changed = true
				fields = make([]string, i, len(node.Fields))
				copy(fields, node.Fields[:i])
				values = make([]*ir.Node, i, len(node.Values))
				copy(values, node.Values[:i])
			}
			if !changed {
				continue
			}
			if ok {
				fields = append(fields, node.Fields[i])
				values = append(values, fv)
			}
		}
		if changed {
			return ir.FromFields(fields, values), true
		}
	}
	return node, true
}

func isRefObject(node *ir.Node) bool {
	t, ok := node.Get("type")
	if !ok || t.Type != ir.StringType || t.String != "ref" {
		return false
	}
	k, ok := node.Get("key")
	return ok && k.Type == ir.StringType && IsPlaceholder(k.String)
}
