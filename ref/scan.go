package ref

import "github.com/signadot/pjson/ir"

// Paths maps placeholder ids to the location of their occurrence.
type Paths map[int]*ir.Path

// Scan walks node depth first and returns the path, relative to the
// document root, of every placeholder it contains. at is the path of node
// itself. When an id occurs more than once the last occurrence wins.
func Scan(node *ir.Node, at *ir.Path) Paths {
	res := Paths{}
	scan(node, nil, func(id int, rel []pathSeg) {
		res[id] = at.Join(build(rel))
	})
	return res
}

type pathSeg struct {
	field *string
	index int
}

func scan(node *ir.Node, stack []pathSeg, found func(int, []pathSeg)) {
	if node == nil {
		return
	}
	switch node.Type {
	case ir.StringType:
		if id := ExtractID(node.String); id != -1 {
			found(id, stack)
		}
	case ir.ArrayType:
		for i, v := range node.Values {
			scan(v, append(stack, pathSeg{index: i}), found)
		}
	case ir.ObjectType:
		for i, v := range node.Values {
			scan(v, append(stack, pathSeg{field: &node.Fields[i]}), found)
		}
	}
}

func build(segs []pathSeg) *ir.Path {
	var res *ir.Path
	for i := len(segs) - 1; i >= 0; i-- {
		var p *ir.Path
		if segs[i].field != nil {
			p = ir.FieldPath(*segs[i].field)
		} else {
			p = ir.IndexPath(segs[i].index)
		}
		p.Next = res
		res = p
	}
	return res
}
