package libdiff

import (
	"strconv"

	"github.com/signadot/pjson/ir"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// diffArray aligns the elements of from and to by
//
//  1. summarizing each element as a rune: containers and null by type,
//     scalars by type and value
//  2. diffing the two rune sequences
//  3. recursing into aligned elements, pairing a deletion directly
//     followed by an insertion element by element
//
// Paths of deleted elements index from, all other paths index to.
func diffArray(at *ir.Path, from, to *ir.Node, res *[]Change) {
	m := map[string]rune{}
	fromRunes := mapValues(m, from)
	toRunes := mapValues(m, to)
	diffs := diffpatch.New().DiffMainRunes(fromRunes, toRunes, false)

	fi, ti := 0, 0
	for i := 0; i < len(diffs); i++ {
		d := &diffs[i]
		n := len([]rune(d.Text))
		switch d.Type {
		case diffpatch.DiffEqual:
			for range n {
				diff(at.AppendIndex(ti), from.Values[fi], to.Values[ti], res)
				fi++
				ti++
			}
		case diffpatch.DiffDelete:
			ins := 0
			if i+1 < len(diffs) && diffs[i+1].Type == diffpatch.DiffInsert {
				ins = len([]rune(diffs[i+1].Text))
				i++
			}
			paired := min(n, ins)
			for range paired {
				diff(at.AppendIndex(ti), from.Values[fi], to.Values[ti], res)
				fi++
				ti++
			}
			for range n - paired {
				*res = append(*res, Change{Path: at.AppendIndex(fi), Op: Delete, From: from.Values[fi]})
				fi++
			}
			for range ins - paired {
				*res = append(*res, Change{Path: at.AppendIndex(ti), Op: Insert, To: to.Values[ti]})
				ti++
			}
		case diffpatch.DiffInsert:
			for range n {
				*res = append(*res, Change{Path: at.AppendIndex(ti), Op: Insert, To: to.Values[ti]})
				ti++
			}
		}
	}
}

func mapValues(m map[string]rune, node *ir.Node) []rune {
	rs := make([]rune, len(node.Values))
	for i, v := range node.Values {
		sum := summaryStr(v)
		r, ok := m[sum]
		if !ok {
			// skip the surrogate range, which does not survive the
			// string conversion inside the diff
			r = rune(len(m))
			if r >= 0xD800 {
				r += 0x800
			}
			m[sum] = r
		}
		rs[i] = r
	}
	return rs
}

func summaryStr(node *ir.Node) string {
	if node == nil {
		return "nil"
	}
	switch node.Type {
	case ir.BoolType:
		return node.Type.String() + "-" + strconv.FormatBool(node.Bool)
	case ir.StringType:
		return node.Type.String() + "-" + node.String
	case ir.NumberType:
		return node.Type.String() + "-" + node.NumberText()
	default:
		return node.Type.String()
	}
}
