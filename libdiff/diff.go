package libdiff

import (
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/pjson/ir"
)

type Op int

const (
	Insert Op = iota
	Delete
	Replace
)

func (o Op) String() string {
	switch o {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Replace:
		return "replace"
	}
	return "<unknown op>"
}

// Change is one difference. From is nil for Insert, To is nil for Delete.
type Change struct {
	Path     *ir.Path
	Op       Op
	From, To *ir.Node
	// Text holds the character edits when a string was replaced by another
	// string.
	Text []diffpatch.Diff
}

// Diff returns the changes turning from into to, in document order.
func Diff(from, to *ir.Node) []Change {
	var res []Change
	diff(nil, from, to, &res)
	return res
}

func diff(at *ir.Path, from, to *ir.Node, res *[]Change) {
	switch {
	case from == to:
		return
	case from == nil:
		*res = append(*res, Change{Path: at, Op: Insert, To: to})
		return
	case to == nil:
		*res = append(*res, Change{Path: at, Op: Delete, From: from})
		return
	case from.Type != to.Type:
		*res = append(*res, Change{Path: at, Op: Replace, From: from, To: to})
		return
	}
	switch from.Type {
	case ir.ObjectType:
		diffObject(at, from, to, res)
	case ir.ArrayType:
		diffArray(at, from, to, res)
	case ir.StringType:
		if from.String != to.String {
			*res = append(*res, Change{Path: at, Op: Replace, From: from, To: to, Text: textEdits(from.String, to.String)})
		}
	default:
		if !ir.Equal(from, to) {
			*res = append(*res, Change{Path: at, Op: Replace, From: from, To: to})
		}
	}
}

func diffObject(at *ir.Path, from, to *ir.Node, res *[]Change) {
	for i, f := range from.Fields {
		tv, _ := to.Get(f)
		diff(at.AppendField(f), from.Values[i], tv, res)
	}
	for i, f := range to.Fields {
		if from.FieldIndex(f) == -1 {
			*res = append(*res, Change{Path: at.AppendField(f), Op: Insert, To: to.Values[i]})
		}
	}
}

// textEdits returns nil when the strings share nothing.
func textEdits(from, to string) []diffpatch.Diff {
	diffs := DiffString(from, to)
	for _, d := range diffs {
		if d.Type == diffpatch.DiffEqual {
			return diffs
		}
	}
	return nil
}

// DiffString returns character edits, cleaned up for readability.
func DiffString(from, to string) []diffpatch.Diff {
	dmp := diffpatch.New()
	diffs := dmp.DiffMain(from, to, false)
	return dmp.DiffCleanupSemantic(diffs)
}
