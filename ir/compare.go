package ir

import (
	"cmp"
	"slices"
	"strings"
)

// Compare returns an integer comparing two nodes.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
// Objects compare by their sorted members, so field order is irrelevant.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	rankA := rank(a.Type)
	rankB := rank(b.Type)
	if rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}

	switch a.Type {
	case NumberType:
		return compareNumbers(a, b)
	case StringType:
		return strings.Compare(a.String, b.String)
	case BoolType:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case ArrayType:
		return compareArrays(a, b)
	case ObjectType:
		return compareObjects(a, b)
	}
	return 0
}

// Equal reports whether a and b hold the same value.
func Equal(a, b *Node) bool {
	return Compare(a, b) == 0
}

// rank returns the sorting rank of a type.
// Order: Null < Bool < Number < String < Array < Object
func rank(t Type) int {
	switch t {
	case NullType:
		return 1
	case BoolType:
		return 2
	case NumberType:
		return 3
	case StringType:
		return 4
	case ArrayType:
		return 5
	case ObjectType:
		return 6
	}
	return 100
}

func compareNumbers(a, b *Node) int {
	if a.Int64 != nil && b.Int64 != nil {
		return cmp.Compare(*a.Int64, *b.Int64)
	}
	fa, okA := a.Float()
	fb, okB := b.Float()
	if okA && okB {
		return cmp.Compare(fa, fb)
	}
	return strings.Compare(a.NumberText(), b.NumberText())
}

func compareArrays(a, b *Node) int {
	for i := range min(len(a.Values), len(b.Values)) {
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a.Values), len(b.Values))
}

func compareObjects(a, b *Node) int {
	ka := sortedFields(a)
	kb := sortedFields(b)
	for i := range min(len(ka), len(kb)) {
		if c := strings.Compare(a.Fields[ka[i]], b.Fields[kb[i]]); c != 0 {
			return c
		}
		if c := Compare(a.Values[ka[i]], b.Values[kb[i]]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ka), len(kb))
}

// sortedFields returns the member positions of y ordered by field name.
func sortedFields(y *Node) []int {
	res := make([]int, len(y.Fields))
	for i := range res {
		res[i] = i
	}
	slices.SortFunc(res, func(i, j int) int {
		return strings.Compare(y.Fields[i], y.Fields[j])
	})
	return res
}
