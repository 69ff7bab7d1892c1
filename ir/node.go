package ir

import (
	"maps"
	"slices"
	"strconv"
)

// Node is a document value.
//
// Nodes are treated as immutable once they are reachable from a published
// document: every modification goes through the With* methods or Update,
// which copy the nodes they change and share everything else.
type Node struct {
	Type Type

	// Fields and Values are parallel for ObjectType. For ArrayType only
	// Values is used.
	Fields []string
	Values []*Node

	String string
	Bool   bool

	// Number holds the decimal text of a number which fits neither Int64
	// nor Float64. Int64 is preferred over Float64 when both apply.
	Number  string
	Float64 *float64
	Int64   *int64
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:  NumberType,
		Int64: &v,
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Float64: &f,
	}
}

// FromNumber creates a number node from its decimal text.
func FromNumber(text string) *Node {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return FromInt(i)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return FromFloat(f)
	}
	return &Node{Type: NumberType, Number: text}
}

func FromSlice(vs []*Node) *Node {
	return &Node{Type: ArrayType, Values: vs}
}

// FromFields creates an object node. fields and values must have the same
// length.
func FromFields(fields []string, values []*Node) *Node {
	return &Node{Type: ObjectType, Fields: fields, Values: values}
}

// FromMap creates an object node with fields in sorted order.
func FromMap(m map[string]*Node) *Node {
	keys := slices.Sorted(maps.Keys(m))
	res := &Node{
		Type:   ObjectType,
		Fields: keys,
		Values: make([]*Node, len(keys)),
	}
	for i, k := range keys {
		res.Values[i] = m[k]
	}
	return res
}

// Len returns the number of elements of an array or members of an object.
func (y *Node) Len() int {
	if y == nil {
		return 0
	}
	return len(y.Values)
}

// FieldIndex returns the position of field in an object node, or -1.
func (y *Node) FieldIndex(field string) int {
	if y == nil || y.Type != ObjectType {
		return -1
	}
	return slices.Index(y.Fields, field)
}

// Get returns the value of field in an object node.
func (y *Node) Get(field string) (*Node, bool) {
	i := y.FieldIndex(field)
	if i == -1 {
		return nil, false
	}
	return y.Values[i], true
}

// WithField returns a copy of the object node y with field set to v. The
// receiver is unchanged.
func (y *Node) WithField(field string, v *Node) *Node {
	res := y.shallow()
	i := slices.Index(res.Fields, field)
	if i == -1 {
		res.Fields = append(res.Fields, field)
		res.Values = append(res.Values, v)
		return res
	}
	res.Values[i] = v
	return res
}

// WithIndex returns a copy of the array node y with element i set to v.
func (y *Node) WithIndex(i int, v *Node) *Node {
	res := y.shallow()
	res.Values[i] = v
	return res
}

// Append returns a copy of the array node y with vs appended.
func (y *Node) Append(vs ...*Node) *Node {
	res := y.shallow()
	res.Values = append(res.Values, vs...)
	return res
}

// shallow copies the node and its slices but not the children.
func (y *Node) shallow() *Node {
	res := *y
	res.Fields = slices.Clone(y.Fields)
	res.Values = slices.Clone(y.Values)
	return &res
}

// Clone returns a deep copy of y.
func (y *Node) Clone() *Node {
	if y == nil {
		return nil
	}
	res := y.shallow()
	for i, v := range res.Values {
		res.Values[i] = v.Clone()
	}
	if y.Int64 != nil {
		i := *y.Int64
		res.Int64 = &i
	}
	if y.Float64 != nil {
		f := *y.Float64
		res.Float64 = &f
	}
	return res
}

// NumberText returns the decimal text of a number node.
func (y *Node) NumberText() string {
	switch {
	case y.Int64 != nil:
		return strconv.FormatInt(*y.Int64, 10)
	case y.Float64 != nil:
		return strconv.FormatFloat(*y.Float64, 'g', -1, 64)
	default:
		return y.Number
	}
}

// Float returns the value of a number node as a float64.
func (y *Node) Float() (float64, bool) {
	if y == nil || y.Type != NumberType {
		return 0, false
	}
	switch {
	case y.Int64 != nil:
		return float64(*y.Int64), true
	case y.Float64 != nil:
		return *y.Float64, true
	}
	f, err := strconv.ParseFloat(y.Number, 64)
	return f, err == nil
}
