package message

import "github.com/signadot/pjson/ir"

// New creates a message of any type. A nil value leaves "value" absent.
func New(typ, key string, value *ir.Node) *Message {
	return &Message{Type: typ, Key: key, Value: value}
}

// Init creates the message that replaces the whole document.
func Init(data *ir.Node) *Message {
	if data == nil {
		data = ir.Null()
	}
	return &Message{Type: InitType, Data: data}
}

// Value resolves key to v.
func Value(key string, v *ir.Node) *Message {
	if v == nil {
		v = ir.Null()
	}
	return New(ValueType, key, v)
}

// Text appends s to the string at key.
func Text(key, s string) *Message {
	return New(TextType, key, ir.FromString(s))
}

// Push appends v to the array at key.
func Push(key string, v *ir.Node) *Message {
	if v == nil {
		v = ir.Null()
	}
	return New(PushType, key, v)
}

// Concat appends every element of vs to the array at key.
func Concat(key string, vs ...*ir.Node) *Message {
	if vs == nil {
		vs = []*ir.Node{}
	}
	return New(ConcatType, key, ir.FromSlice(vs))
}
