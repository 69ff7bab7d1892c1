package message

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/ref"
)

const (
	InitType   = "init"
	ValueType  = "value"
	TextType   = "text"
	PushType   = "push"
	ConcatType = "concat"
)

var ErrMalformed = errors.New("malformed message")

// Message is one decoded line. Value and Data are nil when the member is
// absent, and a null node when it is present and null.
type Message struct {
	Type  string
	Key   string
	Value *ir.Node
	Data  *ir.Node

	// Raw is the whole line as decoded, including members not listed
	// above.
	Raw *ir.Node
}

// Parse decodes one line. Keys given as numbers are normalized to
// placeholders, so {"key": 3} addresses "ref$3".
func Parse(line []byte) (*Message, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, fmt.Errorf("%w: empty line", ErrMalformed)
	}
	raw, err := ir.FromJSON(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if raw.Type != ir.ObjectType {
		return nil, fmt.Errorf("%w: expected object, got %s", ErrMalformed, raw.Type)
	}
	msg := &Message{Raw: raw}
	t, ok := raw.Get("type")
	if !ok || t.Type != ir.StringType {
		return nil, fmt.Errorf("%w: missing string \"type\"", ErrMalformed)
	}
	msg.Type = t.String
	if k, ok := raw.Get("key"); ok {
		switch k.Type {
		case ir.StringType:
			msg.Key = k.String
		case ir.NumberType:
			if k.Int64 == nil || *k.Int64 < 0 {
				return nil, fmt.Errorf("%w: numeric key %s", ErrMalformed, k.NumberText())
			}
			msg.Key = ref.Key(int(*k.Int64))
		case ir.NullType:
		default:
			return nil, fmt.Errorf("%w: key of type %s", ErrMalformed, k.Type)
		}
	}
	msg.Value, _ = raw.Get("value")
	msg.Data, _ = raw.Get("data")
	return msg, nil
}

// Node returns the message as a document. Members of Raw which are not
// overridden by the other fields are kept.
func (m *Message) Node() *ir.Node {
	res := m.Raw
	if res == nil {
		res = ir.FromFields(nil, nil)
	}
	res = res.WithField("type", ir.FromString(m.Type))
	if m.Key != "" {
		res = res.WithField("key", ir.FromString(m.Key))
	}
	if m.Value != nil {
		res = res.WithField("value", m.Value)
	}
	if m.Data != nil {
		res = res.WithField("data", m.Data)
	}
	return res
}

// MarshalJSON encodes the message as a single line without trailing
// newline.
func (m *Message) MarshalJSON() ([]byte, error) {
	return m.Node().MarshalJSON()
}

func (m *Message) String() string {
	d, err := m.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%s %s: %v>", m.Type, m.Key, err)
	}
	return string(d)
}
