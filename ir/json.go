package ir

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// FromJSON decodes a single JSON value. Numbers keep their decimal text
// until converted by FromNumber.
func FromJSON(d []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrParse)
	}
	return FromAny(v)
}

// FromAny converts the result of a generic JSON or YAML decode.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return x, nil
	case bool:
		return FromBool(x), nil
	case string:
		return FromString(x), nil
	case json.Number:
		return FromNumber(string(x)), nil
	case float64:
		return FromFloat(x), nil
	case float32:
		return FromFloat(float64(x)), nil
	case int:
		return FromInt(int64(x)), nil
	case int8:
		return FromInt(int64(x)), nil
	case int16:
		return FromInt(int64(x)), nil
	case int32:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint:
		return FromNumber(fmt.Sprint(x)), nil
	case uint8:
		return FromInt(int64(x)), nil
	case uint16:
		return FromInt(int64(x)), nil
	case uint32:
		return FromInt(int64(x)), nil
	case uint64:
		return FromNumber(fmt.Sprint(x)), nil
	case []any:
		res := &Node{Type: ArrayType, Values: make([]*Node, len(x))}
		for i, e := range x {
			n, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			res.Values[i] = n
		}
		return res, nil
	case map[string]any:
		m := make(map[string]*Node, len(x))
		for k, e := range x {
			n, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			m[k] = n
		}
		return FromMap(m), nil
	case map[any]any:
		m := make(map[string]*Node, len(x))
		for k, e := range x {
			n, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			m[fmt.Sprint(k)] = n
		}
		return FromMap(m), nil
	}
	return nil, fmt.Errorf("%w: unsupported value of type %T", ErrParse, v)
}

// ToAny converts y to plain Go values: map[string]any, []any, string,
// bool, int, float64 or nil.
func (y *Node) ToAny() any {
	if y == nil {
		return nil
	}
	switch y.Type {
	case ObjectType:
		res := make(map[string]any, len(y.Fields))
		for i, f := range y.Fields {
			res[f] = y.Values[i].ToAny()
		}
		return res
	case ArrayType:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			res[i] = v.ToAny()
		}
		return res
	case StringType:
		return y.String
	case BoolType:
		return y.Bool
	case NumberType:
		switch {
		case y.Int64 != nil:
			return int(*y.Int64)
		case y.Float64 != nil:
			return *y.Float64
		}
		return json.Number(y.Number)
	}
	return nil
}

func (y *Node) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := y.writeJSON(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (y *Node) UnmarshalJSON(d []byte) error {
	n, err := FromJSON(d)
	if err != nil {
		return err
	}
	*y = *n
	return nil
}

func (y *Node) writeJSON(buf *bytes.Buffer) error {
	if y == nil {
		buf.WriteString("null")
		return nil
	}
	switch y.Type {
	case NullType:
		buf.WriteString("null")
	case BoolType:
		if y.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case NumberType:
		buf.WriteString(y.NumberText())
	case StringType:
		return writeJSONString(buf, y.String)
	case ArrayType:
		buf.WriteByte('[')
		for i, v := range y.Values {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := v.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case ObjectType:
		buf.WriteByte('{')
		for i, f := range y.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, f); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := y.Values[i].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode %s as JSON", y.Type)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	d, err := json.MarshalNoEscape(s)
	if err != nil {
		return err
	}
	buf.Write(d)
	return nil
}
