package encode

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signadot/pjson/format"
	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/ref"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

type EncState struct {
	depth, indent int
	compact       bool

	format format.Format

	Color func(ir.Type, ColorAttr, string) string
}

// Encode writes node followed by a newline. A nil node is written as null.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
	}
	for _, opt := range opts {
		opt(es)
	}
	switch es.format {
	case format.YAMLFormat:
		return encodeYAML(node, w, es)
	case format.JSONFormat, format.NDJSONFormat:
		if es.format == format.NDJSONFormat {
			es.compact = true
		}
		buf := bytes.NewBuffer(nil)
		if err := encodeJSON(node, buf, es); err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err := w.Write(buf.Bytes())
		return err
	}
	return fmt.Errorf("%w: %d", format.ErrBadFormat, es.format)
}

func encodeJSON(node *ir.Node, buf *bytes.Buffer, es *EncState) error {
	if node == nil {
		buf.WriteString(es.color(ir.NullType, ValueColor, "null"))
		return nil
	}
	switch node.Type {
	case ir.NullType:
		buf.WriteString(es.color(ir.NullType, ValueColor, "null"))
	case ir.BoolType:
		buf.WriteString(es.color(ir.BoolType, ValueColor, strconv.FormatBool(node.Bool)))
	case ir.NumberType:
		buf.WriteString(es.color(ir.NumberType, ValueColor, node.NumberText()))
	case ir.StringType:
		q, err := quote(node.String)
		if err != nil {
			return err
		}
		attr := ValueColor
		if ref.IsPlaceholder(node.String) {
			attr = PendingColor
		}
		buf.WriteString(es.color(ir.StringType, attr, q))
	case ir.ArrayType:
		return encodeContainer(node, buf, es, "[", "]")
	case ir.ObjectType:
		return encodeContainer(node, buf, es, "{", "}")
	default:
		return fmt.Errorf("cannot encode %s", node.Type)
	}
	return nil
}

func encodeContainer(node *ir.Node, buf *bytes.Buffer, es *EncState, open, close string) error {
	buf.WriteString(es.color(node.Type, SepColor, open))
	if len(node.Values) == 0 {
		buf.WriteString(es.color(node.Type, SepColor, close))
		return nil
	}
	es.depth++
	for i, v := range node.Values {
		if i > 0 {
			buf.WriteString(es.color(node.Type, SepColor, ","))
		}
		es.newline(buf)
		if node.Type == ir.ObjectType {
			q, err := quote(node.Fields[i])
			if err != nil {
				return err
			}
			buf.WriteString(es.color(ir.ObjectType, FieldColor, q))
			buf.WriteString(es.color(ir.ObjectType, SepColor, ":"))
			if !es.compact {
				buf.WriteByte(' ')
			}
		}
		if err := encodeJSON(v, buf, es); err != nil {
			return err
		}
	}
	es.depth--
	es.newline(buf)
	buf.WriteString(es.color(node.Type, SepColor, close))
	return nil
}

func (es *EncState) newline(buf *bytes.Buffer) {
	if es.compact {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(" ", es.depth*es.indent))
}

func (es *EncState) color(t ir.Type, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(t, a, s)
}

func quote(s string) (string, error) {
	d, err := json.MarshalNoEscape(s)
	if err != nil {
		return "", err
	}
	return string(d), nil
}

func encodeYAML(node *ir.Node, w io.Writer, es *EncState) error {
	d, err := yaml.MarshalWithOptions(yamlValue(node), yaml.Indent(es.indent))
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

// yamlValue converts node keeping object field order.
func yamlValue(node *ir.Node) any {
	if node == nil {
		return nil
	}
	switch node.Type {
	case ir.ObjectType:
		res := make(yaml.MapSlice, len(node.Fields))
		for i, f := range node.Fields {
			res[i] = yaml.MapItem{Key: f, Value: yamlValue(node.Values[i])}
		}
		return res
	case ir.ArrayType:
		res := make([]any, len(node.Values))
		for i, v := range node.Values {
			res[i] = yamlValue(v)
		}
		return res
	case ir.NumberType:
		if node.Int64 == nil && node.Float64 == nil {
			if f, ok := node.Float(); ok {
				return f
			}
			return node.Number
		}
	}
	return node.ToAny()
}
