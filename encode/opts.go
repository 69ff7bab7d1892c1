package encode

import "github.com/signadot/pjson/format"

type EncodeOption func(*EncState)

func EncodeFormat(f format.Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

// FormatFromOpts extracts the format from encode options.
func FormatFromOpts(opts ...EncodeOption) format.Format {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	return es.format
}

func Indent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

// Compact writes JSON on a single line. It has no effect on YAML.
func Compact(v bool) EncodeOption {
	return func(es *EncState) { es.compact = v }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) {
		if c == nil {
			es.Color = nil
			return
		}
		es.Color = c.Color
	}
}
