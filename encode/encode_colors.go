package encode

import (
	"github.com/signadot/pjson/ir"

	"github.com/fatih/color"
)

type Colorable struct {
	Type ir.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	FieldColor ColorAttr = iota
	ValueColor
	SepColor
	PendingColor
)

// Colors maps a value type and role to a formatting function. Roles
// without an entry are written as is.
type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

type paint struct {
	able    Colorable
	r, g, b int
}

var palette = []paint{
	{Colorable{ir.NullType, ValueColor}, 168, 0, 196},
	{Colorable{ir.BoolType, ValueColor}, 0, 190, 190},
	{Colorable{ir.NumberType, ValueColor}, 128, 216, 236},
	{Colorable{ir.StringType, ValueColor}, 8, 196, 16},
	// unresolved references are dimmed
	{Colorable{ir.StringType, PendingColor}, 96, 96, 96},
	{Colorable{ir.ObjectType, FieldColor}, 128, 168, 196},
	{Colorable{ir.ObjectType, SepColor}, 196, 128, 128},
	{Colorable{ir.ArrayType, SepColor}, 255, 0, 196},
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     make(map[Colorable]func(string, ...any) string, len(palette)),
	}
	for _, p := range palette {
		f := color.RGB(p.r, p.g, p.b).SprintFunc()
		colors.Map[p.able] = func(v string, _ ...any) string { return f(v) }
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t ir.Type, a ColorAttr, s string) string {
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t ir.Type, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
