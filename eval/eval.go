package eval

import (
	"fmt"
	"maps"

	"github.com/signadot/pjson/debug"
	"github.com/signadot/pjson/ir"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env holds the variables visible to a program.
type Env map[string]any

type Program struct {
	src string
	prg *vm.Program
}

func Compile(src string) (*Program, error) {
	prg, err := expr.Compile(src, exprOpts()...)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}
	return &Program{src: src, prg: prg}, nil
}

func (p *Program) String() string {
	return p.src
}

// Run evaluates p with doc bound as described in the package
// documentation. Variables in env take precedence over "doc".
func (p *Program) Run(doc *ir.Node, env Env) (*ir.Node, error) {
	full := docEnv(doc)
	maps.Copy(full, env)
	res, err := expr.Run(p.prg, full)
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", p.src, err)
	}
	if debug.Handler() {
		debug.Logf("eval %q -> %v\n", p.src, res)
	}
	return FromAny(res)
}

// Select returns a function running p against a document, as used for
// snapshot selection.
func (p *Program) Select() func(*ir.Node) (*ir.Node, error) {
	return func(doc *ir.Node) (*ir.Node, error) {
		return p.Run(doc, nil)
	}
}

// FromAny converts a program result to a document.
func FromAny(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case *ir.Node:
		if x == nil {
			return ir.Null(), nil
		}
		return x, nil
	case []*ir.Node:
		return ir.FromSlice(x), nil
	case map[string]*ir.Node:
		return ir.FromMap(x), nil
	}
	return ir.FromAny(v)
}
