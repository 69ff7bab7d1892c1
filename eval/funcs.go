package eval

import (
	"os"

	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/ref"

	"github.com/expr-lang/expr"
)

func exprOpts() []expr.Option {
	return []expr.Option{
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		},
			new(func(string) string)),
		expr.Function("isref", func(params ...any) (any, error) {
			s, ok := params[0].(string)
			return ok && ref.IsPlaceholder(s), nil
		},
			new(func(any) bool)),
	}
}

// docEnv binds the document and the functions which read it.
func docEnv(doc *ir.Node) Env {
	return Env{
		"doc": doc.ToAny(),
		"getpath": func(path string) (any, error) {
			res, err := lookup(doc, path)
			if err != nil || res == nil {
				return nil, err
			}
			return res.ToAny(), nil
		},
		"haspath": func(path string) (bool, error) {
			res, err := lookup(doc, path)
			return res != nil, err
		},
	}
}

// lookup returns nil without error when path is well formed but
// addresses nothing.
func lookup(doc *ir.Node, path string) (*ir.Node, error) {
	p, err := ir.ParsePath(path)
	if err != nil {
		return nil, err
	}
	res, err := doc.GetPath(p)
	if err != nil {
		return nil, nil
	}
	return res, nil
}
