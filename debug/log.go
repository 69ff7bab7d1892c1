package debug

import (
	"fmt"
	"os"
	"strings"

	"github.com/signadot/pjson/encode"
	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/ref"

	json "github.com/goccy/go-json"
)

// Logf prints to stderr. Documents, paths and plain Go values among args
// are rendered as compact JSON.
func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch x := a.(type) {
		case map[string]any, []any, ref.Paths:
			d, err := json.Marshal(a)
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case *ir.Node:
			args[i] = strings.TrimSuffix(encode.MustString(x, encode.Compact(true)), "\n")
		case *ir.Path:
			args[i] = x.String()
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
