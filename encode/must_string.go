package encode

import (
	"bytes"
	"fmt"

	"github.com/signadot/pjson/ir"
)

// MustString renders node, falling back to fmt formatting on error.
func MustString(node *ir.Node, opts ...EncodeOption) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf, opts...); err != nil {
		return fmt.Sprintf("%v", node)
	}
	return buf.String()
}
