package message

import (
	"sync/atomic"

	"github.com/signadot/pjson/ref"
)

// KeyGen hands out placeholder keys "ref$1", "ref$2", ... The zero value
// is ready to use and safe for concurrent use. Use one KeyGen per stream.
type KeyGen struct {
	n atomic.Int64
}

func (g *KeyGen) Next() string {
	return ref.Key(int(g.n.Add(1)))
}

// Reset makes the next key "ref$1" again.
func (g *KeyGen) Reset() {
	g.n.Store(0)
}
