package handler

import (
	"fmt"
	"math"

	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/message"
)

const IncrementType = "increment"

// Increment adds "value" (default 1) to the number at "key". A value which
// is not a number is replaced by the amount.
func Increment() Handler {
	return Func{Name: IncrementType, F: handleIncrement}
}

// IncrementMessage creates an increment message; without amount the
// receiver adds 1.
func IncrementMessage(key string, amount ...float64) *message.Message {
	var v *ir.Node
	if len(amount) > 0 {
		v = number(amount[0])
	}
	return message.New(IncrementType, key, v)
}

func handleIncrement(msg *message.Message, doc *ir.Node, c Capability) (*ir.Node, error) {
	amount := ir.FromInt(1)
	if msg.Value != nil && msg.Value.Type != ir.NullType {
		if msg.Value.Type != ir.NumberType {
			return nil, fmt.Errorf("%w: increment by %s", ErrBadMessage, msg.Value.Type)
		}
		amount = msg.Value
	}
	return c.Update(doc, msg.Key, func(cur *ir.Node) (*ir.Node, error) {
		if cur == nil || cur.Type != ir.NumberType {
			return amount, nil
		}
		return add(cur, amount), nil
	})
}

func add(a, b *ir.Node) *ir.Node {
	if a.Int64 != nil && b.Int64 != nil {
		x, y := *a.Int64, *b.Int64
		s := x + y
		// no overflow
		if (s > x) == (y > 0) {
			return ir.FromInt(s)
		}
	}
	fa, _ := a.Float()
	fb, _ := b.Float()
	return number(fa + fb)
}

// number prefers an integer node when f is integral.
func number(f float64) *ir.Node {
	if f >= -1<<53 && f <= 1<<53 && f == math.Trunc(f) {
		return ir.FromInt(int64(f))
	}
	return ir.FromFloat(f)
}
