package handler

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Registry maps message types to handlers. When several handlers share a
// type the one listed first is used.
type Registry struct {
	hs []Handler
}

func NewRegistry(hs ...Handler) *Registry {
	return &Registry{hs: slices.Clone(hs)}
}

// Lookup returns the handler for typ, or nil.
func (r *Registry) Lookup(typ string) Handler {
	for _, h := range r.hs {
		if h.Type() == typ {
			return h
		}
	}
	return nil
}

// Types lists the handled types in lookup order, without repeats.
func (r *Registry) Types() []string {
	res := make([]string, 0, len(r.hs))
	for _, h := range r.hs {
		if !slices.Contains(res, h.Type()) {
			res = append(res, h.Type())
		}
	}
	return res
}

var (
	mu sync.RWMutex
	d  = map[string]Handler{}
)

var ErrHandlerExists = errors.New("handler exists")

// Register makes an extension handler available by its type through
// Lookup.
func Register(h Handler) error {
	mu.Lock()
	defer mu.Unlock()
	_, present := d[h.Type()]
	if present {
		return fmt.Errorf("%s: %w", h.Type(), ErrHandlerExists)
	}
	d[h.Type()] = h
	return nil
}

func init() {
	Register(Increment())
	Register(Merge())
	Register(JSONPatch())
	Register(Expr())
}

// Lookup returns the registered extension handler for typ, or nil.
func Lookup(typ string) Handler {
	mu.RLock()
	defer mu.RUnlock()
	return d[typ]
}

// Extensions lists the registered extension types in sorted order.
func Extensions() []string {
	mu.RLock()
	defer mu.RUnlock()
	res := make([]string, 0, len(d))
	for t := range d {
		res = append(res, t)
	}
	slices.Sort(res)
	return res
}
