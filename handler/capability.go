package handler

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/signadot/pjson/debug"
	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/ref"
)

// Capability is what a handler may do to the document and reference
// store during one call. Reference changes are staged and reach the store
// only through Commit, which the engine calls once the handler has
// returned without error.
type Capability struct {
	store  *ref.Store
	staged *staging
	log    *slog.Logger
}

type staging struct {
	reset bool
	paths ref.Paths
}

func NewCapability(store *ref.Store, log *slog.Logger) Capability {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return Capability{store: store, staged: &staging{paths: ref.Paths{}}, log: log}
}

// Update applies f to the value addressed by key and returns the new
// document. The placeholders in the new value are staged. An unknown
// key returns doc unchanged.
func (c Capability) Update(doc *ir.Node, key string, f ir.UpdateFunc) (*ir.Node, error) {
	p, ok := c.Lookup(key)
	if !ok {
		c.log.Debug("unknown reference", "key", key)
		if debug.Handler() {
			debug.Logf("unknown reference %q\n", key)
		}
		return doc, nil
	}
	res, err := doc.Update(p, f)
	if err != nil {
		return nil, fmt.Errorf("update %s at %s: %w", key, p, err)
	}
	sub, err := res.GetPath(p)
	if err != nil {
		return nil, fmt.Errorf("update %s at %s: %w", key, p, err)
	}
	found := ref.Scan(sub, p)
	maps.Copy(c.staged.paths, found)
	if debug.Handler() {
		debug.Logf("updated %s at %s, new refs %v\n", key, p, found)
	}
	return res, nil
}

// Reset replaces the document: on Commit the store is rebuilt from doc
// alone.
func (c Capability) Reset(doc *ir.Node) *ir.Node {
	c.staged.reset = true
	c.staged.paths = ref.Scan(doc, nil)
	if c.staged.paths == nil {
		c.staged.paths = ref.Paths{}
	}
	return doc
}

// Lookup returns the path recorded for key, staged changes included.
func (c Capability) Lookup(key string) (*ir.Path, bool) {
	id := ref.ExtractID(ref.NormalizeKey(key))
	if id == -1 {
		return nil, false
	}
	if p, ok := c.staged.paths[id]; ok {
		return p, true
	}
	if c.staged.reset {
		return nil, false
	}
	return c.store.Path(id)
}

// Commit writes the staged reference changes to the store and clears
// them.
func (c Capability) Commit() {
	if c.staged.reset {
		c.store.Reset(c.staged.paths)
	} else {
		c.store.Merge(c.staged.paths)
	}
	c.staged.reset = false
	c.staged.paths = ref.Paths{}
}

func (c Capability) NormalizeKey(key string) string {
	return ref.NormalizeKey(key)
}

func (c Capability) Log() *slog.Logger {
	return c.log
}
