package handler

import (
	"errors"
	"testing"

	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/message"
	"github.com/signadot/pjson/ref"
)

func mustJSON(t *testing.T, s string) *ir.Node {
	t.Helper()
	n, err := ir.FromJSON([]byte(s))
	if err != nil {
		t.Fatalf("%s: %v", s, err)
	}
	return n
}

func jsonString(t *testing.T, n *ir.Node) string {
	t.Helper()
	d, err := n.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	return string(d)
}

// applier applies message lines the way the engine does.
type applier struct {
	t     *testing.T
	reg   *Registry
	store *ref.Store
	doc   *ir.Node
}

func newApplier(t *testing.T, doc string, extra ...Handler) *applier {
	a := &applier{
		t:     t,
		reg:   NewRegistry(append(extra, Builtins()...)...),
		store: ref.NewStore(),
	}
	if doc != "" {
		a.doc = mustJSON(t, doc)
		a.store.Reset(ref.Scan(a.doc, nil))
	}
	return a
}

func (a *applier) apply(line string) error {
	a.t.Helper()
	msg, err := message.Parse([]byte(line))
	if err != nil {
		a.t.Fatalf("%s: %v", line, err)
	}
	h := a.reg.Lookup(msg.Type)
	if h == nil {
		return errors.New("no handler")
	}
	c := NewCapability(a.store, nil)
	res, err := h.Handle(msg, a.doc, c)
	if err != nil {
		return err
	}
	c.Commit()
	a.doc = res
	return nil
}

func (a *applier) must(lines ...string) {
	a.t.Helper()
	for _, l := range lines {
		if err := a.apply(l); err != nil {
			a.t.Fatalf("%s: %v", l, err)
		}
	}
}

func (a *applier) expect(want string) {
	a.t.Helper()
	if got := jsonString(a.t, a.doc); got != want {
		a.t.Errorf("got %s\nwant %s", got, want)
	}
}

func TestInit(t *testing.T) {
	a := newApplier(t, `{"old": "ref$9"}`)
	a.must(`{"type":"init","data":{"user":"ref$1","posts":"ref$2"}}`)
	a.expect(`{"user":"ref$1","posts":"ref$2"}`)
	if _, ok := a.store.Lookup("ref$9"); ok {
		t.Error("init should replace the store")
	}
	if p, ok := a.store.Lookup("ref$2"); !ok || p.String() != "$.posts" {
		t.Errorf("ref$2 at %v", p)
	}
	if err := a.apply(`{"type":"init"}`); !errors.Is(err, ErrBadMessage) {
		t.Errorf("init without data: %v", err)
	}
}

func TestValueNested(t *testing.T) {
	a := newApplier(t, `{"user": "ref$1"}`)
	if _, ok := a.store.Lookup("ref$2"); ok {
		t.Fatal("ref$2 known before it appears")
	}
	a.must(`{"type":"value","key":"ref$1","value":{"name":"ref$2","age":30}}`)
	if _, ok := a.store.Lookup("ref$2"); !ok {
		t.Fatal("ref$2 not recorded after its value arrived")
	}
	a.must(`{"type":"value","key":"ref$2","value":"Ada"}`)
	a.expect(`{"user":{"name":"Ada","age":30}}`)
	if p, _ := a.store.Lookup("ref$2"); p.String() != "$.user.name" {
		t.Errorf("ref$2 at %s", p)
	}
	if err := a.apply(`{"type":"value","key":"ref$1"}`); !errors.Is(err, ErrBadMessage) {
		t.Errorf("missing value: %v", err)
	}
}

func TestValueUnknownKey(t *testing.T) {
	a := newApplier(t, `{"a": "ref$1"}`)
	before := a.doc
	a.must(`{"type":"value","key":"ref$99","value":1}`)
	if a.doc != before {
		t.Error("unknown key changed the document")
	}
}

func TestValueShortKeys(t *testing.T) {
	a := newApplier(t, `{"a": "ref$1", "b": "ref$2", "c": "ref$3"}`)
	a.must(
		`{"type":"value","key":1,"value":1}`,
		`{"type":"value","key":"2","value":2}`,
		`{"type":"value","key":"$3","value":3}`,
	)
	a.expect(`{"a":1,"b":2,"c":3}`)
}

func TestValueRoot(t *testing.T) {
	a := newApplier(t, `"ref$1"`)
	a.must(`{"type":"value","key":"ref$1","value":{"x":"ref$2"}}`)
	a.expect(`{"x":"ref$2"}`)
	if p, _ := a.store.Lookup("ref$2"); p.String() != "$.x" {
		t.Errorf("ref$2 at %s", p)
	}
}

func TestValueStalePath(t *testing.T) {
	a := newApplier(t, `{"a": {"b": "ref$1"}}`)
	a.must(`{"type":"init","data":{"a":"x","n":"ref$2"}}`)
	// ref$1 is gone with the old store
	before := a.doc
	a.must(`{"type":"value","key":"ref$1","value":1}`)
	if a.doc != before {
		t.Error("stale key changed the document")
	}

	a = newApplier(t, `{"a": {"b": "ref$1"}, "c": "ref$2"}`)
	a.must(`{"type":"value","key":"ref$2","value":1}`)
	// replace the container of ref$1 by a scalar behind the store's back
	a.doc = a.doc.WithField("a", ir.FromInt(3))
	if err := a.apply(`{"type":"value","key":"ref$1","value":1}`); !errors.Is(err, ir.ErrPath) {
		t.Errorf("expected path error, got %v", err)
	}
}

func TestText(t *testing.T) {
	a := newApplier(t, `{"bio": "ref$1", "n": "ref$2", "z": "ref$3"}`)
	a.must(
		`{"type":"text","key":"ref$1","value":"Hello"}`,
		`{"type":"text","key":"ref$1","value":", "}`,
		`{"type":"text","key":"ref$1","value":"world"}`,
	)
	a.expect(`{"bio":"Hello, world","n":"ref$2","z":"ref$3"}`)

	a.must(`{"type":"value","key":"ref$2","value":5}`)
	before := a.doc
	a.must(`{"type":"text","key":"ref$2","value":"x"}`)
	if a.doc != before {
		t.Error("text on a number should be a no-op")
	}

	a.must(
		`{"type":"value","key":"ref$3","value":null}`,
		`{"type":"text","key":"ref$3","value":12}`,
		`{"type":"text","key":"ref$3","value":true}`,
	)
	a.expect(`{"bio":"Hello, world","n":5,"z":"12true"}`)
}

func TestTextMissingMember(t *testing.T) {
	a := newApplier(t, `{"a": "ref$1"}`)
	a.store.Merge(ref.Paths{2: ir.FieldPath("b")})
	a.must(`{"type":"text","key":"ref$2","value":"new"}`)
	a.expect(`{"a":"ref$1","b":"new"}`)
}

func TestPushConcat(t *testing.T) {
	a := newApplier(t, `{"items": "ref$1", "list": ["x"]}`)
	a.store.Merge(ref.Paths{2: ir.FieldPath("list")})
	a.must(
		`{"type":"push","key":"ref$1","value":1}`,
		`{"type":"push","key":"ref$1","value":{"id":"ref$5"}}`,
		`{"type":"concat","key":"ref$1","value":[3,4]}`,
		`{"type":"concat","key":"ref$2","value":["y","z"]}`,
	)
	a.expect(`{"items":[1,{"id":"ref$5"},3,4],"list":["x","y","z"]}`)
	if p, _ := a.store.Lookup("ref$5"); p.String() != "$.items[1].id" {
		t.Errorf("pushed placeholder at %s", p)
	}
	a.must(`{"type":"value","key":"ref$5","value":7}`)
	a.expect(`{"items":[1,{"id":7},3,4],"list":["x","y","z"]}`)

	if err := a.apply(`{"type":"concat","key":"ref$1","value":5}`); !errors.Is(err, ErrBadMessage) {
		t.Errorf("concat with scalar: %v", err)
	}
	if err := a.apply(`{"type":"push","key":"ref$1"}`); !errors.Is(err, ErrBadMessage) {
		t.Errorf("push without value: %v", err)
	}
}

func TestPushOnScalar(t *testing.T) {
	a := newApplier(t, `{"n": "ref$1"}`)
	a.must(
		`{"type":"value","key":"ref$1","value":"scalar"}`,
		`{"type":"push","key":"ref$1","value":1}`,
	)
	a.expect(`{"n":[1]}`)
}

func TestPushDoesNotAlias(t *testing.T) {
	a := newApplier(t, `{"items": "ref$1"}`)
	a.must(`{"type":"push","key":"ref$1","value":1}`)
	first := a.doc
	a.must(`{"type":"push","key":"ref$1","value":2}`)
	if got := jsonString(t, first); got != `{"items":[1]}` {
		t.Errorf("earlier snapshot changed: %s", got)
	}
	a.expect(`{"items":[1,2]}`)
}

func TestCapabilityStaging(t *testing.T) {
	store := ref.NewStore()
	doc := mustJSON(t, `{"a": "ref$1"}`)
	store.Reset(ref.Scan(doc, nil))

	c := NewCapability(store, nil)
	doc, err := c.Update(doc, "ref$1", func(*ir.Node) (*ir.Node, error) {
		return mustJSON(t, `{"x": "ref$2"}`), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if p, ok := c.Lookup("ref$2"); !ok || p.String() != "$.a.x" {
		t.Errorf("staged ref$2 at %v", p)
	}
	if _, ok := store.Lookup("ref$2"); ok {
		t.Error("store changed before commit")
	}
	c.Commit()
	if p, ok := store.Lookup("ref$2"); !ok || p.String() != "$.a.x" {
		t.Errorf("committed ref$2 at %v", p)
	}

	c = NewCapability(store, nil)
	c.Reset(mustJSON(t, `{"b": "ref$5"}`))
	if _, ok := c.Lookup("ref$1"); ok {
		t.Error("reset still sees old references")
	}
	if store.Len() != 2 {
		t.Errorf("store has %d entries before commit", store.Len())
	}
	c.Commit()
	if diff := store.IDs(); len(diff) != 1 || diff[0] != 5 {
		t.Errorf("ids after reset %v", diff)
	}
}
