package ref

import (
	"testing"

	"github.com/signadot/pjson/ir"
)

func mustJSON(t *testing.T, s string) *ir.Node {
	t.Helper()
	n, err := ir.FromJSON([]byte(s))
	if err != nil {
		t.Fatalf("%s: %v", s, err)
	}
	return n
}

func pathStrings(ps Paths) map[int]string {
	res := make(map[int]string, len(ps))
	for id, p := range ps {
		res[id] = p.String()
	}
	return res
}

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want map[int]string
	}{
		{
			name: "flat object",
			doc:  `{"a": "ref$1", "b": 2, "c": "ref$2"}`,
			want: map[int]string{1: "$.a", 2: "$.c"},
		},
		{
			name: "nested object",
			doc:  `{"a": {"b": "ref$3"}, "c": [1, "ref$4"]}`,
			want: map[int]string{3: "$.a.b", 4: "$.c[1]"},
		},
		{
			name: "non placeholder strings",
			doc:  `{"a": "hello", "b": "ref$notanumber", "c": "xref$1"}`,
			want: map[int]string{},
		},
		{
			name: "arrays",
			doc:  `["ref$5", {"x": "ref$6"}, [0, "ref$7"]]`,
			want: map[int]string{5: "$[0]", 6: "$[1].x", 7: "$[2][1]"},
		},
		{
			name: "root",
			doc:  `"ref$9"`,
			want: map[int]string{9: "$"},
		},
		{
			name: "scalars",
			doc:  `[1, true, null, 2.5]`,
			want: map[int]string{},
		},
		{
			name: "keys are not references",
			doc:  `{"ref$1": "value"}`,
			want: map[int]string{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := pathStrings(Scan(mustJSON(t, tc.doc), nil))
			if len(got) != len(tc.want) {
				t.Fatalf("got %v want %v", got, tc.want)
			}
			for id, p := range tc.want {
				if got[id] != p {
					t.Errorf("ref %d: got %q want %q", id, got[id], p)
				}
			}
		})
	}
}

func TestScanWithPrefix(t *testing.T) {
	sub := mustJSON(t, `{"name": "ref$2", "tags": ["ref$3"]}`)
	got := pathStrings(Scan(sub, ir.FieldPath("user")))
	want := map[int]string{2: "$.user.name", 3: "$.user.tags[0]"}
	for id, p := range want {
		if got[id] != p {
			t.Errorf("ref %d: got %q want %q", id, got[id], p)
		}
	}
}

// every id found addresses a node holding exactly that placeholder
func TestScanPathsResolve(t *testing.T) {
	doc := mustJSON(t, `{
		"user": {"name": "ref$1", "age": 30, "avatar": "ref$2"},
		"posts": [{"id": 1}, "ref$3", [["ref$4"]]],
		"config": {"theme": "dark", "notifications": "ref$5"}
	}`)
	ps := Scan(doc, nil)
	if len(ps) != 5 {
		t.Fatalf("expected 5 refs, got %v", pathStrings(ps))
	}
	for id, p := range ps {
		n, err := doc.GetPath(p)
		if err != nil {
			t.Fatalf("ref %d at %s: %v", id, p, err)
		}
		if n.Type != ir.StringType || n.String != Key(id) {
			t.Errorf("ref %d at %s holds %v", id, p, n.String)
		}
	}
}

func TestStore(t *testing.T) {
	s := NewStore()
	s.Reset(Scan(mustJSON(t, `{"a": "ref$1", "b": "ref$2"}`), nil))
	if s.Len() != 2 {
		t.Fatalf("len %d", s.Len())
	}
	s.Merge(Paths{2: ir.FieldPath("c"), 3: ir.FieldPath("d")})
	if p, ok := s.Lookup("ref$2"); !ok || p.String() != "$.c" {
		t.Errorf("merge should overwrite ref$2, got %v", p)
	}
	if p, ok := s.Lookup("1"); !ok || p.String() != "$.a" {
		t.Errorf("short key lookup failed: %v %v", p, ok)
	}
	if _, ok := s.Lookup("ref$9"); ok {
		t.Error("unexpected entry for ref$9")
	}
	if _, ok := s.Lookup("bogus"); ok {
		t.Error("unexpected entry for bogus key")
	}
	snap := s.Snapshot()
	s.Reset(nil)
	if s.Len() != 0 || len(snap) != 3 {
		t.Errorf("reset/snapshot: store %d snapshot %d", s.Len(), len(snap))
	}
	if ids := (&Store{paths: snap}).IDs(); len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Errorf("ids %v", ids)
	}
}
