package ref

import (
	"testing"

	"github.com/signadot/pjson/ir"
)

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "drops placeholder members",
			doc:  `{"user": {"name": "ref$1", "age": 30}, "posts": "ref$2"}`,
			want: `{"user":{"age":30}}`,
		},
		{
			name: "keeps real nulls",
			doc:  `{"a": null, "b": "ref$1"}`,
			want: `{"a":null}`,
		},
		{
			name: "array elements become null",
			doc:  `[1, "ref$1", {"x": "ref$2", "y": 2}]`,
			want: `[1,null,{"y":2}]`,
		},
		{
			name: "ref objects",
			doc:  `{"a": {"type": "ref", "key": "ref$4"}, "b": {"type": "ref", "key": "other"}}`,
			want: `{"b":{"type":"ref","key":"other"}}`,
		},
		{
			name: "no references",
			doc:  `{"a": [1, "text"], "b": {"c": true}}`,
			want: `{"a":[1,"text"],"b":{"c":true}}`,
		},
		{
			name: "unresolved root",
			doc:  `"ref$1"`,
			want: `null`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(mustJSON(t, tc.doc))
			d, err := got.MarshalJSON()
			if err != nil {
				t.Fatal(err)
			}
			if string(d) != tc.want {
				t.Errorf("got %s want %s", d, tc.want)
			}
		})
	}
}

func TestFilterIdempotent(t *testing.T) {
	docs := []string{
		`{"user": {"name": "ref$1", "age": 30}, "posts": "ref$2"}`,
		`[1, "ref$1", {"x": "ref$2", "y": [null, "ref$3"]}]`,
		`{"a": {"type": "ref", "key": "ref$4"}, "b": null}`,
		`"plain"`,
		`"ref$1"`,
	}
	for _, s := range docs {
		once := Filter(mustJSON(t, s))
		twice := Filter(once)
		if !ir.Equal(once, twice) {
			t.Errorf("%s: filter not idempotent", s)
		}
		if once != nil && once != twice {
			t.Errorf("%s: second filter should return its input", s)
		}
	}
}

func TestFilterSharesUnchangedSubtrees(t *testing.T) {
	doc := mustJSON(t, `{"big": {"x": [1, 2, 3]}, "pending": "ref$1"}`)
	res := Filter(doc)
	b1, _ := doc.Get("big")
	b2, _ := res.Get("big")
	if b1 != b2 {
		t.Error("unchanged subtree was copied")
	}
	if _, ok := doc.Get("pending"); !ok {
		t.Error("input was modified")
	}
}

func TestOversizedIDIsPlainString(t *testing.T) {
	doc := mustJSON(t, `{"big":"ref$99999999999999999999999","small":"ref$1"}`)
	if got := Scan(doc, nil); len(got) != 1 || got[1] == nil {
		t.Errorf("scan %v", got)
	}
	got, err := Filter(doc).MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"big":"ref$99999999999999999999999"}` {
		t.Errorf("filter %s", got)
	}
}
