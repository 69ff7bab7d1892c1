package libdiff

import (
	"bytes"
	"testing"

	"github.com/signadot/pjson/ir"

	"github.com/google/go-cmp/cmp"
)

func mustJSON(t *testing.T, s string) *ir.Node {
	t.Helper()
	n, err := ir.FromJSON([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func render(t *testing.T, from, to *ir.Node) []string {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	if err := NewPrinter(false).Write(buf, Diff(from, to)); err != nil {
		t.Fatal(err)
	}
	var res []string
	for _, l := range bytes.Split(bytes.TrimSuffix(buf.Bytes(), []byte("\n")), []byte("\n")) {
		if len(l) > 0 {
			res = append(res, string(l))
		}
	}
	return res
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     []string
	}{
		{
			name: "equal",
			from: `{"a":1}`,
			to:   `{"a":1}`,
		},
		{
			name: "object members",
			from: `{"a":1,"b":"ref$1","c":true}`,
			to:   `{"a":2,"b":{"x":1},"d":null}`,
			want: []string{
				`~ $.a: 1 -> 2`,
				`~ $.b: "ref$1" -> {"x":1}`,
				`- $.c: true`,
				`+ $.d: null`,
			},
		},
		{
			name: "text",
			from: `{"bio":"Hello"}`,
			to:   `{"bio":"Hello, world"}`,
			want: []string{`~ $.bio: "Hello{+, world+}"`},
		},
		{
			name: "append",
			from: `[1,2]`,
			to:   `[1,2,3,4]`,
			want: []string{`+ $[2]: 3`, `+ $[3]: 4`},
		},
		{
			name: "remove middle",
			from: `["a","b","c"]`,
			to:   `["a","c"]`,
			want: []string{`- $[1]: "b"`},
		},
		{
			name: "objects in arrays",
			from: `[{"id":1},{"id":2,"n":"ref$3"}]`,
			to:   `[{"id":1},{"id":2,"n":"x"}]`,
			want: []string{`~ $[1].n: "ref$3" -> "x"`},
		},
		{
			name: "root",
			from: `"ref$1"`,
			to:   `{"a":1}`,
			want: []string{`~ $: "ref$1" -> {"a":1}`},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := render(t, mustJSON(t, tc.from), mustJSON(t, tc.to))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffNil(t *testing.T) {
	doc := mustJSON(t, `{"a":1}`)
	if cs := Diff(nil, doc); len(cs) != 1 || cs[0].Op != Insert || cs[0].Path != nil {
		t.Errorf("from nil: %+v", cs)
	}
	if cs := Diff(doc, nil); len(cs) != 1 || cs[0].Op != Delete {
		t.Errorf("to nil: %+v", cs)
	}
	if cs := Diff(doc, doc); len(cs) != 0 {
		t.Errorf("same pointer: %+v", cs)
	}
}

func TestDiffSkipsSharedSubtrees(t *testing.T) {
	from := mustJSON(t, `{"big":{"x":[1,2,3]},"n":"ref$1"}`)
	to := from.WithField("n", ir.FromInt(1))
	cs := Diff(from, to)
	if len(cs) != 1 || cs[0].Path.String() != "$.n" {
		t.Errorf("got %+v", cs)
	}
}
