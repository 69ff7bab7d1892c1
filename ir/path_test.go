package ir

import (
	"errors"
	"testing"
)

type pathTest struct {
	Path string
	Doc  string
	Res  string
	Err  bool
}

var pathTests = []pathTest{
	{
		Path: "$",
		Doc:  "null",
		Res:  "null",
	},
	{
		Path: "$.f",
		Doc:  `{"f": 1}`,
		Res:  "1",
	},
	{
		Path: "$[0]",
		Doc:  "[1,2,3]",
		Res:  "1",
	},
	{
		Path: "$[1].f",
		Doc:  `[0, {"f": 2, "g": 3}]`,
		Res:  "2",
	},
	{
		Path: "$.f[3]",
		Doc:  `{"a": [1,2], "f": [0,1,2,"three"]}`,
		Res:  `"three"`,
	},
	{
		Path: "$.'f[3]'[2]",
		Doc:  `{"a": [1,2], "f[3]": [0,1,2,"three"]}`,
		Res:  "2",
	},
	{
		Path: "$.'$f[\\'3]'[2]",
		Doc:  `{"a": [1,2], "$f['3]": [0,1,2,"three"]}`,
		Res:  "2",
	},
	{
		Path: "$.f[9]",
		Doc:  `{"f": [0]}`,
		Err:  true,
	},
	{
		Path: "$.f.g",
		Doc:  `{"f": "leaf"}`,
		Err:  true,
	},
}

func TestGetPath(t *testing.T) {
	for _, pt := range pathTests {
		doc, err := FromJSON([]byte(pt.Doc))
		if err != nil {
			t.Fatalf("%s: %v", pt.Doc, err)
		}
		p, err := ParsePath(pt.Path)
		if err != nil {
			t.Fatalf("parse %q: %v", pt.Path, err)
		}
		got, err := doc.GetPath(p)
		if pt.Err {
			if !errors.Is(err, ErrPath) {
				t.Errorf("%s on %s: expected path error, got %v", pt.Path, pt.Doc, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s on %s: %v", pt.Path, pt.Doc, err)
			continue
		}
		d, err := got.MarshalJSON()
		if err != nil {
			t.Fatal(err)
		}
		if string(d) != pt.Res {
			t.Errorf("%s on %s: got %s want %s", pt.Path, pt.Doc, d, pt.Res)
		}
	}
}

func TestPathStringRoundTrip(t *testing.T) {
	paths := []*Path{
		nil,
		FieldPath("user"),
		FieldPath("user").AppendField("name"),
		FieldPath("posts").AppendIndex(2).AppendField("title"),
		IndexPath(0).AppendIndex(1),
		FieldPath("a.b").AppendField("it's"),
		FieldPath(""),
		FieldPath(`back\slash`),
	}
	for _, p := range paths {
		s := p.String()
		q, err := ParsePath(s)
		if err != nil {
			t.Errorf("parse %q: %v", s, err)
			continue
		}
		if !p.Equal(q) {
			t.Errorf("round trip %q gave %q", s, q.String())
		}
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, s := range []string{"", "a.b", "$.", "$[x]", "$[1", "$x", "$.'open"} {
		if _, err := ParsePath(s); !errors.Is(err, ErrParse) {
			t.Errorf("%q: expected parse error, got %v", s, err)
		}
	}
}

func TestPathPrefix(t *testing.T) {
	p := FieldPath("a").AppendIndex(1).AppendField("b")
	if !p.HasPrefix(nil) {
		t.Error("root should prefix everything")
	}
	if !p.HasPrefix(FieldPath("a").AppendIndex(1)) {
		t.Error("expected $.a[1] to prefix $.a[1].b")
	}
	if p.HasPrefix(FieldPath("a").AppendIndex(2)) {
		t.Error("$.a[2] should not prefix $.a[1].b")
	}
	if FieldPath("a").HasPrefix(p) {
		t.Error("longer path cannot be a prefix")
	}
	if p.Len() != 3 || *p.Last().Field != "b" {
		t.Errorf("unexpected len/last for %s", p)
	}
}
