package ir

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Path locates a value inside a document. A nil *Path addresses the root.
// Paths are never modified once built; the Append methods copy.
type Path struct {
	Index *int
	Field *string
	Next  *Path
}

func FieldPath(f string) *Path {
	return &Path{Field: &f}
}

func IndexPath(i int) *Path {
	return &Path{Index: &i}
}

func (p *Path) String() string {
	buf := bytes.NewBuffer([]byte{'$'})
	for x := p; x != nil; x = x.Next {
		switch {
		case x.Field != nil:
			buf.WriteString("." + pathString(*x.Field))
		case x.Index != nil:
			fmt.Fprintf(buf, "[%d]", *x.Index)
		}
	}
	return buf.String()
}

// Len returns the number of segments in p.
func (p *Path) Len() int {
	n := 0
	for x := p; x != nil; x = x.Next {
		n++
	}
	return n
}

// Last returns the final segment of p.
func (p *Path) Last() *Path {
	if p == nil {
		return nil
	}
	x := p
	for x.Next != nil {
		x = x.Next
	}
	return x
}

// Join returns a new path consisting of p followed by q.
func (p *Path) Join(q *Path) *Path {
	if p == nil {
		return q
	}
	return &Path{Index: p.Index, Field: p.Field, Next: p.Next.Join(q)}
}

func (p *Path) AppendField(f string) *Path {
	return p.Join(FieldPath(f))
}

func (p *Path) AppendIndex(i int) *Path {
	return p.Join(IndexPath(i))
}

func (p *Path) Equal(q *Path) bool {
	for p != nil && q != nil {
		if !segEqual(p, q) {
			return false
		}
		p, q = p.Next, q.Next
	}
	return p == nil && q == nil
}

// HasPrefix reports whether pre addresses p or one of its ancestors.
func (p *Path) HasPrefix(pre *Path) bool {
	for ; pre != nil; p, pre = p.Next, pre.Next {
		if p == nil || !segEqual(p, pre) {
			return false
		}
	}
	return true
}

func segEqual(a, b *Path) bool {
	switch {
	case a.Field != nil:
		return b.Field != nil && *a.Field == *b.Field
	case a.Index != nil:
		return b.Index != nil && *a.Index == *b.Index
	}
	return b.Field == nil && b.Index == nil
}

func (p *Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func ParsePath(p string) (*Path, error) {
	if len(p) == 0 || p[0] != '$' {
		return nil, fmt.Errorf("%w: path %q should start with '$'", ErrParse, p)
	}
	if len(p) == 1 {
		return nil, nil
	}
	root := &Path{}
	if err := parseFrag(p[1:], root); err != nil {
		return nil, fmt.Errorf("%w: path %q: %w", ErrParse, p, err)
	}
	return root, nil
}

func parseFrag(frag string, parent *Path) error {
	if len(frag) == 0 {
		return nil
	}
	var rest string
	switch frag[0] {
	case '.':
		field, r, err := parseField(frag[1:])
		if err != nil {
			return err
		}
		parent.Field = &field
		rest = r
	case '[':
		i := strings.IndexByte(frag[1:], ']')
		if i == -1 {
			return fmt.Errorf("expected '[' <index> ']'")
		}
		u64, err := strconv.ParseUint(frag[1:i+1], 10, 31)
		if err != nil {
			return err
		}
		index := int(u64)
		parent.Index = &index
		rest = frag[i+2:]
	default:
		return fmt.Errorf("expected '.' or '['")
	}
	if len(rest) == 0 {
		return nil
	}
	next := &Path{}
	if err := parseFrag(rest, next); err != nil {
		return err
	}
	parent.Next = next
	return nil
}

func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of string")
	}
	if frag[0] != '\'' {
		i := strings.IndexAny(frag, ".[")
		if i == -1 {
			return frag, "", nil
		}
		return frag[:i], frag[i:], nil
	}
	escaped := false
	res := make([]byte, 0, len(frag))
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch c {
		case '\\':
			if escaped {
				res = append(res, c)
				escaped = false
				continue
			}
			escaped = true
		case '\'':
			if !escaped {
				return string(res), frag[i+1:], nil
			}
			fallthrough
		default:
			escaped = false
			res = append(res, c)
		}
	}
	return "", "", fmt.Errorf("end of string scanning for \"'\"")
}

func pathString(f string) string {
	if f != "" && strings.IndexAny(f, "'.*$[]\\") == -1 {
		return f
	}
	f = strings.ReplaceAll(f, "\\", "\\\\")
	return "'" + strings.ReplaceAll(f, "'", "\\'") + "'"
}

// GetPath returns the value addressed by p.
func (y *Node) GetPath(p *Path) (*Node, error) {
	res := y
	for x := p; x != nil; x = x.Next {
		if res == nil {
			return nil, fmt.Errorf("%w: %s: no container", ErrPath, p)
		}
		switch {
		case x.Index != nil:
			if res.Type != ArrayType {
				return nil, fmt.Errorf("%w: expected array at %s, got %s", ErrPath, p, res.Type)
			}
			if *x.Index < 0 || *x.Index >= len(res.Values) {
				return nil, fmt.Errorf("%w: index %d out of bounds (len %d)", ErrPath, *x.Index, len(res.Values))
			}
			res = res.Values[*x.Index]
		case x.Field != nil:
			v, ok := res.Get(*x.Field)
			if !ok {
				return nil, fmt.Errorf("%w: no field %q at %s", ErrPath, *x.Field, p)
			}
			res = v
		}
	}
	return res, nil
}

// UpdateFunc computes the replacement for the value at a path. cur is nil
// when the path addresses an object member which does not exist.
type UpdateFunc func(cur *Node) (*Node, error)

// Update returns a new document in which the value addressed by p is
// replaced by the result of f. Only the nodes along p are copied; y itself
// is not modified. An error from f, or a path segment which does not
// address a container, leaves y untouched and is returned.
//
// A missing final object member is created, a missing final array index is
// an error. When f returns its argument unchanged, y itself is returned.
func (y *Node) Update(p *Path, f UpdateFunc) (*Node, error) {
	if p == nil {
		return f(y)
	}
	if y == nil {
		return nil, fmt.Errorf("%w: %s: no container", ErrPath, p)
	}
	switch {
	case p.Index != nil:
		if y.Type != ArrayType {
			return nil, fmt.Errorf("%w: expected array, got %s", ErrPath, y.Type)
		}
		i := *p.Index
		if i < 0 || i >= len(y.Values) {
			return nil, fmt.Errorf("%w: index %d out of bounds (len %d)", ErrPath, i, len(y.Values))
		}
		child, err := y.Values[i].Update(p.Next, f)
		if err != nil {
			return nil, err
		}
		if child == y.Values[i] {
			return y, nil
		}
		return y.WithIndex(i, child), nil
	case p.Field != nil:
		if y.Type != ObjectType {
			return nil, fmt.Errorf("%w: expected object, got %s", ErrPath, y.Type)
		}
		cur, ok := y.Get(*p.Field)
		if !ok && p.Next != nil {
			return nil, fmt.Errorf("%w: no field %q", ErrPath, *p.Field)
		}
		child, err := cur.Update(p.Next, f)
		if err != nil {
			return nil, err
		}
		if ok && child == cur {
			return y, nil
		}
		return y.WithField(*p.Field, child), nil
	}
	return nil, fmt.Errorf("%w: empty segment", ErrPath)
}
