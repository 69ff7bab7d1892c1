package libdiff

import (
	"fmt"
	"io"
	"strings"

	"github.com/signadot/pjson/ir"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Printer writes changes one per line:
//
//	+ $.posts[2]: {"id":3}
//	- $.draft: true
//	~ $.bio: "Hello" -> "Hello, world"
type Printer struct {
	Insert func(a ...any) string
	Delete func(a ...any) string
	Path   func(a ...any) string
}

func NewPrinter(colors bool) *Printer {
	if !colors {
		return &Printer{Insert: fmt.Sprint, Delete: fmt.Sprint, Path: fmt.Sprint}
	}
	return &Printer{
		Insert: color.New(color.FgGreen).SprintFunc(),
		Delete: color.New(color.FgRed).SprintFunc(),
		Path:   color.RGB(128, 168, 196).SprintFunc(),
	}
}

func (p *Printer) Write(w io.Writer, cs []Change) error {
	for i := range cs {
		if _, err := io.WriteString(w, p.line(&cs[i])+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) line(c *Change) string {
	path := p.Path(c.Path.String())
	switch c.Op {
	case Insert:
		return p.Insert("+ ") + path + ": " + p.Insert(compact(c.To))
	case Delete:
		return p.Delete("- ") + path + ": " + p.Delete(compact(c.From))
	}
	if c.Text != nil {
		return "~ " + path + ": " + p.text(c.Text)
	}
	return "~ " + path + ": " + p.Delete(compact(c.From)) + " -> " + p.Insert(compact(c.To))
}

// text renders string edits inline, insertions as {+...+} and deletions
// as [-...-].
func (p *Printer) text(diffs []diffpatch.Diff) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffpatch.DiffInsert:
			b.WriteString(p.Insert("{+" + d.Text + "+}"))
		case diffpatch.DiffDelete:
			b.WriteString(p.Delete("[-" + d.Text + "-]"))
		}
	}
	b.WriteByte('"')
	return b.String()
}

func compact(n *ir.Node) string {
	d, err := n.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%v", n)
	}
	return string(d)
}
