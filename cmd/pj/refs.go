package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/signadot/pjson/ir"
	"github.com/signadot/pjson/ref"

	"github.com/olekukonko/tablewriter"
	"github.com/scott-cotton/cli"
)

func refs(cfg *RefsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Refs.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: refs requires 1 url or file, got %v", cli.ErrUsage, args)
	}
	cfg.quiet = true
	e, err := cfg.run(cc, streamURL(args[0]))
	if err != nil {
		return err
	}
	doc := e.RawSnapshot()
	paths := e.Refs()
	ids := slices.Sorted(maps.Keys(paths))
	table := tablewriter.NewWriter(cc.Out)
	table.SetHeader([]string{"Key", "Path", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})
	for _, id := range ids {
		table.Append([]string{ref.Key(id), paths[id].String(), refStatus(doc, id, paths[id])})
	}
	table.SetFooter([]string{"Total " + strconv.Itoa(len(ids)), "", ""})
	table.Render()
	return nil
}

func refStatus(doc *ir.Node, id int, p *ir.Path) string {
	v, err := doc.GetPath(p)
	if err != nil {
		return "moved"
	}
	if v.Type == ir.StringType && ref.ExtractID(v.String) == id {
		return "pending"
	}
	return "resolved " + v.Type.String()
}
