package main

import (
	"fmt"

	"github.com/clickworkorange/catajson/rle/celmerge"
	"github.com/clickworkorange/catajson/value"
)

// CompactCmd represents the compact command
type CompactCmd struct {
	Inputs []string `arg:"" optional:"" help:"Input files or directories (default: stdin)"`
	Write  bool     `short:"w" help:"Write result to input file instead of stdout"`
	Check  bool     `short:"c" help:"Check if files are already compacted (exit 1 if not)"`
	Pretty bool     `short:"p" help:"Indent output"`
	Fields []string `help:"Members holding run-length arrays (default: rle.fields from config)"`
	Same   string   `help:"CEL merge expression over a and b (default: rle.same from config)"`
}

// Run executes the compact command
func (cmd *CompactCmd) Run(ctx *Context) error {
	fields, err := rleFields(ctx, cmd.Fields, cmd.Same)
	if err != nil {
		return err
	}

	return transformFiles(ctx, cmd.Inputs, transformOptions{
		write:  cmd.Write,
		check:  cmd.Check,
		pretty: cmd.Pretty,
		indent: "  ",
		verb:   "Compacted",
	}, func(doc value.Value) error {
		n, err := fields.Compact(doc)
		ctx.Log.V(1).Info("compacted arrays", "count", n)
		return err
	})
}

// ExpandCmd represents the expand command
type ExpandCmd struct {
	Inputs []string `arg:"" optional:"" help:"Input files or directories (default: stdin)"`
	Write  bool     `short:"w" help:"Write result to input file instead of stdout"`
	Pretty bool     `short:"p" help:"Indent output"`
	Fields []string `help:"Members holding run-length arrays (default: rle.fields from config)"`
}

// Run executes the expand command
func (cmd *ExpandCmd) Run(ctx *Context) error {
	fields, err := rleFields(ctx, cmd.Fields, "")
	if err != nil {
		return err
	}

	return transformFiles(ctx, cmd.Inputs, transformOptions{
		write:  cmd.Write,
		pretty: cmd.Pretty,
		indent: "  ",
		verb:   "Expanded",
	}, func(doc value.Value) error {
		skipped, err := fields.Expand(doc)
		if skipped > 0 {
			ctx.Log.Info("dropped malformed run-length entries", "count", skipped)
		}
		return err
	})
}

func rleFields(ctx *Context, names []string, same string) (*celmerge.Fields, error) {
	config, err := ctx.LoadConfig()
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		names = config.RLE.Fields
	}
	if len(names) == 0 {
		return nil, ErrNoRLEFields
	}

	if same == "" {
		same = config.RLE.Same
	}

	predicate, err := celmerge.CompileSame(same)
	if err != nil {
		return nil, fmt.Errorf("invalid merge expression: %w", err)
	}

	return celmerge.NewFields(names, predicate, ctx.Log), nil
}
