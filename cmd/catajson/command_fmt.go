package main

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"

	"github.com/clickworkorange/catajson/jsonin"
	"github.com/clickworkorange/catajson/jsonout"
	"github.com/clickworkorange/catajson/value"
)

// FmtCmd represents the fmt command
type FmtCmd struct {
	Inputs  []string `arg:"" optional:"" help:"Input files or directories (default: stdin)"`
	Write   bool     `short:"w" help:"Write result to input file instead of stdout"`
	Check   bool     `short:"c" help:"Check if files are formatted (exit 1 if not)"`
	Pretty  bool     `short:"p" help:"Indent output instead of writing canonical compact text"`
	Indent  string   `default:"  " help:"Indentation for pretty output"`
}

// Run executes the fmt command
func (cmd *FmtCmd) Run(ctx *Context) error {
	return transformFiles(ctx, cmd.Inputs, transformOptions{
		write:   cmd.Write,
		check:   cmd.Check,
		pretty:  cmd.Pretty,
		indent:  cmd.Indent,
		verb:    "Formatted",
	}, func(value.Value) error { return nil })
}

type transformOptions struct {
	write   bool
	check   bool
	pretty  bool
	indent  string
	verb    string
}

// transformFiles parses each input, applies fn and writes the result back
// in canonical form
func transformFiles(ctx *Context, inputs []string, opts transformOptions, fn func(value.Value) error) error {
	config, err := ctx.LoadConfig()
	if err != nil {
		return err
	}

	files, err := collectFiles(inputs)
	if err != nil {
		return err
	}

	var hasErrors bool

	for _, file := range files {
		name, data, err := readInput(ctx.Stdin, file)
		if err != nil {
			return err
		}

		doc, err := value.Parse(data,
			jsonin.WithSourceName(name),
			jsonin.WithSettings(config.Settings()),
			jsonin.WithLogger(ctx.Log))
		if err != nil {
			fmt.Fprintln(ctx.Stderr, err)
			hasErrors = true
			continue
		}

		if err := fn(doc); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		out, err := render(doc, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		switch {
		case opts.check:
			if !bytes.Equal(data, out) {
				fmt.Fprintf(ctx.Stderr, "%s is not formatted\n", name)
				hasErrors = true
			}
		case opts.write && name != stdinName:
			if err := writeOutput(name, out); err != nil {
				return err
			}
			if !ctx.Quiet {
				color.New(color.FgGreen).Fprintf(ctx.Stderr, "%s: %s\n", opts.verb, name)
			}
		default:
			if _, err := ctx.Stdout.Write(out); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}

	if hasErrors {
		if opts.check {
			return ErrFileNotFormatted
		}
		return ErrFormattingErrors
	}

	return nil
}

func render(doc value.Value, opts transformOptions) ([]byte, error) {
	w := jsonout.NewWriter()
	if opts.pretty {
		w = jsonout.NewWriter(jsonout.WithPrettyPrint(opts.indent))
	}

	doc.Serialize(w)
	if err := w.Err(); err != nil {
		return nil, err
	}

	return append(w.Bytes(), '\n'), nil
}
