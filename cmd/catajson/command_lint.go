package main

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
	"github.com/fatih/color"

	"github.com/clickworkorange/catajson/diagnostic"
	"github.com/clickworkorange/catajson/lint"
	"github.com/clickworkorange/catajson/settings"
)

// LintCmd represents the lint command
type LintCmd struct {
	Inputs []string `arg:"" optional:"" help:"Input files or directories (default: stdin)"`
	Format string   `short:"f" enum:"human,github,checkstyle" default:"human" help:"Report format (human, github, checkstyle)"`
}

// Run executes the lint command
func (cmd *LintCmd) Run(ctx *Context) error {
	config, err := ctx.LoadConfig()
	if err != nil {
		return err
	}

	s := config.Settings()
	if cmd.Format == "github" {
		s.ErrorLogFormat = settings.GithubAction
	}

	linter := lint.New(lint.Options{
		TranslatableFields: config.Lint.TranslatableFields,
		PluralFields:       config.Lint.PluralFields,
		ReportUnvisited:    config.Lint.ReportUnvisited,
	}, s, ctx.Log)

	files, err := collectFiles(cmd.Inputs)
	if err != nil {
		return err
	}

	results := make([]lint.Result, 0, len(files))

	for _, file := range files {
		name, data, err := readInput(ctx.Stdin, file)
		if err != nil {
			return err
		}

		results = append(results, linter.Lint(name, data))
	}

	switch cmd.Format {
	case "checkstyle":
		err = writeCheckstyle(ctx.Stdout, results)
	case "github":
		writeGithub(ctx.Stdout, results)
	case "human", "":
		writeHuman(ctx, results)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, cmd.Format)
	}
	if err != nil {
		return err
	}

	for _, result := range results {
		if result.Failed() {
			return ErrLintFailed
		}
	}

	return nil
}

func writeHuman(ctx *Context, results []lint.Result) {
	var errorCount, warningCount int

	for _, result := range results {
		for _, e := range result.Errors {
			fmt.Fprintf(ctx.Stdout, "%s\n%s\n", diagnostic.Category, e.Error())
		}

		for _, w := range result.Warnings {
			fmt.Fprintln(ctx.Stdout, w.String())
		}

		errorCount += len(result.Errors)
		warningCount += len(result.Warnings)
	}

	if ctx.Quiet {
		return
	}

	switch {
	case errorCount > 0:
		color.New(color.FgRed).Fprintf(ctx.Stderr, "%d error(s), %d warning(s) in %d file(s)\n", errorCount, warningCount, len(results))
	case warningCount > 0:
		color.New(color.FgYellow).Fprintf(ctx.Stderr, "%d warning(s) in %d file(s)\n", warningCount, len(results))
	default:
		color.New(color.FgGreen).Fprintf(ctx.Stderr, "✓ %d file(s) passed\n", len(results))
	}
}

// writeGithub prints one workflow command per diagnostic. The rendered
// text is already in workflow form since the reader ran in github mode.
func writeGithub(out io.Writer, results []lint.Result) {
	for _, result := range results {
		for _, e := range result.Errors {
			fmt.Fprintln(out, e.Error())
		}

		for _, w := range result.Warnings {
			fmt.Fprintln(out, w.Text)
		}
	}
}

// writeCheckstyle writes the results as a checkstyle XML report
func writeCheckstyle(out io.Writer, results []lint.Result) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("checkstyle")
	root.CreateAttr("version", "4.3")

	for _, result := range results {
		file := root.CreateElement("file")
		file.CreateAttr("name", result.Source)

		for _, e := range result.Errors {
			addCheckstyleEntry(file, e.Position.Line, e.Position.Column, "error", e.Message, "catajson.error")
		}

		for _, w := range result.Warnings {
			addCheckstyleEntry(file, w.Position.Line, w.Position.Column, "warning", w.Message, "catajson."+string(w.Kind))
		}
	}

	doc.Indent(2)

	if _, err := doc.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write checkstyle report: %w", err)
	}

	return nil
}

func addCheckstyleEntry(file *etree.Element, line, column int, severity, message, source string) {
	entry := file.CreateElement("error")
	entry.CreateAttr("line", fmt.Sprint(line))
	entry.CreateAttr("column", fmt.Sprint(column))
	entry.CreateAttr("severity", severity)
	entry.CreateAttr("message", message)
	entry.CreateAttr("source", source)
}
