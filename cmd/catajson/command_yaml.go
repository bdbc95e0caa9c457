package main

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/clickworkorange/catajson/jsonin"
	"github.com/clickworkorange/catajson/value"
)

// YAMLCmd represents the yaml command
type YAMLCmd struct {
	Input  string `arg:"" optional:"" help:"Input file (default: stdin)"`
	Indent int    `default:"2" help:"Indentation width"`
}

// Run executes the yaml command
func (cmd *YAMLCmd) Run(ctx *Context) error {
	config, err := ctx.LoadConfig()
	if err != nil {
		return err
	}

	name, data, err := readInput(ctx.Stdin, cmd.Input)
	if err != nil {
		return err
	}

	doc, err := value.Parse(data,
		jsonin.WithSourceName(name),
		jsonin.WithSettings(config.Settings()),
		jsonin.WithLogger(ctx.Log))
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(ctx.Stdout)
	encoder.SetIndent(cmd.Indent)

	if err := encoder.Encode(doc.ToYAMLNode()); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}

	return encoder.Close()
}
