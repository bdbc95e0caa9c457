package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/clickworkorange/catajson"
)

type testContext struct {
	*Context
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestContext(t *testing.T, config, stdin string) testContext {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "catajson.yaml")
	if config != "" {
		require.NoError(t, os.WriteFile(configPath, []byte(config), 0644))
	}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	return testContext{
		Context: &Context{
			Config: configPath,
			Quiet:  true,
			Stdin:  strings.NewReader(stdin),
			Stdout: stdout,
			Stderr: stderr,
			Log:    logr.Discard(),
		},
		stdout: stdout,
		stderr: stderr,
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

const lintSource = `[
  { "id": "rag", "name": { "str": "rag" }, "description": "A rag. Useful." },
  { "id": "box", "name": "box", "description": { "str_sp": "x" } }
]`

func TestVersionCmd(t *testing.T) {
	ctx := newTestContext(t, "", "")

	cmd := &VersionCmd{}
	require.NoError(t, cmd.Run(ctx.Context))
	assert.Equal(t, "catajson "+Version+"\n", ctx.stdout.String())
}

func TestLintCmd_Human(t *testing.T) {
	ctx := newTestContext(t, "", "")
	path := writeFile(t, "items.json", lintSource)

	cmd := &LintCmd{Inputs: []string{path}, Format: "human"}
	err := cmd.Run(ctx.Context)
	require.ErrorIs(t, err, ErrLintFailed)

	out := ctx.stdout.String()
	assert.Contains(t, out, "(json-error)\nJson error: "+path+":3:")
	assert.Contains(t, out, "str_sp not supported here")
	assert.Contains(t, out, "Json error: "+path+":2:")
	assert.Equal(t, 3, strings.Count(out, "(json-error)"))
}

func TestLintCmd_Clean(t *testing.T) {
	ctx := newTestContext(t, "", `{"name": {"str_sp": "sheep"}, "description": "Fine.  Sentence."}`)

	cmd := &LintCmd{Format: "human"}
	require.NoError(t, cmd.Run(ctx.Context))
	assert.Empty(t, ctx.stdout.String())
}

func TestLintCmd_Github(t *testing.T) {
	ctx := newTestContext(t, "", lintSource)

	cmd := &LintCmd{Format: "github"}
	err := cmd.Run(ctx.Context)
	require.ErrorIs(t, err, ErrLintFailed)

	lines := strings.Split(strings.TrimSpace(ctx.stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "::error file=<stdin>,line=3,col=", lines[0][:len("::error file=<stdin>,line=3,col=")])
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "::error file=<stdin>,line="), line)
	}
}

func TestLintCmd_Checkstyle(t *testing.T) {
	ctx := newTestContext(t, "", "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(lintSource), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(`{"name": "x"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`not json`), 0644))

	cmd := &LintCmd{Inputs: []string{dir}, Format: "checkstyle"}
	err := cmd.Run(ctx.Context)
	require.ErrorIs(t, err, ErrLintFailed)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(ctx.stdout.String()))

	root := doc.SelectElement("checkstyle")
	require.NotNil(t, root)
	assert.Equal(t, "4.3", root.SelectAttrValue("version", ""))

	files := root.SelectElements("file")
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "a.json"), files[0].SelectAttrValue("name", ""))

	entries := files[0].SelectElements("error")
	require.Len(t, entries, 3)
	assert.Equal(t, "error", entries[0].SelectAttrValue("severity", ""))
	assert.Equal(t, "3", entries[0].SelectAttrValue("line", ""))
	assert.Equal(t, "catajson.text-style", entries[1].SelectAttrValue("source", ""))
	assert.Equal(t, "catajson.plural", entries[2].SelectAttrValue("source", ""))

	warnings := files[1].SelectElements("error")
	require.Len(t, warnings, 1)
	assert.Equal(t, "warning", warnings[0].SelectAttrValue("severity", ""))
}

func TestFmtCmd_Stdin(t *testing.T) {
	ctx := newTestContext(t, "", `{"a":[1, 2.50],"b":{}}`)

	cmd := &FmtCmd{Pretty: true, Indent: "  "}
	require.NoError(t, cmd.Run(ctx.Context))
	assert.Equal(t, "{\n  \"a\": [\n    1,\n    2.50\n  ],\n  \"b\": {}\n}\n", ctx.stdout.String())
}

func TestFmtCmd_Compact(t *testing.T) {
	ctx := newTestContext(t, "", "{\n  \"a\": [1, 2]\n}")

	cmd := &FmtCmd{}
	require.NoError(t, cmd.Run(ctx.Context))
	assert.Equal(t, "{\"a\":[1,2]}\n", ctx.stdout.String())
}

func TestFmtCmd_CheckAndWrite(t *testing.T) {
	ctx := newTestContext(t, "", "")
	path := writeFile(t, "a.json", `{"a": 1}`)

	check := &FmtCmd{Inputs: []string{path}, Check: true, Indent: "  "}
	require.ErrorIs(t, check.Run(ctx.Context), ErrFileNotFormatted)
	assert.Contains(t, ctx.stderr.String(), path+" is not formatted")

	write := &FmtCmd{Inputs: []string{path}, Write: true, Indent: "  "}
	require.NoError(t, write.Run(ctx.Context))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}\n", string(data))

	require.NoError(t, check.Run(ctx.Context))
}

func TestFmtCmd_ParseError(t *testing.T) {
	ctx := newTestContext(t, "", `{"a": 1,}`)

	cmd := &FmtCmd{Indent: "  "}
	require.ErrorIs(t, cmd.Run(ctx.Context), ErrFormattingErrors)
	assert.Contains(t, ctx.stderr.String(), "Json error: <stdin>:1:")
	assert.Empty(t, ctx.stdout.String())
}

func TestCompactAndExpandCmd(t *testing.T) {
	config := "rle:\n  fields: [items]\n  same: a.typeid == b.typeid\n"
	src := `{"items":[{"typeid":"rag"},{"typeid":"rag","n":2},{"typeid":"rock"}]}`

	ctx := newTestContext(t, config, src)
	compact := &CompactCmd{Pretty: true}
	require.NoError(t, compact.Run(ctx.Context))

	compacted := ctx.stdout.String()
	assert.Equal(t, "{\n"+
		"  \"items\": [\n"+
		"    [\n"+
		"      {\n"+
		"        \"typeid\": \"rag\"\n"+
		"      },\n"+
		"      2\n"+
		"    ],\n"+
		"    {\n"+
		"      \"typeid\": \"rock\"\n"+
		"    }\n"+
		"  ]\n"+
		"}\n", compacted)

	ctx = newTestContext(t, config, compacted)
	expand := &ExpandCmd{}
	require.NoError(t, expand.Run(ctx.Context))
	assert.Equal(t, 2, strings.Count(ctx.stdout.String(), `"rag"`))
	assert.Equal(t, 1, strings.Count(ctx.stdout.String(), `"rock"`))
}

func TestCompactCmd_Errors(t *testing.T) {
	ctx := newTestContext(t, "", `{"items":[1,1]}`)
	require.ErrorIs(t, (&CompactCmd{}).Run(ctx.Context), ErrNoRLEFields)

	ctx = newTestContext(t, "", `{"items":[1,1]}`)
	err := (&CompactCmd{Fields: []string{"items"}, Same: "a =="}).Run(ctx.Context)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid merge expression")
}

func TestYAMLCmd(t *testing.T) {
	ctx := newTestContext(t, "", `{"b": 1, "a": ["x", true, null], "c": 2.5}`)

	cmd := &YAMLCmd{Indent: 2}
	require.NoError(t, cmd.Run(ctx.Context))

	out := ctx.stdout.String()
	assert.True(t, strings.HasPrefix(out, "b: 1\na:\n"), out)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, map[string]any{"a": []any{"x", true, nil}, "b": 1, "c": 2.5}, decoded)
}

func TestContext_InvalidConfig(t *testing.T) {
	ctx := newTestContext(t, "diagnostics:\n  format: xml\n", "{}")

	err := (&FmtCmd{}).Run(ctx.Context)
	require.ErrorIs(t, err, catajson.ErrConfigValidation)
}

func TestNewLogger(t *testing.T) {
	log, sync, err := newLogger(catajson.LoggingConfig{Level: "info"}, false, false)
	require.NoError(t, err)
	defer sync()
	assert.True(t, log.Enabled())
	assert.False(t, log.V(1).Enabled())

	log, _, err = newLogger(catajson.LoggingConfig{Level: "info"}, true, false)
	require.NoError(t, err)
	assert.True(t, log.V(1).Enabled())

	log, _, err = newLogger(catajson.LoggingConfig{Level: "debug"}, false, true)
	require.NoError(t, err)
	assert.False(t, log.Enabled())

	_, _, err = newLogger(catajson.LoggingConfig{Level: "loud"}, false, false)
	require.Error(t, err)
}
