package catajson

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clickworkorange/catajson/settings"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "catajson.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	return configPath
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, getDefaultConfig(), config)
	assert.Equal(t, settings.Default(), config.Settings())
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
diagnostics:
  format: github
  context_lines: 5
translation:
  check_plural: possible
  text_style: false
  sentence_spacing: 1
lint:
  translatable_fields: [description, msg]
  plural_fields: [name]
  report_unvisited: true
rle:
  fields: [items, contents]
  same: a.typeid == b.typeid
logging:
  level: debug
  development: true
`)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, []string{"description", "msg"}, config.Lint.TranslatableFields)
	assert.Equal(t, []string{"items", "contents"}, config.RLE.Fields)
	assert.Equal(t, "a.typeid == b.typeid", config.RLE.Same)
	assert.True(t, config.Logging.Development)

	s := config.Settings()
	assert.Equal(t, settings.GithubAction, s.ErrorLogFormat)
	assert.Equal(t, settings.PluralPossible, s.CheckPlural)
	assert.False(t, s.TextStyle)
	assert.Equal(t, 1, s.SentenceSpacing)
	assert.Equal(t, 5, s.ContextLines)
	assert.Equal(t, 240, s.ContextBytes)
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "rle:\n  same: a == b\n"))
	require.NoError(t, err)

	assert.Equal(t, "human", config.Diagnostics.Format)
	assert.Equal(t, "certain", config.Translation.CheckPlural)
	require.NotNil(t, config.Translation.TextStyle)
	assert.True(t, *config.Translation.TextStyle)
	assert.Equal(t, []string{"description"}, config.Lint.TranslatableFields)
	assert.Equal(t, []string{"name"}, config.Lint.PluralFields)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, settings.Default(), config.Settings())
}

func TestLoadConfig_StrictMode_UnknownKeys(t *testing.T) {
	configPath := writeConfig(t, `
diagnostics:
  format: human
  unknown_key: "should cause error"
`)

	_, err := LoadConfig(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_ExpandsEnvVars(t *testing.T) {
	t.Setenv("CATAJSON_FORMAT", "github")
	t.Setenv("CATAJSON_FIELD", "info")

	config, err := LoadConfig(writeConfig(t, `
diagnostics:
  format: ${CATAJSON_FORMAT}
lint:
  translatable_fields: [$CATAJSON_FIELD]
rle:
  same: a.x == b.x
`))
	require.NoError(t, err)

	assert.Equal(t, "github", config.Diagnostics.Format)
	assert.Equal(t, []string{"info"}, config.Lint.TranslatableFields)
	assert.Equal(t, settings.GithubAction, config.Settings().ErrorLogFormat)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{name: "invalid format", content: "diagnostics:\n  format: xml\n", message: "diagnostics.format 'xml' is invalid"},
		{name: "negative context", content: "diagnostics:\n  context_lines: -1\n", message: "diagnostics.context_lines must be non-negative"},
		{name: "invalid plural check", content: "translation:\n  check_plural: always\n", message: "translation.check_plural 'always' is invalid"},
		{name: "negative spacing", content: "translation:\n  sentence_spacing: -2\n", message: "translation.sentence_spacing must be non-negative"},
		{name: "field listed twice", content: "lint:\n  translatable_fields: [name]\n  plural_fields: [name]\n", message: "lint field 'name' is listed as both translatable and plural"},
		{name: "invalid log level", content: "logging:\n  level: verbose\n", message: "logging.level 'verbose' is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfigValidation)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
