package catajson

import (
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/clickworkorange/catajson/settings"
)

// Config represents the catajson configuration
type Config struct {
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Translation TranslationConfig `yaml:"translation"`
	Lint        LintConfig        `yaml:"lint"`
	RLE         RLEConfig         `yaml:"rle"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// DiagnosticsConfig controls how errors and warnings are rendered
type DiagnosticsConfig struct {
	Format       string `yaml:"format"`
	ContextLines int    `yaml:"context_lines"`
	ContextBytes int    `yaml:"context_bytes"`
}

// TranslationConfig controls the checks run on translatable text
type TranslationConfig struct {
	CheckPlural string `yaml:"check_plural"`
	// Pointer to distinguish between unset and false
	TextStyle       *bool `yaml:"text_style"`
	SentenceSpacing int   `yaml:"sentence_spacing"`
}

// LintConfig selects the members checked by the lint command
type LintConfig struct {
	TranslatableFields []string `yaml:"translatable_fields"`
	PluralFields       []string `yaml:"plural_fields"`
	ReportUnvisited    bool     `yaml:"report_unvisited"`
}

// RLEConfig selects the arrays compacted by the compact and expand commands
type RLEConfig struct {
	Fields []string `yaml:"fields"`
	// Same is a CEL expression over a and b. Empty means structural equality.
	Same string `yaml:"same"`
}

// LoggingConfig represents logger settings
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Return default configuration if file doesn't exist
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML configuration. Unknown keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	var config Config

	err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Expand before validation so ${VAR} can supply enum values
	expandConfigEnvVars(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDefaults(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if _, err := settings.ParseErrorLogFormat(config.Diagnostics.Format); err != nil {
		return fmt.Errorf("%w: diagnostics.format '%s' is invalid: must be one of human, github", ErrConfigValidation, config.Diagnostics.Format)
	}

	if config.Diagnostics.ContextLines < 0 {
		return fmt.Errorf("%w: diagnostics.context_lines must be non-negative, got %d", ErrConfigValidation, config.Diagnostics.ContextLines)
	}

	if config.Diagnostics.ContextBytes < 0 {
		return fmt.Errorf("%w: diagnostics.context_bytes must be non-negative, got %d", ErrConfigValidation, config.Diagnostics.ContextBytes)
	}

	if _, err := settings.ParsePluralCheck(config.Translation.CheckPlural); err != nil {
		return fmt.Errorf("%w: translation.check_plural '%s' is invalid: must be one of none, certain, possible", ErrConfigValidation, config.Translation.CheckPlural)
	}

	if config.Translation.SentenceSpacing < 0 {
		return fmt.Errorf("%w: translation.sentence_spacing must be non-negative, got %d", ErrConfigValidation, config.Translation.SentenceSpacing)
	}

	for _, name := range config.Lint.PluralFields {
		for _, other := range config.Lint.TranslatableFields {
			if name == other {
				return fmt.Errorf("%w: lint field '%s' is listed as both translatable and plural", ErrConfigValidation, name)
			}
		}
	}

	validLevels := map[string]bool{
		"":      true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[config.Logging.Level] {
		return fmt.Errorf("%w: logging.level '%s' is invalid: must be one of debug, info, warn, error", ErrConfigValidation, config.Logging.Level)
	}

	return nil
}

func boolPtr(b bool) *bool {
	return &b
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Diagnostics: DiagnosticsConfig{
			Format:       "human",
			ContextLines: 3,
			ContextBytes: 240,
		},
		Translation: TranslationConfig{
			CheckPlural:     "certain",
			TextStyle:       boolPtr(true),
			SentenceSpacing: 2,
		},
		Lint: LintConfig{
			TranslatableFields: []string{"description"},
			PluralFields:       []string{"name"},
			ReportUnvisited:    true,
		},
		RLE: RLEConfig{
			Fields: []string{},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// applyDefaults fills in zero values from the default configuration
func applyDefaults(config *Config) {
	defaults := getDefaultConfig()

	if config.Diagnostics.Format == "" {
		config.Diagnostics.Format = defaults.Diagnostics.Format
	}

	if config.Diagnostics.ContextLines == 0 {
		config.Diagnostics.ContextLines = defaults.Diagnostics.ContextLines
	}

	if config.Diagnostics.ContextBytes == 0 {
		config.Diagnostics.ContextBytes = defaults.Diagnostics.ContextBytes
	}

	if config.Translation.CheckPlural == "" {
		config.Translation.CheckPlural = defaults.Translation.CheckPlural
	}

	if config.Translation.TextStyle == nil {
		config.Translation.TextStyle = defaults.Translation.TextStyle
	}

	if config.Translation.SentenceSpacing == 0 {
		config.Translation.SentenceSpacing = defaults.Translation.SentenceSpacing
	}

	if config.Lint.TranslatableFields == nil && config.Lint.PluralFields == nil {
		config.Lint.TranslatableFields = defaults.Lint.TranslatableFields
		config.Lint.PluralFields = defaults.Lint.PluralFields
	}

	if config.RLE.Fields == nil {
		config.RLE.Fields = defaults.RLE.Fields
	}

	if config.Logging.Level == "" {
		config.Logging.Level = defaults.Logging.Level
	}
}

// Settings converts the configuration into reader settings. The
// configuration must have been validated.
func (c *Config) Settings() settings.Settings {
	s := settings.Default()

	if format, err := settings.ParseErrorLogFormat(c.Diagnostics.Format); err == nil {
		s.ErrorLogFormat = format
	}
	if level, err := settings.ParsePluralCheck(c.Translation.CheckPlural); err == nil {
		s.CheckPlural = level
	}
	if c.Translation.TextStyle != nil {
		s.TextStyle = *c.Translation.TextStyle
	}
	if c.Translation.SentenceSpacing > 0 {
		s.SentenceSpacing = c.Translation.SentenceSpacing
	}
	if c.Diagnostics.ContextLines > 0 {
		s.ContextLines = c.Diagnostics.ContextLines
	}
	if c.Diagnostics.ContextBytes > 0 {
		s.ContextBytes = c.Diagnostics.ContextBytes
	}

	return s
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareVarPattern   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	s = bareVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})

	return s
}

// expandConfigEnvVars expands environment variables in string settings.
// The CEL expression is left alone since it may legitimately contain '$'.
func expandConfigEnvVars(config *Config) {
	config.Diagnostics.Format = expandEnvVars(config.Diagnostics.Format)
	config.Translation.CheckPlural = expandEnvVars(config.Translation.CheckPlural)
	config.Logging.Level = expandEnvVars(config.Logging.Level)

	for i, field := range config.Lint.TranslatableFields {
		config.Lint.TranslatableFields[i] = expandEnvVars(field)
	}

	for i, field := range config.Lint.PluralFields {
		config.Lint.PluralFields[i] = expandEnvVars(field)
	}

	for i, field := range config.RLE.Fields {
		config.RLE.Fields[i] = expandEnvVars(field)
	}
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
