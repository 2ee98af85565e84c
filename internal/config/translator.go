package config

import (
	"fmt"

	"github.com/leapstack-labs/id-translation/format"
	"github.com/leapstack-labs/id-translation/mapping"
)

// TranslatorConfig is the decoded form of a [translator] configuration
// section. Grounded on the Translator.__init__ keyword arguments in
// _translator.py, narrowed to the fields this port exposes: a single fmt
// string plus the two placeholder-value maps translation.Apply already
// supports (global substitutions and unknown-id fallback values) rather
// than the original's separate default_fmt template, which this port
// folds into the same fmtSpec per translation.Apply's own doc comment.
type TranslatorConfig struct {
	Fmt                 string            `mapstructure:"fmt"`
	GlobalPlaceholders  map[string]string `mapstructure:"default_translations"`
	DefaultPlaceholders map[string]string `mapstructure:"default_fmt_placeholders"`
	AllowNameInheritance bool             `mapstructure:"allow_name_inheritance"`
	Mapper              *MapperConfig     `mapstructure:"mapper"`
}

// DecodeTranslatorConfig decodes raw (the "translator" table of a larger
// document) into a TranslatorConfig.
func DecodeTranslatorConfig(raw map[string]any) (*TranslatorConfig, error) {
	var cfg TranslatorConfig
	if err := decodeStrict(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode translator config: %w", err)
	}
	return &cfg, nil
}

// BuildFormat parses c.Fmt, defaulting to "{id}:{name}" as the original
// does when no fmt is configured.
func (c *TranslatorConfig) BuildFormat() (*format.Format, error) {
	spec := c.Fmt
	if spec == "" {
		spec = "{id}:{name}"
	}
	return format.Parse(spec)
}

// BuildMapper builds the name-to-source mapper the Translator should use,
// or nil (equality matching) if no [translator.mapper] section was given.
func (c *TranslatorConfig) BuildMapper() (*mapping.Mapper[string, string], error) {
	if c == nil || c.Mapper == nil {
		return nil, nil
	}
	return c.Mapper.Build(false)
}
