// Package config loads the YAML-tagged compilation configuration a caller
// may supply instead of (or on top of) hardcoded defaults: predefined
// macros, include search directories, and settings for language version,
// keyword profile, default nettype and timescale. Only the predefines and
// include directories are applied to a compilation; the other settings are
// loaded and kept, but no caller reads them.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is one project's compilation settings.
type Config struct {
	// Predefines seeds the preprocessor's macro table before any source
	// text is read (spec §4.E / §6: "Predefine macros (name=text)").
	Predefines map[string]string `yaml:"predefines,omitempty"`

	// UserIncludeDirs and SystemIncludeDirs are searched in that order for
	// `include targets (spec §6: "Ordered user directories then system
	// directories, configured per-compilation").
	UserIncludeDirs   []string `yaml:"includeDirs,omitempty"`
	SystemIncludeDirs []string `yaml:"systemIncludeDirs,omitempty"`

	// LanguageVersion names a grammar profile, e.g. "1800-2017". Not read
	// by the lexer, parser or elaborator.
	LanguageVersion string `yaml:"languageVersion,omitempty"`

	// KeywordProfile names a keyword set, e.g. "1800-2017". Not read by the
	// lexer, which recognizes the same keywords under every profile.
	KeywordProfile string `yaml:"keywordProfile,omitempty"`

	// DefaultNettype names the nettype for implicit nets, e.g. "wire" or
	// "none". Not read by the elaborator, which always uses wire.
	DefaultNettype string `yaml:"defaultNettype,omitempty"`

	// Timescale is a compilation-wide timescale formatted
	// "<unit>/<precision>". Not applied to any source unit.
	Timescale string `yaml:"timescale,omitempty"`
}

// Default returns the configuration cmd/svfront uses when no config file is
// given: no predefines, no extra include directories, the latest language
// version, the full reserved-keyword set, and a `wire` default nettype.
func Default() Config {
	return Config{
		LanguageVersion: "1800-2017",
		KeywordProfile:  "1800-2017",
		DefaultNettype:  "wire",
	}
}

// Load reads and parses a YAML config file at path, starting from
// Default() so any field the file omits keeps its default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
