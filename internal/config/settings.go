package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// Settings is the JSONC settings file. Zero values leave the environment
// configuration untouched.
type Settings struct {
	Provider           string                     `json:"provider"`
	Model              string                     `json:"model"`
	OllamaBaseURL      string                     `json:"ollama_base_url"`
	Temperature        *float64                   `json:"temperature"`
	TopP               *float64                   `json:"top_p"`
	PreserveHeadings   *bool                      `json:"preserve_headings"`
	Features           map[string]FeatureSettings `json:"features"`
	CosmeticDictionary []DictEntry                `json:"cosmetic_dictionary"`
	MaxIterations      int                        `json:"max_iterations"`
}

// ParseSettings parses JSONC settings (comments and trailing commas allowed).
func ParseSettings(data []byte) (Settings, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid JSONC: %w", err)
	}
	var s Settings
	if err := json.Unmarshal(standardized, &s); err != nil {
		return Settings{}, fmt.Errorf("invalid JSON: %w", err)
	}
	for name := range s.Features {
		if _, ok := (Config{}).Feature(name); !ok {
			return Settings{}, fmt.Errorf("unknown feature %q", name)
		}
	}
	return s, nil
}

// LoadSettings reads and applies the settings file at c.SettingsPath. A
// missing path is not an error.
func (c *Config) LoadSettings() error {
	if c.SettingsPath == "" {
		return nil
	}
	data, err := os.ReadFile(c.SettingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read settings %s: %w", c.SettingsPath, err)
	}
	s, err := ParseSettings(data)
	if err != nil {
		return fmt.Errorf("settings %s: %w", c.SettingsPath, err)
	}
	c.Apply(s)
	return nil
}

// Apply overlays s on c.
func (c *Config) Apply(s Settings) {
	if s.Provider != "" {
		c.Provider = s.Provider
	}
	if s.Model != "" {
		c.Model = s.Model
	}
	if s.OllamaBaseURL != "" {
		c.OllamaBaseURL = s.OllamaBaseURL
	}
	if s.Temperature != nil {
		c.Temperature = *s.Temperature
	}
	if s.TopP != nil {
		c.TopP = *s.TopP
	}
	if s.PreserveHeadings != nil {
		c.PreserveHeadings = *s.PreserveHeadings
	}
	if len(s.CosmeticDictionary) > 0 {
		c.CosmeticDictionary = s.CosmeticDictionary
	}
	if s.MaxIterations > 0 {
		c.MaxIterations = s.MaxIterations
	}
	for name, fs := range s.Features {
		var dst *FeatureSettings
		switch name {
		case Punctuate:
			dst = &c.Punctuate
		case Split:
			dst = &c.Split
		case Summarize:
			dst = &c.Summarize
		case Cosmetic:
			dst = &c.Cosmetic
		default:
			continue
		}
		if fs.ChunkSize > 0 {
			dst.ChunkSize = fs.ChunkSize
		}
		if fs.Prompt != "" {
			dst.Prompt = fs.Prompt
		}
	}
}
