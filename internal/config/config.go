// Package config holds the per-document-template constants that drive
// geometric extraction: tolerances, character metrics and the locale
// label tables. One immutable Template is threaded through a parse run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Template is the geometric configuration for one statement layout.
// All matching in the extractor is tolerance-based; these constants are
// hand-tuned per bank template and never inferred at runtime.
type Template struct {
	// EpsilonX is the sub-character horizontal slack applied when a
	// word's content is cut at a column boundary.
	EpsilonX float64 `yaml:"epsilon_x"`
	// EpsilonY is the vertical slack for grouping words into one line.
	EpsilonY float64 `yaml:"epsilon_y"`
	// CharWidth and CharHeight are the average glyph metrics of the
	// template's table font, used to convert pixel spans to character
	// counts and to size scan bands.
	CharWidth  float64 `yaml:"char_width"`
	CharHeight float64 `yaml:"char_height"`
	// LineSpacing is the vertical gap between successive table rows.
	LineSpacing float64 `yaml:"line_spacing"`
	// PageOffset is the vertical position where a table resumes on a
	// continuation page.
	PageOffset float64 `yaml:"page_offset"`
	// NoSplit disables sub-word splitting: column extraction takes a
	// word's full content even when the window cuts through it.
	NoSplit bool `yaml:"no_split"`
}

// CreditCard returns the template for credit-card statements.
func CreditCard() Template {
	return Template{
		EpsilonX:    0.01,
		EpsilonY:    1,
		CharWidth:   4.8,
		CharHeight:  6.288,
		LineSpacing: 0.912,
		PageOffset:  319.118,
	}
}

// CheckingAccount returns the template for checking-account statements.
func CheckingAccount() Template {
	return Template{
		EpsilonY:    2,
		CharWidth:   4.8,
		CharHeight:  8,
		LineSpacing: 4,
		NoSplit:     true,
	}
}

// Validate rejects metric values the extractor cannot work with.
// Splitting divides spans by CharWidth, and band scanning advances by
// CharHeight+LineSpacing, so zeros here would corrupt extraction
// instead of failing it.
func (t Template) Validate() error {
	if !t.NoSplit && t.CharWidth <= 0 {
		return fmt.Errorf("char_width must be positive when splitting is enabled, got %g", t.CharWidth)
	}
	if t.CharHeight <= 0 {
		return fmt.Errorf("char_height must be positive, got %g", t.CharHeight)
	}
	if t.LineSpacing < 0 {
		return fmt.Errorf("line_spacing must not be negative, got %g", t.LineSpacing)
	}
	return nil
}

// Load reads a Template from a YAML file.
func Load(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("reading template: %w", err)
	}
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Template{}, fmt.Errorf("parsing template: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Template{}, fmt.Errorf("invalid template %s: %w", path, err)
	}
	return t, nil
}

// Save writes a Template to a YAML file.
func Save(path string, t Template) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling template: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}
	return nil
}
