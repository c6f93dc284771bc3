// Package content holds the narrative text attached to results.
//
// The text lives in an embedded YAML document that is parsed once and never
// mutated afterwards.
package content

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"jyotish-lab/internal/domain"
)

//go:embed content.yaml
var embeddedContent []byte

// PhaseText is the label and description of one phase.
type PhaseText struct {
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
}

// Content is the parsed narrative document.
type Content struct {
	TotalDuration string                     `yaml:"total_duration"`
	Phases        map[domain.Phase]PhaseText `yaml:"phases"`
	Divisions     map[string]string          `yaml:"divisions"`
}

// Parse decodes a content document and checks every phase is described.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	for _, p := range []domain.Phase{domain.PhaseBefore, domain.PhasePeak, domain.PhaseAfter, domain.PhaseInactive} {
		if _, ok := c.Phases[p]; !ok {
			return nil, fmt.Errorf("parse content: missing phase %s", p)
		}
	}
	return &c, nil
}

var (
	defaultOnce    sync.Once
	defaultContent *Content
)

// Default returns the embedded document. It panics if the embedded YAML is
// malformed, which is caught by the package tests.
func Default() *Content {
	defaultOnce.Do(func() {
		c, err := Parse(embeddedContent)
		if err != nil {
			panic(err)
		}
		defaultContent = c
	})
	return defaultContent
}

// PhaseDescription returns the description for p, or "" if unknown.
func (c *Content) PhaseDescription(p domain.Phase) string {
	return c.Phases[p].Description
}

// PhaseLabel returns the short label for p, or "" if unknown.
func (c *Content) PhaseLabel(p domain.Phase) string {
	return c.Phases[p].Label
}

// Signification returns what the chart with the given code (e.g. "D9") describes.
func (c *Content) Signification(code string) string {
	return c.Divisions[code]
}
