package graph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseTimeline decodes a YAML timeline document.
func ParseTimeline(data []byte) (*Timeline, error) {
	var t Timeline
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing timeline: %w", err)
	}
	return &t, nil
}

// LoadTimeline reads and decodes a YAML timeline file.
func LoadTimeline(path string) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading timeline %s: %w", path, err)
	}
	return ParseTimeline(data)
}
