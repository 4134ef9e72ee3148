package docstore

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/doctransform/internal/textscan"
)

// Properties decodes a document's front matter as YAML. A document without
// front matter has no properties.
func Properties(doc string) (map[string]any, error) {
	front, _ := textscan.SplitFrontMatter(doc)
	if front == "" {
		return nil, nil
	}
	var lines []string
	for _, line := range strings.Split(front, "\n") {
		switch strings.TrimSpace(line) {
		case "---", "...":
			continue
		}
		lines = append(lines, line)
	}
	props := map[string]any{}
	if err := yaml.Unmarshal([]byte(strings.Join(lines, "\n")), &props); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	if len(props) == 0 {
		return nil, nil
	}
	return props, nil
}
