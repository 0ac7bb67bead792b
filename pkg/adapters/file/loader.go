// Package file loads declarative network documents from YAML files.
package file

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/credence/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.NetworkLoader for a single YAML document.
type Loader struct {
	path string
}

// New creates a loader for the given file path.
func New(path string) *Loader {
	return &Loader{path: path}
}

// Load reads and parses the document.
func (l *Loader) Load(ctx context.Context) (*domain.Description, *domain.Description, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, nil, fmt.Errorf("read network file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML network document into descriptions. The YAML is
// decoded generically first and then mapped onto the spec shape, so the
// same shape works for frontmatter sources.
func Parse(data []byte) (*domain.Description, *domain.Description, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parse network document: %w", err)
	}

	var spec NetworkSpec
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		// YAML hands whole numbers over as int; weak typing folds them
		// into the float fields.
		WeaklyTypedInput: true,
		Result:           &spec,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build document decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, nil, fmt.Errorf("decode network document: %w", err)
	}
	if len(spec.Variables) == 0 {
		return nil, nil, fmt.Errorf("network document declares no variables")
	}
	return spec.Descriptions()
}
