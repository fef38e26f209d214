package config

import (
	"fmt"
	"os"

	"github.com/cuemby/statemesh/pkg/codec"
	"gopkg.in/yaml.v3"
)

// TransformConfig is the YAML-declared set of field transforms applied
// to a machine's state-data fields and context fields.
type TransformConfig struct {
	StateFields   map[string]string `yaml:"state_fields"`
	ContextFields map[string]string `yaml:"context_fields"`
}

var namedTransforms = map[string]codec.FieldTransform{
	"date_millis": codec.DateMillis,
}

// LoadTransforms reads and compiles a transform declaration from path.
func LoadTransforms(path string) (codec.TransformTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("statemesh: read transform config %q: %w", path, err)
	}

	var cfg TransformConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("statemesh: parse transform config %q: %w", path, err)
	}

	return cfg.Compile()
}

// Compile resolves every declared field to its named transform.
func (cfg TransformConfig) Compile() (codec.TransformTable, error) {
	table := codec.TransformTable{}
	for path, name := range cfg.StateFields {
		xf, ok := namedTransforms[name]
		if !ok {
			return nil, fmt.Errorf("statemesh: unknown transform %q for state field %q", name, path)
		}
		table[path] = xf
	}
	for field, name := range cfg.ContextFields {
		xf, ok := namedTransforms[name]
		if !ok {
			return nil, fmt.Errorf("statemesh: unknown transform %q for context field %q", name, field)
		}
		table["context."+field] = xf
	}
	return table, nil
}
