package s0_data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/weekday-effect/internal/contracts"
)

// LoadSchema reads a YAML schema descriptor. An empty path yields the default schema.
func LoadSchema(path string) (contracts.Schema, error) {
	if path == "" {
		return contracts.DefaultSchema(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return contracts.Schema{}, fmt.Errorf("read schema: %w", err)
	}

	var schema contracts.Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return contracts.Schema{}, fmt.Errorf("parse schema %s: %w", path, err)
	}

	return schema.WithDefaults(), nil
}
