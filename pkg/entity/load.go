package entity

import (
	"fmt"

	"github.com/spf13/viper"
)

// schemaDocument is the on-disk form of a Schema.
type schemaDocument struct {
	Name   string  `mapstructure:"name"`
	Fields []Field `mapstructure:"fields"`
}

// LoadSchema reads a schema document (YAML, JSON or TOML, by extension).
func LoadSchema(path string) (*Schema, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}

	var doc schemaDocument
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode schema %s: %w", path, err)
	}

	schema, err := NewSchema(doc.Name, doc.Fields...)
	if err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", path, err)
	}
	return schema, nil
}
