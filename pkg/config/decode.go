package config

import (
	"gopkg.in/yaml.v3"
)

// Decode reads a functionConfig from a YAML node. Shape errors, such as a
// string where a list is expected, are configuration errors.
func Decode(node *yaml.Node) (*StorageConfigTransformer, error) {
	cfg := &StorageConfigTransformer{}
	if node == nil || node.IsZero() {
		return cfg, nil
	}
	if err := node.Decode(cfg); err != nil {
		return nil, Errorf("cannot decode functionConfig: %v", err)
	}
	return cfg, nil
}

// Unmarshal is Decode for raw YAML, used for functionConfig files.
func Unmarshal(data []byte) (*StorageConfigTransformer, error) {
	cfg := &StorageConfigTransformer{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, Errorf("cannot decode functionConfig: %v", err)
	}
	return cfg, nil
}
