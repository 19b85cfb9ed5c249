package krm

import (
	"gopkg.in/yaml.v3"
)

const (
	APIVersion = "config.kubernetes.io/v1"
	Kind       = "ResourceList"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ResourceList is the envelope exchanged with kustomize over stdin/stdout.
// FunctionConfig is kept as a node so it can be written back unchanged.
type ResourceList struct {
	APIVersion     string                   `yaml:"apiVersion"`
	Kind           string                   `yaml:"kind"`
	Items          []map[string]interface{} `yaml:"items"`
	FunctionConfig yaml.Node                `yaml:"functionConfig,omitempty"`
	Results        []Result                 `yaml:"results,omitempty"`
}

type Result struct {
	Message  string `yaml:"message"`
	Severity string `yaml:"severity"`
}
