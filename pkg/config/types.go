package config

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	APIVersion = "kubernetes.inveniem.com/storage-config-transformer/v1alpha"
	Kind       = "StorageConfigTransformer"
)

// StorageConfigTransformer is the functionConfig of the plugin.
type StorageConfigTransformer struct {
	APIVersion string                 `yaml:"apiVersion"`
	Kind       string                 `yaml:"kind"`
	Metadata   map[string]interface{} `yaml:"metadata,omitempty"`
	Includes   []string               `yaml:"includes,omitempty"`
	Spec       []TransformerConfig    `yaml:"spec"`
}

// TransformerConfig is one entry of the functionConfig spec. At least one of
// the three templates must be set.
type TransformerConfig struct {
	Permutations                  *Permutations             `yaml:"permutations"`
	PersistentVolumeTemplate      *ResourceTemplate         `yaml:"persistentVolumeTemplate"`
	PersistentVolumeClaimTemplate *ResourceTemplate         `yaml:"persistentVolumeClaimTemplate"`
	ContainerVolumeTemplates      []ContainerVolumeTemplate `yaml:"containerVolumeTemplates"`
}

type Permutations struct {
	Values []string `yaml:"values"`
}

type Replacement struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

type NameTemplate struct {
	Prefix       string        `yaml:"prefix"`
	Suffix       string        `yaml:"suffix"`
	Replacements []Replacement `yaml:"replacements"`
}

// InjectedValue writes prefix + permutation value + suffix, after
// replacements, to TargetField of the generated structure.
type InjectedValue struct {
	TargetField  string        `yaml:"targetField"`
	Prefix       string        `yaml:"prefix"`
	Suffix       string        `yaml:"suffix"`
	Replacements []Replacement `yaml:"replacements"`

	// FromDeprecatedField is set when TargetField was read from "field".
	FromDeprecatedField bool `yaml:"-"`
}

// UnmarshalYAML folds the deprecated "field" key into TargetField.
// "targetField" wins when both are present.
func (v *InjectedValue) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		TargetField  string        `yaml:"targetField"`
		Field        string        `yaml:"field"`
		Prefix       string        `yaml:"prefix"`
		Suffix       string        `yaml:"suffix"`
		Replacements []Replacement `yaml:"replacements"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	*v = InjectedValue{
		TargetField:  raw.TargetField,
		Prefix:       raw.Prefix,
		Suffix:       raw.Suffix,
		Replacements: raw.Replacements,
	}
	if v.TargetField == "" && raw.Field != "" {
		v.TargetField = raw.Field
		v.FromDeprecatedField = true
		logrus.Warnf("injected value for %q uses the deprecated \"field\" key (line %d), use \"targetField\" instead", raw.Field, node.Line)
	}
	return nil
}

// ResourceTemplate describes one generated top-level resource per
// permutation value.
type ResourceTemplate struct {
	Name           NameTemplate           `yaml:"name"`
	Namespace      string                 `yaml:"namespace"`
	Spec           map[string]interface{} `yaml:"spec"`
	InjectedValues []InjectedValue        `yaml:"injectedValues"`
}

type ContainerRef struct {
	Name string `yaml:"name"`
}

type ContainerVolumeTemplate struct {
	Containers           []ContainerRef     `yaml:"containers"`
	VolumeTemplates      []FragmentTemplate `yaml:"volumeTemplates"`
	VolumeMountTemplates []FragmentTemplate `yaml:"volumeMountTemplates"`
}

// FragmentTemplate describes one generated list element, such as a volume or
// a volume mount, per permutation value.
type FragmentTemplate struct {
	Name           NameTemplate           `yaml:"name"`
	MergeSpec      map[string]interface{} `yaml:"mergeSpec"`
	InjectedValues []InjectedValue        `yaml:"injectedValues"`
}
