package transform

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Inveniem/kustomize-storage-config-transformer/pkg/config"
)

// transformation is one kind of change a config block can request.
type transformation interface {
	key() string
	present(block *config.TransformerConfig) bool
	apply(p *Pipeline, resources []map[string]interface{}, values []string, block *config.TransformerConfig) ([]map[string]interface{}, error)
}

// transformations run in this order within a block, so generated volumes
// and claims are in the list before containers are bound.
var transformations = []transformation{
	persistentVolumes{},
	persistentVolumeClaims{},
	containerVolumes{},
}

// Pipeline applies the config blocks of a functionConfig to a resource list.
type Pipeline struct {
	Shapes Shapes
	Report *Report
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		Shapes: DefaultShapes(),
		Report: &Report{},
	}
}

// Run applies every block in order; each block sees the resources produced
// by the ones before it.
func (p *Pipeline) Run(resources []map[string]interface{}, blocks []config.TransformerConfig) ([]map[string]interface{}, error) {
	for i := range blocks {
		logrus.Debugf("Applying spec[%d]", i)

		out, err := p.runBlock(resources, &blocks[i])
		if err != nil {
			return nil, errors.Wrapf(err, "spec[%d]", i)
		}
		resources = out
	}
	return resources, nil
}

func (p *Pipeline) runBlock(resources []map[string]interface{}, block *config.TransformerConfig) ([]map[string]interface{}, error) {
	if block.Permutations == nil || len(block.Permutations.Values) == 0 {
		return nil, config.Errorf("permutations.values is required and must not be empty")
	}
	values := block.Permutations.Values

	var pending []transformation
	for _, t := range transformations {
		if t.present(block) {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		keys := make([]string, len(transformations))
		for i, t := range transformations {
			keys[i] = t.key()
		}
		return nil, config.Errorf("at least one of %s is required", strings.Join(keys, ", "))
	}

	for _, t := range pending {
		out, err := t.apply(p, resources, values, block)
		if err != nil {
			return nil, err
		}
		resources = out
	}
	return resources, nil
}

type persistentVolumes struct{}

func (persistentVolumes) key() string { return "persistentVolumeTemplate" }

func (persistentVolumes) present(block *config.TransformerConfig) bool {
	return !isEmptyTemplate(block.PersistentVolumeTemplate)
}

func (persistentVolumes) apply(p *Pipeline, resources []map[string]interface{}, values []string, block *config.TransformerConfig) ([]map[string]interface{}, error) {
	generated, err := Generate(values, block.PersistentVolumeTemplate, PersistentVolumeGVK, p.Report)
	if err != nil {
		return nil, errors.Wrap(err, "persistentVolumeTemplate")
	}
	return append(resources, generated...), nil
}

type persistentVolumeClaims struct{}

func (persistentVolumeClaims) key() string { return "persistentVolumeClaimTemplate" }

func (persistentVolumeClaims) present(block *config.TransformerConfig) bool {
	return !isEmptyTemplate(block.PersistentVolumeClaimTemplate)
}

func (persistentVolumeClaims) apply(p *Pipeline, resources []map[string]interface{}, values []string, block *config.TransformerConfig) ([]map[string]interface{}, error) {
	generated, err := Generate(values, block.PersistentVolumeClaimTemplate, PersistentVolumeClaimGVK, p.Report)
	if err != nil {
		return nil, errors.Wrap(err, "persistentVolumeClaimTemplate")
	}
	return append(resources, generated...), nil
}

type containerVolumes struct{}

func (containerVolumes) key() string { return "containerVolumeTemplates" }

func (containerVolumes) present(block *config.TransformerConfig) bool {
	return len(block.ContainerVolumeTemplates) > 0
}

func (containerVolumes) apply(p *Pipeline, resources []map[string]interface{}, values []string, block *config.TransformerConfig) ([]map[string]interface{}, error) {
	return Bind(resources, values, block.ContainerVolumeTemplates, p.Shapes, p.Report)
}

func isEmptyTemplate(t *config.ResourceTemplate) bool {
	return t == nil ||
		(len(t.Spec) == 0 && t.Namespace == "" && len(t.InjectedValues) == 0 &&
			t.Name.Prefix == "" && t.Name.Suffix == "" && len(t.Name.Replacements) == 0)
}
