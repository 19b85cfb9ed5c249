package krm

import (
	"github.com/pkg/errors"

	"github.com/Inveniem/kustomize-storage-config-transformer/pkg/config"
)

// Validate checks the envelope and returns its functionConfig with includes
// resolved. Nothing in rl is modified.
func Validate(rl *ResourceList, source config.Source) (*config.StorageConfigTransformer, error) {
	if rl.Kind != Kind {
		return nil, config.Errorf("unsupported ResourceList kind %q, expected %q", rl.Kind, Kind)
	}
	if rl.APIVersion != APIVersion {
		return nil, config.Errorf("unsupported ResourceList apiVersion %q, expected %q", rl.APIVersion, APIVersion)
	}
	if len(rl.Items) == 0 {
		return nil, config.Errorf("items must not be empty")
	}

	cfg, err := config.Decode(&rl.FunctionConfig)
	if err != nil {
		return nil, err
	}
	return validateConfig(cfg, source)
}

func validateConfig(cfg *config.StorageConfigTransformer, source config.Source) (*config.StorageConfigTransformer, error) {
	if err := config.CheckTypeMeta(cfg.APIVersion, cfg.Kind); err != nil {
		return nil, errors.Wrap(err, "functionConfig")
	}
	if err := config.ResolveIncludes(cfg, source); err != nil {
		return nil, errors.Wrap(err, "functionConfig")
	}
	if len(cfg.Spec) == 0 {
		return nil, config.Errorf("functionConfig: spec must not be empty")
	}
	return cfg, nil
}
