package transform

import (
	"github.com/pkg/errors"

	"github.com/Inveniem/kustomize-storage-config-transformer/pkg/config"
	"github.com/Inveniem/kustomize-storage-config-transformer/pkg/document"
)

// InjectValues writes each injected value, computed from permutation, into
// root.
func InjectValues(root map[string]interface{}, values []config.InjectedValue, permutation string) error {
	for i, v := range values {
		if err := injectValue(root, v, permutation); err != nil {
			return errors.Wrapf(err, "injectedValues[%d]", i)
		}
	}
	return nil
}

func injectValue(root map[string]interface{}, v config.InjectedValue, permutation string) error {
	if v.TargetField == "" {
		return config.Errorf("targetField (or the deprecated field) is required")
	}

	value, err := render(v.Prefix, permutation, v.Suffix, v.Replacements)
	if err != nil {
		return err
	}

	if err := document.Set(root, v.TargetField, value); err != nil {
		var pathErr *document.InvalidPathError
		if errors.As(err, &pathErr) {
			return config.Errorf("%v", pathErr)
		}
		return err
	}
	return nil
}
