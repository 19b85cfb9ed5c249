package transform

import (
	"github.com/pkg/errors"

	"github.com/Inveniem/kustomize-storage-config-transformer/pkg/config"
	"github.com/Inveniem/kustomize-storage-config-transformer/pkg/document"
)

// Expand builds one fragment per permutation value and template. The result
// is ordered by value first and template second, so the fragments generated
// for one value stay next to each other.
func Expand(values []string, templates []config.FragmentTemplate) ([]map[string]interface{}, error) {
	fragments := make([]map[string]interface{}, 0, len(values)*len(templates))

	for i, value := range values {
		if err := checkPermutation(i, value); err != nil {
			return nil, err
		}

		for j, tmpl := range templates {
			fragment, err := expandFragment(tmpl, value)
			if err != nil {
				return nil, errors.Wrapf(err, "templates[%d]", j)
			}
			fragments = append(fragments, fragment)
		}
	}

	return fragments, nil
}

func expandFragment(tmpl config.FragmentTemplate, value string) (map[string]interface{}, error) {
	name, err := GenerateName(tmpl.Name, value)
	if err != nil {
		return nil, errors.Wrap(err, "name")
	}

	fragment := map[string]interface{}{"name": name}
	for k, v := range tmpl.MergeSpec {
		fragment[k] = document.DeepCopy(v)
	}

	if err := InjectValues(fragment, tmpl.InjectedValues, value); err != nil {
		return nil, err
	}
	return fragment, nil
}

func checkPermutation(index int, value string) error {
	if value == "" {
		return errors.Wrapf(config.Errorf("permutation value must not be empty"), "permutations.values[%d]", index)
	}
	return nil
}
