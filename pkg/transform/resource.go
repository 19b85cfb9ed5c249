package transform

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/Inveniem/kustomize-storage-config-transformer/pkg/config"
	"github.com/Inveniem/kustomize-storage-config-transformer/pkg/document"
)

var (
	PersistentVolumeGVK      = corev1.SchemeGroupVersion.WithKind("PersistentVolume")
	PersistentVolumeClaimGVK = corev1.SchemeGroupVersion.WithKind("PersistentVolumeClaim")
)

// Generate builds one resource of the given type per permutation value from
// tmpl, in value order.
func Generate(values []string, tmpl *config.ResourceTemplate, gvk schema.GroupVersionKind, report *Report) ([]map[string]interface{}, error) {
	if len(tmpl.Spec) == 0 {
		return nil, config.Errorf("spec is required and must not be empty")
	}

	apiVersion, kind := gvk.ToAPIVersionAndKind()
	resources := make([]map[string]interface{}, 0, len(values))

	for i, value := range values {
		if err := checkPermutation(i, value); err != nil {
			return nil, err
		}

		name, err := GenerateName(tmpl.Name, value)
		if err != nil {
			return nil, errors.Wrap(err, "name")
		}

		metadata := map[string]interface{}{"name": name}
		if tmpl.Namespace != "" {
			metadata["namespace"] = tmpl.Namespace
		}

		resource := map[string]interface{}{
			"apiVersion": apiVersion,
			"kind":       kind,
			"metadata":   metadata,
			"spec":       document.DeepCopyMap(tmpl.Spec),
		}

		if err := InjectValues(resource, tmpl.InjectedValues, value); err != nil {
			return nil, err
		}

		name = document.GetString(document.GetMap(resource, "metadata"), "name")
		if errs := validation.IsDNS1123Subdomain(name); len(errs) > 0 {
			report.Warnf("generated %s name %q is not a valid resource name: %s", kind, name, strings.Join(errs, "; "))
		}

		logrus.Debugf("Generated %s %s for %q", kind, name, value)
		resources = append(resources, resource)
	}

	return resources, nil
}
