package transform

import (
	"strings"

	"github.com/minio/pkg/wildcard"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/Inveniem/kustomize-storage-config-transformer/pkg/config"
	"github.com/Inveniem/kustomize-storage-config-transformer/pkg/document"
)

const volumeMountsField = "volumeMounts"

// Bind appends generated volume mounts to every matching container of the
// container-bearing resources, and generated volumes to each resource that
// had at least one matching container. Existing entries are kept.
func Bind(resources []map[string]interface{}, values []string, templates []config.ContainerVolumeTemplate, shapes Shapes, report *Report) ([]map[string]interface{}, error) {
	for i, tmpl := range templates {
		if err := bindTemplate(resources, values, tmpl, shapes, report); err != nil {
			return nil, errors.Wrapf(err, "containerVolumeTemplates[%d]", i)
		}
	}
	return resources, nil
}

func bindTemplate(resources []map[string]interface{}, values []string, tmpl config.ContainerVolumeTemplate, shapes Shapes, report *Report) error {
	names, err := containerNames(tmpl.Containers)
	if err != nil {
		return err
	}

	volumes, err := Expand(values, tmpl.VolumeTemplates)
	if err != nil {
		return errors.Wrap(err, "volumeTemplates")
	}
	mounts, err := Expand(values, tmpl.VolumeMountTemplates)
	if err != nil {
		return errors.Wrap(err, "volumeMountTemplates")
	}

	for _, volume := range volumes {
		name := document.GetString(volume, "name")
		if errs := validation.IsDNS1123Label(name); len(errs) > 0 {
			report.Warnf("generated volume name %q is not a valid volume name: %s", name, strings.Join(errs, "; "))
		}
	}

	for _, resource := range resources {
		apiVersion := document.GetString(resource, "apiVersion")
		kind := document.GetString(resource, "kind")
		shape, ok := shapes.Lookup(apiVersion, kind)
		if !ok {
			continue
		}

		resourceName := document.GetString(document.GetMap(resource, "metadata"), "name")
		matched, err := bindContainers(resource, shape, names, mounts)
		if err != nil {
			return errors.Wrapf(err, "%s %q", kind, resourceName)
		}
		if matched == 0 || len(volumes) == 0 {
			continue
		}

		existing, _, err := document.Get(resource, shape.VolumesPath)
		if err != nil {
			return errors.Wrapf(config.Errorf("%v", err), "%s %q", kind, resourceName)
		}
		list, err := sequence(existing, shape.VolumesPath)
		if err != nil {
			return errors.Wrapf(err, "%s %q", kind, resourceName)
		}
		if err := document.Set(resource, shape.VolumesPath, appendCopies(list, volumes)); err != nil {
			return errors.Wrapf(config.Errorf("%v", err), "%s %q", kind, resourceName)
		}
		logrus.Debugf("Added %d volumes to %s %s", len(volumes), kind, resourceName)
	}

	return nil
}

// bindContainers appends mounts to the containers of resource whose name
// matches one of names and returns how many matched.
func bindContainers(resource map[string]interface{}, shape Shape, names []string, mounts []map[string]interface{}) (int, error) {
	value, found, err := document.Get(resource, shape.ContainersPath)
	if err != nil {
		return 0, config.Errorf("%v", err)
	}
	if !found {
		return 0, nil
	}
	containers, err := sequence(value, shape.ContainersPath)
	if err != nil {
		return 0, err
	}

	matched := 0
	for _, c := range containers {
		container, ok := c.(map[string]interface{})
		if !ok {
			continue
		}

		name := document.GetString(container, "name")
		if !matchesAny(names, name) {
			continue
		}
		matched++

		if len(mounts) == 0 {
			continue
		}
		existing, err := sequence(container[volumeMountsField], volumeMountsField)
		if err != nil {
			return 0, errors.Wrapf(err, "container %q", name)
		}
		container[volumeMountsField] = appendCopies(existing, mounts)
		logrus.Debugf("Added %d volume mounts to container %s", len(mounts), name)
	}

	return matched, nil
}

// sequence returns value as a list. Absent and null values are an empty list;
// anything else that is not a list is a configuration error.
func sequence(value interface{}, path string) ([]interface{}, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		return v, nil
	default:
		return nil, config.Errorf("%s must be a list, found %T", path, value)
	}
}

func containerNames(containers []config.ContainerRef) ([]string, error) {
	if len(containers) == 0 {
		return nil, config.Errorf("containers must name at least one container")
	}

	names := make([]string, len(containers))
	for i, c := range containers {
		if c.Name == "" {
			return nil, errors.Wrapf(config.Errorf("name is required"), "containers[%d]", i)
		}
		names[i] = c.Name
	}
	return names, nil
}

func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if wildcard.Match(pattern, name) {
			return true
		}
	}
	return false
}

func appendCopies(list []interface{}, fragments []map[string]interface{}) []interface{} {
	out := make([]interface{}, 0, len(list)+len(fragments))
	out = append(out, list...)
	for _, fragment := range fragments {
		out = append(out, document.DeepCopyMap(fragment))
	}
	return out
}
