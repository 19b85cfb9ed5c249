package transform

import (
	appsv1 "k8s.io/api/apps/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Shape locates the container list and the volume list of a
// container-bearing resource.
type Shape struct {
	ContainersPath string
	VolumesPath    string
}

// Shapes maps resource types to their shape. Only registered types are
// considered when binding volumes to containers.
type Shapes map[schema.GroupVersionKind]Shape

// DefaultShapes returns the registered container-bearing types.
func DefaultShapes() Shapes {
	return Shapes{
		appsv1.SchemeGroupVersion.WithKind("Deployment"): {
			ContainersPath: "spec.template.spec.containers",
			VolumesPath:    "spec.template.spec.volumes",
		},
	}
}

func (s Shapes) Register(gvk schema.GroupVersionKind, shape Shape) {
	s[gvk] = shape
}

func (s Shapes) Lookup(apiVersion, kind string) (Shape, bool) {
	shape, ok := s[schema.FromAPIVersionAndKind(apiVersion, kind)]
	return shape, ok
}
