package document

import (
	"fmt"
)

// DeepCopy returns a copy of a decoded YAML value that shares no mappings or
// sequences with the original. yaml.v2 style maps are converted to
// map[string]interface{} on the way.
func DeepCopy(i interface{}) interface{} {
	switch t := i.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, v := range t {
			out[k] = DeepCopy(v)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, v := range t {
			out[keyString(k)] = DeepCopy(v)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for k, v := range t {
			out[k] = DeepCopy(v)
		}
		return out
	default:
		return i
	}
}

// DeepCopyMap is DeepCopy for a mapping; a nil map copies to an empty one.
func DeepCopyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return make(map[string]interface{})
	}
	return DeepCopy(m).(map[string]interface{})
}

func normalizeMap(m map[interface{}]interface{}) map[string]interface{} {
	nr := make(map[string]interface{}, len(m))
	for k, v := range m {
		nr[keyString(k)] = v
	}
	return nr
}

func keyString(k interface{}) string {
	switch kc := k.(type) {
	case string:
		return kc
	default:
		return fmt.Sprintf("%v", kc)
	}
}
