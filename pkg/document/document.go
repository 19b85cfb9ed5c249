// Package document reads and writes fields of decoded YAML documents by
// dot-delimited paths such as "spec.azureFile.shareName".
package document

import (
	"fmt"
	"strconv"
	"strings"
)

// InvalidPathError is returned when a path runs into a value that can hold
// neither fields nor indexed elements.
type InvalidPathError struct {
	Path   string
	At     string
	Reason string
}

func (e *InvalidPathError) Error() string {
	if e.At == "" {
		return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("invalid path %q at %q: %s", e.Path, e.At, e.Reason)
}

// GetString returns the string stored under key, or "" when it is missing or
// not a string.
func GetString(r map[string]interface{}, key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	default:
		return ""
	}
}

// GetMap returns the mapping stored under key, converting a yaml.v2 style
// map[interface{}]interface{} in place. A missing or non-mapping value gives
// an empty, detached map.
func GetMap(r map[string]interface{}, key string) map[string]interface{} {
	switch c := r[key].(type) {
	case map[string]interface{}:
		return c
	case map[interface{}]interface{}:
		nr := normalizeMap(c)
		r[key] = nr
		return nr
	default:
		return make(map[string]interface{})
	}
}

// Get returns the value at path. The boolean is false when any segment of the
// path is absent.
func Get(root map[string]interface{}, path string) (interface{}, bool, error) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, false, err
	}

	var current interface{} = root
	for i, segment := range segments {
		switch c := current.(type) {
		case map[string]interface{}:
			next, ok := c[segment]
			if !ok {
				return nil, false, nil
			}
			current = next
		case map[interface{}]interface{}:
			next, ok := c[segment]
			if !ok {
				return nil, false, nil
			}
			current = next
		case []interface{}:
			index, err := sequenceIndex(path, segments[:i+1], segment, len(c))
			if err != nil {
				return nil, false, err
			}
			current = c[index]
		case nil:
			return nil, false, nil
		default:
			return nil, false, notAContainer(path, segments[:i], current)
		}
	}

	return current, true, nil
}

// Set writes value at path, creating intermediate mappings that are missing
// or null and overwriting whatever leaf value is already there.
func Set(root map[string]interface{}, path string, value interface{}) error {
	if root == nil {
		return &InvalidPathError{Path: path, Reason: "document is nil"}
	}

	segments, err := splitPath(path)
	if err != nil {
		return err
	}

	var current interface{} = root
	for i, segment := range segments {
		last := i == len(segments)-1

		switch c := current.(type) {
		case map[string]interface{}:
			if last {
				c[segment] = value
				return nil
			}
			current = descend(c, segment)
		case []interface{}:
			index, err := sequenceIndex(path, segments[:i+1], segment, len(c))
			if err != nil {
				return err
			}
			if last {
				c[index] = value
				return nil
			}
			switch next := c[index].(type) {
			case nil:
				created := make(map[string]interface{})
				c[index] = created
				current = created
			case map[interface{}]interface{}:
				converted := normalizeMap(next)
				c[index] = converted
				current = converted
			default:
				current = next
			}
		default:
			return notAContainer(path, segments[:i], current)
		}
	}

	return nil
}

func descend(m map[string]interface{}, segment string) interface{} {
	switch next := m[segment].(type) {
	case nil:
		created := make(map[string]interface{})
		m[segment] = created
		return created
	case map[interface{}]interface{}:
		converted := normalizeMap(next)
		m[segment] = converted
		return converted
	default:
		return next
	}
}

func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, &InvalidPathError{Path: path, Reason: "path is empty"}
	}

	segments := strings.Split(path, ".")
	for i, segment := range segments {
		if segment == "" {
			return nil, &InvalidPathError{
				Path:   path,
				At:     strings.Join(segments[:i], "."),
				Reason: "path contains an empty segment",
			}
		}
	}
	return segments, nil
}

func sequenceIndex(path string, at []string, segment string, length int) (int, error) {
	index, err := strconv.Atoi(segment)
	if err != nil || index < 0 || index >= length {
		return 0, &InvalidPathError{
			Path:   path,
			At:     strings.Join(at, "."),
			Reason: fmt.Sprintf("%q is not an index into a sequence of length %d", segment, length),
		}
	}
	return index, nil
}

func notAContainer(path string, at []string, value interface{}) error {
	return &InvalidPathError{
		Path:   path,
		At:     strings.Join(at, "."),
		Reason: fmt.Sprintf("value of type %T cannot hold fields", value),
	}
}
