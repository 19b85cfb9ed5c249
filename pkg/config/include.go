package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ResolveIncludes appends the spec entries of every included document to
// cfg.Spec, following includes of includes. Each location is read once, after
// environment variable expansion.
func ResolveIncludes(cfg *StorageConfigTransformer, source Source) error {
	seen := map[string]struct{}{}
	pending := append([]string(nil), cfg.Includes...)

	for len(pending) > 0 {
		location := os.ExpandEnv(pending[0])
		pending = pending[1:]

		if _, ok := seen[location]; ok {
			continue
		}
		seen[location] = struct{}{}

		logrus.Debugf("Including file: %s", location)

		included, err := readInclude(source, location)
		if err != nil {
			return errors.Wrapf(err, "includes: %s", location)
		}

		cfg.Spec = append(cfg.Spec, included.Spec...)
		pending = append(pending, included.Includes...)
	}

	return nil
}

func readInclude(source Source, location string) (*StorageConfigTransformer, error) {
	data, err := source.Read(location)
	if err != nil {
		return nil, err
	}

	included, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if err := CheckTypeMeta(included.APIVersion, included.Kind); err != nil {
		return nil, err
	}
	return included, nil
}
