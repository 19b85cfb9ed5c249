package config

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is a configuration problem the user can fix. Its message is meant to
// be read as is; callers add positional context with errors.Wrapf.
type Error struct {
	msg string
}

func (e *Error) Error() string {
	return e.msg
}

func Errorf(format string, args ...interface{}) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// IsError reports whether err, or anything it wraps, is a configuration
// error.
func IsError(err error) bool {
	var cfgErr *Error
	return errors.As(err, &cfgErr)
}

// CheckTypeMeta verifies that a document is a StorageConfigTransformer of the
// supported version.
func CheckTypeMeta(apiVersion, kind string) error {
	if kind != Kind {
		return Errorf("unsupported kind %q, expected %q", kind, Kind)
	}
	if apiVersion != APIVersion {
		return Errorf("unsupported apiVersion %q, expected %q", apiVersion, APIVersion)
	}
	return nil
}
