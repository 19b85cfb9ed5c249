package transform

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Report collects findings that do not stop the transform. A nil Report
// only logs.
type Report struct {
	Warnings []string
}

func (r *Report) Warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logrus.Warn(msg)
	if r != nil {
		r.Warnings = append(r.Warnings, msg)
	}
}
