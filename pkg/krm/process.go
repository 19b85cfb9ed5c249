package krm

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/Inveniem/kustomize-storage-config-transformer/pkg/config"
	"github.com/Inveniem/kustomize-storage-config-transformer/pkg/transform"
)

const ErrorReportKind = "ErrorReport"

// InternalError is a failure that is not caused by the configuration. Its
// message carries the innermost stack trace of the cause.
type InternalError struct {
	cause error
}

func (e *InternalError) Error() string {
	msg := "internal error: " + e.cause.Error()
	if st := innermostStack(e.cause); st != nil {
		msg += fmt.Sprintf("%+v", st)
	}
	return msg
}

func (e *InternalError) Unwrap() error {
	return e.cause
}

// Processor runs the transformer over one invocation.
type Processor struct {
	Source config.Source
	Shapes transform.Shapes

	// ErrorReport replaces the items of a failed run with a single
	// ErrorReport resource that holds the raw input.
	ErrorReport bool
}

func NewProcessor() *Processor {
	return &Processor{
		Source: &config.FileSource{},
		Shapes: transform.DefaultShapes(),
	}
}

// Process reads a ResourceList from in and writes the transformed list to out.
// Transform failures are reported inside the written list, so the returned
// error is only set when the list cannot be read or written.
func (p *Processor) Process(in io.Reader, out io.Writer) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return errors.Wrap(err, "reading ResourceList")
	}

	rl := &ResourceList{}
	var report *transform.Report

	err = safely(func() error {
		if err := yaml.Unmarshal(raw, rl); err != nil {
			return config.Errorf("cannot decode ResourceList: %v", err)
		}

		cfg, err := Validate(rl, p.Source)
		if err != nil {
			return err
		}

		pipeline := p.pipeline()
		items, err := pipeline.Run(rl.Items, cfg.Spec)
		if err != nil {
			return err
		}

		rl.Items = items
		report = pipeline.Report
		return nil
	})

	if err != nil {
		p.fail(rl, raw, err)
	} else {
		for _, warning := range report.Warnings {
			rl.Results = append(rl.Results, Result{Message: warning, Severity: SeverityWarning})
		}
	}

	encoder := yaml.NewEncoder(out)
	if err := encoder.Encode(rl); err != nil {
		return errors.Wrap(err, "writing ResourceList")
	}
	return encoder.Close()
}

// ProcessLegacy runs the transformer the way alpha exec plugins are called:
// the functionConfig is read from configLocation, items arrive as a YAML
// stream on in and leave as a YAML stream on out. There is no envelope to
// report into, so failures are returned.
func (p *Processor) ProcessLegacy(configLocation string, in io.Reader, out io.Writer) error {
	var items []map[string]interface{}

	err := safely(func() error {
		data, err := p.Source.Read(configLocation)
		if err != nil {
			return err
		}
		cfg, err := config.Unmarshal(data)
		if err != nil {
			return err
		}
		if cfg, err = validateConfig(cfg, p.Source); err != nil {
			return err
		}

		resources, err := decodeStream(in)
		if err != nil {
			return err
		}

		items, err = p.pipeline().Run(resources, cfg.Spec)
		return err
	})
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(out)
	for _, item := range items {
		if err := encoder.Encode(item); err != nil {
			return errors.Wrap(err, "writing items")
		}
	}
	return encoder.Close()
}

func (p *Processor) pipeline() *transform.Pipeline {
	pipeline := transform.NewPipeline()
	if p.Shapes != nil {
		pipeline.Shapes = p.Shapes
	}
	return pipeline
}

func (p *Processor) fail(rl *ResourceList, raw []byte, err error) {
	logrus.Errorf("Transform failed: %v", err)

	rl.APIVersion = APIVersion
	rl.Kind = Kind
	rl.Items = []map[string]interface{}{}
	rl.Results = []Result{{Message: err.Error(), Severity: SeverityError}}

	if p.ErrorReport {
		rl.Items = append(rl.Items, map[string]interface{}{
			"apiVersion": config.APIVersion,
			"kind":       ErrorReportKind,
			"metadata":   map[string]interface{}{"name": "storage-config-transformer-error"},
			"spec": map[string]interface{}{
				"error": err.Error(),
				"input": string(raw),
			},
		})
	}
}

func decodeStream(in io.Reader) ([]map[string]interface{}, error) {
	var items []map[string]interface{}

	decoder := yaml.NewDecoder(in)
	for {
		item := make(map[string]interface{})
		if err := decoder.Decode(&item); err != nil {
			if err == io.EOF {
				break
			}
			return nil, config.Errorf("cannot decode items: %v", err)
		}
		if len(item) > 0 {
			items = append(items, item)
		}
	}

	return items, nil
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func innermostStack(err error) errors.StackTrace {
	var st errors.StackTrace
	for ; err != nil; err = errors.Unwrap(err) {
		if tracer, ok := err.(stackTracer); ok {
			st = tracer.StackTrace()
		}
	}
	return st
}

// safely runs fn and turns anything that is not a configuration error,
// including a panic, into an InternalError.
func safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &InternalError{cause: errors.Errorf("panic: %v", r)}
		}
	}()

	if err := fn(); err != nil {
		if config.IsError(err) {
			return err
		}
		if _, ok := err.(stackTracer); !ok {
			err = errors.WithStack(err)
		}
		return &InternalError{cause: err}
	}
	return nil
}
