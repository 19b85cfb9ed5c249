package main

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Inveniem/kustomize-storage-config-transformer/pkg/krm"
)

const (
	debugEnv       = "STORAGECONFIGTRANSFORMER_DEBUG"
	errorReportEnv = "STORAGECONFIGTRANSFORMER_ERROR_REPORT"
)

func main() {
	if err := newCommand(os.Stdin, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand(in io.Reader, out io.Writer) *cobra.Command {
	var debug, errorReport bool

	cmd := &cobra.Command{
		Use:   "StorageConfigTransformer [functionConfig file]",
		Short: "Generate per-tenant volumes, claims and volume mounts for kustomize",
		Long: `Reads a ResourceList on stdin and writes the transformed list to stdout.
Errors are reported as results of the list and the exit code stays 0.

When a functionConfig file is given, the plugin runs as a legacy exec
plugin: items are read from and written to a YAML stream, and errors
make it exit with 1.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cmd.ErrOrStderr(), debug)

			p := krm.NewProcessor()
			p.ErrorReport = errorReport

			if len(args) == 1 {
				return p.ProcessLegacy(args[0], in, out)
			}
			return p.Process(in, out)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", envEnabled(debugEnv), "log every generated resource to stderr (env "+debugEnv+")")
	cmd.Flags().BoolVar(&errorReport, "error-report", envEnabled(errorReportEnv), "on failure, return the raw input as an ErrorReport item (env "+errorReportEnv+")")

	return cmd
}

// stdout carries the resource list, so logs only ever go to stderr
func setupLogging(w io.Writer, debug bool) {
	logrus.SetOutput(w)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logrus.SetLevel(logrus.WarnLevel)

	if debug {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.Warn("- WARNING - StorageConfigTransformer debugging enabled - WARNING -")
	}
}

func envEnabled(name string) bool {
	v := strings.ToUpper(os.Getenv(name))
	return len(v) > 0 && (v[0] == '1' || v[0] == 'T')
}
