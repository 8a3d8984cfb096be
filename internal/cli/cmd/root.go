package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"liftcup/internal/cli"
	"liftcup/internal/config"
	"liftcup/internal/pipeline"
	"liftcup/internal/util/deps"
)

const (
	ExitOK             = 0
	ExitCLIError       = 1
	ExitMissingDep     = 2
	ExitPackagingError = 3
	ExitUploadError    = 4
	ExitNamingError    = 5
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitError classifies err by the failure it wraps. When several releases
// failed, the first matching class in this order wins.
func exitError(err error) error {
	if err == nil {
		return nil
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return err
	}
	code := ExitCLIError
	switch {
	case errors.Is(err, deps.ErrNotFound):
		code = ExitMissingDep
	case errors.Is(err, pipeline.ErrPackaging):
		code = ExitPackagingError
	case errors.Is(err, pipeline.ErrUpload):
		code = ExitUploadError
	case errors.Is(err, pipeline.ErrNaming):
		code = ExitNamingError
	}
	return &ExitError{Code: code, Err: err}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "liftcup [files...]",
		Short: "Scene-name, package and post video releases",
		Long: "Lift Cup renames a video file to a scene-style release name, packages it as " +
			"split rar volumes with an sfv, an nfo and a par2 recovery set, and posts the " +
			"result with a usenet uploader. It is meant to run as a download completion hook.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Init(cmd.Root()); err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args, runMode{})
		},
	}

	pf := root.PersistentFlags()
	pf.String("temp-dir", "", "Work directory releases are built in (default <cache dir>/temp)")
	pf.String("log-dir", "", "Directory for per-release log files (default <state dir>/logs)")
	pf.BoolP("debug", "d", false, "Log debug output to the console")
	pf.Bool("nolog", false, "Do not write per-release log files")
	pf.String("rar-binary", "", "Path to rar")
	pf.String("sfv-binary", "", "Path to the sfv tool (cksfv)")
	pf.String("par2-binary", "", "Path to par2create or par2")
	pf.String("uploader", "", "Path to the usenet uploader")
	pf.String("uploader-config", "", "Config file passed to the uploader with -c")

	// `liftcup <file>` behaves like `liftcup run <file>`.
	cli.BindRunFlags(root.Flags())

	root.AddCommand(newRunCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newHookCmd())
	root.AddCommand(newNameCmd())
	root.AddCommand(newQualitiesCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}
