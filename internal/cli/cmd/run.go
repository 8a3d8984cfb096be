package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"liftcup/internal/cli"
	"liftcup/internal/config"
	"liftcup/internal/logging"
	"liftcup/internal/model"
	"liftcup/internal/nfo"
	"liftcup/internal/pipeline"
	"liftcup/internal/progress"
	"liftcup/internal/ui"
	"liftcup/internal/util/deps"
)

type runMode struct {
	ForceTUI bool
	NoTUI    bool
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "run [files...]",
		Short:         "Build and post a release for each file",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args, runMode{})
		},
	}
	cli.BindRunFlags(cmd.Flags())
	return cmd
}

// assembleOptions merges config, env and flags into model.Options. The
// warning reports an ignored --quality value.
func assembleOptions(cmd *cobra.Command) (opts model.Options, warning error) {
	config.Apply(&opts)
	warning = cli.ReadRunFlags(cmd.Flags()).Apply(&opts)
	return opts, warning
}

// resolveTools fills opts.Tools with the located binaries. In test mode
// nothing is executed, so a missing tool only logs a warning and its
// default name is used in the logged commands.
func resolveTools(opts *model.Options, log zerolog.Logger) error {
	type lookup struct {
		dst   *string
		find  func(string) (string, error)
		names []string
		skip  bool
	}
	lookups := []lookup{
		{&opts.Tools.Rar, deps.FindRar, deps.RarNames, false},
		{&opts.Tools.SFV, deps.FindSFV, deps.SFVNames, false},
		{&opts.Tools.Par2, deps.FindPar2, deps.Par2Names, false},
		{&opts.Tools.Uploader, deps.FindUploader, deps.UploaderNames, opts.NoUpload},
	}
	for _, l := range lookups {
		if l.skip {
			continue
		}
		p, err := l.find(*l.dst)
		if err != nil {
			if !opts.Test {
				return err
			}
			log.Warn().Err(err).Msg("test mode, continuing without tool")
			if *l.dst == "" {
				*l.dst = l.names[0]
			}
			continue
		}
		*l.dst = p
	}
	if p, err := deps.FindFFProbe(); err == nil {
		opts.Tools.FFProbe = p
	} else {
		log.Debug().Err(err).Msg("nfo will carry no media info")
	}
	return nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func runExecute(cmd *cobra.Command, args []string, mode runMode) error {
	if err := cli.ValidateSources(args); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	opts, warning := assembleOptions(cmd)
	useTUI := !mode.NoTUI && (mode.ForceTUI || (!opts.NoUI && isTerminal()))
	log := logging.New(logging.Options{Debug: opts.Debug, Quiet: useTUI})
	if warning != nil {
		log.Warn().Err(warning).Msg("unknown quality")
	}
	if err := resolveTools(&opts, log); err != nil {
		return exitError(err)
	}

	relLog := logging.Options{Debug: opts.Debug, Quiet: useTUI, NoLog: opts.NoLog, Dir: opts.LogDir}
	var prober nfo.Prober
	if opts.Tools.FFProbe != "" {
		prober = nfo.NewFFProbe(opts.Tools.FFProbe)
	}
	runOne := releaseRunner(opts, relLog, prober)

	if useTUI {
		return exitError(ui.Run(cmd.Context(), args, runOne, opts.Test))
	}

	out := cmd.OutOrStdout()
	var errs []error
	for i, src := range args {
		if err := cmd.Context().Err(); err != nil {
			errs = append(errs, err)
			break
		}
		rep := textReporter{w: out, test: opts.Test}
		if err := runOne(cmd.Context(), fmt.Sprintf("job-%d", i), src, rep); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", src, err))
		}
	}
	return exitError(errors.Join(errs...))
}

// releaseRunner returns the function that builds one release with its own
// logger and log file.
func releaseRunner(opts model.Options, lo logging.Options, prober nfo.Prober) ui.RunFunc {
	return func(ctx context.Context, jobID, source string, rep progress.Reporter) error {
		log, closeLog, err := logging.ForRelease(lo, source, time.Now())
		if err != nil {
			return err
		}
		defer func() { _ = closeLog() }()

		svc := pipeline.NewService(
			pipeline.WithOptions(opts),
			pipeline.WithReporter(rep),
			pipeline.WithJobID(jobID),
			pipeline.WithLogger(log),
			pipeline.WithProber(prober),
		)
		_, err = svc.RunRelease(ctx, source)
		return err
	}
}

// textReporter prints one line per finished release; progress detail goes
// to the logger.
type textReporter struct {
	w    io.Writer
	test bool
}

func (textReporter) Update(progress.Update) {}
func (textReporter) Log(progress.Log)       {}

func (r textReporter) Result(res progress.Result) {
	switch {
	case res.Err != nil:
		return
	case res.Skipped:
		fmt.Fprintf(r.w, "Skipped: %s\n", res.SceneName)
	case r.test:
		fmt.Fprintf(r.w, "Planned: %s\n", res.SceneName)
	default:
		fmt.Fprintf(r.w, "Built: %s (%s)\n", res.OutputDir, humanize.IBytes(uint64(res.Bytes)))
	}
}
