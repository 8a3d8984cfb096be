package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"liftcup/internal/cli"
	"liftcup/internal/logging"
	"liftcup/internal/pipeline"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "plan [files...]",
		Short:         "Show the release name, layout and commands without touching any file",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE:          runPlan,
	}
	cli.BindRunFlags(cmd.Flags())
	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateSources(args); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	opts, warning := assembleOptions(cmd)
	log := logging.New(logging.Options{Debug: opts.Debug})
	if warning != nil {
		log.Warn().Err(warning).Msg("unknown quality")
	}

	// Planning never runs a tool, so missing ones are not fatal here.
	test := opts.Test
	opts.Test = true
	_ = resolveTools(&opts, log)
	opts.Test = test

	svc := pipeline.NewService(pipeline.WithOptions(opts), pipeline.WithLogger(log))
	out := cmd.OutOrStdout()
	var errs []error
	for i, src := range args {
		if i > 0 {
			fmt.Fprintln(out)
		}
		p, err := svc.Plan(src)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", src, err))
			fmt.Fprintf(out, "%s: %v\n", src, err)
			continue
		}
		printPlan(out, p)
	}
	return exitError(errors.Join(errs...))
}

func printPlan(w io.Writer, p *pipeline.Plan) {
	rel, layout := p.Release, p.Layout
	sidecars := "-"
	if len(rel.Sidecars) > 0 {
		names := make([]string, len(rel.Sidecars))
		for i, sc := range rel.Sidecars {
			names[i] = filepath.Base(sc.Source) + " -> " + sc.Name
		}
		sidecars = strings.Join(names, "\n")
	}
	existing := "-"
	if p.ExistingNFO != "" {
		existing = p.ExistingNFO
	}
	status := "new"
	if p.Exists {
		status = "exists, will be skipped"
	}

	rows := [][]string{
		{"Source", rel.Source},
		{"Size", humanize.IBytes(uint64(rel.SourceSize))},
		{"Quality", fmt.Sprintf("%s (from %s)", rel.Tier, rel.TierOrigin)},
		{"Scene name", rel.SceneName},
		{"Sidecars", sidecars},
		{"Release dir", layout.Dir},
		{"Volume size", fmt.Sprintf("%d MB", p.VolumeMB)},
		{"Existing nfo", existing},
		{"Status", status},
	}
	fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, rows, nil))
	fmt.Fprintln(w, "Commands:")
	for _, c := range p.Commands {
		fmt.Fprintf(w, "  (cd %s) %s\n", c.Dir, c.String())
	}
}
