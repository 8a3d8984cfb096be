package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"liftcup/internal/cli"
	"liftcup/internal/logging"
)

// skipArg as the quality argument tells the hook to do nothing.
const skipArg = "SKIP"

func newHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook <file> [quality|SKIP]",
		Short: "Completion-hook entry point for download clients",
		Long: "hook builds the release for one downloaded file without the interactive view. " +
			"The optional second argument is a quality override; SKIP leaves the file alone.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				q := strings.TrimSpace(args[1])
				if strings.EqualFold(q, skipArg) {
					logger := logging.New(logging.Options{})
					logger.Info().Str("file", args[0]).Msg("hook asked to skip")
					return nil
				}
				if q != "" && !cmd.Flags().Changed("quality") {
					if err := cmd.Flags().Set("quality", q); err != nil {
						return &ExitError{Code: ExitCLIError, Err: err}
					}
				}
			}
			return runExecute(cmd, args[:1], runMode{NoTUI: true})
		},
	}
	cli.BindRunFlags(cmd.Flags())
	if f := cmd.Flags().Lookup("no-ui"); f != nil {
		f.Hidden = true
	}
	return cmd
}
