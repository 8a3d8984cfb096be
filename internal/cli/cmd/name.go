package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"liftcup/internal/pipeline"
	"liftcup/internal/quality"
)

func newNameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "name [names...]",
		Short:         "Print the quality and scene name for file names",
		Long:          "name classifies bare file names and prints the scene name each would get. No file is read.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qs, _ := cmd.Flags().GetString("quality")
			skip, _ := cmd.Flags().GetBool("skipquality")
			override := quality.Unknown
			if qs != "" {
				t, err := quality.ParseOverride(qs)
				if err != nil {
					return &ExitError{Code: ExitCLIError, Err: err}
				}
				override = t
			}

			var errs []error
			rows := make([][]string, 0, len(args))
			for _, name := range args {
				tier, origin, sceneName, err := pipeline.NameRelease(name, override, skip)
				if err != nil {
					errs = append(errs, err)
					sceneName = "error: " + err.Error()
				}
				rows = append(rows, []string{name, tier.String(), string(origin), sceneName})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Quality", "From", "Scene name"}, rows, nil))
			return exitError(errors.Join(errs...))
		},
	}
	cmd.Flags().StringP("quality", "q", "", "Quality used when a name carries none")
	cmd.Flags().Bool("skipquality", false, "Only normalize the names")
	return cmd
}
