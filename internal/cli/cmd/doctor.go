package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"liftcup/internal/util/deps"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose external tools (rar, cksfv, par2, uploader, ffprobe)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			checks := []struct {
				name     string
				find     func() (string, error)
				optional bool
			}{
				{"rar", func() (string, error) { return deps.FindRar(viper.GetString("rar_binary")) }, false},
				{"sfv", func() (string, error) { return deps.FindSFV(viper.GetString("sfv_binary")) }, false},
				{"par2", func() (string, error) { return deps.FindPar2(viper.GetString("par2_binary")) }, false},
				{"uploader", func() (string, error) { return deps.FindUploader(viper.GetString("uploader")) }, false},
				{"ffprobe", deps.FindFFProbe, true},
			}

			var errs []error
			rows := make([][]string, 0, len(checks))
			for _, c := range checks {
				p, err := c.find()
				switch {
				case err == nil:
					rows = append(rows, []string{c.name, "ok", p})
				case c.optional:
					rows = append(rows, []string{c.name, "optional", "not found"})
				default:
					rows = append(rows, []string{c.name, "missing", err.Error()})
					errs = append(errs, err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Tool", "Status", "Path"}, rows, nil))
			if len(errs) > 0 {
				return &ExitError{Code: ExitMissingDep, Err: errors.Join(errs...)}
			}
			return nil
		},
	}
}
