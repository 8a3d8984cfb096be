package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"liftcup/internal/quality"
)

func newQualitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "qualities",
		Short:         "List the quality tiers accepted by --quality",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rows [][]string
			for _, t := range quality.All() {
				token, err := t.SceneToken()
				if err != nil {
					continue
				}
				rows = append(rows, []string{strconv.FormatUint(uint64(t), 10), t.Ident(), t.String(), token})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Value", "Identifier", "Display", "Token"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}
}
