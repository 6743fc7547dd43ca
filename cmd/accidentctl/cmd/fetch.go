package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/smartcity/accidents/internal/service"
)

func newFetchCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download the dataset file if it is not present yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := service.NewFetcher(o.cfg.FetchTimeout, o.logger)
			if err := f.Ensure(cmd.Context(), o.cfg.DatasetURL, o.cfg.DatasetPath); err != nil {
				return err
			}

			info, err := os.Stat(o.cfg.DatasetPath)
			if err != nil {
				return err
			}
			num.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", o.cfg.DatasetPath, info.Size())
			return nil
		},
	}
}
