package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smartcity/accidents/internal/service"
)

func newExportCmd(o *options) *cobra.Command {
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered accidents to a CSV or XLSX file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "xlsx" {
				return fmt.Errorf("unknown format %q", format)
			}

			dash, closeFn, err := o.loadDashboard(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			spec := o.filterSpec()
			path := outPath
			if path == "" {
				path = service.ExportFilename(spec, format)
			}

			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if format == "xlsx" {
				err = dash.ExportXLSX(spec, f)
			} else {
				err = dash.ExportCSV(spec, f)
			}
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				os.Remove(path)
				return err
			}

			view, err := dash.GetTableView(spec)
			if err != nil {
				return err
			}
			num.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", view.Matched, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv or xlsx")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default accidents_filtered_<state>_<year>.<format>)")
	return cmd
}
